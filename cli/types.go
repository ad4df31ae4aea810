package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// FlagType is the type of value of a flag.
type FlagType string

const (
	FlagString FlagType = "string"
	FlagBool   FlagType = "bool"
	FlagSlice  FlagType = "slice"
)

type Flag struct {
	Type      FlagType
	Name      string
	ShortHand string
	Usage     string
	Default   string
	IsValid   func(string) bool
}

// Values are the arguments and flags of a command, by name.
type Values map[string][]string

// GetString returns the first value of the key.
func (v Values) GetString(s string) string {
	r := v[s]
	if len(r) == 0 {
		return ""
	}
	return r[0]
}

// GetBool returns the first value of the key as a boolean, false if it can't be parsed.
func (v Values) GetBool(s string) bool {
	b, _ := strconv.ParseBool(v.GetString(s))
	return b
}

// GetStringSlice returns every non empty value of the key.
func (v Values) GetStringSlice(s string) []string {
	var res []string
	for _, item := range v[s] {
		for _, i := range strings.Split(item, "||") {
			if i != "" {
				res = append(res, i)
			}
		}
	}
	return res
}

type Arg struct {
	Name    string
	IsValid func(string) bool
}

type Command struct {
	Name         string
	Args         []Arg
	OptionalArgs []Arg
	Short        string
	Long         string
	Example      string
	Hidden       bool
	Flags        []Flag
}

var ErrWrongUsage = &Error{2, fmt.Errorf("Wrong usage")}

type Error struct {
	Code int
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

type GetResult interface{}

type RunFunc func(Values) error
type RunGetFunc func(Values) (GetResult, error)
