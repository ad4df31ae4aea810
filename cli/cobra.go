package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fsamin/go-dump"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/ovh/layersync/sdk"
)

// ShellMode will os.Exit if false, display only exit code if true
var ShellMode bool

// ExitOnError if the error is not nil; exit the process with printing help functions and the error.
// The exit code is the one of the known error.
func ExitOnError(err error, helpFunc ...func() error) {
	if err == nil {
		return
	}

	var code int
	switch e := err.(type) {
	case *Error:
		code = e.Code
		fmt.Fprintln(os.Stderr, "Error:", e.Error())
	default:
		code = sdk.ExitCode(err)
		fmt.Fprintln(os.Stderr, "Error:", err.Error())
	}

	for _, f := range helpFunc {
		f() // nolint
	}

	OSExit(code)
}

// OSExit will os.Exit if ShellMode is false, display only exit code if true
func OSExit(code int) {
	if ShellMode {
		// display code only if os.Exit is not ok
		if code != 0 {
			fmt.Printf("Command exit with code %d\n", code)
		}
	} else {
		os.Exit(code)
	}
}

// SubCommands represents an array of cobra.Command
type SubCommands []*cobra.Command

// NewCommand creates a new cobra command with or without a RunFunc and eventually subCommands
func NewCommand(c Command, run RunFunc, subCommands SubCommands) *cobra.Command {
	return newCommand(c, run, subCommands)
}

// NewGetCommand creates a new cobra command with a RunGetFunc and eventually subCommands.
// The result is displayed according to the format flag: plain, json or yaml.
func NewGetCommand(c Command, run RunGetFunc, subCommands SubCommands) *cobra.Command {
	c.Flags = append(c.Flags, Flag{
		Name:    "format",
		Default: "plain",
		Usage:   "Output format: plain|json|yaml",
		IsValid: func(s string) bool { return s == "plain" || s == "json" || s == "yaml" },
	})
	return newCommand(c, run, subCommands)
}

func newCommand(c Command, run interface{}, subCommands SubCommands) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetOut(os.Stdout)
	cmd.Use = c.Name

	for _, a := range c.Args {
		cmd.Use = cmd.Use + " " + strings.ToUpper(a.Name)
	}
	for _, a := range c.OptionalArgs {
		cmd.Use = cmd.Use + " [" + strings.ToUpper(a.Name) + "]"
	}

	for _, f := range c.Flags {
		switch f.Type {
		case FlagBool:
			b, _ := strconv.ParseBool(f.Default)
			_ = cmd.Flags().BoolP(f.Name, f.ShortHand, b, f.Usage)
		case FlagSlice:
			var def []string
			if f.Default != "" {
				def = strings.Split(f.Default, ",")
			}
			_ = cmd.Flags().StringSliceP(f.Name, f.ShortHand, def, f.Usage)
		default:
			_ = cmd.Flags().StringP(f.Name, f.ShortHand, f.Default, f.Usage)
		}
	}

	definedArgs := append(append([]Arg{}, c.Args...), c.OptionalArgs...)

	cmd.Short = c.Short
	cmd.Long = c.Long
	cmd.Hidden = c.Hidden
	cmd.Example = c.Example

	cmd.AddCommand(subCommands...)

	switch f := run.(type) {
	case RunFunc:
		if f == nil {
			return cmd
		}
	case RunGetFunc:
		if f == nil {
			return cmd
		}
	default:
		return cmd
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		//Command must receive as least mandatory args
		if len(c.Args) > len(args) || len(args) > len(definedArgs) {
			cmd.Help() // nolint
			return ErrWrongUsage
		}

		vals, err := argsToValues(cmd, c, definedArgs, args)
		if err != nil {
			cmd.Help() // nolint
			return err
		}

		switch f := run.(type) {
		case RunFunc:
			return f(vals)
		case RunGetFunc:
			i, err := f(vals)
			if err != nil {
				return err
			}
			return Display(cmd.OutOrStdout(), i, vals.GetString("format"))
		}
		return nil
	}
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}

func argsToValues(cmd *cobra.Command, c Command, definedArgs []Arg, args []string) (Values, error) {
	vals := Values{}
	for i := range args {
		a := definedArgs[i]
		if a.IsValid != nil && !a.IsValid(args[i]) {
			return nil, &Error{ErrWrongUsage.Code, fmt.Errorf("%s is invalid", a.Name)}
		}
		vals[a.Name] = append(vals[a.Name], args[i])
	}

	for _, f := range c.Flags {
		s := f.Name
		switch f.Type {
		case FlagBool:
			b, err := cmd.Flags().GetBool(s)
			if err != nil {
				return nil, err
			}
			vals[s] = append(vals[s], strconv.FormatBool(b))
		case FlagSlice:
			slice, err := cmd.Flags().GetStringSlice(s)
			if err != nil {
				return nil, err
			}
			vals[s] = append(vals[s], strings.Join(slice, "||"))
		default:
			val, err := cmd.Flags().GetString(s)
			if err != nil {
				return nil, err
			}
			vals[s] = append(vals[s], val)
		}
		if f.IsValid != nil {
			for _, v := range vals[s] {
				if !f.IsValid(v) {
					return nil, &Error{ErrWrongUsage.Code, fmt.Errorf("%s is invalid", s)}
				}
			}
		}
	}
	return vals, nil
}

// Display writes i in the given format: json, yaml, or a plain sorted list of key/values.
func Display(w io.Writer, i interface{}, format string) error {
	switch format {
	case "json":
		b, err := json.MarshalIndent(i, "", "  ")
		if err != nil {
			return sdk.WithStack(err)
		}
		fmt.Fprintln(w, string(b))
	case "yaml":
		b, err := yaml.Marshal(i)
		if err != nil {
			return sdk.WithStack(err)
		}
		fmt.Fprint(w, string(b))
	default:
		m, err := dump.ToStringMap(i)
		if err != nil {
			return sdk.WithStack(err)
		}
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		tw := tabwriter.NewWriter(w, 10, 0, 1, ' ', 0)
		for _, k := range keys {
			fmt.Fprintln(tw, k+"\t"+m[k])
		}
		return tw.Flush()
	}
	return nil
}
