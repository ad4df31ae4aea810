package sdk

import (
	"bytes"
	"encoding/json"
)

// JSONUnmarshal decodes btes into i. Unknown fields are ignored.
func JSONUnmarshal(btes []byte, i interface{}) error {
	if len(bytes.TrimSpace(btes)) == 0 {
		return WrapError(NewErrorFrom(ErrUnknownError, "empty json body"), "unable to unmarshal")
	}
	if err := json.Unmarshal(btes, i); err != nil {
		return WrapError(err, "unable to unmarshal %q", truncate(btes, 128))
	}
	return nil
}

func truncate(btes []byte, n int) string {
	if len(btes) <= n {
		return string(btes)
	}
	return string(btes[:n]) + "..."
}
