package cli

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/roach88/atomstore/internal/engine"
)

// requireFlags returns a *engine.ValidationError naming every flag in names
// that was not set on the command line, or nil.
// Unlike MarkFlagRequired, missing flags are reported as E201.
func requireFlags(fs *pflag.FlagSet, names ...string) error {
	var missing []string
	for _, name := range names {
		if !fs.Changed(name) {
			missing = append(missing, "--"+name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &engine.ValidationError{
		Fields:  missing,
		Message: "missing required flags: " + strings.Join(missing, ", "),
	}
}

// stringFlag returns the value of a string flag, or "" if it is not defined.
func stringFlag(fs *pflag.FlagSet, name string) string {
	v, _ := fs.GetString(name)
	return v
}
