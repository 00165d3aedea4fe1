package flags

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

const (
	toggleTypeNameConstant      = "bool"
	toggleParseErrorTemplate    = "invalid toggle value %q"
	toggleImplicitValueConstant = "true"
)

var toggleLiterals = map[string]bool{
	"true": true, "yes": true, "y": true, "on": true, "1": true,
	"false": false, "no": false, "n": false, "off": false, "0": false,
}

// toggleValue is a bool flag that also understands yes/no and on/off spellings.
// It reports the "bool" type so cobra's GetBool keeps working.
type toggleValue struct {
	target *bool
}

func (value toggleValue) Set(rawValue string) error {
	parsed, known := toggleLiterals[strings.ToLower(strings.TrimSpace(rawValue))]
	if !known {
		return fmt.Errorf(toggleParseErrorTemplate, rawValue)
	}
	*value.target = parsed
	return nil
}

func (value toggleValue) String() string {
	if value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value toggleValue) Type() string {
	return toggleTypeNameConstant
}

// AddToggleFlag registers a boolean flag. A bare "--name" means true and
// "--name=no" style assignments are accepted.
func AddToggleFlag(flagSet *pflag.FlagSet, name string, shorthand string, defaultValue bool, usage string) {
	if flagSet == nil || len(name) == 0 || flagSet.Lookup(name) != nil {
		return
	}
	target := new(bool)
	*target = defaultValue
	flag := flagSet.VarPF(toggleValue{target: target}, name, shorthand, usage)
	flag.NoOptDefVal = toggleImplicitValueConstant
}
