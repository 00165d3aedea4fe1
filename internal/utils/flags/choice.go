package flags

import (
	"fmt"
	"strings"
)

const (
	choiceSeparatorConstant           = "|"
	choiceTypeNameConstant            = "choice"
	choiceUsageTemplateConstant       = "`<%s>` %s"
	unsupportedChoiceTemplateConstant = "unsupported %s: %s (expected one of %s)"
)

// ChoiceValue is a pflag.Value restricted to a fixed, case-insensitive set of options.
// An unset flag leaves the target empty so configuration files can supply the value.
type ChoiceValue struct {
	target  *string
	subject string
	choices []string
}

// NewChoiceValue binds target to the normalized choices. subject names the
// setting in error messages, for example "log level".
func NewChoiceValue(target *string, subject string, choices []string) *ChoiceValue {
	normalized := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))
	for _, choice := range choices {
		key := strings.ToLower(strings.TrimSpace(choice))
		if len(key) == 0 {
			continue
		}
		if _, duplicate := seen[key]; duplicate {
			continue
		}
		seen[key] = struct{}{}
		normalized = append(normalized, key)
	}
	return &ChoiceValue{target: target, subject: subject, choices: normalized}
}

// Set accepts any listed choice regardless of case.
func (value *ChoiceValue) Set(candidate string) error {
	key := strings.ToLower(strings.TrimSpace(candidate))
	for _, choice := range value.choices {
		if choice == key {
			*value.target = choice
			return nil
		}
	}
	return fmt.Errorf(unsupportedChoiceTemplateConstant, value.subject, candidate, strings.Join(value.choices, choiceSeparatorConstant))
}

func (value *ChoiceValue) String() string {
	if value == nil || value.target == nil {
		return ""
	}
	return *value.target
}

// Type reports the placeholder shown by pflag.
func (value *ChoiceValue) Type() string {
	return choiceTypeNameConstant
}

// Usage renders the choices with the default upper-cased, e.g. "`<debug|INFO>` Log level".
func (value *ChoiceValue) Usage(defaultChoice string, description string) string {
	defaultKey := strings.ToLower(strings.TrimSpace(defaultChoice))
	rendered := make([]string, 0, len(value.choices))
	for _, choice := range value.choices {
		if choice == defaultKey {
			choice = strings.ToUpper(choice)
		}
		rendered = append(rendered, choice)
	}
	return strings.TrimSpace(fmt.Sprintf(choiceUsageTemplateConstant, strings.Join(rendered, choiceSeparatorConstant), strings.TrimSpace(description)))
}
