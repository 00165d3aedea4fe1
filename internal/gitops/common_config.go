package gitops

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/temirov/gitfleet/internal/console"
)

const (
	pullRebaseConfigurationKeyConstant      = "pull.rebase"
	rebaseAutoStashConfigurationKeyConstant = "rebase.autoStash"
	enabledConfigurationValueConstant       = "true"
	settingConfigurationTemplateConstant    = "Setting %q to %q.\n"
	alreadyConfiguredTemplateConstant       = "%q already set to %q.\n"
	unableToConfigureTemplateConstant       = "ERROR: Was unable to enable git %q.\n"
)

// GlobalConfigurator reads and writes global git configuration.
type GlobalConfigurator interface {
	GlobalConfigValue(executionContext context.Context, key string) (string, bool, error)
	SetGlobalConfigValue(executionContext context.Context, key string, value string) error
}

// ConfigurationSetting is one global git key and its desired value.
type ConfigurationSetting struct {
	Key   string
	Value string
}

// CommonConfigurationSettings lists the settings that keep fleet pulls linear.
func CommonConfigurationSettings() []ConfigurationSetting {
	return []ConfigurationSetting{
		{Key: pullRebaseConfigurationKeyConstant, Value: enabledConfigurationValueConstant},
		{Key: rebaseAutoStashConfigurationKeyConstant, Value: enabledConfigurationValueConstant},
	}
}

// ApplyConfigurationSettings writes every setting whose current value differs, reporting progress to output.
// A failing setting does not prevent the remaining ones from being applied.
func ApplyConfigurationSettings(executionContext context.Context, configurator GlobalConfigurator, settings []ConfigurationSetting, output io.Writer) error {
	var settingErrors []error
	for _, setting := range settings {
		currentValue, _, readError := configurator.GlobalConfigValue(executionContext, setting.Key)
		if readError != nil {
			settingErrors = append(settingErrors, readError)
			if outputError := console.Write(output, unableToConfigureTemplateConstant, setting.Key); outputError != nil {
				return errors.Join(append(settingErrors, outputError)...)
			}
			continue
		}

		if strings.EqualFold(currentValue, setting.Value) {
			if outputError := console.Write(output, alreadyConfiguredTemplateConstant, setting.Key, setting.Value); outputError != nil {
				return errors.Join(append(settingErrors, outputError)...)
			}
			continue
		}

		if outputError := console.Write(output, settingConfigurationTemplateConstant, setting.Key, setting.Value); outputError != nil {
			return errors.Join(append(settingErrors, outputError)...)
		}
		if writeError := configurator.SetGlobalConfigValue(executionContext, setting.Key, setting.Value); writeError != nil {
			settingErrors = append(settingErrors, writeError)
			if outputError := console.Write(output, unableToConfigureTemplateConstant, setting.Key); outputError != nil {
				return errors.Join(append(settingErrors, outputError)...)
			}
		}
	}
	return errors.Join(settingErrors...)
}
