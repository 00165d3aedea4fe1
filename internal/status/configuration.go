package status

const (
	manifestPathsConfigurationKey = "poms"
	unpulledConfigurationKey      = "unpulled"
)

// Configuration holds the default column selection for status reports.
type Configuration struct {
	ManifestPaths bool `mapstructure:"poms"`
	Unpulled      bool `mapstructure:"unpulled"`
}

// DefaultConfigurationValues exposes the defaults keyed for the configuration loader.
func DefaultConfigurationValues(sectionKey string) map[string]any {
	return map[string]any{
		sectionKey + "." + manifestPathsConfigurationKey: false,
		sectionKey + "." + unpulledConfigurationKey:      false,
	}
}
