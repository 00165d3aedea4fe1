package workflows

import (
	"github.com/temirov/gitfleet/internal/registry"
	"github.com/temirov/gitfleet/internal/shared"
	"github.com/temirov/gitfleet/internal/status"
)

// CommandConfiguration gathers the configuration sections the batch commands read.
type CommandConfiguration struct {
	Registry registry.Configuration
	Policy   shared.BranchPolicy
	Report   status.Configuration
}

// DefaultCommandConfiguration returns the baseline configuration.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Registry: registry.DefaultConfiguration(),
		Policy:   shared.DefaultBranchPolicy(),
		Report:   status.Configuration{},
	}
}

func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	return CommandConfiguration{
		Registry: configuration.Registry.Sanitize(),
		Policy:   configuration.Policy.Sanitize(),
		Report:   configuration.Report,
	}
}
