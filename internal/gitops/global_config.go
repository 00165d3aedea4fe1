package gitops

import (
	"context"
	"errors"
	"strings"

	"github.com/temirov/gitfleet/internal/execshell"
)

const (
	configCommandConstant              = "config"
	globalFlagConstant                 = "--global"
	getFlagConstant                    = "--get"
	readGlobalConfigOperationConstant  = "read global config"
	writeGlobalConfigOperationConstant = "write global config"
	missingConfigExitCodeConstant      = 1
)

// GlobalConfigValue reads a key from the global git configuration.
// The boolean is false when the key is unset.
func (adapter *Adapter) GlobalConfigValue(executionContext context.Context, key string) (string, bool, error) {
	result, readError := adapter.runGit(executionContext, "", configCommandConstant, globalFlagConstant, getFlagConstant, key)
	if readError != nil {
		var failedError execshell.CommandFailedError
		if errors.As(readError, &failedError) && failedError.Result.ExitCode == missingConfigExitCodeConstant {
			return "", false, nil
		}
		return "", false, OperationError{Operation: readGlobalConfigOperationConstant, Target: key, Cause: readError}
	}
	return strings.TrimSpace(result.StandardOutput), true, nil
}

// SetGlobalConfigValue writes a key to the global git configuration.
func (adapter *Adapter) SetGlobalConfigValue(executionContext context.Context, key string, value string) error {
	if _, writeError := adapter.runGit(executionContext, "", configCommandConstant, globalFlagConstant, key, value); writeError != nil {
		return OperationError{Operation: writeGlobalConfigOperationConstant, Target: key, Cause: writeError}
	}
	return nil
}
