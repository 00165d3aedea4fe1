package testsupport

import (
	"context"
	"strings"
	"sync"

	"github.com/temirov/gitfleet/internal/execshell"
)

const (
	scriptKeySeparatorConstant = " :: "
	argumentSeparatorConstant  = " "
)

// Response describes the scripted outcome of one git invocation.
type Response struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
	Error          error
}

// Invocation records a git call with the global safety options removed.
type Invocation struct {
	WorkingDirectory string
	Command          string
	Details          execshell.CommandDetails
}

// GitExecutorStub returns scripted responses keyed by working directory and subcommand.
// Unscripted commands succeed with empty output. A scripted sequence is consumed in order and its last entry repeats.
type GitExecutorStub struct {
	Scripts     map[string][]Response
	Invocations []Invocation
	mutex       sync.Mutex
}

// NewGitExecutorStub constructs an empty stub.
func NewGitExecutorStub() *GitExecutorStub {
	return &GitExecutorStub{Scripts: make(map[string][]Response)}
}

// ScriptKey builds the lookup key for a repository-scoped command. An empty directory matches every repository.
func ScriptKey(workingDirectory string, command string) string {
	return workingDirectory + scriptKeySeparatorConstant + command
}

// Script registers responses for a command in a repository.
func (stub *GitExecutorStub) Script(workingDirectory string, command string, responses ...Response) {
	stub.mutex.Lock()
	defer stub.mutex.Unlock()
	if stub.Scripts == nil {
		stub.Scripts = make(map[string][]Response)
	}
	stub.Scripts[ScriptKey(workingDirectory, command)] = append([]Response{}, responses...)
}

// ExecuteGit records the invocation and replays the scripted response.
func (stub *GitExecutorStub) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	stub.mutex.Lock()
	defer stub.mutex.Unlock()

	command := strings.Join(execshell.StripGlobalGitOptions(details.Arguments), argumentSeparatorConstant)
	stub.Invocations = append(stub.Invocations, Invocation{
		WorkingDirectory: details.WorkingDirectory,
		Command:          command,
		Details:          details,
	})

	response := stub.nextResponse(details.WorkingDirectory, command)
	if response.Error != nil {
		return execshell.ExecutionResult{}, response.Error
	}

	result := execshell.ExecutionResult{
		StandardOutput: response.StandardOutput,
		StandardError:  response.StandardError,
		ExitCode:       response.ExitCode,
	}
	if response.ExitCode != 0 {
		return execshell.ExecutionResult{}, execshell.CommandFailedError{
			Command: execshell.ShellCommand{Name: execshell.CommandGit, Details: details},
			Result:  result,
		}
	}
	return result, nil
}

// Commands lists the commands executed in the repository, in order.
func (stub *GitExecutorStub) Commands(workingDirectory string) []string {
	stub.mutex.Lock()
	defer stub.mutex.Unlock()

	commands := make([]string, 0, len(stub.Invocations))
	for _, invocation := range stub.Invocations {
		if invocation.WorkingDirectory == workingDirectory {
			commands = append(commands, invocation.Command)
		}
	}
	return commands
}

// ExecutedSubcommand reports whether any command in the repository started with the subcommand.
func (stub *GitExecutorStub) ExecutedSubcommand(workingDirectory string, subcommand string) bool {
	for _, command := range stub.Commands(workingDirectory) {
		if command == subcommand || strings.HasPrefix(command, subcommand+argumentSeparatorConstant) {
			return true
		}
	}
	return false
}

func (stub *GitExecutorStub) nextResponse(workingDirectory string, command string) Response {
	for _, key := range []string{ScriptKey(workingDirectory, command), ScriptKey("", command)} {
		responses, exists := stub.Scripts[key]
		if !exists || len(responses) == 0 {
			continue
		}
		response := responses[0]
		if len(responses) > 1 {
			stub.Scripts[key] = responses[1:]
		}
		return response
	}
	return Response{}
}
