package execshell

// CommandEventObserver receives lifecycle notifications for each git invocation.
type CommandEventObserver interface {
	CommandStarted(command ShellCommand)
	CommandCompleted(command ShellCommand, result ExecutionResult)
	// CommandExecutionFailed fires when the process could not be started or awaited.
	CommandExecutionFailed(command ShellCommand, failure error)
}

// observerFanout forwards every event to each registered observer in order.
type observerFanout []CommandEventObserver

func newObserverFanout(observers []CommandEventObserver) observerFanout {
	fanout := make(observerFanout, 0, len(observers))
	for _, observer := range observers {
		if observer != nil {
			fanout = append(fanout, observer)
		}
	}
	return fanout
}

func (fanout observerFanout) CommandStarted(command ShellCommand) {
	for _, observer := range fanout {
		observer.CommandStarted(command)
	}
}

func (fanout observerFanout) CommandCompleted(command ShellCommand, result ExecutionResult) {
	for _, observer := range fanout {
		observer.CommandCompleted(command, result)
	}
}

func (fanout observerFanout) CommandExecutionFailed(command ShellCommand, failure error) {
	for _, observer := range fanout {
		observer.CommandExecutionFailed(command, failure)
	}
}
