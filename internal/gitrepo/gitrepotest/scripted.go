// Package gitrepotest provides a scripted git executor for handler tests.
package gitrepotest

import (
	"context"
	"strings"

	"github.com/temirov/wgit/internal/execshell"
)

const argumentSeparatorConstant = " "

// Response is one scripted git reply. A non-zero ExitCode produces execshell.CommandFailedError.
type Response struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
	Err            error
}

// Output scripts a successful reply.
func Output(standardOutput string) Response {
	return Response{StandardOutput: standardOutput}
}

// Failure scripts a non-zero exit.
func Failure(exitCode int, standardError string) Response {
	return Response{ExitCode: exitCode, StandardError: standardError}
}

// ScriptedExecutor replays responses keyed by the space-joined git arguments and records every call.
// Commands without a script succeed with empty output. When a command has several responses they are
// consumed in order and the last one repeats.
type ScriptedExecutor struct {
	responses map[string][]Response
	Calls     []execshell.CommandDetails
}

// NewScriptedExecutor constructs an executor without scripted responses.
func NewScriptedExecutor() *ScriptedExecutor {
	return &ScriptedExecutor{responses: map[string][]Response{}}
}

// Script registers responses for a command such as "status --porcelain".
func (executor *ScriptedExecutor) Script(command string, responses ...Response) *ScriptedExecutor {
	executor.responses[command] = append(executor.responses[command], responses...)
	return executor
}

// ExecuteGit records the call and returns the scripted response.
func (executor *ScriptedExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.Calls = append(executor.Calls, details)
	key := strings.Join(details.Arguments, argumentSeparatorConstant)

	scripted := executor.responses[key]
	if len(scripted) == 0 {
		return execshell.ExecutionResult{}, nil
	}
	response := scripted[0]
	if len(scripted) > 1 {
		executor.responses[key] = scripted[1:]
	}

	if response.Err != nil {
		return execshell.ExecutionResult{}, response.Err
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

// Commands lists every recorded call as space-joined arguments.
func (executor *ScriptedExecutor) Commands() []string {
	commands := make([]string, 0, len(executor.Calls))
	for _, details := range executor.Calls {
		commands = append(commands, strings.Join(details.Arguments, argumentSeparatorConstant))
	}
	return commands
}

// Ran reports whether the command was executed.
func (executor *ScriptedExecutor) Ran(command string) bool {
	for _, recorded := range executor.Commands() {
		if recorded == command {
			return true
		}
	}
	return false
}
