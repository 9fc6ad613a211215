package commandbus

import (
	"context"
	"fmt"
)

// Command is an immutable instruction dispatched to exactly one handler.
// CommandType must be callable on the zero value, so commands are plain
// struct values.
type Command interface {
	CommandType() string
}

// Handler handles one concrete command type.
type Handler[C Command] interface {
	Handle(ctx context.Context, cmd C) (Result, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc[C Command] func(ctx context.Context, cmd C) (Result, error)

func (f HandlerFunc[C]) Handle(ctx context.Context, cmd C) (Result, error) {
	return f(ctx, cmd)
}

// Result describes the outcome of one command. Expected domain failures are
// reported here, never as Go errors.
type Result struct {
	Success      bool           `json:"success"`
	ErrorMessage string         `json:"error_message,omitempty"`
	Data         map[string]any `json:"data,omitempty"`
}

func Ok() Result {
	return Result{Success: true}
}

func OkWith(data map[string]any) Result {
	return Result{Success: true, Data: data}
}

func Fail(message string) Result {
	return Result{Success: false, ErrorMessage: message}
}

func Failf(format string, args ...any) Result {
	return Fail(fmt.Sprintf(format, args...))
}

// CommandExecuted is published after every successful dispatch.
type CommandExecuted struct {
	CommandType string
	Command     Command
}
