package addin

import (
	"context"
	"errors"
	"fmt"
)

// ErrExecuteDisabled is returned when executing a command whose inputs are
// invalid or that has no execute handler.
var ErrExecuteDisabled = errors.New("addin: execute disabled")

// ValidateEvent is passed to validate handlers. Handlers clear Valid to
// block execution.
type ValidateEvent struct {
	Inputs *Inputs
	Valid  bool
	// Reason explains why the inputs were rejected.
	Reason string
}

// Reject marks the inputs invalid. The first reason is kept.
func (e *ValidateEvent) Reject(reason string) {
	if e.Valid {
		e.Reason = reason
	}
	e.Valid = false
}

type (
	InputChangedHandler func(cmd *Command, changed Input)
	ValidateHandler     func(*ValidateEvent)
	ExecuteHandler      func(ctx context.Context, cmd *Command) error
)

// Command is a running instance of a command definition.
type Command struct {
	Definition *CommandDefinition
	Inputs     *Inputs
	// IsExecutedWhenPreempted runs execute when another command interrupts this one.
	IsExecutedWhenPreempted bool

	inputChanged []InputChangedHandler
	validate     []ValidateHandler
	execute      []ExecuteHandler
}

// OnInputChanged adds a handler for input edits.
func (c *Command) OnInputChanged(h InputChangedHandler) { c.inputChanged = append(c.inputChanged, h) }

// OnValidate adds a handler that checks inputs before execute is enabled.
func (c *Command) OnValidate(h ValidateHandler) { c.validate = append(c.validate, h) }

// OnExecute adds a handler run when the user confirms the dialog.
func (c *Command) OnExecute(h ExecuteHandler) { c.execute = append(c.execute, h) }

// Changed notifies handlers that in was edited and revalidates.
func (c *Command) Changed(in Input) ValidateEvent {
	for _, h := range c.inputChanged {
		h(c, in)
	}
	return c.Validate()
}

// Validate runs the validate handlers over the current inputs.
func (c *Command) Validate() ValidateEvent {
	ev := ValidateEvent{Inputs: c.Inputs, Valid: true}
	for _, h := range c.validate {
		h(&ev)
	}
	return ev
}

// CanExecute reports whether Execute would run handlers.
func (c *Command) CanExecute() bool { return len(c.execute) > 0 && c.Validate().Valid }

// Execute validates the inputs and runs the execute handlers in order. It
// stops at the first handler error.
func (c *Command) Execute(ctx context.Context) error {
	if len(c.execute) == 0 {
		return fmt.Errorf("%w: no execute handler", ErrExecuteDisabled)
	}
	if ev := c.Validate(); !ev.Valid {
		return fmt.Errorf("%w: %s", ErrExecuteDisabled, ev.Reason)
	}
	for _, h := range c.execute {
		if err := h(ctx, c); err != nil {
			return err
		}
	}
	return nil
}
