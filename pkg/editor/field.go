// Package editor implements click-to-edit fields that save themselves as
// soon as an edit is confirmed.
package editor

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/juno/pkg/utils/errutil"
)

var ErrInvalidTransition = goerr.New("invalid field transition")

// State of an editable field
type State int

const (
	Viewing State = iota
	Editing
)

func (s State) String() string {
	switch s {
	case Viewing:
		return "viewing"
	case Editing:
		return "editing"
	default:
		return "unknown"
	}
}

// SaveFunc persists a confirmed value
type SaveFunc[T any] func(ctx context.Context, v T) error

// Field is a value shown in view mode that can be switched to an edit
// buffer. Confirm shows the new value immediately and rolls back to the
// last value known to the server when saving fails.
type Field[T any] struct {
	name     string
	save     SaveFunc[T]
	validate func(T) error

	mu      sync.Mutex
	state   State
	display T
	temp    T
	server  T
}

// FieldOption configures a Field
type FieldOption[T any] func(*Field[T])

// WithValidator rejects a value on Confirm before anything is displayed or saved
func WithValidator[T any](fn func(T) error) FieldOption[T] {
	return func(f *Field[T]) {
		f.validate = fn
	}
}

// NewField creates a field in the Viewing state displaying initial
func NewField[T any](name string, initial T, save SaveFunc[T], opts ...FieldOption[T]) *Field[T] {
	f := &Field[T]{
		name:    name,
		save:    save,
		display: initial,
		server:  initial,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns the field name used in logs and errors
func (f *Field[T]) Name() string {
	return f.name
}

// State returns the current editing state
func (f *Field[T]) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Value returns the displayed value
func (f *Field[T]) Value() T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.display
}

// Temp returns the edit buffer
func (f *Field[T]) Temp() T {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.temp
}

// StartEdit loads the displayed value into the edit buffer
func (f *Field[T]) StartEdit() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != Viewing {
		return f.invalid("start edit")
	}
	f.temp = f.display
	f.state = Editing
	return nil
}

func (f *Field[T]) SetTemp(v T) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != Editing {
		return f.invalid("set temp")
	}
	f.temp = v
	return nil
}

// Cancel drops the edit buffer
func (f *Field[T]) Cancel() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != Editing {
		return f.invalid("cancel")
	}
	var zero T
	f.temp = zero
	f.state = Viewing
	return nil
}

// Confirm displays the edit buffer and saves it. On failure the display
// reverts to the last saved value and the error is returned. There is no
// retry.
func (f *Field[T]) Confirm(ctx context.Context) error {
	f.mu.Lock()
	if f.state != Editing {
		f.mu.Unlock()
		return f.invalid("confirm")
	}
	v := f.temp
	if f.validate != nil {
		if err := f.validate(v); err != nil {
			f.mu.Unlock()
			return err
		}
	}
	var zero T
	f.display = v
	f.temp = zero
	f.state = Viewing
	f.mu.Unlock()

	if err := f.save(ctx, v); err != nil {
		f.mu.Lock()
		f.display = f.server
		f.mu.Unlock()

		err = goerr.Wrap(err, "failed to save field", goerr.V("field", f.name))
		return errutil.Handle(ctx, err, "auto-save failed")
	}

	f.mu.Lock()
	f.server = v
	f.mu.Unlock()
	return nil
}

// Sync takes a value fetched from the server. The display follows unless
// the field is being edited.
func (f *Field[T]) Sync(v T) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.server = v
	if f.state == Viewing {
		f.display = v
	}
}

func (f *Field[T]) invalid(trigger string) error {
	return goerr.Wrap(ErrInvalidTransition, "trigger not allowed in current state",
		goerr.V("field", f.name), goerr.V("trigger", trigger), goerr.V("state", f.state.String()))
}
