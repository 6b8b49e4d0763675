// Package action holds the registry of invocable element actions.
//
// An action is looked up by key or alias and executed against a single
// element. Execution always yields either nil ("not our key") or a
// well-formed Result; failures inside an action never escape the registry.
package action

import (
	"context"
	"errors"

	"github.com/v0xg/pickr/internal/dom"
)

// ClickKey is the action run when an element is committed, by left click in
// mouse mode or Enter in input mode.
const ClickKey = "click"

// DefaultCategory is assigned to actions registered without one.
const DefaultCategory = "General"

// ErrInvalidAction is returned for registrations missing a key, name or
// execute function.
var ErrInvalidAction = errors.New("invalid action")

// ErrDuplicateKey is returned when a key is already registered.
var ErrDuplicateKey = errors.New("duplicate action key")

// ExecFunc runs an action against el.
type ExecFunc func(ctx context.Context, el dom.Element) (Result, error)

// Action is a named, keyed operation on a single element.
type Action struct {
	Key         string
	Name        string
	Description string
	Category    string
	Aliases     []string
	Execute     ExecFunc
}

// Result is the uniform outcome of an action.
type Result struct {
	Feedback string `json:"feedback" yaml:"feedback"`
	// Value is the machine-usable result: a string, a structured value or nil.
	Value any `json:"result" yaml:"result"`
	// Failed marks an error outcome.
	Failed bool `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failure builds an error Result.
func Failure(feedback string) Result {
	return Result{Feedback: feedback, Failed: true}
}

// Runner executes the action resolved by key against el and surfaces the
// outcome. Implementations may run the action asynchronously.
type Runner interface {
	Run(key string, el dom.Element)
}
