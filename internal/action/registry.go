package action

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/v0xg/pickr/internal/clipboard"
	"github.com/v0xg/pickr/internal/dom"
	"github.com/v0xg/pickr/internal/logger"
)

// ClipboardFailedFeedback replaces the feedback of an action whose result
// could not be copied.
const ClipboardFailedFeedback = "Clipboard operation failed"

// Registry indexes actions by key and alias. The first registration of a key
// is authoritative; later ones are dropped.
type Registry struct {
	mu         sync.RWMutex
	actions    map[string]*Action
	order      []string
	aliases    map[string]string
	categories []string

	clip clipboard.Writer
	// copyEnabled gates the clipboard side effect; nil means enabled.
	copyEnabled func() bool
}

// NewRegistry creates an empty registry writing string results to clip. A
// nil clip disables the clipboard side effect.
func NewRegistry(clip clipboard.Writer) *Registry {
	return &Registry{
		actions: make(map[string]*Action),
		aliases: make(map[string]string),
		clip:    clip,
	}
}

// SetCopyEnabled installs the gate consulted before each clipboard write.
func (r *Registry) SetCopyEnabled(fn func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.copyEnabled = fn
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Register adds a. Invalid and duplicate registrations are logged and
// dropped; the returned error is informational.
func (r *Registry) Register(a Action) error {
	if normalize(a.Key) == "" || a.Name == "" || a.Execute == nil {
		err := fmt.Errorf("%w: key=%q name=%q execute=%t", ErrInvalidAction, a.Key, a.Name, a.Execute != nil)
		logger.With("registry").Warn(err)
		return err
	}

	a.Key = normalize(a.Key)
	if a.Category == "" {
		a.Category = DefaultCategory
	}
	aliases := make([]string, 0, len(a.Aliases))
	for _, al := range a.Aliases {
		if al = normalize(al); al != "" {
			aliases = append(aliases, al)
		}
	}
	a.Aliases = aliases

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.actions[a.Key]; ok {
		err := fmt.Errorf("%w: %q already registered by %q", ErrDuplicateKey, a.Key, prev.Name)
		logger.With("registry").Warn(err)
		return err
	}

	r.actions[a.Key] = &a
	r.order = append(r.order, a.Key)
	if !contains(r.categories, a.Category) {
		r.categories = append(r.categories, a.Category)
	}
	for _, al := range a.Aliases {
		if owner, taken := r.aliases[al]; taken {
			logger.With("registry").Warnf("alias %q of %q already belongs to %q", al, a.Key, owner)
			continue
		}
		r.aliases[al] = a.Key
	}
	logger.Debugf("registry: registered %q (%s)", a.Key, a.Name)
	return nil
}

// Get returns the action registered under key, or nil.
func (r *Registry) Get(key string) *Action {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.get(normalize(key))
}

func (r *Registry) get(key string) *Action {
	a, ok := r.actions[key]
	if !ok {
		return nil
	}
	cp := *a
	return &cp
}

// GetByAlias returns the action owning alias, or nil.
func (r *Registry) GetByAlias(alias string) *Action {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key, ok := r.aliases[normalize(alias)]
	if !ok {
		return nil
	}
	return r.get(key)
}

// Resolve looks input up as a key first and as an alias only when no key
// matches.
func (r *Registry) Resolve(input string) *Action {
	if a := r.Get(input); a != nil {
		return a
	}
	return r.GetByAlias(input)
}

// Has reports whether input resolves to an action.
func (r *Registry) Has(input string) bool {
	return r.Resolve(input) != nil
}

// ExecuteByKey runs the action resolved from key against el. It returns nil
// when nothing resolves. Errors and panics from the action become error
// results. A successful non-empty string value is copied to the clipboard;
// a failed copy downgrades the result.
func (r *Registry) ExecuteByKey(ctx context.Context, key string, el dom.Element) *Result {
	a := r.Resolve(key)
	if a == nil {
		return nil
	}

	res := r.run(ctx, a, el)
	if res.Failed {
		return &res
	}
	if text, ok := res.Value.(string); ok && text != "" && r.shouldCopy() {
		if err := r.clip.Write(ctx, text); err != nil {
			logger.With("registry").Warnf("clipboard write for %q failed: %v", a.Key, err)
			return &Result{Feedback: ClipboardFailedFeedback, Failed: true}
		}
	}
	return &res
}

func (r *Registry) run(ctx context.Context, a *Action, el dom.Element) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			logger.With("registry").Errorf("action %q panicked: %v", a.Key, p)
			res = Failure(fmt.Sprintf("Error executing %s: %v", a.Name, p))
		}
	}()
	out, err := a.Execute(ctx, el)
	if err != nil {
		logger.With("registry").Debugf("action %q failed: %v", a.Key, err)
		return Failure(fmt.Sprintf("Error executing %s: %s", a.Name, err.Error()))
	}
	return out
}

func (r *Registry) shouldCopy() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.clip == nil {
		return false
	}
	return r.copyEnabled == nil || r.copyEnabled()
}

// All returns every action in registration order.
func (r *Registry) All() []Action {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Action, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, *r.actions[k])
	}
	return out
}

// ByCategory returns the actions of one category in registration order.
func (r *Registry) ByCategory(category string) []Action {
	var out []Action
	for _, a := range r.All() {
		if a.Category == category {
			out = append(out, a)
		}
	}
	return out
}

// Categories returns the distinct categories in first-seen order.
func (r *Registry) Categories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.categories...)
}

// Group is the actions of one category.
type Group struct {
	Category string
	Actions  []Action
}

// Groups returns actions grouped by category, categories in first-seen order
// and actions in registration order within each.
func (r *Registry) Groups() []Group {
	var out []Group
	for _, c := range r.Categories() {
		out = append(out, Group{Category: c, Actions: r.ByCategory(c)})
	}
	return out
}

// AvailableKeys lists the single-character keys a-z0-9 not yet taken.
func (r *Registry) AvailableKeys() []string {
	var out []string
	for _, c := range "abcdefghijklmnopqrstuvwxyz0123456789" {
		if r.Get(string(c)) == nil {
			out = append(out, string(c))
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
