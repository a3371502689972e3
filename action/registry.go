package action

import (
	"context"
	"encoding/json"
	"sync"

	widget "github.com/yourgpt/widget-sdk-go"
)

// registeredAction combines an action definition with its handler.
type registeredAction struct {
	action  widget.Action
	handler Handler
}

// Registration pairs an action definition with its handler, ready to be
// added to a Registry.
type Registration struct {
	Action  widget.Action
	Handler Handler
}

// Registry manages registered actions and their handlers.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	actions map[string]registeredAction
}

// NewRegistry creates an empty action registry.
func NewRegistry() *Registry {
	return &Registry{
		actions: make(map[string]registeredAction),
	}
}

// Register adds an action with its handler to the registry.
// Returns an error if an action with the same name is already registered.
func (r *Registry) Register(a widget.Action, handler Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.actions[a.Name]; exists {
		return &ErrActionAlreadyRegistered{Name: a.Name}
	}

	r.actions[a.Name] = registeredAction{
		action:  a,
		handler: handler,
	}
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(a widget.Action, handler Handler) {
	if err := r.Register(a, handler); err != nil {
		panic(err)
	}
}

// Add registers one or more Registrations and returns the registry for
// chaining. Panics on duplicate names.
func (r *Registry) Add(regs ...Registration) *Registry {
	for _, reg := range regs {
		r.MustRegister(reg.Action, reg.Handler)
	}
	return r
}

// Unregister removes an action from the registry.
// It is a no-op if the action is not registered.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.actions, name)
}

// Get retrieves a handler by action name.
// Returns the handler and true if found, or nil and false if not found.
func (r *Registry) Get(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ra, ok := r.actions[name]
	if !ok {
		return nil, false
	}
	return ra.handler, true
}

// GetAction retrieves an action definition by name.
// Returns the action and true if found, or empty action and false if not found.
func (r *Registry) GetAction(name string) (widget.Action, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ra, ok := r.actions[name]
	if !ok {
		return widget.Action{}, false
	}
	return ra.action, true
}

// Actions returns all registered action definitions.
func (r *Registry) Actions() []widget.Action {
	r.mu.RLock()
	defer r.mu.RUnlock()

	actions := make([]widget.Action, 0, len(r.actions))
	for _, ra := range r.actions {
		actions = append(actions, ra.action)
	}
	return actions
}

// Names returns the names of all registered actions.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.actions))
	for name := range r.actions {
		names = append(names, name)
	}
	return names
}

// Len returns the number of registered actions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.actions)
}

// Func creates a Registration from a typed handler. The parameter schema is
// generated from the argument struct type T, and incoming arguments are
// validated against it before the handler runs. Panics if T does not yield a
// schema; use this from initialization code.
func Func[T any](name, description string, fn TypedHandler[T]) Registration {
	resolved, err := resolveFor[T]()
	if err != nil {
		panic(err)
	}

	handler := func(ctx context.Context, inv widget.Invocation, h Helpers) (string, error) {
		if err := validateArguments(resolved, inv.Arguments); err != nil {
			return "", &ErrInvalidArguments{Name: name, Err: err}
		}
		var args T
		if inv.Arguments != "" {
			if err := json.Unmarshal([]byte(inv.Arguments), &args); err != nil {
				return "", &ErrInvalidArguments{Name: name, Err: err}
			}
		}
		return fn(ctx, args, h)
	}

	return Registration{
		Action: widget.Action{
			Name:        name,
			Description: description,
			Parameters:  MustSchemaFor[T](),
		},
		Handler: handler,
	}
}

// Execute runs the handler for an invocation and returns a Result.
// If the action is not found, returns ErrActionNotFound.
// If the handler returns an error, the error is captured in Result.IsError
// and the error message is returned as the content so the widget can surface
// it in the conversation.
func (r *Registry) Execute(ctx context.Context, inv widget.Invocation, h Helpers) (widget.Result, error) {
	handler, ok := r.Get(inv.Name)
	if !ok {
		return widget.Result{}, &ErrActionNotFound{Name: inv.Name}
	}

	content, err := handler(ctx, inv, h)
	if err != nil {
		return widget.Result{
			InvocationID: inv.ID,
			Content:      err.Error(),
			IsError:      true,
		}, nil
	}

	return widget.Result{
		InvocationID: inv.ID,
		Content:      content,
		IsError:      false,
	}, nil
}
