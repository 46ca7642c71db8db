package task

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Handler executes one task type against its JSON payload.
type Handler interface {
	Handle(ctx context.Context, payload []byte) (Result, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, payload []byte) (Result, error)

// Handle calls f(ctx, payload).
func (f HandlerFunc) Handle(ctx context.Context, payload []byte) (Result, error) {
	return f(ctx, payload)
}

// RetryPolicy bounds how often a failed task is re-run and how long the
// runner waits between attempts.
type RetryPolicy struct {
	MaxRetries uint
	Delay      time.Duration
}

// NoRetry is the policy for tasks whose failures are final.
func NoRetry() RetryPolicy {
	return RetryPolicy{}
}

type definition struct {
	policy  RetryPolicy
	handler Handler
}

// Registry is the explicit table of task types the runner can execute.
// Tasks recovered from storage are rebuilt through it.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]definition)}
}

// Register adds a task type. Registering the same type twice is an error.
func (r *Registry) Register(taskType string, policy RetryPolicy, handler Handler) error {
	if taskType == "" || handler == nil {
		return fmt.Errorf("%w: type and handler are required", ErrInvalidPayload)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.defs[taskType]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTaskType, taskType)
	}
	r.defs[taskType] = definition{policy: policy, handler: handler}
	return nil
}

// Policy returns the retry policy for taskType, or NoRetry when the type is
// unknown.
func (r *Registry) Policy(taskType string) RetryPolicy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if def, ok := r.defs[taskType]; ok {
		return def.policy
	}
	return NoRetry()
}

// Types lists the registered task types in sorted order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.defs))
	for t := range r.defs {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// NewTask marshals payload and builds a task with a fresh id.
func (r *Registry) NewTask(taskType string, payload any) (Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return r.Build(uuid.New(), taskType, data)
}

// Build creates an executable task from its stored parts.
func (r *Registry) Build(id uuid.UUID, taskType string, payload []byte) (Task, error) {
	r.mu.RLock()
	def, ok := r.defs[taskType]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTaskType, taskType)
	}

	return &registeredTask{
		id:       id,
		taskType: taskType,
		payload:  payload,
		handler:  def.handler,
	}, nil
}

type registeredTask struct {
	id       uuid.UUID
	taskType string
	payload  []byte
	handler  Handler
}

func (t *registeredTask) ID() uuid.UUID {
	return t.id
}

func (t *registeredTask) Type() string {
	return t.taskType
}

func (t *registeredTask) Payload() []byte {
	return t.payload
}

func (t *registeredTask) Execute(ctx context.Context) (Result, error) {
	return t.handler.Handle(ctx, t.payload)
}

// decodePayload unmarshals a task payload, marking failures terminal since
// a malformed payload will never decode on a later attempt.
func decodePayload(payload []byte, v any) error {
	if err := json.Unmarshal(payload, v); err != nil {
		return Terminal(fmt.Errorf("%w: %v", ErrInvalidPayload, err))
	}
	return nil
}
