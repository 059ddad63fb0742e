package history

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/TWRT/taskdesk/internal/logger"
)

// State is what an undo/redo affordance needs to render itself.
type State struct {
	CanUndo   bool   `json:"can_undo"`
	CanRedo   bool   `json:"can_redo"`
	UndoLabel string `json:"undo_label,omitempty"`
	RedoLabel string `json:"redo_label,omitempty"`
	Len       int    `json:"len"`
}

// History is a linear undo/redo stack. Commands before the cursor are
// done, commands at or after it are undone. Operations are serialized;
// the cursor only moves when the command call succeeds.
type History struct {
	mu       sync.Mutex
	commands []Command
	cursor   int
	limit    int
	log      logrus.FieldLogger

	listenersMu sync.Mutex
	listeners   map[int]func(State)
	nextID      int
}

type Option func(*History)

// WithLimit keeps at most n done commands, dropping the oldest. n <= 0
// means unbounded.
func WithLimit(n int) Option {
	return func(h *History) {
		h.limit = n
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(h *History) {
		h.log = log
	}
}

func New(opts ...Option) *History {
	h := &History{listeners: make(map[int]func(State))}
	for _, opt := range opts {
		opt(h)
	}
	h.log = logger.OrDiscard(h.log)
	return h
}

// Execute runs cmd and, on success, records it at the cursor, discarding
// anything that was undone. On failure nothing is recorded.
func (h *History) Execute(ctx context.Context, cmd Command) error {
	state, err := h.execute(ctx, cmd)
	if err != nil {
		h.log.WithError(err).WithField("command", cmd.Describe()).Debug("execute failed")
		return err
	}

	h.log.WithField("command", cmd.Describe()).Debug("executed")
	h.notify(state)
	return nil
}

func (h *History) execute(ctx context.Context, cmd Command) (State, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := cmd.Execute(ctx); err != nil {
		return State{}, err
	}

	h.commands = append(h.commands[:h.cursor], cmd)
	h.cursor++
	if h.limit > 0 && len(h.commands) > h.limit {
		drop := len(h.commands) - h.limit
		h.commands = append([]Command(nil), h.commands[drop:]...)
		h.cursor -= drop
	}
	return h.stateLocked(), nil
}

// Undo reverts the command before the cursor. With nothing to undo it
// does nothing.
func (h *History) Undo(ctx context.Context) error {
	cmd, state, err := h.undo(ctx)
	if cmd == nil {
		return nil
	}
	if err != nil {
		h.log.WithError(err).WithField("command", cmd.Describe()).Debug("undo failed")
		return err
	}

	h.log.WithField("command", cmd.Describe()).Debug("undone")
	h.notify(state)
	return nil
}

func (h *History) undo(ctx context.Context) (Command, State, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cursor == 0 {
		return nil, State{}, nil
	}
	cmd := h.commands[h.cursor-1]
	if err := cmd.Undo(ctx); err != nil {
		return cmd, State{}, err
	}
	h.cursor--
	return cmd, h.stateLocked(), nil
}

// Redo re-executes the command at the cursor. With nothing to redo it
// does nothing.
func (h *History) Redo(ctx context.Context) error {
	cmd, state, err := h.redo(ctx)
	if cmd == nil {
		return nil
	}
	if err != nil {
		h.log.WithError(err).WithField("command", cmd.Describe()).Debug("redo failed")
		return err
	}

	h.log.WithField("command", cmd.Describe()).Debug("redone")
	h.notify(state)
	return nil
}

func (h *History) redo(ctx context.Context) (Command, State, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cursor == len(h.commands) {
		return nil, State{}, nil
	}
	cmd := h.commands[h.cursor]
	if err := cmd.Execute(ctx); err != nil {
		return cmd, State{}, err
	}
	h.cursor++
	return cmd, h.stateLocked(), nil
}

func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor > 0
}

func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cursor < len(h.commands)
}

// Len counts done and undone commands.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.commands)
}

func (h *History) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stateLocked()
}

func (h *History) Clear() {
	h.notify(h.clear())
}

func (h *History) clear() State {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.commands = nil
	h.cursor = 0
	return h.stateLocked()
}

// Subscribe registers fn to be called after every successful execute,
// undo, redo and clear. The returned func removes it.
func (h *History) Subscribe(fn func(State)) func() {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()

	id := h.nextID
	h.nextID++
	h.listeners[id] = fn

	return func() {
		h.listenersMu.Lock()
		defer h.listenersMu.Unlock()
		delete(h.listeners, id)
	}
}

func (h *History) stateLocked() State {
	s := State{
		CanUndo: h.cursor > 0,
		CanRedo: h.cursor < len(h.commands),
		Len:     len(h.commands),
	}
	if s.CanUndo {
		s.UndoLabel = h.commands[h.cursor-1].Describe()
	}
	if s.CanRedo {
		s.RedoLabel = h.commands[h.cursor].Describe()
	}
	return s
}

func (h *History) notify(state State) {
	h.listenersMu.Lock()
	fns := make([]func(State), 0, len(h.listeners))
	for _, fn := range h.listeners {
		fns = append(fns, fn)
	}
	h.listenersMu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}
