// Package appstate holds the mutable state shared across the event loop,
// backend handler, UI-event forwarder, and response translator: cancel
// flag, current session id, activity state, info message, plan, sandbox
// policy, and current model. A coarse mutex guards the bag; critical
// sections are short and no lock is held across a channel send.
package appstate

import (
	"sync"
	"sync/atomic"

	"github.com/corestream/termui/internal/tui/orchestrator"
)

// ActivityState is the session's current activity, used to gate whether a
// submitted message is sent immediately or queued.
type ActivityState int

const (
	Idle ActivityState = iota
	Running
)

// State is the process-wide shared state bag. Zero value is ready to use.
type State struct {
	cancelFlag atomic.Bool

	mu             sync.RWMutex
	sessionID      string
	activity       ActivityState
	info           string
	hasInfo        bool
	plan           *orchestrator.PlanState
	sandboxPolicy  string
	currentModel   string
}

// New returns an idle state bag with no active session.
func New() *State {
	return &State{}
}

// RequestCancel sets the process-wide cancel flag. Observed by the backend
// task without further synchronization.
func (s *State) RequestCancel() { s.cancelFlag.Store(true) }

// ClearCancel resets the cancel flag, typically when a new session starts.
func (s *State) ClearCancel() { s.cancelFlag.Store(false) }

// CancelRequested reports the cancel flag's current value.
func (s *State) CancelRequested() bool { return s.cancelFlag.Load() }

func (s *State) SetSessionID(id string) {
	s.mu.Lock()
	s.sessionID = id
	s.mu.Unlock()
}

func (s *State) SessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionID
}

func (s *State) SetActivity(a ActivityState) {
	s.mu.Lock()
	s.activity = a
	s.mu.Unlock()
}

func (s *State) Activity() ActivityState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activity
}

func (s *State) SetInfo(msg string) {
	s.mu.Lock()
	s.info = msg
	s.hasInfo = true
	s.mu.Unlock()
}

func (s *State) ClearInfo() {
	s.mu.Lock()
	s.info = ""
	s.hasInfo = false
	s.mu.Unlock()
}

func (s *State) Info() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.info, s.hasInfo
}

func (s *State) SetPlan(p *orchestrator.PlanState) {
	s.mu.Lock()
	s.plan = p
	s.mu.Unlock()
}

func (s *State) Plan() *orchestrator.PlanState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.plan
}

func (s *State) SetSandboxPolicy(policy string) {
	s.mu.Lock()
	s.sandboxPolicy = policy
	s.mu.Unlock()
}

func (s *State) SandboxPolicy() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sandboxPolicy
}

func (s *State) SetCurrentModel(model string) {
	s.mu.Lock()
	s.currentModel = model
	s.mu.Unlock()
}

func (s *State) CurrentModel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentModel
}
