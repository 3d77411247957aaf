// Package chunking implements the adaptive drain policy that decides how
// fast queued output lines are released to the screen: one line per tick
// while the queue is shallow ("smooth" mode), or the whole backlog at once
// once it has built up too far ("catch-up" mode), with hysteresis so the
// mode doesn't flap on every tick.
package chunking

import "time"

const (
	enterQueueDepthLines = 8
	enterOldestAge       = 120 * time.Millisecond
	exitQueueDepthLines  = 2
	exitOldestAge        = 40 * time.Millisecond
	exitHold             = 250 * time.Millisecond
	reenterCatchUpHold   = 250 * time.Millisecond
	severeQueueDepth     = 64
	severeOldestAge      = 300 * time.Millisecond
)

// Mode is the policy's current drain mode.
type Mode int

const (
	ModeSmooth Mode = iota
	ModeCatchUp
)

// QueueSnapshot describes the pending-output queue at decision time.
type QueueSnapshot struct {
	QueuedLines int
	OldestAge   time.Duration
	HasOldest   bool
}

// DrainPlan says how many lines to release this tick.
type DrainPlan struct {
	Batch bool
	Count int // valid only when Batch is true
}

// Decision is the result of one Decide call.
type Decision struct {
	Mode           Mode
	EnteredCatchUp bool
	Plan           DrainPlan
}

// Policy tracks hysteresis state across ticks. Zero value is ready to use.
type Policy struct {
	mode                  Mode
	belowExitThresholdAt  time.Time
	hasBelowExitThreshold bool
	lastCatchUpExitAt     time.Time
	hasLastCatchUpExit    bool
}

// New returns a policy starting in smooth mode.
func New() *Policy {
	return &Policy{}
}

// Mode reports the policy's current mode (test/inspection hook).
func (p *Policy) Mode() Mode { return p.mode }

// Reset returns the policy to its initial smooth state.
func (p *Policy) Reset() {
	p.mode = ModeSmooth
	p.hasBelowExitThreshold = false
	p.hasLastCatchUpExit = false
}

// Decide advances the policy with a fresh queue snapshot at time `now`.
func (p *Policy) Decide(snapshot QueueSnapshot, now time.Time) Decision {
	if snapshot.QueuedLines == 0 {
		p.noteCatchUpExit(now)
		p.mode = ModeSmooth
		p.hasBelowExitThreshold = false
		return Decision{Mode: p.mode, EnteredCatchUp: false, Plan: DrainPlan{Batch: false}}
	}

	var enteredCatchUp bool
	switch p.mode {
	case ModeSmooth:
		enteredCatchUp = p.maybeEnterCatchUp(snapshot, now)
	case ModeCatchUp:
		p.maybeExitCatchUp(snapshot, now)
		enteredCatchUp = false
	}

	var plan DrainPlan
	switch p.mode {
	case ModeSmooth:
		plan = DrainPlan{Batch: false}
	case ModeCatchUp:
		count := snapshot.QueuedLines
		if count < 1 {
			count = 1
		}
		plan = DrainPlan{Batch: true, Count: count}
	}

	return Decision{Mode: p.mode, EnteredCatchUp: enteredCatchUp, Plan: plan}
}

func (p *Policy) maybeEnterCatchUp(snapshot QueueSnapshot, now time.Time) bool {
	if !shouldEnterCatchUp(snapshot) {
		return false
	}
	if p.reentryHoldActive(now) && !isSevereBacklog(snapshot) {
		return false
	}
	p.mode = ModeCatchUp
	p.hasBelowExitThreshold = false
	p.hasLastCatchUpExit = false
	return true
}

func (p *Policy) maybeExitCatchUp(snapshot QueueSnapshot, now time.Time) {
	if !shouldExitCatchUp(snapshot) {
		p.hasBelowExitThreshold = false
		return
	}

	if p.hasBelowExitThreshold {
		if now.Sub(p.belowExitThresholdAt) >= exitHold {
			p.mode = ModeSmooth
			p.hasBelowExitThreshold = false
			p.lastCatchUpExitAt = now
			p.hasLastCatchUpExit = true
		}
		return
	}
	p.belowExitThresholdAt = now
	p.hasBelowExitThreshold = true
}

func (p *Policy) noteCatchUpExit(now time.Time) {
	if p.mode == ModeCatchUp {
		p.lastCatchUpExitAt = now
		p.hasLastCatchUpExit = true
	}
}

func (p *Policy) reentryHoldActive(now time.Time) bool {
	if !p.hasLastCatchUpExit {
		return false
	}
	return now.Sub(p.lastCatchUpExitAt) < reenterCatchUpHold
}

func shouldEnterCatchUp(s QueueSnapshot) bool {
	return s.QueuedLines >= enterQueueDepthLines || (s.HasOldest && s.OldestAge >= enterOldestAge)
}

func shouldExitCatchUp(s QueueSnapshot) bool {
	return s.QueuedLines <= exitQueueDepthLines && s.HasOldest && s.OldestAge <= exitOldestAge
}

func isSevereBacklog(s QueueSnapshot) bool {
	return s.QueuedLines >= severeQueueDepth || (s.HasOldest && s.OldestAge >= severeOldestAge)
}
