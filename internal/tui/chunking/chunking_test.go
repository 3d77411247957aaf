package chunking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func snapshot(queuedLines int, oldestAgeMs int64) QueueSnapshot {
	return QueueSnapshot{
		QueuedLines: queuedLines,
		OldestAge:   time.Duration(oldestAgeMs) * time.Millisecond,
		HasOldest:   true,
	}
}

func TestEntersCatchUpOnDepthThreshold(t *testing.T) {
	p := New()
	now := time.Now()
	decision := p.Decide(snapshot(8, 10), now)
	assert.Equal(t, ModeCatchUp, decision.Mode)
	assert.True(t, decision.Plan.Batch)
	assert.Equal(t, 8, decision.Plan.Count)
}

func TestExitsCatchUpAfterHoldWindow(t *testing.T) {
	p := New()
	t0 := time.Now()

	p.Decide(snapshot(9, 10), t0)
	assert.Equal(t, ModeCatchUp, p.Mode())

	p.Decide(snapshot(1, 10), t0.Add(50*time.Millisecond))
	assert.Equal(t, ModeCatchUp, p.Mode())

	p.Decide(snapshot(1, 10), t0.Add(350*time.Millisecond))
	assert.Equal(t, ModeSmooth, p.Mode())
}

func TestEmptyQueueResetsToSmooth(t *testing.T) {
	p := New()
	now := time.Now()
	p.Decide(snapshot(10, 200), now)
	assert.Equal(t, ModeCatchUp, p.Mode())

	decision := p.Decide(QueueSnapshot{}, now.Add(time.Millisecond))
	assert.Equal(t, ModeSmooth, decision.Mode)
	assert.False(t, decision.Plan.Batch)
}

func TestSevereBacklogBypassesReentryHold(t *testing.T) {
	p := New()
	t0 := time.Now()

	p.Decide(snapshot(9, 10), t0)
	p.Decide(snapshot(1, 10), t0.Add(50*time.Millisecond))
	p.Decide(snapshot(1, 10), t0.Add(350*time.Millisecond))
	assert.Equal(t, ModeSmooth, p.Mode())

	decision := p.Decide(snapshot(1, 10), t0.Add(400*time.Millisecond))
	assert.Equal(t, ModeSmooth, decision.Mode)

	decision = p.Decide(snapshot(100, 400), t0.Add(420*time.Millisecond))
	assert.Equal(t, ModeCatchUp, decision.Mode)
	assert.True(t, decision.EnteredCatchUp)
}

func TestSmoothModeDrainsSingle(t *testing.T) {
	p := New()
	decision := p.Decide(snapshot(1, 5), time.Now())
	assert.Equal(t, ModeSmooth, decision.Mode)
	assert.False(t, decision.Plan.Batch)
}
