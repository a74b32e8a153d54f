package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystemClockUsesServerZone(t *testing.T) {
	local := time.Local
	t.Cleanup(func() { time.Local = local })
	time.Local = time.FixedZone("BRT", -3*60*60)

	now := SystemClock{}.Now()
	_, offset := now.Zone()
	assert.Equal(t, -3*60*60, offset)
}

func TestFakeClockAdvance(t *testing.T) {
	start := time.Date(2025, 3, 31, 23, 0, 0, 0, time.UTC)
	clk := NewFakeClock(start)
	clk.Advance(2 * time.Hour)
	assert.Equal(t, start.Add(2*time.Hour), clk.Now())

	clk.Set(start)
	assert.Equal(t, start, clk.Now())
}
