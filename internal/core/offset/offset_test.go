package offset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	for _, valid := range []string{"automatic", "phone", "manual"} {
		mode, err := ParseMode(valid)
		require.NoError(t, err)
		assert.Equal(t, Mode(valid), mode)
	}

	_, err := ParseMode("satellite")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestAmountAutomaticNegatesZoneOffset(t *testing.T) {
	// A zone two hours east of UTC means the carrier stamps UTC+2; the
	// correction subtracts two hours.
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.FixedZone("EET", 2*3600))
	got := Amount(Policy{Mode: ModeAutomatic}, now)
	assert.Equal(t, int64(-2*3600000), got)
}

func TestAmountManual(t *testing.T) {
	now := time.Now()
	assert.Equal(t, int64(5*3600000), Amount(Policy{Mode: ModeManual, ManualHours: 5}, now))
	assert.Equal(t, int64(-3*3600000), Amount(Policy{Mode: ModeManual, ManualHours: -3}, now))
	assert.Equal(t, int64(0), Amount(Policy{Mode: ModeManual}, now))
}

func TestTargetPhoneUsesWallClock(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	stored := int64(1000)

	got := Target(Policy{Mode: ModePhone}, stored, now)
	assert.Equal(t, now.UnixMilli(), got)

	// Phone mode ignores the alternate-network flag.
	got = Target(Policy{Mode: ModePhone, AlternateNetwork: true}, stored, now)
	assert.Equal(t, now.UnixMilli(), got)
}

func TestTargetManualAddsHours(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	stored := now.UnixMilli()

	got := Target(Policy{Mode: ModeManual, ManualHours: 2}, stored, now)
	assert.Equal(t, stored+2*3600000, got)
}

func TestTargetAlternateNetworkGraceWindow(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	p := Policy{Mode: ModeManual, ManualHours: 2, AlternateNetwork: true}

	// Stored time within the grace window: trusted as-is.
	stored := now.UnixMilli() + GraceWindowMillis
	assert.Equal(t, stored, Target(p, stored, now))

	// Stored time behind the local clock: also trusted as-is.
	stored = now.UnixMilli() - 60000
	assert.Equal(t, stored, Target(p, stored, now))

	// Stored time safely ahead of the local clock: offset still applies.
	stored = now.UnixMilli() + GraceWindowMillis + 1
	assert.Equal(t, stored+2*3600000, Target(p, stored, now))
}

func TestTargetWithoutAlternateNetworkAlwaysApplies(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	p := Policy{Mode: ModeManual, ManualHours: 1}

	stored := now.UnixMilli() - 60000
	assert.Equal(t, stored+3600000, Target(p, stored, now))
}
