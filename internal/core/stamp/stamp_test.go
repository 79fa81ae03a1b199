package stamp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyEmbedsSentinel(t *testing.T) {
	tests := []struct {
		name      string
		timestamp int64
		magic     int64
	}{
		{"round millis", 1000, 337},
		{"arbitrary millis", 1717171717171, 337},
		{"already marked", 1717171717337, 337},
		{"zero magic", 1717171717999, 0},
		{"max magic", 1717171717000, 999},
		{"zero timestamp", 0, 337},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(tt.timestamp, tt.magic)
			assert.True(t, IsMarked(got, tt.magic))
			// Only the sub-second digits move.
			assert.Equal(t, tt.timestamp/1000, got/1000)
		})
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	ts := int64(1717171717456)
	once := Apply(ts, 337)
	twice := Apply(once, 337)
	assert.Equal(t, once, twice)
}

func TestIsMarked(t *testing.T) {
	assert.True(t, IsMarked(1717171717337, 337))
	assert.False(t, IsMarked(1717171717338, 337))
	assert.True(t, IsMarked(1717171717000, 0))
	assert.False(t, IsMarked(1717171717001, 0))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(0))
	assert.True(t, Valid(337))
	assert.True(t, Valid(999))
	assert.False(t, Valid(1000))
	assert.False(t, Valid(-1))
}
