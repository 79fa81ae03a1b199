// Package stamp contains the pure sentinel logic for marking messages as
// processed. The marker lives in the sub-second digits of the message
// timestamp itself: a timestamp whose value mod 1000 equals the magic
// constant has been adjusted by this system. The timestamp field is shared
// with other writers, so the sentinel is the only durable record of "already
// processed" — there is no separate processed-set.
package stamp

// DefaultMagic is the default sentinel value embedded in the sub-second
// digits of an adjusted timestamp.
const DefaultMagic = 337

// Valid reports whether magic is usable as a sentinel. The sentinel must fit
// in the three low-order decimal digits of a millisecond timestamp.
func Valid(magic int64) bool {
	return magic >= 0 && magic < 1000
}

// IsMarked reports whether a millisecond timestamp carries the sentinel.
func IsMarked(timestamp, magic int64) bool {
	return timestamp%1000 == magic
}

// Apply overwrites the sub-second digits of a millisecond timestamp with the
// sentinel. At most 999ms of precision is lost; downstream display is
// second-granularity.
func Apply(timestamp, magic int64) int64 {
	return timestamp - timestamp%1000 + magic
}
