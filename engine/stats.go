package engine

import "sync/atomic"

// Statistics is a point-in-time snapshot of Dev's counters (spec §4.8's
// error_count plus the transmit/throttle/telemetry counts useful for the
// bench CLI's dashboard).
type Statistics struct {
	FramesSent      uint64
	FramesThrottled uint64
	ErrorCount      uint64
	TelemetryFrames uint64
}

// counters holds Dev's atomic counters. A plain struct of atomics rather
// than a mutex-guarded Statistics, since every field is independently
// incremented from a different call site and a snapshot never needs to be
// consistent across fields (spec: "no locks... on the hot path").
type counters struct {
	framesSent      atomic.Uint64
	framesThrottled atomic.Uint64
	errorCount      atomic.Uint64
	telemetryFrames atomic.Uint64
}

func (c *counters) snapshot() Statistics {
	return Statistics{
		FramesSent:      c.framesSent.Load(),
		FramesThrottled: c.framesThrottled.Load(),
		ErrorCount:      c.errorCount.Load(),
		TelemetryFrames: c.telemetryFrames.Load(),
	}
}
