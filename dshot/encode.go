package dshot

// Symbol is a single pulse: an active-high duration followed by an
// idle-low duration, both in clock ticks at whatever resolution the
// transmitter was configured for (see Timing.Ticks). Whether "active"
// physically means the line driving high or low is a wiring-polarity
// decision made by the transmitter (package engine), not by the encoder.
type Symbol struct {
	HighTicks uint32
	LowTicks  uint32
}

// FrameSymbols is the fixed-length pulse train one DShot frame encodes to:
// 16 data-bit symbols followed by one trailing idle symbol that enforces
// the inter-bit-frame boundary (spec §4.3).
type FrameSymbols [bitsPerFrame + 1]Symbol

// Encode converts a serialized 16-bit frame into a fixed array of pulse
// symbols at the given tick resolution. Bit 15 (MSB) maps to symbol 0.
//
// Encode is deterministic and allocation-free: the result is a value type,
// not a slice, so callers on a hot path (package engine's transmitter) can
// keep it on the stack.
func Encode(serialized uint16, tt TickTiming) FrameSymbols {
	var out FrameSymbols
	for i := 0; i < bitsPerFrame; i++ {
		bit := (serialized >> uint(bitsPerFrame-1-i)) & 1
		if bit != 0 {
			out[i] = Symbol{HighTicks: tt.OneHigh, LowTicks: tt.OneLow}
		} else {
			out[i] = Symbol{HighTicks: tt.ZeroHigh, LowTicks: tt.ZeroLow}
		}
	}
	// Trailing idle gap: no active pulse, just quiet for >= 21 bit-times so
	// the ESC can unambiguously detect the end of the frame.
	out[bitsPerFrame] = Symbol{HighTicks: 0, LowTicks: tt.IdleGap}
	return out
}
