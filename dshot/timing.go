package dshot

import (
	"fmt"

	"periph.io/x/periph/conn/physic"
)

// modeConstants is the value table the DShot specification derives every
// mode's timing from. Indexed by Mode; Off is the zero entry and is never
// read by TimingFor (it returns an error instead).
//
// bitPeriodUs and oneHighUs come straight from the protocol: the "0" high
// time and both low times are derived, not tabulated, so there is exactly
// one place a new mode would need a new row.
var modeConstants = [5]struct {
	bitPeriodUs float64
	oneHighUs   float64
}{
	Off:      {0, 0},
	Mode150:  {6.67, 5.00},
	Mode300:  {3.33, 2.50},
	Mode600:  {1.67, 1.25},
	Mode1200: {0.83, 0.67},
}

// framePadding is added to the inter-frame gap to give the ESC's driver
// firmware room to turn its response around; 20us matches the reference
// ESP32 RMT implementation this module's timing table is derived from.
const framePadding = 20 * physic.Microsecond

// bitsPerFrame is the number of data bits in one outbound DShot frame.
const bitsPerFrame = 16

// Timing is the immutable set of durations and windows that fully describe
// one DShot mode: how long a "1" bit and a "0" bit are held high and low,
// how long the line must stay quiet between frames, and the pulse-width
// window a receiver must accept an inbound GCR bit within.
//
// All fields are derived once by TimingFor and never change afterwards.
type Timing struct {
	Mode Mode

	BitPeriod physic.Duration
	OneHigh   physic.Duration
	ZeroHigh  physic.Duration
	OneLow    physic.Duration
	ZeroLow   physic.Duration

	// FrameGap is the minimum quiet time required between the start of two
	// successive outbound frames.
	FrameGap physic.Duration

	// RXBit is the nominal duration of a single GCR bit-time in the ESC's
	// reply, used by the demodulator to convert a pulse duration into a
	// bit count (see DemodulateGCR).
	RXBit physic.Duration

	// RXMin and RXMax bound the pulse widths a receiver accepts; anything
	// shorter or longer is noise, not a GCR transition.
	RXMin physic.Duration
	RXMax physic.Duration
}

// TimingFor derives the Timing value for mode. It returns an error for Off,
// since there is nothing to time, and for any value outside the four
// standard modes.
func TimingFor(mode Mode) (Timing, error) {
	if mode == Off {
		return Timing{}, fmt.Errorf("dshot: timing undefined for %s", mode)
	}
	if !mode.Valid() {
		return Timing{}, fmt.Errorf("dshot: unknown mode %d", int(mode))
	}

	c := modeConstants[mode]
	bitPeriod := durationFromUs(c.bitPeriodUs)
	oneHigh := durationFromUs(c.oneHighUs)
	zeroHigh := oneHigh / 2
	oneLow := bitPeriod - oneHigh
	zeroLow := bitPeriod - zeroHigh

	frameTime := bitPeriod * bitsPerFrame
	frameGap := frameTime + framePadding
	if mode.SupportsBidirectional() {
		frameGap = 2*frameTime + framePadding
	}

	// The ESC answers at 5/4 the outbound bit rate (see glossary: GCR).
	rxBit := physic.Duration(round(float64(oneHigh) * 0.9))
	rxMin := physic.Duration(round(float64(rxBit) * 0.9))
	rxMax := physic.Duration(round(float64(rxBit) * 3 * 1.1))

	return Timing{
		Mode:      mode,
		BitPeriod: bitPeriod,
		OneHigh:   oneHigh,
		ZeroHigh:  zeroHigh,
		OneLow:    oneLow,
		ZeroLow:   zeroLow,
		FrameGap:  frameGap,
		RXBit:     rxBit,
		RXMin:     rxMin,
		RXMax:     rxMax,
	}, nil
}

func durationFromUs(us float64) physic.Duration {
	return physic.Duration(round(us * float64(physic.Microsecond)))
}

func round(f float64) float64 {
	if f < 0 {
		return float64(int64(f - 0.5))
	}
	return float64(int64(f + 0.5))
}

// Ticks converts a Timing into integer clock-tick counts at the given
// pulse-generator resolution (e.g. 8MHz for the reference ESP32 RMT
// peripheral, or an FTDI MPSSE clock for a bench adapter). The core
// protocol is defined in real time (physic.Duration); tick counts are only
// needed at the point a symbol buffer is actually encoded for a specific
// piece of hardware.
func (t Timing) Ticks(resolution physic.Frequency) TickTiming {
	tick := func(d physic.Duration) uint32 {
		return uint32(round(float64(d) / float64(physic.Second) * float64(resolution)))
	}
	return TickTiming{
		OneHigh:  tick(t.OneHigh),
		ZeroHigh: tick(t.ZeroHigh),
		OneLow:   tick(t.OneLow),
		ZeroLow:  tick(t.ZeroLow),
		IdleGap:  tick(t.BitPeriod) * 21,
	}
}

// TickTiming is Timing expressed in integer clock ticks for one specific
// pulse-generator resolution.
type TickTiming struct {
	OneHigh  uint32
	ZeroHigh uint32
	OneLow   uint32
	ZeroLow  uint32
	// IdleGap is the trailing idle duration appended after bit 15, at least
	// 21 bit-times long so the ESC can reliably detect the frame boundary.
	IdleGap uint32
}
