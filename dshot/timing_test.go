package dshot

import (
	"testing"

	"periph.io/x/periph/conn/physic"
)

// TimingFor(Off) has nothing to derive a timing table from: Off's "every
// send is a no-op" behavior (see engine.Dev.SendThrottle) is handled one
// layer up, before engine.Dev ever calls TimingFor, not by this function.
func TestTimingForOffIsError(t *testing.T) {
	if _, err := TimingFor(Off); err == nil {
		t.Fatal("expected an error for Off, got nil")
	}
}

func TestTimingForUnknownModeIsError(t *testing.T) {
	if _, err := TimingFor(Mode(99)); err == nil {
		t.Fatal("expected an error for an unknown mode, got nil")
	}
}

func TestTimingForEachStandardMode(t *testing.T) {
	for _, m := range []Mode{Mode150, Mode300, Mode600, Mode1200} {
		tm, err := TimingFor(m)
		if err != nil {
			t.Fatalf("%s: TimingFor error: %v", m, err)
		}
		if tm.OneHigh <= tm.ZeroHigh {
			t.Errorf("%s: OneHigh (%v) should be greater than ZeroHigh (%v)", m, tm.OneHigh, tm.ZeroHigh)
		}
		if tm.OneLow+tm.OneHigh != tm.BitPeriod {
			t.Errorf("%s: OneLow+OneHigh = %v, want BitPeriod %v", m, tm.OneLow+tm.OneHigh, tm.BitPeriod)
		}
		if tm.ZeroLow+tm.ZeroHigh != tm.BitPeriod {
			t.Errorf("%s: ZeroLow+ZeroHigh = %v, want BitPeriod %v", m, tm.ZeroLow+tm.ZeroHigh, tm.BitPeriod)
		}
		wantGap := tm.BitPeriod*bitsPerFrame + framePadding
		if m.SupportsBidirectional() {
			wantGap = 2*(tm.BitPeriod*bitsPerFrame) + framePadding
		}
		if tm.FrameGap != wantGap {
			t.Errorf("%s: FrameGap = %v, want %v", m, tm.FrameGap, wantGap)
		}
	}
}

func TestTimingTicksMonotonicWithResolution(t *testing.T) {
	tm, err := TimingFor(Mode600)
	if err != nil {
		t.Fatal(err)
	}
	low := tm.Ticks(8 * physic.MegaHertz)
	high := tm.Ticks(16 * physic.MegaHertz)
	if high.OneHigh <= low.OneHigh {
		t.Errorf("OneHigh ticks at 16MHz (%d) should exceed at 8MHz (%d)", high.OneHigh, low.OneHigh)
	}
	if low.IdleGap == 0 {
		t.Error("IdleGap ticks should be nonzero")
	}
}
