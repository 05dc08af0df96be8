// Package engine wires the hardware-free protocol core in package dshot to
// a real (or simulated) GPIO line: C4's pulse transmitter, C5's pulse
// receiver, and C8's transceiver coordinator, Dev.
//
// Dev implements conn.Resource (String, Halt) the way every device in the
// teacher package periph-extra does, and is driven entirely by the public
// contract table of spec §4.8: Begin, SendThrottle, SendCommand,
// PollTelemetry, Shutdown.
package engine

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-dshot/dshot/dshot"
	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/pin"
	"periph.io/x/periph/conn/pin/pinreg"
)

// defaultResolution matches the 8MHz reference clock the original ESP32
// RMT implementation this timing table is derived from runs at (spec §6
// design note, SPEC_FULL §4.1).
const defaultResolution = 8 * physic.MegaHertz

// idleCaptureTimeout bounds how long the receiver waits for the next edge
// of a telemetry burst before declaring it complete (spec §4.5 step 3:
// "a short idle timeout").
const idleCaptureTimeout = 50 * time.Microsecond

// SendResult distinguishes a successful transmission from one the
// inter-frame gap silently dropped; spec §4.4 requires the latter be
// reported as success, never as an error.
type SendResult int

const (
	Transmitted SendResult = iota
	DroppedThrottled
)

func (r SendResult) String() string {
	if r == DroppedThrottled {
		return "throttled"
	}
	return "transmitted"
}

// Option configures a Dev at construction time.
type Option func(*Dev)

// WithPin supplies a gpio.PinIO directly instead of looking one up by name
// through gpioreg — used by tests and the simulated line (package
// linesim).
func WithPin(p gpio.PinIO) Option {
	return func(d *Dev) { d.pin = p }
}

// WithResolution overrides the default 8MHz tick resolution, e.g. to match
// a slower host-side bitbang clock.
func WithResolution(f physic.Frequency) Option {
	return func(d *Dev) { d.resolution = f }
}

// withClock substitutes the wall clock; unexported, test-only (package
// engine's own _test.go files can still reach it).
func withClock(c clock) Option {
	return func(d *Dev) { d.clock = c }
}

// Dev is the transceiver coordinator, C8.
type Dev struct {
	pinName    string
	pin        gpio.PinIO
	mode       dshot.Mode
	bidir      bool
	magnets    int
	resolution physic.Frequency
	clock      clock

	timing dshot.Timing
	tt     dshot.TickTiming

	line *LineDirection
	tx   *transmitter
	rx   *receiver

	state stateVar

	gapMu        sync.Mutex // guards lastTransmit
	lastTransmit time.Time

	cmdMu sync.Mutex // serializes one SendCommand's repeat sequence against another's

	telemetry atomic.Pointer[dshot.Telemetry]
	fresh     atomic.Bool
	extended  atomic.Bool

	rxBitTicks uint32

	counters counters

	lastFrame atomic.Pointer[dshot.Frame]

	begun  bool
	closed bool
}

// New constructs a Dev for pinName at mode, with bidirectional telemetry
// enabled or not and the ESC's magnet count (consulted only by
// PollTelemetry's eRPM conversion). It does not touch hardware; call
// Begin to allocate the TX/RX channels.
func New(pinName string, mode dshot.Mode, bidir bool, magnets int, opts ...Option) (*Dev, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("dshot: invalid mode %v for a transceiver", mode)
	}
	if bidir && !mode.SupportsBidirectional() {
		return nil, fmt.Errorf("dshot: %s does not support bidirectional telemetry", mode)
	}

	d := &Dev{
		pinName:    pinName,
		mode:       mode,
		bidir:      bidir,
		magnets:    magnets,
		resolution: defaultResolution,
		clock:      realClock{},
	}

	// Off has no timing to derive: every send on it is a no-op before the
	// gap/state machinery is ever consulted (see Dev.send).
	if mode != dshot.Off {
		timing, err := dshot.TimingFor(mode)
		if err != nil {
			return nil, err
		}
		d.timing = timing
	}

	for _, opt := range opts {
		opt(d)
	}
	if mode != dshot.Off {
		d.tt = d.timing.Ticks(d.resolution)
	}
	return d, nil
}

// String implements conn.Resource.
func (d *Dev) String() string {
	return fmt.Sprintf("dshot{%s, %s}", d.pinName, d.mode)
}

// Halt implements conn.Resource; it is Shutdown's synonym.
func (d *Dev) Halt() error {
	return d.Shutdown()
}

// Mode reports the configured DShot bit rate.
func (d *Dev) Mode() dshot.Mode { return d.mode }

// IsBidirectional reports whether bidirectional telemetry is enabled.
func (d *Dev) IsBidirectional() bool { return d.bidir }

// Statistics returns a snapshot of the engine's counters.
func (d *Dev) Statistics() Statistics { return d.counters.snapshot() }

// LastEncodedFrame returns the most recently built Frame, or false if
// nothing has been sent yet. Useful for the bench CLI and tests; never
// consulted by the protocol itself.
func (d *Dev) LastEncodedFrame() (dshot.Frame, bool) {
	p := d.lastFrame.Load()
	if p == nil {
		return dshot.Frame{}, false
	}
	return *p, true
}

// Begin allocates the TX channel and, if bidirectional, the RX channel,
// matching spec §4.8's begin() contract exactly.
func (d *Dev) Begin() error {
	if d.begun {
		return nil
	}
	if d.pin == nil {
		p := gpioreg.ByName(d.pinName)
		if p == nil {
			return fmt.Errorf("%w: pin %q not found", dshot.ErrTxInitFailed, d.pinName)
		}
		d.pin = p
	}

	d.line = NewLineDirection(d.pin)

	// Off never transmits (see Dev.send), so it needs no TX/RX channel.
	if d.mode != dshot.Off {
		tickDur := tickDuration(d.resolution)
		d.tx = newTransmitter(d.line, d.bidir, tickDur, d.clock)

		if d.bidir {
			rxMin := time.Duration(d.timing.RXMin)
			rxMax := time.Duration(d.timing.RXMax)
			d.rx = newReceiver(d.line, tickDur, rxMin, rxMax, d.clock)
			d.rxBitTicks = d.tt.OneHigh * 9 / 10
			if d.rxBitTicks == 0 {
				d.rxBitTicks = 1
			}
		}
	}

	if err := pinreg.Register(d.String(), [][]pin.Pin{{d.pin}}); err != nil {
		return fmt.Errorf("%w: %v", dshot.ErrEncoderInitFailed, err)
	}

	d.state.set(stateIdle)
	d.begun = true
	return nil
}

// tickDuration converts a clock resolution (e.g. 8MHz) into the wall-clock
// duration of a single tick, for the software bit-banged transmitter and
// receiver this host-side implementation drives.
func tickDuration(resolution physic.Frequency) time.Duration {
	if resolution <= 0 {
		resolution = defaultResolution
	}
	return time.Duration(float64(physic.Second) / float64(resolution))
}

// SendThrottle sends a motion value (0 is the motor-stop command, per
// spec's open question (a)). It returns Transmitted or DroppedThrottled —
// never an error for a throttled send, matching spec §4.4/§4.8 exactly.
// On a Dev configured with dshot.Off it is a benign no-op: Transmitted is
// returned, the wire is never driven, and no counter moves.
func (d *Dev) SendThrottle(value uint16) (SendResult, error) {
	if value > dshot.ValueMax {
		return 0, dshot.ErrThrottleOutOfRange
	}
	return d.send(value, false)
}

// SendCommand sends cmd repeat times (at least once) spaced delay apart.
// Commands that change persistent ESC state must be sent with
// repeat >= dshot.MinPersistentRepeats; violating that is a caller bug, so
// SendCommand enforces it by clamping up rather than failing, the same
// way the teacher's setup code self-heals a device left in an unexpected
// state instead of refusing to proceed.
func (d *Dev) SendCommand(cmd uint16, repeat int, delay time.Duration) error {
	if !dshot.CommandValid(cmd) {
		return dshot.ErrInvalidCommand
	}
	if repeat < 1 {
		repeat = 1
	}
	if dshot.CommandRequiresRepeats(cmd) && repeat < dshot.MinPersistentRepeats {
		repeat = dshot.MinPersistentRepeats
	}

	d.cmdMu.Lock()
	defer d.cmdMu.Unlock()

	for i := 0; i < repeat; i++ {
		if _, err := d.send(cmd, true); err != nil {
			return err
		}
		if i < repeat-1 && delay > 0 {
			d.clock.Sleep(delay)
		}
	}

	switch cmd {
	case dshot.CmdExtendedTelemetryEnable:
		d.extended.Store(true)
	case dshot.CmdExtendedTelemetryDisable:
		d.extended.Store(false)
	}
	return nil
}

// send is send_throttle/send_command's shared path: gate on the
// inter-frame gap, build the frame, encode it, and dispatch.
// value is a raw 0..2047 field (throttle or command) per dshot.Build.
func (d *Dev) send(value uint16, telemetryRequest bool) (SendResult, error) {
	if !d.begun {
		return 0, fmt.Errorf("dshot: Begin has not been called")
	}

	// Off disables all transmission: every send is a benign no-op, the
	// wire is never touched, and no counter moves (spec's data model for
	// DShotMode).
	if d.mode == dshot.Off {
		return Transmitted, nil
	}

	d.gapMu.Lock()
	now := d.clock.Now()
	if !d.lastTransmit.IsZero() && now.Sub(d.lastTransmit) < time.Duration(d.timing.FrameGap) {
		d.gapMu.Unlock()
		d.counters.framesThrottled.Add(1)
		return DroppedThrottled, nil
	}
	d.lastTransmit = now
	d.gapMu.Unlock()

	if !d.state.compareAndSwap(stateIdle, stateTransmitting) {
		d.counters.framesThrottled.Add(1)
		return DroppedThrottled, nil
	}

	frame := dshot.Build(value, telemetryRequest, d.bidir)
	d.lastFrame.Store(&frame)
	serialized := frame.Serialize()
	symbols := dshot.Encode(serialized, d.tt)

	if err := d.tx.send(symbols); err != nil {
		d.state.set(stateIdle)
		d.counters.errorCount.Add(1)
		return 0, err
	}
	d.counters.framesSent.Add(1)

	if !d.bidir {
		d.state.set(stateIdle)
		return Transmitted, nil
	}

	d.state.set(stateListening)
	go d.receiveBurst()
	return Transmitted, nil
}

// receiveBurst runs C5 and C6/C7 after a bidirectional transmission: it
// captures the ESC's GCR reply, demodulates and decodes it, and publishes
// the result to the single-slot telemetry mailbox. It is the software
// stand-in for the receive-complete ISR spec §4.5/§4.8 describe; a bad
// burst increments error_count and leaves the published reading
// untouched, exactly as spec's failure semantics require.
func (d *Dev) receiveBurst() {
	d.state.set(stateListening)
	pulses, err := d.rx.capture(idleCaptureTimeout)
	d.state.set(stateDecoding)
	defer d.state.set(stateIdle)

	if err != nil {
		d.counters.errorCount.Add(1)
		return
	}

	payload, err := dshot.DemodulateGCR(pulses, d.rxBitTicks, d.bidir)
	if err != nil {
		d.counters.errorCount.Add(1)
		return
	}

	telem, err := dshot.DecodeTelemetry(payload, d.extended.Load(), d.magnets)
	if err != nil {
		d.counters.errorCount.Add(1)
		return
	}

	d.telemetry.Store(&telem)
	d.fresh.Store(true)
	d.counters.telemetryFrames.Add(1)
}

// PollTelemetry returns the latest decoded reading if one has arrived
// since the last poll, clearing the "fresh" flag (spec §4.8's
// poll_telemetry). It never blocks.
func (d *Dev) PollTelemetry() (dshot.Telemetry, error) {
	if !d.bidir {
		return dshot.Telemetry{}, dshot.ErrBidirNotEnabled
	}
	if !d.fresh.CompareAndSwap(true, false) {
		return dshot.Telemetry{}, dshot.ErrTelemetryUnavail
	}
	p := d.telemetry.Load()
	if p == nil {
		return dshot.Telemetry{}, dshot.ErrTelemetryUnavail
	}
	return *p, nil
}

// Shutdown disables and releases the wire. It is idempotent and safe to
// call at any time, including concurrently with an in-flight send (spec
// §5: "must be safe to call at any time").
func (d *Dev) Shutdown() error {
	d.gapMu.Lock()
	defer d.gapMu.Unlock()
	if d.closed || !d.begun {
		d.closed = true
		return nil
	}
	d.closed = true
	if d.line != nil {
		_, _ = d.line.ToInput()
	}
	d.state.set(stateIdle)
	return nil
}
