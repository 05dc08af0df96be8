package engine

import "periph.io/x/periph/conn/gpio"

// LineDirection owns the single wire's pin-mode transitions. Spec §9 calls
// out that the original source toggles a process-wide open-drain register
// from scattered call sites; this is the explicit, non-global replacement
// the coordinator holds instead.
type LineDirection struct {
	pin    gpio.PinIO
	pull   gpio.Pull
	driven bool
}

// NewLineDirection wraps pin, idle-high pulled up, matching the wire's
// quiescent state between frames.
func NewLineDirection(pin gpio.PinIO) *LineDirection {
	return &LineDirection{pin: pin, pull: gpio.PullUp}
}

// ToOutput switches the wire to transmit mode at the given idle level
// (low in standard mode, high in bidirectional mode: the transmitter's
// end-of-frame level) and returns the gpio.PinOut to write symbols to.
func (l *LineDirection) ToOutput(idle gpio.Level) (gpio.PinOut, error) {
	if err := l.pin.Out(idle); err != nil {
		return nil, err
	}
	l.driven = true
	return l.pin, nil
}

// ToInput switches the wire to receive mode so the ESC's telemetry reply
// can drive it, releasing the transmitter's output drive first.
func (l *LineDirection) ToInput() (gpio.PinIn, error) {
	if err := l.pin.In(l.pull, gpio.NoEdge); err != nil {
		return nil, err
	}
	l.driven = false
	return l.pin, nil
}

// Driven reports whether the wire is currently held in output mode.
func (l *LineDirection) Driven() bool { return l.driven }
