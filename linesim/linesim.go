// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package linesim provides a simulated half-duplex DShot wire: a single
// gpio.PinIO, stateless like the teacher's bitbang pins, that an engine.Dev
// under test can drive and read back without real hardware.
//
// It plays the part of a loopback ESC: it records every symbol written to it
// and, on request, can be told to answer with a simulated telemetry burst on
// the next read.
package linesim

import (
	"errors"
	"sync"
	"time"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/physic"
)

// Edge captures one level transition with the wall-clock time it happened,
// in order, as the transmitter drove the line.
type Edge struct {
	Level gpio.Level
	At    time.Time
}

// Line is a simulated DShot wire. It implements gpio.PinIO so it can be
// handed to engine.New in place of a pin looked up through gpioreg.
//
// Line is safe for concurrent use by one writer (the transmitter goroutine)
// and one reader (the receiver goroutine), matching the real half-duplex
// wire it stands in for.
type Line struct {
	mu      sync.Mutex
	n       string
	level   gpio.Level
	edges   []Edge
	pull    gpio.Pull
	replyCh chan gpio.Level
}

// New creates a named simulated line, idle high (matching the idle state of
// a pulled-up open-drain DShot wire).
func New(name string) *Line {
	return &Line{n: name, level: gpio.High, pull: gpio.PullUp}
}

// String implements conn.Resource.
func (l *Line) String() string { return l.n }

// Halt implements conn.Resource.
func (l *Line) Halt() error { return nil }

// Name implements pin.Pin.
func (l *Line) Name() string { return l.n }

// Number implements pin.Pin.
func (l *Line) Number() int { return -1 }

// Function implements pin.Pin.
func (l *Line) Function() string { return "DShot" }

// In implements gpio.PinIn.
func (l *Line) In(pull gpio.Pull, e gpio.Edge) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if pull != gpio.PullNoChange {
		l.pull = pull
	}
	return nil
}

// Read implements gpio.PinIn.
func (l *Line) Read() gpio.Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// WaitForEdge implements gpio.PinIn. It blocks until Out (directly or through
// QueueBurst) next changes the line's level, or the timeout elapses.
func (l *Line) WaitForEdge(timeout time.Duration) bool {
	l.mu.Lock()
	ch := l.replyCh
	if ch == nil {
		ch = make(chan gpio.Level, 1)
		l.replyCh = ch
	}
	l.mu.Unlock()

	if timeout <= 0 {
		<-ch
		return true
	}
	select {
	case <-ch:
		return true
	case <-time.After(timeout):
		return false
	}
}

// DefaultPull implements gpio.PinIn.
func (l *Line) DefaultPull() gpio.Pull { return gpio.PullUp }

// Pull implements gpio.PinIn.
func (l *Line) Pull() gpio.Pull {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pull
}

// Out implements gpio.PinOut. Every transition is appended to Edges() so a
// test can assert on the pulse train a transmitter produced.
func (l *Line) Out(level gpio.Level) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level != l.level {
		l.edges = append(l.edges, Edge{Level: level, At: time.Now()})
		l.level = level
		if l.replyCh != nil {
			select {
			case l.replyCh <- level:
			default:
			}
			close(l.replyCh)
			l.replyCh = nil
		}
	}
	return nil
}

// PWM implements gpio.PinOut. DShot never uses it; kept only to satisfy the
// interface, the same way the teacher's synchronous bitbang pins do.
func (l *Line) PWM(gpio.Duty, physic.Frequency) error {
	return errors.New("linesim: PWM not supported")
}

// Edges returns every recorded transition since the last Reset, in order.
func (l *Line) Edges() []Edge {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Edge, len(l.edges))
	copy(out, l.edges)
	return out
}

// Reset clears the recorded edge history and sets the line idle high.
func (l *Line) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.edges = nil
	l.level = gpio.High
}

// QueueBurst drives level transitions for each pulse in sequence, simulating
// an ESC answering with a GCR telemetry burst. It blocks until every pulse
// has been written, so it is meant to run on its own goroutine started just
// before the receiver begins listening.
func (l *Line) QueueBurst(pulses []SimPulse) {
	for _, p := range pulses {
		l.Out(p.Level)
		time.Sleep(p.Duration)
	}
	l.Out(gpio.High)
}

// SimPulse is one level/duration pair in wall-clock time, the form QueueBurst
// consumes (as opposed to dshot.Pulse, which is duration in clock ticks).
type SimPulse struct {
	Level    gpio.Level
	Duration time.Duration
}

var _ gpio.PinIO = (*Line)(nil)
