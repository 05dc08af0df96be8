// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ui renders a live telemetry readout to the terminal, the bench
// equivalent of the teacher package's devices/screen LED-strip emulator:
// "useful while you are waiting for your real flight-controller firmware
// to come by mail." Where screen.Dev draws an RGB pixel stream, Dashboard
// draws an eRPM bar graph and a row of telemetry fields, falling back to
// plain text when stdout is not a terminal.
package ui

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/go-dshot/dshot/dshot"
	"github.com/go-dshot/dshot/engine"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

// barWidth is the number of colored blocks the eRPM gauge is drawn with.
const barWidth = 40

// Dashboard renders Dev.Statistics and the latest dshot.Telemetry reading
// to an io.Writer, once per call to Render.
type Dashboard struct {
	w      io.Writer
	color  bool
	maxRPM uint32
	buf    bytes.Buffer
}

// New returns a Dashboard sized to a motor's expected maximum RPM (used to
// scale the bar graph). It colorizes its output when stdout is a real
// terminal and falls back to plain text otherwise (e.g. when piped to a
// log file), mirroring go-isatty's standard use in CLI tools.
func New(maxRPM uint32) *Dashboard {
	d := &Dashboard{maxRPM: maxRPM}
	fd := os.Stdout.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		d.w = colorable.NewColorableStdout()
		d.color = true
	} else {
		d.w = os.Stdout
	}
	return d
}

// Render draws one frame of the dashboard: the eRPM bar graph (if a fresh
// eRPM reading is available), the extended-telemetry fields otherwise, and
// the engine's frame/error counters.
func (d *Dashboard) Render(stats engine.Statistics, telem dshot.Telemetry, haveTelemetry bool) {
	d.buf.Reset()
	d.buf.WriteString("\r")
	if d.color {
		d.buf.WriteString("\033[0m")
	}

	if haveTelemetry && telem.Kind == dshot.TelemetryERPM {
		d.writeRPMBar(telem.MotorRPM)
		fmt.Fprintf(&d.buf, " %6d rpm", telem.MotorRPM)
	} else if haveTelemetry {
		d.writeExtended(telem)
	} else {
		d.buf.WriteString("(no telemetry)")
	}

	fmt.Fprintf(&d.buf, "  sent=%d throttled=%d errors=%d",
		stats.FramesSent, stats.FramesThrottled, stats.ErrorCount)

	if d.color {
		d.buf.WriteString("\033[0m")
	}
	d.buf.WriteString(" ")
	_, _ = d.buf.WriteTo(d.w)
}

func (d *Dashboard) writeRPMBar(rpm uint32) {
	frac := float64(rpm) / float64(d.maxRPM)
	if frac > 1 {
		frac = 1
	}
	lit := int(frac * barWidth)
	for i := 0; i < barWidth; i++ {
		if !d.color {
			if i < lit {
				d.buf.WriteByte('#')
			} else {
				d.buf.WriteByte('-')
			}
			continue
		}
		c := rpmGradientColor(float64(i) / barWidth)
		if i >= lit {
			c = color.NRGBA{R: 40, G: 40, B: 40, A: 255}
		}
		d.buf.WriteString(ansi256.Default.Block(c))
	}
}

func (d *Dashboard) writeExtended(t dshot.Telemetry) {
	switch t.Kind {
	case dshot.TelemetryTemperature:
		fmt.Fprintf(&d.buf, "temp=%d C", t.TemperatureC)
	case dshot.TelemetryVoltage:
		fmt.Fprintf(&d.buf, "voltage=%.2f V", float64(t.VoltageCentivolts)/100)
	case dshot.TelemetryCurrent:
		fmt.Fprintf(&d.buf, "current=%d A", t.CurrentAmpUnits)
	case dshot.TelemetryDebugA, dshot.TelemetryDebugB, dshot.TelemetryStress:
		fmt.Fprintf(&d.buf, "debug=%#x", t.DebugPayload)
	case dshot.TelemetryStatus:
		fmt.Fprintf(&d.buf, "status=%#x", t.StatusBits)
	default:
		d.buf.WriteString("(unknown telemetry)")
	}
}

// rpmGradientColor interpolates green -> yellow -> red as frac goes 0 -> 1,
// the same "how hot is this" gradient convention bench RPM gauges use.
func rpmGradientColor(frac float64) color.NRGBA {
	if frac < 0.5 {
		t := frac / 0.5
		return color.NRGBA{R: byte(255 * t), G: 255, B: 0, A: 255}
	}
	t := (frac - 0.5) / 0.5
	return color.NRGBA{R: 255, G: byte(255 * (1 - t)), B: 0, A: 255}
}

// Close clears the dashboard line, mirroring screen.Dev.Halt's
// console-reset behavior.
func (d *Dashboard) Close() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}
