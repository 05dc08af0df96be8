// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// dshotctl sends a single throttle value or command to an ESC over a
// gpio.PinIO and, in bidirectional mode, prints back the telemetry it
// receives.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-dshot/dshot/config"
	"github.com/go-dshot/dshot/dshot"
	"github.com/go-dshot/dshot/engine"
	"periph.io/x/periph/host"
)

func mainImpl() error {
	configPath := flag.String("config", "", "YAML config file (defaults applied if absent)")
	throttle := flag.Int("throttle", -1, "throttle value to send (0..2047)")
	cmd := flag.Int("cmd", -1, "command code to send (0..47)")
	repeat := flag.Int("repeat", 1, "times to repeat -cmd")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	if !*verbose {
		log.SetOutput(os.Stderr)
		log.SetFlags(0)
	} else {
		log.SetFlags(log.Lmicroseconds)
	}

	if *throttle < 0 && *cmd < 0 {
		return errors.New("specify -throttle or -cmd, try -help")
	}

	if _, err := host.Init(); err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		cfg = config.LoadConfig(*configPath)
	}
	mode, err := cfg.DShotMode()
	if err != nil {
		return err
	}

	dev, err := engine.New(cfg.Pin, mode, cfg.Bidirectional, cfg.MagnetCount)
	if err != nil {
		return err
	}
	if err := dev.Begin(); err != nil {
		return err
	}
	defer dev.Shutdown()

	switch {
	case *cmd >= 0:
		if err := dev.SendCommand(uint16(*cmd), *repeat, time.Duration(cfg.CommandDelayUs)*time.Microsecond); err != nil {
			return err
		}
		fmt.Printf("sent %s x%d\n", dshot.CommandName(uint16(*cmd)), *repeat)
	case *throttle >= 0:
		res, err := dev.SendThrottle(uint16(*throttle))
		if err != nil {
			return err
		}
		fmt.Printf("sent throttle %d: %s\n", *throttle, res)
	}

	if cfg.Bidirectional {
		time.Sleep(2 * time.Millisecond)
		if telem, err := dev.PollTelemetry(); err == nil {
			printTelemetry(telem)
		} else {
			fmt.Printf("no telemetry: %v\n", err)
		}
	}
	return nil
}

func printTelemetry(t dshot.Telemetry) {
	switch t.Kind {
	case dshot.TelemetryERPM:
		fmt.Printf("telemetry: eRPM=%d motorRPM=%d\n", t.ERPM, t.MotorRPM)
	case dshot.TelemetryTemperature:
		fmt.Printf("telemetry: temperature=%d C\n", t.TemperatureC)
	case dshot.TelemetryVoltage:
		fmt.Printf("telemetry: voltage=%.2f V\n", float64(t.VoltageCentivolts)/100)
	case dshot.TelemetryCurrent:
		fmt.Printf("telemetry: current=%d A\n", t.CurrentAmpUnits)
	default:
		fmt.Printf("telemetry: kind=%d\n", t.Kind)
	}
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "dshotctl: %s.\n", err)
		os.Exit(1)
	}
}
