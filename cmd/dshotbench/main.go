// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// dshotbench drives an ESC at a fixed throttle and renders its
// bidirectional telemetry as a live terminal dashboard, the bench
// equivalent of the teacher package's screen.Dev LED-strip emulator.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/go-dshot/dshot/config"
	"github.com/go-dshot/dshot/dshot"
	"github.com/go-dshot/dshot/engine"
	"github.com/go-dshot/dshot/ui"
	"periph.io/x/periph/host"
)

func mainImpl() error {
	configPath := flag.String("config", "", "YAML config file (defaults applied if absent)")
	throttle := flag.Int("throttle", 200, "throttle value to hold (0..2047)")
	maxRPM := flag.Uint("max-rpm", 30000, "expected maximum motor RPM, scales the bar graph")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	if !*verbose {
		log.SetOutput(os.Stderr)
		log.SetFlags(0)
	}
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}

	if _, err := host.Init(); err != nil {
		return err
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		cfg = config.LoadConfig(*configPath)
	}
	cfg.Bidirectional = true
	mode, err := cfg.DShotMode()
	if err != nil {
		return err
	}

	dev, err := engine.New(cfg.Pin, mode, true, cfg.MagnetCount)
	if err != nil {
		return err
	}
	if err := dev.Begin(); err != nil {
		return err
	}
	defer dev.Shutdown()

	dash := ui.New(uint32(*maxRPM))
	defer dash.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)

	period := time.Second / time.Duration(cfg.PollHz)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-sigCh:
			fmt.Println()
			return nil
		case <-ticker.C:
			if _, err := dev.SendThrottle(uint16(*throttle)); err != nil {
				return err
			}
			telem, err := dev.PollTelemetry()
			dash.Render(dev.Statistics(), telem, err == nil)
			if err != nil && !errors.Is(err, dshot.ErrTelemetryUnavail) {
				log.Printf("telemetry: %v", err)
			}
		}
	}
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "dshotbench: %s.\n", err)
		os.Exit(1)
	}
}
