// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package dshot implements the DShot protocol core: frame construction and
// checksums, bit-timed pulse symbol generation, GCR telemetry demodulation
// and eRPM/extended-telemetry interpretation.
//
// The package is hardware free. Every exported function is pure and
// allocation free on its hot path so it can run from an interrupt handler;
// driving an actual wire is the job of package engine, which wires a
// gpio.PinIO to the functions here.
package dshot
