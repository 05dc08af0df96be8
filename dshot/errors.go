package dshot

import "errors"

// Sentinel errors shared by package engine's public API (spec §7's error
// taxonomy). ErrChecksumFail and ErrInvalidMagnetCount live in gcr.go and
// telemetry.go respectively, next to the code that returns them.
var (
	ErrThrottleOutOfRange = errors.New("dshot: throttle out of range")
	ErrInvalidCommand     = errors.New("dshot: invalid command")
	ErrBidirNotEnabled    = errors.New("dshot: bidirectional telemetry not enabled")
	ErrTelemetryUnavail   = errors.New("dshot: no fresh telemetry reading")

	ErrTxInitFailed               = errors.New("dshot: TX channel init failed")
	ErrRxInitFailed               = errors.New("dshot: RX channel init failed")
	ErrEncoderInitFailed          = errors.New("dshot: encoder init failed")
	ErrCallbackRegistrationFailed = errors.New("dshot: RX callback registration failed")
	ErrTransmissionFailed         = errors.New("dshot: pulse generator refused the buffer")
)
