package dshot

import "testing"

// S4: eRPM frame, mantissa 0xD1 (209), exponent 1 -> period 418,
// erpm = round(600000/418) = 1435... verify against the worked scenario.
func TestScenarioS4(t *testing.T) {
	mantissa := uint16(0xD1)
	exponent := uint16(1)
	payload := (exponent << erpmMantissaShift) | mantissa

	telem, err := DecodeTelemetry(payload, false, 14)
	if err != nil {
		t.Fatalf("DecodeTelemetry error: %v", err)
	}
	if telem.Kind != TelemetryERPM {
		t.Fatalf("Kind = %v, want TelemetryERPM", telem.Kind)
	}
	if telem.ERPM != 1435 {
		t.Fatalf("ERPM = %d, want 1435", telem.ERPM)
	}
}

func TestDecodeTelemetryRejectsBadMagnetCount(t *testing.T) {
	for _, n := range []int{0, 1, 3, -2} {
		if _, err := DecodeTelemetry(0x0001, false, n); err != ErrInvalidMagnetCount {
			t.Errorf("magnetCount=%d: err = %v, want ErrInvalidMagnetCount", n, err)
		}
	}
}

func TestDecodeTelemetryERPMBusy(t *testing.T) {
	telem, err := DecodeTelemetry(erpmBusyValue, false, 14)
	if err != nil {
		t.Fatalf("DecodeTelemetry error: %v", err)
	}
	if telem.Kind != TelemetryERPM || telem.ERPM != 0 {
		t.Fatalf("telem = %+v, want zero-value ERPM reading", telem)
	}
}

func TestDecodeTelemetryExtendedKinds(t *testing.T) {
	cases := []struct {
		name    string
		payload uint16
		want    TelemetryKind
	}{
		{"temperature", 0x246, TelemetryTemperature},
		{"voltage", 0x410, TelemetryVoltage},
		{"current", 0x605, TelemetryCurrent},
		{"debugA", 0x801, TelemetryDebugA},
		{"debugB", 0xA02, TelemetryDebugB},
		{"stress", 0xC03, TelemetryStress},
		{"status", 0xE04, TelemetryStatus},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			telem, err := DecodeTelemetry(c.payload, true, 14)
			if err != nil {
				t.Fatalf("DecodeTelemetry error: %v", err)
			}
			if telem.Kind != c.want {
				t.Fatalf("Kind = %v, want %v", telem.Kind, c.want)
			}
		})
	}
}

func TestDecodeTelemetryVoltageScale(t *testing.T) {
	telem, err := DecodeTelemetry(0x410, true, 14)
	if err != nil {
		t.Fatalf("DecodeTelemetry error: %v", err)
	}
	if telem.VoltageCentivolts != 0x10*25 {
		t.Fatalf("VoltageCentivolts = %d, want %d", telem.VoltageCentivolts, 0x10*25)
	}
}
