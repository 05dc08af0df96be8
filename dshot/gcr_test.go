package dshot

import "testing"

func TestUnscrambleScrambleInverse(t *testing.T) {
	samples := []uint32{0, 1, 0xFFFFF, 0xAAAAA, 0x55555, 0x12345, 0x0F0F0}
	for _, x := range samples {
		x &= 0xFFFFF
		if got := unscramble(scramble(x)); got != x {
			t.Errorf("unscramble(scramble(%#x)) = %#x, want %#x", x, got, x)
		}
		y := scramble(x)
		if got := scramble(unscramble(y)); got != y {
			t.Errorf("scramble(unscramble(%#x)) = %#x, want %#x", y, got, y)
		}
	}
}

func TestGCREncodeTableIsInverseOfDecodeTable(t *testing.T) {
	for nibble := 0; nibble < 16; nibble++ {
		code := gcrEncodeTable[nibble]
		if gcrDecodeTable[code] != uint8(nibble) {
			t.Errorf("nibble %#x -> code %#x -> nibble %#x, want %#x", nibble, code, gcrDecodeTable[code], nibble)
		}
	}
}

// Invariant 5: encode -> pulse train -> demodulate round trips for a
// sample of 16-bit frames, in both standard and bidirectional CRC mode.
func TestEncodeDemodulateRoundTrip(t *testing.T) {
	const bitTicks = 100
	words := []uint16{0x0000, 0x20B5, 0xFFFF, 0x1234, 0xABCD, 0x0001, 0x8000, 0x000F, 0xFFF0}
	for _, bidir := range []bool{false, true} {
		for _, word := range words {
			payload, crc := ParseInbound(word)
			if !VerifyCRC(payload, crc, bidir) {
				continue // word's CRC doesn't correspond to this mode, skip
			}
			pulses := PulsesFromWord(word, bitTicks)
			gotPayload, err := DemodulateGCR(pulses, bitTicks, bidir)
			if err != nil {
				t.Fatalf("word=%#04x bidir=%v: DemodulateGCR error: %v", word, bidir, err)
			}
			if gotPayload != payload {
				t.Fatalf("word=%#04x bidir=%v: payload = %#x, want %#x", word, bidir, gotPayload, payload)
			}
		}
	}
}

func TestDemodulateGCRRejectsShortBurst(t *testing.T) {
	if _, err := DemodulateGCR([]Pulse{{Level: markLevel, Duration: 100}}, 100, false); err != ErrChecksumFail {
		t.Fatalf("err = %v, want ErrChecksumFail", err)
	}
}

func TestDemodulateGCRRejectsZeroBitTicks(t *testing.T) {
	pulses := PulsesFromWord(0x20B5, 100)
	if _, err := DemodulateGCR(pulses, 0, false); err != ErrChecksumFail {
		t.Fatalf("err = %v, want ErrChecksumFail", err)
	}
}

func TestDemodulateGCRRejectsCorruptedCode(t *testing.T) {
	pulses := PulsesFromWord(0x20B5, 100)
	// Corrupt the first pulse's duration so the decoded GCR code can't map
	// to a valid nibble.
	pulses[0].Duration = 1
	if _, err := DemodulateGCR(pulses, 100, false); err == nil {
		t.Fatalf("expected an error decoding a corrupted burst, got nil")
	}
}
