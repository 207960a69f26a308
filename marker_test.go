package jpegdecoder

import (
	"errors"
	"testing"
)

func TestParseDQTSingleTable(t *testing.T) {
	payload := []byte{0x00} // precision 0, id 0
	for i := 0; i < 64; i++ {
		payload = append(payload, byte(i+1))
	}

	segLen := 2 + len(payload)
	r := newByteReader(payload)

	var tables [4]*quantTable
	if err := parseDQT(r, segLen, &tables); err != nil {
		t.Fatalf("parseDQT() = %v, want nil", err)
	}

	if tables[0] == nil {
		t.Fatalf("tables[0] is nil")
	}
	for i := 0; i < 64; i++ {
		if tables[0].values[i] != uint16(i+1) {
			t.Errorf("tables[0].values[%d] = %d, want %d", i, tables[0].values[i], i+1)
		}
	}
	for i := 1; i < 4; i++ {
		if tables[i] != nil {
			t.Errorf("tables[%d] populated unexpectedly", i)
		}
	}
}

func TestParseDQTInvalidSelector(t *testing.T) {
	payload := append([]byte{0x04}, make([]byte, 64)...) // id 4 out of range

	var tables [4]*quantTable
	err := parseDQT(newByteReader(payload), 2+len(payload), &tables)
	if !errors.Is(err, ErrTruncatedSegment) {
		t.Fatalf("parseDQT() = %v, want ErrTruncatedSegment", err)
	}
}

func TestParseDHTSingleTable(t *testing.T) {
	// One DC table (class 0, id 0) with a single 1-bit code for symbol 0x05.
	var counts [16]byte
	counts[0] = 1

	payload := []byte{0x00}
	payload = append(payload, counts[:]...)
	payload = append(payload, 0x05)

	var dc, ac [4]*huffmanTable
	err := parseDHT(newByteReader(payload), 2+len(payload), &dc, &ac)
	if err != nil {
		t.Fatalf("parseDHT() = %v, want nil", err)
	}

	if dc[0] == nil {
		t.Fatalf("dc[0] is nil")
	}
	if ac[0] != nil {
		t.Fatalf("ac[0] populated unexpectedly")
	}
}

func TestParseSOF0Baseline(t *testing.T) {
	payload := []byte{
		8,          // precision
		0x00, 0x10, // height 16
		0x00, 0x10, // width 16
		3, // Nf
		1, 0x22, 0, // Y: h=2 v=2 tq=0
		2, 0x11, 1, // Cb: h=1 v=1 tq=1
		3, 0x11, 1, // Cr: h=1 v=1 tq=1
	}

	f, err := parseSOF0(newByteReader(payload), 2+len(payload))
	if err != nil {
		t.Fatalf("parseSOF0() = %v, want nil", err)
	}

	if f.width != 16 || f.height != 16 || f.numComp != 3 {
		t.Fatalf("parseSOF0() dims = %dx%d x%d comps", f.width, f.height, f.numComp)
	}
	if f.hMax != 2 || f.vMax != 2 {
		t.Fatalf("hMax/vMax = %d/%d, want 2/2", f.hMax, f.vMax)
	}
	if f.mcusPerRow != 1 || f.mcusPerColumn != 1 {
		t.Fatalf("mcu grid = %dx%d, want 1x1", f.mcusPerRow, f.mcusPerColumn)
	}
	// Y is full resolution (h=v=2 == hMax/vMax); chroma is subsampled.
	if f.comps[0].width != 16 || f.comps[0].height != 16 {
		t.Fatalf("Y plane = %dx%d, want 16x16", f.comps[0].width, f.comps[0].height)
	}
	if f.comps[1].width != 8 || f.comps[1].height != 8 {
		t.Fatalf("Cb plane = %dx%d, want 8x8", f.comps[1].width, f.comps[1].height)
	}
}

func TestParseSOF0NonMCUAlignedDimensions(t *testing.T) {
	// 18x10 with 4:2:0 sampling: neither dimension is a multiple of the
	// 16x16 MCU size, which is the common case for real-world images, not
	// an edge case. The chroma planes' logical (pre-upsample) resolution
	// must be derived from the sampling ratio, not from the MCU-padded
	// buffer size, or upsampling later silently under-scales them.
	payload := []byte{
		8,          // precision
		0x00, 0x0A, // height 10
		0x00, 0x12, // width 18
		3, // Nf
		1, 0x22, 0, // Y: h=2 v=2 tq=0
		2, 0x11, 1, // Cb: h=1 v=1 tq=1
		3, 0x11, 1, // Cr: h=1 v=1 tq=1
	}

	f, err := parseSOF0(newByteReader(payload), 2+len(payload))
	if err != nil {
		t.Fatalf("parseSOF0() = %v, want nil", err)
	}

	if f.mcusPerRow != 2 || f.mcusPerColumn != 1 {
		t.Fatalf("mcu grid = %dx%d, want 2x1", f.mcusPerRow, f.mcusPerColumn)
	}

	// Y is full resolution: logical size equals the frame size exactly.
	if f.comps[0].width != 18 || f.comps[0].height != 10 {
		t.Fatalf("Y plane = %dx%d, want 18x10", f.comps[0].width, f.comps[0].height)
	}
	if f.comps[0].stride != 32 {
		t.Fatalf("Y stride = %d, want 32 (MCU-padded)", f.comps[0].stride)
	}

	// Chroma logical size is ceil(18/2)=9 by ceil(10/2)=5, NOT the
	// MCU-padded 16x8 buffer size the entropy decoder writes into.
	if f.comps[1].width != 9 || f.comps[1].height != 5 {
		t.Fatalf("Cb plane = %dx%d, want 9x5", f.comps[1].width, f.comps[1].height)
	}
	if f.comps[1].stride != 16 {
		t.Fatalf("Cb stride = %d, want 16 (MCU-padded)", f.comps[1].stride)
	}
}

func TestParseSOF0RejectsNonBaselinePrecision(t *testing.T) {
	payload := []byte{12, 0, 8, 0, 8, 1, 1, 0x11, 0}

	_, err := parseSOF0(newByteReader(payload), 2+len(payload))
	if !errors.Is(err, ErrUnsupportedMode) {
		t.Fatalf("parseSOF0() = %v, want ErrUnsupportedMode", err)
	}
}

func TestParseSOF0RejectsUnsupportedComponentCount(t *testing.T) {
	payload := []byte{8, 0, 8, 0, 8, 2, 1, 0x11, 0, 2, 0x11, 0}

	_, err := parseSOF0(newByteReader(payload), 2+len(payload))
	if !errors.Is(err, ErrUnsupportedMode) {
		t.Fatalf("parseSOF0() = %v, want ErrUnsupportedMode", err)
	}
}

func TestParseSOSMatchesFrameComponents(t *testing.T) {
	f := &frameHeader{
		numComp: 1,
		comps:   []component{{id: 1}},
	}

	payload := []byte{1, 1, 0x00, 0, 63, 0}

	selectors, err := parseSOS(newByteReader(payload), 2+len(payload), f)
	if err != nil {
		t.Fatalf("parseSOS() = %v, want nil", err)
	}
	if len(selectors) != 1 || selectors[0].compIndex != 0 {
		t.Fatalf("parseSOS() selectors = %+v", selectors)
	}
	if f.comps[0].dcTable != 0 || f.comps[0].acTable != 0 {
		t.Fatalf("SOS did not populate component table selectors")
	}
}

func TestParseSOSRejectsUndefinedComponent(t *testing.T) {
	f := &frameHeader{numComp: 1, comps: []component{{id: 1}}}
	payload := []byte{1, 9, 0x00, 0, 63, 0}

	_, err := parseSOS(newByteReader(payload), 2+len(payload), f)
	if !errors.Is(err, ErrTruncatedSegment) {
		t.Fatalf("parseSOS() = %v, want ErrTruncatedSegment", err)
	}
}

func TestParseSOSRejectsProgressiveSpectralSelection(t *testing.T) {
	f := &frameHeader{numComp: 1, comps: []component{{id: 1}}}
	payload := []byte{1, 1, 0x00, 0, 5, 0} // Se=5, not 63

	_, err := parseSOS(newByteReader(payload), 2+len(payload), f)
	if !errors.Is(err, ErrUnsupportedMode) {
		t.Fatalf("parseSOS() = %v, want ErrUnsupportedMode", err)
	}
}

func TestParseAPP0JFIF(t *testing.T) {
	payload := []byte{'J', 'F', 'I', 'F', 0x00, 1, 2, 0, 0, 72, 0, 96, 0, 0}

	info, err := parseAPP0(newByteReader(payload), 2+len(payload))
	if err != nil {
		t.Fatalf("parseAPP0() = %v, want nil", err)
	}
	if !info.present || info.versionMaj != 1 || info.versionMin != 2 {
		t.Fatalf("parseAPP0() = %+v", info)
	}
	if info.xDensity != 72 || info.yDensity != 96 {
		t.Fatalf("parseAPP0() densities = %d/%d, want 72/96", info.xDensity, info.yDensity)
	}
}

func TestParseAPP0NonJFIFIsSkipped(t *testing.T) {
	payload := []byte{'E', 'x', 'i', 'f', 0x00, 0x00, 0xAA, 0xBB}

	info, err := parseAPP0(newByteReader(payload), 2+len(payload))
	if err != nil {
		t.Fatalf("parseAPP0() = %v, want nil", err)
	}
	if info.present {
		t.Fatalf("parseAPP0() reported present=true for a non-JFIF payload")
	}
}
