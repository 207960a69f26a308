package jpegdecoder

// Marker byte values recognized by the outer state machine (§4.2).
const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerSOF0 = 0xC0
	markerDHT  = 0xC4
	markerDQT  = 0xDB
	markerDRI  = 0xDD
	markerSOS  = 0xDA
	markerCOM  = 0xFE
	markerRST0 = 0xD0
	markerRST7 = 0xD7
	markerAPP0 = 0xE0
	markerAPPF = 0xEF
)

// quantTable holds one dequantization matrix in zig-zag order, exactly as
// stored in a DQT segment.
type quantTable struct {
	values [64]uint16
}

// component is a single frame component's static description plus the
// mutable state (DC predictor, decoded plane) accumulated while decoding.
type component struct {
	id       int // Ci from SOF0
	h, v     int // sampling factors Hi, Vi
	quantSel int // Tqi

	// Populated once the frame dimensions are known. width/height are the
	// component's logical (unpadded) sample counts, ceil(frameDim*Hi/Hmax)
	// and ceil(frameDim*Vi/Vmax) — the resolution upsampling must reach,
	// before any final crop. stride is the padded per-row length of pixels,
	// sized to whole MCUs, since the entropy decoder writes full 8x8 blocks
	// up to the MCU grid regardless of where the real samples end.
	width, height int
	stride        int
	pixels        []byte

	// Populated by SOS.
	dcTable int
	acTable int

	dcPred int
}

// frameHeader is the parsed SOF0 payload plus derived MCU geometry.
type frameHeader struct {
	precision int
	width     int
	height    int
	numComp   int
	comps     []component

	hMax, vMax     int
	mcuWidth       int
	mcuHeight      int
	mcusPerRow     int
	mcusPerColumn  int
}

// jfifInfo is the parsed APP0 payload (§4.2); nothing downstream depends on
// it, but a conforming baseline decoder must still validate and consume it.
type jfifInfo struct {
	present     bool
	versionMaj  byte
	versionMin  byte
	units       byte
	xDensity    uint16
	yDensity    uint16
	xThumbnail  byte
	yThumbnail  byte
}

// componentByID returns the index into f.comps of the component with the
// given SOF0 component id, or -1.
func (f *frameHeader) componentByID(id int) int {
	for i := range f.comps {
		if f.comps[i].id == id {
			return i
		}
	}

	return -1
}

// parseAPP0 parses the JFIF APP0 payload: identifier, version, density
// units, and thumbnail dimensions, discarding any thumbnail pixel data.
// A non-JFIF APP0 payload is consumed to the end of the segment and
// reported with present == false; APP1..APPF are skipped by length by the
// caller instead.
func parseAPP0(r *byteReader, segLen int) (jfifInfo, error) {
	start := r.position()
	end := start + segLen - 2 // segLen counts the 2-byte length field itself

	ident, err := r.readBytes(5)
	if err != nil {
		return jfifInfo{}, err
	}

	if string(ident) != "JFIF\x00" {
		// Not a JFIF APP0; caller already committed to reading it as one,
		// so just consume the remainder as opaque data.
		if err := r.skip(end - r.position()); err != nil {
			return jfifInfo{}, err
		}

		return jfifInfo{}, nil
	}

	var info jfifInfo
	info.present = true

	if info.versionMaj, err = r.readU8(); err != nil {
		return jfifInfo{}, err
	}
	if info.versionMin, err = r.readU8(); err != nil {
		return jfifInfo{}, err
	}
	if info.units, err = r.readU8(); err != nil {
		return jfifInfo{}, err
	}
	if info.xDensity, err = r.readU16BE(); err != nil {
		return jfifInfo{}, err
	}
	if info.yDensity, err = r.readU16BE(); err != nil {
		return jfifInfo{}, err
	}
	if info.xThumbnail, err = r.readU8(); err != nil {
		return jfifInfo{}, err
	}
	if info.yThumbnail, err = r.readU8(); err != nil {
		return jfifInfo{}, err
	}

	thumbBytes := int(info.xThumbnail) * int(info.yThumbnail) * 3
	if r.position()+thumbBytes > end {
		return jfifInfo{}, newErr(ErrTruncatedSegment, start, "APP0 thumbnail exceeds segment length")
	}

	if err := r.skip(thumbBytes); err != nil {
		return jfifInfo{}, err
	}

	// Any padding left in the segment (nonstandard, but tolerated) is
	// discarded rather than treated as an error.
	if rem := end - r.position(); rem > 0 {
		if err := r.skip(rem); err != nil {
			return jfifInfo{}, err
		}
	}

	return info, nil
}

// parseDQT parses one or more quantization tables from a DQT segment (§4.2).
func parseDQT(r *byteReader, segLen int, tables *[4]*quantTable) error {
	start := r.position()
	remaining := segLen - 2

	for remaining > 0 {
		if remaining < 1 {
			return newErr(ErrTruncatedSegment, start, "DQT table header truncated")
		}

		info, err := r.readU8()
		if err != nil {
			return err
		}
		remaining--

		precision := info >> 4
		id := info & 0x0F
		if id > 3 || precision > 1 {
			return newErr(ErrTruncatedSegment, start, "invalid DQT table selector/precision byte 0x%02x", info)
		}

		valueBytes := 64
		if precision == 1 {
			valueBytes = 128
		}

		if remaining < valueBytes {
			return newErr(ErrTruncatedSegment, start, "DQT table data truncated")
		}

		qt := &quantTable{}
		for i := 0; i < 64; i++ {
			if precision == 0 {
				v, err := r.readU8()
				if err != nil {
					return err
				}
				qt.values[i] = uint16(v)
			} else {
				v, err := r.readU16BE()
				if err != nil {
					return err
				}
				qt.values[i] = v
			}
		}
		remaining -= valueBytes

		tables[id] = qt
	}

	if remaining != 0 {
		return newErr(ErrTruncatedSegment, start, "DQT segment length mismatch")
	}

	return nil
}

// parseDHT parses one or more Huffman tables from a DHT segment (§4.2).
func parseDHT(r *byteReader, segLen int, dcTables, acTables *[4]*huffmanTable) error {
	start := r.position()
	remaining := segLen - 2

	for remaining >= 17 {
		info, err := r.readU8()
		if err != nil {
			return err
		}
		remaining--

		class := info >> 4
		id := info & 0x0F
		if class > 1 || id > 3 {
			return newErr(ErrTruncatedSegment, start, "invalid DHT class/selector byte 0x%02x", info)
		}

		var counts [16]byte
		for i := 0; i < 16; i++ {
			counts[i], err = r.readU8()
			if err != nil {
				return err
			}
		}
		remaining -= 16

		var n int
		for _, c := range counts {
			n += int(c)
		}

		if n > remaining {
			return newErr(ErrTruncatedSegment, start, "DHT symbol list exceeds segment length")
		}

		symbols, err := r.readBytes(n)
		if err != nil {
			return err
		}
		remaining -= n

		table, err := buildHuffmanTable(counts, append([]byte(nil), symbols...))
		if err != nil {
			return err
		}

		if class == 0 {
			dcTables[id] = table
		} else {
			acTables[id] = table
		}
	}

	if remaining != 0 {
		return newErr(ErrTruncatedSegment, start, "DHT segment length mismatch")
	}

	return nil
}

// parseSOF0 parses the baseline frame header (§3, §4.2) and derives MCU
// geometry and per-component plane dimensions.
func parseSOF0(r *byteReader, segLen int) (*frameHeader, error) {
	start := r.position()
	if segLen < 8 {
		return nil, newErr(ErrTruncatedSegment, start, "SOF0 segment too short")
	}

	precision, err := r.readU8()
	if err != nil {
		return nil, err
	}
	if precision != 8 {
		return nil, newErr(ErrUnsupportedMode, start, "sample precision %d != 8", precision)
	}

	height, err := r.readU16BE()
	if err != nil {
		return nil, err
	}
	width, err := r.readU16BE()
	if err != nil {
		return nil, err
	}
	if width == 0 || height == 0 {
		return nil, newErr(ErrTruncatedSegment, start, "zero image dimension")
	}

	nf, err := r.readU8()
	if err != nil {
		return nil, err
	}
	if nf != 1 && nf != 3 {
		return nil, newErr(ErrUnsupportedMode, start, "unsupported component count %d", nf)
	}

	if segLen != 8+int(nf)*3 {
		return nil, newErr(ErrTruncatedSegment, start, "SOF0 length inconsistent with component count")
	}

	f := &frameHeader{
		precision: int(precision),
		width:     int(width),
		height:    int(height),
		numComp:   int(nf),
		comps:     make([]component, nf),
	}

	for i := 0; i < int(nf); i++ {
		id, err := r.readU8()
		if err != nil {
			return nil, err
		}
		hv, err := r.readU8()
		if err != nil {
			return nil, err
		}
		tq, err := r.readU8()
		if err != nil {
			return nil, err
		}

		h, v := int(hv>>4), int(hv&0x0F)
		if h < 1 || h > 4 || v < 1 || v > 4 {
			return nil, newErr(ErrUnsupportedMode, start, "sampling factors %dx%d out of range", h, v)
		}
		if tq > 3 {
			return nil, newErr(ErrTruncatedSegment, start, "quantization table selector %d out of range", tq)
		}

		f.comps[i] = component{id: int(id), h: h, v: v, quantSel: int(tq)}

		if h > f.hMax {
			f.hMax = h
		}
		if v > f.vMax {
			f.vMax = v
		}
	}

	blocksPerMCU := 0
	for i := range f.comps {
		blocksPerMCU += f.comps[i].h * f.comps[i].v
	}
	if blocksPerMCU > 10 {
		return nil, newErr(ErrUnsupportedMode, start, "%d blocks per MCU exceeds baseline limit of 10", blocksPerMCU)
	}

	f.mcuWidth = 8 * f.hMax
	f.mcuHeight = 8 * f.vMax
	f.mcusPerRow = (f.width + f.mcuWidth - 1) / f.mcuWidth
	f.mcusPerColumn = (f.height + f.mcuHeight - 1) / f.mcuHeight

	for i := range f.comps {
		c := &f.comps[i]
		paddedWidth := f.mcusPerRow * c.h * 8
		paddedHeight := f.mcusPerColumn * c.v * 8
		c.stride = paddedWidth
		c.pixels = make([]byte, paddedWidth*paddedHeight)

		// Logical (pre-upsample, pre-crop) resolution: proportional to the
		// component's own sampling ratio against the frame maximum, not the
		// MCU-padded buffer size above. Dividing the final image dimension
		// by the padded buffer size only gives the right Hmax/Hi ratio when
		// width/height happen to be exact multiples of the MCU size; this
		// keeps the two quantities separate so upsamplePlane always sees the
		// true source resolution.
		c.width = (f.width*c.h + f.hMax - 1) / f.hMax
		c.height = (f.height*c.v + f.vMax - 1) / f.vMax
	}

	return f, nil
}

// scanComponentSelector is one (Cs, Td, Ta) triple from an SOS segment.
type scanComponentSelector struct {
	compIndex int // index into frameHeader.comps
	dcTable   int
	acTable   int
}

// parseSOS parses the scan header (§3, §4.2) and cross-references its
// component selectors against the frame header.
func parseSOS(r *byteReader, segLen int, f *frameHeader) ([]scanComponentSelector, error) {
	start := r.position()
	if segLen < 4 {
		return nil, newErr(ErrTruncatedSegment, start, "SOS segment too short")
	}

	ns, err := r.readU8()
	if err != nil {
		return nil, err
	}
	if int(ns) != f.numComp {
		return nil, newErr(ErrUnsupportedMode, start, "interleaved scan must reference all %d frame components, got %d", f.numComp, ns)
	}
	if segLen != 6+2*int(ns) {
		return nil, newErr(ErrTruncatedSegment, start, "SOS length inconsistent with component count")
	}

	selectors := make([]scanComponentSelector, ns)
	for i := 0; i < int(ns); i++ {
		cs, err := r.readU8()
		if err != nil {
			return nil, err
		}
		tdTa, err := r.readU8()
		if err != nil {
			return nil, err
		}

		idx := f.componentByID(int(cs))
		if idx < 0 {
			return nil, newErr(ErrTruncatedSegment, start, "SOS references undefined component id %d", cs)
		}

		td, ta := int(tdTa>>4), int(tdTa&0x0F)
		if td > 3 || ta > 3 {
			return nil, newErr(ErrTruncatedSegment, start, "SOS Huffman table selectors out of range")
		}

		selectors[i] = scanComponentSelector{compIndex: idx, dcTable: td, acTable: ta}
	}

	ss, err := r.readU8()
	if err != nil {
		return nil, err
	}
	se, err := r.readU8()
	if err != nil {
		return nil, err
	}
	ahAl, err := r.readU8()
	if err != nil {
		return nil, err
	}

	if ss != 0 || se != 63 || ahAl != 0 {
		return nil, newErr(ErrUnsupportedMode, start, "non-baseline spectral selection (Ss=%d Se=%d Ah/Al=0x%02x)", ss, se, ahAl)
	}

	for _, sel := range selectors {
		f.comps[sel.compIndex].dcTable = sel.dcTable
		f.comps[sel.compIndex].acTable = sel.acTable
	}

	return selectors, nil
}
