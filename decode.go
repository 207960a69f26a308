package jpegdecoder

import (
	"io"
	"sync"
)

// Options controls optional decode behavior beyond the mandatory baseline
// pipeline.
type Options struct {
	// UpsampleMethod selects the chroma upsampling filter. The zero value,
	// NearestNeighbor, is the required minimum and what the specification's
	// byte-exact scenarios assume.
	UpsampleMethod UpsampleMethod
}

// decoder holds the state accumulated while walking one JPEG's marker
// stream. It is reused across calls via decoderPool the way the teacher
// pools its own decoder struct; reset zeroes it before it goes back to the
// pool, so no tables or frame state carry over from one decode to the next.
type decoder struct {
	br *byteReader

	quant    [4]*quantTable
	dcTables [4]*huffmanTable
	acTables [4]*huffmanTable

	frame           *frameHeader
	restartInterval int
	jfif            jfifInfo

	sofSeen bool
}

func (d *decoder) reset() {
	*d = decoder{}
}

var decoderPool = sync.Pool{
	New: func() interface{} { return &decoder{} },
}

// Decode transforms a complete JFIF/JPEG byte sequence into an Image, per
// the core API in §6 of the decoder specification. Only baseline sequential
// DCT (SOF0), 8-bit precision, and 1 or 3 components are supported;
// anything else fails with ErrUnsupportedMode.
func Decode(data []byte, opts ...Options) (*Image, error) {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}

	d := decoderPool.Get().(*decoder)
	defer func() {
		d.reset()
		decoderPool.Put(d)
	}()

	return d.decode(data, o)
}

// DecodeReader is a convenience wrapper for callers that hold an io.Reader
// rather than an in-memory buffer; the core itself only ever operates on a
// fully buffered byte slice (§5).
func DecodeReader(r io.Reader, opts ...Options) (*Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return Decode(data, opts...)
}

func (d *decoder) decode(data []byte, opts Options) (*Image, error) {
	d.br = newByteReader(data)

	if d.br.remaining() < 2 {
		return nil, newErr(ErrNotJPEG, 0, "input shorter than SOI marker")
	}

	soi0, _ := d.br.readU8()
	soi1, _ := d.br.readU8()
	if soi0 != 0xFF || soi1 != markerSOI {
		return nil, newErr(ErrNotJPEG, 0, "missing SOI marker")
	}

	var selectors []scanComponentSelector

markerLoop:
	for {
		marker, offset, err := d.nextMarker()
		if err != nil {
			return nil, err
		}

		switch {
		case marker == markerSOF0:
			segLen, err := d.readSegLen(offset)
			if err != nil {
				return nil, err
			}
			f, err := parseSOF0(d.br, segLen)
			if err != nil {
				return nil, err
			}
			d.frame = f
			d.sofSeen = true

		case marker >= 0xC1 && marker <= 0xCF && marker != markerDHT:
			// SOF1..SOF15 other than SOF0 (progressive, extended sequential,
			// lossless, arithmetic-coded, etc.) are explicit non-goals.
			return nil, newErr(ErrUnsupportedMode, offset, "unsupported SOF marker 0x%02x", marker)

		case marker == markerDHT:
			segLen, err := d.readSegLen(offset)
			if err != nil {
				return nil, err
			}
			if err := parseDHT(d.br, segLen, &d.dcTables, &d.acTables); err != nil {
				return nil, err
			}

		case marker == markerDQT:
			segLen, err := d.readSegLen(offset)
			if err != nil {
				return nil, err
			}
			if err := parseDQT(d.br, segLen, &d.quant); err != nil {
				return nil, err
			}

		case marker == markerDRI:
			segLen, err := d.readSegLen(offset)
			if err != nil {
				return nil, err
			}
			if segLen != 4 {
				return nil, newErr(ErrTruncatedSegment, offset, "DRI segment must be 4 bytes")
			}
			ri, err := d.br.readU16BE()
			if err != nil {
				return nil, err
			}
			d.restartInterval = int(ri)

		case marker == markerAPP0:
			segLen, err := d.readSegLen(offset)
			if err != nil {
				return nil, err
			}
			info, err := parseAPP0(d.br, segLen)
			if err != nil {
				return nil, err
			}
			d.jfif = info

		case marker >= 0xE1 && marker <= markerAPPF:
			if err := d.skipSegment(offset); err != nil {
				return nil, err
			}

		case marker == markerCOM:
			if err := d.skipSegment(offset); err != nil {
				return nil, err
			}

		case marker == markerSOS:
			if !d.sofSeen {
				return nil, newErr(ErrTruncatedSegment, offset, "SOS before SOF0")
			}

			segLen, err := d.readSegLen(offset)
			if err != nil {
				return nil, err
			}

			selectors, err = parseSOS(d.br, segLen, d.frame)
			if err != nil {
				return nil, err
			}

			if err := validateTablesPresent(d.frame, d.quant, d.dcTables, d.acTables, d.br.position()); err != nil {
				return nil, err
			}

			sd := &scanDecoder{
				frame:           d.frame,
				quant:           d.quant,
				dcTables:        d.dcTables,
				acTables:        d.acTables,
				restartInterval: d.restartInterval,
				br:              newBitReader(d.br),
				order:           selectors,
			}

			if err := sd.decodeScan(); err != nil {
				return nil, err
			}

			break markerLoop

		case marker == markerEOI:
			return nil, newErr(ErrTruncatedSegment, offset, "EOI before SOS")

		default:
			return nil, newErr(ErrUnknownMarker, offset, "marker 0x%02x", marker)
		}
	}

	if !d.sofSeen {
		return nil, newErr(ErrTruncatedSegment, d.br.position(), "no SOF0 segment found")
	}

	return assembleImage(d.frame, opts.UpsampleMethod)
}

// nextMarker reads past any 0xFF fill bytes and returns the marker byte
// that follows, along with the offset the marker byte itself was read at.
func (d *decoder) nextMarker() (marker byte, offset int, err error) {
	b, err := d.br.readU8()
	if err != nil {
		return 0, d.br.position(), err
	}

	if b != 0xFF {
		return 0, d.br.position() - 1, newErr(ErrTruncatedSegment, d.br.position()-1, "expected marker prefix 0xFF, got 0x%02x", b)
	}

	for {
		b, err = d.br.readU8()
		if err != nil {
			return 0, d.br.position(), err
		}

		if b != 0xFF {
			break
		}
	}

	return b, d.br.position() - 1, nil
}

// readSegLen reads a segment's 16-bit big-endian length field and returns
// it, leaving the cursor positioned at the start of the segment payload.
func (d *decoder) readSegLen(markerOffset int) (int, error) {
	segLen, err := d.br.readU16BE()
	if err != nil {
		return 0, err
	}

	if segLen < 2 {
		return 0, newErr(ErrTruncatedSegment, markerOffset, "segment length %d shorter than the length field itself", segLen)
	}
	if int(segLen)-2 > d.br.remaining() {
		return 0, newErr(ErrTruncatedSegment, markerOffset, "segment length %d exceeds remaining input", segLen)
	}

	return int(segLen), nil
}

// skipSegment reads a segment's length and discards its payload.
func (d *decoder) skipSegment(markerOffset int) error {
	segLen, err := d.readSegLen(markerOffset)
	if err != nil {
		return err
	}

	return d.br.skip(segLen - 2)
}
