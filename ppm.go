package jpegdecoder

import (
	"bufio"
	"bytes"
	"fmt"
)

// WritePPM serializes img as a binary PPM (P6) image: the three-line ASCII
// header "P6\n<width> <height>\n255\n" followed immediately by Width*Height
// interleaved RGB triples, with no trailing newline (§4.6).
func WritePPM(img *Image) []byte {
	var buf bytes.Buffer
	buf.Grow(32 + len(img.RGB))

	fmt.Fprintf(&buf, "P6\n%d %d\n255\n", img.Width, img.Height)
	buf.Write(img.RGB)

	return buf.Bytes()
}

// ParsePPM reads back a binary PPM (P6) image written by WritePPM. It exists
// for round-tripping decoded output in tests and tooling; the core decoder
// never calls it itself.
func ParsePPM(data []byte) (*Image, error) {
	r := bufio.NewReader(bytes.NewReader(data))

	magic, err := readPPMToken(r)
	if err != nil {
		return nil, fmt.Errorf("ppm: reading magic: %w", err)
	}
	if magic != "P6" {
		return nil, fmt.Errorf("ppm: unsupported magic %q, want P6", magic)
	}

	width, err := readPPMInt(r)
	if err != nil {
		return nil, fmt.Errorf("ppm: reading width: %w", err)
	}
	height, err := readPPMInt(r)
	if err != nil {
		return nil, fmt.Errorf("ppm: reading height: %w", err)
	}
	maxVal, err := readPPMInt(r)
	if err != nil {
		return nil, fmt.Errorf("ppm: reading maxval: %w", err)
	}
	if maxVal != 255 {
		return nil, fmt.Errorf("ppm: unsupported maxval %d, want 255", maxVal)
	}

	// readPPMInt stops right after the single whitespace byte that
	// terminates the maxval token, which is exactly the PPM header/data
	// boundary; everything from here on is raw pixel data.
	want := width * height * 3
	rgb := make([]byte, want)
	if _, err := fullRead(r, rgb); err != nil {
		return nil, fmt.Errorf("ppm: reading pixel data: %w", err)
	}

	return &Image{
		Width:         width,
		Height:        height,
		NumComponents: 3,
		RGB:           rgb,
	}, nil
}

func readPPMToken(r *bufio.Reader) (string, error) {
	for {
		b, err := r.ReadByte()
		if err != nil {
			return "", err
		}
		if b == '#' {
			if _, err := r.ReadString('\n'); err != nil {
				return "", err
			}

			continue
		}
		if isPPMSpace(b) {
			continue
		}

		var tok []byte
		tok = append(tok, b)
		for {
			b, err := r.ReadByte()
			if err != nil {
				return string(tok), nil
			}
			if isPPMSpace(b) {
				return string(tok), nil
			}
			tok = append(tok, b)
		}
	}
}

func readPPMInt(r *bufio.Reader) (int, error) {
	tok, err := readPPMToken(r)
	if err != nil {
		return 0, err
	}

	var n int
	for _, c := range []byte(tok) {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("not a decimal integer: %q", tok)
		}
		n = n*10 + int(c-'0')
	}

	return n, nil
}

func isPPMSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func fullRead(r *bufio.Reader, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := r.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}

	return total, nil
}
