package jpegdecoder

// zigzagOrder maps the 1-D order coefficients arrive in from the entropy
// decoder to their position in an 8x8 natural-order block (§4.4 step 2).
var zigzagOrder = [64]int{
	0, 1, 8, 16, 9, 2, 3, 10, 17, 24, 32, 25, 18,
	11, 4, 5, 12, 19, 26, 33, 40, 48, 41, 34, 27, 20, 13, 6, 7, 14, 21, 28, 35,
	42, 49, 56, 57, 50, 43, 36, 29, 22, 15, 23, 30, 37, 44, 51, 58, 59, 52, 45,
	38, 31, 39, 46, 53, 60, 61, 54, 47, 55, 62, 63,
}

// clampSample clamps a level-shifted IDCT output to the valid 8-bit sample
// range [0, 255] (§4.4 step 3).
func clampSample(x int32) byte {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}

	return byte(x)
}

// AAN fast-IDCT constants, scaled by 2^11 (2048*sqrt(2)*cos(k*pi/16)).
const (
	idctW1 = 2841
	idctW2 = 2676
	idctW3 = 2408
	idctW5 = 1609
	idctW6 = 1108
	idctW7 = 565
)

// idctRow performs the row pass of the separable 2D IDCT on the 8 elements
// of blk starting at offset, in place.
func idctRow(blk *[64]int32, offset int) {
	b := blk[offset : offset+8 : offset+8]

	x1 := b[4] << 11
	x2 := b[6]
	x3 := b[2]
	x4 := b[1]
	x5 := b[7]
	x6 := b[5]
	x7 := b[3]

	if x1|x2|x3|x4|x5|x6|x7 == 0 {
		v := b[0] << 3
		for i := range b {
			b[i] = v
		}

		return
	}

	x0 := (b[0] << 11) + 128

	x8 := idctW7 * (x4 + x5)
	x4 = x8 + (idctW1-idctW7)*x4
	x5 = x8 - (idctW1+idctW7)*x5
	x8 = idctW3 * (x6 + x7)
	x6 = x8 - (idctW3-idctW5)*x6
	x7 = x8 - (idctW3+idctW5)*x7

	x8 = x0 + x1
	x0 -= x1
	x1 = idctW6 * (x3 + x2)
	x2 = x1 - (idctW2+idctW6)*x2
	x3 = x1 + (idctW2-idctW6)*x3

	x1 = x4 + x6
	x4 -= x6
	x6 = x5 + x7
	x5 -= x7

	x7 = x8 + x3
	x8 -= x3
	x3 = x0 + x2
	x0 -= x2

	x2 = (181*(x4+x5) + 128) >> 8
	x4 = (181*(x4-x5) + 128) >> 8

	b[0] = (x7 + x1) >> 8
	b[1] = (x3 + x2) >> 8
	b[2] = (x0 + x4) >> 8
	b[3] = (x8 + x6) >> 8
	b[4] = (x8 - x6) >> 8
	b[5] = (x0 - x4) >> 8
	b[6] = (x3 - x2) >> 8
	b[7] = (x7 - x1) >> 8
}

// idctCol performs the column pass of the separable 2D IDCT on column
// offset%8 of blk, writing the finished 8 samples (level-shifted and
// clamped) into out at outOffset, one per stride.
func idctCol(blk *[64]int32, offset int, out []byte, outOffset int, stride int) {
	x1 := blk[offset+8*4] << 8
	x2 := blk[offset+8*6]
	x3 := blk[offset+8*2]
	x4 := blk[offset+8*1]
	x5 := blk[offset+8*7]
	x6 := blk[offset+8*5]
	x7 := blk[offset+8*3]

	if x1|x2|x3|x4|x5|x6|x7 == 0 {
		v := clampSample(((blk[offset] + 32) >> 6) + 128)
		for i := 0; i < 8; i++ {
			out[outOffset+i*stride] = v
		}

		return
	}

	x0 := (blk[offset] << 8) + 8192

	x8 := idctW7*(x4+x5) + 4
	x4 = (x8 + (idctW1-idctW7)*x4) >> 3
	x5 = (x8 - (idctW1+idctW7)*x5) >> 3
	x8 = idctW3*(x6+x7) + 4
	x6 = (x8 - (idctW3-idctW5)*x6) >> 3
	x7 = (x8 - (idctW3+idctW5)*x7) >> 3

	x8 = x0 + x1
	x0 -= x1
	x1 = idctW6*(x3+x2) + 4
	x2 = (x1 - (idctW2+idctW6)*x2) >> 3
	x3 = (x1 + (idctW2-idctW6)*x3) >> 3

	x1 = x4 + x6
	x4 -= x6
	x6 = x5 + x7
	x5 -= x7

	x7 = x8 + x3
	x8 -= x3
	x3 = x0 + x2
	x0 -= x2

	x2 = (181*(x4+x5) + 128) >> 8
	x4 = (181*(x4-x5) + 128) >> 8

	out[outOffset+0*stride] = clampSample(((x7 + x1) >> 14) + 128)
	out[outOffset+1*stride] = clampSample(((x3 + x2) >> 14) + 128)
	out[outOffset+2*stride] = clampSample(((x0 + x4) >> 14) + 128)
	out[outOffset+3*stride] = clampSample(((x8 + x6) >> 14) + 128)
	out[outOffset+4*stride] = clampSample(((x8 - x6) >> 14) + 128)
	out[outOffset+5*stride] = clampSample(((x0 - x4) >> 14) + 128)
	out[outOffset+6*stride] = clampSample(((x3 - x2) >> 14) + 128)
	out[outOffset+7*stride] = clampSample(((x7 - x1) >> 14) + 128)
}

// idct8x8 applies the separable 2D inverse DCT to blk (already dequantized
// and in natural order), writing the level-shifted, clamped 8x8 tile into
// out at outOffset with the given row stride (§4.4 step 3).
func idct8x8(blk *[64]int32, out []byte, outOffset int, stride int) {
	for row := 0; row < 64; row += 8 {
		idctRow(blk, row)
	}

	for col := 0; col < 8; col++ {
		idctCol(blk, col, out, outOffset+col, stride)
	}
}
