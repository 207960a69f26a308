package jpegdecoder

import "math"

// assembleImage upsamples every component to the frame's luma resolution,
// crops the MCU padding away, and converts to the RGB raster that is the
// core's external deliverable (§4.5).
func assembleImage(f *frameHeader, method UpsampleMethod) (*Image, error) {
	for i := range f.comps {
		upsamplePlane(&f.comps[i], f.width, f.height, method)

		if f.comps[i].width < f.width || f.comps[i].height < f.height {
			return nil, newErr(ErrInternal, 0, "component %d failed to reach luma resolution", f.comps[i].id)
		}
	}

	rgb := make([]byte, 3*f.width*f.height)

	switch f.numComp {
	case 1:
		assembleGray(&f.comps[0], f.width, f.height, rgb)
	case 3:
		assembleYCbCr(&f.comps[0], &f.comps[1], &f.comps[2], f.width, f.height, rgb)
	default:
		return nil, newErr(ErrInternal, 0, "unsupported component count %d", f.numComp)
	}

	return &Image{
		Width:         f.width,
		Height:        f.height,
		NumComponents: f.numComp,
		RGB:           rgb,
	}, nil
}

// assembleGray replicates the luma plane across R, G, and B (§4.5, §4.6).
func assembleGray(y *component, width, height int, rgb []byte) {
	out := 0
	for row := 0; row < height; row++ {
		src := row * y.stride
		for col := 0; col < width; col++ {
			v := y.pixels[src+col]
			rgb[out] = v
			rgb[out+1] = v
			rgb[out+2] = v
			out += 3
		}
	}
}

// assembleYCbCr converts the cropped, upsampled Y/Cb/Cr planes to RGB using
// the exact JFIF coefficients, rounding to the nearest integer (half up)
// before clamping to [0, 255] (§4.5).
func assembleYCbCr(y, cb, cr *component, width, height int, rgb []byte) {
	out := 0
	for row := 0; row < height; row++ {
		yRow := row * y.stride
		cbRow := row * cb.stride
		crRow := row * cr.stride

		for col := 0; col < width; col++ {
			yy := float64(y.pixels[yRow+col])
			cbv := float64(cb.pixels[cbRow+col]) - 128
			crv := float64(cr.pixels[crRow+col]) - 128

			r := yy + 1.402*crv
			g := yy - 0.344136*cbv - 0.714136*crv
			b := yy + 1.772*cbv

			rgb[out] = clampRound(r)
			rgb[out+1] = clampRound(g)
			rgb[out+2] = clampRound(b)
			out += 3
		}
	}
}

// clampRound rounds to the nearest integer, ties toward +infinity
// ("half up"), then clamps to a valid sample byte.
func clampRound(x float64) byte {
	rounded := math.Floor(x + 0.5)

	if rounded < 0 {
		return 0
	}
	if rounded > 255 {
		return 255
	}

	return byte(rounded)
}
