package jpegdecoder

// UpsampleMethod selects the chroma upsampling filter used when a
// component's sampling factors are below the frame maximum (§4.5).
type UpsampleMethod int

const (
	// NearestNeighbor replicates samples; it is the required minimum and
	// the default, and is what the byte-exact scenarios in the decoder
	// specification are defined against.
	NearestNeighbor UpsampleMethod = iota
	// CatmullRom applies a 4-tap Catmull-Rom interpolation filter for a
	// higher-quality (but still deterministic) result.
	CatmullRom
)

// Catmull-Rom 4-tap filter coefficients (fixed-point, scaled by 2^7).
const (
	cr4TapA = -9
	cr4TapB = 111
	cr4TapC = 29
	cr4TapD = -3
	cr3TapA = 28
	cr3TapB = 109
	cr3TapC = -9
	cr3EdgeX = 104
	cr3EdgeY = 27
	cr3EdgeZ = -3
	cr2TapA = 139
	cr2TapB = -11
)

func crRound(x int32) byte {
	return clampSample((x + 64) >> 7)
}

// upsamplePlane scales a component's decoded plane from its native
// dimensions up to the frame's luma dimensions, per the (Hmax/Hi, Vmax/Vi)
// ratio (§4.5). width/height are the target (luma) resolution.
func upsamplePlane(c *component, width, height int, method UpsampleMethod) {
	if c.width >= width && c.height >= height {
		return
	}

	switch method {
	case CatmullRom:
		upsampleCatmullRom(c, width, height)
	default:
		upsampleNearestNeighbor(c, width, height)
	}
}

// upsampleNearestNeighbor replicates samples horizontally and/or vertically
// until the plane reaches the target resolution. The scale factor is found
// by doubling rather than by dividing width/c.width directly: a subsampled
// component's logical width rarely divides the target evenly once the image
// dimensions aren't an exact multiple of the MCU size, and a truncating
// division would silently under-scale the plane in that (common) case.
// Doubling always lands on or past the target, and the final crop in
// assembleGray/assembleYCbCr trims any overshoot.
func upsampleNearestNeighbor(c *component, width, height int) {
	if c.width < width {
		newWidth := c.width
		for newWidth < width {
			newWidth <<= 1
		}
		scaleX := newWidth / c.width

		out := make([]byte, newWidth*c.height)

		for y := 0; y < c.height; y++ {
			srcRow := c.pixels[y*c.stride : y*c.stride+c.width]
			dstRow := out[y*newWidth : y*newWidth+newWidth]

			for x := 0; x < c.width; x++ {
				v := srcRow[x]
				for k := 0; k < scaleX; k++ {
					dstRow[x*scaleX+k] = v
				}
			}
		}

		c.pixels = out
		c.width = newWidth
		c.stride = newWidth
	}

	if c.height < height {
		newHeight := c.height
		for newHeight < height {
			newHeight <<= 1
		}
		scaleY := newHeight / c.height

		out := make([]byte, c.stride*newHeight)

		for y := 0; y < c.height; y++ {
			src := c.pixels[y*c.stride : y*c.stride+c.stride]
			for k := 0; k < scaleY; k++ {
				dst := out[(y*scaleY+k)*c.stride : (y*scaleY+k)*c.stride+c.stride]
				copy(dst, src)
			}
		}

		c.pixels = out
		c.height = newHeight
	}
}

// upsampleCatmullRom doubles the plane's resolution on each axis that needs
// it, one 2x pass at a time, using a 4-tap Catmull-Rom filter instead of
// plain replication.
func upsampleCatmullRom(c *component, width, height int) {
	for c.width < width || c.height < height {
		if c.width < width {
			upsampleCatmullRomH(c)
		}
		if c.height < height {
			upsampleCatmullRomV(c)
		}
	}
}

func upsampleCatmullRomH(c *component) {
	newWidth := c.width << 1
	out := make([]byte, newWidth*c.height)
	in := c.pixels

	for y := 0; y < c.height; y++ {
		baseIn := y * c.stride
		baseOut := y * newWidth

		for x := 0; x < c.width; x++ {
			p0 := int32(in[baseIn+clampIndex(x-1, c.width)])
			p1 := int32(in[baseIn+x])
			p2 := int32(in[baseIn+clampIndex(x+1, c.width)])
			p3 := int32(in[baseIn+clampIndex(x+2, c.width)])

			out[baseOut+2*x] = crRound(cr3TapA*p0 + cr3TapB*p1 + cr3TapC*p2)
			out[baseOut+2*x+1] = crRound(cr4TapD*p0 + cr4TapC*p1 + cr4TapB*p2 + cr4TapA*p3)
		}
	}

	c.pixels = out
	c.width = newWidth
	c.stride = newWidth
}

func upsampleCatmullRomV(c *component) {
	newHeight := c.height << 1
	out := make([]byte, c.stride*newHeight)
	in := c.pixels

	for x := 0; x < c.stride; x++ {
		for y := 0; y < c.height; y++ {
			p0 := int32(in[clampIndex(y-1, c.height)*c.stride+x])
			p1 := int32(in[y*c.stride+x])
			p2 := int32(in[clampIndex(y+1, c.height)*c.stride+x])
			p3 := int32(in[clampIndex(y+2, c.height)*c.stride+x])

			out[(2*y)*c.stride+x] = crRound(cr3TapA*p0 + cr3TapB*p1 + cr3TapC*p2)
			out[(2*y+1)*c.stride+x] = crRound(cr4TapD*p0 + cr4TapC*p1 + cr4TapB*p2 + cr4TapA*p3)
		}
	}

	c.pixels = out
	c.height = newHeight
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}

	return i
}
