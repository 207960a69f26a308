package jpegdecoder

// Image is the decoded raster: dimensions as read from SOF0, the number of
// components in the source frame, and an RGB interleaved buffer of
// 3*Width*Height bytes (§3). A monochrome source (NumComponents == 1) has
// its luma plane replicated across R, G, and B.
type Image struct {
	Width         int
	Height        int
	NumComponents int
	RGB           []byte
}
