package jpegdecoder

import "testing"

func TestAssembleGrayReplicatesLuma(t *testing.T) {
	y := &component{stride: 2, pixels: []byte{10, 20, 30, 40}}
	rgb := make([]byte, 2*2*3)

	assembleGray(y, 2, 2, rgb)

	want := []byte{10, 10, 10, 20, 20, 20, 30, 30, 30, 40, 40, 40}
	for i, v := range want {
		if rgb[i] != v {
			t.Fatalf("rgb[%d] = %d, want %d", i, rgb[i], v)
		}
	}
}

func TestAssembleYCbCrNeutralChromaIsGrayscale(t *testing.T) {
	// Cb = Cr = 128 (neutral) must reproduce Y exactly in all three channels.
	y := &component{stride: 1, pixels: []byte{100}}
	cb := &component{stride: 1, pixels: []byte{128}}
	cr := &component{stride: 1, pixels: []byte{128}}

	rgb := make([]byte, 3)
	assembleYCbCr(y, cb, cr, 1, 1, rgb)

	if rgb[0] != 100 || rgb[1] != 100 || rgb[2] != 100 {
		t.Fatalf("assembleYCbCr() = %v, want [100 100 100]", rgb)
	}
}

func TestAssembleYCbCrAppliesJFIFCoefficients(t *testing.T) {
	// Y=128, Cb=128 (neutral), Cr=178 (+50 red): only R and G should shift.
	// R = 128 + 1.402*50 = 198.1 -> 198
	// G = 128 - 0.714136*50 = 92.2932 -> 92
	// B = 128 (Cb neutral)
	y := &component{stride: 1, pixels: []byte{128}}
	cb := &component{stride: 1, pixels: []byte{128}}
	cr := &component{stride: 1, pixels: []byte{178}}

	rgb := make([]byte, 3)
	assembleYCbCr(y, cb, cr, 1, 1, rgb)

	if rgb[0] != 198 || rgb[1] != 92 || rgb[2] != 128 {
		t.Fatalf("assembleYCbCr() = %v, want [198 92 128]", rgb)
	}
}

func TestClampRound(t *testing.T) {
	cases := []struct {
		in   float64
		want byte
	}{
		{-10, 0},
		{0, 0},
		{127.4, 127},
		{127.5, 128},
		{255, 255},
		{300, 255},
	}

	for _, c := range cases {
		if got := clampRound(c.in); got != c.want {
			t.Errorf("clampRound(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestAssembleImageYCbCrNonMCUAlignedWidth(t *testing.T) {
	// 6x1 image, 4:2:0-style horizontal chroma subsampling (h=1 vs hMax=2),
	// width not a multiple of the 16px MCU size. Chroma's logical width is
	// ceil(6/2)=3, distinct from whatever MCU-padded stride the component
	// would have come from parseSOF0; assembleImage must still reach full
	// width for every plane instead of rejecting the frame.
	f := &frameHeader{
		width:   6,
		height:  1,
		numComp: 3,
		hMax:    2,
		vMax:    1,
		comps: []component{
			{h: 2, v: 1, width: 6, height: 1, stride: 6, pixels: []byte{100, 100, 100, 100, 100, 100}},
			{h: 1, v: 1, width: 3, height: 1, stride: 8, pixels: []byte{128, 128, 128, 0, 0, 0, 0, 0}},
			{h: 1, v: 1, width: 3, height: 1, stride: 8, pixels: []byte{128, 128, 128, 0, 0, 0, 0, 0}},
		},
	}

	img, err := assembleImage(f, NearestNeighbor)
	if err != nil {
		t.Fatalf("assembleImage() = %v, want nil", err)
	}
	if img.Width != 6 || img.Height != 1 {
		t.Fatalf("assembleImage() dims = %dx%d, want 6x1", img.Width, img.Height)
	}
	for i := 0; i < 6; i++ {
		if img.RGB[3*i] != 100 || img.RGB[3*i+1] != 100 || img.RGB[3*i+2] != 100 {
			t.Fatalf("pixel %d = %v, want [100 100 100]", i, img.RGB[3*i:3*i+3])
		}
	}
}

func TestAssembleImageGrayEndToEnd(t *testing.T) {
	f := &frameHeader{
		width:   2,
		height:  1,
		numComp: 1,
		comps: []component{
			{h: 1, v: 1, width: 2, height: 1, stride: 2, pixels: []byte{50, 60}},
		},
	}

	img, err := assembleImage(f, NearestNeighbor)
	if err != nil {
		t.Fatalf("assembleImage() = %v, want nil", err)
	}
	if img.Width != 2 || img.Height != 1 || img.NumComponents != 1 {
		t.Fatalf("assembleImage() = %+v", img)
	}
	want := []byte{50, 50, 50, 60, 60, 60}
	for i, v := range want {
		if img.RGB[i] != v {
			t.Fatalf("RGB[%d] = %d, want %d", i, img.RGB[i], v)
		}
	}
}
