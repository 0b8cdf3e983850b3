package diagnostics

import "github.com/tauraamui/framecaster/pkg/frame"

// Averages is the per-channel mean sample value of one frame. Channel
// ordering is R,G,B for the packed colour formats and Y,Cb,Cr for the
// luma/chroma ones.
type Averages struct {
	Supported bool
	Channels  [3]float64
}

// ComputeAverages scans every sample byte of every row up to stride,
// classifying each byte into a channel by its position within the pixel
// group. Pad bytes in 4-byte groups are skipped. The computation reads
// the buffer only, so recomputing over an unmodified frame yields
// identical values.
func ComputeAverages(f frame.Frame) Averages {
	dim := f.Dimensions()
	if !f.Format().Supported() || dim.Width <= 0 || dim.Height <= 0 {
		return Averages{}
	}

	var sums [3]float64
	rowSamples := f.Format().BytesPerPixel() * dim.Width

	for y := 0; y < dim.Height; y++ {
		row := f.Row(y)
		if row == nil || len(row) < rowSamples {
			return Averages{}
		}
		for i := 0; i < rowSamples; i++ {
			chann, ok := classify(f.Format(), i)
			if !ok {
				continue
			}
			sums[chann] += float64(row[i])
		}
	}

	pixels := float64(dim.Width * dim.Height)
	avgs := Averages{Supported: true}
	switch f.Format() {
	case frame.RGB8888, frame.BGR8888:
		for c := range sums {
			avgs.Channels[c] = sums[c] / pixels
		}
	case frame.YCbYCr, frame.CbYCrY:
		// chroma channels are horizontally subsampled: one sample per
		// two pixels
		avgs.Channels[0] = sums[0] / pixels
		chromaSamples := float64(dim.Width/2) * float64(dim.Height)
		if chromaSamples > 0 {
			avgs.Channels[1] = sums[1] / chromaSamples
			avgs.Channels[2] = sums[2] / chromaSamples
		}
	}
	return avgs
}

// classify maps a byte offset within a row to its logical channel, from
// the format's canonical group layout:
//
//	RGB8888 [R G B X]    BGR8888 [B G R X]
//	YCbYCr  [Y Cb Y Cr]  CbYCrY  [Cb Y Cr Y]
func classify(format frame.Format, i int) (int, bool) {
	switch format {
	case frame.RGB8888:
		if i%4 == 3 {
			return 0, false
		}
		return i % 4, true
	case frame.BGR8888:
		switch i % 4 {
		case 0:
			return 2, true
		case 1:
			return 1, true
		case 2:
			return 0, true
		}
		return 0, false
	case frame.YCbYCr:
		if i%2 == 0 {
			return 0, true
		}
		if i%4 == 1 {
			return 1, true
		}
		return 2, true
	case frame.CbYCrY:
		if i%2 == 1 {
			return 0, true
		}
		if i%4 == 0 {
			return 1, true
		}
		return 2, true
	}
	return 0, false
}
