package diagnostics_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"
	"github.com/tauraamui/framecaster/pkg/diagnostics"
	"github.com/tauraamui/framecaster/pkg/frame"
)

func paddedRGBFrame() frame.Frame {
	// 4x2 RGB8888 with stride 20: 4 pad bytes per row, all pixels
	// R=200 G=10 B=10 with a zeroed 4th byte
	dim := frame.Dimensions{Width: 4, Height: 2, Stride: 20}
	buf := make([]byte, dim.Stride*dim.Height)
	for y := 0; y < dim.Height; y++ {
		for x := 0; x < dim.Width; x++ {
			i := y*dim.Stride + x*4
			buf[i], buf[i+1], buf[i+2], buf[i+3] = 200, 10, 10, 0
		}
	}
	return frame.New(frame.RGB8888, dim, buf)
}

func TestRGBFrameWithRowPaddingAverages(t *testing.T) {
	is := is.New(t)

	avgs := diagnostics.ComputeAverages(paddedRGBFrame())
	is.True(avgs.Supported)
	is.Equal(avgs.Channels, [3]float64{200, 10, 10})
}

func TestBGRFrameReportsRGBOrdering(t *testing.T) {
	is := is.New(t)

	dim := frame.Dimensions{Width: 2, Height: 2, Stride: 8}
	buf := make([]byte, dim.Stride*dim.Height)
	for p := 0; p < 4; p++ {
		i := p * 4
		buf[i], buf[i+1], buf[i+2], buf[i+3] = 10, 20, 200, 0xFF
	}

	avgs := diagnostics.ComputeAverages(frame.New(frame.BGR8888, dim, buf))
	is.True(avgs.Supported)
	is.Equal(avgs.Channels, [3]float64{200, 20, 10})
}

func TestYCbYCrAveragesWithSubsampledChroma(t *testing.T) {
	is := is.New(t)

	// groups of [Y, Cb, Y, Cr] across a 4x2 frame
	dim := frame.Dimensions{Width: 4, Height: 2, Stride: 8}
	buf := make([]byte, dim.Stride*dim.Height)
	for g := 0; g < len(buf); g += 4 {
		buf[g], buf[g+1], buf[g+2], buf[g+3] = 100, 50, 100, 60
	}

	avgs := diagnostics.ComputeAverages(frame.New(frame.YCbYCr, dim, buf))
	is.True(avgs.Supported)
	is.Equal(avgs.Channels, [3]float64{100, 50, 60})
}

func TestCbYCrYAveragesWithSubsampledChroma(t *testing.T) {
	is := is.New(t)

	// groups of [Cb, Y, Cr, Y] across a 4x2 frame
	dim := frame.Dimensions{Width: 4, Height: 2, Stride: 8}
	buf := make([]byte, dim.Stride*dim.Height)
	for g := 0; g < len(buf); g += 4 {
		buf[g], buf[g+1], buf[g+2], buf[g+3] = 50, 100, 60, 100
	}

	avgs := diagnostics.ComputeAverages(frame.New(frame.CbYCrY, dim, buf))
	is.True(avgs.Supported)
	is.Equal(avgs.Channels, [3]float64{100, 50, 60})
}

func TestComputeAveragesIsIdempotent(t *testing.T) {
	is := is.New(t)

	f := paddedRGBFrame()
	first := diagnostics.ComputeAverages(f)
	second := diagnostics.ComputeAverages(f)
	is.Equal(first, second)
}

func TestUnsupportedFormatSkipsComputation(t *testing.T) {
	is := is.New(t)

	f := frame.New(frame.Unknown, frame.Dimensions{Width: 4, Height: 2, Stride: 20}, make([]byte, 40))
	avgs := diagnostics.ComputeAverages(f)
	is.True(!avgs.Supported)
	is.Equal(avgs.Channels, [3]float64{})
}

func TestReporterPrintsAveragesAndComputeDuration(t *testing.T) {
	out := bytes.Buffer{}
	reporter := diagnostics.NewReporterWithWriter(&out, nil)

	avgs := reporter.Report(paddedRGBFrame())

	assert.True(t, avgs.Supported)
	assert.Contains(t, out.String(), "Channel averages: 200.000, 10.000, 10.000")
	assert.Contains(t, out.String(), "ms")
}

func TestReporterPrintsUnsupportedNotice(t *testing.T) {
	out := bytes.Buffer{}
	reporter := diagnostics.NewReporterWithWriter(&out, nil)

	avgs := reporter.Report(frame.New(frame.Unknown, frame.Dimensions{}, nil))

	assert.False(t, avgs.Supported)
	assert.True(t, strings.Contains(out.String(), "is not supported"))
}

func TestHistoryRetainsAppendedAverages(t *testing.T) {
	is := is.New(t)

	history, err := diagnostics.NewHistory()
	is.NoErr(err)
	defer history.Close()

	at := time.Now()
	is.NoErr(history.Append(at, diagnostics.Averages{
		Supported: true,
		Channels:  [3]float64{200, 10, 10},
	}))

	points, err := history.Window(0, at.Add(-time.Second), at.Add(time.Second))
	is.NoErr(err)
	is.True(len(points) == 1)
	is.Equal(points[0].Value, float64(200))
}

func TestHistoryIgnoresUnsupportedAverages(t *testing.T) {
	is := is.New(t)

	history, err := diagnostics.NewHistory()
	is.NoErr(err)
	defer history.Close()

	at := time.Now()
	is.NoErr(history.Append(at, diagnostics.Averages{}))

	_, err = history.Window(0, at.Add(-time.Second), at.Add(time.Second))
	is.True(err != nil) // nothing stored for the metric
}
