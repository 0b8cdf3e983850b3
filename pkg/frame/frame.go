package frame

// Format is the pixel layout of a captured frame. The set is closed:
// anything the capture driver reports outside of it resolves to Unknown
// and is skipped by every stage rather than treated as an error.
type Format uint32

const (
	Unknown Format = iota
	// YCbYCr is 4:2:2 luma/chroma, 2 bytes per pixel, group layout [Y, Cb, Y, Cr].
	YCbYCr
	// CbYCrY is 4:2:2 luma/chroma, 2 bytes per pixel, group layout [Cb, Y, Cr, Y].
	CbYCrY
	// RGB8888 is packed 32-bit colour, group layout [R, G, B, X].
	RGB8888
	// BGR8888 is packed 32-bit colour, group layout [B, G, R, X].
	BGR8888
)

func (f Format) String() string {
	switch f {
	case YCbYCr:
		return "YCbYCr"
	case CbYCrY:
		return "CbYCrY"
	case RGB8888:
		return "RGB8888"
	case BGR8888:
		return "BGR8888"
	}
	return "unknown"
}

func (f Format) Supported() bool {
	switch f {
	case YCbYCr, CbYCrY, RGB8888, BGR8888:
		return true
	}
	return false
}

// BytesPerPixel is 0 for unsupported formats, which is what makes every
// downstream size calculation collapse to a skip.
func (f Format) BytesPerPixel() int {
	switch f {
	case YCbYCr, CbYCrY:
		return 2
	case RGB8888, BGR8888:
		return 4
	}
	return 0
}

// Channels reports the number of logical colour channels the format
// carries. All supported formats carry 3.
func (f Format) Channels() int {
	if f.Supported() {
		return 3
	}
	return 0
}

type Dimensions struct {
	Width, Height int
	// Stride is bytes per row and may exceed Width*BytesPerPixel
	// due to row padding.
	Stride int
}

// Frame is one captured image buffer plus its descriptor. The payload is
// always an owned copy: the capture driver's buffer is only valid for the
// duration of the delivery callback.
type Frame struct {
	format Format
	dim    Dimensions
	data   []byte
}

func New(format Format, dim Dimensions, buf []byte) Frame {
	data := make([]byte, len(buf))
	copy(data, buf)
	return Frame{format: format, dim: dim, data: data}
}

func (f Frame) Format() Format { return f.format }

func (f Frame) Dimensions() Dimensions { return f.dim }

// Data is the raw sample buffer laid out row by row at Stride bytes per row.
func (f Frame) Data() []byte { return f.data }

// ByteSize is the published size of the frame: width x height x bytes per
// pixel. Zero for unsupported formats.
func (f Frame) ByteSize() int {
	return f.dim.Width * f.dim.Height * f.format.BytesPerPixel()
}

// Row returns the samples of row y up to stride, or nil when the buffer
// is too short to contain it.
func (f Frame) Row(y int) []byte {
	start := y * f.dim.Stride
	end := start + f.dim.Stride
	if start < 0 || end > len(f.data) {
		return nil
	}
	return f.data[start:end]
}
