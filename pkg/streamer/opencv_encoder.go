package streamer

import (
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

func OpenCV(quality int) Encoder {
	return &openCVEncoder{quality: quality}
}

type openCVEncoder struct {
	quality int
}

func (e *openCVEncoder) EncodeRGB(rgb []byte, width, height int) ([]byte, error) {
	if len(rgb) < width*height*3 {
		return nil, xerror.New("rgb buffer shorter than declared dimensions")
	}

	mat, err := gocv.NewMatFromBytes(height, width, gocv.MatTypeCV8UC3, rgb)
	if err != nil {
		return nil, xerror.Errorf("unable to wrap rgb data: %w", err)
	}
	defer mat.Close()

	// IMEncode expects BGR ordered channels
	gocv.CvtColor(mat, &mat, gocv.ColorBGRToRGB)

	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, mat, []int{gocv.IMWriteJpegQuality, e.quality})
	if err != nil {
		return nil, xerror.Errorf("unable to encode frame to JPEG: %w", err)
	}
	return buf, nil
}
