package configdef

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/dealancer/validate.v2"
)

var ErrConfigAlreadyExists = errors.New("config file already exists")

type Resolver interface {
	Resolve() (Values, error)
}

type Values struct {
	Debug              bool   `json:"debug"`
	CameraUnit         int    `json:"camera_unit" validate:"gte=0"`
	StreamAddress      string `json:"stream_address" validate:"empty=false"`
	SegmentPrefix      string `json:"segment_prefix" validate:"empty=false"`
	RingCapacity       int    `json:"ring_capacity" validate:"gte=1 & lte=64"`
	JPEGQuality        int    `json:"jpeg_quality" validate:"gte=1 & lte=100"`
	SendTimeoutSecs    int    `json:"send_timeout_seconds" validate:"gte=0 & lte=60"`
	CaptureBackend     string `json:"capture_backend"`
	EncoderBackend     string `json:"encoder_backend"`
	DiagnosticsHistory bool   `json:"diagnostics_history"`
}

func (v Values) RunValidate() error {
	if err := validate.Validate(&v); err != nil {
		return err
	}
	return v.Validate()
}

func (v Values) Validate() error {
	const validationErrorHeader = "validation failed: %w"
	if strings.ContainsRune(strings.TrimPrefix(v.SegmentPrefix, "/"), '/') {
		return fmt.Errorf(validationErrorHeader, errors.New("segment prefix must be a flat name"))
	}
	return nil
}
