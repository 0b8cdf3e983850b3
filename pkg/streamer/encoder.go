package streamer

// DefaultJPEGQuality matches the fixed quality the remote viewer expects.
const DefaultJPEGQuality = 75

// Encoder compresses a tightly packed RGB byte sequence into an encoded
// image payload.
type Encoder interface {
	EncodeRGB(rgb []byte, width, height int) ([]byte, error)
}

func Default() Encoder {
	return OpenCV(DefaultJPEGQuality)
}

func Mock() Encoder {
	return &mockEncoder{}
}

func ResolveEncoder(t string, quality int) Encoder {
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	switch t {
	case "mock":
		return Mock()
	default:
		return OpenCV(quality)
	}
}
