package streamer

import "fmt"

type mockEncoder struct {
	calls int
	err   error
}

func (e *mockEncoder) EncodeRGB(rgb []byte, width, height int) ([]byte, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	return []byte(fmt.Sprintf("MOCKJPEG:%dx%d:%d", width, height, len(rgb))), nil
}
