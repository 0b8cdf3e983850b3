package capture_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/tauraamui/framecaster/pkg/capture"
	"github.com/tauraamui/framecaster/pkg/frame"
)

func TestMockDriverDeliversFramesSerially(t *testing.T) {
	is := is.New(t)

	driver := capture.MockWithSettings(capture.MockSettings{
		Format:     frame.RGB8888,
		Dimensions: frame.Dimensions{Width: 4, Height: 2},
		Interval:   time.Millisecond,
	})
	is.True(driver.UUID() != "")

	mu := sync.Mutex{}
	inFlight := 0
	overlapped := false
	delivered := make(chan frame.Frame, 16)

	err := driver.Start(context.Background(), func(f frame.Frame) {
		mu.Lock()
		inFlight++
		if inFlight > 1 {
			overlapped = true
		}
		mu.Unlock()

		delivered <- f

		mu.Lock()
		inFlight--
		mu.Unlock()
	})
	is.NoErr(err)

	var first frame.Frame
	select {
	case first = <-delivered:
	case <-time.After(3 * time.Second):
		t.Fatal("test timeout 3s limit exceeded")
	}

	is.NoErr(driver.Stop())
	is.True(!overlapped)
	is.Equal(first.Format(), frame.RGB8888)
	is.Equal(first.Dimensions().Stride, 16)
	is.Equal(len(first.Data()), 32)
}

func TestMockDriverStartTwiceFails(t *testing.T) {
	is := is.New(t)

	driver := capture.Mock()
	is.NoErr(driver.Start(context.Background(), func(frame.Frame) {}))
	is.True(driver.Start(context.Background(), func(frame.Frame) {}) != nil)
	is.NoErr(driver.Stop())
}

func TestMockDriverStopWithoutStartFails(t *testing.T) {
	is := is.New(t)
	is.True(capture.Mock().Stop() != nil)
}
