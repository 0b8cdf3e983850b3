package capture

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tauraamui/framecaster/pkg/frame"
	"github.com/tauraamui/xerror"
)

// MockSettings shape the synthetic frames the mock driver delivers.
type MockSettings struct {
	Format     frame.Format
	Dimensions frame.Dimensions
	Interval   time.Duration
}

func Mock() Driver {
	return MockWithSettings(MockSettings{})
}

// MockWithSettings returns a driver which generates synthetic frames at
// a fixed rate, standing in for the platform capture adapter in tests
// and demo runs.
func MockWithSettings(sett MockSettings) Driver {
	if !sett.Format.Supported() {
		sett.Format = frame.RGB8888
	}
	if sett.Dimensions.Width <= 0 || sett.Dimensions.Height <= 0 {
		sett.Dimensions = frame.Dimensions{Width: 64, Height: 48}
	}
	if sett.Dimensions.Stride <= 0 {
		sett.Dimensions.Stride = sett.Dimensions.Width * sett.Format.BytesPerPixel()
	}
	if sett.Interval <= 0 {
		sett.Interval = 33 * time.Millisecond
	}
	return &mockDriver{uuid: uuid.NewString(), sett: sett}
}

type mockDriver struct {
	uuid    string
	sett    MockSettings
	cancel  context.CancelFunc
	stopped chan interface{}
}

func (d *mockDriver) UUID() string { return d.uuid }

func (d *mockDriver) Start(ctx context.Context, deliver Handler) error {
	if d.cancel != nil {
		return xerror.New("mock capture already started")
	}
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.stopped = make(chan interface{})
	go d.run(ctx, deliver)
	return nil
}

// run delivers frames from a single goroutine so handler invocations
// are serial, matching the platform adapter's guarantee.
func (d *mockDriver) run(ctx context.Context, deliver Handler) {
	defer close(d.stopped)
	buf := make([]byte, d.sett.Dimensions.Stride*d.sett.Dimensions.Height)
	seq := 0
	ticker := time.NewTicker(d.sett.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fill(buf, d.sett, seq)
			deliver(frame.New(d.sett.Format, d.sett.Dimensions, buf))
			seq++
		}
	}
}

// fill paints a moving horizontal gradient so consecutive frames differ.
func fill(buf []byte, sett MockSettings, seq int) {
	bpp := sett.Format.BytesPerPixel()
	for y := 0; y < sett.Dimensions.Height; y++ {
		row := buf[y*sett.Dimensions.Stride:]
		for x := 0; x < sett.Dimensions.Width; x++ {
			for b := 0; b < bpp; b++ {
				row[x*bpp+b] = byte(x + seq)
			}
		}
	}
}

func (d *mockDriver) Stop() error {
	if d.cancel == nil {
		return xerror.New("mock capture not started")
	}
	d.cancel()
	<-d.stopped
	d.cancel = nil
	return nil
}
