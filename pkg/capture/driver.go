package capture

import (
	"context"

	"github.com/tauraamui/framecaster/pkg/frame"
)

// Handler receives one captured frame per delivery. The driver guarantees
// invocations never overlap in time; the frame it passes already owns a
// copy of the raw buffer, so retaining it is safe.
type Handler func(frame.Frame)

// Driver is the capture subsystem boundary. Real capture adapters live
// outside this module and implement this interface; Start and Stop
// failures are fatal to pipeline startup and teardown respectively.
type Driver interface {
	UUID() string
	Start(context.Context, Handler) error
	Stop() error
}

func Resolve(t string) Driver {
	switch t {
	case "mock":
		return Mock()
	default:
		return Mock()
	}
}
