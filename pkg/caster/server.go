package caster

import (
	"context"
	"time"

	"github.com/tauraamui/framecaster/pkg/capture"
	"github.com/tauraamui/framecaster/pkg/configdef"
	"github.com/tauraamui/framecaster/pkg/diagnostics"
	"github.com/tauraamui/framecaster/pkg/log"
	"github.com/tauraamui/framecaster/pkg/pipeline"
	"github.com/tauraamui/framecaster/pkg/streamer"
)

// Server wires the capture driver to an owned pipeline and manages both
// lifetimes together.
type Server struct {
	driver       capture.Driver
	pipe         *pipeline.Pipeline
	shutdownDone chan interface{}
}

// NewServer builds the pipeline from config. Failing to acquire the
// metadata segment or to connect to the stream endpoint is fatal: no
// capture starts.
func NewServer(values configdef.Values, driver capture.Driver) (*Server, error) {
	var history *diagnostics.History
	if values.DiagnosticsHistory {
		h, err := diagnostics.NewHistory()
		if err != nil {
			log.Warn("diagnostics history disabled: %s", err)
		} else {
			history = h
		}
	}

	pipe, err := pipeline.New(pipeline.Settings{
		SegmentPrefix: values.SegmentPrefix,
		RingCapacity:  values.RingCapacity,
		StreamAddress: values.StreamAddress,
		SendTimeout:   time.Duration(values.SendTimeoutSecs) * time.Second,
		Encoder:       streamer.ResolveEncoder(values.EncoderBackend, values.JPEGQuality),
		History:       history,
	})
	if err != nil {
		return nil, err
	}

	return &Server{driver: driver, pipe: pipe, shutdownDone: make(chan interface{})}, nil
}

// Run starts streaming: every delivered frame flows through the
// pipeline's arrival path. A capture start failure is fatal.
func (s *Server) Run(ctx context.Context) error {
	if err := s.pipe.Start(); err != nil {
		return err
	}
	log.Info("Starting capture from unit [%s]...", s.driver.UUID())
	return s.driver.Start(ctx, s.pipe.HandleFrame)
}

func (s *Server) shutdown() {
	log.Warn("Stopping capture...")
	if err := s.driver.Stop(); err != nil {
		log.Error("unable to stop capture cleanly: %s", err)
	}

	if err := s.pipe.Stop(); err != nil {
		log.Debug("pipeline stop: %s", err)
	}
	if err := s.pipe.Close(); err != nil {
		log.Error("pipeline teardown: %s", err)
	}
	close(s.shutdownDone)
}

// Shutdown stops capture first so teardown runs between frames, then
// releases every pipeline resource.
func (s *Server) Shutdown() chan interface{} {
	s.shutdown()
	return s.shutdownDone
}
