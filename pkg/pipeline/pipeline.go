package pipeline

import (
	"io"
	"sync"
	"time"

	"github.com/tauraamui/framecaster/pkg/diagnostics"
	"github.com/tauraamui/framecaster/pkg/frame"
	"github.com/tauraamui/framecaster/pkg/framestore"
	"github.com/tauraamui/framecaster/pkg/log"
	"github.com/tauraamui/framecaster/pkg/publish"
	"github.com/tauraamui/framecaster/pkg/streamer"
	"github.com/tauraamui/xerror"
)

type State uint8

const (
	Idle State = iota
	Streaming
	Stopping
	Closed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Streaming:
		return "streaming"
	case Stopping:
		return "stopping"
	case Closed:
		return "closed"
	}
	return "invalid"
}

type Settings struct {
	SegmentPrefix  string
	RingCapacity   int
	StreamAddress  string
	SendTimeout    time.Duration
	Encoder        streamer.Encoder
	DiagnosticsOut io.Writer
	History        *diagnostics.History
}

// Pipeline owns every stage and resource of the frame path: ring store,
// latest/metadata publishers, stream sender and diagnostics. Lifetime
// runs Idle -> Streaming -> Stopping -> Closed; Closed is terminal.
type Pipeline struct {
	mu       sync.Mutex
	state    State
	store    *framestore.Store
	latest   *publish.Latest
	meta     *publish.Metadata
	sender   *streamer.Sender
	reporter *diagnostics.Reporter
	history  *diagnostics.History
}

// New acquires the resources whose absence is fatal: the metadata
// segment (created once, reused for the process lifetime) and the
// outbound stream connection.
func New(sett Settings) (*Pipeline, error) {
	if len(sett.SegmentPrefix) == 0 {
		return nil, xerror.New("pipeline requires a segment name prefix")
	}
	if sett.Encoder == nil {
		sett.Encoder = streamer.Default()
	}

	meta, err := publish.NewMetadata(sett.SegmentPrefix)
	if err != nil {
		return nil, err
	}

	sender, err := streamer.Connect(sett.StreamAddress, sett.Encoder, sett.SendTimeout)
	if err != nil {
		meta.Close()
		return nil, err
	}

	return build(sett, meta, sender), nil
}

// NewWithSender is New for callers owning the connection already, such
// as tests driving a local listener.
func NewWithSender(sett Settings, sender *streamer.Sender) (*Pipeline, error) {
	if len(sett.SegmentPrefix) == 0 {
		return nil, xerror.New("pipeline requires a segment name prefix")
	}
	meta, err := publish.NewMetadata(sett.SegmentPrefix)
	if err != nil {
		return nil, err
	}
	return build(sett, meta, sender), nil
}

func build(sett Settings, meta *publish.Metadata, sender *streamer.Sender) *Pipeline {
	reporter := diagnostics.NewReporter(sett.History)
	if sett.DiagnosticsOut != nil {
		reporter = diagnostics.NewReporterWithWriter(sett.DiagnosticsOut, sett.History)
	}
	return &Pipeline{
		store:    framestore.New(sett.SegmentPrefix, sett.RingCapacity),
		latest:   publish.NewLatest(sett.SegmentPrefix),
		meta:     meta,
		sender:   sender,
		reporter: reporter,
		history:  sett.History,
	}
}

func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Pipeline) transition(from, to State) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != from {
		return xerror.Errorf("invalid pipeline transition: %s -> %s while %s", from, to, p.state)
	}
	p.state = to
	return nil
}

// Start moves Idle -> Streaming; frames arriving before it are dropped.
func (p *Pipeline) Start() error {
	return p.transition(Idle, Streaming)
}

// HandleFrame is the frame-arrival entry point the capture adapter
// drives, serially. Stage order is fixed: store, publish latest, publish
// metadata, maybe stream, diagnose. Diagnose runs last so its timing
// report covers no I/O, and metadata lands right after the latest
// payload to keep the reader mismatch window minimal. No failure in any
// stage escapes to the caller.
func (p *Pipeline) HandleFrame(f frame.Frame) {
	if p.State() != Streaming {
		return
	}
	p.store.Admit(f)
	p.latest.Publish(f)
	p.meta.Update(f)
	p.sender.MaybeSend(f)
	p.reporter.Report(f)
}

// Store exposes the ring for co-located readers wanting the current
// latest ring entry.
func (p *Pipeline) Store() *framestore.Store { return p.store }

func (p *Pipeline) Metadata() *publish.Metadata { return p.meta }

func (p *Pipeline) Latest() *publish.Latest { return p.latest }

// Stop moves Streaming -> Stopping. The caller must have stopped the
// capture driver first; teardown is cooperative and only runs between
// frames.
func (p *Pipeline) Stop() error {
	return p.transition(Streaming, Stopping)
}

// Close releases every outstanding segment still tracked by the store
// and the publishers, then the stream connection, landing in the
// terminal Closed state. No operation is valid afterwards.
func (p *Pipeline) Close() error {
	p.mu.Lock()
	if p.state == Closed {
		p.mu.Unlock()
		return xerror.New("pipeline already closed")
	}
	p.state = Closed
	p.mu.Unlock()

	p.store.Close()
	p.latest.Close()
	p.meta.Close()

	if p.history != nil {
		if err := p.history.Close(); err != nil {
			log.Debug("diagnostics history close: %s", err)
		}
	}

	return p.sender.Close()
}
