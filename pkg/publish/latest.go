package publish

import (
	"github.com/tauraamui/framecaster/pkg/frame"
	"github.com/tauraamui/framecaster/pkg/log"
	"github.com/tauraamui/framecaster/pkg/shm"
)

const nameSegmentSize = 256

var createSegment = shm.Create

// Latest republishes the newest frame's raw bytes under one well-known
// segment name, plus a fixed name-pointer segment readers use to discover
// it. It holds a copy independent of the frame store's retention.
type Latest struct {
	prefix string
	seg    *shm.Segment
}

func NewLatest(prefix string) *Latest {
	return &Latest{prefix: prefix}
}

func (l *Latest) name() string { return l.prefix + "_latest" }

func (l *Latest) nameSegmentName() string { return l.prefix + "_latest_name" }

// Publish replaces the previous publication with the given frame. Every
// step is best-effort: a segment acquisition failure abandons the rest of
// this publish and the previous publication stays in whatever state the
// release step left it. Readers observe the swap as eventually consistent.
// The name-pointer segment is refreshed regardless of the payload outcome.
func (l *Latest) Publish(f frame.Frame) {
	defer l.refreshName()

	if l.seg != nil {
		if err := l.seg.CloseAndUnlink(); err != nil {
			log.Debug("previous latest release: %s", err)
		}
		l.seg = nil
	}

	size := f.ByteSize()
	if size == 0 {
		return
	}

	seg, err := createSegment(l.name(), size)
	if err != nil {
		log.Debug("latest frame not published: %s", err)
		return
	}
	copy(seg.Bytes(), f.Data())
	l.seg = seg
}

func (l *Latest) refreshName() {
	seg, err := createSegment(l.nameSegmentName(), nameSegmentSize)
	if err != nil {
		log.Debug("latest name not refreshed: %s", err)
		return
	}
	b := seg.Bytes()
	for i := range b {
		b[i] = 0
	}
	copy(b, l.name())
	if err := seg.Close(); err != nil {
		log.Debug("latest name release: %s", err)
	}
}

// Segment is the current publication, nil when the last publish failed
// or nothing was published yet.
func (l *Latest) Segment() *shm.Segment { return l.seg }

// Close releases the current publication and removes the name-pointer
// segment.
func (l *Latest) Close() {
	if l.seg != nil {
		if err := l.seg.CloseAndUnlink(); err != nil {
			log.Debug("latest close: %s", err)
		}
		l.seg = nil
	}
	if err := shm.Remove(l.nameSegmentName()); err != nil {
		log.Debug("latest name close: %s", err)
	}
}
