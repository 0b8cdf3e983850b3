package framestore

import (
	"fmt"
	"sync"

	"github.com/tauraamui/framecaster/pkg/frame"
	"github.com/tauraamui/framecaster/pkg/log"
	"github.com/tauraamui/framecaster/pkg/shm"
)

const DefaultCapacity = 5

var createSegment = shm.Create

// Entry is one retained frame: its descriptor plus the shared memory
// segment holding a copy of its payload.
type Entry struct {
	Format     frame.Format
	Dimensions frame.Dimensions
	Segment    *shm.Segment
}

// Store is a fixed-capacity FIFO ring of the most recent frames. Ring
// index state is guarded by one mutex shared by all readers and writers;
// payload copies happen outside of it.
type Store struct {
	mu     sync.Mutex
	prefix string
	slots  []*Entry
	head   int
	count  int
}

func New(prefix string, capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{prefix: prefix, slots: make([]*Entry, capacity)}
}

func (s *Store) Capacity() int { return len(s.slots) }

func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

func (s *Store) slotName(slot int) string {
	return fmt.Sprintf("%s_frame_%d", s.prefix, slot)
}

// Admit stores a copy of the frame in its own segment, evicting the
// single oldest entry when the ring is full. It never fails the caller:
// unsupported formats and segment acquisition failures leave the ring
// state untouched and no eviction happens.
func (s *Store) Admit(f frame.Frame) {
	size := f.ByteSize()
	if size == 0 {
		return
	}

	s.mu.Lock()
	slot := (s.head + s.count) % len(s.slots)
	if s.count == len(s.slots) {
		slot = s.head
	}
	s.mu.Unlock()

	// The arrival path is serial, so the reserved slot cannot be taken
	// by another admit while the copy runs unlocked.
	seg, err := createSegment(s.slotName(slot), size)
	if err != nil {
		log.Debug("frame not stored: %s", err)
		return
	}
	copy(seg.Bytes(), f.Data())

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.count == len(s.slots) {
		// The evicted entry's name is reused by the new segment, so
		// only its mapping is released here.
		if old := s.slots[s.head]; old != nil && old.Segment != nil {
			if err := old.Segment.Close(); err != nil {
				log.Debug("evicted frame release: %s", err)
			}
		}
		s.head = (s.head + 1) % len(s.slots)
		s.count--
	}
	s.slots[slot] = &Entry{Format: f.Format(), Dimensions: f.Dimensions(), Segment: seg}
	s.count++
}

// Latest returns the newest stored entry without copying, or false when
// nothing has ever been admitted.
func (s *Store) Latest() (*Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.count == 0 {
		return nil, false
	}
	return s.slots[(s.head+s.count-1)%len(s.slots)], true
}

// Snapshot returns the current entries in admission order, oldest first.
func (s *Store) Snapshot() []*Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]*Entry, 0, s.count)
	for i := 0; i < s.count; i++ {
		entries = append(entries, s.slots[(s.head+i)%len(s.slots)])
	}
	return entries
}

// Close releases every outstanding segment and empties the ring.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < s.count; i++ {
		entry := s.slots[(s.head+i)%len(s.slots)]
		if entry == nil || entry.Segment == nil {
			continue
		}
		if err := entry.Segment.CloseAndUnlink(); err != nil {
			log.Debug("frame store close: %s", err)
		}
	}
	s.slots = make([]*Entry, len(s.slots))
	s.head = 0
	s.count = 0
}
