package framestore_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/matryer/is"
	"github.com/tauraamui/framecaster/pkg/frame"
	"github.com/tauraamui/framecaster/pkg/framestore"
	"github.com/tauraamui/framecaster/pkg/shm"
)

func testPrefix() string {
	return fmt.Sprintf("/fctest_%s", uuid.NewString()[:8])
}

func testFrame(marker byte) frame.Frame {
	dim := frame.Dimensions{Width: 2, Height: 2, Stride: 8}
	buf := make([]byte, dim.Stride*dim.Height)
	for i := range buf {
		buf[i] = marker
	}
	return frame.New(frame.RGB8888, dim, buf)
}

func TestLatestIsEmptyBeforeFirstAdmit(t *testing.T) {
	is := is.New(t)
	store := framestore.New(testPrefix(), 5)
	defer store.Close()

	_, ok := store.Latest()
	is.True(!ok)
	is.Equal(store.Count(), 0)
}

func TestAdmitStoresFrameCopyInSegment(t *testing.T) {
	is := is.New(t)
	store := framestore.New(testPrefix(), 5)
	defer store.Close()

	store.Admit(testFrame(0xAB))

	entry, ok := store.Latest()
	is.True(ok)
	is.Equal(entry.Format, frame.RGB8888)
	is.Equal(entry.Segment.Size(), 16) // 2x2 RGB8888 published size
	for _, b := range entry.Segment.Bytes() {
		is.Equal(b, byte(0xAB))
	}
}

func TestStoreNeverExceedsCapacityAndEvictsFIFO(t *testing.T) {
	is := is.New(t)
	store := framestore.New(testPrefix(), 5)
	defer store.Close()

	for i := 1; i <= 7; i++ {
		store.Admit(testFrame(byte(i)))
		is.True(store.Count() <= store.Capacity())
	}

	is.Equal(store.Count(), 5)

	// frames 1 and 2 were evicted; 3..7 remain in admission order
	entries := store.Snapshot()
	is.Equal(len(entries), 5)
	for i, entry := range entries {
		is.Equal(entry.Segment.Bytes()[0], byte(i+3))
	}

	latest, ok := store.Latest()
	is.True(ok)
	is.Equal(latest.Segment.Bytes()[0], byte(7))
}

func TestAdmitSkipsUnsupportedFormat(t *testing.T) {
	is := is.New(t)
	store := framestore.New(testPrefix(), 5)
	defer store.Close()

	buf := make([]byte, 16)
	store.Admit(frame.New(frame.Unknown, frame.Dimensions{Width: 2, Height: 2, Stride: 8}, buf))

	is.Equal(store.Count(), 0)
	_, ok := store.Latest()
	is.True(!ok)
}

func TestAdmitSegmentFailureLeavesRingUntouched(t *testing.T) {
	is := is.New(t)
	store := framestore.New(testPrefix(), 5)
	defer store.Close()

	store.Admit(testFrame(0x01))
	store.Admit(testFrame(0x02))

	reset := framestore.OverloadCreateSegment(func(string, int) (*shm.Segment, error) {
		return nil, errors.New("testing segment acquisition failure")
	})
	store.Admit(testFrame(0x03))
	reset()

	is.Equal(store.Count(), 2)
	latest, ok := store.Latest()
	is.True(ok)
	is.Equal(latest.Segment.Bytes()[0], byte(0x02))
}

func TestCloseReleasesEveryEntry(t *testing.T) {
	is := is.New(t)
	store := framestore.New(testPrefix(), 3)

	for i := 1; i <= 3; i++ {
		store.Admit(testFrame(byte(i)))
	}
	store.Close()

	is.Equal(store.Count(), 0)
	_, ok := store.Latest()
	is.True(!ok)
}
