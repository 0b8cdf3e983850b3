package framestore

import "github.com/tauraamui/framecaster/pkg/shm"

func OverloadCreateSegment(overload func(string, int) (*shm.Segment, error)) func() {
	createSegmentRef := createSegment
	createSegment = overload
	return func() { createSegment = createSegmentRef }
}
