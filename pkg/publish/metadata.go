package publish

import (
	"encoding/binary"

	"github.com/tauraamui/framecaster/pkg/frame"
	"github.com/tauraamui/framecaster/pkg/log"
	"github.com/tauraamui/framecaster/pkg/shm"
)

// RecordSize is the fixed byte length of the metadata record:
// format u32, width u32, height u32, reserved u32, size u64,
// all little-endian.
const RecordSize = 24

// Record describes the latest published frame for co-located readers.
type Record struct {
	Format frame.Format
	Width  uint32
	Height uint32
	Size   uint64
}

func (r Record) encode(b []byte) {
	binary.LittleEndian.PutUint32(b[0:4], uint32(r.Format))
	binary.LittleEndian.PutUint32(b[4:8], r.Width)
	binary.LittleEndian.PutUint32(b[8:12], r.Height)
	binary.LittleEndian.PutUint32(b[12:16], 0)
	binary.LittleEndian.PutUint64(b[16:24], r.Size)
}

func DecodeRecord(b []byte) Record {
	return Record{
		Format: frame.Format(binary.LittleEndian.Uint32(b[0:4])),
		Width:  binary.LittleEndian.Uint32(b[4:8]),
		Height: binary.LittleEndian.Uint32(b[8:12]),
		Size:   binary.LittleEndian.Uint64(b[16:24]),
	}
}

// Metadata owns the fixed-size metadata segment. The segment is created
// once at startup and reused for the process lifetime, so Update has no
// failure path visible to the caller.
type Metadata struct {
	seg *shm.Segment
}

func NewMetadata(prefix string) (*Metadata, error) {
	seg, err := createSegment(prefix+"_metadata", RecordSize)
	if err != nil {
		return nil, err
	}
	return &Metadata{seg: seg}, nil
}

// Update writes the frame's descriptor fields into the mapped record.
// Unrecognised formats write zero width/height and the computed size,
// which for them is also zero.
func (m *Metadata) Update(f frame.Frame) {
	record := Record{Format: f.Format(), Size: uint64(f.ByteSize())}
	if f.Format().Supported() {
		dim := f.Dimensions()
		record.Width = uint32(dim.Width)
		record.Height = uint32(dim.Height)
	}
	record.encode(m.seg.Bytes())
}

// Current decodes the record as currently published.
func (m *Metadata) Current() Record {
	return DecodeRecord(m.seg.Bytes())
}

func (m *Metadata) Close() {
	if m.seg == nil {
		return
	}
	if err := m.seg.CloseAndUnlink(); err != nil {
		log.Debug("metadata close: %s", err)
	}
	m.seg = nil
}
