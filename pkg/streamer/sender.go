package streamer

import (
	"encoding/binary"
	"net"
	"time"

	"github.com/tauraamui/framecaster/pkg/frame"
	"github.com/tauraamui/framecaster/pkg/log"
	"github.com/tauraamui/xerror"
)

const DefaultSendTimeout = 3 * time.Second

// Sender pushes JPEG re-encodings of RGB8888 frames over one persistent
// stream connection. Wire format per message: an 8 byte little-endian
// length followed by that many encoded bytes, no acknowledgement.
//
// The connection is never reopened: the first failed send marks it dead
// and streaming silently stops until process restart.
type Sender struct {
	conn    net.Conn
	enc     Encoder
	timeout time.Duration
	dead    bool
}

// Connect dials the remote viewer. A connect failure here is fatal to
// pipeline startup, so it is returned rather than absorbed.
func Connect(addr string, enc Encoder, timeout time.Duration) (*Sender, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, xerror.Errorf("unable to connect to stream endpoint [%s]: %w", addr, err)
	}
	return NewSender(conn, enc, timeout), nil
}

func NewSender(conn net.Conn, enc Encoder, timeout time.Duration) *Sender {
	if timeout <= 0 {
		timeout = DefaultSendTimeout
	}
	return &Sender{conn: conn, enc: enc, timeout: timeout}
}

// MaybeSend streams the frame if it qualifies. Non-RGB8888 frames are
// skipped outright: not queued, not buffered, not retried. Every failure
// drops only this frame's stream update.
func (s *Sender) MaybeSend(f frame.Frame) {
	if s.dead || f.Format() != frame.RGB8888 {
		return
	}
	dim := f.Dimensions()
	if dim.Width <= 0 || dim.Height <= 0 {
		return
	}

	rgb, ok := packRGB(f)
	if !ok {
		log.Debug("frame buffer too short to repack, stream update dropped")
		return
	}

	payload, err := s.enc.EncodeRGB(rgb, dim.Width, dim.Height)
	if err != nil {
		log.Debug("frame encode failed, stream update dropped: %s", err)
		return
	}

	if err := s.write(payload); err != nil {
		s.dead = true
		log.Error("stream send failed, streaming disabled until restart: %s", err)
	}
}

func (s *Sender) write(payload []byte) error {
	if err := s.conn.SetWriteDeadline(time.Now().Add(s.timeout)); err != nil {
		return err
	}
	prefix := make([]byte, 8)
	binary.LittleEndian.PutUint64(prefix, uint64(len(payload)))
	if _, err := s.conn.Write(prefix); err != nil {
		return err
	}
	_, err := s.conn.Write(payload)
	return err
}

func (s *Sender) Close() error {
	return s.conn.Close()
}

// packRGB repacks the frame's samples from its native stride into a
// tightly packed RGB sequence, skipping row padding and the 4th byte of
// every pixel group.
func packRGB(f frame.Frame) ([]byte, bool) {
	dim := f.Dimensions()
	rgb := make([]byte, dim.Width*dim.Height*3)
	for y := 0; y < dim.Height; y++ {
		row := f.Row(y)
		if row == nil || len(row) < dim.Width*4 {
			return nil, false
		}
		for x := 0; x < dim.Width; x++ {
			out := (y*dim.Width + x) * 3
			in := x * 4
			rgb[out] = row[in]
			rgb[out+1] = row[in+1]
			rgb[out+2] = row[in+2]
		}
	}
	return rgb, true
}
