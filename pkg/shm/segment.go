package shm

import (
	"path/filepath"
	"strings"

	"github.com/tauraamui/xerror"
	"golang.org/x/sys/unix"
)

// root is where named segments live. POSIX shm names such as
// "/camera_latest" resolve to files directly under it.
var root = "/dev/shm"

// Segment is a named shared memory region mapped into this process,
// readable by any co-located process which opens the same name.
type Segment struct {
	name string
	data []byte
}

func pathFor(name string) string {
	return filepath.Join(root, strings.TrimPrefix(name, "/"))
}

// Create opens-or-creates the named segment, sizes it and maps it
// read/write. The backing fd is closed before returning; the mapping
// keeps the segment alive.
func Create(name string, size int) (*Segment, error) {
	return open(name, size, unix.O_CREAT|unix.O_RDWR)
}

// Open maps an existing named segment without resizing or creating it.
func Open(name string, size int) (*Segment, error) {
	fd, err := unix.Open(pathFor(name), unix.O_RDWR, 0o666)
	if err != nil {
		return nil, xerror.Errorf("unable to open segment [%s]: %w", name, err)
	}
	defer unix.Close(fd)

	return mapFD(name, fd, size)
}

func open(name string, size int, flags int) (*Segment, error) {
	fd, err := unix.Open(pathFor(name), flags, 0o666)
	if err != nil {
		return nil, xerror.Errorf("unable to create segment [%s]: %w", name, err)
	}
	defer unix.Close(fd)

	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		return nil, xerror.Errorf("unable to size segment [%s] to %d: %w", name, size, err)
	}

	return mapFD(name, fd, size)
}

func mapFD(name string, fd, size int) (*Segment, error) {
	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, xerror.Errorf("unable to map segment [%s]: %w", name, err)
	}
	return &Segment{name: name, data: data}, nil
}

func (s *Segment) Name() string { return s.name }

func (s *Segment) Size() int { return len(s.data) }

// Bytes is the mapped region itself, not a copy.
func (s *Segment) Bytes() []byte { return s.data }

// Close unmaps the segment. The name remains visible to other processes
// until unlinked.
func (s *Segment) Close() error {
	if s.data == nil {
		return nil
	}
	data := s.data
	s.data = nil
	if err := unix.Munmap(data); err != nil {
		return xerror.Errorf("unable to unmap segment [%s]: %w", s.name, err)
	}
	return nil
}

// Unlink removes the segment's name. Existing mappings stay valid.
func (s *Segment) Unlink() error {
	return Remove(s.name)
}

func (s *Segment) CloseAndUnlink() error {
	if err := s.Close(); err != nil {
		return err
	}
	return s.Unlink()
}

// Remove unlinks a named segment without needing a mapping of it.
func Remove(name string) error {
	if err := unix.Unlink(pathFor(name)); err != nil {
		return xerror.Errorf("unable to unlink segment [%s]: %w", name, err)
	}
	return nil
}
