// Package source exposes a corpus as one contiguous, read-only byte range.
package source

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sys/unix"
)

// Source is an immutable view over the bytes of a corpus. The slice returned
// by Bytes must not be written to and is valid until Close.
type Source interface {
	Bytes() []byte
	Len() int
	Close() error
}

type memory []byte

// FromBytes wraps an in-memory buffer. Close is a no-op.
func FromBytes(data []byte) Source {
	return memory(data)
}

func (m memory) Bytes() []byte { return m }
func (m memory) Len() int      { return len(m) }
func (m memory) Close() error  { return nil }

// Mapped is a file mapped read-only into memory.
type Mapped struct {
	path string
	file *os.File
	data []byte
}

// Open maps the named file. An empty file is not mapped and yields an empty
// source.
func Open(path string) (_ *Mapped, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer func() {
		if err != nil {
			f.Close()
		}
	}()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat source %q: %w", path, err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("source %q is a directory", path)
	}

	size := fi.Size()
	if size < 0 {
		return nil, fmt.Errorf("source %q has negative size", path)
	}
	if size != int64(int(size)) {
		return nil, fmt.Errorf("source %q is too large to map", path)
	}

	m := &Mapped{path: path, file: f}
	if size == 0 {
		return m, nil
	}

	m.data, err = unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap source %q: %w", path, err)
	}
	// Sequential access is the common case for every segment.
	_ = unix.Madvise(m.data, unix.MADV_SEQUENTIAL)
	return m, nil
}

func (m *Mapped) Bytes() []byte { return m.data }
func (m *Mapped) Len() int      { return len(m.data) }
func (m *Mapped) Path() string  { return m.path }

// Close unmaps the file and closes it. Calling Close twice is harmless.
func (m *Mapped) Close() error {
	var errs *multierror.Error
	if m.data != nil {
		if err := unix.Munmap(m.data); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("munmap %q: %w", m.path, err))
		}
		m.data = nil
	}
	if m.file != nil {
		if err := m.file.Close(); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("close %q: %w", m.path, err))
		}
		m.file = nil
	}
	return errs.ErrorOrNil()
}
