// Package form assembles multipart/* request bodies as a single lazily read
// byte stream whose exact length is known before the first byte is sent.
//
// File contents are never buffered: each file part is opened and measured
// when the stream is built, and read only when the consumer pulls past the
// framing that precedes it.
package form

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

const crlf = "\r\n"

// segment is either an in-memory buffer or an open file with a fixed number
// of bytes left to produce.
type segment struct {
	buf []byte

	file      *os.File
	path      string
	remaining int64
}

func (s *segment) isFile() bool { return s.file != nil }

// Stream is the encoded body returned by Build. It is single-pass: once
// drained, further reads report io.EOF without re-emitting content.
type Stream struct {
	segs   []segment
	cur    int
	err    error
	closed bool
}

// builder accumulates framing bytes until a file segment interrupts them.
type builder struct {
	pending bytes.Buffer
	segs    []segment
	size    int64
}

func (b *builder) flush() {
	if b.pending.Len() == 0 {
		return
	}
	buf := make([]byte, b.pending.Len())
	copy(buf, b.pending.Bytes())
	b.segs = append(b.segs, segment{buf: buf})
	b.size += int64(len(buf))
	b.pending.Reset()
}

func (b *builder) writeString(s string) { b.pending.WriteString(s) }

func (b *builder) write(p []byte) { b.pending.Write(p) }

// discard closes every file opened so far.
func (b *builder) discard() {
	for i := range b.segs {
		if f := b.segs[i].file; f != nil {
			_ = f.Close()
		}
	}
	b.segs = nil
}

// Build encodes nodes framed by boundary and returns the exact body length
// together with the stream producing it. On error no stream is returned and
// any file already opened is closed.
func Build(boundary string, nodes []Node) (int64, *Stream, error) {
	if err := ValidateBoundary(boundary); err != nil {
		return 0, nil, err
	}

	b := &builder{}
	if err := b.writeNodes(boundary, nodes); err != nil {
		b.discard()
		return 0, nil, err
	}
	b.flush()

	return b.size, &Stream{segs: b.segs}, nil
}

func (b *builder) writeNodes(boundary string, nodes []Node) error {
	for _, n := range nodes {
		b.writeString("--" + boundary + crlf)

		switch n := n.(type) {
		case *Part:
			n.Header.writeTo(&b.pending)
			b.write(n.Body)
		case *FilePart:
			n.Header.writeTo(&b.pending)
			if err := b.addFile(n); err != nil {
				return err
			}
		case *Multipart:
			sub, err := n.Header.Boundary()
			if err != nil {
				return err
			}
			n.Header.writeTo(&b.pending)
			if err := b.writeNodes(sub, n.Nodes); err != nil {
				return err
			}
		default:
			return fmt.Errorf("form: unsupported node type %T", n)
		}

		b.writeString(crlf)
	}

	b.writeString("--" + boundary + "--")
	return nil
}

func (b *builder) addFile(p *FilePart) error {
	f, err := os.Open(p.Path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	size := p.Size
	if size <= 0 {
		info, err := f.Stat()
		if err != nil {
			_ = f.Close()
			return fmt.Errorf("%w: %v", ErrInvalidFile, err)
		}
		if info.IsDir() {
			_ = f.Close()
			return fmt.Errorf("%w: %s is a directory", ErrInvalidFile, p.Path)
		}
		size = info.Size()
	}

	b.flush()
	b.segs = append(b.segs, segment{file: f, path: p.Path, remaining: size})
	b.size += size
	return nil
}

// Read implements io.Reader over the concatenated segments.
func (s *Stream) Read(p []byte) (int, error) {
	if s.closed {
		return 0, ErrStreamClosed
	}
	if s.err != nil {
		return 0, s.err
	}
	if len(p) == 0 {
		return 0, nil
	}

	for s.cur < len(s.segs) {
		seg := &s.segs[s.cur]

		if !seg.isFile() {
			if len(seg.buf) == 0 {
				s.cur++
				continue
			}
			n := copy(p, seg.buf)
			seg.buf = seg.buf[n:]
			return n, nil
		}

		if seg.remaining == 0 {
			s.release(seg)
			s.cur++
			continue
		}

		want := p
		if int64(len(want)) > seg.remaining {
			want = want[:seg.remaining]
		}
		n, err := seg.file.Read(want)
		seg.remaining -= int64(n)

		if err != nil && !errors.Is(err, io.EOF) {
			s.err = err
			s.release(seg)
			return n, err
		}
		if errors.Is(err, io.EOF) && seg.remaining > 0 {
			s.err = fmt.Errorf("%w: %s", ErrFileChanged, seg.path)
			s.release(seg)
			return n, s.err
		}
		if seg.remaining == 0 {
			s.release(seg)
			s.cur++
		}
		if n > 0 {
			return n, nil
		}
	}

	return 0, io.EOF
}

func (s *Stream) release(seg *segment) {
	if seg.file != nil {
		_ = seg.file.Close()
		seg.file = nil
		seg.remaining = 0
		seg.buf = nil
	}
}

// Close releases any file not yet fully read. It is safe to call more than
// once and after the stream has been drained.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	for i := range s.segs {
		if f := s.segs[i].file; f != nil {
			if err := f.Close(); err != nil {
				errs = append(errs, err)
			}
			s.segs[i].file = nil
		}
	}
	s.segs = nil
	return errors.Join(errs...)
}
