package form

import (
	"bytes"
	"fmt"
	"mime"
	"strings"
)

// HeaderField is a single "Name: Value" line of a part header.
type HeaderField struct {
	Name  string
	Value string
}

// Header is an ordered collection of part header fields. Unlike
// textproto.MIMEHeader it keeps insertion order, which is the order the
// fields are written to the wire.
type Header []HeaderField

// Get returns the value of the first field matching name (case-insensitive),
// or "" if there is none.
func (h Header) Get(name string) string {
	for _, f := range h {
		if strings.EqualFold(f.Name, name) {
			return f.Value
		}
	}
	return ""
}

// Has reports whether a field with the given name is present.
func (h Header) Has(name string) bool {
	for _, f := range h {
		if strings.EqualFold(f.Name, name) {
			return true
		}
	}
	return false
}

// Add appends a field, keeping any existing fields with the same name.
func (h *Header) Add(name, value string) {
	*h = append(*h, HeaderField{Name: name, Value: value})
}

// Set replaces the first field named name in place and drops the others.
// If no such field exists the field is appended.
func (h *Header) Set(name, value string) {
	out := (*h)[:0]
	set := false
	for _, f := range *h {
		if strings.EqualFold(f.Name, name) {
			if set {
				continue
			}
			f.Value = value
			set = true
		}
		out = append(out, f)
	}
	if !set {
		out = append(out, HeaderField{Name: name, Value: value})
	}
	*h = out
}

// Del removes every field named name.
func (h *Header) Del(name string) {
	out := (*h)[:0]
	for _, f := range *h {
		if !strings.EqualFold(f.Name, name) {
			out = append(out, f)
		}
	}
	*h = out
}

// Clone returns a copy that does not share storage with h.
func (h Header) Clone() Header {
	if h == nil {
		return nil
	}
	c := make(Header, len(h))
	copy(c, h)
	return c
}

// Boundary extracts the boundary parameter of a multipart/* Content-Type.
// It fails with ErrMalformedNestedBoundary if the header is missing, is not
// multipart, or carries no usable boundary.
func (h Header) Boundary() (string, error) {
	ct := h.Get("Content-Type")
	if ct == "" {
		return "", fmt.Errorf("%w: no Content-Type header", ErrMalformedNestedBoundary)
	}
	mediaType, params, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedNestedBoundary, err)
	}
	if !strings.HasPrefix(mediaType, "multipart/") {
		return "", fmt.Errorf("%w: %q is not multipart", ErrMalformedNestedBoundary, mediaType)
	}
	boundary := params["boundary"]
	if err := ValidateBoundary(boundary); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedNestedBoundary, err)
	}
	return boundary, nil
}

// writeTo renders the header block including the terminating blank line.
func (h Header) writeTo(b *bytes.Buffer) {
	for _, f := range h {
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(f.Value)
		b.WriteString(crlf)
	}
	b.WriteString(crlf)
}
