package form

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/orgbook/internal/common"
)

// Field is a plain text form field.
type Field struct {
	Name  string
	Value string
}

// FileField binds a form field name to a file on disk.
type FileField struct {
	Name string
	File *FilePart
}

// FormData holds the text fields and files of a multipart/form-data body.
type FormData struct {
	Fields []Field
	Files  []FileField
}

// AddField appends a text field.
func (d *FormData) AddField(name, value string) {
	d.Fields = append(d.Fields, Field{Name: name, Value: value})
}

// AddFile appends a file field. header may be nil; Content-Disposition is
// always rewritten by ToMultipart.
func (d *FormData) AddFile(name, path string, header Header) {
	d.Files = append(d.Files, FileField{Name: name, File: NewFilePart(header, path)})
}

// ToMultipart translates the form into nodes: fields first, then files, each
// group in insertion order.
func (d *FormData) ToMultipart() ([]Node, error) {
	nodes := make([]Node, 0, len(d.Fields)+len(d.Files))

	for _, f := range d.Fields {
		h := Header{}
		h.Set("Content-Type", "text/plain")
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"`, escapeQuotes(f.Name)))
		nodes = append(nodes, &Part{Header: h, Body: []byte(f.Value)})
	}

	for _, f := range d.Files {
		if f.File == nil {
			return nil, fmt.Errorf("%w: field %q has no file", ErrInvalidFile, f.Name)
		}
		filename := filepath.Base(f.File.Path)
		if f.File.Path == "" || filename == "." || filename == string(filepath.Separator) {
			return nil, fmt.Errorf("%w: %q has no file name", ErrInvalidFile, f.File.Path)
		}

		fp := NewFilePart(f.File.Header, f.File.Path)
		fp.Size = f.File.Size
		fp.Header.Del("Content-Disposition")
		fp.Header.Add("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			escapeQuotes(f.Name), escapeQuotes(filename)))
		if !fp.Header.Has("Content-Type") {
			fp.Header.Add("Content-Type", guessContentType(filename))
		}
		nodes = append(nodes, fp)
	}

	return nodes, nil
}

// FormStream is an encoded form body ready to be sent.
type FormStream struct {
	Boundary string
	Reader   *Stream
	Count    int64
}

// ContentType returns the Content-Type header value for the body.
func (s *FormStream) ContentType() string {
	return "multipart/form-data; boundary=" + s.Boundary
}

// IntoFormStream encodes the form under a freshly generated boundary.
func (d *FormData) IntoFormStream() (*FormStream, error) {
	nodes, err := d.ToMultipart()
	if err != nil {
		return nil, err
	}
	boundary, err := GenerateBoundary()
	if err != nil {
		return nil, err
	}
	count, reader, err := Build(boundary, nodes)
	if err != nil {
		return nil, err
	}
	return &FormStream{Boundary: boundary, Reader: reader, Count: count}, nil
}

// GenerateBoundary returns a random 60 character hex boundary.
func GenerateBoundary() (string, error) {
	return common.MakeRandHexString(30)
}

// ValidateBoundary checks length and character set per RFC 2046 section 5.1.1.
func ValidateBoundary(boundary string) error {
	if len(boundary) < 1 || len(boundary) > 70 {
		return fmt.Errorf("%w: length %d", ErrInvalidBoundary, len(boundary))
	}
	for i, b := range boundary {
		if 'A' <= b && b <= 'Z' || 'a' <= b && b <= 'z' || '0' <= b && b <= '9' {
			continue
		}
		switch b {
		case '\'', '(', ')', '+', '_', ',', '-', '.', '/', ':', '=', '?':
			continue
		case ' ':
			if i != len(boundary)-1 {
				continue
			}
		}
		return fmt.Errorf("%w: character %q", ErrInvalidBoundary, b)
	}
	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func guessContentType(filename string) string {
	if ct := mime.TypeByExtension(filepath.Ext(filename)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
