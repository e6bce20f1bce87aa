package form

// Node is one entry of a multipart body: a *Part, a *FilePart or a
// *Multipart.
type Node interface {
	node()
}

// Part is an inline field whose body is held in memory.
type Part struct {
	Header Header
	Body   []byte
}

// FilePart is a field whose body is read from a file when the stream is
// consumed. The file is owned by the caller and is never moved or removed.
type FilePart struct {
	Header Header
	Path   string
	// Size is the file length if the caller already measured it. Zero means
	// unknown and makes the builder stat the file.
	Size int64
}

// Multipart is a nested multipart body. Its Header must carry a
// multipart/* Content-Type with a boundary parameter; that boundary frames
// Nodes.
type Multipart struct {
	Header Header
	Nodes  []Node
}

func (*Part) node()      {}
func (*FilePart) node()  {}
func (*Multipart) node() {}

// NewFilePart returns a file part with a copy of header.
func NewFilePart(header Header, path string) *FilePart {
	return &FilePart{Header: header.Clone(), Path: path}
}
