package uclient

import (
	"errors"
	"fmt"
	"io"
)

// payloadReader remembers the first non-EOF error returned by the wrapped
// body so Do can report it as ErrPayload whatever the transport made of it.
type payloadReader struct {
	r   io.Reader
	err error
}

func newPayloadReader(r io.Reader) *payloadReader {
	return &payloadReader{r: r}
}

func (p *payloadReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if err != nil && !errors.Is(err, io.EOF) {
		if p.err == nil {
			p.err = err
		}
		return n, fmt.Errorf("%w: %v", ErrPayload, err)
	}
	return n, err
}

// wrapSendError classifies an error returned while sending a request.
func (p *payloadReader) wrapSendError(err error) error {
	if p != nil && p.err != nil {
		return fmt.Errorf("%w: %v", ErrPayload, p.err)
	}
	return fmt.Errorf("%w: %v", ErrHTTPClient, err)
}
