package codec

import (
	"io"
	"strings"

	"github.com/arloliu/tsln/schema"
)

// Document is an encoded TSLN document.
type Document struct {
	Schema *schema.Schema
	// Body holds the body lines joined by '\n', without a trailing line break.
	Body string
}

// Rows returns the number of body lines.
func (d *Document) Rows() int {
	return d.Schema.Rows
}

// Text returns the complete document: the header line followed by the body.
func (d *Document) Text() string {
	header := d.Schema.Header()
	if d.Schema.Rows == 0 {
		return header
	}

	var sb strings.Builder
	sb.Grow(len(header) + 1 + len(d.Body))
	sb.WriteString(header)
	sb.WriteByte('\n')
	sb.WriteString(d.Body)

	return sb.String()
}

// Size returns the length of Text in bytes.
func (d *Document) Size() int {
	n := len(d.Schema.Header())
	if d.Schema.Rows > 0 {
		n += 1 + len(d.Body)
	}

	return n
}

// WriteTo writes Text to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, d.Text())
	return int64(n), err
}

func (d *Document) lines() []string {
	if d.Schema.Rows == 0 {
		return nil
	}

	return strings.Split(d.Body, "\n")
}
