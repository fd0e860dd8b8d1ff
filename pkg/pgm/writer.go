package pgm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
)

// DefaultComment is the provenance comment written into every header
const DefaultComment = "Created using LSB Steganography"

// Encoder writes rasters as PGM
type Encoder struct {
	variant Variant
	comment string
}

// EncoderOption configures an Encoder
type EncoderOption func(*Encoder)

// WithComment replaces the provenance comment. An empty comment omits the line.
func WithComment(comment string) EncoderOption {
	return func(e *Encoder) {
		// a comment cannot span lines
		e.comment = strings.Join(strings.Fields(comment), " ")
	}
}

// NewEncoder creates an encoder for the variant
func NewEncoder(v Variant, opts ...EncoderOption) *Encoder {
	e := &Encoder{variant: v, comment: DefaultComment}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Save writes img in the given variant with the default comment
func Save(w io.Writer, img *Raster, v Variant) (int64, error) {
	return NewEncoder(v).Encode(w, img)
}

// WriteFile writes img to path. The file is removed if encoding fails.
func WriteFile(path string, img *Raster, v Variant, opts ...EncoderOption) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("pgm: create %s: %w: %w", path, ErrIO, err)
	}
	n, err := NewEncoder(v, opts...).Encode(f, img)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("pgm: close %s: %w: %w", path, ErrIO, cerr)
	}
	if err != nil {
		os.Remove(path)
		return n, err
	}
	return n, nil
}

// Encode writes the header followed by the samples and returns the bytes written
func (e *Encoder) Encode(w io.Writer, img *Raster) (int64, error) {
	if err := img.Validate(); err != nil {
		return 0, err
	}
	codec := e.variant.Codec()
	if codec == nil {
		return 0, fmt.Errorf("pgm: unknown variant %v: %w", e.variant, ErrFormat)
	}

	cw := &CountingWriter{Writer: w}
	bw := bufio.NewWriter(cw)

	// 1. Header
	if err := e.writeHeader(bw, codec, img); err != nil {
		return cw.Count.Load(), err
	}

	// 2. Samples
	if err := codec.Encode(bw, img); err != nil {
		return cw.Count.Load(), err
	}

	if err := bw.Flush(); err != nil {
		return cw.Count.Load(), fmt.Errorf("pgm: flush: %w: %w", ErrIO, err)
	}
	return cw.Count.Load(), nil
}

func (e *Encoder) writeHeader(w io.Writer, codec Codec, img *Raster) error {
	var sb strings.Builder
	sb.WriteString(codec.Magic())
	sb.WriteByte('\n')
	if e.comment != "" {
		fmt.Fprintf(&sb, "# %s\n", e.comment)
	}
	fmt.Fprintf(&sb, "%d %d\n%d\n", img.Width, img.Height, MaxVal)
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("pgm: write header: %w: %w", ErrIO, err)
	}
	return nil
}

// CountingWriter counts the bytes successfully written through it
type CountingWriter struct {
	Count  atomic.Int64
	Writer io.Writer
}

func (c *CountingWriter) Write(p []byte) (int, error) {
	n, err := c.Writer.Write(p)
	if err == nil {
		c.Count.Add(int64(n))
	}
	return n, err
}
