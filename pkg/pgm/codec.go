package pgm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Variant selects the sample encoding of a graymap
type Variant int

const (
	// Plain is the textual P2 variant
	Plain Variant = iota
	// Raw is the packed binary P5 variant
	Raw
)

// Magic returns the two character tag for the variant
func (v Variant) Magic() string {
	if c := v.Codec(); c != nil {
		return c.Magic()
	}
	return "??"
}

// Codec returns the sample codec backing the variant, or nil if unknown
func (v Variant) Codec() Codec {
	switch v {
	case Plain:
		return codecsByName["plain"]
	case Raw:
		return codecsByName["raw"]
	}
	return nil
}

func (v Variant) String() string {
	if c := v.Codec(); c != nil {
		return c.Name()
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// ParseVariant maps a codec name or magic tag to its variant
func ParseVariant(s string) (Variant, error) {
	c := CodecByName(strings.ToLower(s))
	if c == nil {
		c = CodecByMagic(strings.ToUpper(s))
	}
	if c == nil {
		return 0, fmt.Errorf("pgm: unknown variant %q: %w", s, ErrFormat)
	}
	return c.Variant(), nil
}

// Codec defines the sample payload encoding of one variant.
// Header handling is shared and lives in the Reader and Encoder.
type Codec interface {
	// Encode writes the raster samples to the writer
	Encode(w io.Writer, img *Raster) error
	// Decode reads width*height samples following the header
	Decode(r *bufio.Reader, width, height int) (*Raster, error)
	// Name returns the codec identifier (e.g., "plain")
	Name() string
	// Magic returns the header tag (e.g., "P2")
	Magic() string
	// Variant returns the variant for this codec
	Variant() Variant
}

// plainCodec implements Codec for P2
type plainCodec struct{}

func (c *plainCodec) Encode(w io.Writer, img *Raster) error {
	// longest row: "255 " per sample
	line := make([]byte, 0, img.Width*4)
	for y := 0; y < img.Height; y++ {
		line = line[:0]
		for x, v := range img.Row(y) {
			if x > 0 {
				line = append(line, ' ')
			}
			line = strconv.AppendUint(line, uint64(v), 10)
		}
		line = append(line, '\n')
		if _, err := w.Write(line); err != nil {
			return fmt.Errorf("pgm: write row %d: %w: %w", y, ErrIO, err)
		}
	}
	return nil
}

func (c *plainCodec) Decode(r *bufio.Reader, width, height int) (*Raster, error) {
	img := NewRaster(width, height)
	for i := range img.Pix {
		tok, _, err := nextToken(r, nil)
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("pgm: got %d of %d samples: %w", i, len(img.Pix), ErrFormat)
		}
		if err != nil {
			return nil, err
		}
		v, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("pgm: sample %d %q is not an integer: %w", i, tok, ErrFormat)
		}
		img.Pix[i] = uint8(v)
	}
	return img, nil
}

func (c *plainCodec) Name() string {
	return "plain"
}

func (c *plainCodec) Magic() string {
	return "P2"
}

func (c *plainCodec) Variant() Variant {
	return Plain
}

// rawCodec implements Codec for P5 with one byte per sample
type rawCodec struct{}

func (c *rawCodec) Encode(w io.Writer, img *Raster) error {
	if _, err := w.Write(img.Pix); err != nil {
		return fmt.Errorf("pgm: write samples: %w: %w", ErrIO, err)
	}
	return nil
}

func (c *rawCodec) Decode(r *bufio.Reader, width, height int) (*Raster, error) {
	img := NewRaster(width, height)
	n, err := io.ReadFull(r, img.Pix)
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return nil, fmt.Errorf("pgm: got %d of %d sample bytes: %w", n, len(img.Pix), ErrFormat)
	case err != nil:
		return nil, fmt.Errorf("pgm: read samples: %w: %w", ErrIO, err)
	}
	return img, nil
}

func (c *rawCodec) Name() string {
	return "raw"
}

func (c *rawCodec) Magic() string {
	return "P5"
}

func (c *rawCodec) Variant() Variant {
	return Raw
}

// codecsByName maps codec names to implementations
var codecsByName = map[string]Codec{
	"plain":  &plainCodec{},
	"raw":    &rawCodec{},
	"text":   &plainCodec{}, // alias
	"binary": &rawCodec{},   // alias
	"p2":     &plainCodec{}, // alias
	"p5":     &rawCodec{},   // alias
}

// codecsByMagic maps header tags to implementations
var codecsByMagic = map[string]Codec{
	"P2": &plainCodec{},
	"P5": &rawCodec{},
}

// CodecByName returns a codec by name, or nil if not found
func CodecByName(name string) Codec {
	return codecsByName[name]
}

// CodecByMagic returns a codec for a header tag, or nil if not found
func CodecByMagic(magic string) Codec {
	return codecsByMagic[magic]
}
