package pgm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Reader reads PGM files
type Reader struct {
	br *bufio.Reader
}

// NewReader creates a new PGM reader
func NewReader(r io.Reader) *Reader {
	if br, ok := r.(*bufio.Reader); ok {
		return &Reader{br: br}
	}
	return &Reader{br: bufio.NewReader(r)}
}

// ReadFile opens path and loads it with Load
func ReadFile(path string, width, height int) (*Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pgm: open %s: %w: %w", path, ErrIO, err)
	}
	defer f.Close()
	return Load(f, width, height)
}

// DecodeFile opens path and reads it with Decode
func DecodeFile(path string) (*Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pgm: open %s: %w: %w", path, ErrIO, err)
	}
	defer f.Close()
	return Decode(f)
}

// Load reads a plain (P2) graymap whose dimensions must equal width x height.
// Passing a non-positive width or height skips the dimension check.
// Samples are truncated to 8 bits.
func Load(r io.Reader, width, height int) (*Raster, error) {
	rd := NewReader(r)
	h, err := rd.ReadHeader()
	if err != nil {
		return nil, err
	}
	if h.Variant != Plain {
		return nil, fmt.Errorf("pgm: expected %s, got %s: %w", Plain.Magic(), h.Variant.Magic(), ErrFormat)
	}
	if width > 0 && height > 0 && (h.Width != width || h.Height != height) {
		return nil, fmt.Errorf("pgm: declared %dx%d, expected %dx%d: %w",
			h.Width, h.Height, width, height, ErrDimensionMismatch)
	}
	return rd.ReadRaster(h)
}

// Decode reads a graymap of either variant without a dimension check
func Decode(r io.Reader) (*Raster, error) {
	rd := NewReader(r)
	h, err := rd.ReadHeader()
	if err != nil {
		return nil, err
	}
	return rd.ReadRaster(h)
}

// ReadHeader parses only the header of a graymap
func ReadHeader(r io.Reader) (*Header, error) {
	return NewReader(r).ReadHeader()
}

// ReadHeader reads the magic tag, comments, dimensions and max value,
// leaving the reader positioned at the first sample.
// Comments are accepted anywhere before the max value.
func (r *Reader) ReadHeader() (*Header, error) {
	magic := make([]byte, 2)
	if _, err := io.ReadFull(r.br, magic); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("pgm: missing magic: %w", ErrFormat)
		}
		return nil, fmt.Errorf("pgm: read magic: %w: %w", ErrIO, err)
	}
	codec := CodecByMagic(string(magic))
	if codec == nil {
		return nil, fmt.Errorf("pgm: unsupported magic %q: %w", magic, ErrFormat)
	}
	// the tag must stand alone, "P23" is not "P2"
	b, err := r.br.ReadByte()
	switch {
	case err == nil:
		if !isSpace(b) && b != '#' {
			return nil, fmt.Errorf("pgm: malformed magic %q: %w", string(magic)+string(b), ErrFormat)
		}
		r.br.UnreadByte()
	case !errors.Is(err, io.EOF):
		return nil, fmt.Errorf("pgm: read magic: %w: %w", ErrIO, err)
	}

	h := &Header{Variant: codec.Variant()}
	if h.Width, _, err = r.headerInt("width", &h.Comments); err != nil {
		return nil, err
	}
	if h.Height, _, err = r.headerInt("height", &h.Comments); err != nil {
		return nil, err
	}
	var delim byte
	if h.MaxVal, delim, err = r.headerInt("max value", &h.Comments); err != nil {
		return nil, err
	}

	if h.Width <= 0 || h.Height <= 0 {
		return nil, fmt.Errorf("pgm: invalid dimensions %dx%d: %w", h.Width, h.Height, ErrFormat)
	}
	if !fits(h.Width, h.Height) {
		return nil, fmt.Errorf("pgm: %dx%d exceeds %d samples: %w", h.Width, h.Height, MaxSamples, ErrFormat)
	}
	if h.MaxVal <= 0 || h.MaxVal > 65535 {
		return nil, fmt.Errorf("pgm: invalid max value %d: %w", h.MaxVal, ErrFormat)
	}
	// raw samples start right after a single whitespace byte
	if h.Variant == Raw && !isSpace(delim) {
		return nil, fmt.Errorf("pgm: no whitespace before raw samples: %w", ErrFormat)
	}
	return h, nil
}

// ReadRaster reads the samples described by h
func (r *Reader) ReadRaster(h *Header) (*Raster, error) {
	codec := h.Variant.Codec()
	if codec == nil {
		return nil, fmt.Errorf("pgm: unknown variant %v: %w", h.Variant, ErrFormat)
	}
	if h.MaxVal > MaxVal {
		if h.Variant == Raw {
			return nil, fmt.Errorf("pgm: 16-bit raw samples (max value %d) not supported: %w", h.MaxVal, ErrFormat)
		}
		slog.Warn("pgm: max value exceeds 8 bits, truncating samples", "maxval", h.MaxVal)
	}
	return codec.Decode(r.br, h.Width, h.Height)
}

// headerInt reads one header integer, collecting any comments in front of it
func (r *Reader) headerInt(name string, comments *[]string) (int, byte, error) {
	tok, delim, err := nextToken(r.br, comments)
	if errors.Is(err, io.EOF) {
		return 0, 0, fmt.Errorf("pgm: missing %s: %w", name, ErrFormat)
	}
	if err != nil {
		return 0, 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, 0, fmt.Errorf("pgm: %s %q is not an integer: %w", name, tok, ErrFormat)
	}
	return v, delim, nil
}

// nextToken skips whitespace and returns the next whitespace delimited token
// along with the byte that ended it (0 at end of stream). Comments are only
// recognized when comments is non-nil; their text is appended to it.
// A clean end of stream before any token returns io.EOF unwrapped.
func nextToken(br *bufio.Reader, comments *[]string) (string, byte, error) {
	for {
		b, err := br.ReadByte()
		if errors.Is(err, io.EOF) {
			return "", 0, io.EOF
		}
		if err != nil {
			return "", 0, fmt.Errorf("pgm: read: %w: %w", ErrIO, err)
		}
		if isSpace(b) {
			continue
		}
		if b == '#' && comments != nil {
			line, err := br.ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return "", 0, fmt.Errorf("pgm: read comment: %w: %w", ErrIO, err)
			}
			*comments = append(*comments, strings.TrimSpace(line))
			continue
		}
		br.UnreadByte()
		break
	}

	var tok []byte
	for {
		b, err := br.ReadByte()
		if errors.Is(err, io.EOF) {
			return string(tok), 0, nil
		}
		if err != nil {
			return "", 0, fmt.Errorf("pgm: read: %w: %w", ErrIO, err)
		}
		if isSpace(b) {
			return string(tok), b, nil
		}
		if b == '#' && comments != nil {
			br.UnreadByte()
			return string(tok), b, nil
		}
		tok = append(tok, b)
	}
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
