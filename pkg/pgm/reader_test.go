package pgm

import (
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Plain(t *testing.T) {
	in := "P2\n# Created using LSB Steganography\n3 2\n255\n1 2 3\n4 5 6\n"
	img, err := Load(strings.NewReader(in), 3, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Width)
	assert.Equal(t, 2, img.Height)
	assert.Equal(t, []uint8{1, 2, 3, 4, 5, 6}, img.Pix)
}

func TestLoad_SkipDimensionCheck(t *testing.T) {
	img, err := Load(strings.NewReader("P2\n2 1\n255\n7 8\n"), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint8{7, 8}, img.Pix)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		w, h   int
		target error
	}{
		{"Empty", "", 2, 2, ErrFormat},
		{"ColorTag", "P3\n2 2\n255\n0 0 0 0\n", 2, 2, ErrFormat},
		{"RawTag", "P5\n2 2\n255\n\x00\x00\x00\x00", 2, 2, ErrFormat},
		{"LongTag", "P23\n2 2\n255\n0 0 0 0\n", 2, 2, ErrFormat},
		{"ShortTag", "P", 2, 2, ErrFormat},
		{"DimensionMismatch", "P2\n256 256\n255\n", 512, 512, ErrDimensionMismatch},
		{"WidthOnlyMismatch", "P2\n3 2\n255\n0 0 0 0 0 0\n", 2, 2, ErrDimensionMismatch},
		{"MissingHeight", "P2\n2", 2, 2, ErrFormat},
		{"MissingMaxVal", "P2\n2 2\n", 2, 2, ErrFormat},
		{"NonIntegerWidth", "P2\nab 2\n255\n", 2, 2, ErrFormat},
		{"ZeroWidth", "P2\n0 2\n255\n", 2, 2, ErrFormat},
		{"ZeroMaxVal", "P2\n2 2\n0\n0 0 0 0\n", 2, 2, ErrFormat},
		{"TooFewSamples", "P2\n2 2\n255\n1 2 3\n", 2, 2, ErrFormat},
		{"NonIntegerSample", "P2\n2 2\n255\n1 2 x 4\n", 2, 2, ErrFormat},
		{"CommentInSamples", "P2\n2 2\n255\n1 2\n# late\n3 4\n", 2, 2, ErrFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Load(strings.NewReader(tt.input), tt.w, tt.h)
			require.Error(t, err)
			assert.Nil(t, img)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestLoad_CommentsAnywhereInHeader(t *testing.T) {
	in := "P2 #a\n3 #b\n 1\n#c\n255\n1 2 3\n"

	h, err := ReadHeader(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, h.Comments)
	assert.Equal(t, Plain, h.Variant)
	assert.Equal(t, 3, h.Width)
	assert.Equal(t, 1, h.Height)
	assert.Equal(t, 255, h.MaxVal)

	img, err := Load(strings.NewReader(in), 3, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint8{1, 2, 3}, img.Pix)
}

func TestLoad_TruncatesTo8Bits(t *testing.T) {
	img, err := Load(strings.NewReader("P2\n4 1\n65535\n256 257 -1 511\n"), 4, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint8{0, 1, 255, 255}, img.Pix)
}

func TestLoad_IgnoresTrailingData(t *testing.T) {
	img, err := Load(strings.NewReader("P2\n2 1\n255\n9 10\n11 12 garbage"), 2, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint8{9, 10}, img.Pix)
}

func TestLoad_ReadFailure(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name string
		r    io.Reader
	}{
		{"BeforeMagic", iotest.ErrReader(boom)},
		{"InHeader", io.MultiReader(strings.NewReader("P2\n2"), iotest.ErrReader(boom))},
		{"InSamples", io.MultiReader(strings.NewReader("P2\n2 2\n255\n1 "), iotest.ErrReader(boom))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.r, 2, 2)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrIO)
			assert.ErrorIs(t, err, boom)
			assert.NotErrorIs(t, err, ErrFormat)
		})
	}
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.pgm"), 512, 512)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIO)
}

func TestDecode_Raw(t *testing.T) {
	// samples that look like whitespace or comments must survive
	pix := []uint8{'\n', ' ', '#', '\t'}
	in := "P5\n# x\n2 2\n255\n" + string(pix)

	img, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 2, img.Width)
	assert.Equal(t, 2, img.Height)
	assert.Equal(t, pix, img.Pix)
}

func TestDecode_Plain(t *testing.T) {
	img, err := Decode(strings.NewReader("P2\n1 2\n255\n40\n41\n"))
	require.NoError(t, err)
	assert.Equal(t, []uint8{40, 41}, img.Pix)
}

func TestDecode_RawErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		target error
	}{
		{"ShortData", "P5\n2 2\n255\n\x01\x02\x03", ErrFormat},
		{"NoData", "P5\n2 2\n255", ErrFormat},
		{"SixteenBit", "P5\n1 1\n65535\n\x00\x00", ErrFormat},
		{"ProductWrapsToZero", "P5\n4294967296 4294967296\n255\n", ErrFormat},
		{"ProductTooLarge", "P5\n3037000499 3037000499\n255\n", ErrFormat},
		{"JustOverCap", "P5\n1073741825 1\n255\n", ErrFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestReadHeader_LeavesReaderAtSamples(t *testing.T) {
	rd := NewReader(strings.NewReader("P5 3 1 255 abc"))
	h, err := rd.ReadHeader()
	require.NoError(t, err)
	assert.Equal(t, Raw, h.Variant)
	assert.Equal(t, "P5 3x1 maxval=255 comments=0", h.String())

	img, err := rd.ReadRaster(h)
	require.NoError(t, err)
	assert.Equal(t, []uint8("abc"), img.Pix)
}

func TestLoad_OversizedHeaderWithoutExpectedSize(t *testing.T) {
	for _, in := range []string{
		"P2\n4294967296 4294967296\n255\n",
		"P2\n3037000499 3037000499\n255\n1\n",
	} {
		img, err := Load(strings.NewReader(in), 0, 0)
		require.Error(t, err)
		assert.Nil(t, img)
		assert.ErrorIs(t, err, ErrFormat)
	}
}
