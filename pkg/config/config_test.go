package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jpfielding/pgmsteg.go/pkg/pgm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cover: lena.pgm\nwidth: 256\nheight: 128\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "lena.pgm", cfg.Cover)
	assert.Equal(t, 256, cfg.Width)
	assert.Equal(t, 128, cfg.Height)
	// untouched keys keep their defaults
	assert.Equal(t, "farm.pgm", cfg.Secret)
	assert.Equal(t, "stego_image_bin.pgm", cfg.Stego)
}

func TestLoad_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"UnknownKey", "covr: typo.pgm\n"},
		{"BadType", "width: wide\n"},
		{"Malformed", "cover: [unterminated\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "failed to parse configuration file")
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := Default()
	cfg.Recovered = "secret_out.pgm"
	cfg.Comment = "round trip"
	require.NoError(t, cfg.Save(path))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Pipeline)
		errMsg string
	}{
		{"NoCover", func(p *Pipeline) { p.Cover = "" }, "cover path is required"},
		{"NoRecovered", func(p *Pipeline) { p.Recovered = "" }, "recovered path is required"},
		{"ZeroWidth", func(p *Pipeline) { p.Width = 0 }, "invalid dimensions"},
		{"NegativeHeight", func(p *Pipeline) { p.Height = -4 }, "invalid dimensions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestEncode(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, Default().Encode(&sb))
	assert.Contains(t, sb.String(), "cover: baboon.pgm\n")
	assert.Contains(t, sb.String(), "width: 512\n")
}

func TestDefault_CommentMatchesWriter(t *testing.T) {
	assert.Equal(t, pgm.DefaultComment, Default().Comment)
}

func TestFingerprint(t *testing.T) {
	a := Default()
	assert.Equal(t, a.Fingerprint(), Default().Fingerprint())
	_, err := uuid.Parse(a.Fingerprint())
	require.NoError(t, err)

	b := Default()
	b.Width = 256
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())

	c := Default()
	c.Comment = ""
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}
