package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jpfielding/pgmsteg.go/pkg/config"
	"github.com/jpfielding/pgmsteg.go/pkg/pgm"
	"github.com/jpfielding/pgmsteg.go/pkg/stego"
	"github.com/jpfielding/pgmsteg.go/pkg/util"
	"github.com/spf13/cobra"
)

// resolvePipeline loads --config and applies any flags the user set.
// aliases maps a command's own flag names (e.g. "out") onto pipeline keys.
func resolvePipeline(cmd *cobra.Command, aliases map[string]string) (*config.Pipeline, error) {
	path, _ := cmd.Flags().GetString("config")
	p, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	strs := map[string]*string{
		"cover":     &p.Cover,
		"secret":    &p.Secret,
		"stego":     &p.Stego,
		"recovered": &p.Recovered,
		"comment":   &p.Comment,
	}
	ints := map[string]*int{
		"width":  &p.Width,
		"height": &p.Height,
	}
	names := map[string]string{}
	for k := range strs {
		names[k] = k
	}
	for k := range ints {
		names[k] = k
	}
	for flagName, key := range aliases {
		names[flagName] = key
	}

	for flagName, key := range names {
		f := cmd.Flags().Lookup(flagName)
		if f == nil || !f.Changed {
			continue
		}
		if dst, ok := strs[key]; ok {
			*dst = f.Value.String()
		}
		if dst, ok := ints[key]; ok {
			*dst, _ = cmd.Flags().GetInt(flagName)
		}
	}
	return p, p.Validate()
}

// embedStage loads cover and secret, embeds, and writes the stego image
func embedStage(ctx context.Context, p *config.Pipeline, v pgm.Variant) (cover, secret, hidden *pgm.Raster, err error) {
	if cover, err = pgm.ReadFile(p.Cover, p.Width, p.Height); err != nil {
		return nil, nil, nil, reportErr(ctx, "load cover", err)
	}
	slog.DebugContext(ctx, "loaded cover", "path", p.Cover, "fingerprint", util.Fingerprint(cover.Pix))

	if secret, err = pgm.ReadFile(p.Secret, p.Width, p.Height); err != nil {
		return nil, nil, nil, reportErr(ctx, "load secret", err)
	}
	slog.DebugContext(ctx, "loaded secret", "path", p.Secret, "fingerprint", util.Fingerprint(secret.Pix))

	if hidden, err = stego.Embed(cover, secret); err != nil {
		return nil, nil, nil, reportErr(ctx, "embed", err)
	}

	n, err := pgm.WriteFile(p.Stego, hidden, v, pgm.WithComment(p.Comment))
	if err != nil {
		return nil, nil, nil, reportErr(ctx, "save stego", err)
	}
	psnr, _ := stego.PSNR(cover, hidden)
	slog.InfoContext(ctx, "embedded secret",
		"path", p.Stego,
		"variant", v,
		"bytes", n,
		"psnr_db", psnr,
		"fingerprint", util.Fingerprint(hidden.Pix),
	)
	return cover, secret, hidden, nil
}

// extractStage reads the stego image (either variant), extracts, and writes the recovered image
func extractStage(ctx context.Context, p *config.Pipeline, v pgm.Variant) (*pgm.Raster, error) {
	hidden, err := pgm.DecodeFile(p.Stego)
	if err != nil {
		return nil, reportErr(ctx, "load stego", err)
	}
	if hidden.Width != p.Width || hidden.Height != p.Height {
		err := fmt.Errorf("stego is %dx%d, expected %dx%d: %w",
			hidden.Width, hidden.Height, p.Width, p.Height, pgm.ErrDimensionMismatch)
		return nil, reportErr(ctx, "load stego", err)
	}

	recovered := stego.Extract(hidden)
	n, err := pgm.WriteFile(p.Recovered, recovered, v, pgm.WithComment(p.Comment))
	if err != nil {
		return nil, reportErr(ctx, "save recovered", err)
	}
	slog.InfoContext(ctx, "extracted secret",
		"path", p.Recovered,
		"variant", v,
		"bytes", n,
		"fingerprint", util.Fingerprint(recovered.Pix),
	)
	return recovered, nil
}

// reportErr logs the failed stage with its error kind and returns the wrapped error
func reportErr(ctx context.Context, stage string, err error) error {
	slog.ErrorContext(ctx, "stage failed", "stage", stage, "kind", errorKind(err), "error", err)
	return fmt.Errorf("%s: %w", stage, err)
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, pgm.ErrIO):
		return "io"
	case errors.Is(err, pgm.ErrDimensionMismatch):
		return "dimension-mismatch"
	case errors.Is(err, pgm.ErrFormat):
		return "format"
	default:
		return "unknown"
	}
}
