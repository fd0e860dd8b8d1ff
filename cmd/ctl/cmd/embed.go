package cmd

import (
	"context"
	"fmt"

	"github.com/jpfielding/pgmsteg.go/pkg/pgm"
	"github.com/spf13/cobra"
)

// NewEmbedCmd hides a secret graymap inside a cover graymap
func NewEmbedCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "embed",
		Short: "embed a secret PGM into a cover PGM",
		Long:  "Loads two plain (P2) graymaps of the configured size and writes a stego graymap whose low nibble carries the secret's high nibble.",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolvePipeline(cmd, map[string]string{"out": "stego"})
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString("format")
			v, err := pgm.ParseVariant(format)
			if err != nil {
				return err
			}
			if _, _, _, err := embedStage(ctx, p, v); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "stego image written to %s\n", p.Stego)
			return nil
		},
	}

	pf := cmd.Flags()
	pf.String("cover", "", "cover graymap (P2)")
	pf.String("secret", "", "secret graymap (P2)")
	pf.StringP("out", "o", "", "stego output path")
	pf.Int("width", 0, "expected image width")
	pf.Int("height", 0, "expected image height")
	pf.String("comment", "", "header comment for the output")
	pf.StringP("format", "f", "raw", "output format (raw|plain)")
	return cmd
}

// NewExtractCmd recovers the hidden graymap from a stego graymap
func NewExtractCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "extract the secret PGM from a stego PGM",
		Long:  "Reads a stego graymap (P2 or P5) and writes the recovered secret. Only the secret's high nibble survives embedding.",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolvePipeline(cmd, map[string]string{"in": "stego", "out": "recovered"})
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString("format")
			v, err := pgm.ParseVariant(format)
			if err != nil {
				return err
			}
			if _, err := extractStage(ctx, p, v); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "recovered image written to %s\n", p.Recovered)
			return nil
		},
	}

	pf := cmd.Flags()
	pf.StringP("in", "i", "", "stego graymap (P2 or P5)")
	pf.StringP("out", "o", "", "recovered output path")
	pf.Int("width", 0, "expected image width")
	pf.Int("height", 0, "expected image height")
	pf.String("comment", "", "header comment for the output")
	pf.StringP("format", "f", "plain", "output format (plain|raw)")
	return cmd
}
