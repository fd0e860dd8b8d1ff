package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jpfielding/pgmsteg.go/pkg/logging"
	"github.com/spf13/cobra"
)

func NewRoot(ctx context.Context, gitsha string) *cobra.Command {
	var logFile io.Closer
	var stdoutLog *slog.Logger
	// closeLog points the default logger back at stdout and releases --log-file
	closeLog := func() error {
		if logFile == nil {
			return nil
		}
		slog.SetDefault(stdoutLog)
		err := logFile.Close()
		logFile = nil
		return err
	}
	cmd := &cobra.Command{
		Use:          "pgmsteg",
		Short:        "hide one grayscale PGM image inside another",
		Long:         "pgmsteg embeds the high nibble of a secret graymap into the low nibble of a cover graymap, and recovers it again.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logLevel, _ := cmd.Flags().GetString("log-level")
			logJSON, _ := cmd.Flags().GetBool("log-json")
			logPath, _ := cmd.Flags().GetString("log-file")

			// Parse log level
			var level slog.Level
			levelErr := level.UnmarshalText([]byte(strings.ToUpper(logLevel)))
			if levelErr != nil {
				level = slog.LevelInfo
			}

			var out io.Writer = os.Stdout
			if logPath != "" {
				rf := logging.RotatingFile(logPath)
				logFile = rf
				stdoutLog = logging.Logger(os.Stdout, logJSON, level)
				out = io.MultiWriter(os.Stdout, rf)
			}
			slog.SetDefault(logging.Logger(out, logJSON, level))

			if levelErr != nil {
				slog.WarnContext(ctx, "Invalid log level, defaulting to INFO", "level", logLevel, "error", levelErr)
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return closeLog()
		},
		Run: func(cmd *cobra.Command, args []string) {
			printCommandTree(cmd.OutOrStdout(), cmd, 0)
		},
	}
	cmd.AddCommand(
		NewVersionCmd(ctx, gitsha),
		NewEmbedCmd(ctx),
		NewExtractCmd(ctx),
		NewRunCmd(ctx),
		NewInfoCmd(ctx),
		NewConvertCmd(ctx),
		NewConfigCmd(ctx),
	)
	// cobra skips PersistentPostRunE when RunE fails
	closeLogOnError(cmd, closeLog)
	pf := cmd.PersistentFlags()
	pf.String("log-level", "INFO", "Log level (DEBUG, INFO, WARN, ERROR)")
	pf.String("log-file", "", "Also write logs to this rotating file")
	pf.Bool("log-json", false, "Log as JSON")
	pf.StringP("config", "c", "pgmsteg.yaml", "Pipeline configuration file (YAML)")
	return cmd
}

func closeLogOnError(cmd *cobra.Command, closeLog func() error) {
	if run := cmd.RunE; run != nil {
		cmd.RunE = func(c *cobra.Command, args []string) error {
			err := run(c, args)
			if err != nil {
				closeLog()
			}
			return err
		}
	}
	for _, sub := range cmd.Commands() {
		closeLogOnError(sub, closeLog)
	}
}

func printCommandTree(w io.Writer, cmd *cobra.Command, indent int) {
	fmt.Fprintln(w, strings.Repeat("\t", indent), cmd.Use+":", cmd.Short)
	for _, subCmd := range cmd.Commands() {
		printCommandTree(w, subCmd, indent+1)
	}
}

func NewVersionCmd(ctx context.Context, gitsha string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "git sha for this build",
		Long:  "git sha for this build",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), gitsha)
		},
	}
	return cmd
}

// NewConfigCmd prints the effective pipeline configuration, or writes it with --write
func NewConfigCmd(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "show the effective pipeline configuration",
		Long:  "Loads the configuration file over the defaults, applies flags, and prints the result as YAML.",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolvePipeline(cmd, nil)
			if err != nil {
				return err
			}
			if path, _ := cmd.Flags().GetString("write"); path != "" {
				if err := p.Save(path); err != nil {
					return err
				}
				slog.InfoContext(ctx, "configuration written", "path", path)
				return nil
			}
			return p.Encode(cmd.OutOrStdout())
		},
	}
	cmd.Flags().String("write", "", "write the configuration to this path instead of printing it")
	return cmd
}
