package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ossyrian/gobparse/internal/config"
	"github.com/ossyrian/gobparse/internal/parser"
	"github.com/ossyrian/gobparse/internal/progress"
	"github.com/ossyrian/gobparse/internal/tree"
)

func newUnpackCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "unpack",
		Short:   "Extract every file of a GOB archive into a directory",
		Example: `  gobparse unpack -i RES2.GOB -o ./res2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return unpack(cmd, cfg)
		},
	}
}

// unpack parses cfg.InputFile and exports its files below cfg.OutputFile
func unpack(cmd *cobra.Command, cfg *config.Config) error {
	if cfg.OutputFile == "" && !cfg.DryRun {
		return fmt.Errorf("--output is required unless --dry-run is set")
	}

	fsys := afero.NewOsFs()
	logger := slog.With("input", cfg.InputFile)

	archive, err := parser.ParseFile(fsys, cfg.InputFile, logger)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", cfg.InputFile, err)
	}

	if cfg.DryRun {
		logger.Info("dry run, not extracting",
			"file_count", archive.Len(),
			"bytes", archive.Size(),
		)
		return nil
	}

	bar := progress.New(archive.Len(), "writing", cfg.Progress)
	err = tree.Export(cmd.Context(), fsys, archive, cfg.OutputFile,
		tree.WithWorkers(cfg.Workers),
		tree.WithLogger(logger),
		tree.WithProgress(bar.Set),
	)
	bar.Finish()
	if err != nil {
		return fmt.Errorf("failed to extract to %s: %w", cfg.OutputFile, err)
	}

	logger.Info("extracted archive",
		"output", cfg.OutputFile,
		"file_count", archive.Len(),
	)
	return nil
}
