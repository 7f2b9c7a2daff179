package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ossyrian/gobparse/internal/builder"
	"github.com/ossyrian/gobparse/internal/config"
	"github.com/ossyrian/gobparse/internal/progress"
	"github.com/ossyrian/gobparse/internal/tree"
)

func newPackCmd(v *viper.Viper, cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "pack",
		Short:   "Build a GOB archive from a directory tree",
		Example: `  gobparse pack -i ./res2 -o RES2.GOB --backslash-paths`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return pack(cmd, cfg)
		},
	}

	cmd.Flags().Bool("backslash-paths", false, `write '\' path separators, as the original engines do`)
	v.BindPFlag("backslash_paths", cmd.Flags().Lookup("backslash-paths"))

	return cmd
}

// pack imports cfg.InputFile and writes it as an archive to cfg.OutputFile
func pack(cmd *cobra.Command, cfg *config.Config) error {
	if cfg.OutputFile == "" && !cfg.DryRun {
		return fmt.Errorf("--output is required unless --dry-run is set")
	}

	fsys := afero.NewOsFs()
	logger := slog.With("input", cfg.InputFile)

	bar := progress.New(0, "reading", cfg.Progress)
	archive, err := tree.Import(cmd.Context(), fsys, cfg.InputFile,
		tree.WithWorkers(cfg.Workers),
		tree.WithLogger(logger),
		tree.WithProgress(bar.Set),
	)
	bar.Finish()
	if err != nil {
		return fmt.Errorf("failed to import %s: %w", cfg.InputFile, err)
	}

	opts := []builder.Option{builder.WithLogger(logger)}
	if cfg.BackslashPaths {
		opts = append(opts, builder.WithBackslashPaths())
	}

	if cfg.DryRun {
		data, err := builder.Build(archive, opts...)
		if err != nil {
			return err
		}
		logger.Info("dry run, not writing archive",
			"file_count", archive.Len(),
			"bytes", len(data),
		)
		return nil
	}

	return builder.WriteFile(fsys, cfg.OutputFile, archive, opts...)
}
