package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ossyrian/gobparse/internal/config"
	"github.com/ossyrian/gobparse/internal/gob"
	"github.com/ossyrian/gobparse/internal/parser"
)

type listEntry struct {
	Path   string        `json:"path"`
	Offset uint32        `json:"offset"`
	Size   uint32        `json:"size"`
	Kind   gob.AssetKind `json:"kind"`
}

func newListCmd(v *viper.Viper, cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Short:   "Print the file table of a GOB archive",
		Example: `  gobparse list -i RES2.GOB --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return list(cmd, cfg)
		},
	}

	cmd.Flags().Bool("json", false, "print entries as JSON")
	v.BindPFlag("json", cmd.Flags().Lookup("json"))

	return cmd
}

// list prints the file table in the order it is stored, after checking that
// every entry's data is in bounds
func list(cmd *cobra.Command, cfg *config.Config) error {
	data, err := afero.ReadFile(afero.NewOsFs(), cfg.InputFile)
	if err != nil {
		return &gob.ImportError{Op: "read", Path: cfg.InputFile, Err: err}
	}

	reader := parser.NewGobReader(data, slog.With("input", cfg.InputFile))
	if _, err := reader.ReadHeader(); err != nil {
		return err
	}
	table, err := reader.ReadFileTable()
	if err != nil {
		return err
	}
	if _, err := reader.ReadFiles(table); err != nil {
		return err
	}

	entries := make([]listEntry, 0, len(table))
	for _, e := range table {
		entries = append(entries, listEntry{
			Path:   e.Path,
			Offset: e.Offset,
			Size:   e.Size,
			Kind:   gob.KindOf(e.Path),
		})
	}

	out := cmd.OutOrStdout()

	if cfg.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "OFFSET\tSIZE\tKIND\t  PATH")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%d\t%s\t  %s\n", e.Offset, e.Size, e.Kind, e.Path)
	}
	return w.Flush()
}
