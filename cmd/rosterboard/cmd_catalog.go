/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/friendsincode/rosterboard/internal/catalog"
	"github.com/friendsincode/rosterboard/internal/config"
	"github.com/friendsincode/rosterboard/internal/db"
	"github.com/friendsincode/rosterboard/internal/duration"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect, import and export the slot catalog",
}

var catalogCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Load a catalog and report suspect entries",
	Long: `Load the catalog and print every warning it produces: unknown days,
durations whose minute part exceeds 59, restrictions naming unknown slots or
people, and comma-joined restriction entries.

Without --file the configured catalog source is checked.`,
	RunE: runCatalogCheck,
}

var catalogImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Replace the catalog tables with a YAML catalog",
	Long: `Parse a YAML catalog and write it to the configured database, replacing
whatever catalog was stored before. Use --file - to read from stdin.

Examples:
  # Seed the database with the built-in catalog
  rosterboard catalog import --embedded

  # Import a custom catalog
  rosterboard catalog import --file roster.yaml
`,
	RunE: runCatalogImport,
}

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the configured catalog as YAML",
	RunE:  runCatalogExport,
}

var (
	catalogFile     string
	catalogEmbedded bool
	catalogOut      string
	catalogStrict   bool
	catalogSlots    bool
)

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogCheckCmd, catalogImportCmd, catalogExportCmd)

	catalogCheckCmd.Flags().StringVar(&catalogFile, "file", "", "Catalog YAML file to check (default: configured source)")
	catalogCheckCmd.Flags().BoolVar(&catalogStrict, "strict", false, "Exit non-zero when the catalog has warnings")
	catalogCheckCmd.Flags().BoolVar(&catalogSlots, "slots", false, "List every slot with its normalized duration")

	catalogImportCmd.Flags().StringVar(&catalogFile, "file", "", "Catalog YAML file to import")
	catalogImportCmd.Flags().BoolVar(&catalogEmbedded, "embedded", false, "Import the built-in catalog")
	catalogImportCmd.MarkFlagsMutuallyExclusive("file", "embedded")
	catalogImportCmd.MarkFlagsOneRequired("file", "embedded")

	catalogExportCmd.Flags().StringVarP(&catalogOut, "out", "o", "", "Output file (default: stdout)")
}

func runCatalogCheck(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	cat, err := readCatalog(cmd.Context(), catalogFile)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d slots, %d people, %d restricted people\n", len(cat.Slots()), len(cat.People()), len(cat.Rules()))
	if catalogSlots {
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tDAY\tLABEL\tRAW\tMINUTES\tDISPLAY")
		for _, slot := range cat.Slots() {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
				slot.ID, slot.Day, slot.Label, duration.FormatRaw(slot.Hours), slot.Minutes, duration.Format(slot.Minutes))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	for _, w := range cat.Warnings() {
		fmt.Fprintf(out, "warning: [%s] %s\n", w.Kind, w.Message)
	}
	if catalogStrict && len(cat.Warnings()) > 0 {
		return fmt.Errorf("catalog has %d warnings", len(cat.Warnings()))
	}
	return nil
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	if cfg.DBDSN == "" {
		return fmt.Errorf("ROSTER_DB_DSN must be set to import a catalog")
	}

	var cat *catalog.Catalog
	var err error
	switch {
	case catalogEmbedded:
		cat, err = catalog.Default()
	case catalogFile == "-":
		var data []byte
		data, err = io.ReadAll(cmd.InOrStdin())
		if err == nil {
			cat, err = catalog.Parse(data)
		}
	default:
		cat, err = catalog.Load(catalogFile)
	}
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	for _, w := range cat.Warnings() {
		logger.Warn().Str("kind", string(w.Kind)).Str("subject", w.Subject).Msg(w.Message)
	}

	database, err := db.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = db.Close(database) }()

	if err := db.Migrate(database); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := catalog.NewStore(database, logger).Replace(cmd.Context(), cat); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "imported %d slots and %d people into %s\n", len(cat.Slots()), len(cat.People()), cfg.DBBackend)
	return nil
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}

	cat, err := readCatalog(cmd.Context(), "")
	if err != nil {
		return err
	}
	data, err := catalog.Marshal(cat)
	if err != nil {
		return err
	}

	if catalogOut == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(catalogOut, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", catalogOut, err)
	}
	logger.Info().Str("path", catalogOut).Msg("catalog exported")
	return nil
}

// readCatalog loads path when given, otherwise the configured source.
func readCatalog(ctx context.Context, path string) (*catalog.Catalog, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if path != "" {
		return catalog.Load(path)
	}

	switch cfg.CatalogSource {
	case config.CatalogFile:
		return catalog.Load(cfg.CatalogPath)
	case config.CatalogDatabase:
		database, err := db.Connect(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		defer func() { _ = db.Close(database) }()
		return catalog.NewStore(database, logger).Load(ctx)
	default:
		return catalog.Default()
	}
}
