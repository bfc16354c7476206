package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a JSON snapshot of the store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logr, err := loadConfig()
		if err != nil {
			return err
		}
		defer logr.Sync() //nolint:errcheck

		a, err := newApp(cfg, logr)
		if err != nil {
			return err
		}
		defer a.close()

		snapshot, err := a.database.Export(cmd.Context())
		if err != nil {
			return err
		}

		var out io.Writer = os.Stdout
		if exportOutput != "" && exportOutput != "-" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("create output file: %w", err)
			}
			defer f.Close()
			out = f
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snapshot); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
		logr.Info("snapshot exported", zap.Int("media", len(snapshot.Media)), zap.Int("nomenclatures", len(snapshot.Nomenclatures)))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file, stdout when empty")
	rootCmd.AddCommand(exportCmd)
}
