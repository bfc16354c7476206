package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/synergo-api/internal/dto"
)

// seedFile is the YAML layout accepted by the seed command.
type seedFile struct {
	Nomenclatures []struct {
		Label          string `yaml:"label"`
		Description    string `yaml:"description"`
		Interpretation string `yaml:"interpretation"`
	} `yaml:"nomenclatures"`
}

var seedCmd = &cobra.Command{
	Use:   "seed <file.yaml>",
	Short: "Load vocabulary entries from a YAML file",
	Long: `Creates the nomenclatures listed in the file. Labels already present,
ignoring case, are left untouched.

Example file:

  nomenclatures:
    - label: jab
      description: Straight punch with the lead hand
      interpretation: Measures distance`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open seed file: %w", err)
		}
		defer f.Close()
		reqs, err := parseSeedFile(f)
		if err != nil {
			return err
		}

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

		result, err := a.nomenclatures.Sync(cmd.Context(), reqs)
		if err != nil {
			return err
		}
		logr.Info("seed applied", zap.Int("added", result.Added), zap.Int("total", result.Total))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func parseSeedFile(r io.Reader) ([]dto.NomenclatureRequest, error) {
	var file seedFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if err == io.EOF {
			return []dto.NomenclatureRequest{}, nil
		}
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	reqs := make([]dto.NomenclatureRequest, 0, len(file.Nomenclatures))
	for i, n := range file.Nomenclatures {
		if n.Label == "" {
			return nil, fmt.Errorf("nomenclature #%d has no label", i)
		}
		reqs = append(reqs, dto.NomenclatureRequest{Label: n.Label, Description: n.Description, Interpretation: n.Interpretation})
	}
	return reqs, nil
}
