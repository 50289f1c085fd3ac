package storage

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/DGeorgeA/go-friday-tmjuza/internal/catalog"
	"github.com/DGeorgeA/go-friday-tmjuza/internal/models"
	"gopkg.in/yaml.v3"
)

var ErrUnsupportedFormat = errors.New("unsupported export format (want .toml, .yaml or .yml)")

type format int

const (
	formatTOML format = iota
	formatYAML
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return formatTOML, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// ExportLedger writes the ledger to outputPath, as TOML or YAML depending on the
// file extension.
func ExportLedger(ledger models.ProgressLedger, outputPath string) error {
	f, err := formatOf(outputPath)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	switch f {
	case formatTOML:
		err = toml.NewEncoder(&buf).Encode(ledger)
	case formatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		err = enc.Encode(ledger)
		if err == nil {
			err = enc.Close()
		}
	}
	if err != nil {
		return fmt.Errorf("encoding ledger: %w", err)
	}

	outputPath, err = filepath.Abs(outputPath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing export file: %w", err)
	}
	return nil
}

// GetExportPath returns the default dump location inside dir.
func GetExportPath(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "progress_dump.toml"), nil
}

// ImportLedger reads a dump written by ExportLedger. Derived fields (categories,
// level) are rebuilt from the records and blossoms rather than trusted.
func ImportLedger(filePath string) (models.ProgressLedger, error) {
	f, err := formatOf(filePath)
	if err != nil {
		return models.ProgressLedger{}, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return models.ProgressLedger{}, fmt.Errorf("Reading file %s: %w", filePath, err)
	}

	ledger := models.NewLedger()
	switch f {
	case formatTOML:
		_, err = toml.Decode(string(data), &ledger)
	case formatYAML:
		err = yaml.Unmarshal(data, &ledger)
	}
	if err != nil {
		return models.ProgressLedger{}, fmt.Errorf("Decoding %s: %w", filePath, err)
	}

	if ledger.CompletedExercises == nil {
		ledger.CompletedExercises = []models.ExerciseRecord{}
	}
	if ledger.BadgesUnlocked == nil {
		ledger.BadgesUnlocked = []string{}
	}
	if ledger.HubSequencesCompleted == nil {
		ledger.HubSequencesCompleted = []string{}
	}
	if ledger.StreakMultiplier == 0 {
		ledger.StreakMultiplier = 1.0
	}
	for _, rec := range ledger.CompletedExercises {
		if rec.Rating < 1 || rec.Rating > 5 {
			return models.ProgressLedger{}, fmt.Errorf("record %s: rating %d out of range", rec.ID, rec.Rating)
		}
	}

	sort.SliceStable(ledger.CompletedExercises, func(i, j int) bool {
		return ledger.CompletedExercises[i].CompletedAt.Before(ledger.CompletedExercises[j].CompletedAt)
	})
	ledger.ExerciseCategories = map[string]int{}
	for _, rec := range ledger.CompletedExercises {
		ledger.ExerciseCategories[rec.HubName]++
	}
	ledger.CurrentLevel = catalog.LevelFor(ledger.TotalBlossoms)

	return ledger, nil
}
