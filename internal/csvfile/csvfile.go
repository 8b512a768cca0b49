// internal/csvfile/csvfile.go

package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "customTools/internal/error"
)

const (
	SwitchesTemplate = "hostname\n10.10.1.1\n10.10.1.2\n"
	CommandsTemplate = "command\nshow version\nshow system\n"
)

// LoadColumn returns the non-blank values of one named column, in file order.
// A missing file, a missing column or a column without values is a
// ConfigError naming the file.
func LoadColumn(path, column string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.New(apperrors.ConfigError, fmt.Sprintf("error reading %s", path), err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, apperrors.New(apperrors.ConfigError, fmt.Sprintf("no items found in %s", path), nil)
		}
		return nil, apperrors.New(apperrors.ConfigError, fmt.Sprintf("CSV parsing error in %s", path), err)
	}

	idx := -1
	for i, name := range header {
		if strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, apperrors.New(apperrors.ConfigError,
			fmt.Sprintf("column '%s' not found in %s", column, path), nil)
	}

	var items []string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.New(apperrors.ConfigError, fmt.Sprintf("CSV parsing error in %s", path), err)
		}
		if idx >= len(record) {
			continue
		}
		if value := strings.TrimSpace(record[idx]); value != "" {
			items = append(items, value)
		}
	}

	if len(items) == 0 {
		return nil, apperrors.New(apperrors.ConfigError,
			fmt.Sprintf("no items found in column '%s' of %s", column, path), nil)
	}
	return items, nil
}

// EnsureTemplates writes each missing file with its template content and
// returns the base names of the files it created.
func EnsureTemplates(dir string, templates map[string]string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, apperrors.New(apperrors.FileError, fmt.Sprintf("failed to create %s", dir), err)
	}

	var created []string
	for _, name := range sortedKeys(templates) {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !errors.Is(err, os.ErrNotExist) {
			return created, apperrors.New(apperrors.FileError, fmt.Sprintf("cannot stat %s", path), err)
		}
		if err := os.WriteFile(path, []byte(templates[name]), 0644); err != nil {
			return created, apperrors.New(apperrors.FileError, fmt.Sprintf("failed to create template %s", path), err)
		}
		created = append(created, name)
	}
	return created, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
