package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholzen/treegrid/pkg/hierarchy"
)

// FileSource reads a JSON array of records from a file on every load.
type FileSource string

func (f FileSource) Records(_ context.Context) ([]hierarchy.Record, error) {
	return ReadRecordsFile(string(f))
}

func ReadRecordsFile(filename string) ([]hierarchy.Record, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("cannot open records file: %w", err)
	}
	defer file.Close()

	records, err := DecodeRecords(file)
	if err != nil {
		return nil, fmt.Errorf("cannot parse records file '%s': %w", filename, err)
	}
	slog.Debug("records file read", "file", filepath.Base(filename), "records", len(records))
	return records, nil
}

// DecodeRecords reads a JSON array of records.
func DecodeRecords(r io.Reader) ([]hierarchy.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var records []hierarchy.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ExpandTilde expands a leading ~ to the user's home directory
func ExpandTilde(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
