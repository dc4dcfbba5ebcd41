package saver

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PacketSaver writes one scan pass worth of records to a file.
// The driver injects the implementation; the runner only sees the interface.
type PacketSaver interface {
	Save(records []Record, path string) error
	Extension() string
}

// NewPacketSaver creates the implementation for format (csv, parquet, json).
// Returns nil if the format is not supported.
func NewPacketSaver(format string) PacketSaver {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVSaver{}
	case "parquet":
		return ParquetSaver{}
	case "json":
		return JSONSaver{}
	default:
		return nil
	}
}

// SnapshotPath is dir/{mode}_{runID}.{ext}.
func SnapshotPath(dir, mode, runID string, s PacketSaver) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.%s", mode, runID, s.Extension()))
}

// SaveSnapshot creates dir when needed and writes records to SnapshotPath.
func SaveSnapshot(s PacketSaver, dir, mode, runID string, records []Record) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create save dir: %w", err)
	}
	path := SnapshotPath(dir, mode, runID, s)
	if err := s.Save(records, path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	return path, nil
}
