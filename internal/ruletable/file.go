package ruletable

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/avast/retry-go"
)

const (
	fileExtension = ".json"

	writeAttempts = 3
	writeDelay    = 50 * time.Millisecond
)

// readTable reads a table file. A missing file yields no entries and no
// error; a file that cannot be decoded yields ErrCorruptTable.
func readTable(path string, origin Origin) ([]Entry, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("os.Open(%s) > %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	contents, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll(%s) > %w", path, err)
	}
	if len(contents) == 0 {
		return nil, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(contents, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptTable, path, err)
	}
	entries := make([]Entry, 0, len(raw))
	for _, item := range raw {
		var fields []string
		if err := json.Unmarshal(item, &fields); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCorruptTable, path, err)
		}
		if len(fields) < 2 || fields[0] == "" {
			continue
		}
		e := Entry{From: fields[0], To: fields[1], Origin: origin}
		if len(fields) > 2 {
			e.Origin = parseOrigin(fields[2], origin)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// loadTable reads a table and logs, rather than returns, any failure.
func loadTable(path string, origin Origin) []Entry {
	entries, err := readTable(path, origin)
	if err != nil {
		slog.Default().Warn("failed to read a table, using an empty one",
			slog.String("path", path),
			slog.Any("error", err),
		)
		return nil
	}
	return entries
}

// writeTable rewrites a table file in full.
func writeTable(path string, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	contents, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent > %w", err)
	}

	return retry.Do(
		func() error {
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return fmt.Errorf("os.MkdirAll > %w", err)
			}
			tmp := path + ".tmp"
			if err := os.WriteFile(tmp, contents, 0644); err != nil {
				return fmt.Errorf("os.WriteFile(%s) > %w", tmp, err)
			}
			if err := os.Rename(tmp, path); err != nil {
				return fmt.Errorf("os.Rename(%s) > %w", path, err)
			}
			return nil
		},
		retry.Attempts(writeAttempts),
		retry.Delay(writeDelay),
		retry.LastErrorOnly(true),
	)
}
