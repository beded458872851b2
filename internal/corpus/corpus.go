// Package corpus reads comment dumps, selects the slice of each file a run
// processes, and decodes records into Comments.
package corpus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/cognicore/preproc/pkg/preproc/internalerr"
)

// MaxPerFile is the largest number of records a run may take from one file.
const MaxPerFile = 200272

// Comment is the subset of a comment record that survives processing.
type Comment struct {
	ID               string `json:"id"`
	Score            int64  `json:"score"`
	Controversiality int64  `json:"controversiality"`
	Subreddit        string `json:"subreddit"`
	Author           string `json:"author"`
	Body             string `json:"body"`
	Ups              int64  `json:"ups"`
	Downs            int64  `json:"downs"`
	Cat              string `json:"cat,omitempty"`
}

// Discover returns the regular files under dir in lexical order.
func Discover(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// LoadFile reads the raw records of a corpus file. A file holding a JSON
// array yields its elements; anything else is read as JSON lines, skipping
// malformed lines with a warning.
func LoadFile(path string, logger *zap.Logger) ([]json.RawMessage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var records []json.RawMessage
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("%w: decode %s: %v", internalerr.ErrInvalidInput, path, err)
		}
		return records, nil
	}

	var records []json.RawMessage
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !json.Valid([]byte(line)) {
			logger.Warn("skipping malformed JSON line", zap.String("file", path), zap.Int("line", i+1))
			continue
		}
		records = append(records, json.RawMessage(line))
	}
	return records, nil
}

// Decode parses one record. A record is either a comment object or a JSON
// string that itself holds a comment object. Fields other than those in
// Comment are discarded.
func Decode(raw json.RawMessage) (Comment, error) {
	data := bytes.TrimSpace(raw)
	if len(data) > 0 && data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return Comment{}, fmt.Errorf("%w: %v", internalerr.ErrInvalidInput, err)
		}
		data = []byte(inner)
	}
	var c Comment
	if err := json.Unmarshal(data, &c); err != nil {
		return Comment{}, fmt.Errorf("%w: %v", internalerr.ErrInvalidInput, err)
	}
	return c, nil
}

// Label names the comment's category after the file it came from.
func Label(c *Comment, path string) {
	c.Cat = filepath.Base(path)
}

// CheckMax validates a per-file record limit.
func CheckMax(max int) error {
	if max < 1 || max > MaxPerFile {
		return fmt.Errorf("%w: max must be between 1 and %d, got %d", internalerr.ErrInvalidInput, MaxPerFile, max)
	}
	return nil
}

// SampleWindow returns the half-open window [start, end) of n records that
// run id processes when taking max records. end < start means the window
// wraps past the end of the data.
func SampleWindow(n, id, max int) (start, end int) {
	if n <= 0 {
		return 0, 0
	}
	start = ((id % n) + n) % n
	end = (start + max) % n
	return start, end
}

// Sample returns data[start:end], wrapping around when end < start.
func Sample[T any](data []T, start, end int) []T {
	if end >= start {
		return data[start:end]
	}
	out := make([]T, 0, len(data)-start+end)
	out = append(out, data[start:]...)
	return append(out, data[:end]...)
}

// Select returns the records run id processes. Asking for at least as many
// records as there are takes all of them.
func Select[T any](data []T, id, max int) []T {
	if max >= len(data) {
		return data
	}
	start, end := SampleWindow(len(data), id, max)
	return Sample(data, start, end)
}
