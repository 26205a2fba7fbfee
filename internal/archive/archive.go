// File path: internal/archive/archive.go
package archive

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Metadata describes one raw extraction, written alongside the JSONL data
// file so a run can be traced back to its parameters.
type Metadata struct {
	Timestamp      string `json:"timestamp"`
	TotalStudies   int    `json:"total_studies"`
	PageSize       int    `json:"page_size"`
	MaxRecords     int    `json:"max_records"`
	APIBaseURL     string `json:"api_base_url"`
	ExtractionDate string `json:"extraction_date,omitempty"`
}

// Writer appends raw registry records to a timestamped JSONL file. Closing
// the writer emits the metadata sidecar.
type Writer struct {
	mu       sync.Mutex
	file     *os.File
	dataPath string
	metaPath string
	count    int
	closed   bool
}

// NewWriter creates the archive directory if needed and opens a new
// timestamped data file within it.
func NewWriter(dir string) (*Writer, error) {
	if dir == "" {
		return nil, errors.New("archive dir required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	stamp := time.Now().Format("20060102_150405")
	w := &Writer{
		dataPath: filepath.Join(dir, fmt.Sprintf("studies_%s.jsonl", stamp)),
		metaPath: filepath.Join(dir, fmt.Sprintf("metadata_%s.json", stamp)),
	}
	file, err := os.OpenFile(w.dataPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	w.file = file
	return w, nil
}

// Append writes one raw record as a single JSONL line.
func (w *Writer) Append(ctx context.Context, raw json.RawMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errors.New("archive writer closed")
	}
	if _, err := w.file.Write(append(compact(raw), '\n')); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	w.count++
	return nil
}

// Count returns the number of records appended so far.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Path returns the data file location.
func (w *Writer) Path() string { return w.dataPath }

// Close flushes the data file and writes the metadata sidecar. The record
// count in meta is overridden with the observed count.
func (w *Writer) Close(meta Metadata) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}
	meta.TotalStudies = w.count
	if meta.Timestamp == "" {
		meta.Timestamp = time.Now().Format("20060102_150405")
	}
	encoded, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := os.WriteFile(w.metaPath, append(encoded, '\n'), 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

// Read streams every record in a JSONL archive through fn, stopping early
// if fn or the context reports an error.
func Read(ctx context.Context, path string, fn func(json.RawMessage) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		record := make(json.RawMessage, len(line))
		copy(record, line)
		if err := fn(record); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan archive: %w", err)
	}
	return nil
}

// compact strips embedded newlines so each record stays on one line.
func compact(raw json.RawMessage) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return buf.Bytes()
}
