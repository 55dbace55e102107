package tracing

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

var csvHeader = []string{
	"run_id", "seq", "predictor", "op", "address", "key",
	"counter", "predicted", "actual", "correct",
}

// CSVWriter buffers records and writes them into a CSV file.
type CSVWriter struct {
	path       string
	file       *os.File
	w          *csv.Writer
	records    []Record
	bufferSize int
}

// NewCSVWriter creates a CSVWriter. The ".csv" extension is appended to path.
// An empty path picks a unique name.
func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{
		path:       path,
		bufferSize: 1000,
	}
}

// Path returns the file the writer writes into. It is known after Init.
func (t *CSVWriter) Path() string {
	return t.path + ".csv"
}

// Init creates the CSV file and registers a flush at exit. It fails if the
// file already exists.
func (t *CSVWriter) Init() error {
	if t.path == "" {
		t.path = "bpsim_trace_" + xid.New().String()
	}

	filename := t.Path()
	if _, err := os.Stat(filename); err == nil {
		return fmt.Errorf("file %s already exists", filename)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create trace file: %w", err)
	}
	t.file = file
	t.w = csv.NewWriter(file)

	if err := t.w.Write(csvHeader); err != nil {
		_ = file.Close()
		t.file, t.w = nil, nil
		return fmt.Errorf("failed to write trace header: %w", err)
	}

	atexit.Register(func() {
		_ = t.Close()
	})

	return nil
}

// Write buffers a record, flushing when the buffer is full.
func (t *CSVWriter) Write(r Record) error {
	t.records = append(t.records, r)
	if len(t.records) >= t.bufferSize {
		return t.Flush()
	}
	return nil
}

// Flush writes all buffered records to the file.
func (t *CSVWriter) Flush() error {
	if t.w == nil {
		return nil
	}

	for _, r := range t.records {
		err := t.w.Write([]string{
			r.RunID,
			strconv.FormatUint(r.Seq, 10),
			r.Predictor,
			r.Op,
			r.Address,
			r.Key,
			r.Counter,
			r.Predicted,
			r.Actual,
			strconv.FormatBool(r.Correct),
		})
		if err != nil {
			return fmt.Errorf("failed to write trace record %d: %w", r.Seq, err)
		}
	}
	t.records = nil

	t.w.Flush()
	return t.w.Error()
}

// Close flushes and closes the file. Closing twice is a no-op.
func (t *CSVWriter) Close() error {
	if t.file == nil {
		return nil
	}

	if err := t.Flush(); err != nil {
		return err
	}

	err := t.file.Close()
	t.file = nil
	t.w = nil
	return err
}
