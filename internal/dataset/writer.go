package dataset

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"forestcli/internal/errors"
)

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	Append    bool
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes string rows to a CSV file with the given options
func WriteCSV(filePath string, options WriteOptions) error {
	slog.Info("Writing CSV file",
		slog.String("path", filePath),
		slog.Int("record_count", len(options.Records)))

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.NewStorageError("failed to create output directory", err).
			WithContext("dir", dir)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if options.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(filePath, flags, 0644)
	if err != nil {
		return errors.NewStorageError("failed to open output file", err).
			WithContext("path", filePath)
	}
	defer file.Close()

	// Write BOM if requested (helps Excel recognize UTF-8)
	if options.BOMPrefix && !options.Append {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return errors.NewStorageError("failed to write BOM", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if !options.Append && len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return errors.NewStorageError("failed to write headers", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return errors.NewStorageError(fmt.Sprintf("failed to write record %d", i), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.NewStorageError("failed to flush CSV output", err)
	}
	return nil
}

// StreamWriter provides streaming CSV writing for large tables
type StreamWriter struct {
	file   *os.File
	writer *csv.Writer
}

// NewStreamWriter creates a streaming CSV writer with headers written
func NewStreamWriter(filePath string, headers []string) (*StreamWriter, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.NewStorageError("failed to create output directory", err).
			WithContext("dir", dir)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return nil, errors.NewStorageError("failed to create output file", err).
			WithContext("path", filePath)
	}

	// Write BOM for Excel compatibility
	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		file.Close()
		return nil, errors.NewStorageError("failed to write BOM", err)
	}

	writer := csv.NewWriter(file)

	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			file.Close()
			return nil, errors.NewStorageError("failed to write headers", err)
		}
	}

	return &StreamWriter{
		file:   file,
		writer: writer,
	}, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Close flushes and closes the stream writer
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}

// WriteRecords writes a cleaned table to a CSV file with the canonical
// header. The area column is formatted with the given precision.
func WriteRecords(filePath string, records []Record, precision int) error {
	sw, err := NewStreamWriter(filePath, []string{ColumnRegion, ColumnYear, ColumnArea})
	if err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			r.Region,
			strconv.Itoa(r.Year),
			FormatArea(r.AreaHectares, precision),
		}
		if err := sw.WriteRecord(row); err != nil {
			sw.Close()
			return errors.NewStorageError("failed to write record", err).
				WithContext("region", r.Region).
				WithContext("year", r.Year)
		}
	}

	if err := sw.Close(); err != nil {
		return errors.NewStorageError("failed to finalize CSV output", err).
			WithContext("path", filePath)
	}

	slog.Info("Saved cleaned table",
		slog.String("path", filePath),
		slog.Int("record_count", len(records)))

	return nil
}

// FormatArea formats an area value for CSV output with a fixed number
// of decimal places, so values like 13.4 appear as 13.40.
func FormatArea(value float64, precision int) string {
	return strconv.FormatFloat(value, 'f', precision, 64)
}
