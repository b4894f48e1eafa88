// Package export writes record sets to spreadsheet workbooks and values to
// UTF-8 JSON documents.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tenderkit/internal/logging"
	"tenderkit/internal/record"
)

// DefaultSheet is the sheet name used when none is given
const DefaultSheet = "Sheet1"

// Exporter writes files and logs failures of the bool-returning forms
type Exporter struct {
	logger      *zap.Logger
	rightToLeft bool
}

// Option configures an Exporter
type Option func(*Exporter)

// WithRightToLeft lays workbook sheets out right to left
func WithRightToLeft(enabled bool) Option {
	return func(e *Exporter) {
		e.rightToLeft = enabled
	}
}

// stderr receives failures when no logger is given
var stderr io.Writer = os.Stderr

// New creates an Exporter. A nil logger reports failures on standard error.
func New(logger *zap.Logger, opts ...Option) *Exporter {
	if logger == nil {
		logger = logging.NewWriter(logging.DefaultName, stderr, zapcore.ErrorLevel)
	}

	e := &Exporter{logger: logger}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Tabular writes records to an xlsx workbook and reports success
func (e *Exporter) Tabular(records []record.Record, path, sheet string) bool {
	if err := e.WriteTabular(records, path, sheet); err != nil {
		e.logger.Error("tabular export failed", zap.String("path", path), zap.Error(err))
		return false
	}

	return true
}

// WriteTabular writes records to an xlsx workbook at path with a header row of
// the union of record keys in first-seen order. Missing cells stay blank.
func (e *Exporter) WriteTabular(records []record.Record, path, sheet string) (err error) {
	if sheet == "" {
		sheet = DefaultSheet
	}

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if sheet != DefaultSheet {
		if err := f.SetSheetName(DefaultSheet, sheet); err != nil {
			return fmt.Errorf("failed to name sheet %q: %w", sheet, err)
		}
	}

	columns := record.Columns(records)
	index := make(map[string]int, len(columns))

	for i, name := range columns {
		index[name] = i + 1

		if err := setCell(f, sheet, i+1, 1, name); err != nil {
			return err
		}
	}

	for row, rec := range records {
		for _, field := range rec {
			if field.Value == nil {
				continue
			}

			value, err := cellValue(field.Value)
			if err != nil {
				return fmt.Errorf("row %d column %q: %w", row+1, field.Name, err)
			}

			if err := setCell(f, sheet, index[field.Name], row+2, value); err != nil {
				return err
			}
		}
	}

	if e.rightToLeft {
		if err := f.SetSheetView(sheet, 0, &excelize.ViewOptions{RightToLeft: boolPtr(true)}); err != nil {
			return fmt.Errorf("failed to set sheet direction: %w", err)
		}
	}

	if err := ensureParent(path); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}

	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}

	if err := f.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("failed to write cell %s: %w", cell, err)
	}

	return nil
}

// cellValue keeps scalars as is and renders nested values as compact JSON
func cellValue(v any) (any, error) {
	switch v.(type) {
	case record.Record, []any, map[string]any:
		data, err := marshal(v, "")
		if err != nil {
			return nil, err
		}

		return string(bytes.TrimRight(data, "\n")), nil
	default:
		return v, nil
	}
}

// Structured writes v to path as indented JSON and reports success
func (e *Exporter) Structured(v any, path string) bool {
	if err := e.WriteStructured(v, path); err != nil {
		e.logger.Error("structured export failed", zap.String("path", path), zap.Error(err))
		return false
	}

	return true
}

// WriteStructured writes v to path as UTF-8 JSON with four-space indent.
// Non-ASCII text is written literally.
func (e *Exporter) WriteStructured(v any, path string) (err error) {
	data, err := marshal(v, "    ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if err := ensureParent(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	defer func() {
		err = errors.Join(err, file.Close())
	}()

	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

func marshal(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if indent != "" {
		enc.SetIndent("", indent)
	}

	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func ensureParent(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	return nil
}

func boolPtr(b bool) *bool {
	return &b
}
