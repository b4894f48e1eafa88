package failure

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tenderkit/internal/config"
	"tenderkit/internal/document"
	"tenderkit/internal/record"
	"tenderkit/internal/textsource"
	"tenderkit/internal/validate"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedType Type
		expectedCode string
	}{
		{"nil", nil, TypeInternal, "unknown_error"},
		{"validation", validate.Report{"email": {"x"}}.Err(), TypeValidation, "validation_failed"},
		{"configuration", fmt.Errorf("%w: validation: bad", config.ErrConfig), TypeConfiguration, "invalid_configuration"},
		{"malformed document", fmt.Errorf("rules.yaml: %w: yaml: bad", document.ErrMalformed), TypeParse, "parse_error"},
		{"unsupported document", fmt.Errorf("%w: notes.txt", document.ErrUnsupported), TypeParse, "parse_error"},
		{"not an array", fmt.Errorf("%w: %w", document.ErrMalformed, record.ErrNotArray), TypeParse, "parse_error"},
		{"missing file", fmt.Errorf("failed to stat x: %w", os.ErrNotExist), TypeFileIO, "file_read_error"},
		{"write failure", errors.New("failed to write reports/a.json: disk full"), TypeFileIO, "file_write_error"},
		{"permission", fmt.Errorf("mkdir: %w", os.ErrPermission), TypeFileIO, "file_write_error"},
		{"create denied", fmt.Errorf("failed to create out/a.txt: %w",
			&fs.PathError{Op: "open", Path: "out/a.txt", Err: fs.ErrPermission}), TypeFileIO, "file_write_error"},
		{"open for reading denied", fmt.Errorf("failed to read in/a.txt: %w",
			&fs.PathError{Op: "open", Path: "in/a.txt", Err: fs.ErrPermission}), TypeFileIO, "file_read_error"},
		{"mkdir over file", fmt.Errorf("failed to prepare reports: %w",
			&fs.PathError{Op: "mkdir", Path: "reports", Err: syscall.ENOTDIR}), TypeFileIO, "file_write_error"},
		{"rename", fmt.Errorf("failed to store upload: %w",
			&os.LinkError{Op: "rename", Old: ".upload-1", New: "a.pdf", Err: syscall.EISDIR}), TypeFileIO, "file_write_error"},
		{"open wording after write wording", errors.New("failed to save a.xlsx: cannot open sheet"), TypeFileIO, "file_write_error"},
		{"unknown", errors.New("something odd"), TypeInternal, "processing_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := Categorize(tt.err, "en")
			assert.Equal(t, tt.expectedType, resp.Type)
			assert.Equal(t, tt.expectedCode, resp.Code)
			assert.NotEmpty(t, resp.Title)
			assert.NotEmpty(t, resp.Description)
		})
	}
}

func TestCategorizeFailedCreateIsWriteError(t *testing.T) {
	err := textsource.WriteText(filepath.Join(t.TempDir(), "missing", "a.txt"), "x")
	require.Error(t, err)

	assert.Equal(t, "file_write_error", Categorize(err, "en").Code)
}

func TestCategorizeTranslates(t *testing.T) {
	err := fmt.Errorf("%w: x", config.ErrConfig)

	assert.Equal(t, "Configuration error", Categorize(err, "en").Title)
	assert.Equal(t, "خطأ في الإعدادات", Categorize(err, "ar").Title)
	assert.Equal(t, "خطأ في الإعدادات", Categorize(err, "de").Title)
}

func TestCategorizeCarriesValidationFields(t *testing.T) {
	report := validate.Report{"email": {"يرجى إدخال بريد إلكتروني صحيح"}}

	resp := Categorize(report.Err(), "ar")
	assert.Equal(t, map[string][]string{"email": {"يرجى إدخال بريد إلكتروني صحيح"}}, resp.Fields)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer

	Write(&buf, validate.Report{"b": {"second"}, "a": {"first"}}.Err(), "en")

	out := buf.String()
	assert.Contains(t, out, "Invalid data: Some fields do not satisfy the validation rules.\n")
	assert.Contains(t, out, "  - a: first\n  - b: second\n")
	assert.Contains(t, out, "  * Review the listed fields and correct their values\n")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer

	WriteJSON(&buf, errors.New("failed to save workbook <x>"), "ar")

	var resp Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, TypeFileIO, resp.Type)
	assert.Equal(t, "failed to save workbook <x>", resp.Details)
	assert.Contains(t, buf.String(), "<x>")
}
