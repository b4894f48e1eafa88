// Package failure turns errors into localized, categorized responses for the CLI.
package failure

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"tenderkit/internal/config"
	"tenderkit/internal/document"
	"tenderkit/internal/i18n"
	"tenderkit/internal/record"
	"tenderkit/internal/textsource"
	"tenderkit/internal/validate"
)

// Type represents different categories of errors
type Type string

const (
	TypeFileIO        Type = "file_io"
	TypeParse         Type = "parse"
	TypeValidation    Type = "validation"
	TypeConfiguration Type = "configuration"
	TypeInternal      Type = "internal"
)

// Response is a structured, translated description of an error
type Response struct {
	Type        Type                `json:"type"`
	Code        string              `json:"code"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Details     string              `json:"details"`
	Fields      map[string][]string `json:"fields,omitempty"`
	Suggestions []string            `json:"suggestions,omitempty"`
}

// Categorize analyzes err and returns a Response in lang
func Categorize(err error, lang string) Response {
	if err == nil {
		return Response{
			Type:        TypeInternal,
			Code:        "unknown_error",
			Title:       i18n.Get(lang, "error_processing_title"),
			Description: i18n.Get(lang, "error_processing_description"),
			Details:     "No error details available",
		}
	}

	errMsg := err.Error()
	errMsgLower := strings.ToLower(errMsg)

	var reportErr *validate.ReportError

	switch {
	case errors.As(err, &reportErr):
		return Response{
			Type:        TypeValidation,
			Code:        "validation_failed",
			Title:       i18n.Get(lang, "error_validation_title"),
			Description: i18n.Get(lang, "error_validation_description"),
			Details:     errMsg,
			Fields:      reportErr.Report,
			Suggestions: []string{
				i18n.Get(lang, "error_validation_suggestion_fields"),
			},
		}
	case errors.Is(err, config.ErrConfig):
		return Response{
			Type:        TypeConfiguration,
			Code:        "invalid_configuration",
			Title:       i18n.Get(lang, "error_configuration_title"),
			Description: i18n.Get(lang, "error_configuration_description"),
			Details:     errMsg,
			Suggestions: []string{
				i18n.Get(lang, "error_configuration_suggestion_config"),
			},
		}
	case errors.Is(err, document.ErrMalformed), errors.Is(err, document.ErrUnsupported),
		errors.Is(err, record.ErrNotArray), errors.Is(err, textsource.ErrNotUTF8):
		return Response{
			Type:        TypeParse,
			Code:        "parse_error",
			Title:       i18n.Get(lang, "error_parse_title"),
			Description: i18n.Get(lang, "error_parse_description"),
			Details:     errMsg,
			Suggestions: []string{
				i18n.Get(lang, "error_parse_suggestion_syntax"),
				i18n.Get(lang, "error_parse_suggestion_encoding"),
			},
		}
	}

	switch ioDirection(err, errMsgLower) {
	case readDirection:
		return Response{
			Type:        TypeFileIO,
			Code:        "file_read_error",
			Title:       i18n.Get(lang, "error_file_read_title"),
			Description: i18n.Get(lang, "error_file_read_description"),
			Details:     errMsg,
			Suggestions: []string{
				i18n.Get(lang, "error_file_read_suggestion_path"),
				i18n.Get(lang, "error_file_read_suggestion_format"),
			},
		}
	case writeDirection:
		return Response{
			Type:        TypeFileIO,
			Code:        "file_write_error",
			Title:       i18n.Get(lang, "error_file_write_title"),
			Description: i18n.Get(lang, "error_file_write_description"),
			Details:     errMsg,
			Suggestions: []string{
				i18n.Get(lang, "error_file_write_suggestion_space"),
				i18n.Get(lang, "error_file_write_suggestion_permissions"),
			},
		}
	}

	// Default fallback for unrecognized errors
	return Response{
		Type:        TypeInternal,
		Code:        "processing_error",
		Title:       i18n.Get(lang, "error_processing_title"),
		Description: i18n.Get(lang, "error_processing_description"),
		Details:     errMsg,
		Suggestions: []string{
			i18n.Get(lang, "error_processing_suggestion_retry"),
			i18n.Get(lang, "error_processing_suggestion_input"),
		},
	}
}

type direction int

const (
	noDirection direction = iota
	readDirection
	writeDirection
)

var writeWords = []string{"create", "write", "save", "mkdir", "rename"}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}

	return false
}

// ioDirection tells whether err came from reading or writing a file. The
// failing syscall decides first; os.Create and os.OpenFile both fail with Op
// "open", so for those the wrapping message decides.
func ioDirection(err error, errMsgLower string) direction {
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return writeDirection
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		switch pathErr.Op {
		case "open":
			outer := strings.TrimSuffix(errMsgLower, strings.ToLower(pathErr.Error()))
			if containsAny(outer, writeWords) {
				return writeDirection
			}

			return readDirection
		case "mkdir", "write", "rename", "chmod", "truncate", "remove", "unlinkat":
			return writeDirection
		case "stat", "lstat", "read", "readdirent", "readdir", "seek":
			return readDirection
		}
	}

	switch {
	case errors.Is(err, os.ErrNotExist):
		return readDirection
	case errors.Is(err, os.ErrPermission), containsAny(errMsgLower, writeWords):
		return writeDirection
	case strings.Contains(errMsgLower, "open"), strings.Contains(errMsgLower, "read"):
		return readDirection
	}

	return noDirection
}

// Write prints a categorized error as readable text
func Write(w io.Writer, err error, lang string) {
	resp := Categorize(err, lang)

	fmt.Fprintf(w, "%s: %s\n", resp.Title, resp.Description)
	fmt.Fprintf(w, "  %s\n", resp.Details)

	for _, field := range validate.Report(resp.Fields).Fields() {
		for _, msg := range resp.Fields[field] {
			fmt.Fprintf(w, "  - %s: %s\n", field, msg)
		}
	}

	for _, s := range resp.Suggestions {
		fmt.Fprintf(w, "  * %s\n", s)
	}
}

// WriteJSON prints a categorized error as a JSON object
func WriteJSON(w io.Writer, err error, lang string) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")

	if jsonErr := enc.Encode(Categorize(err, lang)); jsonErr != nil {
		// Fallback to plain text if JSON encoding fails
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}
