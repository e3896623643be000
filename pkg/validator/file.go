package validator

import (
	"fmt"
	"net/http"
	"path/filepath"
	"slices"
	"strings"
)

// File is the uploaded-file view the file rules operate on. The
// framework's normalized upload value implements it.
type File interface {
	// FileName returns the client-supplied file name.
	FileName() string

	// FileSize returns the file size in bytes.
	FileSize() int64

	// Bytes returns the file content.
	Bytes() []byte
}

// mimeDetectionBytes is the prefix http.DetectContentType sniffs.
const mimeDetectionBytes = 512

// DetectMIME sniffs the MIME type from file content. The client-supplied
// Content-Type label is deliberately ignored: it is trivially forgeable.
func DetectMIME(content []byte) string {
	if len(content) > mimeDetectionBytes {
		content = content[:mimeDetectionBytes]
	}
	mime := http.DetectContentType(content)
	// DetectContentType may append charset parameters ("text/plain; charset=utf-8").
	if idx := strings.IndexByte(mime, ';'); idx >= 0 {
		mime = strings.TrimSpace(mime[:idx])
	}
	return mime
}

type requiredFileRule struct{}

// RequiredFile fails when the value is not a non-empty uploaded file.
func RequiredFile() Rule { return requiredFileRule{} }

func (requiredFileRule) Validate(v any) bool {
	f, ok := v.(File)
	return ok && f.FileSize() > 0
}

func (requiredFileRule) Message(string) string { return "file is required" }

func (requiredFileRule) Translation(field string) (string, map[string]any) {
	return "validation.file_required", map[string]any{"field": field}
}

type maxFileSizeRule struct{ max int64 }

// MaxFileSize fails when an uploaded file exceeds max bytes.
func MaxFileSize(max int64) Rule { return maxFileSizeRule{max: max} }

func (r maxFileSizeRule) Validate(v any) bool {
	if isEmpty(v) {
		return true
	}
	f, ok := v.(File)
	return ok && f.FileSize() <= r.max
}

func (r maxFileSizeRule) Message(string) string {
	return fmt.Sprintf("must not exceed %d bytes", r.max)
}

func (r maxFileSizeRule) Translation(field string) (string, map[string]any) {
	return "validation.file_max_size", map[string]any{"field": field, "max": r.max}
}

type fileExtensionRule struct{ allowed []string }

// FileExtension fails when the uploaded file's name extension is not in
// the allow-list. Extensions are matched case-insensitively, with or
// without a leading dot in the configuration.
func FileExtension(allowed ...string) Rule {
	normalized := make([]string, 0, len(allowed))
	for _, ext := range allowed {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, ext)
	}
	return fileExtensionRule{allowed: normalized}
}

func (r fileExtensionRule) Validate(v any) bool {
	if isEmpty(v) {
		return true
	}
	f, ok := v.(File)
	if !ok {
		return false
	}
	ext := strings.ToLower(filepath.Ext(f.FileName()))
	return slices.Contains(r.allowed, ext)
}

func (r fileExtensionRule) Message(string) string {
	return fmt.Sprintf("must have one of the extensions: %s", strings.Join(r.allowed, ", "))
}

func (r fileExtensionRule) Translation(field string) (string, map[string]any) {
	return "validation.file_extension", map[string]any{"field": field, "extensions": strings.Join(r.allowed, ", ")}
}

type fileMIMERule struct{ allowed []string }

// FileMIME fails when the MIME type sniffed from the file content is not
// in the allow-list. The check never trusts a client-supplied label.
func FileMIME(allowed ...string) Rule { return fileMIMERule{allowed: allowed} }

func (r fileMIMERule) Validate(v any) bool {
	if isEmpty(v) {
		return true
	}
	f, ok := v.(File)
	if !ok {
		return false
	}
	return slices.Contains(r.allowed, DetectMIME(f.Bytes()))
}

func (r fileMIMERule) Message(string) string {
	return fmt.Sprintf("must be one of the types: %s", strings.Join(r.allowed, ", "))
}

func (r fileMIMERule) Translation(field string) (string, map[string]any) {
	return "validation.file_mime", map[string]any{"field": field, "types": strings.Join(r.allowed, ", ")}
}
