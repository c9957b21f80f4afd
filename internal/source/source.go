// Package source turns raw document bytes into the line-indexed text
// the transform pipeline consumes: an ordered, 1-indexed, gapless
// sequence of non-empty lines.
package source

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Line is one line of source text with its stable line number.
type Line struct {
	Number int
	Text   string
}

// Reader converts raw document bytes into numbered lines.
type Reader interface {
	Lines(r io.Reader, filename string) ([]Line, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".html": true,
	".htm":  true,
	".pdf":  true,
	".docx": true,
}

// Options configures format-specific reader behavior.
type Options struct {
	// PDFFallbackPdftotext runs the pdftotext binary when the Go PDF
	// library cannot extract text.
	PDFFallbackPdftotext bool
}

// ForFile returns the appropriate reader for a filename with default
// options.
func ForFile(filename string) (Reader, error) {
	return ForFileWith(filename, Options{})
}

// ForFileWith returns the appropriate reader for a filename,
// configured by opts.
func ForFileWith(filename string, opts Options) (Reader, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextReader{}, nil
	case ".md", ".markdown":
		return &MarkdownReader{}, nil
	case ".html", ".htm":
		return &HTMLReader{}, nil
	case ".pdf":
		return &PDFReader{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// numberLines assigns sequential line numbers to the non-empty lines
// of text, continuing from the given offset. Blank lines carry no
// structure in a flattened rendering and are dropped so numbering
// stays gapless.
func numberLines(text string, next int) ([]Line, int) {
	var out []Line
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimRight(raw, " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, Line{Number: next, Text: line})
		next++
	}
	return out, next
}

// Text reconstructs the raw text of a run of lines.
func Text(lines []Line) string {
	var sb strings.Builder
	for i, ln := range lines {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(ln.Text)
	}
	return sb.String()
}

// Slice returns the lines whose numbers fall within [start, end].
// Lines are assumed ordered by number.
func Slice(lines []Line, start, end int) []Line {
	var out []Line
	for _, ln := range lines {
		if ln.Number < start {
			continue
		}
		if ln.Number > end {
			break
		}
		out = append(out, ln)
	}
	return out
}
