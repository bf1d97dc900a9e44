package lsp

import (
	"net/url"
	"strings"

	"go.lsp.dev/protocol"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// Snapshot tracks the text of every open document, keyed by filesystem path.
type Snapshot struct {
	file cmap.ConcurrentMap[string, *Document]
}

func NewSnapshot() *Snapshot {
	return &Snapshot{
		file: cmap.New[*Document](),
	}
}

func (s *Snapshot) Get(filePath string) (*Document, bool) {
	return s.file.Get(filePath)
}

func (s *Snapshot) Set(filePath string, doc *Document) {
	s.file.Set(filePath, doc)
}

func (s *Snapshot) Remove(filePath string) {
	s.file.Remove(filePath)
}

// Document is an open text document.
type Document struct {
	URI  protocol.DocumentURI
	Text string
}

// Path returns the document's filesystem path. Notebook-cell URIs are not
// file URIs, so plain URI parsing is used instead of URI.Filename.
func (d *Document) Path() string {
	return uriPath(d.URI)
}

// IsNotebookCell reports whether the document is a notebook cell, which gets
// magic-line masking and trailing-newline handling.
func (d *Document) IsNotebookCell() bool {
	return strings.HasPrefix(string(d.URI), "vscode-notebook-cell")
}

// Lines splits the text into lines, newlines kept, with no phantom line
// after a trailing newline.
func (d *Document) Lines() []string {
	lines := strings.SplitAfter(d.Text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

func uriPath(u protocol.DocumentURI) string {
	parsed, err := url.Parse(string(u))
	if err != nil {
		return string(u)
	}
	return parsed.Path
}

// lineEnding detects the line-ending style from the first line: "\r\n",
// "\n", or "" for empty text.
func lineEnding(text string) string {
	if text == "" {
		return ""
	}
	if i := strings.Index(text, "\n"); i > 0 && text[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// matchLineEndings coerces the formatter output's line endings to the
// document's style.
func matchLineEndings(doc *Document, text string) string {
	expected := lineEnding(doc.Text)
	actual := lineEnding(text)
	if actual == expected || actual == "" || expected == "" {
		return text
	}
	if actual == "\r\n" {
		text = strings.ReplaceAll(text, "\r\n", "\n")
		actual = "\n"
	}
	if expected == "\r\n" {
		text = strings.ReplaceAll(text, "\n", "\r\n")
	}
	return text
}
