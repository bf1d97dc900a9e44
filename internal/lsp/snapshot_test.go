package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.lsp.dev/uri"
)

func TestDocumentLines(t *testing.T) {
	doc := &Document{Text: "a = 1\nb = 2\n"}
	assert.Equal(t, []string{"a = 1\n", "b = 2\n"}, doc.Lines())

	doc = &Document{Text: "a = 1\nb = 2"}
	assert.Equal(t, []string{"a = 1\n", "b = 2"}, doc.Lines())

	doc = &Document{Text: ""}
	assert.Empty(t, doc.Lines())
}

func TestLineEnding(t *testing.T) {
	assert.Equal(t, "\r\n", lineEnding("a = 1\r\nb = 2\r\n"))
	assert.Equal(t, "\n", lineEnding("a = 1\nb = 2\n"))
	assert.Equal(t, "\n", lineEnding("no newline"))
	assert.Equal(t, "", lineEnding(""))
}

func TestMatchLineEndings(t *testing.T) {
	crlfDoc := &Document{Text: "a = 1\r\nb = 2\r\n"}
	assert.Equal(t, "a=1\r\nb=2\r\n", matchLineEndings(crlfDoc, "a=1\nb=2\n"))

	lfDoc := &Document{Text: "a = 1\nb = 2\n"}
	assert.Equal(t, "a=1\nb=2\n", matchLineEndings(lfDoc, "a=1\r\nb=2\r\n"))

	// Already matching output passes through untouched.
	assert.Equal(t, "a=1\nb=2\n", matchLineEndings(lfDoc, "a=1\nb=2\n"))
}

func TestIsNotebookCell(t *testing.T) {
	cell := &Document{URI: "vscode-notebook-cell:/work/nb.ipynb#ch0001"}
	assert.True(t, cell.IsNotebookCell())

	file := &Document{URI: uri.File("/work/mod.py")}
	assert.False(t, file.IsNotebookCell())
}

func TestUriPath(t *testing.T) {
	assert.Equal(t, "/work/mod.py", uriPath("file:///work/mod.py"))
	assert.Equal(t, "/work/nb.ipynb", uriPath("vscode-notebook-cell:/work/nb.ipynb#ch0001"))
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := NewSnapshot()
	doc := &Document{URI: uri.File("/work/mod.py"), Text: "x = 1\n"}
	s.Set(doc.Path(), doc)

	got, ok := s.Get("/work/mod.py")
	assert.True(t, ok)
	assert.Equal(t, "x = 1\n", got.Text)

	s.Remove("/work/mod.py")
	_, ok = s.Get("/work/mod.py")
	assert.False(t, ok)
}
