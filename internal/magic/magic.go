// Package magic masks notebook cell-magic lines so the formatter does not
// reject them as invalid syntax, and restores them afterward.
package magic

import (
	"regexp"
	"strings"
)

// marker replaces "%" in magic lines. The NUL bytes make an accidental
// collision with real source text practically impossible.
const marker = "#\x00%\x00#"

// Cell magics built into IPython. Workspace settings can extend this set.
var builtinMagics = []string{
	"bash",
	"bigquery",
	"capture",
	"html",
	"javascript",
	"js",
	"latex",
	"markdown",
	"perl",
	"prun",
	"pypy",
	"python",
	"python2",
	"python3",
	"ruby",
	"script",
	"sh",
	"svg",
	"sx",
	"system",
	"time",
	"timeit",
	"writefile",
}

func magicPattern(extra []string) *regexp.Regexp {
	names := make([]string, 0, len(builtinMagics)+len(extra))
	names = append(names, builtinMagics...)
	for _, name := range extra {
		names = append(names, regexp.QuoteMeta(name))
	}
	return regexp.MustCompile(`^%{1,2}(` + strings.Join(names, "|") + `)`)
}

// IsCellMagic reports whether line starts with a recognized magic directive.
func IsCellMagic(line string, extra []string) bool {
	return magicPattern(extra).MatchString(line)
}

// Mask rewrites every magic line in code so it reads as a comment.
func Mask(code string, extra []string) string {
	pattern := magicPattern(extra)
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		if pattern.MatchString(line) {
			lines[i] = strings.ReplaceAll(line, "%", marker)
		}
	}
	return strings.Join(lines, "\n")
}

// Unmask reverses Mask on formatter output.
func Unmask(code string) string {
	return strings.ReplaceAll(code, marker, "%")
}
