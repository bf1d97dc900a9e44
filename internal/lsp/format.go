package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"

	"github.com/yapf-ls/yapfls/internal/magic"
	"github.com/yapf-ls/yapfls/internal/pysrc"
	"github.com/yapf-ls/yapfls/internal/settings"
	"github.com/yapf-ls/yapfls/internal/tools"
)

func (s *server) Formatting(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DocumentFormattingParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return replyParseError(ctx, reply, err)
	}

	doc, ok := s.snapshot.Get(uriPath(params.TextDocument.URI))
	if !ok {
		return reply(ctx, nil, errors.New("document not found"))
	}

	slog.Info("format " + doc.Path())
	return reply(ctx, s.formatDocument(ctx, doc, nil), nil)
}

func (s *server) RangeFormatting(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DocumentRangeFormattingParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return replyParseError(ctx, reply, err)
	}

	doc, ok := s.snapshot.Get(uriPath(params.TextDocument.URI))
	if !ok {
		return reply(ctx, nil, errors.New("document not found"))
	}

	extra := lineRangeArgs(params.Range.Start.Line+1, params.Range.End.Line+1)
	slog.Info("format range "+doc.Path(), "args", extra)
	return reply(ctx, s.formatDocument(ctx, doc, extra), nil)
}

func (s *server) OnTypeFormatting(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	var params protocol.DocumentOnTypeFormattingParams
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return replyParseError(ctx, reply, err)
	}

	doc, ok := s.snapshot.Get(uriPath(params.TextDocument.URI))
	if !ok {
		return reply(ctx, nil, errors.New("document not found"))
	}
	if skipOnType(doc, params.Position.Line) {
		return reply(ctx, nil, nil)
	}

	source := strings.ReplaceAll(doc.Text, "\r\n", "\n")
	if doc.IsNotebookCell() {
		stg := s.settings.ByDocument(doc.Path())
		source = magic.Mask(source, stg.CellMagics)
	}

	// The line just completed by the newline, 1-based.
	start, end, err := pysrc.StatementRange(ctx, []byte(source), params.Position.Line)
	if err != nil {
		// Malformed source yields no edit.
		return reply(ctx, nil, nil)
	}

	slog.Info("format on type "+doc.Path(), "lines", fmt.Sprintf("%d-%d", start, end))
	return reply(ctx, s.formatDocument(ctx, doc, lineRangeArgs(start, end)), nil)
}

// skipOnType reports whether on-type formatting should bail out: the line
// just completed is blank or still mid-expression (trailing comma).
func skipOnType(doc *Document, line uint32) bool {
	lines := doc.Lines()
	if line == 0 || int(line) > len(lines) {
		return true
	}
	prev := strings.TrimRight(lines[line-1], " \t\r\n")
	return prev == "" || strings.HasSuffix(prev, ",")
}

func lineRangeArgs(start, end uint32) []string {
	return []string{"-l", fmt.Sprintf("%d-%d", start, end)}
}

// formatDocument runs the formatter and maps its output to at most one
// whole-document edit. Failures are logged and yield no edit; the editor
// never sees a protocol error for a formatter problem.
func (s *server) formatDocument(ctx context.Context, doc *Document, extraArgs []string) []protocol.TextEdit {
	stg := s.settings.ByDocument(doc.Path())

	if s.isExcluded(doc, stg) {
		s.logDebug(ctx, "skipping excluded document: "+doc.Path(), stg)
		return nil
	}

	result := s.runToolOnDocument(ctx, doc, stg, extraArgs)
	if result == nil || result.Stdout == "" {
		return nil
	}

	return []protocol.TextEdit{
		{
			Range: protocol.Range{
				Start: protocol.Position{Line: 0, Character: 0},
				End:   protocol.Position{Line: uint32(len(doc.Lines())), Character: 0},
			},
			NewText: matchLineEndings(doc, result.Stdout),
		},
	}
}

func (s *server) isExcluded(doc *Document, stg *settings.Settings) bool {
	patterns := tools.ExcludePatterns(stg.Args)
	if len(patterns) == 0 {
		return false
	}
	rel := strings.TrimPrefix(doc.Path(), stg.WorkspaceFS)
	return tools.IsExcluded(rel, patterns)
}

// runToolOnDocument picks the execution backend from the workspace settings
// and runs the formatter over the document, stdin carrying the source.
func (s *server) runToolOnDocument(ctx context.Context, doc *Document, stg *settings.Settings, extraArgs []string) *tools.RunResult {
	source := doc.Text

	hasMagics := false
	blankCellTrail := false
	if doc.IsNotebookCell() {
		normalized := strings.ReplaceAll(source, "\r\n", "\n")
		hasMagics = pysrc.HasSyntaxError(ctx, []byte(normalized))
		blankCellTrail = strings.HasSuffix(strings.TrimRight(normalized, " \t"), "\n")
	}

	if tools.IsStdlibFile(ctx, stg.Interpreter, doc.Path()) {
		return nil
	}

	var argv []string
	usePath := false
	useRPC := false
	switch {
	case len(stg.Path) > 0:
		// The path setting takes priority over everything.
		usePath = true
		argv = append(argv, stg.Path...)
		source = strings.ReplaceAll(source, "\r\n", "\n")
	case len(stg.Interpreter) > 0 && !tools.IsDefaultInterpreter(stg.Interpreter[0]):
		useRPC = true
		argv = []string{tools.Module}
	default:
		argv = []string{tools.Module}
	}
	argv = append(argv, stg.Args...)
	argv = append(argv, extraArgs...)

	if hasMagics {
		s.logDebug(ctx, "cellMagics: "+strings.Join(stg.CellMagics, ", "), stg)
		source = magic.Mask(source, stg.CellMagics)
	}

	var result *tools.RunResult
	var err error
	switch {
	case usePath:
		s.logToClient(ctx, strings.Join(argv, " "))
		result, err = tools.RunPath(ctx, argv, stg.Cwd, source, true)
		if err != nil {
			s.logError(ctx, err.Error(), stg)
			return nil
		}
	case useRPC:
		s.logToClient(ctx, strings.Join(append(append([]string{}, stg.Interpreter...), "-m"), " ")+" "+strings.Join(argv, " "))
		result, err = s.runners.Run(ctx, stg.WorkspaceFS, stg.Interpreter, stg.ImportStrategy, &tools.RunRequest{
			Module:   tools.Module,
			Argv:     argv,
			UseStdin: true,
			Cwd:      stg.Cwd,
			Source:   source,
		})
		if err != nil {
			// RPC failures degrade to an empty result.
			s.logError(ctx, err.Error(), stg)
			if result == nil {
				result = &tools.RunResult{}
			}
		}
	default:
		s.logToClient(ctx, strings.Join(append(append([]string{}, stg.Interpreter...), "-m"), " ")+" "+strings.Join(argv, " "))
		result, err = tools.RunModule(ctx, stg.Interpreter, argv, stg.Cwd, source, true, stg.ImportStrategy)
		if err != nil {
			s.logError(ctx, err.Error(), stg)
			return nil
		}
	}

	if result.Stderr != "" {
		s.logToClient(ctx, result.Stderr)
	}
	if hasMagics {
		result.Stdout = magic.Unmask(result.Stdout)
	}
	if doc.IsNotebookCell() && !blankCellTrail {
		result.Stdout = strings.TrimRight(result.Stdout, "\n")
	}

	s.logDebug(ctx, doc.Path()+":\n"+result.Stdout, stg)
	return result
}
