package workspace

import (
	"net/url"
	"path/filepath"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/hserr/config"
	"github.com/dhamidi/hserr/report/docs"
	"github.com/dhamidi/hserr/report/outline"
	"github.com/dhamidi/hserr/report/parser"
)

const lsName = "hserr"

type LSPServer struct {
	workspace *Workspace
	watcher   *FileWatcher
	config    *config.Config
	handler   protocol.Handler
	server    *server.Server
	version   string
}

func NewLSPServer(version string, cfg *config.Config) *LSPServer {
	if cfg == nil {
		cfg = config.Default()
	}
	ls := &LSPServer{
		version: version,
		config:  cfg,
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDidSave:        ls.textDocumentDidSave,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
		TextDocumentFoldingRange:   ls.textDocumentFoldingRange,
		TextDocumentHover:          ls.textDocumentHover,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	} else if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	}

	ls.workspace = New(rootDir, OptionsFromConfig(ls.config)...)

	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    intPtr(int(protocol.TextDocumentSyncKindFull)),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	if err := ls.workspace.ScanAll(); err != nil {
		log.Errorf("scan %s: %s", ls.workspace.RootDir(), err)
	}
	ls.watcher = NewFileWatcher(ls.workspace, ls.config.Workspace.PollInterval.Duration)
	ls.watcher.Start()
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	if ls.watcher != nil {
		ls.watcher.Stop()
		ls.watcher = nil
	}
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	ls.workspace.UpdateFile(path, []byte(params.TextDocument.Text))
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			ls.workspace.UpdateFile(path, []byte(textChange.Text))
		}
	}
	return nil
}

// Closed documents stay in the workspace when they are reports on disk.
func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if !ls.workspace.Matches(path) {
		ls.workspace.RemoveFile(path)
	}
	return nil
}

func (ls *LSPServer) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		ls.workspace.UpdateFile(path, []byte(*params.Text))
	} else if err := ls.workspace.ScanFile(path); err != nil {
		log.Warningf("save %s: %s", path, err)
	}
	return nil
}

func (ls *LSPServer) report(uri string) *Report {
	path, err := uriToPath(uri)
	if err != nil {
		return nil
	}
	return ls.workspace.GetFile(path)
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	report := ls.report(params.TextDocument.URI)
	if report == nil {
		return nil, nil
	}
	return toDocumentSymbols(report.Content, outline.Symbols(report.Doc)), nil
}

func toDocumentSymbols(content []byte, symbols []*outline.Symbol) []protocol.DocumentSymbol {
	result := make([]protocol.DocumentSymbol, 0, len(symbols))
	for _, sym := range symbols {
		ds := protocol.DocumentSymbol{
			Name:           sym.Label,
			Kind:           toSymbolKind(sym),
			Range:          toRange(content, sym.Span),
			SelectionRange: toRange(content, sym.Selection),
		}
		if sym.Name != "" && sym.Name != sym.Label {
			detail := sym.Name
			ds.Detail = &detail
		}
		if len(sym.Children) > 0 {
			ds.Children = toDocumentSymbols(content, sym.Children)
		}
		result = append(result, ds)
	}
	return result
}

func toSymbolKind(sym *outline.Symbol) protocol.SymbolKind {
	switch sym.Icon {
	case parser.IconEvent, parser.IconException:
		return protocol.SymbolKindEvent
	case parser.IconRegisters:
		return protocol.SymbolKindVariable
	case parser.IconStack, parser.IconThreads:
		return protocol.SymbolKindArray
	case parser.IconHeap, parser.IconMemoryMap:
		return protocol.SymbolKindStruct
	}
	switch sym.Kind {
	case parser.KindIntro:
		return protocol.SymbolKindFile
	case parser.KindSection:
		return protocol.SymbolKindNamespace
	default:
		return protocol.SymbolKindField
	}
}

func (ls *LSPServer) textDocumentFoldingRange(ctx *glsp.Context, params *protocol.FoldingRangeParams) ([]protocol.FoldingRange, error) {
	report := ls.report(params.TextDocument.URI)
	if report == nil {
		return nil, nil
	}
	var ranges []protocol.FoldingRange
	for _, fold := range outline.Folds(report.Doc, ls.config.Fold.Collapse) {
		if fold.End.Line <= fold.Start.Line {
			continue
		}
		ranges = append(ranges, protocol.FoldingRange{
			StartLine: protocol.UInteger(fold.Start.Line - 1),
			EndLine:   protocol.UInteger(fold.End.Line - 1),
		})
	}
	return ranges, nil
}

func (ls *LSPServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	report := ls.report(params.TextDocument.URI)
	if report == nil {
		return nil, nil
	}
	offset := offsetAt(report.Content, params.Position)
	tok, next, ok := report.TokenAt(offset)
	if !ok {
		return nil, nil
	}
	doc, ok := docs.ForToken(tok, next)
	if !ok {
		return nil, nil
	}
	if sym := outline.Find(outline.Symbols(report.Doc), offset); sym != nil {
		doc += "\n\nIn **" + sym.Label + "**."
	}
	r := toRange(report.Content, tok.Span)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: doc,
		},
		Range: &r,
	}, nil
}

func toRange(content []byte, span parser.Span) protocol.Range {
	return protocol.Range{
		Start: toPosition(content, span.Start),
		End:   toPosition(content, span.End),
	}
}

// toPosition converts a byte position to a zero based LSP position whose
// character counts UTF-16 code units.
func toPosition(content []byte, p parser.Position) protocol.Position {
	start := p.Offset - (p.Column - 1)
	if start < 0 || p.Offset > len(content) {
		return protocol.Position{Line: protocol.UInteger(max(p.Line-1, 0))}
	}
	units := 0
	for i := start; i < p.Offset; {
		r, size := utf8.DecodeRune(content[i:])
		units += utf16.RuneLen(r)
		i += size
	}
	return protocol.Position{
		Line:      protocol.UInteger(p.Line - 1),
		Character: protocol.UInteger(units),
	}
}

// offsetAt converts an LSP position to a byte offset in content, clamped to
// the end of the addressed line.
func offsetAt(content []byte, pos protocol.Position) int {
	i := 0
	for line := 0; line < int(pos.Line); i++ {
		if i >= len(content) {
			return len(content)
		}
		if content[i] == '\n' {
			line++
		}
	}
	units := 0
	for i < len(content) && content[i] != '\n' && units < int(pos.Character) {
		r, size := utf8.DecodeRune(content[i:])
		units += utf16.RuneLen(r)
		i += size
	}
	return i
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *protocol.TextDocumentSyncKind {
	v := protocol.TextDocumentSyncKind(i)
	return &v
}
