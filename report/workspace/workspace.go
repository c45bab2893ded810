// Package workspace keeps parsed reports of a directory tree and serves
// them to editors over LSP.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/hserr/config"
	"github.com/dhamidi/hserr/report/parser"
)

var log = commonlog.GetLogger("hserr.workspace")

var (
	// ErrNotReport is returned for files whose name matches none of the
	// report patterns.
	ErrNotReport = errors.New("not a crash report")
	// ErrTooLarge is returned for files above the size limit.
	ErrTooLarge = errors.New("report too large")
)

type Workspace struct {
	mu       sync.RWMutex
	rootDir  string
	patterns []string
	maxBytes int64
	options  []parser.Option
	files    map[string]*Report
}

// Report is one parsed file. Reports are replaced, never modified, when
// their file changes.
type Report struct {
	Path    string
	Content []byte
	Doc     *parser.Node
	Tokens  []parser.Token
}

type Option func(*Workspace)

func WithPatterns(patterns ...string) Option {
	return func(w *Workspace) {
		w.patterns = patterns
	}
}

func WithMaxFileBytes(n int64) Option {
	return func(w *Workspace) {
		w.maxBytes = n
	}
}

func WithParserOptions(opts ...parser.Option) Option {
	return func(w *Workspace) {
		w.options = opts
	}
}

// OptionsFromConfig returns the workspace options configured in cfg.
func OptionsFromConfig(cfg *config.Config) []Option {
	return []Option{
		WithPatterns(cfg.Workspace.Patterns...),
		WithMaxFileBytes(cfg.Workspace.MaxFileBytes),
		WithParserOptions(cfg.ParserOptions()...),
	}
}

func New(rootDir string, opts ...Option) *Workspace {
	def := config.Default()
	w := &Workspace{
		rootDir:  rootDir,
		patterns: def.Workspace.Patterns,
		maxBytes: def.Workspace.MaxFileBytes,
		files:    make(map[string]*Report),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Workspace) RootDir() string {
	return w.rootDir
}

// Matches reports whether the base name of path matches a report pattern.
func (w *Workspace) Matches(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range w.patterns {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

// ScanAll parses every report below the root directory. Hidden
// directories are skipped. Files that cannot be read are logged and
// skipped.
func (w *Workspace) ScanAll() error {
	return filepath.Walk(w.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != w.rootDir && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !w.Matches(path) {
			return nil
		}
		if err := w.ScanFile(path); err != nil {
			log.Warningf("skip %s: %s", path, err)
		}
		return nil
	})
}

// ScanFile reads and parses the report at path.
func (w *Workspace) ScanFile(path string) error {
	if !w.Matches(path) {
		return fmt.Errorf("%s: %w", path, ErrNotReport)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat report: %w", err)
	}
	if w.maxBytes > 0 && info.Size() > w.maxBytes {
		return fmt.Errorf("%s has %d bytes, limit is %d: %w", path, info.Size(), w.maxBytes, ErrTooLarge)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}
	w.UpdateFile(path, content)
	return nil
}

// UpdateFile parses content and stores it as the report for path,
// replacing any previous version.
func (w *Workspace) UpdateFile(path string, content []byte) *Report {
	opts := append([]parser.Option{parser.WithFile(filepath.Base(path))}, w.options...)
	doc := parser.Parse(content, opts...)
	report := &Report{
		Path:    path,
		Content: content,
		Doc:     doc,
		Tokens:  doc.Leaves(),
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.files[path] = report
	log.Debugf("parsed %s: %d sections, %d tokens", path, len(doc.Sections()), len(report.Tokens))
	return report
}

func (w *Workspace) RemoveFile(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.files, path)
}

func (w *Workspace) GetFile(path string) *Report {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.files[path]
}

// Files returns all reports ordered by path.
func (w *Workspace) Files() []*Report {
	w.mu.RLock()
	defer w.mu.RUnlock()
	result := make([]*Report, 0, len(w.files))
	for _, r := range w.files {
		result = append(result, r)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Path < result[j].Path
	})
	return result
}

// Find returns the report whose path relative to the root directory, or
// whose base name, equals name.
func (w *Workspace) Find(name string) *Report {
	var byBase *Report
	for _, r := range w.Files() {
		if r.Name(w.rootDir) == name {
			return r
		}
		if byBase == nil && filepath.Base(r.Path) == name {
			byBase = r
		}
	}
	return byBase
}

// Name returns the report path relative to root, with forward slashes.
func (r *Report) Name(root string) string {
	rel, err := filepath.Rel(root, r.Path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.Base(r.Path)
	}
	return filepath.ToSlash(rel)
}

// TokenAt returns the token covering offset and the first non-blank token
// after it.
func (r *Report) TokenAt(offset int) (parser.Token, *parser.Token, bool) {
	i := sort.Search(len(r.Tokens), func(i int) bool {
		return r.Tokens[i].Span.End.Offset > offset
	})
	if i >= len(r.Tokens) || r.Tokens[i].Span.Start.Offset > offset {
		return parser.Token{}, nil, false
	}
	for j := i + 1; j < len(r.Tokens); j++ {
		if r.Tokens[j].Category != parser.WhiteSpace {
			next := r.Tokens[j]
			return r.Tokens[i], &next, true
		}
	}
	return r.Tokens[i], nil, true
}
