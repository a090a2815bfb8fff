package catkin

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/jward/catkin/internal/store"
	"github.com/jward/catkin/internal/stubs"
	"github.com/jward/catkin/internal/syntax"
	"github.com/jward/catkin/scripts"
)

// Engine orchestrates the catkin pipeline: Kotlin file discovery, change
// detection, declaration extraction into SQLite, and call resolution over
// parsed trees.
type Engine struct {
	store    *store.Store
	parser   *syntax.Parser
	stubsFS  fs.FS
	stubPath string
	stubList []stubs.Stub
	analyzer *analyzer
}

// Option configures an Engine.
type Option func(*Engine)

// WithStubsFS configures the Engine to load its builtin stub script from the
// given filesystem instead of the embedded default. path is resolved within
// fsys.
func WithStubsFS(fsys fs.FS, path string) Option {
	return func(e *Engine) {
		e.stubsFS = fsys
		e.stubPath = path
	}
}

// New creates an Engine backed by a SQLite database at dbPath. The builtin
// stub script is evaluated once at construction; its symbols back operator
// conventions, the iteration protocol, and componentN resolution.
func New(dbPath string, opts ...Option) (*Engine, error) {
	s, err := store.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("catkin: create store: %w", err)
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, fmt.Errorf("catkin: migrate: %w", err)
	}

	e := &Engine{
		store:    s,
		parser:   syntax.NewParser(),
		stubsFS:  scripts.FS,
		stubPath: "builtins.risor",
	}
	for _, opt := range opts {
		opt(e)
	}

	e.stubList, err = stubs.LoadFS(context.Background(), e.stubsFS, e.stubPath)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("catkin: load stubs: %w", err)
	}
	e.analyzer = newAnalyzer(s, e.stubList)

	return e, nil
}

// Close releases the Engine's parser and database resources.
func (e *Engine) Close() error {
	e.parser.Close()
	return e.store.Close()
}

// Store returns the underlying Store for direct access.
func (e *Engine) Store() *Store {
	return e.store
}

// Analyzer returns the bundled semantic oracle backed by the Engine's index
// and stubs.
func (e *Engine) Analyzer() Analyzer {
	return e.analyzer
}

// Resolver returns a CallResolver over the Engine's analyzer.
func (e *Engine) Resolver() *CallResolver {
	return NewCallResolver(e.analyzer)
}

// Stubs returns the builtin stub declarations the Engine loaded.
func (e *Engine) Stubs() []stubs.Stub {
	return e.stubList
}

// Parse parses Kotlin source held in memory.
func (e *Engine) Parse(ctx context.Context, src []byte) (*syntax.Tree, error) {
	return e.parser.Parse(ctx, src)
}

// ParseFile reads and parses a Kotlin file from disk.
func (e *Engine) ParseFile(ctx context.Context, path string) (*syntax.Tree, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return e.parser.Parse(ctx, src)
}

// stubsHash computes a SHA-256 hash over the stub script so a stale index
// can be detected after the builtin set changes.
func (e *Engine) stubsHash() string {
	data, err := fs.ReadFile(e.stubsFS, e.stubPath)
	if err != nil {
		return ""
	}
	h := sha256.New()
	h.Write([]byte(e.stubPath))
	h.Write(data)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// StubsChanged reports whether the stub script differs from the one used to
// build the current database. True on first run. When true, the caller
// should reindex from scratch.
func (e *Engine) StubsChanged() bool {
	stored, err := e.store.GetMetadata("stubs_hash")
	if err != nil || stored == "" {
		return true
	}
	return e.stubsHash() != stored
}

func (e *Engine) storeStubsHash() {
	_ = e.store.SetMetadata("stubs_hash", e.stubsHash())
}

// IndexFiles indexes the given Kotlin file paths. Unchanged files (same
// content hash) are skipped. Errors on individual files are collected;
// processing continues past them.
func (e *Engine) IndexFiles(ctx context.Context, paths []string) error {
	var errs []error
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.indexFile(ctx, path); err != nil {
			errs = append(errs, fmt.Errorf("index %s: %w", path, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("indexing had %d error(s): %w", len(errs), errs[0])
	}
	// Stamp only after a clean pass, so a partially indexed database keeps
	// reporting the stubs as stale.
	e.storeStubsHash()
	return nil
}

func (e *Engine) indexFile(ctx context.Context, path string) error {
	if !isKotlinFile(path) {
		return nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	hash := fmt.Sprintf("%x", sha256.Sum256(content))

	existing, err := e.store.FileByPath(path)
	if err != nil {
		return fmt.Errorf("lookup file: %w", err)
	}
	if existing != nil && existing.Hash == hash {
		return nil // unchanged
	}
	if existing != nil {
		if err := e.store.DeleteFileData(existing.ID); err != nil {
			return fmt.Errorf("delete old data: %w", err)
		}
	}

	tree, err := e.parser.Parse(ctx, content)
	if err != nil {
		return err
	}
	defer tree.Close()

	lineCount := bytes.Count(content, []byte{'\n'}) + 1
	fileID, err := e.store.InsertFile(&store.File{
		Path:        path,
		Hash:        hash,
		LineCount:   lineCount,
		LastIndexed: time.Now(),
	})
	if err != nil {
		return err
	}

	for _, ed := range extractDecls(tree.Root()) {
		ed.decl.FileID = fileID
		declID, err := e.store.InsertDecl(&ed.decl)
		if err != nil {
			return err
		}
		for i := range ed.params {
			ed.params[i].DeclID = declID
			if _, err := e.store.InsertDeclParam(&ed.params[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

var skipDirs = map[string]bool{
	"build": true,
	"out":   true,
	".idea": true,
}

// IndexDirectory walks root and indexes all Kotlin files. If root is inside
// a git repository, uses git ls-files to respect .gitignore; falls back to a
// filesystem walk otherwise.
func (e *Engine) IndexDirectory(ctx context.Context, root string) error {
	paths, err := e.gitListFiles(root)
	if err != nil {
		paths, err = e.walkListFiles(root)
		if err != nil {
			return err
		}
	}
	return e.IndexFiles(ctx, paths)
}

// gitListFiles uses git ls-files to discover tracked and untracked (but not
// ignored) Kotlin files under root.
func (e *Engine) gitListFiles(root string) ([]string, error) {
	cmd := exec.Command("git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git ls-files: %w", err)
	}

	var paths []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		absPath := filepath.Join(root, line)
		if isKotlinFile(absPath) {
			paths = append(paths, absPath)
		}
	}
	return paths, nil
}

// walkListFiles discovers Kotlin files by walking the filesystem, skipping
// hidden and build output directories.
func (e *Engine) walkListFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if strings.HasPrefix(name, ".") && path != root || skipDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}
		if isKotlinFile(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}
	return paths, nil
}

func isKotlinFile(path string) bool {
	switch filepath.Ext(path) {
	case ".kt", ".kts":
		return true
	}
	return false
}
