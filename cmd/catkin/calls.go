package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jward/catkin"
	"github.com/spf13/cobra"
)

var callsCmd = &cobra.Command{
	Use:   "calls <file.kt>",
	Short: "List every resolved call target in a Kotlin file",
	Long:  "Resolves all call shapes in a file (calls, operators, compound assignments, destructuring, for loops) and prints each target in evaluation order.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCalls,
}

var unresolvedCmd = &cobra.Command{
	Use:   "unresolved <file.kt>",
	Short: "List call sites the oracle could not resolve",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnresolved,
}

// openForFile creates an Engine against the repo's database and ensures the
// given file itself is indexed, so same-file declarations resolve even when
// `catkin index` was never run.
func openForFile(ctx context.Context, path string) (*catkin.Engine, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("file not found: %s", abs)
	}

	repoRoot := findRepoRoot(filepath.Dir(abs))
	dbPath := resolveDBPath(repoRoot)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", filepath.Dir(dbPath), err)
	}

	engine, err := catkin.New(dbPath, engineOptions()...)
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	if err := engine.IndexFiles(ctx, []string{abs}); err != nil {
		engine.Close()
		return nil, fmt.Errorf("indexing %s: %w", abs, err)
	}
	return engine, nil
}

// targetCollector gathers both resolved targets and unresolved call sites
// during one traversal.
type targetCollector struct {
	targets    []CLICallTarget
	unresolved []CLIUnresolvedCall
}

func (c *targetCollector) ProcessCallTarget(t catkin.CallTarget) bool {
	sym := t.Symbol()
	shape := "variable_access"
	if _, ok := t.(catkin.FunctionCallTarget); ok {
		shape = "function_call"
	}
	switch t.Call().(type) {
	case *catkin.DelegatedConstructorCall:
		shape = "delegated_constructor"
	case *catkin.CompoundVariableAccess, *catkin.CompoundArrayAccess:
		shape = "compound_" + shape
	}
	anchor := t.Anchor()
	c.targets = append(c.targets, CLICallTarget{
		Line:       anchor.StartLine(),
		Col:        anchor.StartCol(),
		Shape:      shape,
		Name:       sym.Name,
		SymbolKind: sym.Kind.String(),
		Builtin:    sym.Builtin,
		DeclFile:   sym.File,
		DeclLine:   sym.Line,
		Anchor:     anchor.Text(),
	})
	return true
}

func (c *targetCollector) ProcessUnresolvedCall(node catkin.Node, info *catkin.CallInfo) bool {
	u := CLIUnresolvedCall{
		Line: node.StartLine(),
		Col:  node.StartCol(),
		Text: node.Text(),
	}
	if info != nil {
		u.Diagnostic = info.Diagnostic
		for _, cand := range info.Candidates {
			u.Candidates = append(u.Candidates, fmt.Sprintf("%s (%s)", cand.Name, cand.Kind))
		}
	}
	c.unresolved = append(c.unresolved, u)
	return true
}

func collectFile(path string) (*targetCollector, error) {
	ctx := context.Background()
	engine, err := openForFile(ctx, path)
	if err != nil {
		return nil, err
	}
	defer engine.Close()

	tree, err := engine.ParseFile(ctx, path)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	col := &targetCollector{}
	if err := engine.Resolver().ProcessExpressionsRecursively(ctx, tree.Root(), col); err != nil {
		return nil, fmt.Errorf("resolving: %w", err)
	}
	return col, nil
}

func runCalls(cmd *cobra.Command, args []string) error {
	col, err := collectFile(args[0])
	if err != nil {
		return outputError("calls", err)
	}
	n := len(col.targets)
	return outputResult(CLIResult{Command: "calls", Results: col.targets, TotalCount: &n})
}

func runUnresolved(cmd *cobra.Command, args []string) error {
	col, err := collectFile(args[0])
	if err != nil {
		return outputError("unresolved", err)
	}
	n := len(col.unresolved)
	return outputResult(CLIResult{Command: "unresolved", Results: col.unresolved, TotalCount: &n})
}
