// Package catkin provides deterministic, scope-aware call-site resolution
// for Kotlin, built on tree-sitter. It presents every flavor of Kotlin call
// as a uniform stream of call targets: plain calls, operator conventions
// (indexing, unary, binary), compound assignment, destructuring componentN
// calls, and the for-loop iteration protocol.
//
// # Pipeline
//
// Catkin operates in two phases:
//
//  1. Index: parse each Kotlin file with tree-sitter, extract its callable
//     declarations (functions, classes with constructors, properties), and
//     write them to SQLite. Builtin declarations come from a Risor stub
//     script evaluated at startup.
//
//  2. Resolve: feed syntax nodes to a [CallResolver], which classifies each
//     node's call shape, resolves it against the declaration index, the
//     lexical scope of the live tree, and the builtin stubs, and dispatches
//     [CallTarget] values to a [CallTargetProcessor].
//
// # Usage
//
// Create an Engine, index a project, then resolve calls in a parsed file:
//
//	e, err := catkin.New("catkin.db")
//	if err != nil { ... }
//	defer e.Close()
//
//	ctx := context.Background()
//	err = e.IndexDirectory(ctx, "path/to/project")
//
//	tree, err := e.ParseFile(ctx, "Main.kt")
//	defer tree.Close()
//
//	r := e.Resolver()
//	err = r.ProcessTargetsRecursively(ctx, tree.Root(), func(t catkin.CallTarget) {
//	    fmt.Println(t.Symbol().Name)
//	})
//
// # Call shapes
//
// One syntax node can stand for several calls. A compound assignment like
// `x += y` yields the variable access and the plus operator; `a[i] += y`
// yields the get and set operator functions. The resolver emits one
// [CallTarget] per underlying call, in evaluation order, and suppresses the
// duplicate targets that nested references would otherwise produce (the
// callee name inside a call expression never resolves on its own).
//
// # Resolution model
//
// The bundled oracle is name-based: locals and parameters resolve from the
// live tree's lexical scope, everything else from the SQLite index and the
// builtin stubs, first function-like or variable-like candidate wins. It
// does not perform type inference; where Kotlin overload resolution would
// disambiguate by argument types, catkin reports the candidates it found.
// A custom [Analyzer] can replace the bundled oracle entirely.
//
// # Incremental indexing
//
// [Engine.IndexFiles] detects unchanged files via content hashing and skips
// them. [Engine.StubsChanged] reports when the builtin stub script differs
// from the one the database was built with, signalling a full reindex.
package catkin
