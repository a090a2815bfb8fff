package catkin

import (
	"github.com/jward/catkin/internal/store"
	"github.com/jward/catkin/internal/syntax"
)

// Public type aliases for internal types used across the library API. These
// are Go type aliases (=), identical to the internal types at compile time.
// External consumers use these names; no conversion is needed.

type Node = syntax.Node
type Tree = syntax.Tree
type Parser = syntax.Parser
type NodeKind = syntax.Kind

type Store = store.Store
type File = store.File
type Decl = store.Decl
type DeclParam = store.DeclParam
