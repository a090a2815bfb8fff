package store

import "time"

// File is one indexed Kotlin source file.
type File struct {
	ID          int64
	Path        string
	Hash        string
	LineCount   int
	LastIndexed time.Time
}

// Decl is one callable declaration: a function, constructor, class,
// property, or parameter. Container is the enclosing class or object name,
// empty for top-level declarations. Receiver is the extension receiver type
// expression, empty for non-extensions.
type Decl struct {
	ID           int64
	FileID       int64
	Name         string
	Kind         string
	Container    string
	Receiver     string
	ReturnType   string
	IsOperator   bool
	StartLine    int
	StartCol     int
	EndLine      int
	EndCol       int
	ParentDeclID *int64
}

// Declaration kinds stored in decls.kind.
const (
	KindFunction    = "function"
	KindConstructor = "constructor"
	KindClass       = "class"
	KindProperty    = "property"
	KindParameter   = "parameter"
)

// DeclParam is one parameter of a function or constructor declaration.
type DeclParam struct {
	ID         int64
	DeclID     int64
	Name       string
	Ordinal    int
	TypeExpr   string
	HasDefault bool
}
