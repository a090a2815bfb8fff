package main

// CLIResult is the top-level JSON envelope for all resolution commands.
type CLIResult struct {
	Command    string `json:"command"`
	Results    any    `json:"results"`
	TotalCount *int   `json:"total_count,omitempty"`
	Error      string `json:"error,omitempty"`
}

// CLICallTarget is a JSON-friendly resolved call target.
type CLICallTarget struct {
	Line       int    `json:"line"`
	Col        int    `json:"col"`
	Shape      string `json:"shape"`
	Name       string `json:"name"`
	SymbolKind string `json:"symbol_kind"`
	Builtin    bool   `json:"builtin,omitempty"`
	DeclFile   string `json:"decl_file,omitempty"`
	DeclLine   int    `json:"decl_line,omitempty"`
	Anchor     string `json:"anchor,omitempty"`
}

// CLIUnresolvedCall is a JSON-friendly unresolved call site.
type CLIUnresolvedCall struct {
	Line       int      `json:"line"`
	Col        int      `json:"col"`
	Text       string   `json:"text"`
	Diagnostic string   `json:"diagnostic,omitempty"`
	Candidates []string `json:"candidates,omitempty"`
}
