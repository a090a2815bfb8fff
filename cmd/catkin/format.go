package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
)

func outputResult(result CLIResult) error {
	if flagFormat == "text" {
		return outputResultText(os.Stdout, result)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// outputError writes an error in the selected format and returns it so RunE
// can propagate it to Cobra. In JSON mode the error is written to stdout as a
// CLIResult envelope. In text mode it goes to stderr.
func outputError(command string, err error) error {
	errorHandled = true
	if flagFormat == "text" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return err
	}
	result := CLIResult{Command: command, Error: err.Error()}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(result)
	return err
}

func outputResultText(w io.Writer, result CLIResult) error {
	switch results := result.Results.(type) {
	case []CLICallTarget:
		formatCallTargetsText(w, results)
	case []CLIUnresolvedCall:
		formatUnresolvedText(w, results)
	default:
		fmt.Fprintf(w, "%v\n", results)
	}
	return nil
}

// formatCallTargetsText formats CLICallTarget results as aligned columns.
func formatCallTargetsText(w io.Writer, targets []CLICallTarget) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LINE:COL\tSHAPE\tNAME\tKIND\tDECL")
	for _, t := range targets {
		decl := t.DeclFile
		if decl != "" && t.DeclLine > 0 {
			decl = fmt.Sprintf("%s:%d", decl, t.DeclLine)
		}
		if t.Builtin {
			decl = "builtin"
		}
		fmt.Fprintf(tw, "%d:%d\t%s\t%s\t%s\t%s\n",
			t.Line, t.Col, t.Shape, t.Name, t.SymbolKind, decl)
	}
	tw.Flush()
}

// formatUnresolvedText formats CLIUnresolvedCall results as aligned columns.
func formatUnresolvedText(w io.Writer, calls []CLIUnresolvedCall) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LINE:COL\tTEXT\tDIAGNOSTIC\tCANDIDATES")
	for _, u := range calls {
		text := u.Text
		if len(text) > 40 {
			text = text[:37] + "..."
		}
		text = strings.ReplaceAll(text, "\n", " ")
		fmt.Fprintf(tw, "%d:%d\t%s\t%s\t%s\n",
			u.Line, u.Col, text, u.Diagnostic, strings.Join(u.Candidates, ", "))
	}
	tw.Flush()
}
