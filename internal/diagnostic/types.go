package diagnostic

import (
	"errors"
	"strings"

	"failover-constructor/internal/common"
)

// Severity tells whether a diagnostic blocks building the catalog.
type Severity int

const (
	Warning Severity = iota + 1
	Error
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return common.UnknownStr
	}
}

// Diagnostic is one problem found in a catalog.
type Diagnostic struct {
	Severity Severity
	// Code is stable across releases, e.g. "unknown_parent".
	Code    string
	Message string
	// Class and Attribute locate the problem; both may be empty.
	Class     string
	Attribute string
	// Suggestions are close matches for an unknown name.
	Suggestions []string
}

// String renders "[Class] attribute: [code] message (did you mean: a, b)".
func (d Diagnostic) String() string {
	var b strings.Builder

	if d.Class != "" {
		b.WriteString("[" + d.Class + "]")
	}

	if d.Attribute != "" {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}

		b.WriteString(d.Attribute)
	}

	if b.Len() > 0 {
		b.WriteString(": ")
	}

	if d.Code != "" {
		b.WriteString("[" + d.Code + "] ")
	}

	b.WriteString(d.Message)

	if len(d.Suggestions) > 0 {
		b.WriteString(" (did you mean: " + strings.Join(d.Suggestions, ", ") + ")")
	}

	return b.String()
}

// Diagnostics collects the outcome of validating a catalog.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
}

func (d *Diagnostics) AddError(code, message, class, attribute string) {
	d.Add(Diagnostic{Severity: Error, Code: code, Message: message, Class: class, Attribute: attribute})
}

func (d *Diagnostics) AddWarning(code, message, class, attribute string) {
	d.Add(Diagnostic{Severity: Warning, Code: code, Message: message, Class: class, Attribute: attribute})
}

// Add files diag under Errors or Warnings by its severity. Anything that is
// not an error is kept as a warning.
func (d *Diagnostics) Add(diag Diagnostic) {
	if diag.Severity == Error {
		d.Errors = append(d.Errors, diag)
		return
	}

	diag.Severity = Warning
	d.Warnings = append(d.Warnings, diag)
}

// All returns errors first, then warnings.
func (d *Diagnostics) All() []Diagnostic {
	return append(append([]Diagnostic(nil), d.Errors...), d.Warnings...)
}

func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Error joins the error diagnostics with "; ", or returns nil without any.
func (d *Diagnostics) Error() error {
	if !d.HasErrors() {
		return nil
	}

	parts := make([]string, len(d.Errors))
	for i, e := range d.Errors {
		parts[i] = e.String()
	}

	return errors.New(strings.Join(parts, "; "))
}
