package script

import (
	"errors"
	"fmt"
	"sort"
)

// ValidationResult represents script validation results
type ValidationResult struct {
	Valid     bool              `json:"valid"`
	Errors    []ValidationError `json:"errors,omitempty"`
	Warnings  []ValidationError `json:"warnings,omitempty"`
	Variables []string          `json:"variables"`
	Calls     []string          `json:"calls"`
}

// ValidationError represents a validation error or warning
type ValidationError struct {
	LineNumber int    `json:"line_number"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Check parses source and statically checks calls and variable use
func Check(source string) ValidationResult {
	result := ValidationResult{Valid: true}

	prog, err := Parse(source)
	if err != nil {
		result.Valid = false
		line := 0
		var se *ScriptError
		if errors.As(err, &se) {
			line = se.Line
		}
		result.Errors = append(result.Errors, ValidationError{LineNumber: line, Message: err.Error()})
		return result
	}

	assigned := make(map[string]int)
	calls := make(map[string]bool)
	type use struct {
		name string
		line int
	}
	var uses []use

	for _, s := range prog.Body {
		Walk(s, func(n Node) bool {
			switch n := n.(type) {
			case *AssignStmt:
				if _, ok := assigned[n.Name]; !ok {
					assigned[n.Name] = n.Line
				}
			case *Ident:
				uses = append(uses, use{n.Name, n.Line})
			case *StringExpr:
				for _, p := range n.Parts {
					if p.ident {
						uses = append(uses, use{p.text, n.Line})
					}
				}
			case *CallExpr:
				calls[n.Name] = true
				if err := checkArity(n.Name, len(n.Args)); err != nil {
					result.Valid = false
					ve := ValidationError{LineNumber: n.Line, Message: err.Error()}
					if _, known := builtins[n.Name]; !known {
						ve.Suggestion = "available functions: " + fmt.Sprint(sortedKeys(builtins))
					}
					result.Errors = append(result.Errors, ve)
				}
			}
			return true
		})
	}

	warned := make(map[string]bool)
	for _, u := range uses {
		if _, ok := assigned[u.name]; ok || warned[u.name] {
			continue
		}
		warned[u.name] = true
		result.Warnings = append(result.Warnings, ValidationError{
			LineNumber: u.line,
			Message:    fmt.Sprintf("variable %q is never assigned", u.name),
		})
	}

	for name := range assigned {
		result.Variables = append(result.Variables, name)
	}
	sort.Strings(result.Variables)
	for name := range calls {
		result.Calls = append(result.Calls, name)
	}
	sort.Strings(result.Calls)
	return result
}

func sortedKeys(m map[string]builtin) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
