// Package pysource extracts the documented surface of a Python module
// (module docstring, classes, methods, top-level functions) by walking its
// syntax tree. Source is never executed.
package pysource

import "strings"

// ModuleDescription is the documented surface of one module. An empty
// Docstring means the module has none.
type ModuleDescription struct {
	Docstring string
	Classes   []ClassDescription
	Functions []FunctionDescription
}

// IsEmpty reports whether the module has nothing to document.
func (m *ModuleDescription) IsEmpty() bool {
	return m == nil || (len(m.Classes) == 0 && len(m.Functions) == 0)
}

// ClassDescription describes a public class. Private classes are dropped by
// the reader; private methods are kept and filtered by the renderer.
type ClassDescription struct {
	Name      string
	Docstring string
	IsPrivate bool
	Methods   []MethodDescription
}

// FunctionDescription describes a top-level function or a method.
// Parameters are the positional-or-keyword names in declaration order.
type FunctionDescription struct {
	Name       string
	Docstring  string
	Parameters []string
	IsPrivate  bool
}

// MethodDescription shares the shape of a function.
type MethodDescription = FunctionDescription

// PublicMethods returns the methods whose names are not private.
func (c ClassDescription) PublicMethods() []MethodDescription {
	out := make([]MethodDescription, 0, len(c.Methods))
	for _, m := range c.Methods {
		if !m.IsPrivate {
			out = append(out, m)
		}
	}
	return out
}

// Signature renders "name(a, b)".
func (f FunctionDescription) Signature() string {
	return f.Name + "(" + strings.Join(f.Parameters, ", ") + ")"
}

const privacyMarker = "_"

// IsDunder reports whether name has the __name__ form.
func IsDunder(name string) bool {
	return len(name) > 4 && strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__")
}

// IsPrivateName reports whether name starts with the privacy marker and is not a dunder.
func IsPrivateName(name string) bool {
	return strings.HasPrefix(name, privacyMarker) && !IsDunder(name)
}

// isMagicMethodName reports whether a method name starts with a double
// privacy marker. Both dunder methods and name-mangled methods are skipped.
func isMagicMethodName(name string) bool {
	return strings.HasPrefix(name, privacyMarker+privacyMarker)
}
