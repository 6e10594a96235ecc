// Package config holds build-wide constants shared across the compiler, VM
// and CLI: the version string, recognized source extensions and the names
// of the fixed native functions and of the main entry-point function.
package config

// Version is the current Squat version.
var Version = "0.1.0"

const SourceFileExt = ".squat"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".squat"}

// TrimSourceExt removes the recognized source extension from a filename.
// Returns the original string if no extension matches.
func TrimSourceExt(name string) string {
	if HasSourceExt(name) {
		return name[:len(name)-len(SourceFileExt)]
	}
	return name
}

// HasSourceExt returns true if path ends with a recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// Fixed native function names (component N of the spec).
const (
	PrintFuncName      = "print"
	PrintlnFuncName    = "println"
	LenFuncName        = "len"
	TypeFuncName       = "type"
	PanicFuncName      = "panic"
	ClockFuncName      = "clock"
	UUIDFuncName       = "uuid"
	IsTerminalFuncName = "isTerminal"
	ToYAMLFuncName     = "toYaml"
	FromYAMLFuncName   = "fromYaml"
	HumanizeBytesFunc  = "humanizeBytes"
)

// MainFuncName is the single entry point every program must define.
const MainFuncName = "main"
