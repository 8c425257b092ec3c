// Package modules describes the Module Repository external collaborator
// (spec §6): a catalog of runtime-imported function signatures, supplied by
// the front end, keyed by the module names an ast.Root lists as included.
package modules

// Signature is one external function's calling shape, as cataloged by the
// runtime imports module. Types are named rather than ctypes.DataType so
// the repository has no dependency on the analyzer's internal type model;
// internal/sema resolves the names against its own primitive set when a
// translation unit first references the function, and the Driver copies the
// resolved signature into ir.Root.ExternalFunctions.
type Signature struct {
	Name       string
	ParamTypes []string // e.g. "signed int", "pointer", "double"
	ReturnType string   // "" means void
}

// Module is one named collection of functions a translation unit can import.
type Module struct {
	Name      string
	Functions map[string]Signature
}

// Repository maps module name to Module, as passed into driver.Process.
type Repository struct {
	Modules map[string]Module
}

// NewRepository returns an empty repository.
func NewRepository() *Repository {
	return &Repository{Modules: make(map[string]Module)}
}

// Lookup finds a function signature, searching only the named modules (the
// ones the translation unit actually included).
func (r *Repository) Lookup(includedModules []string, funcName string) (Signature, bool) {
	for _, name := range includedModules {
		mod, ok := r.Modules[name]
		if !ok {
			continue
		}
		if sig, ok := mod.Functions[funcName]; ok {
			return sig, true
		}
	}
	return Signature{}, false
}
