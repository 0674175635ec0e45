package mods

// ManoModule represents a Mano project -- specifically, the contents of its
// `mano-mod.toml` file.
type ManoModule struct {
	// Name is the name of the module
	Name string

	// ModuleRoot is the path to the root directory of the module
	ModuleRoot string

	// EntryFile is the path of the source file to compile, relative to the
	// module root
	EntryFile string

	// LogLevel is the default log level for builds of this module; the CLI
	// flag overrides it
	LogLevel string
}
