package mods

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml"

	"mano/common"
)

// tomlModuleFile represents the module file as it is encoded in TOML
type tomlModuleFile struct {
	Module *tomlModule `toml:"module"`
}

// tomlModule represents a Mano module as it is encoded in TOML
type tomlModule struct {
	Name      string `toml:"name"`
	EntryFile string `toml:"entry-file"`
	LogLevel  string `toml:"log-level,omitempty"`
	Version   string `toml:"mano-version,omitempty"`
}

// LoadModule loads and validates a module.  `path` is the path to the module
// directory containing the `mano-mod.toml` file.
func LoadModule(path string) (*ManoModule, error) {
	f, err := os.Open(filepath.Join(path, common.ModuleFileName))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buff, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, err
	}

	tmf := &tomlModuleFile{}
	if err := toml.Unmarshal(buff, tmf); err != nil {
		return nil, err
	}

	mod := &ManoModule{ModuleRoot: path}
	if err := validateModule(mod, tmf.Module); err != nil {
		return nil, err
	}

	mod.Name = tmf.Module.Name
	mod.EntryFile = tmf.Module.EntryFile
	mod.LogLevel = tmf.Module.LogLevel
	return mod, nil
}

// validateModule checks that the top level module contents are valid
func validateModule(mod *ManoModule, tmod *tomlModule) error {
	if tmod == nil {
		return fmt.Errorf("missing [module] table in module at %s", mod.ModuleRoot)
	}

	if tmod.Name == "" {
		return fmt.Errorf("missing module name for module at %s", mod.ModuleRoot)
	}

	if tmod.EntryFile == "" {
		return fmt.Errorf("missing entry file for module at %s", mod.ModuleRoot)
	}

	if !strings.HasSuffix(tmod.EntryFile, common.SrcFileExtension) {
		return fmt.Errorf("entry file must have the `%s` extension", common.SrcFileExtension)
	}

	return nil
}

// InitModule writes a fresh module file into the given directory.  It refuses
// to overwrite an existing one.
func InitModule(name, path string) error {
	modFilePath := filepath.Join(path, common.ModuleFileName)
	if _, err := os.Stat(modFilePath); err == nil {
		return fmt.Errorf("module already exists at %s", path)
	}

	tmf := tomlModuleFile{Module: &tomlModule{
		Name:      name,
		EntryFile: "main" + common.SrcFileExtension,
		Version:   common.ManoVersion,
	}}

	buff, err := toml.Marshal(tmf)
	if err != nil {
		return err
	}

	return ioutil.WriteFile(modFilePath, buff, 0644)
}
