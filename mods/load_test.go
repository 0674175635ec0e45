package mods

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mano/common"
)

func writeModuleFile(t *testing.T, dir, contents string) {
	t.Helper()
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, common.ModuleFileName), []byte(contents), 0644))
}

func TestLoadModule(t *testing.T) {
	dir := t.TempDir()
	writeModuleFile(t, dir, `
[module]
name = "geometry"
entry-file = "main.mano"
log-level = "warn"
`)

	mod, err := LoadModule(dir)

	require.NoError(t, err)
	assert.Equal(t, "geometry", mod.Name)
	assert.Equal(t, "main.mano", mod.EntryFile)
	assert.Equal(t, "warn", mod.LogLevel)
	assert.Equal(t, dir, mod.ModuleRoot)
}

func TestLoadModuleMissingFile(t *testing.T) {
	_, err := LoadModule(t.TempDir())

	assert.Error(t, err)
}

func TestLoadModuleValidation(t *testing.T) {
	cases := []struct {
		name     string
		contents string
	}{
		{"no module table", `answer = 42`},
		{"missing name", "[module]\nentry-file = \"main.mano\""},
		{"missing entry file", "[module]\nname = \"geometry\""},
		{"wrong extension", "[module]\nname = \"geometry\"\nentry-file = \"main.go\""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			dir := t.TempDir()
			writeModuleFile(t, dir, c.contents)

			_, err := LoadModule(dir)
			assert.Error(t, err)
		})
	}
}

func TestInitModuleRoundTrip(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, InitModule("fresh", dir))

	mod, err := LoadModule(dir)
	require.NoError(t, err)
	assert.Equal(t, "fresh", mod.Name)
	assert.Equal(t, "main"+common.SrcFileExtension, mod.EntryFile)

	// a second init must refuse to clobber the existing module file
	assert.Error(t, InitModule("again", dir))
}
