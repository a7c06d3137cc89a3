package tutorial

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed variants
var builtinFS embed.FS

// Builtin loads the built-in variant with the given name.
func Builtin(name string) (*Variant, error) {
	file := path.Join("variants", name+".toml")
	if _, err := fs.Stat(builtinFS, file); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("tutorial: no built-in variant %q (have %s)", name, strings.Join(BuiltinNames(), ", "))
	}
	return Load(builtinFS, file)
}

// BuiltinNames lists the built-in variants in sorted order.
func BuiltinNames() []string {
	entries, err := fs.ReadDir(builtinFS, "variants")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".toml" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".toml"))
	}
	sort.Strings(names)
	return names
}

// BuiltinFS exposes the embedded variant tree, rooted at "variants".
func BuiltinFS() fs.FS {
	sub, err := fs.Sub(builtinFS, "variants")
	if err != nil {
		panic(err)
	}
	return sub
}
