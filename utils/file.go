package utils

import (
	"path/filepath"
	"runtime"
)

// moduleRoot is the absolute path of the module, derived from this file living in utils/.
var moduleRoot = func() string {
	//nolint:dogsled
	_, thisFile, _, _ := runtime.Caller(0)
	root, err := filepath.Abs(filepath.Join(filepath.Dir(thisFile), ".."))
	if err != nil {
		panic(err)
	}
	return root
}()

// ResolveFile returns the absolute path of fn given relative to the module root, so tests can name
// fixtures such as "config/testjson/four_link.json" from any package.
func ResolveFile(fn string) string {
	return filepath.Join(moduleRoot, fn)
}
