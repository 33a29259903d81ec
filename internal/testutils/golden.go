package testutils

import (
	"github.com/pmezard/go-difflib/difflib"
	"os"
	"path/filepath"
	"testing"
)

// CheckGoldenFile compares actual with the contents of the golden file. A missing
// golden file is created from actual.
func CheckGoldenFile(t *testing.T, actual []byte, path string) {
	t.Helper()

	expect, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, actual, 0600); err != nil {
			t.Fatal(err)
		}
		return
	} else if err != nil {
		t.Error(err)
		return
	}

	if string(expect) != string(actual) {
		diff := difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(expect)),
			B:        difflib.SplitLines(string(actual)),
			FromFile: path,
			ToFile:   "actual",
			Context:  5,
		}
		d, err := difflib.GetUnifiedDiffString(diff)
		if err != nil {
			t.Fatal(err)
		}
		t.Error(d)
	}
}
