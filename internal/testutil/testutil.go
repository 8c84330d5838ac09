// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// MustSetenv sets key to value and returns a cleanup function restoring the
// previous value (or unsetting it). Unlike t.Setenv it works outside tests,
// e.g. in benchmarks sharing one process.
func MustSetenv(t testing.TB, key, value string) func() {
	t.Helper()
	original, had := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set env %s: %v", key, err)
	}
	return restoreEnv(t, key, original, had)
}

// MustUnsetenv unsets key and returns a cleanup function restoring it.
func MustUnsetenv(t testing.TB, key string) func() {
	t.Helper()
	original, had := os.LookupEnv(key)
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("failed to unset env %s: %v", key, err)
	}
	return restoreEnv(t, key, original, had)
}

func restoreEnv(t testing.TB, key, original string, had bool) func() {
	return func() {
		var err error
		if had {
			err = os.Setenv(key, original)
		} else {
			err = os.Unsetenv(key)
		}
		if err != nil {
			t.Errorf("failed to restore env %s: %v", key, err)
		}
	}
}

// MustWriteFile writes data to path, creating parent directories.
func MustWriteFile(t testing.TB, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// WriteManifest writes a package.json into dir with the given dependency
// maps. Either map may be nil. It returns the file path.
func WriteManifest(t testing.TB, dir string, deps, devDeps map[string]string) string {
	t.Helper()
	doc := map[string]any{"name": filepath.Base(dir), "version": "1.0.0"}
	if deps != nil {
		doc["dependencies"] = deps
	}
	if devDeps != nil {
		doc["devDependencies"] = devDeps
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("failed to encode manifest: %v", err)
	}
	path := filepath.Join(dir, "package.json")
	MustWriteFile(t, path, data)
	return path
}
