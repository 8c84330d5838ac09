// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestMustSetenv_Restores(t *testing.T) {
	const key = "LINTCFG_TESTUTIL_VAR"

	cleanup := MustUnsetenv(t, key)
	restore := MustSetenv(t, key, "one")
	if got := os.Getenv(key); got != "one" {
		t.Fatalf("Getenv = %q, want one", got)
	}
	restore()
	if _, ok := os.LookupEnv(key); ok {
		t.Error("MustSetenv cleanup should unset a variable that was not set")
	}
	cleanup()
}

func TestWriteManifest(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "app")
	path := WriteManifest(t, dir, map[string]string{"vue": "^3.0.1"}, nil)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("manifest is not JSON: %v", err)
	}
	if doc["name"] != "app" {
		t.Errorf("name = %v, want app", doc["name"])
	}
	if _, ok := doc["devDependencies"]; ok {
		t.Error("nil devDependencies should be omitted")
	}
	deps, _ := doc["dependencies"].(map[string]any)
	if deps["vue"] != "^3.0.1" {
		t.Errorf("dependencies = %v", doc["dependencies"])
	}
}
