// SPDX-License-Identifier: MPL-2.0

// Package manifest reads the dependency sections of package.json files.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/lintcfg/lintcfg/pkg/semverrange"
)

// FileName is the manifest file looked up in each directory.
const FileName = "package.json"

const (
	// ScopeProduction marks a range found under "dependencies".
	ScopeProduction Scope = "dependencies"
	// ScopeDevelopment marks a range found under "devDependencies".
	ScopeDevelopment Scope = "devDependencies"
)

var (
	// ErrNotFound means the directory has no manifest file.
	ErrNotFound = errors.New("manifest not found")
	// ErrUnreadable means the manifest exists but could not be read
	// (permissions, a directory in its place, I/O failure).
	ErrUnreadable = errors.New("manifest unreadable")
	// ErrMalformed means the manifest is not valid JSON.
	ErrMalformed = errors.New("manifest malformed")

	errIsDir = errors.New("is a directory")
)

type (
	// Scope identifies which dependency section a range came from.
	Scope string

	// Manifest holds the dependency sections of a package.json.
	Manifest struct {
		Dependencies    map[string]semverrange.Expr
		DevDependencies map[string]semverrange.Expr
	}

	// ReadError describes why a directory did not yield a manifest. Kind is
	// one of ErrNotFound, ErrUnreadable or ErrMalformed; both Kind and the
	// underlying cause are reachable through errors.Is.
	ReadError struct {
		Path string
		Kind error
		Err  error
	}
)

// Error implements the error interface.
func (e *ReadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Path, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Path, e.Kind, e.Err)
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *ReadError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// String returns the section name as written in package.json.
func (s Scope) String() string { return string(s) }

// Path returns the manifest path inside dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Read loads the manifest in dir from fsys.
func Read(fsys afero.Fs, dir string) (*Manifest, error) {
	path := Path(dir)

	info, err := fsys.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ReadError{Path: path, Kind: ErrNotFound}
		}
		return nil, &ReadError{Path: path, Kind: ErrUnreadable, Err: err}
	}
	if info.IsDir() {
		return nil, &ReadError{Path: path, Kind: ErrUnreadable, Err: errIsDir}
	}

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, &ReadError{Path: path, Kind: ErrUnreadable, Err: err}
	}

	m, err := Decode(data)
	if err != nil {
		return nil, &ReadError{Path: path, Kind: ErrMalformed, Err: err}
	}
	return m, nil
}

// Decode parses manifest JSON. Only invalid JSON is an error. Fields other
// than the two dependency sections are ignored whatever their type, a section
// that is not an object declares nothing, and so does an entry whose value
// is not a string.
func Decode(data []byte) (*Manifest, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	obj, _ := doc.(map[string]any)
	return &Manifest{
		Dependencies:    section(obj[string(ScopeProduction)]),
		DevDependencies: section(obj[string(ScopeDevelopment)]),
	}, nil
}

func section(v any) map[string]semverrange.Expr {
	entries, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]semverrange.Expr, len(entries))
	for name, raw := range entries {
		if expr, ok := raw.(string); ok {
			out[name] = semverrange.Expr(expr)
		}
	}
	return out
}

// Lookup returns the version range declared for name. "dependencies" is
// consulted first; "devDependencies" only when includeDev is set. An empty
// range string counts as not declared.
func (m *Manifest) Lookup(name string, includeDev bool) (semverrange.Expr, Scope, bool) {
	if expr := m.Dependencies[name]; expr != "" {
		return expr, ScopeProduction, true
	}
	if includeDev {
		if expr := m.DevDependencies[name]; expr != "" {
			return expr, ScopeDevelopment, true
		}
	}
	return "", "", false
}
