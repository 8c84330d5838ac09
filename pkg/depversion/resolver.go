// SPDX-License-Identifier: MPL-2.0

package depversion

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/lintcfg/lintcfg/pkg/manifest"
	"github.com/lintcfg/lintcfg/pkg/semverrange"
)

var (
	// ErrEmptyPackageName is returned when Resolve or Lookup is called
	// without a package name.
	ErrEmptyPackageName = errors.New("package name must not be empty")
	// ErrNoAnchor is returned when no anchor was configured and the
	// executable's directory cannot be determined.
	ErrNoAnchor = errors.New("cannot determine anchor directory")
)

type (
	// Resolver walks ancestor directories of its anchor looking for the
	// nearest manifest that declares a package.
	Resolver struct {
		anchor string
		fs     afero.Fs
		logger *log.Logger
	}

	// Option configures a Resolver.
	Option func(*Resolver)

	// Resolution is the outcome of a lookup.
	Resolution struct {
		// Package is the name that was looked up.
		Package string
		// Version is the lowest version Range admits, or 0.0.0 when the
		// package is not declared anywhere. Never nil.
		Version *semver.Version
		// Found reports whether some manifest declared the package.
		Found bool
		// Range is the declared range expression (empty when not found).
		Range semverrange.Expr
		// Scope is the dependency section the range came from.
		Scope manifest.Scope
		// ManifestPath is the package.json that declared the package.
		ManifestPath string
		// Anchor is the directory the walk started from.
		Anchor string
	}
)

// WithAnchor sets the directory the walk starts from. The anchor itself is
// never inspected; the first manifest read is the one in its parent.
func WithAnchor(dir string) Option {
	return func(r *Resolver) {
		r.anchor = dir
	}
}

// WithFs sets the filesystem manifests are read from.
func WithFs(fsys afero.Fs) Option {
	return func(r *Resolver) {
		if fsys != nil {
			r.fs = fsys
		}
	}
}

// WithLogger sets the logger used to report skipped manifests at debug level.
func WithLogger(logger *log.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a resolver. Without WithAnchor the anchor is the directory of
// the running executable.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		fs:     afero.NewOsFs(),
		logger: log.NewWithOptions(io.Discard, log.Options{Prefix: "depversion"}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DefaultAnchor returns the directory containing the running executable,
// with symlinks resolved.
func DefaultAnchor() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoAnchor, err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// MinimumDependencyVersion resolves name with a default resolver anchored at
// the running executable.
func MinimumDependencyVersion(name string, includeDev bool) (*semver.Version, error) {
	return New().Resolve(name, includeDev)
}

// Resolve returns the lowest version of name admitted by the nearest
// declaring manifest, or 0.0.0 when no ancestor declares it. The only error
// a caller sees for a well-formed tree is a malformed range string.
func (r *Resolver) Resolve(name string, includeDev bool) (*semver.Version, error) {
	res, err := r.Lookup(name, includeDev)
	if err != nil {
		return nil, err
	}
	return res.Version, nil
}

// Lookup is Resolve with provenance: it also reports where the range was
// declared and whether it was found at all.
func (r *Resolver) Lookup(name string, includeDev bool) (*Resolution, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyPackageName
	}

	anchor, err := r.anchorDir()
	if err != nil {
		return nil, err
	}

	logger := r.logger.With("package", name)
	dir := anchor
	for {
		dir = filepath.Dir(dir)

		m, err := manifest.Read(r.fs, dir)
		if err != nil {
			logger.Debug("no usable manifest", "dir", dir, "err", err)
		} else if expr, scope, ok := m.Lookup(name, includeDev); ok {
			path := manifest.Path(dir)
			v, err := semverrange.MinVersion(string(expr))
			if err != nil {
				return nil, fmt.Errorf("resolve %s from %s: %w", name, path, err)
			}
			logger.Debug("resolved", "manifest", path, "range", expr, "version", v)
			return &Resolution{
				Package:      name,
				Version:      v,
				Found:        true,
				Range:        expr,
				Scope:        scope,
				ManifestPath: path,
				Anchor:       anchor,
			}, nil
		}

		if isRoot(dir) {
			break
		}
	}

	logger.Debug("not declared by any ancestor manifest", "anchor", anchor)
	return &Resolution{
		Package: name,
		Version: semverrange.Zero(),
		Anchor:  anchor,
	}, nil
}

// Anchor returns the directory the walk starts from.
func (r *Resolver) Anchor() (string, error) {
	return r.anchorDir()
}

// SearchDirs lists, nearest first, the directories whose package.json
// Lookup consults: every ancestor of the anchor up to the filesystem root.
func (r *Resolver) SearchDirs() ([]string, error) {
	anchor, err := r.anchorDir()
	if err != nil {
		return nil, err
	}
	var dirs []string
	dir := anchor
	for {
		dir = filepath.Dir(dir)
		dirs = append(dirs, dir)
		if isRoot(dir) {
			return dirs, nil
		}
	}
}

func (r *Resolver) anchorDir() (string, error) {
	if r.anchor == "" {
		return DefaultAnchor()
	}
	abs, err := filepath.Abs(r.anchor)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoAnchor, err)
	}
	return abs, nil
}

// isRoot reports whether dir has no parent: "/" on Unix, a volume root such
// as `C:\` on Windows.
func isRoot(dir string) bool {
	return filepath.Dir(dir) == dir
}
