// Package resolver maps a possibly relative file path, as forwarded by the
// uploading backend, to a file that exists on disk.
//
// The caller and this service can run with different working directories,
// so a relative path is probed against a fixed, ordered list of candidate
// locations. This is a best-effort heuristic, not a security boundary: use
// Allowed with configured roots when inputs are untrusted.
package resolver

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BerylCAtieno/document-processing-service/internal/utils"
)

// Resolver probes candidate locations for relative paths.
type Resolver struct {
	backendDir string
	roots      []string
	exists     func(path string) bool
	abs        func(path string) (string, error)
	logger     *utils.Logger
}

type Option func(*Resolver)

// WithAllowedRoots restricts Allowed to paths under the given directories.
func WithAllowedRoots(roots ...string) Option {
	return func(r *Resolver) {
		for _, root := range roots {
			if root == "" {
				continue
			}
			abs, err := filepath.Abs(Normalize(root))
			if err != nil {
				continue
			}
			if real, err := filepath.EvalSymlinks(abs); err == nil {
				abs = real
			}
			r.roots = append(r.roots, abs)
		}
	}
}

// WithExists replaces the filesystem probe.
func WithExists(fn func(path string) bool) Option {
	return func(r *Resolver) { r.exists = fn }
}

// WithAbs replaces the absolute-path function used for the last candidate.
func WithAbs(fn func(path string) (string, error)) Option {
	return func(r *Resolver) { r.abs = fn }
}

func WithLogger(logger *utils.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

func New(backendDir string, opts ...Option) *Resolver {
	if backendDir == "" {
		backendDir = "backend"
	}
	r := &Resolver{
		backendDir: backendDir,
		exists:     fileExists,
		abs:        filepath.Abs,
		logger:     utils.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Normalize unifies separators and collapses "." and ".." segments.
func Normalize(path string) string {
	path = strings.ReplaceAll(path, `\`, "/")
	return filepath.Clean(filepath.FromSlash(path))
}

// Candidates returns the probe order for a path. Absolute paths have a
// single candidate.
func (r *Resolver) Candidates(path string) []string {
	normalized := Normalize(path)
	if filepath.IsAbs(normalized) {
		return []string{normalized}
	}

	candidates := []string{
		normalized,
		filepath.Join("..", r.backendDir, normalized),
		filepath.Join("..", normalized),
	}
	if abs, err := r.abs(normalized); err == nil {
		candidates = append(candidates, filepath.Clean(abs))
	}
	return candidates
}

// Resolve returns the first candidate that exists, or the normalized input
// when none does. It never fails; the existence check that matters is done by
// the extractor.
func (r *Resolver) Resolve(path string) string {
	normalized := Normalize(path)
	if filepath.IsAbs(normalized) {
		return normalized
	}

	for _, candidate := range r.Candidates(normalized) {
		found := r.exists(candidate)
		r.logger.Debug("Checking path", "candidate", candidate, "exists", found)
		if found {
			return candidate
		}
	}

	r.logger.Debug("No candidate path exists", "path", normalized)
	return normalized
}

// Allowed reports whether path lies under one of the allowed roots. Without
// configured roots every path is allowed.
func (r *Resolver) Allowed(path string) bool {
	if len(r.roots) == 0 {
		return true
	}

	abs, err := r.abs(Normalize(path))
	if err != nil {
		return false
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}

	for _, root := range r.roots {
		rel, err := filepath.Rel(root, abs)
		if err != nil {
			continue
		}
		if rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))) {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
