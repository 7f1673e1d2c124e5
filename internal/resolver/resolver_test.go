package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFS answers existence checks from a fixed set and records the probe order.
type fakeFS struct {
	files  map[string]bool
	probed []string
}

func (f *fakeFS) exists(path string) bool {
	f.probed = append(f.probed, path)
	return f.files[path]
}

func fakeAbs(path string) (string, error) {
	return filepath.Join(string(filepath.Separator)+"srv", "docproc", path), nil
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"uploads/doc.pdf", filepath.Join("uploads", "doc.pdf")},
		{"./uploads/../uploads/doc.pdf", filepath.Join("uploads", "doc.pdf")},
		{`uploads\doc.pdf`, filepath.Join("uploads", "doc.pdf")},
		{"uploads//nested/./doc.pdf", filepath.Join("uploads", "nested", "doc.pdf")},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), tt.in)
	}
}

func TestResolveProbeOrder(t *testing.T) {
	fs := &fakeFS{files: map[string]bool{}}
	r := New("backend", WithExists(fs.exists), WithAbs(fakeAbs))

	got := r.Resolve("./uploads/doc.pdf")

	rel := filepath.Join("uploads", "doc.pdf")
	assert.Equal(t, rel, got, "unresolved path falls back to the normalized input")
	assert.Equal(t, []string{
		rel,
		filepath.Join("..", "backend", rel),
		filepath.Join("..", rel),
		filepath.Join(string(filepath.Separator)+"srv", "docproc", rel),
	}, fs.probed)
}

func TestResolvePrefersBackendSibling(t *testing.T) {
	rel := filepath.Join("uploads", "doc.pdf")
	backend := filepath.Join("..", "backend", rel)
	parent := filepath.Join("..", rel)

	fs := &fakeFS{files: map[string]bool{backend: true, parent: true}}
	r := New("backend", WithExists(fs.exists), WithAbs(fakeAbs))

	assert.Equal(t, backend, r.Resolve("./uploads/doc.pdf"))
	assert.Len(t, fs.probed, 2, "probing stops at the first existing candidate")
}

func TestResolveCustomBackendDir(t *testing.T) {
	rel := filepath.Join("uploads", "doc.pdf")
	want := filepath.Join("..", "api", rel)

	fs := &fakeFS{files: map[string]bool{want: true}}
	r := New("api", WithExists(fs.exists), WithAbs(fakeAbs))

	assert.Equal(t, want, r.Resolve(rel))
}

func TestResolveAbsolutePathUntouched(t *testing.T) {
	fs := &fakeFS{files: map[string]bool{}}
	r := New("backend", WithExists(fs.exists))

	abs := filepath.Join(string(filepath.Separator)+"data", "missing.pdf")
	assert.Equal(t, abs, r.Resolve(abs))
	assert.Empty(t, fs.probed, "absolute paths are not probed")
}

func TestResolveOnDisk(t *testing.T) {
	// Layout: <tmp>/service (cwd) and <tmp>/backend/uploads/doc.pdf
	root := t.TempDir()
	service := filepath.Join(root, "service")
	require.NoError(t, os.MkdirAll(service, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "backend", "uploads"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "backend", "uploads", "doc.pdf"), []byte("%PDF-1.4"), 0o644))

	t.Chdir(service)

	r := New("backend")
	got := r.Resolve("./uploads/doc.pdf")

	assert.Equal(t, filepath.Join("..", "backend", "uploads", "doc.pdf"), got)
	_, err := os.Stat(got)
	assert.NoError(t, err)
}

func TestAllowed(t *testing.T) {
	root := t.TempDir()
	inside := filepath.Join(root, "uploads", "doc.pdf")
	outside := filepath.Join(filepath.Dir(root), "elsewhere.pdf")

	open := New("backend")
	assert.True(t, open.Allowed(outside), "no roots configured allows everything")

	r := New("backend", WithAllowedRoots(root))
	assert.True(t, r.Allowed(inside))
	assert.True(t, r.Allowed(root))
	assert.False(t, r.Allowed(outside))
	assert.False(t, r.Allowed(filepath.Join(root, "..", "escape.pdf")))
}
