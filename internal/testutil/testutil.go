// Package testutil provides shared helpers for building patch graphs and
// fixture files in tests.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HelveticaScenario/modular-sub001/internal/patch"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Module builds a module descriptor with an inferred id origin.
func Module(id, moduleType string, params map[string]patch.Param) *patch.Module {
	if params == nil {
		params = map[string]patch.Param{}
	}
	return &patch.Module{ID: id, Type: moduleType, Params: params}
}

// Graph builds a patch graph from modules in the given order.
func Graph(modules ...*patch.Module) *patch.Graph {
	return &patch.Graph{Modules: modules}
}

// WriteFiles materializes the given name->content map into a fresh temp
// directory and returns its path.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}
