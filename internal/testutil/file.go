package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile создает name во временном каталоге теста и возвращает путь.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
