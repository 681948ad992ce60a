package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/jdiemke/fragment/core"
)

func captureOutput(f func()) string {
	orig := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = orig

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func defaultTestConfig(t *testing.T) core.Config {
	t.Helper()
	return core.Config{
		OutputDir:    t.TempDir(),
		TemplatesDir: filepath.Join(t.TempDir(), "missing"),
		PublicDir:    t.TempDir(),
	}
}
