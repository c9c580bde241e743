package dirs

import (
	"path/filepath"
	"runtime"
	"testing"
)

func TestConfigDir_XDG(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME is only honoured on linux")
	}
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", base)

	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir: %v", err)
	}
	if want := filepath.Join(base, "tifpng"); got != want {
		t.Errorf("ConfigDir() = %q, want %q", got, want)
	}

	files, err := ConfigFiles()
	if err != nil {
		t.Fatalf("ConfigFiles: %v", err)
	}
	if len(files) != len(ConfigExts) || files[0] != filepath.Join(base, "tifpng", "config.yaml") {
		t.Errorf("ConfigFiles() = %v", files)
	}
}

func TestEnsure(t *testing.T) {
	if err := Ensure(""); err == nil {
		t.Error("Ensure(\"\") should fail")
	}
	p := filepath.Join(t.TempDir(), "a", "b")
	if err := Ensure(p); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if err := Ensure(p); err != nil {
		t.Errorf("second Ensure: %v", err)
	}
}
