package fsops

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/afero"
)

func writeFiles(t *testing.T, fsys afero.Fs, paths ...string) {
	t.Helper()
	for _, p := range paths {
		if err := fsys.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatalf("MkdirAll(%s) error = %v", filepath.Dir(p), err)
		}
		if err := afero.WriteFile(fsys, p, []byte(p), 0644); err != nil {
			t.Fatalf("WriteFile(%s) error = %v", p, err)
		}
	}
}

func symlinkOrSkip(t *testing.T, target, link string) {
	t.Helper()
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
}

func TestIsDir(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, "/mods/a/data/x/file.bin")

	tests := []struct {
		path string
		want bool
	}{
		{"/mods/a/data/x", true},
		{"/mods/a/data/x/file.bin", false},
		{"/mods/missing", false},
	}

	for _, tt := range tests {
		if got := IsDir(fsys, tt.path); got != tt.want {
			t.Errorf("IsDir(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestExists(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, "/a/b.txt")

	ok, err := Exists(fsys, "/a/b.txt")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !ok {
		t.Error("expected /a/b.txt to exist")
	}

	ok, err = Exists(fsys, "/a/c.txt")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if ok {
		t.Error("expected /a/c.txt not to exist")
	}
}

func TestRegularFiles(t *testing.T) {
	fsys := afero.NewMemMapFs()
	root := filepath.FromSlash("/mods/a/data/x")
	writeFiles(t, fsys,
		filepath.Join(root, "z.bin"),
		filepath.Join(root, "btl", "kernel.bin"),
		filepath.Join(root, "a", "b", "c.dat"),
	)
	if err := fsys.MkdirAll(filepath.Join(root, "empty"), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	files, err := RegularFiles(fsys, root, nil)
	if err != nil {
		t.Fatalf("RegularFiles() error = %v", err)
	}

	want := []string{
		filepath.Join(root, "a", "b", "c.dat"),
		filepath.Join(root, "btl", "kernel.bin"),
		filepath.Join(root, "z.bin"),
	}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("RegularFiles() = %v, want %v", files, want)
	}
}

func TestRegularFiles_MissingRoot(t *testing.T) {
	fsys := afero.NewMemMapFs()

	_, err := RegularFiles(fsys, "/nope", nil)
	if err == nil {
		t.Fatal("expected error for missing root")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestRegularFiles_RootIsFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, "/mods/a/data/x")

	if _, err := RegularFiles(fsys, "/mods/a/data/x", nil); err == nil {
		t.Fatal("expected error when root is a file")
	}
}

func TestRegularFiles_FollowsFileSymlinks(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real.bin")
	if err := os.WriteFile(target, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	root := filepath.Join(dir, "tree")
	if err := os.MkdirAll(root, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	symlinkOrSkip(t, target, filepath.Join(root, "link.bin"))
	symlinkOrSkip(t, filepath.Join(dir, "gone"), filepath.Join(root, "dangling.bin"))

	var skipped []string
	files, err := RegularFiles(afero.NewOsFs(), root, func(path string, err error) {
		skipped = append(skipped, path)
	})
	if err != nil {
		t.Fatalf("RegularFiles() error = %v", err)
	}

	if want := []string{filepath.Join(root, "link.bin")}; !reflect.DeepEqual(files, want) {
		t.Errorf("files = %v, want %v", files, want)
	}
	if want := []string{filepath.Join(root, "dangling.bin")}; !reflect.DeepEqual(skipped, want) {
		t.Errorf("skipped = %v, want %v", skipped, want)
	}
}

func TestRegularFiles_FollowsDirectorySymlinks(t *testing.T) {
	dir := t.TempDir()
	realDir := filepath.Join(dir, "elsewhere", "x")
	shared := filepath.Join(dir, "shared")
	for _, p := range []string{
		filepath.Join(realDir, "btl", "kernel.bin"),
		filepath.Join(shared, "voice.bin"),
	} {
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatalf("MkdirAll() error = %v", err)
		}
		if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
	}

	data := filepath.Join(dir, "mods", "a", "data")
	if err := os.MkdirAll(data, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	root := filepath.Join(data, "x")
	symlinkOrSkip(t, realDir, root)
	symlinkOrSkip(t, shared, filepath.Join(realDir, "sfx"))

	files, err := RegularFiles(afero.NewOsFs(), root, nil)
	if err != nil {
		t.Fatalf("RegularFiles() error = %v", err)
	}

	want := []string{
		filepath.Join(root, "btl", "kernel.bin"),
		filepath.Join(root, "sfx", "voice.bin"),
	}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("RegularFiles() = %v, want %v", files, want)
	}
}

func TestRegularFiles_SymlinkLoop(t *testing.T) {
	root := filepath.Join(t.TempDir(), "tree")
	file := filepath.Join(root, "a", "file.bin")
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	loop := filepath.Join(root, "a", "loop")
	symlinkOrSkip(t, root, loop)

	skipped := map[string]error{}
	files, err := RegularFiles(afero.NewOsFs(), root, func(path string, err error) {
		skipped[path] = err
	})
	if err != nil {
		t.Fatalf("RegularFiles() error = %v", err)
	}

	if want := []string{file}; !reflect.DeepEqual(files, want) {
		t.Errorf("files = %v, want %v", files, want)
	}
	if !errors.Is(skipped[loop], errSymlinkLoop) {
		t.Errorf("expected %s to be skipped as a loop, got %v", loop, skipped[loop])
	}
}

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		wantError bool
	}{
		{"valid name", "fhx-hd-textures", false},
		{"valid with dots", "mod.v2", false},
		{"empty", "", true},
		{"current directory", ".", true},
		{"parent directory", "..", true},
		{"forward slash", "a/b", true},
		{"backslash", `a\b`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier(tt.id)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateIdentifier(%q) error = %v, wantError %v", tt.id, err, tt.wantError)
			}
		})
	}
}
