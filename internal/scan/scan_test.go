package scan

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"

	"github.com/Zuo-Peng/prompt-history/internal/config"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolveScansRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.txt"), []byte("user:\nhi"))
	writeFile(t, filepath.Join(root, "a", "sa1.log"), []byte("user:\nhi"))
	writeFile(t, filepath.Join(root, "notes.md"), []byte("skip"))
	writeFile(t, filepath.Join(root, ".hidden", "x.txt"), []byte("skip"))

	files, err := Resolve(root, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("files = %+v", files)
	}
	if files[0].ID != "a/sa1" || files[1].ID != "b" {
		t.Errorf("ids = %s, %s", files[0].ID, files[1].ID)
	}
	if files[1].Index != 1 || files[1].SizeLabel == "" {
		t.Errorf("file = %+v", files[1])
	}
}

func TestResolveManifest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "one.txt"), []byte("user:\nhi"))

	files, err := Resolve(root, []config.Entry{
		{ID: "first", File: "one.txt", Size: "Small"},
		{File: "missing.txt.zst"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("files = %+v", files)
	}
	if files[0].ID != "first" || files[0].SizeLabel != "Small" || files[0].Size == 0 {
		t.Errorf("entry 0 = %+v", files[0])
	}
	if files[1].ID != "missing" || files[1].Index != 1 || files[1].Mtime != 0 {
		t.Errorf("entry 1 = %+v", files[1])
	}
}

func TestReadPlainAndZstd(t *testing.T) {
	dir := t.TempDir()
	text := "user:\nHello\nassistant:\nHi"

	plain := filepath.Join(dir, "t.txt")
	writeFile(t, plain, []byte(text))

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		t.Fatal(err)
	}
	compressed := filepath.Join(dir, "t.txt.zst")
	writeFile(t, compressed, enc.EncodeAll([]byte(text), nil))
	enc.Close()

	for _, p := range []string{plain, compressed} {
		got, err := Read(p)
		if err != nil {
			t.Fatalf("Read(%s): %v", p, err)
		}
		if got != text {
			t.Errorf("Read(%s) = %q", p, got)
		}
	}
}

func TestReadMissing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.txt"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
