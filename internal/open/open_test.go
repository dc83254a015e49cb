package open

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/klauspost/compress/zstd"
)

func TestEditorCommand(t *testing.T) {
	tests := []struct {
		editor string
		args   []string
	}{
		{"nvim", []string{"nvim", "+12", "t.txt"}},
		{"code", []string{"code", "--goto", "t.txt:12"}},
		{"less", []string{"less", "+12", "t.txt"}},
		{"nano", []string{"nano", "t.txt"}},
	}
	for _, tt := range tests {
		cmd := editorCommand(tt.editor, "t.txt", 12)
		if !reflect.DeepEqual(cmd.Args, tt.args) {
			t.Errorf("%s: args = %q, want %q", tt.editor, cmd.Args, tt.args)
		}
	}
}

func TestInflate(t *testing.T) {
	enc, _ := zstd.NewWriter(nil)
	src := filepath.Join(t.TempDir(), "s.txt.zst")
	if err := os.WriteFile(src, enc.EncodeAll([]byte("user:\nhi"), nil), 0o644); err != nil {
		t.Fatal(err)
	}
	enc.Close()

	tmp, err := inflate(src)
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmp)

	data, err := os.ReadFile(tmp)
	if err != nil || string(data) != "user:\nhi" {
		t.Errorf("inflated = %q, %v", data, err)
	}
}
