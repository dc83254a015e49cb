package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Zuo-Peng/prompt-history/internal/index"
	"github.com/Zuo-Peng/prompt-history/internal/scan"
)

// OpenTranscript opens the raw transcript in $EDITOR at line (1 when
// line <= 0). Compressed transcripts are inflated into a temp file first.
func OpenTranscript(db *index.DB, id string, line int) error {
	row, err := db.GetTranscript(id)
	if err != nil {
		return fmt.Errorf("get transcript: %w", err)
	}
	if row == nil {
		return fmt.Errorf("%w: %s", scan.ErrNotFound, id)
	}

	filePath := row.FilePath
	if _, err := os.Stat(filePath); err != nil {
		return fmt.Errorf("%w: %s", scan.ErrNotFound, filePath)
	}

	if strings.HasSuffix(filePath, ".zst") {
		tmp, err := inflate(filePath)
		if err != nil {
			return err
		}
		defer os.Remove(tmp)
		filePath = tmp
	}

	if line <= 0 {
		line = 1
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "less"
	}

	return openInEditor(editor, filePath, line)
}

func inflate(path string) (string, error) {
	text, err := scan.Read(path)
	if err != nil {
		return "", err
	}
	base := strings.TrimSuffix(filepath.Base(path), ".zst")
	f, err := os.CreateTemp("", "phist-*-"+base)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(text); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write temp file: %w", err)
	}
	return f.Name(), nil
}

// editorCommand builds the editor invocation that jumps to lineNum.
func editorCommand(editor, filePath string, lineNum int) *exec.Cmd {
	switch {
	case strings.Contains(editor, "vim") || strings.Contains(editor, "nvim"):
		return exec.Command(editor, fmt.Sprintf("+%d", lineNum), filePath)
	case strings.Contains(editor, "code"):
		return exec.Command(editor, "--goto", filePath+":"+strconv.Itoa(lineNum))
	case strings.Contains(editor, "less"):
		return exec.Command(editor, "+"+strconv.Itoa(lineNum), filePath)
	default:
		return exec.Command(editor, filePath)
	}
}

func openInEditor(editor, filePath string, lineNum int) error {
	cmd := editorCommand(editor, filePath, lineNum)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
