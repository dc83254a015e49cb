package scan

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Zuo-Peng/prompt-history/internal/config"
)

// transcriptExts are the file suffixes picked up when scanning a root.
var transcriptExts = []string{".txt.zst", ".log.zst", ".txt", ".log"}

type FileInfo struct {
	ID        string
	Index     int
	SizeLabel string
	Path      string
	Mtime     int64
	Size      int64
}

// Resolve turns the manifest into transcript files. With an empty
// manifest the root is scanned instead, in lexical path order.
func Resolve(root string, manifest []config.Entry) ([]FileInfo, error) {
	if len(manifest) == 0 {
		return scanRoot(root)
	}

	files := make([]FileInfo, 0, len(manifest))
	for i, e := range manifest {
		path := e.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		fi := FileInfo{
			ID:        e.ID,
			Index:     i,
			SizeLabel: e.Size,
			Path:      path,
		}
		if fi.ID == "" {
			fi.ID = idFromPath(e.File)
		}
		// missing files stay listed; reading them reports ErrNotFound
		if info, err := os.Stat(path); err == nil {
			fi.Mtime = info.ModTime().Unix()
			fi.Size = info.Size()
			if fi.SizeLabel == "" {
				fi.SizeLabel = humanize.Bytes(uint64(info.Size()))
			}
		}
		files = append(files, fi)
	}
	return files, nil
}

func scanRoot(root string) ([]FileInfo, error) {
	var files []FileInfo
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable dirs
		}
		if info.IsDir() {
			if path != root && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !isTranscript(path) {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = filepath.Base(path)
		}
		files = append(files, FileInfo{
			ID:        idFromPath(rel),
			Index:     len(files),
			SizeLabel: humanize.Bytes(uint64(info.Size())),
			Path:      path,
			Mtime:     info.ModTime().Unix(),
			Size:      info.Size(),
		})
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return files, nil
}

func isTranscript(path string) bool {
	for _, ext := range transcriptExts {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// idFromPath derives a transcript id from a relative file path by dropping
// the transcript extension and using forward slashes.
func idFromPath(p string) string {
	p = filepath.ToSlash(p)
	for _, ext := range transcriptExts {
		if strings.HasSuffix(p, ext) {
			return strings.TrimSuffix(p, ext)
		}
	}
	return strings.TrimSuffix(p, filepath.Ext(p))
}
