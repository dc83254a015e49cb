package transcript

import "strings"

// Info identifies one transcript in the manifest.
type Info struct {
	ID        string
	SizeLabel string
	Index     int // zero-based position in the manifest
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Line is one line of raw transcript text with its 1-based source line number.
type Line struct {
	No   int
	Text string
}

type Turn struct {
	Role  Role
	Lines []Line
}

// Text returns the turn's raw content joined with newlines.
func (t Turn) Text() string {
	parts := make([]string, len(t.Lines))
	for i, l := range t.Lines {
		parts[i] = l.Text
	}
	return strings.Join(parts, "\n")
}

type Kind string

const (
	KindText       Kind = "text"
	KindThinking   Kind = "thinking"
	KindToolCall   Kind = "tool-call"
	KindToolResult Kind = "tool-result"
)

// Section is a typed run of content within a Turn. Lines holds the content
// of text, thinking and tool-result sections; Tool and Params are only set
// on tool-call sections.
type Section struct {
	Kind      Kind
	Lines     []string
	Tool      string
	Params    []string
	StartLine int // source line that opened the section
}

// Content returns the section's content (or, for a tool call, its
// parameter text) joined with newlines.
func (s Section) Content() string {
	if s.Kind == KindToolCall {
		return strings.Join(s.Params, "\n")
	}
	return strings.Join(s.Lines, "\n")
}

// Empty reports whether the section holds nothing but whitespace.
func (s Section) Empty() bool {
	return strings.TrimSpace(s.Content()) == ""
}

// FileRef is one distinct path mentioned with a "path:" marker.
// Operations lists the tool-call lines under which it was mentioned.
type FileRef struct {
	Path       string
	Operations []string
}

// Files is the document-wide FileReference set, kept in first-mention order.
type Files struct {
	refs  []FileRef
	index map[string]int
}

// Add records path under the given operation. Blank paths are ignored.
func (f *Files) Add(path, operation string) {
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}
	if f.index == nil {
		f.index = make(map[string]int)
	}
	i, ok := f.index[path]
	if !ok {
		f.index[path] = len(f.refs)
		f.refs = append(f.refs, FileRef{Path: path})
		i = len(f.refs) - 1
	}
	if operation == "" {
		return
	}
	for _, op := range f.refs[i].Operations {
		if op == operation {
			return
		}
	}
	f.refs[i].Operations = append(f.refs[i].Operations, operation)
}

func (f *Files) Len() int {
	return len(f.refs)
}

// Refs returns the references in first-mention order.
func (f *Files) Refs() []FileRef {
	return f.refs
}

// Paths returns the distinct paths in first-mention order.
func (f *Files) Paths() []string {
	paths := make([]string, len(f.refs))
	for i, r := range f.refs {
		paths[i] = r.Path
	}
	return paths
}

type Category string

const (
	CategoryCreated  Category = "created"
	CategoryModified Category = "modified"
	CategoryRead     Category = "read"
)

// Categorize classifies a reference by substring heuristics on its
// operations and path: Write/output -> created, StrReplace/Edit -> modified,
// anything else -> read.
func Categorize(ref FileRef) Category {
	text := strings.Join(append([]string{ref.Path}, ref.Operations...), " ")
	switch {
	case strings.Contains(text, "Write") || strings.Contains(text, "output"):
		return CategoryCreated
	case strings.Contains(text, "StrReplace") || strings.Contains(text, "Edit"):
		return CategoryModified
	default:
		return CategoryRead
	}
}

// Document is a segmented transcript: its turns plus the file references
// found anywhere in it.
type Document struct {
	Turns []Turn
	Files Files
}
