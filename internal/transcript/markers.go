package transcript

import (
	"regexp"
	"strings"

	"github.com/Zuo-Peng/prompt-history/internal/sanitize"
)

const (
	userMarker      = "user:"
	assistantMarker = "assistant:"

	thinkingMarker   = "[Thinking]"
	toolCallMarker   = "[Tool call]"
	toolResultMarker = "[Tool result]"

	pathMarker = "path:"

	imagePlaceholder = "[Image]"
)

// wrapperOpenTags mark lines the classifier skips. Close tags are not in
// the list and stay in the content.
var wrapperOpenTags = []string{"<user_query>", "<image_files>"}

var agentRe = regexp.MustCompile(`(?i)You are agent\s+(\d+)`)

// roleMarker reports whether line is a turn marker and which role it opens.
func roleMarker(line string) (Role, bool) {
	switch line {
	case userMarker:
		return RoleUser, true
	case assistantMarker:
		return RoleAssistant, true
	}
	return "", false
}

// pathMention returns the trimmed text following a "path:" marker.
func pathMention(line string) (string, bool) {
	i := strings.Index(line, pathMarker)
	if i < 0 {
		return "", false
	}
	p := strings.TrimSpace(line[i+len(pathMarker):])
	return p, p != ""
}

// toolName returns the first word after the tool-call marker.
func toolName(line string) string {
	fields := strings.Fields(strings.TrimPrefix(line, toolCallMarker))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// isWrapperLine reports whether line starts with a wrapper open tag.
func isWrapperLine(line string) bool {
	for _, tag := range wrapperOpenTags {
		if strings.HasPrefix(line, tag) {
			return true
		}
	}
	return false
}

func splitLines(text string) []string {
	return strings.Split(sanitize.NormalizeNewlines(text), "\n")
}
