package transcript

import (
	"regexp"
	"strings"

	"github.com/Zuo-Peng/prompt-history/internal/sanitize"
)

// DefaultSummary is used when a transcript has no usable user content.
const DefaultSummary = "Agent conversation transcript"

const maxSummaryLen = 200

// Metadata is the lightweight card summary of a transcript.
type Metadata struct {
	ID           string `json:"id"`
	Summary      string `json:"summary"`
	MessageCount int    `json:"messageCount"`
	ToolCalls    int    `json:"toolCalls"`
	FilesChanged int    `json:"filesChanged"`
	Agent        string `json:"agent,omitempty"`
}

var (
	imageFilesRe = regexp.MustCompile(`(?s)<image_files>.*?</image_files>`)
	multiNewline = regexp.MustCompile(`\n{2,}`)
)

// ExtractMetadata computes card statistics and a summary excerpt from raw
// transcript text without classifying sections. It never fails: malformed
// input degrades to zero counts and DefaultSummary.
func ExtractMetadata(id, text string) Metadata {
	m := Metadata{ID: id}

	lines := splitLines(text)
	paths := make(map[string]struct{})
	for _, line := range lines {
		if _, ok := roleMarker(line); ok {
			m.MessageCount++
		}
		if p, ok := pathMention(line); ok {
			paths[p] = struct{}{}
		}
	}
	m.ToolCalls = strings.Count(text, toolCallMarker)
	m.FilesChanged = len(paths)

	if match := agentRe.FindStringSubmatch(text); match != nil {
		m.Agent = match[1]
	}

	m.Summary = summarize(lines)
	if m.Agent != "" {
		m.Summary = "Agent " + m.Agent + ": " + m.Summary
	}
	return m
}

// summarize builds an excerpt from the first user block.
func summarize(lines []string) string {
	start := -1
	for i, line := range lines {
		if line == userMarker {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return DefaultSummary
	}

	end := len(lines)
	for i := start; i < len(lines); i++ {
		if lines[i] == assistantMarker {
			end = i
			break
		}
	}

	content := strings.Join(lines[start:end], "\n")
	content = imageFilesRe.ReplaceAllString(content, "")
	content = strings.ReplaceAll(content, "<user_query>", "")
	content = strings.ReplaceAll(content, "</user_query>", "")
	content = strings.ReplaceAll(content, imagePlaceholder, "")
	content = multiNewline.ReplaceAllString(content, " ")
	content = strings.TrimSpace(content)
	if content == "" {
		return DefaultSummary
	}

	content, _ = sanitize.Truncate(content, maxSummaryLen)
	return content
}
