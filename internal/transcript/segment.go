package transcript

import "strings"

// Segment splits raw transcript text into role turns and collects every
// "path:" mention into the document-wide file set.
//
// A line exactly equal to "user:" or "assistant:" closes the current turn
// and opens a new one. Lines before the first marker form an implicit user
// turn. Turns whose content is blank are dropped.
//
// A path mention is credited to a tool call only while that call's
// parameters are open: from the "[Tool call]" line up to the next result,
// thinking or role marker.
func Segment(text string) Document {
	var doc Document

	cur := Turn{Role: RoleUser}
	op := ""

	flush := func() {
		if strings.TrimSpace(cur.Text()) != "" {
			doc.Turns = append(doc.Turns, cur)
		}
	}

	for i, line := range splitLines(text) {
		// file mentions are tracked across turn boundaries
		switch {
		case strings.HasPrefix(line, toolCallMarker):
			op = strings.TrimSpace(line)
		case strings.HasPrefix(line, toolResultMarker), strings.HasPrefix(line, thinkingMarker):
			op = ""
		}
		role, isRole := roleMarker(line)
		if isRole {
			op = ""
		}
		if p, ok := pathMention(line); ok {
			doc.Files.Add(p, op)
		}

		if isRole {
			flush()
			cur = Turn{Role: role}
			continue
		}
		cur.Lines = append(cur.Lines, Line{No: i + 1, Text: line})
	}
	flush()

	return doc
}
