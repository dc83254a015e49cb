package transcript

import "strings"

// classifier is the section state machine for one turn. cur is the section
// being accumulated (nil before the first line and right after a flush).
type classifier struct {
	cur *Section
	out []Section
}

// transition fires apply on the first line it matches; transitions are
// tried in table order.
type transition struct {
	match func(c *classifier, line string) bool
	apply func(c *classifier, l Line)
}

var transitions = []transition{
	{
		match: func(_ *classifier, line string) bool { return strings.HasPrefix(line, thinkingMarker) },
		apply: func(c *classifier, l Line) {
			c.flush(false)
			s := &Section{Kind: KindThinking, StartLine: l.No}
			if rest := strings.TrimSpace(strings.TrimPrefix(l.Text, thinkingMarker)); rest != "" {
				s.Lines = append(s.Lines, rest)
			}
			c.cur = s
		},
	},
	{
		match: func(_ *classifier, line string) bool { return strings.HasPrefix(line, toolCallMarker) },
		apply: func(c *classifier, l Line) {
			c.flush(true)
			c.cur = &Section{Kind: KindToolCall, Tool: toolName(l.Text), StartLine: l.No}
		},
	},
	{
		match: func(c *classifier, line string) bool {
			return c.in(KindToolCall) && (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t"))
		},
		apply: func(c *classifier, l Line) {
			c.cur.Params = append(c.cur.Params, strings.TrimSpace(l.Text))
		},
	},
	{
		match: func(_ *classifier, line string) bool { return strings.HasPrefix(line, toolResultMarker) },
		apply: func(c *classifier, l Line) {
			c.flush(true)
			c.cur = &Section{Kind: KindToolResult, StartLine: l.No}
		},
	},
	{
		match: func(_ *classifier, line string) bool { return isWrapperLine(line) },
		apply: func(*classifier, Line) {},
	},
}

// Classify splits one turn's lines into typed sections in encounter order.
func Classify(lines []Line) []Section {
	c := &classifier{}
	for _, l := range lines {
		c.step(l)
	}
	if c.cur != nil && (c.cur.Kind == KindToolCall || !c.cur.Empty()) {
		c.out = append(c.out, *c.cur)
	}
	return c.out
}

// Sections classifies the turn's content.
func (t Turn) Sections() []Section {
	return Classify(t.Lines)
}

func (c *classifier) step(l Line) {
	for _, tr := range transitions {
		if tr.match(c, l.Text) {
			tr.apply(c, l)
			return
		}
	}
	c.other(l)
}

func (c *classifier) in(k Kind) bool {
	return c.cur != nil && c.cur.Kind == k
}

// flush emits the current section if it has content. With keepToolCall an
// open tool call is emitted even when it captured no parameters.
func (c *classifier) flush(keepToolCall bool) {
	if c.cur == nil {
		return
	}
	if !c.cur.Empty() || (keepToolCall && c.cur.Kind == KindToolCall) {
		c.out = append(c.out, *c.cur)
	}
	c.cur = nil
}

func (c *classifier) other(l Line) {
	if c.cur == nil {
		c.cur = &Section{Kind: KindText, Lines: []string{l.Text}, StartLine: l.No}
		return
	}
	switch c.cur.Kind {
	case KindToolCall:
		c.cur.Params = append(c.cur.Params, strings.TrimSpace(l.Text))
	default:
		c.cur.Lines = append(c.cur.Lines, l.Text)
	}
}
