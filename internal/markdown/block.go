package markdown

import (
	"strconv"
	"strings"
)

const (
	tabWidth   = 4
	codeIndent = 4
	maxHeading = 6
)

// openKind tracks which multi-line block is currently accumulating lines
type openKind int

const (
	openNone openKind = iota
	openParagraph
	openItem
	openCode
	openQuote
)

// Parse converts markdown source into a Document.
// Parsing never fails: text that matches no block or inline rule is kept
// as literal text. Parse has no shared state and is safe for concurrent use.
func Parse(src string) Document {
	return Document{Blocks: parseBlocks(splitLines(src))}
}

// splitLines normalizes line endings, splits, and expands tabs in indentation
func splitLines(src string) []string {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	src = strings.ReplaceAll(src, "\r", "\n")
	src = strings.TrimSuffix(src, "\n")
	if src == "" {
		return nil
	}

	lines := strings.Split(src, "\n")
	for i, line := range lines {
		lines[i] = expandTabs(line)
	}
	return lines
}

// expandTabs replaces tabs in the leading whitespace with spaces up to the
// next multiple of tabWidth. Tabs after the first non-blank character are kept.
func expandTabs(line string) string {
	if !strings.Contains(line, "\t") {
		return line
	}

	var b strings.Builder
	col := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ':
			b.WriteByte(' ')
			col++
		case '\t':
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
		default:
			b.WriteString(line[i:])
			return b.String()
		}
	}
	return b.String()
}

// blockParser groups lines into blocks. Only one multi-line block is open
// at a time; fenced code is consumed eagerly.
type blockParser struct {
	blocks []Block
	open   openKind
	lines  []string
	item   ListItem

	// inList is true while the last emitted block is a list item.
	// Blank lines between items keep it set.
	inList bool
}

func parseBlocks(lines []string) []Block {
	p := &blockParser{}

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if isBlank(line) {
			p.flush()
			continue
		}

		indent := indentOf(line)
		if indent >= codeIndent {
			p.indented(line, indent)
			continue
		}

		rest := line[indent:]

		if isThematicBreak(rest) {
			p.flush()
			p.emit(ThematicBreak{})
			continue
		}

		if level, text, ok := matchHeading(rest); ok {
			p.flush()
			p.emit(Heading{Level: level, Inlines: parseInlines(text)})
			continue
		}

		if n, info, ok := matchFence(rest); ok {
			p.flush()
			i = p.fenced(lines, i+1, indent, n, info)
			continue
		}

		if rest[0] == '>' {
			if p.open != openQuote {
				p.flush()
				p.open = openQuote
			}
			p.lines = append(p.lines, stripQuoteMarker(rest))
			continue
		}

		if m, ok := matchListMarker(rest); ok {
			p.startItem(m, indent)
			continue
		}

		p.text(line)
	}

	p.flush()
	return p.blocks
}

// indented handles a line indented by at least codeIndent columns
func (p *blockParser) indented(line string, indent int) {
	if p.inList || p.open == openItem {
		if m, ok := matchListMarker(line[indent:]); ok {
			p.startItem(m, indent)
			return
		}
	}

	if p.open == openCode {
		p.lines = append(p.lines, line[codeIndent:])
		return
	}

	p.flush()
	p.open = openCode
	p.lines = append(p.lines, line[codeIndent:])
}

// fenced consumes a fenced code block starting at lines[start] and returns
// the index of the closing fence (or the last line when unterminated)
func (p *blockParser) fenced(lines []string, start, indent, fenceLen int, info string) int {
	var body []string
	j := start
	for ; j < len(lines); j++ {
		if isFenceClose(lines[j], fenceLen) {
			break
		}
		body = append(body, stripIndent(lines[j], indent))
	}

	var lang string
	if fields := strings.Fields(info); len(fields) > 0 {
		lang = fields[0]
	}

	p.emit(CodeBlock{Text: strings.Join(body, "\n"), Language: lang})
	return j
}

func (p *blockParser) startItem(m listMarker, indent int) {
	p.flush()
	p.open = openItem
	p.item = ListItem{
		Ordered: m.ordered,
		Number:  m.number,
		Depth:   indent / 2,
	}
	if m.text != "" {
		p.lines = append(p.lines, m.text)
	}
}

// text adds a plain line to the open paragraph, or starts a new one
func (p *blockParser) text(line string) {
	if p.open != openParagraph {
		p.flush()
		p.open = openParagraph
	}
	p.lines = append(p.lines, strings.TrimSpace(line))
}

// flush closes the open block, if any
func (p *blockParser) flush() {
	switch p.open {
	case openParagraph:
		p.emit(Paragraph{Inlines: parseInlines(strings.Join(p.lines, "\n"))})
	case openItem:
		item := p.item
		item.Inlines = parseInlines(strings.Join(p.lines, "\n"))
		p.emit(item)
	case openCode:
		p.emit(CodeBlock{Text: strings.Join(p.lines, "\n")})
	case openQuote:
		p.emit(Blockquote{Blocks: parseBlocks(p.lines)})
	}

	p.open = openNone
	p.lines = nil
	p.item = ListItem{}
}

func (p *blockParser) emit(b Block) {
	p.blocks = append(p.blocks, b)
	_, p.inList = b.(ListItem)
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func indentOf(line string) int {
	n := 0
	for n < len(line) && line[n] == ' ' {
		n++
	}
	return n
}

// stripIndent removes up to n leading spaces
func stripIndent(line string, n int) string {
	i := 0
	for i < n && i < len(line) && line[i] == ' ' {
		i++
	}
	return line[i:]
}

// isThematicBreak reports whether s is 3 or more of the same '-', '*' or '_'
func isThematicBreak(s string) bool {
	s = strings.TrimRight(s, " ")
	if len(s) < 3 {
		return false
	}

	c := s[0]
	if c != '-' && c != '*' && c != '_' {
		return false
	}
	for i := 1; i < len(s); i++ {
		if s[i] != c {
			return false
		}
	}
	return true
}

// matchHeading parses an ATX heading: 1-6 '#' followed by a space.
// An optional closing run of '#' is dropped.
func matchHeading(s string) (int, string, bool) {
	level := 0
	for level < len(s) && s[level] == '#' {
		level++
	}
	if level == 0 || level > maxHeading {
		return 0, "", false
	}
	if level == len(s) || s[level] != ' ' {
		return 0, "", false
	}

	text := strings.TrimSpace(s[level:])
	trimmed := strings.TrimRight(text, "#")
	switch {
	case trimmed == "":
		text = ""
	case strings.HasSuffix(trimmed, " "):
		text = strings.TrimSpace(trimmed)
	}

	return level, text, true
}

// matchFence recognizes an opening ``` fence and returns its length and info string
func matchFence(s string) (int, string, bool) {
	n := 0
	for n < len(s) && s[n] == '`' {
		n++
	}
	if n < 3 {
		return 0, "", false
	}

	info := strings.TrimSpace(s[n:])
	if strings.Contains(info, "`") {
		return 0, "", false
	}
	return n, info, true
}

func isFenceClose(line string, fenceLen int) bool {
	if indentOf(line) >= codeIndent {
		return false
	}
	s := strings.TrimSpace(line)
	if len(s) < fenceLen {
		return false
	}
	return strings.Trim(s, "`") == ""
}

func stripQuoteMarker(s string) string {
	s = s[1:]
	if strings.HasPrefix(s, " ") {
		s = s[1:]
	}
	return s
}

type listMarker struct {
	ordered bool
	number  int
	text    string
}

// matchListMarker recognizes "- ", "* " and "N. " item markers. A bare marker
// with nothing after it is an empty item.
func matchListMarker(s string) (listMarker, bool) {
	if s == "" {
		return listMarker{}, false
	}

	if s[0] == '-' || s[0] == '*' {
		if len(s) == 1 {
			return listMarker{}, true
		}
		if s[1] != ' ' {
			return listMarker{}, false
		}
		return listMarker{text: strings.TrimSpace(s[2:])}, true
	}

	n := 0
	for n < len(s) && n < 9 && isDigit(s[n]) {
		n++
	}
	if n == 0 || n >= len(s) || s[n] != '.' {
		return listMarker{}, false
	}
	if n+1 < len(s) && s[n+1] != ' ' {
		return listMarker{}, false
	}

	num, err := strconv.Atoi(s[:n])
	if err != nil {
		return listMarker{}, false
	}
	return listMarker{ordered: true, number: num, text: strings.TrimSpace(s[n+1:])}, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
