package markdown

import (
	"strings"
)

const asciiPunct = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// inlineParser scans one block's text. Nested spans are parsed as index
// ranges of the same source so bracket matches are computed once.
type inlineParser struct {
	s string

	// closer[i] is the index of the bracket closing s[i] for '[' and '(',
	// or -1. nil when s has no '['.
	closer []int
}

// parseInlines scans s left to right, longest match first at each position.
// Delimiters without a closing counterpart stay literal.
func parseInlines(s string) []Inline {
	p := &inlineParser{s: s, closer: matchBrackets(s)}
	return p.parse(0, len(s))
}

func (p *inlineParser) parse(lo, hi int) []Inline {
	var (
		out  []Inline
		text strings.Builder
	)

	flush := func() {
		if text.Len() > 0 {
			out = append(out, Text{Value: text.String()})
			text.Reset()
		}
	}

	s := p.s
	for i := lo; i < hi; {
		c := s[i]

		switch c {
		case '\\':
			if i+1 < hi && isASCIIPunct(s[i+1]) {
				text.WriteByte(s[i+1])
				i += 2
				continue
			}

		case '`':
			if code, end, ok := p.scanCodeSpan(i, hi); ok {
				flush()
				out = append(out, CodeSpan{Value: code})
				i = end
				continue
			}
			// an unmatched run is literal as a whole, so a shorter
			// run inside it cannot open a span
			n := p.runLength(i, hi, '`')
			text.WriteString(s[i : i+n])
			i += n
			continue

		case '*', '_':
			if node, end, ok := p.scanEmphasis(lo, i, hi); ok {
				flush()
				out = append(out, node)
				i = end
				continue
			}

		case '[':
			if link, end, ok := p.scanLink(i, hi); ok {
				flush()
				out = append(out, link)
				i = end
				continue
			}
		}

		text.WriteByte(c)
		i++
	}

	flush()
	return out
}

// scanEmphasis tries Strong then Emphasis at s[i]
func (p *inlineParser) scanEmphasis(lo, i, hi int) (Inline, int, bool) {
	s := p.s
	c := s[i]
	if c == '_' && i > lo && isAlnum(s[i-1]) {
		return nil, 0, false
	}

	if i+1 < hi && s[i+1] == c {
		start := i + 2
		if start >= hi || isSpace(s[start]) {
			return nil, 0, false
		}
		k, ok := p.findCloser(start, hi, c, 2)
		if !ok {
			return nil, 0, false
		}
		return Strong{Children: p.parse(start, k)}, k + 2, true
	}

	start := i + 1
	if start >= hi || isSpace(s[start]) {
		return nil, 0, false
	}
	k, ok := p.findCloser(start, hi, c, 1)
	if !ok {
		return nil, 0, false
	}
	return Emphasis{Children: p.parse(start, k)}, k + 1, true
}

// findCloser returns the position of a closing delimiter of n copies of c
// in [from, hi). Code spans and links are skipped as atomic units.
// When looking for a single delimiter, a nested double run that can be
// closed is skipped so "*a **b** c*" keeps its strong part.
func (p *inlineParser) findCloser(from, hi int, c byte, n int) (int, bool) {
	s := p.s
	for k := from; k < hi; {
		switch s[k] {
		case '\\':
			k += 2
			continue
		case '`':
			if _, end, ok := p.scanCodeSpan(k, hi); ok {
				k = end
				continue
			}
			k += p.runLength(k, hi, '`')
			continue
		case '[':
			if _, end, ok := p.scanLink(k, hi); ok {
				k = end
				continue
			}
		}

		if s[k] != c {
			k++
			continue
		}

		r := p.runLength(k, hi, c)

		if n == 1 && r >= 2 && k+r < hi && !isSpace(s[k+r]) {
			if end, ok := p.findCloser(k+2, hi, c, 2); ok {
				k = end + 2
				continue
			}
		}

		at := k + r - n
		if r >= n && k > from && !isSpace(s[k-1]) && !(c == '_' && at+n < hi && isAlnum(s[at+n])) {
			return at, true
		}
		k += r
	}
	return 0, false
}

// scanCodeSpan matches a backtick run with a closing run of the same length
func (p *inlineParser) scanCodeSpan(i, hi int) (string, int, bool) {
	s := p.s
	n := p.runLength(i, hi, '`')
	for k := i + n; k < hi; {
		if s[k] != '`' {
			k++
			continue
		}
		r := p.runLength(k, hi, '`')
		if r == n {
			return codeSpanContent(s[i+n : k]), k + r, true
		}
		k += r
	}
	return "", 0, false
}

// codeSpanContent folds line endings and strips one surrounding space pair
func codeSpanContent(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) >= 2 && s[0] == ' ' && s[len(s)-1] == ' ' && strings.Trim(s, " ") != "" {
		s = s[1 : len(s)-1]
	}
	return s
}

// scanLink matches [text](destination "title"). The display text is kept
// literal.
func (p *inlineParser) scanLink(i, hi int) (Link, int, bool) {
	s := p.s
	closeLabel := p.closing(i, hi)
	if closeLabel < 0 || closeLabel+1 >= hi || s[closeLabel+1] != '(' {
		return Link{}, 0, false
	}
	closeDest := p.closing(closeLabel+1, hi)
	if closeDest < 0 {
		return Link{}, 0, false
	}

	link := Link{}
	if label := unescape(s[i+1 : closeLabel]); label != "" {
		link.Children = []Inline{Text{Value: label}}
	}
	link.Destination, link.Title = splitDestination(s[closeLabel+2 : closeDest])

	return link, closeDest + 1, true
}

// closing returns the bracket closing s[i] if it lies before hi, or -1
func (p *inlineParser) closing(i, hi int) int {
	if p.closer == nil {
		return -1
	}
	if j := p.closer[i]; j >= 0 && j < hi {
		return j
	}
	return -1
}

func (p *inlineParser) runLength(i, hi int, c byte) int {
	n := 0
	for i+n < hi && p.s[i+n] == c {
		n++
	}
	return n
}

// matchBrackets pairs every '[' with its ']' and every '(' with its ')' in
// one pass. A backslash hides the byte after it.
func matchBrackets(s string) []int {
	if strings.IndexByte(s, '[') < 0 {
		return nil
	}

	closer := make([]int, len(s))
	for i := range closer {
		closer[i] = -1
	}

	var squares, parens []int
	for j := 0; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '[':
			squares = append(squares, j)
		case ']':
			if n := len(squares); n > 0 {
				closer[squares[n-1]] = j
				squares = squares[:n-1]
			}
		case '(':
			parens = append(parens, j)
		case ')':
			if n := len(parens); n > 0 {
				closer[parens[n-1]] = j
				parens = parens[:n-1]
			}
		}
	}
	return closer
}

// splitDestination separates an optional trailing "title" from the link target
func splitDestination(raw string) (string, string) {
	raw = strings.TrimSpace(raw)
	if strings.HasSuffix(raw, `"`) {
		if idx := strings.Index(raw, ` "`); idx >= 0 && idx+2 < len(raw) {
			return unescape(strings.TrimSpace(raw[:idx])), unescape(raw[idx+2 : len(raw)-1])
		}
	}
	return unescape(raw), ""
}

// unescape drops backslashes in front of ASCII punctuation
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && isASCIIPunct(s[i+1]) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t'
}

func isAlnum(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isASCIIPunct(c byte) bool {
	return strings.IndexByte(asciiPunct, c) >= 0
}
