package markdown

// Document is the parsed form of one markdown source
type Document struct {
	Blocks []Block
}

// Block is a structural unit spanning one or more lines.
// The set of implementations is closed: Paragraph, Heading, ListItem,
// CodeBlock, Blockquote and ThematicBreak.
type Block interface {
	block()
}

// Inline is a structural unit within a block's text.
// The set of implementations is closed: Text, Emphasis, Strong, CodeSpan and Link.
type Inline interface {
	inline()
}

// Paragraph is a run of text lines terminated by a blank line or another block
type Paragraph struct {
	Inlines []Inline
}

// Heading is an ATX heading; Level is always within [1,6]
type Heading struct {
	Level   int
	Inlines []Inline
}

// ListItem is a single bullet or numbered item.
// Items are kept flat; the renderer groups consecutive items into lists.
type ListItem struct {
	Ordered bool
	Number  int // as written in the source, ordered items only
	Depth   int // leading whitespace / 2
	Inlines []Inline
}

// CodeBlock holds verbatim text from a fenced or indented block
type CodeBlock struct {
	Text     string
	Language string
}

// Blockquote wraps blocks parsed from the quoted lines
type Blockquote struct {
	Blocks []Block
}

// ThematicBreak is a horizontal rule
type ThematicBreak struct{}

func (Paragraph) block()     {}
func (Heading) block()       {}
func (ListItem) block()      {}
func (CodeBlock) block()     {}
func (Blockquote) block()    {}
func (ThematicBreak) block() {}

// Text is literal text
type Text struct {
	Value string
}

// Emphasis is *text* or _text_
type Emphasis struct {
	Children []Inline
}

// Strong is **text**
type Strong struct {
	Children []Inline
}

// CodeSpan is `code`; Value is never parsed further
type CodeSpan struct {
	Value string
}

// Link is [text](destination "title").
// Children hold the display text, which is not scanned for further inlines.
type Link struct {
	Children    []Inline
	Destination string
	Title       string
}

func (Text) inline()     {}
func (Emphasis) inline() {}
func (Strong) inline()   {}
func (CodeSpan) inline() {}
func (Link) inline()     {}
