package render

import (
	"fmt"
	"io"
	"math/rand"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/gerunddev/notehtml/internal/markdown"
)

func renderString(md string) string {
	return Render(markdown.Parse(md))
}

func TestRender(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"heading and emphasis", "# Title\n\nHello *world*", "<h1>Title</h1><p>Hello <em>world</em></p>"},
		{"all heading levels", "## b\n###### f", "<h2>b</h2><h6>f</h6>"},
		{"unordered list", "- a\n- b", "<ul><li>a</li><li>b</li></ul>"},
		{"ordered list", "1. a\n2. b", "<ol><li>a</li><li>b</li></ol>"},
		{"ordered list start", "3. x\n4. y", `<ol start="3"><li>x</li><li>y</li></ol>`},
		{"empty item", "- ", "<ul><li></li></ul>"},
		{
			"nested list",
			"- a\n  - b\n- c",
			"<ul><li>a<ul><li>b</li></ul></li><li>c</li></ul>",
		},
		{
			"deep nesting unwinds",
			"- a\n  - b\n    - c\n- d",
			"<ul><li>a<ul><li>b<ul><li>c</li></ul></li></ul></li><li>d</li></ul>",
		},
		{
			"ordered inside unordered",
			"- a\n  1. b\n  2. c",
			"<ul><li>a<ol><li>b</li><li>c</li></ol></li></ul>",
		},
		{
			"kind change splits lists",
			"1. a\n2. b\n- c",
			"<ol><li>a</li><li>b</li></ol><ul><li>c</li></ul>",
		},
		{
			"list interrupted by paragraph",
			"- a\n\nplain\n\n- b",
			"<ul><li>a</li></ul><p>plain</p><ul><li>b</li></ul>",
		},
		{"escaped text", "Text with <script>", "<p>Text with &lt;script&gt;</p>"},
		{"ampersand and quotes", `Tom & "Jerry"`, "<p>Tom &amp; &quot;Jerry&quot;</p>"},
		{"strong", "**bold** move", "<p><strong>bold</strong> move</p>"},
		{"code span", "use `a<b`", "<p>use <code>a&lt;b</code></p>"},
		{
			"fenced code",
			"```go\na < b\n```",
			"<pre><code class=\"language-go\">a &lt; b\n</code></pre>",
		},
		{"empty code block", "```\n```", "<pre><code></code></pre>"},
		{"indented code", "    x := 1", "<pre><code>x := 1\n</code></pre>"},
		{"blockquote", "> # Q\n> text", "<blockquote><h1>Q</h1><p>text</p></blockquote>"},
		{"thematic break", "a\n\n---\n\nb", "<p>a</p><hr><p>b</p>"},
		{
			"link with title",
			`[t](http://x.y/?a=1&b=2 "T")`,
			`<p><a href="http://x.y/?a=1&amp;b=2" title="T">t</a></p>`,
		},
		{"link text is escaped", "[<b>](u)", `<p><a href="u">&lt;b&gt;</a></p>`},
		{"multi-line paragraph", "one\ntwo", "<p>one\ntwo</p>"},
		{"indented line after paragraph", "para\n    code line", "<p>para</p><pre><code>code line\n</code></pre>"},
		{"plain line after list", "- a\nplain", "<ul><li>a</li></ul><p>plain</p>"},
		{"bare hash", "#", "<p>#</p>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderString(tt.input); got != tt.want {
				t.Errorf("Render(%q)\n got: %q\nwant: %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRenderClampsHeadingLevel(t *testing.T) {
	doc := markdown.Document{Blocks: []markdown.Block{
		markdown.Heading{Level: 0, Inlines: []markdown.Inline{markdown.Text{Value: "low"}}},
		markdown.Heading{Level: 9, Inlines: []markdown.Inline{markdown.Text{Value: "high"}}},
	}}

	want := "<h1>low</h1><h6>high</h6>"
	if got := Render(doc); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestEscape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"a & b", "a &amp; b"},
		{"<tag>", "&lt;tag&gt;"},
		{`"q"`, "&quot;q&quot;"},
		{"&amp;", "&amp;amp;"},
	}

	for _, tt := range tests {
		if got := Escape(tt.input); got != tt.want {
			t.Errorf("Escape(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRenderListStructure(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(renderString("- a\n- b")))
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}

	if n := doc.Find("ul").Length(); n != 1 {
		t.Fatalf("found %d <ul>, want 1", n)
	}
	items := doc.Find("ul > li")
	if items.Length() != 2 {
		t.Fatalf("found %d <li>, want 2", items.Length())
	}
	for i, want := range []string{"a", "b"} {
		if got := items.Eq(i).Text(); got != want {
			t.Errorf("item %d = %q, want %q", i, got, want)
		}
	}
}

func TestRenderNestedListStructure(t *testing.T) {
	out := renderString("- a\n  - b\n  - c\n- d")
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}

	nested := doc.Find("body > ul > li > ul > li")
	if nested.Length() != 2 {
		t.Errorf("found %d nested items in %q, want 2", nested.Length(), out)
	}
	if top := doc.Find("body > ul > li").Length(); top != 2 {
		t.Errorf("found %d top-level items in %q, want 2", top, out)
	}
}

// checkBalanced walks the tokens of s and fails if any element is closed
// out of order or left open
func checkBalanced(s string) error {
	z := html.NewTokenizer(strings.NewReader(s))
	var stack []string

	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				return z.Err()
			}
			if len(stack) > 0 {
				return fmt.Errorf("unclosed elements %v", stack)
			}
			return nil

		case html.StartTagToken:
			name, _ := z.TagName()
			if string(name) == "hr" {
				continue
			}
			stack = append(stack, string(name))

		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			if string(name) != "hr" {
				return fmt.Errorf("unexpected self-closing <%s>", name)
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			if len(stack) == 0 {
				return fmt.Errorf("stray </%s>", name)
			}
			if top := stack[len(stack)-1]; top != string(name) {
				return fmt.Errorf("</%s> closes <%s>", name, top)
			}
			stack = stack[:len(stack)-1]
		}
	}
}

func TestRenderBalancedTags(t *testing.T) {
	inputs := []string{
		"# Title\n\nHello *world*",
		"- a\n  - b\n    - c\n1. d\n      - e\n- f",
		"> - x\n>   - y\n> ```\n> code\n\n***",
		"*a **b** c* **x *y* z** ***t*** `code` [l*i*nk](u \"t\")",
		"**unclosed *mixed `ticks",
		"    - indented\n- item\n        deep\n\n> > >",
	}

	alphabet := []byte("ab *_`[]()#>-1. \n\t<&\"\\")
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		buf := make([]byte, rng.Intn(80))
		for j := range buf {
			buf[j] = alphabet[rng.Intn(len(alphabet))]
		}
		inputs = append(inputs, string(buf))
	}

	for _, input := range inputs {
		out := renderString(input)
		if err := checkBalanced(out); err != nil {
			t.Errorf("Render(%q) = %q: %v", input, out, err)
		}
	}
}

func TestRenderPlainTextIsOneParagraph(t *testing.T) {
	letters := "abcdefghijXYZ"
	alphabet := letters + " ,;:!?'&<>\""
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 300; i++ {
		buf := []byte{letters[rng.Intn(len(letters))]}
		for j := rng.Intn(40); j > 0; j-- {
			buf = append(buf, alphabet[rng.Intn(len(alphabet))])
		}
		buf = append(buf, letters[rng.Intn(len(letters))])
		s := string(buf)

		doc := markdown.Parse(s)
		if len(doc.Blocks) != 1 {
			t.Fatalf("Parse(%q) produced %d blocks, want 1", s, len(doc.Blocks))
		}
		if _, ok := doc.Blocks[0].(markdown.Paragraph); !ok {
			t.Fatalf("Parse(%q) = %#v, want paragraph", s, doc.Blocks[0])
		}

		want := "<p>" + Escape(s) + "</p>"
		if got := Render(doc); got != want {
			t.Errorf("Render(%q) = %q, want %q", s, got, want)
		}
	}
}

func TestRenderIsNotARoundTrip(t *testing.T) {
	once := renderString("*x*")
	twice := renderString(once)

	if once != "<p><em>x</em></p>" {
		t.Fatalf("first render = %q", once)
	}
	if twice == once {
		t.Error("rendering HTML as markdown should escape it, not reproduce it")
	}
	if twice != "<p>&lt;p&gt;&lt;em&gt;x&lt;/em&gt;&lt;/p&gt;</p>" {
		t.Errorf("second render = %q", twice)
	}
}
