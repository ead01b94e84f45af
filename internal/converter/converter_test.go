package converter

import "testing"

func TestMarkdownToHTML(t *testing.T) {
	conv := NewConverter()

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"# Title\n\nHello *world*", "<h1>Title</h1><p>Hello <em>world</em></p>"},
		{"- a\n- b", "<ul><li>a</li><li>b</li></ul>"},
		{"Text with <script>", "<p>Text with &lt;script&gt;</p>"},
	}

	for _, tt := range tests {
		if got := conv.MarkdownToHTML(tt.input); got != tt.want {
			t.Errorf("MarkdownToHTML(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMarkdownToHTMLIsDeterministic(t *testing.T) {
	conv := NewConverter()
	md := "> quote\n\n1. one\n   - two\n\n```sh\necho hi\n```"

	first := conv.MarkdownToHTML(md)
	for i := 0; i < 10; i++ {
		if got := NewConverter().MarkdownToHTML(md); got != first {
			t.Fatalf("run %d = %q, want %q", i, got, first)
		}
	}
}
