package textmetrics

import "testing"

func TestWordCount(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"\t\n ", 0},
		{"hello", 1},
		{"hello   world   today", 3},
		{"  hello world  ", 2},
		{"one\ttwo\nthree", 3},
	}
	for _, tt := range tests {
		if got := WordCount(tt.in); got != tt.want {
			t.Errorf("WordCount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestHTMLToPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"blank", "   ", ""},
		{"plain passthrough", "just text", "just text"},
		{"inline tags", "<p>Hello <b>bold</b> world</p>", "Hello bold world"},
		{"blocks become lines", "<h1>Title</h1><p>First</p><p>Second</p>", "Title\nFirst\nSecond"},
		{"br", "line one<br>line two", "line one\nline two"},
		{"entities", "<p>Fish &amp; chips &lt;3</p>", "Fish & chips <3"},
		{"script dropped", "<p>keep</p><script>var x = 1;</script><style>p{}</style>", "keep"},
		{"list", "<ul><li>a</li><li>b</li></ul>", "a\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTMLToPlainText(tt.in); got != tt.want {
				t.Errorf("HTMLToPlainText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPlainContent(t *testing.T) {
	if got := PlainContent("explicit", "<p>raw</p>"); got != "explicit" {
		t.Errorf("expected explicit plain text, got %q", got)
	}
	if got := PlainContent("  ", "<p>raw</p>"); got != "raw" {
		t.Errorf("expected fallback to raw, got %q", got)
	}
	if got := PlainContent("", ""); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}

func TestPreview(t *testing.T) {
	if got := Preview("short text", 50); got != "short text" {
		t.Errorf("got %q", got)
	}
	if got := Preview("a b c d e f g h", 8); got != "a b c..." {
		t.Errorf("got %q", got)
	}
	if got := Preview("héllo wörld", 5); got != "hé..." {
		t.Errorf("got %q", got)
	}
}
