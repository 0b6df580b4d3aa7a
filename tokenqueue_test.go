package selq_test

import (
	"testing"

	"github.com/telwick/selq"
)

// Ensure the queue consumes balanced groups, honoring nesting, quotes
// and escapes.
func TestTokenQueue_ChompBalanced(t *testing.T) {
	var tests = []struct {
		s           string
		open, close byte
		want        string
		remainder   string
		err         string
	}{
		{s: `(one (two) three) four`, open: '(', close: ')', want: `one (two) three`, remainder: ` four`},
		{s: `(ab)`, open: '(', close: ')', want: `ab`, remainder: ``},
		{s: `()`, open: '(', close: ')', want: ``, remainder: ``},
		{s: `[key=value]rest`, open: '[', close: ']', want: `key=value`, remainder: `rest`},
		{s: `(a'b)'c)`, open: '(', close: ')', want: `a'b)'c`, remainder: ``},
		{s: `(a"b)"c)`, open: '(', close: ')', want: `a"b)"c`, remainder: ``},
		{s: `(a\)b)`, open: '(', close: ')', want: `a\)b`, remainder: ``},
		{s: `(one (two)`, open: '(', close: ')', err: "did not find balanced marker"},
		{s: `('a'`, open: '(', close: ')', err: "did not find balanced marker"},
	}

	for i, tt := range tests {
		tq := selq.NewTokenQueue(tt.s)
		got, err := tq.ChompBalanced(tt.open, tt.close)
		if tt.err != "" {
			if err == nil || err.Error() != tt.err {
				t.Errorf("%d. <%q> error: got %v, want %q", i, tt.s, err, tt.err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%d. <%q> unexpected error: %v", i, tt.s, err)
		} else if got != tt.want {
			t.Errorf("%d. <%q> chomp: got %q, want %q", i, tt.s, got, tt.want)
		} else if rem := tq.Remainder(); rem != tt.remainder {
			t.Errorf("%d. <%q> remainder: got %q, want %q", i, tt.s, rem, tt.remainder)
		}
	}
}

func TestTokenQueue_ConsumeTo(t *testing.T) {
	var tests = []struct {
		s         string
		seq       string
		want      string
		remainder string
	}{
		{s: `one two three`, seq: `two`, want: `one `, remainder: `two three`},
		{s: `one two`, seq: `four`, want: `one two`, remainder: ``},
		{s: `two`, seq: `two`, want: ``, remainder: `two`},
	}

	for i, tt := range tests {
		tq := selq.NewTokenQueue(tt.s)
		if got := tq.ConsumeTo(tt.seq); got != tt.want {
			t.Errorf("%d. <%q> consume: got %q, want %q", i, tt.s, got, tt.want)
		} else if rem := tq.Remainder(); rem != tt.remainder {
			t.Errorf("%d. <%q> remainder: got %q, want %q", i, tt.s, rem, tt.remainder)
		}
	}
}

func TestTokenQueue_ChompTo(t *testing.T) {
	tq := selq.NewTokenQueue(":contains(one) :contains(two)")
	if got := tq.ChompTo(")"); got != ":contains(one" {
		t.Errorf("chomp: got %q", got)
	}
	if rem := tq.Remainder(); rem != " :contains(two)" {
		t.Errorf("remainder: got %q", rem)
	}
}

func TestTokenQueue_ConsumeCSSIdentifier(t *testing.T) {
	var tests = []struct {
		s         string
		want      string
		remainder string
	}{
		{s: `main-content div`, want: `main-content`, remainder: ` div`},
		{s: `_private`, want: `_private`, remainder: ``},
		{s: `x1.y`, want: `x1`, remainder: `.y`},
		{s: `ns|tag`, want: `ns`, remainder: `|tag`},
		{s: `.nope`, want: ``, remainder: `.nope`},
	}

	for i, tt := range tests {
		tq := selq.NewTokenQueue(tt.s)
		if got := tq.ConsumeCSSIdentifier(); got != tt.want {
			t.Errorf("%d. <%q> ident: got %q, want %q", i, tt.s, got, tt.want)
		} else if rem := tq.Remainder(); rem != tt.remainder {
			t.Errorf("%d. <%q> remainder: got %q, want %q", i, tt.s, rem, tt.remainder)
		}
	}
}

func TestTokenQueue_ConsumeElementSelector(t *testing.T) {
	var tests = []struct {
		s    string
		want string
	}{
		{s: `div.note`, want: `div`},
		{s: `ns|tag x`, want: `ns|tag`},
		{s: `*|p`, want: `*|p`},
	}

	for i, tt := range tests {
		tq := selq.NewTokenQueue(tt.s)
		if got := tq.ConsumeElementSelector(); got != tt.want {
			t.Errorf("%d. <%q> got %q, want %q", i, tt.s, got, tt.want)
		}
	}
}

func TestTokenQueue_ConsumeWhitespace(t *testing.T) {
	tq := selq.NewTokenQueue(" \t\n div")
	if !tq.ConsumeWhitespace() {
		t.Error("expected whitespace to be consumed")
	}
	if tq.ConsumeWhitespace() {
		t.Error("expected no further whitespace")
	}
	if rem := tq.Remainder(); rem != "div" {
		t.Errorf("remainder: got %q", rem)
	}
}

func TestTokenQueue_Matching(t *testing.T) {
	tq := selq.NewTokenQueue(":has(p)")
	if tq.Matches("has") {
		t.Error("matches must test from the cursor")
	}
	if !tq.Matches(":has(") {
		t.Error("expected prefix match")
	}
	if !tq.MatchesAny("#", ".", ":has(") {
		t.Error("expected any-match")
	}
	if !tq.MatchChomp(":has") {
		t.Error("expected chomp")
	}
	if rem := tq.Remainder(); rem != "(p)" {
		t.Errorf("remainder: got %q", rem)
	}
}

func TestTokenQueue_MatchesWord(t *testing.T) {
	for _, s := range []string{"div", "1up", "-x", "_x", "|tag"} {
		if !selq.NewTokenQueue(s).MatchesWord() {
			t.Errorf("<%q> expected word", s)
		}
	}
	for _, s := range []string{".c", "#i", "", " d", "*"} {
		if selq.NewTokenQueue(s).MatchesWord() {
			t.Errorf("<%q> expected no word", s)
		}
	}
}

func TestUnescape(t *testing.T) {
	var tests = []struct {
		s    string
		want string
	}{
		{s: `one \( two \) three`, want: `one ( two ) three`},
		{s: `backslash \\`, want: `backslash \`},
		{s: `plain`, want: `plain`},
	}

	for i, tt := range tests {
		if got := selq.Unescape(tt.s); got != tt.want {
			t.Errorf("%d. <%q> got %q, want %q", i, tt.s, got, tt.want)
		}
	}
}
