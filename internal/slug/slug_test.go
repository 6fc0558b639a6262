package slug

import "testing"

func TestMake(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"My Great Link", "my-great-link"},
		{"Hello, World! 100%", "hello-world-100percent"},
		{"Go 1.25 Released", "go-125-released"},
		{"Don't Panic", "dont-panic"},
		{"snake_case_title", "snakecasetitle"},
		{"C++ & Go", "c-and-go"},
		{"a - b", "a-b"},
		{"  --Leading and trailing--  ", "leading-and-trailing"},
		{"Rock & Roll", "rock-and-roll"},
		{"a&b", "aandb"},
		{"Crème brûlée", "creme-brulee"},
		{"Straße", "strasse"},
		{"already-a-slug", "already-a-slug"},
		{"multiple   spaces___and...dots", "multiple-spacesanddots"},
		{"CamelCase Title", "camelcase-title"},
		{"!!!", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Make(tc.in); got != tc.want {
			t.Errorf("Make(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMake_Idempotent(t *testing.T) {
	inputs := []string{
		"Hello, World! 100%",
		"My Great Link",
		"Ünïcödé -- Tïtle",
		"C++ & Go @ 2024 | notes",
		"---",
		"x",
	}
	for _, in := range inputs {
		once := Make(in)
		twice := Make(once)
		if once != twice {
			t.Errorf("Make not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestMake_OutputGrammar(t *testing.T) {
	inputs := []string{
		"Hello, World! 100%",
		"  spaced  out  ",
		"Ünïcödé -- Tïtle",
		"€5 < £10",
		"tabs\tand\nnewlines",
		"日本語 title",
	}
	for _, in := range inputs {
		got := Make(in)
		if got == "" {
			continue
		}
		if !Valid(got) {
			t.Errorf("Make(%q) = %q is not a valid slug", in, got)
		}
	}
}

func TestMake_CaseInsensitive(t *testing.T) {
	if Make("HELLO World") != Make("hello world") {
		t.Error("slug should not depend on input case")
	}
}

func TestValid(t *testing.T) {
	valid := []string{"a", "abc-123", "my-great-link"}
	invalid := []string{"", "-a", "a-", "a--b", "A", "a_b", "a b"}
	for _, s := range valid {
		if !Valid(s) {
			t.Errorf("Valid(%q) = false", s)
		}
	}
	for _, s := range invalid {
		if Valid(s) {
			t.Errorf("Valid(%q) = true", s)
		}
	}
}
