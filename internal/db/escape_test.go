package db

import "testing"

func TestEscapeText(t *testing.T) {
	got := EscapeText(`hello "world" @user {tag}`)
	want := `hello \"world\" \@user \{tag\}`
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestEscapeText_DanishTerms(t *testing.T) {
	for _, term := range []string{"sygeplejerske", "Århus", "pædagogmedhjælper", "smørrebrød"} {
		if got := EscapeText(term); got != term {
			t.Errorf("EscapeText(%q) = %q, want unchanged", term, got)
		}
	}
	if got := EscapeText("c++"); got != `c\+\+` {
		t.Errorf("EscapeText(c++) = %q", got)
	}
}
