package translate

import (
	"context"
	"errors"
	"testing"
)

type stubCompleter struct {
	out   string
	err   error
	calls int
}

func (s *stubCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	s.calls++
	return s.out, s.err
}

func TestHasUkrainian(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"Форум відбудови", true},
		{"Urban Forum у Києві", true},
		{"Urban Recovery Forum", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := HasUkrainian(tc.in); got != tc.want {
			t.Errorf("HasUkrainian(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestTranslateSkipsNonUkrainian(t *testing.T) {
	stub := &stubCompleter{out: "should not be used"}
	tr := New(stub)

	got := tr.Translate(context.Background(), "Urban Recovery Forum", "event title")
	if got != "Urban Recovery Forum" {
		t.Errorf("got %q", got)
	}
	if stub.calls != 0 {
		t.Error("model called for English text")
	}
}

func TestTranslateUsesModel(t *testing.T) {
	stub := &stubCompleter{out: `"Recovery Forum"`}
	tr := New(stub)

	got := tr.Translate(context.Background(), "Форум відбудови", "event title")
	if got != "Recovery Forum" {
		t.Errorf("got %q, want quotes stripped", got)
	}
	if stub.calls != 1 {
		t.Errorf("model called %d times", stub.calls)
	}
}

func TestTranslateKeepsOriginalOnFailure(t *testing.T) {
	tr := New(&stubCompleter{err: errors.New("model down")})
	got := tr.Translate(context.Background(), "Форум відбудови", "event title")
	if got != "Форум відбудови" {
		t.Errorf("got %q, want original kept", got)
	}

	tr = New(&stubCompleter{out: "   "})
	got = tr.Translate(context.Background(), "Форум відбудови", "event title")
	if got != "Форум відбудови" {
		t.Errorf("empty completion: got %q, want original kept", got)
	}
}
