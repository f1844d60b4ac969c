package fetch

import "testing"

func TestText(t *testing.T) {
	in := `<html><head><title>Forum</title><style>body{color:red}</style>
	<script>var x = "hidden";</script></head>
	<body><h1>Urban &amp; Recovery</h1><p>Event date:
	12 March 2026</p></body></html>`

	got := Text(in)
	want := "Forum Urban & Recovery Event date: 12 March 2026"
	if got != want {
		t.Errorf("Text = %q, want %q", got, want)
	}
}

func TestTextDropsScriptBodies(t *testing.T) {
	got := Text(`<script>secret2024()</script><p>visible</p>`)
	if got != "visible" {
		t.Errorf("Text = %q", got)
	}
}

func TestTitle(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"title tag", `<html><head><title> Recovery Forum </title></head><body><h1>Other</h1></body></html>`, "Recovery Forum"},
		{"h1 fallback", `<html><body><h1>Recovery <b>Forum</b></h1></body></html>`, "Recovery Forum"},
		{"entities", `<title>Housing &amp; Policy</title>`, "Housing & Policy"},
		{"neither", `<p>just text</p>`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Title(tc.in); got != tc.want {
				t.Errorf("Title = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestValidURL(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"https://example.org/events", true},
		{"http://example.org", true},
		{"ftp://example.org", false},
		{"/relative/path", false},
		{"", false},
		{"not a url", false},
	}
	for _, tc := range cases {
		if got := ValidURL(tc.in); got != tc.want {
			t.Errorf("ValidURL(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
