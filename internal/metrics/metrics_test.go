package metrics

import "testing"

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"/gifts/123":          "/gifts/{id}",
		"/lists/45/gifts/7":   "/lists/{id}/gifts/{id}",
		"/gifts":              "/gifts",
		"/":                   "/",
		"/auth/login":         "/auth/login",
		"/lists/9/":           "/lists/{id}/",
	}
	for in, want := range cases {
		if got := NormalizePath(in); got != want {
			t.Errorf("NormalizePath(%q): got %q, want %q", in, got, want)
		}
	}
}
