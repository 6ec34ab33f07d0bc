package cmd

import (
	"testing"

	cfgpkg "github.com/KaramelBytes/reportloom-cli/internal/config"
)

func TestMask(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", "****"},
		{"abcd", "****"},
		{"supersecret", "su****et"},
	}
	for _, c := range cases {
		if got := mask(c.in); got != c.want {
			t.Errorf("mask(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSourceDescriptor(t *testing.T) {
	c := &cfgpkg.Global{}
	c.Data.Source = "postgres://localhost/sales"
	c.Data.SourceType = "sql"
	c.Data.Table = "orders"
	c.Data.Headers = map[string]string{"Authorization": "Bearer x"}

	d := sourceDescriptor(c)
	if d.Source != c.Data.Source || d.Type != "sql" || d.Table != "orders" {
		t.Errorf("descriptor = %+v", d)
	}
	if d.Headers["Authorization"] != "Bearer x" {
		t.Errorf("headers not carried over: %+v", d.Headers)
	}
}
