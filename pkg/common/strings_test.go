package common

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRemoveQuotesIfAny(t *testing.T) {
	cases := []struct {
		input  string
		output string
	}{
		{"'coke'", "coke"},
		{"\"coke\"", "coke"},
		{"coke", "coke"},
		{"'coke", "'coke"},
		{"''", "''"},
		{"", ""},
	}
	for _, c := range cases {
		got := RemoveSingleQuotesIfAny(RemoveDoubleQuotesIfAny(c.input))
		if got != c.output {
			t.Errorf("unquoting %q: expected %q, got %q", c.input, c.output, got)
		}
	}
}

func TestIsStringInSlice(t *testing.T) {
	slice := []string{"grok", "qwen", "llava"}
	if !IsStringInSlice("qwen", slice) {
		t.Error("expected qwen to be found")
	}
	if IsStringInSlice("gemini", slice) {
		t.Error("expected gemini to be missing")
	}
	if IsStringInSlice("grok", nil) {
		t.Error("expected nothing to be found in a nil slice")
	}
}

func TestIsImageFormat(t *testing.T) {
	cases := []struct {
		url  string
		want bool
	}{
		{"https://example.com/scene.jpg", true},
		{"https://example.com/scene.jpeg", true},
		{"https://example.com/scene.png", true},
		{"https://example.com/scene.gif", true},
		{"https://example.com/scene.pdf", false},
		{"https://example.com/", false},
	}
	for _, c := range cases {
		if got := IsImageFormat(c.url); got != c.want {
			t.Errorf("IsImageFormat(%q) = %v, expected %v", c.url, got, c.want)
		}
	}
}

func TestReadAllLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lines.txt")
	if err := os.WriteFile(path, []byte("first\nsecond\n\nthird"), 0644); err != nil {
		t.Fatal(err)
	}
	lines, err := ReadAllLines(path)
	if err != nil {
		t.Fatal(err)
	}
	expected := []string{"first", "second", "", "third"}
	if len(lines) != len(expected) {
		t.Fatalf("expected %d lines, got %d", len(expected), len(lines))
	}
	for i := range expected {
		if lines[i] != expected[i] {
			t.Errorf("line %d: expected %q, got %q", i, expected[i], lines[i])
		}
	}
}
