package match

import (
	"reflect"
	"testing"
)

func TestTokenizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"Published Date", []string{"published", "date"}},
		{"  SEO   title ", []string{"seo", "title"}},
		{"Title", []string{"title"}},
		{"tab\tseparated", []string{"tab", "separated"}},
		{"", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := TokenizeName(tt.input)
			if len(got) == 0 && len(tt.expected) == 0 {
				return
			}

			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("TokenizeName(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeCodename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"meta_title", "metatitle"},
		{"Meta Title", "metatitle"},
		{"meta-title", "metatitle"},
		{"METATITLE", "metatitle"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeCodename(tt.input); got != tt.expected {
				t.Errorf("NormalizeCodename(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSameName(t *testing.T) {
	if !SameName("Hero Image", "hero image") {
		t.Error("expected case-insensitive equality")
	}

	if SameName("Hero Image", "Hero  Image") {
		t.Error("whitespace must be significant")
	}
}
