package service

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple title", "My Case Study", "my-case-study"},
		{"ampersand", "Design & Build", "design-and-build"},
		{"apostrophe", "Aria's Journey", "arias-journey"},
		{"slash", "iOS/Android App", "ios-android-app"},
		{"punctuation collapses", "Hello,  World!!", "hello-world"},
		{"leading and trailing junk", "  --Spaced--  ", "spaced"},
		{"unicode stripped", "Café Über", "caf-ber"},
		{"empty falls back", "   ", "untitled"},
		{"symbols only falls back", "!!!", "untitled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := slugify(tt.input); got != tt.want {
				t.Errorf("slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
