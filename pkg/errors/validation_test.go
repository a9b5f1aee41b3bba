package errors

import (
	"strings"
	"testing"
)

func TestValidateHash(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"sha1", strings.Repeat("a", 40), false},
		{"sha256", strings.Repeat("0", 64), false},
		{"abbreviated", "1a2b3c4", false},

		{"empty", "", true},
		{"too short", "abc", true},
		{"too long", strings.Repeat("a", 65), true},
		{"uppercase", "ABCDEF12", true},
		{"non hex", "xyz12345", true},
		{"whitespace", "abcd 1234", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHash(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateHash(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidBundle) {
				t.Errorf("ValidateHash(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidBundle)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "repo_story_standalone.html", false},
		{"nested", "out/story.html", false},
		{"absolute", "/tmp/story.html", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 501), true},
		{"control char", "story\x01.html", true},
		{"null byte", "story\x00.html", true},
		{"directory", "out/", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
