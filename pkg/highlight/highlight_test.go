package highlight

import "testing"

func TestStripMarkers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "wrapped span",
			input: "before {==span==} after",
			want:  "before span after",
		},
		{
			name:  "whole line",
			input: "{==entire line==}",
			want:  "entire line",
		},
		{
			name:  "unbalanced markers",
			input: "dangling ==} and {== open",
			want:  "dangling  and  open",
		},
		{
			name:  "no markers",
			input: "plain line",
			want:  "plain line",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripMarkers(tt.input); got != tt.want {
				t.Errorf("StripMarkers(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name string
		text string // pattern source; empty means nil pattern
		line string
		want string
	}{
		{
			name: "wraps matched span",
			text: "brown fox",
			line: "the brown fox jumps",
			want: "the {==brown fox==} jumps",
		},
		{
			name: "nil pattern wraps whole line",
			line: "no pattern available",
			want: "{==no pattern available==}",
		},
		{
			name: "unlocatable span wraps whole line",
			text: "missing phrase",
			line: "entirely different words",
			want: "{==entirely different words==}",
		},
		{
			name: "existing markers replaced",
			text: "brown fox",
			line: "the {==brown fox jumps==}",
			want: "the {==brown fox==} jumps",
		},
		{
			name: "rewrap is stable",
			text: "brown fox",
			line: "the {==brown fox==} jumps",
			want: "the {==brown fox==} jumps",
		},
		{
			name: "blank line untouched",
			line: "   ",
			want: "   ",
		},
		{
			name: "empty line untouched",
			line: "",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p *Pattern
			if tt.text != "" {
				p = MustCompile(tt.text)
			}
			if got := Wrap(tt.line, p); got != tt.want {
				t.Errorf("Wrap(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}
