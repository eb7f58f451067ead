package mailbox

import (
	"testing"
)

func TestNormalizeBody(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "collapses blank line runs",
			in:   "案件名\n\n\n単価70万\n\n勤務地: 東京",
			want: "案件名\n単価70万\n勤務地: 東京",
		},
		{
			name: "handles CRLF",
			in:   "a\r\n\r\nb",
			want: "a\nb",
		},
		{
			name: "single line breaks preserved",
			in:   "a\nb\nc",
			want: "a\nb\nc",
		},
		{
			name: "mixed break styles",
			in:   "a\r\n\n\rb",
			want: "a\nb",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeBody(tt.in); got != tt.want {
				t.Errorf("NormalizeBody(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
