package plan

import "testing"

func TestSpliceReplacement(t *testing.T) {
	tests := []struct {
		name        string
		full        string
		old         string
		replacement string
		want        string
	}{
		{
			name:        "exact match keeps surrounding text",
			full:        "• Pay off debt before retirement",
			old:         "Pay off debt",
			replacement: "Pay off the mortgage",
			want:        "• Pay off the mortgage before retirement",
		},
		{
			name:        "case-insensitive match",
			full:        "• Pay Off Debt before retirement",
			old:         "pay off debt",
			replacement: "pay off the mortgage",
			want:        "• pay off the mortgage before retirement",
		},
		{
			name:        "absent target stands alone",
			full:        "• Review insurance cover",
			old:         "something else entirely",
			replacement: "new text",
			want:        "new text",
		},
		{
			name:        "empty old stands alone",
			full:        "• Review insurance cover",
			old:         "",
			replacement: "new text",
			want:        "new text",
		},
		{
			// U+212A KELVIN SIGN is 3 bytes but lowercases to a 1-byte
			// 'k'; the splice offsets must come from the original string.
			name:        "fold match where lowering shrinks bytes",
			full:        "• Max out the 401K plan this year",
			old:         "max out the 401k plan",
			replacement: "review the 401k plan",
			want:        "• review the 401k plan this year",
		},
		{
			// U+0130 lowercases to two runes under strings.ToLower,
			// shifting every later byte offset.
			name:        "fold match where lowering grows bytes",
			full:        "• İnsurance review in March",
			old:         "insurance review",
			replacement: "insurance renewal",
			want:        "• insurance renewal in March",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := spliceReplacement(tt.full, tt.old, tt.replacement); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
