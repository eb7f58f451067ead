package extract

import (
	"testing"
)

func TestParseUnitPrice(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		context PriceContext
		want    int
		ok      bool
	}{
		{
			name:    "parenthetical settlement band ignored",
			text:    "70万円(140-200)",
			context: ContextPosted,
			want:    70,
			ok:      true,
		},
		{
			name:    "fullwidth parenthetical ignored",
			text:    "65万円（精算幅140h-180h）",
			context: ContextPosted,
			want:    65,
			ok:      true,
		},
		{
			name:    "desired range takes lower bound",
			text:    "60~70万",
			context: ContextDesired,
			want:    60,
			ok:      true,
		},
		{
			name:    "posted range takes upper bound",
			text:    "80万～100万",
			context: ContextPosted,
			want:    100,
			ok:      true,
		},
		{
			name:    "posted range with tilde only on upper",
			text:    "60~70万",
			context: ContextPosted,
			want:    70,
			ok:      true,
		},
		{
			name:    "comma-grouped yen divided by 10000",
			text:    "550,000円",
			context: ContextPosted,
			want:    55,
			ok:      true,
		},
		{
			name:    "plain yen amount",
			text:    "700000円",
			context: ContextPosted,
			want:    70,
			ok:      true,
		},
		{
			name:    "bare number in yen magnitude converted",
			text:    "600000",
			context: ContextPosted,
			want:    60,
			ok:      true,
		},
		{
			name:    "bare small number taken as 万円",
			text:    "75",
			context: ContextPosted,
			want:    75,
			ok:      true,
		},
		{
			name:    "no digits",
			text:    "スキル見合い",
			context: ContextPosted,
			ok:      false,
		},
		{
			name:    "empty string",
			text:    "",
			context: ContextPosted,
			ok:      false,
		},
		{
			name:    "desired range in yen",
			text:    "600,000円〜700,000円",
			context: ContextDesired,
			want:    60,
			ok:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseUnitPrice(tt.text, tt.context)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("price = %d, want %d", got, tt.want)
			}
		})
	}
}
