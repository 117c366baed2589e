package submission

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractCandidates(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want []string
	}{
		{
			name: "пустой текст",
			text: "",
			max:  3,
			want: []string{},
		},
		{
			name: "без ссылок",
			text: "решил, но ссылку не дам",
			max:  3,
			want: []string{},
		},
		{
			name: "порядок сохраняется",
			text: "https://leetcode.com/submissions/detail/222/ и https://leetcode.com/submissions/detail/111/",
			max:  3,
			want: []string{"222", "111"},
		},
		{
			name: "лишние ссылки отбрасываются",
			text: "https://leetcode.com/submissions/detail/1/ https://leetcode.com/submissions/detail/2/ " +
				"https://leetcode.com/submissions/detail/3/ https://leetcode.com/submissions/detail/4/",
			max:  3,
			want: []string{"1", "2", "3"},
		},
		{
			name: "без завершающего слеша не считается",
			text: "https://leetcode.com/submissions/detail/123",
			max:  3,
			want: []string{},
		},
		{
			name: "другой хост не считается",
			text: "https://leetcode.cn/submissions/detail/123/",
			max:  3,
			want: []string{},
		},
		{
			name: "нулевой лимит заменяется значением по умолчанию",
			text: strings.Repeat("https://leetcode.com/submissions/detail/7/ ", 5),
			max:  0,
			want: []string{"7", "7", "7"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractCandidates(tt.text, tt.max))
		})
	}
}

func TestExtractCandidates_NeverExceedsCap(t *testing.T) {
	text := strings.Repeat("see https://leetcode.com/submissions/detail/42/\n", 50)
	for max := 1; max <= 5; max++ {
		assert.Len(t, ExtractCandidates(text, max), max)
	}
}
