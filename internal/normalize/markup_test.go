package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nezhnik/omonete-sub001/pkg/model"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "already clean",
			input:    "Георгий Победоносец",
			expected: "Георгий Победоносец",
		},
		{
			name:     "line break tag",
			input:    "Зимние виды спорта<br>Биатлон",
			expected: "Зимние виды спорта Биатлон",
		},
		{
			name:     "self-closing tag and nbsp entity",
			input:    "100-летие&nbsp;Транссиба<br/>",
			expected: "100-летие Транссиба",
		},
		{
			name:     "em-dash entity",
			input:    "Русский балет &mdash; Щелкунчик",
			expected: "Русский балет — Щелкунчик",
		},
		{
			name:     "generic tags stripped",
			input:    "<b>Соболь</b> <i>(серебро)</i>",
			expected: "Соболь (серебро)",
		},
		{
			name:     "trailing mintage clause",
			input:    "Знаки зодиака. Овен, тираж: 20 000 шт.",
			expected: "Знаки зодиака. Овен",
		},
		{
			name:     "trailing edge clause",
			input:    "Червонец. Гурт: рифлёный",
			expected: "Червонец",
		},
		{
			name:     "whitespace collapsed and trimmed",
			input:    "  Сохраним   наш мир  ",
			expected: "Сохраним наш мир",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanText(tt.input))
		})
	}
}

func TestCleanText_Idempotent(t *testing.T) {
	inputs := []string{
		"Зимние виды спорта<br>Биатлон",
		"100-летие&nbsp;Транссиба",
		"Знаки зодиака. Овен, тираж: 20 000 шт.",
		"Георгий Победоносец",
	}
	for _, in := range inputs {
		once := CleanText(in)
		assert.Equal(t, once, CleanText(once), "CleanText not idempotent for %q", in)
	}
}

func TestMarkupStripper(t *testing.T) {
	rule := NewMarkupStripper()

	t.Run("dirty title and mint", func(t *testing.T) {
		rec := &model.CoinRecord{
			Title: "Соболь<br>",
			Mint:  "Московский&nbsp;монетный двор",
		}
		assert.True(t, rule.Matches(rec))
		deltas, changed := rule.Normalize(rec)
		assert.True(t, changed)
		assert.Equal(t, "Соболь", deltas["title"])
		assert.Equal(t, "Московский монетный двор", deltas["mint"])
	})

	t.Run("clean record is not reported as an update", func(t *testing.T) {
		rec := &model.CoinRecord{
			Title: "Соболь",
			Mint:  "Московский монетный двор",
		}
		assert.False(t, rule.Matches(rec))
		deltas, changed := rule.Normalize(rec)
		assert.False(t, changed)
		assert.Nil(t, deltas)
	})

	t.Run("only dirty field staged", func(t *testing.T) {
		rec := &model.CoinRecord{
			Title: "Соболь<br>",
			Mint:  "Московский монетный двор",
		}
		deltas, changed := rule.Normalize(rec)
		assert.True(t, changed)
		assert.Contains(t, deltas, "title")
		assert.NotContains(t, deltas, "mint")
	})
}
