package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleTokenizer(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"latin", "Hello. world", []string{"Hello.", "world"}},
		{"decimal kept", "Pi is 3.14 roughly. Yes!", []string{"Pi is 3.14 roughly.", "Yes!"}},
		{"cjk", "你好。今天讲什么？讲帧！", []string{"你好。", "今天讲什么？", "讲帧！"}},
		{"no terminal mark", "just words", []string{"just words"}},
		{"empty", "  ", nil},
	}

	tok := NewRuleTokenizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tok.Tokenize(tt.text))
		})
	}
}

func TestPunktTokenizer(t *testing.T) {
	tok, err := NewPunktTokenizer()
	require.NoError(t, err)

	got := tok.Tokenize("This is the first sentence. This is the second one.")
	assert.Equal(t, []string{"This is the first sentence.", "This is the second one."}, got)
	assert.Empty(t, tok.Tokenize(""))
}

func TestForLanguage(t *testing.T) {
	tests := []struct {
		code     string
		wantRule bool
		wantErr  bool
	}{
		{"zh", true, false},
		{"zh-Hant", true, false},
		{"ja", true, false},
		{"ko", true, false},
		{"en", false, false},
		{"fr", false, false},
		{"", false, false},
		{"not a language!", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			tok, err := ForLanguage(tt.code)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			_, isRule := tok.(ruleTokenizer)
			assert.Equal(t, tt.wantRule, isRule)
		})
	}
}
