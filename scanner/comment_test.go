package scanner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/spdxmatch/normalizer"
)

func TestExtractComments_Columns(t *testing.T) {
	tests := []struct {
		description  string
		source       string
		expectLine   int
		expectColumn int
	}{
		{
			description:  "ascii prefix",
			source:       "package main\n\nvar name = \"abc\" // Licensed\n",
			expectLine:   3,
			expectColumn: 20,
		},
		{
			description:  "multi byte prefix",
			source:       "package main\n\nvar name = \"éè—\" // Licensed\n",
			expectLine:   3,
			expectColumn: 20,
		},
		{
			description:  "block comment after multi byte text",
			source:       "package main\n\nvar name = \"日本\" /* Licensed */\n",
			expectLine:   3,
			expectColumn: 19,
		},
	}
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			blocks, err := extractComments(context.Background(), languageOf("main.go"), []byte(tt.source))
			require.NoError(t, err)
			require.Len(t, blocks, 1)
			assert.Equal(t, tt.expectLine, blocks[0].Line)
			run := normalizer.Normalize(blocks[0].Text)
			require.Len(t, run, 1)
			assert.Equal(t, "licensed", run[0].Text)
			assert.Equal(t, tt.expectColumn, run[0].Position.Column)
		})
	}
}
