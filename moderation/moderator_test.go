package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const replacementChar = '*'

func TestCensor_Apply(t *testing.T) {
	req := require.New(t)
	censor, err := NewCensor([]string{"badger", "snake"}, replacementChar)
	req.NoError(err)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "simple word and space preservation",
			input:    "The badger is here",
			expected: "The ****** is here",
		},
		{
			name:     "multiple occurrences",
			input:    "badger badger badger",
			expected: "****** ****** ******",
		},
		{
			name:     "matching is case-insensitive",
			input:    "Watch out for the SNAKE",
			expected: "Watch out for the *****",
		},
		{
			name:     "accented text keeps indices aligned",
			input:    "Un été avec un badger",
			expected: "Un été avec un ******",
		},
		{
			name:     "word adjacent to punctuation",
			input:    "I love badger!",
			expected: "I love ******!",
		},
		{
			name:     "nothing to censor",
			input:    "workspace chat is amazing",
			expected: "workspace chat is amazing",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.New(t).Equal(tt.expected, censor.Apply(tt.input))
		})
	}
}

func TestCensor_DisabledWithoutWords(t *testing.T) {
	req := require.New(t)

	censor, err := NewCensor(nil, replacementChar)
	req.NoError(err)

	input := "badger snake mushroom"
	req.Equal(input, censor.Apply(input))
}
