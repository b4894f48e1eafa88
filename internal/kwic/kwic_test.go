package kwic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	hits := Extract("the cat sat on the CAT mat", []string{"cat"}, 3)

	require.Len(t, hits, 2)

	assert.Equal(t, Hit{Keyword: "cat", Context: "he cat sa", Position: 4}, hits[0])
	assert.Equal(t, Hit{Keyword: "cat", Context: "he CAT ma", Position: 19}, hits[1])
}

func TestExtractEdgeCases(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		keywords  []string
		window    int
		positions []int
		contexts  []string
	}{
		{
			name:      "empty text",
			text:      "",
			keywords:  []string{"cat"},
			window:    5,
			positions: []int{},
		},
		{
			name:      "no keywords",
			text:      "the cat",
			keywords:  nil,
			window:    5,
			positions: []int{},
		},
		{
			name:      "empty keyword is skipped",
			text:      "the cat",
			keywords:  []string{""},
			window:    5,
			positions: []int{},
		},
		{
			name:      "part of a longer word is not a hit",
			text:      "concatenate cats cat",
			keywords:  []string{"cat"},
			window:    0,
			positions: []int{17},
			contexts:  []string{"cat"},
		},
		{
			name:      "regex characters are literal",
			text:      "price a.b and axb",
			keywords:  []string{"a.b"},
			window:    0,
			positions: []int{6},
			contexts:  []string{"a.b"},
		},
		{
			name:      "window clipped at both ends",
			text:      "cat",
			keywords:  []string{"cat"},
			window:    50,
			positions: []int{0},
			contexts:  []string{"cat"},
		},
		{
			name:      "negative window behaves like zero",
			text:      "a cat b",
			keywords:  []string{"cat"},
			window:    -4,
			positions: []int{2},
			contexts:  []string{"cat"},
		},
		{
			name:      "matches across lines",
			text:      "first line\nCat on second",
			keywords:  []string{"cat"},
			window:    1,
			positions: []int{11},
			contexts:  []string{"\nCat "},
		},
		{
			name:      "overlapping candidate after a rejected match",
			text:      "abab ab",
			keywords:  []string{"ab"},
			window:    0,
			positions: []int{5},
			contexts:  []string{"ab"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := Extract(tt.text, tt.keywords, tt.window)
			require.NotNil(t, hits)

			positions := make([]int, 0, len(hits))
			contexts := make([]string, 0, len(hits))

			for _, h := range hits {
				positions = append(positions, h.Position)
				contexts = append(contexts, h.Context)
			}

			assert.Equal(t, tt.positions, positions)

			if tt.contexts != nil {
				assert.Equal(t, tt.contexts, contexts)
			}
		})
	}
}

func TestExtractArabic(t *testing.T) {
	text := "تم طرح المناقصة الأولى، ثم ألغيت المناقصة. المناقصات القادمة لاحقاً"

	hits := Extract(text, []string{"المناقصة"}, 4)

	require.Len(t, hits, 2)

	// positions are character offsets
	assert.Equal(t, 7, hits[0].Position)
	assert.Equal(t, "طرح المناقصة الأ", hits[0].Context)
	assert.Equal(t, 33, hits[1].Position)
	assert.Equal(t, "غيت المناقصة. ال", hits[1].Context)
}

func TestExtractArabicDiacriticsStayInsideWord(t *testing.T) {
	// the trailing fatha is a combining mark, so "عقد" followed by it is not a whole word
	hits := Extract("عقدَ العقد عقد", []string{"عقد"}, 0)

	require.Len(t, hits, 1)
	assert.Equal(t, 11, hits[0].Position)
}

func TestExtractMergesKeywordsByPosition(t *testing.T) {
	text := "supplier risk and supplier schedule risk"

	hits := Extract(text, []string{"risk", "supplier"}, 0)

	require.Len(t, hits, 4)

	assert.Equal(t, []Hit{
		{Keyword: "supplier", Context: "supplier", Position: 0},
		{Keyword: "risk", Context: "risk", Position: 9},
		{Keyword: "supplier", Context: "supplier", Position: 18},
		{Keyword: "risk", Context: "risk", Position: 36},
	}, hits)
}

func TestExtractTiesKeepKeywordOrder(t *testing.T) {
	hits := Extract("Cat here", []string{"cat", "CAT"}, 0)

	require.Len(t, hits, 2)
	assert.Equal(t, "cat", hits[0].Keyword)
	assert.Equal(t, "CAT", hits[1].Keyword)
}

func TestExtractNonWordKeywordEdges(t *testing.T) {
	// a keyword starting with a non-word character needs a word character before it
	hits := Extract("pay $100 now, x$100", []string{"$100"}, 0)

	require.Len(t, hits, 1)
	assert.Equal(t, 15, hits[0].Position)
}

func TestIsWordRune(t *testing.T) {
	for _, r := range []rune{'a', 'Z', '_', '7', 'ع', '٣', 'َ'} {
		assert.True(t, IsWordRune(r), string(r))
	}

	for _, r := range []rune{' ', '.', '-', '،', '$', '\n'} {
		assert.False(t, IsWordRune(r), string(r))
	}
}
