package slug_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"trailerstore/internal/slug"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "ukrainian name", input: "Причіп легковий Кремень ПЛ-2", want: "prychip-lehkovyi-kremen-pl-2"},
		{name: "short ukrainian", input: "Тест Причіп", want: "test-prychip"},
		{name: "multi letter expansions", input: "Щука Жовта Юрта", want: "shchuka-zhovta-iurta"},
		{name: "soft sign dropped", input: "сіль", want: "sil"},
		{name: "latin passthrough", input: "  Boat Trailer 500  ", want: "boat-trailer-500"},
		{name: "html stripped", input: "<b>Heavy</b> duty", want: "heavy-duty"},
		{name: "punctuation runs", input: "a -- b!!!c", want: "a-b-c"},
		{name: "leading trailing hyphens", input: "--edge--", want: "edge"},
		{name: "empty", input: "", want: ""},
		{name: "whitespace only", input: "   \t ", want: ""},
		{name: "symbols only", input: "!!!", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.Create(tt.input))
		})
	}
}

func TestCreate_Idempotent(t *testing.T) {
	inputs := []string{
		"Причіп легковий Кремень ПЛ-2",
		"Причіп для човнів АкваТранс М-500",
		"Mixed Ґанок & Co.",
		strings.Repeat("довгий причіп ", 20),
		"",
	}
	for _, in := range inputs {
		once := slug.Create(in)
		assert.Equal(t, once, slug.Create(once), "input %q", in)
	}
}

func TestCreate_TruncatesAndRetrims(t *testing.T) {
	// 99 letters followed by a space puts a hyphen at position 100.
	input := strings.Repeat("a", 99) + " bcd"

	got := slug.Create(input)

	assert.Equal(t, strings.Repeat("a", 99), got)
	assert.LessOrEqual(t, len(slug.Create(strings.Repeat("причіп ", 40))), slug.MaxLength)
}

func TestIsValid(t *testing.T) {
	assert.True(t, slug.IsValid("prychip-lehkovyi-kremen-pl-2"))
	assert.True(t, slug.IsValid("abc-1"))
	assert.False(t, slug.IsValid(""))
	assert.False(t, slug.IsValid("-abc"))
	assert.False(t, slug.IsValid("Has Space"))
	assert.False(t, slug.IsValid("причіп"))
}

func TestUnique(t *testing.T) {
	ctx := context.Background()
	taken := map[string]bool{"trailer": true, "trailer-1": true}
	exists := func(_ context.Context, s string) (bool, error) { return taken[s], nil }

	got, err := slug.Unique(ctx, "trailer", exists)
	require.NoError(t, err)
	assert.Equal(t, "trailer-2", got)

	got, err = slug.Unique(ctx, "boat", exists)
	require.NoError(t, err)
	assert.Equal(t, "boat", got)
}

func TestUnique_PropagatesStoreError(t *testing.T) {
	boom := errors.New("store down")
	_, err := slug.Unique(context.Background(), "x", func(context.Context, string) (bool, error) {
		return false, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestUnique_Bounded(t *testing.T) {
	calls := 0
	_, err := slug.Unique(context.Background(), "x", func(context.Context, string) (bool, error) {
		calls++
		return true, nil
	})
	assert.ErrorIs(t, err, slug.ErrExhausted)
	assert.Equal(t, slug.MaxAttempts, calls)
}
