package idgen

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// scripted returns a Draw func that yields codes in order, repeating the last.
func scripted(codes ...string) func(int) string {
	i := 0
	return func(int) string {
		c := codes[min(i, len(codes)-1)]
		i++
		return c
	}
}

func TestNext_Random(t *testing.T) {
	g := New(Options{Prefix: "tl"})

	id, err := g.Next(NewSet())
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^tl-[a-z0-9]{3}$`), id)
}

func TestNext_Random_Length(t *testing.T) {
	g := New(Options{Prefix: "web", Length: 5})

	id, err := g.Next(NewSet())
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^web-[a-z0-9]{5}$`), id)
}

func TestNext_Random_RedrawsOnCollision(t *testing.T) {
	g := New(Options{Prefix: "tl", Draw: scripted("aaa", "aaa", "bbb")})

	id, err := g.Next(NewSet("tl-aaa"))
	require.NoError(t, err)
	assert.Equal(t, "tl-bbb", id)
}

func TestNext_Random_SkipsDanglingReferences(t *testing.T) {
	// "tl-999" is only referenced as a dependency but must never be reissued.
	existing := NewSet("tl-001", "tl-999")
	g := New(Options{Prefix: "tl", Draw: scripted("999", "002")})

	id, err := g.Next(existing)
	require.NoError(t, err)
	assert.Equal(t, "tl-002", id)
}

func TestNext_Random_Exhausted(t *testing.T) {
	g := New(Options{Prefix: "tl", MaxAttempts: 5, Draw: scripted("aaa")})

	_, err := g.Next(NewSet("tl-aaa"))
	require.Error(t, err)

	var exhausted *IDSpaceExhaustedError
	require.True(t, errors.As(err, &exhausted))
	assert.Equal(t, "tl", exhausted.Prefix)
	assert.Equal(t, 5, exhausted.Attempts)
}

func TestNext_Random_FullSpace(t *testing.T) {
	existing := NewSet()
	for _, c := range "abcdefghijklmnopqrstuvwxyz0123456789" {
		existing.Add("tl-" + string(c))
	}

	g := New(Options{Prefix: "tl", Length: 1})
	_, err := g.Next(existing)

	var exhausted *IDSpaceExhaustedError
	require.ErrorAs(t, err, &exhausted)
}

func TestNext_Sequential(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		want     string
	}{
		{name: "empty", existing: nil, want: "tl-1"},
		{name: "after highest", existing: []string{"tl-1", "tl-7", "tl-3"}, want: "tl-8"},
		{name: "ignores other prefixes", existing: []string{"tl-2", "web-40"}, want: "tl-3"},
		{name: "ignores random codes", existing: []string{"tl-a1b", "tl-4"}, want: "tl-5"},
		{name: "dangling reference counts", existing: []string{"tl-1", "tl-12"}, want: "tl-13"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(Options{Prefix: "tl", Strategy: StrategySequential})

			id, err := g.Next(NewSet(tt.existing...))
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestNext_UnknownStrategy(t *testing.T) {
	g := New(Options{Prefix: "tl", Strategy: "uuid"})

	_, err := g.Next(NewSet())
	assert.ErrorContains(t, err, "unknown id strategy")
}

func TestStrategy_IsValid(t *testing.T) {
	assert.True(t, StrategyRandom.IsValid())
	assert.True(t, StrategySequential.IsValid())
	assert.False(t, Strategy("uuid").IsValid())
}

func TestNext_NeverCollides(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		strategy := rapid.SampledFrom([]Strategy{StrategyRandom, StrategySequential}).Draw(t, "strategy")
		seed := rapid.SliceOfDistinct(
			rapid.StringMatching(`tl-[a-z0-9]{1,3}`),
			rapid.ID[string],
		).Draw(t, "seed")
		n := rapid.IntRange(1, 50).Draw(t, "n")

		existing := NewSet(seed...)
		g := New(Options{Prefix: "tl", Strategy: strategy, Length: 2, MaxAttempts: 10_000})

		for range n {
			id, err := g.Next(existing)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if existing.Has(id) {
				t.Fatalf("generated id %q collides with an existing id", id)
			}
			existing.Add(id)
		}
	})
}
