package questiongen

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subodh556/AI-Teacher-sub000/internal/question"
)

type countingGenerator struct {
	calls atomic.Int32
	err   error
}

func (g *countingGenerator) Generate(_ context.Context, input GenerateInput) (*question.Question, error) {
	n := g.calls.Add(1)
	if g.err != nil {
		return nil, g.err
	}
	return &question.Question{ID: input.Topic, Difficulty: int(n)}, nil
}

func TestCache_HitsOnIdenticalRequest(t *testing.T) {
	inner := &countingGenerator{}
	c := NewCache(inner, CacheConfig{Size: 4, TTL: time.Minute})
	ctx := context.Background()

	first, err := c.Generate(ctx, choiceInput())
	require.NoError(t, err)
	second, err := c.Generate(ctx, choiceInput())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.EqualValues(t, 1, inner.calls.Load())

	other := choiceInput()
	other.Difficulty = 3
	_, err = c.Generate(ctx, other)
	require.NoError(t, err)
	assert.EqualValues(t, 2, inner.calls.Load())
	assert.Equal(t, 2, c.Len())
}

func TestCache_KeyCoversPriorPrompts(t *testing.T) {
	a := choiceInput()
	b := choiceInput()
	b.PriorPrompts = []string{"What is a map?"}
	assert.NotEqual(t, Key(a), Key(b))
	assert.Equal(t, Key(a), Key(choiceInput()))
	assert.Len(t, Key(a), 64)
}

func TestCache_DoesNotCacheErrors(t *testing.T) {
	inner := &countingGenerator{err: errors.New("down")}
	c := NewCache(inner, DefaultCacheConfig())

	_, err := c.Generate(context.Background(), choiceInput())
	require.Error(t, err)
	_, err = c.Generate(context.Background(), choiceInput())
	require.Error(t, err)
	assert.EqualValues(t, 2, inner.calls.Load())
	assert.Zero(t, c.Len())
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	inner := &countingGenerator{}
	c := NewCache(inner, CacheConfig{Size: 2, TTL: time.Minute})
	ctx := context.Background()

	in := func(topic string) GenerateInput { return GenerateInput{Topic: topic} }
	for _, topic := range []string{"a", "b", "a", "c"} {
		_, err := c.Generate(ctx, in(topic))
		require.NoError(t, err)
	}
	assert.EqualValues(t, 3, inner.calls.Load())

	// "b" was least recently used when "c" arrived.
	_, err := c.Generate(ctx, in("b"))
	require.NoError(t, err)
	assert.EqualValues(t, 4, inner.calls.Load())
}

func TestCache_Expires(t *testing.T) {
	inner := &countingGenerator{}
	c := NewCache(inner, CacheConfig{Size: 2, TTL: 20 * time.Millisecond})
	ctx := context.Background()

	_, err := c.Generate(ctx, choiceInput())
	require.NoError(t, err)
	time.Sleep(60 * time.Millisecond)
	_, err = c.Generate(ctx, choiceInput())
	require.NoError(t, err)
	assert.EqualValues(t, 2, inner.calls.Load())
}
