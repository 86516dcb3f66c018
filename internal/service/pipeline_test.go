package service

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slidegen/internal/cluster"
	"slidegen/internal/domain"
	"slidegen/internal/segmenter"
	"slidegen/internal/summarize"
)

// fakeEmbedder maps sentences onto fixed axes by keyword, so clustering
// outcomes are exact and the tests need no live embedding provider.
type fakeEmbedder struct {
	vecFor     func(text string) []float64
	prepareErr error
	prepared   [][]string
}

func (f *fakeEmbedder) Name() string { return "fake" }

func (f *fakeEmbedder) Prepare(corpus []string) error {
	f.prepared = append(f.prepared, corpus)
	return f.prepareErr
}

func (f *fakeEmbedder) Dimension() int { return 2 }

func (f *fakeEmbedder) Embed(text string) ([]float64, error) {
	return f.vecFor(text), nil
}

func axisByKeyword(text string) []float64 {
	if strings.Contains(strings.ToLower(text), "revenue") {
		return []float64{1, 0}
	}
	return []float64{0, 1}
}

func newTestPipeline(emb domain.Embedder, maxTopics int) *Pipeline {
	return NewPipeline(
		segmenter.New(3, 12),
		emb,
		cluster.New(2, maxTopics, cluster.MethodDensity),
		summarize.New(5, 0.8),
		maxTopics,
		zerolog.Nop(),
	)
}

func topicBlocks() []domain.TextBlock {
	return []domain.TextBlock{
		{Source: 0, Confidence: 80, Text: "Quarterly revenue increased by ten percent. " +
			"Revenue climbed ten percent in total. " +
			"Revenue rose close to ten percent."},
		{Source: 1, Confidence: 90, Text: "The team hired four new engineers. " +
			"Hiring added four new engineers. " +
			"Four new engineers joined recently."},
	}
}

func TestGenerate_TwoTopicsFromTwoThemes(t *testing.T) {
	p := newTestPipeline(&fakeEmbedder{vecFor: axisByKeyword}, 10)
	d, err := p.Generate(context.Background(), topicBlocks())
	require.NoError(t, err)

	require.Len(t, d.Topics, 2)
	// equal importance, so cluster order decides
	assert.Equal(t, "Quarterly revenue increased by ten percent", d.Topics[0].Title)
	assert.Contains(t, d.Topics[1].Title, "team hired four new engineers")
	// near-identical members collapse to a single bullet per topic
	assert.Len(t, d.Topics[0].Bullets, 1)
	assert.Len(t, d.Topics[1].Bullets, 1)

	assert.Equal(t, 2, d.Meta.SourceBlocks)
	assert.Equal(t, 6, d.Meta.SourceSentences)
	assert.InDelta(t, 85, d.Meta.AvgConfidence, 1e-9)
	assert.NotEmpty(t, d.Meta.ID)
	assert.False(t, d.Meta.GeneratedAt.IsZero())
}

func TestGenerate_EmptyInputYieldsEmptyDeck(t *testing.T) {
	p := newTestPipeline(&fakeEmbedder{vecFor: axisByKeyword}, 10)

	d, err := p.Generate(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, d.Topics)
	assert.Equal(t, 0, d.Meta.SourceSentences)

	d, err = p.Generate(context.Background(), []domain.TextBlock{{Text: "Hi. ### 12"}})
	require.NoError(t, err)
	assert.Empty(t, d.Topics)
	assert.Equal(t, 1, d.Meta.SourceBlocks)
	assert.Equal(t, 0, d.Meta.SourceSentences)
}

func TestGenerate_Deterministic(t *testing.T) {
	p := newTestPipeline(&fakeEmbedder{vecFor: axisByKeyword}, 10)
	first, err := p.Generate(context.Background(), topicBlocks())
	require.NoError(t, err)
	second, err := p.Generate(context.Background(), topicBlocks())
	require.NoError(t, err)
	assert.Equal(t, first.Topics, second.Topics)
}

func TestGenerate_CancelledContext(t *testing.T) {
	p := newTestPipeline(&fakeEmbedder{vecFor: axisByKeyword}, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d, err := p.Generate(ctx, topicBlocks())
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, d)
}

func TestGenerate_PrepareFailureAborts(t *testing.T) {
	emb := &fakeEmbedder{vecFor: axisByKeyword, prepareErr: assert.AnError}
	p := newTestPipeline(emb, 10)
	d, err := p.Generate(context.Background(), topicBlocks())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	assert.Nil(t, d)
}

func TestGenerate_DimensionMismatchAborts(t *testing.T) {
	calls := 0
	emb := &fakeEmbedder{vecFor: func(text string) []float64 {
		calls++
		if calls == 1 {
			return []float64{1, 0}
		}
		return []float64{0, 1, 0}
	}}
	p := newTestPipeline(emb, 10)
	d, err := p.Generate(context.Background(), topicBlocks())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	assert.Nil(t, d)
}

func TestGenerate_PreparesOverWholeCorpus(t *testing.T) {
	emb := &fakeEmbedder{vecFor: axisByKeyword}
	p := newTestPipeline(emb, 10)
	_, err := p.Generate(context.Background(), topicBlocks())
	require.NoError(t, err)
	require.Len(t, emb.prepared, 1)
	assert.Len(t, emb.prepared[0], 6)
}
