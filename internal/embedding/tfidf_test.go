package embedding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slidegen/internal/vecmath"
)

var corpus = []string{
	"revenue grew ten percent this quarter",
	"quarterly revenue climbed ten percent",
	"the team hired four new engineers",
	"four engineers joined the platform team",
}

func TestTFIDF_PrepareEmptyCorpus(t *testing.T) {
	e := NewTFIDFEmbedder()
	assert.Error(t, e.Prepare(nil))
}

func TestTFIDF_EmbedBeforePrepare(t *testing.T) {
	e := NewTFIDFEmbedder()
	_, err := e.Embed("anything")
	assert.Error(t, err)
}

func TestTFIDF_VectorsAreUnitLength(t *testing.T) {
	e := NewTFIDFEmbedder()
	require.NoError(t, e.Prepare(corpus))
	for _, text := range corpus {
		vec, err := e.Embed(text)
		require.NoError(t, err)
		require.Len(t, vec, e.Dimension())
		assert.InDelta(t, 1.0, vecmath.Norm(vec), 1e-9, "text %q", text)
	}
}

func TestTFIDF_SimilarSentencesScoreHigher(t *testing.T) {
	e := NewTFIDFEmbedder()
	require.NoError(t, e.Prepare(corpus))
	revenue1, err := e.Embed(corpus[0])
	require.NoError(t, err)
	revenue2, err := e.Embed(corpus[1])
	require.NoError(t, err)
	hiring, err := e.Embed(corpus[2])
	require.NoError(t, err)

	within := vecmath.Cosine(revenue1, revenue2)
	across := vecmath.Cosine(revenue1, hiring)
	assert.Greater(t, within, across)
}

func TestTFIDF_Deterministic(t *testing.T) {
	a := NewTFIDFEmbedder()
	b := NewTFIDFEmbedder()
	require.NoError(t, a.Prepare(corpus))
	require.NoError(t, b.Prepare(corpus))
	assert.Equal(t, a.Dimension(), b.Dimension())
	for _, text := range corpus {
		va, err := a.Embed(text)
		require.NoError(t, err)
		vb, err := b.Embed(text)
		require.NoError(t, err)
		assert.Equal(t, va, vb)
	}
}

func TestTFIDF_UnknownTokensGiveZeroVector(t *testing.T) {
	e := NewTFIDFEmbedder()
	require.NoError(t, e.Prepare(corpus))
	vec, err := e.Embed("zyzzyva xylophone")
	require.NoError(t, err)
	require.Len(t, vec, e.Dimension())
	assert.True(t, math.Abs(vecmath.Norm(vec)) < 1e-12)
}

func TestTFIDF_StopwordsIgnored(t *testing.T) {
	e := NewTFIDFEmbedder()
	require.NoError(t, e.Prepare([]string{"the revenue", "a margin"}))
	// only the content words survive tokenization
	assert.Equal(t, 2, e.Dimension())
}
