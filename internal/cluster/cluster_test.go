package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slidegen/internal/domain"
)

func sents(vecs ...[]float64) []domain.Sentence {
	out := make([]domain.Sentence, len(vecs))
	for i, v := range vecs {
		out[i] = domain.Sentence{Raw: "sentence", Normalized: "sentence", Embedding: v}
	}
	return out
}

// every input index must land in exactly one cluster
func assertCoverage(t *testing.T, clusters []domain.Cluster, n int) {
	t.Helper()
	seen := make(map[int]int)
	for _, c := range clusters {
		for _, m := range c.Members {
			seen[m]++
		}
	}
	require.Len(t, seen, n)
	for idx, count := range seen {
		assert.Equal(t, 1, count, "index %d assigned %d times", idx, count)
	}
}

func TestCluster_EmptyInput(t *testing.T) {
	c := New(2, 10, MethodDensity)
	got, err := c.Cluster(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCluster_MissingEmbedding(t *testing.T) {
	c := New(2, 10, MethodDensity)
	in := sents([]float64{1, 0}, nil, []float64{0, 1})
	_, err := c.Cluster(in)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestCluster_MixedDimensions(t *testing.T) {
	c := New(2, 10, MethodDensity)
	in := sents([]float64{1, 0}, []float64{0, 1, 0}, []float64{0, 1})
	_, err := c.Cluster(in)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestCluster_FewSentencesSingleCluster(t *testing.T) {
	c := New(2, 10, MethodDensity)
	got, err := c.Cluster(sents([]float64{1, 0}, []float64{0, 1}))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].ID)
	assert.Equal(t, []int{0, 1}, got[0].Members)
	assert.Len(t, got[0].Centroid, 2)
}

func TestCluster_DensityFindsTwoGroups(t *testing.T) {
	c := New(2, 10, MethodDensity)
	in := sents(
		[]float64{1, 0},
		[]float64{1, 0.02},
		[]float64{1, 0.04},
		[]float64{0, 1},
		[]float64{0.02, 1},
		[]float64{0.04, 1},
	)
	got, err := c.Cluster(in)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].ID)
	assert.Equal(t, 1, got[1].ID)
	assert.ElementsMatch(t, []int{0, 1, 2}, got[0].Members)
	assert.ElementsMatch(t, []int{3, 4, 5}, got[1].Members)
	assertCoverage(t, got, len(in))
}

func TestCluster_DensityLabelsOutlierAsNoise(t *testing.T) {
	c := New(2, 10, MethodDensity)
	in := sents(
		[]float64{1, 0},
		[]float64{1, 0.02},
		[]float64{1, 0.04},
		[]float64{0, 1},
		[]float64{0.02, 1},
		[]float64{0.04, 1},
		[]float64{-1, -1}, // far from both groups
	)
	got, err := c.Cluster(in)
	require.NoError(t, err)
	require.Len(t, got, 3)
	noise := got[len(got)-1]
	assert.Equal(t, domain.NoiseClusterID, noise.ID)
	assert.Equal(t, []int{6}, noise.Members)
	assertCoverage(t, got, len(in))
}

func TestCluster_FallsBackToKMeans(t *testing.T) {
	// two loose pairs: the k-distance estimate spans both groups, so the
	// density scan merges everything and the partition fallback takes over
	c := New(2, 10, MethodDensity)
	in := sents(
		[]float64{1, 0},
		[]float64{0.9, 0.1},
		[]float64{0.1, 0.9},
		[]float64{0, 1},
	)
	got, err := c.Cluster(in)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, cl := range got {
		assert.NotEqual(t, domain.NoiseClusterID, cl.ID)
		assert.Len(t, cl.Members, 2)
	}
	assertCoverage(t, got, len(in))
}

func TestCluster_KMeansAssignsEverySentence(t *testing.T) {
	c := New(2, 10, MethodKMeans)
	in := sents(
		[]float64{1, 0},
		[]float64{0.95, 0.05},
		[]float64{0.9, 0.1},
		[]float64{0.85, 0.15},
		[]float64{0, 1},
		[]float64{0.05, 0.95},
		[]float64{0.1, 0.9},
		[]float64{0.15, 0.85},
	)
	got, err := c.Cluster(in)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, cl := range got {
		assert.NotEqual(t, domain.NoiseClusterID, cl.ID)
	}
	assertCoverage(t, got, len(in))
}

func TestCluster_Deterministic(t *testing.T) {
	in := sents(
		[]float64{1, 0},
		[]float64{0.95, 0.05},
		[]float64{0.9, 0.1},
		[]float64{0, 1},
		[]float64{0.05, 0.95},
		[]float64{0.1, 0.9},
	)
	for _, method := range []Method{MethodDensity, MethodKMeans} {
		c := New(2, 10, method)
		first, err := c.Cluster(in)
		require.NoError(t, err)
		second, err := c.Cluster(in)
		require.NoError(t, err)
		assert.Equal(t, first, second, "method %s", method)
	}
}

func TestCluster_IDsAreDense(t *testing.T) {
	c := New(2, 10, MethodDensity)
	in := sents(
		[]float64{1, 0},
		[]float64{1, 0.02},
		[]float64{1, 0.04},
		[]float64{0, 1},
		[]float64{0.02, 1},
		[]float64{0.04, 1},
	)
	got, err := c.Cluster(in)
	require.NoError(t, err)
	for i, cl := range got {
		if cl.ID != domain.NoiseClusterID {
			assert.Equal(t, i, cl.ID)
		}
	}
}

func TestTargetK(t *testing.T) {
	assert.Equal(t, 2, targetK(3, 10))
	assert.Equal(t, 2, targetK(8, 10))
	assert.Equal(t, 3, targetK(18, 10))
	assert.Equal(t, 5, targetK(50, 10))
	assert.Equal(t, 4, targetK(50, 4)) // clamped by max topics
	assert.Equal(t, 2, targetK(2, 10))
}
