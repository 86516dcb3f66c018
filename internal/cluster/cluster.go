package cluster

import (
	"fmt"
	"math"
	"sort"

	"slidegen/internal/domain"
	"slidegen/internal/vecmath"
)

// Method selects the primary clustering strategy.
type Method string

const (
	MethodDensity Method = "density"
	MethodKMeans  Method = "kmeans"
)

// Partition initialization uses a fixed seed so runs are reproducible.
const kmeansSeed = 42

const kmeansMaxIter = 100

// Clusterer groups sentence embeddings into topic clusters, choosing the
// cluster count automatically. The density scan runs first and labels
// outliers as noise; a seeded k-means partition takes over when the scan
// cannot produce at least two real clusters, or when configured directly.
type Clusterer struct {
	minClusterSize int
	maxTopics      int
	method         Method
}

func New(minClusterSize, maxTopics int, method Method) *Clusterer {
	if minClusterSize < 2 {
		minClusterSize = 2
	}
	if maxTopics < 1 {
		maxTopics = 1
	}
	if method == "" {
		method = MethodDensity
	}
	return &Clusterer{minClusterSize: minClusterSize, maxTopics: maxTopics, method: method}
}

// Cluster assigns every sentence to exactly one cluster id (possibly
// domain.NoiseClusterID). Fewer than three sentences skip clustering and
// land in a single cluster with id 0.
func (c *Clusterer) Cluster(sentences []domain.Sentence) ([]domain.Cluster, error) {
	vecs, err := normalizedVectors(sentences)
	if err != nil {
		return nil, err
	}
	n := len(vecs)
	if n == 0 {
		return nil, nil
	}
	if n < 3 {
		members := make([]int, n)
		for i := range members {
			members[i] = i
		}
		return []domain.Cluster{newCluster(0, members, vecs)}, nil
	}

	var labels []int
	if c.method == MethodDensity {
		labels = c.densityScan(vecs)
	}
	if !hasEnoughClusters(labels) {
		labels = c.kmeans(vecs)
	}
	return buildClusters(labels, vecs), nil
}

// normalizedVectors verifies every sentence carries an embedding of uniform
// dimensionality and returns L2-normalized copies.
func normalizedVectors(sentences []domain.Sentence) ([][]float64, error) {
	out := make([][]float64, len(sentences))
	dim := -1
	for i, s := range sentences {
		if len(s.Embedding) == 0 {
			return nil, fmt.Errorf("sentence %d has no embedding: %w", i, domain.ErrDimensionMismatch)
		}
		if dim == -1 {
			dim = len(s.Embedding)
		} else if len(s.Embedding) != dim {
			return nil, fmt.Errorf("sentence %d has dimension %d, want %d: %w",
				i, len(s.Embedding), dim, domain.ErrDimensionMismatch)
		}
		out[i] = vecmath.NormalizeL2(s.Embedding)
	}
	return out, nil
}

// hasEnoughClusters reports whether labels contain at least two distinct
// non-noise cluster ids.
func hasEnoughClusters(labels []int) bool {
	seen := map[int]struct{}{}
	for _, l := range labels {
		if l != domain.NoiseClusterID {
			seen[l] = struct{}{}
		}
	}
	return len(seen) >= 2
}

// densityScan is a DBSCAN pass with minPts equal to the minimum cluster
// size and eps estimated from the median k-distance of the input. Clusters
// that still end up below the minimum size are relabeled as noise.
func (c *Clusterer) densityScan(vecs [][]float64) []int {
	n := len(vecs)
	eps := c.estimateEps(vecs)

	const unvisited = -2
	labels := make([]int, n)
	for i := range labels {
		labels[i] = unvisited
	}

	next := 0
	for i := 0; i < n; i++ {
		if labels[i] != unvisited {
			continue
		}
		neighbors := regionQuery(vecs, i, eps)
		if len(neighbors) < c.minClusterSize {
			labels[i] = domain.NoiseClusterID
			continue
		}
		labels[i] = next
		seeds := append([]int(nil), neighbors...)
		for j := 0; j < len(seeds); j++ {
			q := seeds[j]
			if labels[q] == domain.NoiseClusterID {
				labels[q] = next // border point adopted by the cluster
			}
			if labels[q] != unvisited {
				continue
			}
			labels[q] = next
			qn := regionQuery(vecs, q, eps)
			if len(qn) >= c.minClusterSize {
				seeds = append(seeds, qn...)
			}
		}
		next++
	}

	demoteSmallClusters(labels, c.minClusterSize)
	return labels
}

// estimateEps returns the median distance to each point's k-th nearest
// neighbor, k being the minimum cluster size.
func (c *Clusterer) estimateEps(vecs [][]float64) float64 {
	n := len(vecs)
	k := c.minClusterSize
	if k >= n {
		k = n - 1
	}
	kdists := make([]float64, 0, n)
	dists := make([]float64, 0, n-1)
	for i := 0; i < n; i++ {
		dists = dists[:0]
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			dists = append(dists, vecmath.EuclideanDist(vecs[i], vecs[j]))
		}
		sort.Float64s(dists)
		kdists = append(kdists, dists[k-1])
	}
	sort.Float64s(kdists)
	return kdists[len(kdists)/2]
}

// regionQuery returns all indexes within eps of point i, including i itself.
func regionQuery(vecs [][]float64, i int, eps float64) []int {
	var out []int
	for j := range vecs {
		if vecmath.EuclideanDist(vecs[i], vecs[j]) <= eps {
			out = append(out, j)
		}
	}
	return out
}

// demoteSmallClusters relabels any cluster smaller than minSize as noise.
// The minimum-cluster-size parameter is treated as a hard floor.
func demoteSmallClusters(labels []int, minSize int) {
	counts := map[int]int{}
	for _, l := range labels {
		if l != domain.NoiseClusterID {
			counts[l]++
		}
	}
	for i, l := range labels {
		if l != domain.NoiseClusterID && counts[l] < minSize {
			labels[i] = domain.NoiseClusterID
		}
	}
}

// kmeans is the deterministic partition fallback. It never labels noise:
// every sentence lands in one of k clusters, k derived from the input size.
func (c *Clusterer) kmeans(vecs [][]float64) []int {
	n := len(vecs)
	k := targetK(n, c.maxTopics)

	centers := initialCenters(vecs, k)
	labels := make([]int, n)
	for iter := 0; iter < kmeansMaxIter; iter++ {
		changed := false
		for i, v := range vecs {
			best, bestDist := 0, math.Inf(1)
			for ci, cv := range centers {
				if d := vecmath.EuclideanDist(v, cv); d < bestDist {
					best, bestDist = ci, d
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}
		recomputeCenters(centers, vecs, labels, k)
	}
	return labels
}

// targetK clamps round(sqrt(n/2)) into [2, maxTopics] and never exceeds n.
func targetK(n, maxTopics int) int {
	k := int(math.Round(math.Sqrt(float64(n) / 2)))
	if k < 2 {
		k = 2
	}
	if k > maxTopics {
		k = maxTopics
	}
	if k > n {
		k = n
	}
	return k
}

// initialCenters picks k seeds with a farthest-point sweep started from a
// seeded pseudo-random index, so initialization is reproducible.
func initialCenters(vecs [][]float64, k int) [][]float64 {
	n := len(vecs)
	first := int(seededIndex(kmeansSeed, n))
	chosen := []int{first}
	for len(chosen) < k {
		bestIdx, bestDist := -1, -1.0
		for i := 0; i < n; i++ {
			minD := math.Inf(1)
			for _, cIdx := range chosen {
				if d := vecmath.EuclideanDist(vecs[i], vecs[cIdx]); d < minD {
					minD = d
				}
			}
			if minD > bestDist {
				bestIdx, bestDist = i, minD
			}
		}
		chosen = append(chosen, bestIdx)
	}
	centers := make([][]float64, k)
	for i, idx := range chosen {
		centers[i] = append([]float64(nil), vecs[idx]...)
	}
	return centers
}

// seededIndex maps a fixed seed into [0, n) without math/rand so the value
// is stable across Go releases.
func seededIndex(seed uint64, n int) uint64 {
	seed ^= seed << 13
	seed ^= seed >> 7
	seed ^= seed << 17
	return seed % uint64(n)
}

func recomputeCenters(centers [][]float64, vecs [][]float64, labels []int, k int) {
	dim := len(vecs[0])
	sums := make([][]float64, k)
	counts := make([]int, k)
	for i := range sums {
		sums[i] = make([]float64, dim)
	}
	for i, v := range vecs {
		l := labels[i]
		counts[l]++
		for d, x := range v {
			sums[l][d] += x
		}
	}
	for ci := 0; ci < k; ci++ {
		if counts[ci] == 0 {
			// re-seed an empty cluster with the point farthest from its center
			far, farDist := 0, -1.0
			for i, v := range vecs {
				if d := vecmath.EuclideanDist(v, centers[labels[i]]); d > farDist {
					far, farDist = i, d
				}
			}
			copy(centers[ci], vecs[far])
			labels[far] = ci
			continue
		}
		inv := 1.0 / float64(counts[ci])
		for d := 0; d < dim; d++ {
			centers[ci][d] = sums[ci][d] * inv
		}
	}
}

// buildClusters converts flat labels into ordered Cluster values. Cluster
// ids are renumbered by first appearance; the noise cluster, if any, keeps
// domain.NoiseClusterID and is appended last.
func buildClusters(labels []int, vecs [][]float64) []domain.Cluster {
	remap := map[int]int{}
	order := []int{}
	for _, l := range labels {
		if l == domain.NoiseClusterID {
			continue
		}
		if _, ok := remap[l]; !ok {
			remap[l] = len(order)
			order = append(order, l)
		}
	}
	members := make(map[int][]int)
	for i, l := range labels {
		id := domain.NoiseClusterID
		if l != domain.NoiseClusterID {
			id = remap[l]
		}
		members[id] = append(members[id], i)
	}

	var out []domain.Cluster
	for id := 0; id < len(order); id++ {
		out = append(out, newCluster(id, members[id], vecs))
	}
	if noise, ok := members[domain.NoiseClusterID]; ok {
		out = append(out, newCluster(domain.NoiseClusterID, noise, vecs))
	}
	return out
}

func newCluster(id int, members []int, vecs [][]float64) domain.Cluster {
	mv := make([][]float64, len(members))
	for i, m := range members {
		mv[i] = vecs[m]
	}
	return domain.Cluster{ID: id, Members: members, Centroid: vecmath.Centroid(mv)}
}
