package summarize

import (
	"sort"
	"strings"

	"slidegen/internal/domain"
	"slidegen/internal/vecmath"
)

// Summarizer turns one cluster into a Topic: the most representative
// sentence becomes the title, the rest compete for bullet slots under an
// importance-then-diversity policy.
type Summarizer struct {
	maxBullets         int
	diversityThreshold float64
	titleMaxWords      int
}

func New(maxBullets int, diversityThreshold float64) *Summarizer {
	if maxBullets < 1 {
		maxBullets = 1
	}
	if diversityThreshold <= 0 || diversityThreshold > 1 {
		diversityThreshold = 0.8
	}
	return &Summarizer{
		maxBullets:         maxBullets,
		diversityThreshold: diversityThreshold,
		titleMaxWords:      6,
	}
}

// Summarize selects a title and ranked, diversity-filtered bullets for the
// cluster. A cluster whose bullets are all filtered away still yields a
// Topic with an empty bullet list; the title alone carries signal.
func (s *Summarizer) Summarize(cluster domain.Cluster, sentences []domain.Sentence) domain.Topic {
	centrality := make(map[int]float64, len(cluster.Members))
	for _, m := range cluster.Members {
		centrality[m] = vecmath.Cosine(sentences[m].Embedding, cluster.Centroid)
	}

	// Title: highest centrality; exact ties go to the earliest sentence.
	// Members are in segmentation order, so strict > keeps the first.
	titleIdx := cluster.Members[0]
	for _, m := range cluster.Members[1:] {
		if centrality[m] > centrality[titleIdx] {
			titleIdx = m
		}
	}
	title := ShortenTitle(sentences[titleIdx].Raw, s.titleMaxWords)

	ranked := rankByCentrality(cluster.Members, centrality)
	var bullets []string
	var chosen []int
	for _, m := range ranked {
		if len(bullets) >= s.maxBullets {
			break
		}
		if m == titleIdx {
			continue
		}
		if sentences[m].Normalized == sentences[titleIdx].Normalized {
			continue // duplicate of the title sentence
		}
		if s.redundant(m, chosen, sentences) {
			continue
		}
		chosen = append(chosen, m)
		bullets = append(bullets, sentences[m].Raw)
	}

	mean := 0.0
	for _, m := range cluster.Members {
		mean += centrality[m]
	}
	mean /= float64(len(cluster.Members))

	return domain.Topic{
		Title:      title,
		Bullets:    bullets,
		ClusterID:  cluster.ID,
		Importance: float64(len(cluster.Members)) * mean,
	}
}

// redundant reports whether candidate m is too similar to any already
// selected bullet.
func (s *Summarizer) redundant(m int, chosen []int, sentences []domain.Sentence) bool {
	for _, c := range chosen {
		if vecmath.Cosine(sentences[m].Embedding, sentences[c].Embedding) > s.diversityThreshold {
			return true
		}
	}
	return false
}

// rankByCentrality orders member indices by centrality descending; equal
// scores keep segmentation order.
func rankByCentrality(members []int, centrality map[int]float64) []int {
	out := append([]int(nil), members...)
	sort.SliceStable(out, func(i, j int) bool {
		return centrality[out[i]] > centrality[out[j]]
	})
	return out
}

// ShortenTitle trims a sentence down to a slide title: at most maxWords
// words, trailing punctuation dropped, an ellipsis marking the cut.
func ShortenTitle(sentence string, maxWords int) string {
	words := strings.Fields(sentence)
	if len(words) <= maxWords {
		return strings.TrimRight(sentence, ".,!?")
	}
	return strings.Join(words[:maxWords], " ") + "..."
}
