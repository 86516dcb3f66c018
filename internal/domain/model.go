package domain

import "time"

// NoiseClusterID is the reserved cluster id for sentences the density
// clusterer could not confidently group. Noise members never reach the deck.
const NoiseClusterID = -1

// TextBlock is one raw OCR text fragment, typically the output for a single
// source image. Confidence is provenance only and never influences ranking.
type TextBlock struct {
	Source     int
	Text       string
	Confidence float64
}

// Sentence is a retained unit of segmented text. Embedding is attached
// lazily once the provider has run; everything else is immutable.
type Sentence struct {
	Raw        string
	Normalized string
	Source     int
	Embedding  []float64
}

// Cluster groups sentence indices around a centroid. Members index into the
// segmented sentence slice of the same run; ids are stable within one run only.
type Cluster struct {
	ID       int
	Members  []int
	Centroid []float64
}

// Topic is a single slide worth of content selected from one cluster.
type Topic struct {
	Title      string
	Bullets    []string
	ClusterID  int
	Importance float64
}

// DeckMeta carries deck-level provenance and assembly metadata.
type DeckMeta struct {
	ID              string
	GeneratedAt     time.Time
	SourceBlocks    int
	SourceSentences int
	AvgConfidence   float64
	DroppedTopics   int
}

// SlideDeck is the canonical in-memory deck model: ordered topics plus
// metadata. It is read-only once handed to rendering.
type SlideDeck struct {
	Topics []Topic
	Meta   DeckMeta
}
