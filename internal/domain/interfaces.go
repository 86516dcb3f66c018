package domain

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(text string) ([]float64, error)
}

// Segmenter splits a raw OCR text block into retained sentences.
type Segmenter interface {
	Segment(block TextBlock) []Sentence
}

// Clusterer groups embedded sentences into topic clusters.
type Clusterer interface {
	Cluster(sentences []Sentence) ([]Cluster, error)
}

// Summarizer selects a title and ranked bullets for one cluster.
type Summarizer interface {
	Summarize(cluster Cluster, sentences []Sentence) Topic
}
