package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"slidegen/internal/deck"
	"slidegen/internal/domain"
)

// Pipeline runs one deck generation: segmentation, embedding, clustering,
// summarization, assembly, in strict sequence. All per-run state is local,
// so a single Pipeline is safe for concurrent Generate calls.
type Pipeline struct {
	segmenter  domain.Segmenter
	embedder   domain.Embedder
	clusterer  domain.Clusterer
	summarizer domain.Summarizer
	maxTopics  int
	log        zerolog.Logger
}

func NewPipeline(
	segmenter domain.Segmenter,
	embedder domain.Embedder,
	clusterer domain.Clusterer,
	summarizer domain.Summarizer,
	maxTopics int,
	log zerolog.Logger,
) *Pipeline {
	if maxTopics < 1 {
		maxTopics = 1
	}
	return &Pipeline{
		segmenter:  segmenter,
		embedder:   embedder,
		clusterer:  clusterer,
		summarizer: summarizer,
		maxTopics:  maxTopics,
		log:        log,
	}
}

// Generate turns raw OCR text blocks into a slide deck. Empty or
// entirely-noise input yields an empty deck, not an error; embedding and
// clustering failures abort the run before any deck exists. The context is
// honored at every stage boundary and an aborted run never returns a deck.
func (p *Pipeline) Generate(ctx context.Context, blocks []domain.TextBlock) (*domain.SlideDeck, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var sentences []domain.Sentence
	for _, b := range blocks {
		sentences = append(sentences, p.segmenter.Segment(b)...)
	}
	meta := domain.DeckMeta{
		SourceBlocks:    len(blocks),
		SourceSentences: len(sentences),
		AvgConfidence:   avgConfidence(blocks),
	}
	p.log.Info().Int("blocks", len(blocks)).Int("sentences", len(sentences)).Msg("segmented input")
	if len(sentences) == 0 {
		return deck.Assemble(nil, p.maxTopics, meta), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := p.embed(sentences); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clusters, err := p.clusterer.Cluster(sentences)
	if err != nil {
		return nil, err
	}
	p.log.Info().Int("clusters", len(clusters)).Msg("clustered sentences")
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var topics []domain.Topic
	for _, c := range clusters {
		if c.ID == domain.NoiseClusterID {
			p.log.Debug().Int("members", len(c.Members)).Msg("dropping noise cluster")
			continue
		}
		topics = append(topics, p.summarizer.Summarize(c, sentences))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d := deck.Assemble(topics, p.maxTopics, meta)
	p.log.Info().
		Str("deck_id", d.Meta.ID).
		Int("topics", len(d.Topics)).
		Int("dropped", d.Meta.DroppedTopics).
		Msg("assembled deck")
	return d, nil
}

// embed prepares the provider over the sentence corpus and attaches one
// vector per sentence. Provider failure is fatal: there is no degraded
// no-embedding path.
func (p *Pipeline) embed(sentences []domain.Sentence) error {
	corpus := make([]string, len(sentences))
	for i, s := range sentences {
		corpus[i] = s.Raw
	}
	if err := p.embedder.Prepare(corpus); err != nil {
		return fmt.Errorf("prepare embedder %s: %v: %w", p.embedder.Name(), err, domain.ErrEmbeddingUnavailable)
	}
	for i := range sentences {
		vec, err := p.embedder.Embed(sentences[i].Raw)
		if err != nil {
			return fmt.Errorf("embed sentence %d: %w", i, err)
		}
		sentences[i].Embedding = vec
	}
	return nil
}

func avgConfidence(blocks []domain.TextBlock) float64 {
	if len(blocks) == 0 {
		return 0
	}
	sum := 0.0
	for _, b := range blocks {
		sum += b.Confidence
	}
	return sum / float64(len(blocks))
}
