package deck

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"slidegen/internal/domain"
)

// Assemble orders topics by importance descending, truncates to maxTopics
// and fills in deck metadata. Equal importance keeps cluster id order, so
// assembly is deterministic for a fixed clustering result. Truncated topics
// are counted in Meta.DroppedTopics rather than silently lost.
func Assemble(topics []domain.Topic, maxTopics int, meta domain.DeckMeta) *domain.SlideDeck {
	if maxTopics < 1 {
		maxTopics = 1
	}
	ordered := append([]domain.Topic(nil), topics...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Importance != ordered[j].Importance {
			return ordered[i].Importance > ordered[j].Importance
		}
		return ordered[i].ClusterID < ordered[j].ClusterID
	})

	if len(ordered) > maxTopics {
		meta.DroppedTopics = len(ordered) - maxTopics
		ordered = ordered[:maxTopics]
	}

	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	if meta.GeneratedAt.IsZero() {
		meta.GeneratedAt = time.Now().UTC()
	}
	return &domain.SlideDeck{Topics: ordered, Meta: meta}
}
