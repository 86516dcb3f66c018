package deck

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slidegen/internal/domain"
)

func TestAssemble_OrdersByImportance(t *testing.T) {
	topics := []domain.Topic{
		{Title: "minor", ClusterID: 0, Importance: 1.5},
		{Title: "major", ClusterID: 1, Importance: 4.0},
		{Title: "middling", ClusterID: 2, Importance: 2.5},
	}
	d := Assemble(topics, 10, domain.DeckMeta{})
	require.Len(t, d.Topics, 3)
	assert.Equal(t, "major", d.Topics[0].Title)
	assert.Equal(t, "middling", d.Topics[1].Title)
	assert.Equal(t, "minor", d.Topics[2].Title)
	assert.Equal(t, 0, d.Meta.DroppedTopics)
}

func TestAssemble_TiesBreakOnClusterID(t *testing.T) {
	topics := []domain.Topic{
		{Title: "b", ClusterID: 2, Importance: 3.0},
		{Title: "a", ClusterID: 1, Importance: 3.0},
		{Title: "c", ClusterID: 3, Importance: 3.0},
	}
	d := Assemble(topics, 10, domain.DeckMeta{})
	require.Len(t, d.Topics, 3)
	assert.Equal(t, "a", d.Topics[0].Title)
	assert.Equal(t, "b", d.Topics[1].Title)
	assert.Equal(t, "c", d.Topics[2].Title)
}

func TestAssemble_TruncatesToMaxTopics(t *testing.T) {
	topics := []domain.Topic{
		{Title: "t1", ClusterID: 0, Importance: 4},
		{Title: "t2", ClusterID: 1, Importance: 3},
		{Title: "t3", ClusterID: 2, Importance: 2},
		{Title: "t4", ClusterID: 3, Importance: 1},
	}
	d := Assemble(topics, 2, domain.DeckMeta{})
	require.Len(t, d.Topics, 2)
	assert.Equal(t, "t1", d.Topics[0].Title)
	assert.Equal(t, "t2", d.Topics[1].Title)
	assert.Equal(t, 2, d.Meta.DroppedTopics)
}

func TestAssemble_EmptyTopics(t *testing.T) {
	d := Assemble(nil, 10, domain.DeckMeta{SourceBlocks: 3})
	assert.Empty(t, d.Topics)
	assert.Equal(t, 3, d.Meta.SourceBlocks)
	assert.Equal(t, 0, d.Meta.DroppedTopics)
}

func TestAssemble_FillsMetaIdentity(t *testing.T) {
	d := Assemble(nil, 10, domain.DeckMeta{})
	assert.NotEmpty(t, d.Meta.ID)
	assert.False(t, d.Meta.GeneratedAt.IsZero())
	assert.WithinDuration(t, time.Now().UTC(), d.Meta.GeneratedAt, time.Minute)
}

func TestAssemble_KeepsProvidedMetaIdentity(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	d := Assemble(nil, 10, domain.DeckMeta{ID: "fixed", GeneratedAt: at})
	assert.Equal(t, "fixed", d.Meta.ID)
	assert.Equal(t, at, d.Meta.GeneratedAt)
}

func TestAssemble_DoesNotMutateInput(t *testing.T) {
	topics := []domain.Topic{
		{Title: "low", ClusterID: 0, Importance: 1},
		{Title: "high", ClusterID: 1, Importance: 2},
	}
	_ = Assemble(topics, 10, domain.DeckMeta{})
	assert.Equal(t, "low", topics[0].Title)
	assert.Equal(t, "high", topics[1].Title)
}
