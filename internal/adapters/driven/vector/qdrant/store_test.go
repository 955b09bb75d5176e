package qdrant

import (
	"fmt"
	"testing"

	qdrantclient "github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarry-labs/quarry-cli/internal/core/domain"
)

func TestPartition(t *testing.T) {
	records := make([]domain.VectorRecord, 120)
	for i := range records {
		records[i].ID = fmt.Sprintf("rec-%d", i)
	}

	batches := partition(records, 50)

	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 50)
	assert.Len(t, batches[1], 50)
	assert.Len(t, batches[2], 20)
	assert.Equal(t, "rec-0", batches[0][0].ID)
	assert.Equal(t, "rec-50", batches[1][0].ID)
	assert.Equal(t, "rec-119", batches[2][19].ID)
}

func TestPartition_Empty(t *testing.T) {
	assert.Nil(t, partition(nil, 50))
	assert.Nil(t, partition([]domain.VectorRecord{{ID: "a"}}, 0))
}

func TestPayloadFromRecord(t *testing.T) {
	rec := domain.VectorRecord{
		ID:   "id-1",
		Text: "chunk text",
		Metadata: domain.Metadata{
			"url":      domain.String("https://example.com"),
			"position": domain.Number(3),
			"draft":    domain.Bool(true),
			"tags":     domain.StringList([]string{"go", "rag"}),
		},
	}

	payload := payloadFromRecord(rec)

	require.Len(t, payload, 5)
	assert.Equal(t, "chunk text", payload["text"].GetStringValue())
	assert.Equal(t, "https://example.com", payload["url"].GetStringValue())
	assert.Equal(t, 3.0, payload["position"].GetDoubleValue())
	assert.True(t, payload["draft"].GetBoolValue())
	list := payload["tags"].GetListValue().GetValues()
	require.Len(t, list, 2)
	assert.Equal(t, "go", list[0].GetStringValue())
}

func TestRecordFromPoint_RoundTrip(t *testing.T) {
	original := domain.VectorRecord{
		ID:   "7f9c24e5-2f8a-5f4b-9c1d-3a6b8e0f2d41",
		Text: "some text",
		Metadata: domain.Metadata{
			"url":      domain.String("https://example.com/page"),
			"position": domain.Number(7),
			"tags":     domain.StringList([]string{"a", "b"}),
		},
	}

	point := &qdrantclient.ScoredPoint{
		Id: &qdrantclient.PointId{
			PointIdOptions: &qdrantclient.PointId_Uuid{Uuid: original.ID},
		},
		Payload: payloadFromRecord(original),
		Score:   0.87,
	}

	got := recordFromPoint(point)

	assert.Equal(t, original.ID, got.ID)
	assert.Equal(t, original.Text, got.Text)
	assert.Equal(t, original.Metadata, got.Metadata)
}

func TestScoredResults_DescendingScore(t *testing.T) {
	point := func(id string, score float32) *qdrantclient.ScoredPoint {
		return &qdrantclient.ScoredPoint{
			Id: &qdrantclient.PointId{
				PointIdOptions: &qdrantclient.PointId_Uuid{Uuid: id},
			},
			Payload: payloadFromRecord(domain.VectorRecord{ID: id, Text: id}),
			Score:   score,
		}
	}

	// Out of wire order: the mapping must still rank by score.
	results := scoredResults([]*qdrantclient.ScoredPoint{
		point("mid", 0.5),
		point("best", 0.9),
		point("worst", 0.1),
	})

	require.Len(t, results, 3)
	assert.Equal(t, "best", results[0].Record.ID)
	assert.Equal(t, "mid", results[1].Record.ID)
	assert.Equal(t, "worst", results[2].Record.ID)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestScoredResults_Empty(t *testing.T) {
	assert.Empty(t, scoredResults(nil))
}

func TestValueToMeta_Integer(t *testing.T) {
	v := &qdrantclient.Value{
		Kind: &qdrantclient.Value_IntegerValue{IntegerValue: 42},
	}
	got := valueToMeta(v)
	assert.Equal(t, domain.MetaNumber, got.Kind())
	assert.Equal(t, 42.0, got.Num())
}

func TestNew_RequiresCollection(t *testing.T) {
	_, err := New(Config{}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}
