package recs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeIndex struct {
	saved []Doc

	saveErr error

	queryResult []Doc
	queryErr    error
	lastQuery   QuerySpec

	recommendResult []Doc
	recommendErr    error
}

func (f *fakeIndex) SaveObjects(_ context.Context, docs []Doc) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, docs...)
	return nil
}

func (f *fakeIndex) Query(_ context.Context, q QuerySpec) ([]Doc, error) {
	f.lastQuery = q
	return f.queryResult, f.queryErr
}

func (f *fakeIndex) Recommend(_ context.Context, _ string, _ int) ([]Doc, error) {
	return f.recommendResult, f.recommendErr
}

func doc(id string) Doc {
	return Doc{ObjectID: id, Name: "Doc " + id, EcoGrade: "a", EcoScore: 90}
}

func newTrender(idx Index) *Trender {
	return &Trender{Index: idx, Static: DefaultStaticTrending, Log: zap.NewNop()}
}

func TestTrendingFallsBackToStaticList(t *testing.T) {
	tr := newTrender(&fakeIndex{}) // both tiers return nothing

	got, err := tr.Trending(context.Background(), 8)

	require.NoError(t, err)
	require.Len(t, got, 8)
	assert.Equal(t, DefaultStaticTrending, got)
}

func TestTrendingFallsBackWhenProviderFails(t *testing.T) {
	tr := newTrender(&fakeIndex{
		recommendErr: ErrIndexUnavailable,
		queryErr:     ErrIndexUnavailable,
	})

	got, err := tr.Trending(context.Background(), 8)

	require.NoError(t, err)
	assert.Equal(t, DefaultStaticTrending, got)
}

func TestTrendingRecommendationsFirst(t *testing.T) {
	tr := newTrender(&fakeIndex{
		recommendResult: []Doc{doc("r1"), doc("r2")},
		queryResult:     []Doc{doc("s1")},
	})

	got, err := tr.Trending(context.Background(), 8)

	require.NoError(t, err)
	require.Len(t, got, 8)
	assert.Equal(t, "r1", got[0].ObjectID)
	assert.Equal(t, "r2", got[1].ObjectID)
	assert.Equal(t, "s1", got[2].ObjectID)
	// Remaining slots padded from the static list.
	assert.Equal(t, DefaultStaticTrending[0].ObjectID, got[3].ObjectID)
}

func TestTrendingDedupesAcrossTiers(t *testing.T) {
	shared := doc("dup")
	tr := newTrender(&fakeIndex{
		recommendResult: []Doc{shared, doc("r2")},
		queryResult:     []Doc{shared, doc("s2")},
	})

	got, err := tr.Trending(context.Background(), 4)

	require.NoError(t, err)
	require.Len(t, got, 4)

	seen := map[string]int{}
	for _, d := range got {
		seen[d.ObjectID]++
	}
	assert.Equal(t, 1, seen["dup"], "first occurrence wins, duplicates dropped")
}

func TestTrendingCapsAtMax(t *testing.T) {
	many := make([]Doc, 20)
	for i := range many {
		many[i] = doc(string(rune('a' + i)))
	}
	tr := newTrender(&fakeIndex{recommendResult: many})

	got, err := tr.Trending(context.Background(), 8)

	require.NoError(t, err)
	assert.Len(t, got, 8)
}

func TestTrendingSearchSpec(t *testing.T) {
	idx := &fakeIndex{recommendErr: errors.New("model down")}
	tr := newTrender(idx)

	_, err := tr.Trending(context.Background(), 8)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, idx.lastQuery.EcoGrades)
	assert.True(t, idx.lastQuery.SortByPopularity)
	assert.Equal(t, 8, idx.lastQuery.Limit)
}

func TestTrendingEverythingEmpty(t *testing.T) {
	tr := &Trender{Index: &fakeIndex{}, Static: nil, Log: zap.NewNop()}

	_, err := tr.Trending(context.Background(), 8)

	assert.ErrorIs(t, err, ErrNoRecommendations)
}

func TestTrendingSkipsDocsWithoutID(t *testing.T) {
	tr := newTrender(&fakeIndex{
		recommendResult: []Doc{{Name: "anonymous"}, doc("ok")},
	})

	got, err := tr.Trending(context.Background(), 2)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ok", got[0].ObjectID)
}
