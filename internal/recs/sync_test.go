package recs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EcoPantry/internal/catalog"
)

type fakeCounter struct {
	counts map[string]int
	err    error
}

func (f *fakeCounter) CountByProduct(_ context.Context) (map[string]int, error) {
	return f.counts, f.err
}

func ecoProduct(code string, score float64) catalog.Product {
	return catalog.Product{
		Code:            code,
		ProductName:     "Product " + code,
		ImageURL:        "https://img/" + code + ".jpg",
		NutriscoreGrade: "a",
		EnvScore:        &catalog.EnvScore{Grade: "a", Score: score},
		Price:           1.99,
		Category:        "test",
	}
}

func TestSyncFiltersByThreshold(t *testing.T) {
	idx := &fakeIndex{}
	s := &Syncer{Index: idx, Counts: &fakeCounter{counts: map[string]int{}}}

	products := []catalog.Product{
		ecoProduct("high", 91),
		ecoProduct("edge", 80), // threshold is inclusive
		ecoProduct("low", 79),
		{Code: "unscored", ProductName: "No score"},
	}

	n, err := s.Sync(context.Background(), products)

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, idx.saved, 2)
	assert.Equal(t, "high", idx.saved[0].ObjectID)
	assert.Equal(t, "edge", idx.saved[1].ObjectID)
}

func TestSyncPopularityFromPurchaseCounts(t *testing.T) {
	idx := &fakeIndex{}
	s := &Syncer{Index: idx, Counts: &fakeCounter{counts: map[string]int{"high": 7}}}

	n, err := s.Sync(context.Background(), []catalog.Product{
		ecoProduct("high", 95),
		ecoProduct("unsold", 85),
	})

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 7, idx.saved[0].Popularity)
	assert.Zero(t, idx.saved[1].Popularity, "never-bought products sync with zero popularity")
}

func TestSyncDocShape(t *testing.T) {
	idx := &fakeIndex{}
	s := &Syncer{Index: idx, Counts: &fakeCounter{counts: map[string]int{}}}

	p := ecoProduct("A", 88)
	_, err := s.Sync(context.Background(), []catalog.Product{p})
	require.NoError(t, err)

	require.Len(t, idx.saved, 1)
	d := idx.saved[0]
	assert.Equal(t, p.Code, d.ObjectID)
	assert.Equal(t, p.ProductName, d.Name)
	assert.Equal(t, p.ImageURL, d.Image)
	assert.Equal(t, "a", d.EcoGrade)
	assert.Equal(t, 88.0, d.EcoScore)
	assert.Equal(t, p.Price, d.Price)
	assert.Equal(t, p.Category, d.Category)
}

func TestSyncNothingEligible(t *testing.T) {
	idx := &fakeIndex{saveErr: errors.New("should not be called")}
	s := &Syncer{Index: idx, Counts: &fakeCounter{counts: map[string]int{}}}

	n, err := s.Sync(context.Background(), []catalog.Product{ecoProduct("low", 10)})

	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSyncPropagatesIndexFailure(t *testing.T) {
	idx := &fakeIndex{saveErr: ErrIndexUnavailable}
	s := &Syncer{Index: idx, Counts: &fakeCounter{counts: map[string]int{}}}

	_, err := s.Sync(context.Background(), []catalog.Product{ecoProduct("A", 90)})

	assert.ErrorIs(t, err, ErrIndexUnavailable)
}

func TestSyncPropagatesCounterFailure(t *testing.T) {
	s := &Syncer{Index: &fakeIndex{}, Counts: &fakeCounter{err: errors.New("db down")}}

	_, err := s.Sync(context.Background(), []catalog.Product{ecoProduct("A", 90)})

	assert.Error(t, err)
}
