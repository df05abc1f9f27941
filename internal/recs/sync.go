package recs

import (
	"context"
	"fmt"

	"EcoPantry/internal/catalog"
)

// EcoScoreThreshold is the minimum environmental score for a product to
// be pushed to the index.
const EcoScoreThreshold = 80

// PopularityCounter supplies per-product purchase counts. The purchase
// store satisfies it. Popularity used to be generated at random on each
// sync; it is now the actual purchase count so repeated syncs are
// deterministic.
type PopularityCounter interface {
	CountByProduct(ctx context.Context) (map[string]int, error)
}

type Syncer struct {
	Index  Index
	Counts PopularityCounter
}

// Sync pushes every product with an environmental score at or above the
// threshold into the index and returns how many were synced.
func (s *Syncer) Sync(ctx context.Context, products []catalog.Product) (int, error) {
	counts, err := s.Counts.CountByProduct(ctx)
	if err != nil {
		return 0, fmt.Errorf("popularity counts: %w", err)
	}

	docs := make([]Doc, 0, len(products))
	for _, p := range products {
		if p.EnvScoreValue() < EcoScoreThreshold {
			continue
		}
		docs = append(docs, docFromProduct(p, counts[p.Code]))
	}

	if len(docs) == 0 {
		return 0, nil
	}

	if err := s.Index.SaveObjects(ctx, docs); err != nil {
		return 0, fmt.Errorf("save objects: %w", err)
	}
	return len(docs), nil
}

func docFromProduct(p catalog.Product, popularity int) Doc {
	image := p.ImageURL
	if image == "" {
		image = p.ImageSmallURL
	}
	return Doc{
		ObjectID:        p.Code,
		Name:            p.ProductName,
		Image:           image,
		NutriscoreGrade: p.NutriscoreGrade,
		EcoGrade:        p.EnvGrade(),
		EcoScore:        p.EnvScoreValue(),
		Price:           p.Price,
		Category:        p.Category,
		Popularity:      popularity,
	}
}
