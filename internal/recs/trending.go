package recs

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// ErrNoRecommendations means every tier, the static fallback included,
// produced nothing. With a non-empty static list this cannot happen in
// practice.
var ErrNoRecommendations = errors.New("no recommendations available")

const trendingModel = "trending"

// Trender resolves trending products through an ordered list of
// strategies: the recommendation model, then a filtered/sorted search,
// then the static fallback. Each tier only fills slots the previous
// tiers left open; a failing tier contributes nothing instead of
// failing the request.
type Trender struct {
	Index  Index
	Static []Doc
	Log    *zap.Logger
}

type strategy struct {
	name string
	run  func(ctx context.Context, n int) ([]Doc, error)
}

func (t *Trender) Trending(ctx context.Context, max int) ([]Doc, error) {
	strategies := []strategy{
		{"recommend", t.recommend},
		{"search", t.search},
		{"static", t.static},
	}

	out := make([]Doc, 0, max)
	seen := make(map[string]struct{}, max)

	for _, st := range strategies {
		if len(out) >= max {
			break
		}

		docs, err := st.run(ctx, max-len(out))
		if err != nil {
			if t.Log != nil {
				t.Log.Warn("trending tier failed", zap.String("tier", st.name), zap.Error(err))
			}
			continue
		}

		for _, d := range docs {
			if len(out) >= max {
				break
			}
			if d.ObjectID == "" {
				continue
			}
			if _, dup := seen[d.ObjectID]; dup {
				continue
			}
			seen[d.ObjectID] = struct{}{}
			out = append(out, d)
		}
	}

	if len(out) == 0 {
		return nil, ErrNoRecommendations
	}
	return out, nil
}

func (t *Trender) recommend(ctx context.Context, n int) ([]Doc, error) {
	return t.Index.Recommend(ctx, trendingModel, n)
}

func (t *Trender) search(ctx context.Context, n int) ([]Doc, error) {
	return t.Index.Query(ctx, QuerySpec{
		EcoGrades:        []string{"a", "b"},
		SortByPopularity: true,
		Limit:            n,
	})
}

func (t *Trender) static(_ context.Context, _ int) ([]Doc, error) {
	return t.Static, nil
}
