package recs

import (
	"context"
	"errors"
)

// Doc is the normalized shape pushed to and read from the search/
// recommendation provider.
type Doc struct {
	ObjectID        string  `json:"object_id"`
	Name            string  `json:"name"`
	Image           string  `json:"image"`
	NutriscoreGrade string  `json:"nutriscore_grade"`
	EcoGrade        string  `json:"eco_grade"`
	EcoScore        float64 `json:"eco_score"`
	Price           float64 `json:"price"`
	Category        string  `json:"category"`
	Popularity      int     `json:"popularity"`
}

// QuerySpec is a filtered, sorted search against the index.
type QuerySpec struct {
	EcoGrades        []string `json:"eco_grades,omitempty"`
	SortByPopularity bool     `json:"sort_by_popularity,omitempty"`
	Limit            int      `json:"limit"`
}

var (
	ErrIndexUnavailable = errors.New("search index unavailable")
	ErrIndexBadStatus   = errors.New("search index bad status")
)

// Index is the capability surface of the external search/recommendation
// provider. Any provider that can upsert documents, run a filtered
// search and answer a model query can sit behind it.
type Index interface {
	SaveObjects(ctx context.Context, docs []Doc) error
	Query(ctx context.Context, q QuerySpec) ([]Doc, error)
	Recommend(ctx context.Context, model string, n int) ([]Doc, error)
}
