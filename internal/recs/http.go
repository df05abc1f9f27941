package recs

import (
	"net/http"

	"go.uber.org/zap"

	"EcoPantry/internal/catalog"
	"EcoPantry/pkg/kit"
)

type Server struct {
	Loader      catalog.Loader
	Syncer      *Syncer
	Trender     *Trender
	MaxTrending int
	Log         *zap.Logger
}

func (s *Server) SyncHandler() http.HandlerFunc     { return s.sync }
func (s *Server) TrendingHandler() http.HandlerFunc { return s.trending }

func (s *Server) sync(w http.ResponseWriter, r *http.Request) {
	products, err := s.Loader.Load(r.Context())
	if err != nil {
		if s.Log != nil {
			s.Log.Error("load catalog for sync failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	n, err := s.Syncer.Sync(r.Context(), products)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("sync failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, err.Error(),
			map[string]any{"suggestion": "check the search provider credentials and try again"})
		return
	}

	kit.WriteJSON(w, http.StatusOK, map[string]any{"synced": n})
}

func (s *Server) trending(w http.ResponseWriter, r *http.Request) {
	docs, err := s.Trender.Trending(r.Context(), s.MaxTrending)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("trending failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, err.Error(),
			map[string]any{"suggestion": "try the product listing while recommendations recover"})
		return
	}

	kit.WriteJSON(w, http.StatusOK, docs)
}
