package catalog

import (
	"net/http"

	"go.uber.org/zap"

	"EcoPantry/pkg/kit"
)

type Server struct {
	Loader Loader
	Limit  int
	Log    *zap.Logger
}

// ListHandler serves GET /api/products: the displayable slice of the
// catalog, at most Limit entries, in file order.
func (s *Server) ListHandler() http.HandlerFunc { return s.list }

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	products, err := s.Loader.Load(r.Context())
	if err != nil {
		if s.Log != nil {
			s.Log.Error("load catalog failed", zap.Error(err))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, FilterDisplayable(products, s.Limit))
}
