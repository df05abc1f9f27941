package purchase

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/xid"
	"go.uber.org/zap"

	"EcoPantry/internal/identity"
	"EcoPantry/pkg/kit"
)

const maxRecordBody = 1 << 20

type Server struct {
	Store Store
	Log   *zap.Logger
}

type recordReq struct {
	ProductCode string  `json:"product_code"`
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
}

func (s *Server) RecordHandler() http.HandlerFunc { return s.record }
func (s *Server) ListHandler() http.HandlerFunc   { return s.list }
func (s *Server) DeleteHandler() http.HandlerFunc { return s.delete }

func (s *Server) record(w http.ResponseWriter, r *http.Request) {
	u, ok := identity.UserFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no user", nil)
		return
	}
	if strings.TrimSpace(u.Email) == "" {
		// A purchase must belong to a user row with an email; refuse
		// before any write happens.
		kit.WriteError(w, r, http.StatusInternalServerError, identity.ErrNoEmail.Error(), nil)
		return
	}

	req, err := decodeRecordRequest(w, r)
	if err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}
	if strings.TrimSpace(req.ProductCode) == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "product_code required", nil)
		return
	}

	p := Purchase{
		ID:          xid.New().String(),
		UserID:      u.ID,
		ProductCode: req.ProductCode,
		ProductName: req.ProductName,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		PurchasedAt: time.Now().UTC(),
	}

	if err := s.Store.Record(r.Context(), u.Email, p); err != nil {
		if s.Log != nil {
			s.Log.Error("record purchase failed", zap.Error(err), zap.String("user_id", u.ID))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, err.Error(),
			map[string]any{"hint": "users and purchases tables must exist; run migrations"})
		return
	}

	kit.WriteSuccess(w, http.StatusCreated, nil)
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	u, ok := identity.UserFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no user", nil)
		return
	}

	purchases, err := s.Store.ListByUser(r.Context(), u.ID)
	if err != nil {
		if s.Log != nil {
			s.Log.Error("list purchases failed", zap.Error(err), zap.String("user_id", u.ID))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, purchases)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	u, ok := identity.UserFromContext(r.Context())
	if !ok {
		kit.WriteError(w, r, http.StatusUnauthorized, "no user", nil)
		return
	}

	code := chi.URLParam(r, "productCode")
	if code == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "productCode required", nil)
		return
	}

	deleted, err := s.Store.DeleteByCode(r.Context(), u.ID, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			kit.WriteError(w, r, http.StatusNotFound, "purchase not found", map[string]any{"product_code": code})
			return
		}
		if s.Log != nil {
			s.Log.Error("delete purchase failed", zap.Error(err), zap.String("user_id", u.ID), zap.String("product_code", code))
		}
		kit.WriteError(w, r, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	// Duplicates for the same (user, code) pair are all removed; the
	// response carries the full set alongside the newest one.
	kit.WriteSuccess(w, http.StatusOK, map[string]any{
		"deleted":         deleted[0],
		"deleted_records": deleted,
	})
}

func decodeRecordRequest(w http.ResponseWriter, r *http.Request) (recordReq, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRecordBody)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req recordReq
	if err := dec.Decode(&req); err != nil {
		return recordReq{}, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return recordReq{}, errors.New("extra data after json object")
	}

	return req, nil
}
