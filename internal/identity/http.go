package identity

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"EcoPantry/pkg/kit"
)

const (
	maxBodyBytes = 1 << 20
	tokenTTL     = 24 * time.Hour
	minPassword  = 8
)

// Server carries the locally managed credential endpoints. Deployments
// that use an external identity provider simply never mount these.
type Server struct {
	Log      *zap.Logger
	Accounts AccountStore
	JWT      *TokenMaker
}

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResp struct {
	AccessToken string `json:"access_token"`
}

func (s *Server) RegisterHandler() http.HandlerFunc { return s.register }
func (s *Server) LoginHandler() http.HandlerFunc    { return s.login }

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeCredentials(w, r)
	if !ok {
		return
	}
	if len(req.Password) < minPassword {
		kit.WriteError(w, r, http.StatusBadRequest, "password too short", map[string]any{"min_len": minPassword})
		return
	}

	id := "u_" + uuid.NewString()

	if err := s.Accounts.Create(r.Context(), id, req.Email, req.Password); err != nil {
		if errors.Is(err, ErrEmailExists) {
			kit.WriteError(w, r, http.StatusConflict, "email already registered", nil)
			return
		}
		s.Log.Error("create account failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeCredentials(w, r)
	if !ok {
		return
	}

	a, err := s.Accounts.Verify(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			kit.WriteError(w, r, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}
		s.Log.Error("verify account failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	tok, err := s.JWT.New(a.ID, a.Email, tokenTTL)
	if err != nil {
		s.Log.Error("token issue", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, loginResp{AccessToken: tok})
}

func (s *Server) decodeCredentials(w http.ResponseWriter, r *http.Request) (credentialsReq, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req credentialsReq
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return credentialsReq{}, false
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Password = strings.TrimSpace(req.Password)

	if req.Email == "" || req.Password == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "email/password required", nil)
		return credentialsReq{}, false
	}

	return req, true
}
