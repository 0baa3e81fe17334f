// Package admin serves the node's operator HTTP API: identity states and
// limits, and the validation epoch.
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/flipkeeper/internal/common"
	"github.com/dmitrijs2005/flipkeeper/internal/logging"
	"github.com/dmitrijs2005/flipkeeper/internal/node/models"
)

type IdentityService interface {
	Get(ctx context.Context, address string) (*models.Identity, error)
	Update(ctx context.Context, address, state string, required, available int) (*models.Identity, error)
}

type EpochService interface {
	Current(ctx context.Context) (*models.Epoch, error)
	Advance(ctx context.Context) (*models.Epoch, error)
}

type identityJSON struct {
	Address        string    `json:"address"`
	State          string    `json:"state"`
	RequiredFlips  int       `json:"requiredFlips"`
	AvailableFlips int       `json:"availableFlips"`
	UpdatedAt      time.Time `json:"updatedAt,omitempty"`
}

type epochJSON struct {
	Epoch          int       `json:"epoch"`
	NextValidation time.Time `json:"nextValidation"`
}

type Server struct {
	address    string
	identities IdentityService
	epochs     EpochService
	logger     logging.Logger
}

func NewServer(a string, l logging.Logger, is IdentityService, es EpochService) *Server {
	return &Server{address: a, identities: is, epochs: es, logger: l.With("module", "admin")}
}

// Router returns the admin routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
	}).Methods(http.MethodGet)
	r.HandleFunc("/identities/{address}", s.getIdentity).Methods(http.MethodGet)
	r.HandleFunc("/identities/{address}", s.putIdentity).Methods(http.MethodPut)
	r.HandleFunc("/epoch", s.getEpoch).Methods(http.MethodGet)
	r.HandleFunc("/epoch/advance", s.advanceEpoch).Methods(http.MethodPost)
	return r
}

// Run serves the admin API until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping admin server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting admin server", "address", s.address)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) getIdentity(w http.ResponseWriter, r *http.Request) {
	id, err := s.identities.Get(r.Context(), mux.Vars(r)["address"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toIdentityJSON(id))
}

func (s *Server) putIdentity(w http.ResponseWriter, r *http.Request) {
	var in identityJSON
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "invalid body: "+err.Error(), http.StatusBadRequest)
		return
	}

	id, err := s.identities.Update(r.Context(), mux.Vars(r)["address"], in.State, in.RequiredFlips, in.AvailableFlips)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.logger.Info(r.Context(), "Identity updated", "address", id.Address, "state", id.State)
	writeJSON(w, http.StatusOK, toIdentityJSON(id))
}

func (s *Server) getEpoch(w http.ResponseWriter, r *http.Request) {
	e, err := s.epochs.Current(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, epochJSON{Epoch: e.Epoch, NextValidation: e.NextValidation})
}

func (s *Server) advanceEpoch(w http.ResponseWriter, r *http.Request) {
	e, err := s.epochs.Advance(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info(r.Context(), "Epoch advanced", "epoch", e.Epoch)
	writeJSON(w, http.StatusOK, epochJSON{Epoch: e.Epoch, NextValidation: e.NextValidation})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, common.ErrorNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	s.logger.Error(r.Context(), "admin request failed", "path", r.URL.Path, "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func toIdentityJSON(id *models.Identity) identityJSON {
	return identityJSON{
		Address:        id.Address,
		State:          string(id.State),
		RequiredFlips:  id.RequiredFlips,
		AvailableFlips: id.AvailableFlips,
		UpdatedAt:      id.UpdatedAt,
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
