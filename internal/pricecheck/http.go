package pricecheck

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"PriceCheck/internal/catalog"
	"PriceCheck/pkg/kit"
)

const versionHeader = "X-Catalog-Version"

type Server struct {
	Service *Service
	Store   *catalog.Store
	Log     *zap.Logger
}

type companyResp struct {
	Company  string    `json:"company"`
	Version  string    `json:"version"`
	Products int       `json:"products"`
	LoadedAt time.Time `json:"loaded_at"`
}

func (s *Server) Routes(limit func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
		defer cancel()

		if err := s.Store.Ping(ctx); err != nil {
			if s.Log != nil {
				s.Log.Warn("readyz failed", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	r.Get("/products", s.list)
	r.Get("/company", s.company)

	r.Group(func(lr chi.Router) {
		if limit != nil {
			lr.Use(limit)
		}
		lr.Get("/search", s.search)
		lr.Get("/scan/{code}", s.scan)
	})

	return r
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if strings.TrimSpace(q) == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "query required", map[string]any{"param": "q"})
		return
	}

	o, snap := s.Service.Search(q)
	if s.Log != nil {
		s.Log.Debug("search",
			zap.String("query", q),
			zap.String("mode", o.Mode.String()),
			zap.String("state", string(o.State)),
			zap.Int("count", o.Count),
		)
	}
	writeOutcome(w, snap, o)
}

func (s *Server) scan(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(chi.URLParam(r, "code"))
	if code == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "code required", nil)
		return
	}

	o, snap := s.Service.Scan(code)
	if s.Log != nil {
		s.Log.Debug("scan",
			zap.String("code", code),
			zap.String("mode", o.Mode.String()),
			zap.String("state", string(o.State)),
		)
	}
	writeOutcome(w, snap, o)
}

func (s *Server) list(w http.ResponseWriter, _ *http.Request) {
	snap := s.Store.Current()
	w.Header().Set(versionHeader, snap.Version)
	kit.WriteJSON(w, http.StatusOK, snap.Products)
}

func (s *Server) company(w http.ResponseWriter, _ *http.Request) {
	snap := s.Store.Current()
	w.Header().Set(versionHeader, snap.Version)
	kit.WriteJSON(w, http.StatusOK, companyResp{
		Company:  snap.Company,
		Version:  snap.Version,
		Products: len(snap.Products),
		LoadedAt: snap.LoadedAt,
	})
}

// Lookups answer 200 even when nothing matched: "not found" is a screen,
// not an error.
func writeOutcome(w http.ResponseWriter, snap *catalog.Snapshot, o Outcome) {
	w.Header().Set(versionHeader, snap.Version)
	kit.WriteJSON(w, http.StatusOK, o)
}
