package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/autokosten/autokosten-cli/internal/costs"
	"github.com/autokosten/autokosten-cli/internal/model"
	"github.com/autokosten/autokosten-cli/internal/store"
	"github.com/autokosten/autokosten-cli/internal/tax"
	"github.com/autokosten/autokosten-cli/pkg/rdw"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		api := &apiServer{
			store:  st,
			rdw:    initRDW(),
			params: costs.Params{KmAllowance: cfg.Tax.KmAllowance},
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           api.routes(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

type apiServer struct {
	store  store.Store
	rdw    rdw.Client
	params costs.Params
}

func (s *apiServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/vehicles/{plate}", s.handleVehicle)
		r.Post("/calculate", s.handleCalculate)
		r.Get("/comparisons", s.handleListComparisons)
		r.Get("/comparisons/{id}", s.handleGetComparison)
		r.Delete("/comparisons", s.handleClearComparisons)
		r.Delete("/comparisons/{id}", s.handleRemoveComparison)
	})
	return r
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *apiServer) handleVehicle(w http.ResponseWriter, r *http.Request) {
	plate := chi.URLParam(r, "plate")

	v, err := s.rdw.Lookup(r.Context(), plate)
	if err != nil {
		switch {
		case eris.Is(err, rdw.ErrInvalidPlate):
			writeError(w, http.StatusBadRequest, "invalid license plate")
		case eris.Is(err, rdw.ErrNotFound):
			writeError(w, http.StatusNotFound, "vehicle not found")
		default:
			zap.L().Error("vehicle lookup failed", zap.String("plate", plate), zap.Error(err))
			writeError(w, http.StatusBadGateway, "registry unavailable")
		}
		return
	}

	out := struct {
		Vehicle    *model.Vehicle  `json:"vehicle"`
		Bijtelling *tax.Assessment `json:"bijtelling,omitempty"`
	}{Vehicle: v}
	if a, err := tax.Assess(v, time.Now()); err == nil {
		out.Bijtelling = a
	}
	writeJSON(w, http.StatusOK, out)
}

type calculateRequest struct {
	Kenteken string `json:"kenteken,omitempty"`
	model.CostInputs
	Save bool `json:"save,omitempty"`
}

func (s *apiServer) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	now := time.Now()
	in := req.CostInputs
	var assessment *tax.Assessment

	if req.Kenteken != "" {
		v, err := s.rdw.Lookup(r.Context(), req.Kenteken)
		switch {
		case err == nil:
			in.Vehicle = v
			if a, err := tax.Assess(v, now); err == nil {
				assessment = a
			}
		case eris.Is(err, rdw.ErrInvalidPlate):
			writeError(w, http.StatusBadRequest, "invalid license plate")
			return
		case eris.Is(err, rdw.ErrNotFound):
			// An unregistered plate means "no vehicle data": the calculation
			// proceeds on the documented defaults instead of failing.
			zap.L().Warn("plate not registered, calculating with defaults", zap.String("plate", req.Kenteken))
		default:
			zap.L().Error("vehicle lookup failed", zap.String("plate", req.Kenteken), zap.Error(err))
			writeError(w, http.StatusBadGateway, "registry unavailable")
			return
		}
	}

	breakdown, err := costs.Calculate(in, s.params, now)
	if err != nil {
		if eris.Is(err, model.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		zap.L().Error("calculation failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "calculation failed")
		return
	}

	out := struct {
		Breakdown  *model.CostBreakdown `json:"breakdown"`
		Bijtelling *tax.Assessment      `json:"bijtelling,omitempty"`
		Comparison *model.Comparison    `json:"comparison,omitempty"`
	}{Breakdown: breakdown, Bijtelling: assessment}

	if req.Save {
		c := &model.Comparison{
			Method:    methodPriveKopen,
			Breakdown: *breakdown,
		}
		if in.Vehicle != nil {
			c.PlateID = in.Vehicle.PlateID
			c.Vehicle = in.Vehicle
			c.VehicleSummary = in.Vehicle.Summary()
		} else {
			c.PlateID = "handmatig"
			c.VehicleSummary = "Handmatige invoer"
		}
		if err := s.store.SaveComparison(r.Context(), c); err != nil {
			zap.L().Error("save comparison failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "save failed")
			return
		}
		out.Comparison = c
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *apiServer) handleListComparisons(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListComparisons(r.Context())
	if err != nil {
		zap.L().Error("list comparisons failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list failed")
		return
	}
	if list == nil {
		list = []model.Comparison{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *apiServer) handleGetComparison(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, err := s.store.GetComparison(r.Context(), id)
	if err != nil {
		if eris.Is(err, store.ErrComparisonNotFound) {
			writeError(w, http.StatusNotFound, "comparison not found")
			return
		}
		zap.L().Error("get comparison failed", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "get failed")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *apiServer) handleRemoveComparison(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.RemoveComparison(r.Context(), id); err != nil {
		if eris.Is(err, store.ErrComparisonNotFound) {
			writeError(w, http.StatusNotFound, "comparison not found")
			return
		}
		zap.L().Error("remove comparison failed", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "remove failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *apiServer) handleClearComparisons(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.ClearComparisons(r.Context())
	if err != nil {
		zap.L().Error("clear comparisons failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "clear failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"removed": n})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
