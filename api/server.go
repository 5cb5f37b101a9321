package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/matt-g-everett/ledchart/chart"
)

// SnapshotSource supplies the latest chart state. Implementations must be
// safe for concurrent use.
type SnapshotSource interface {
	Snapshot() []chart.SeriesState
	Name(index chart.Index) string
}

// SeriesView is the JSON form of one series.
type SeriesView struct {
	Index   int     `json:"index"`
	Name    string  `json:"name,omitempty"`
	Label   string  `json:"label,omitempty"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Visible bool    `json:"visible"`
	Reveal  float64 `json:"reveal"`
	Colour  string  `json:"colour"`
	Style   string  `json:"style"`
}

// Api serves the chart state over HTTP.
type Api struct {
	listen string
	source SnapshotSource
	logger *slog.Logger
}

// NewApi creates an Api listening on listen.
func NewApi(listen string, source SnapshotSource, logger *slog.Logger) *Api {
	a := new(Api)
	a.listen = listen
	a.source = source
	a.logger = logger
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// Handler returns the routes of the Api.
func (a *Api) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /series", a.handleSeries)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	return mux
}

func (a *Api) handleSeries(w http.ResponseWriter, r *http.Request) {
	states := a.source.Snapshot()
	views := make([]SeriesView, 0, len(states))
	for _, s := range states {
		views = append(views, SeriesView{
			Index:   int(s.Index),
			Name:    a.source.Name(s.Index),
			Label:   s.Spec.Label,
			Value:   s.Value,
			Percent: s.Percent,
			Min:     s.Spec.Min,
			Max:     s.Spec.Max,
			Visible: s.Visible,
			Reveal:  s.Reveal,
			Colour:  s.Colour.Hex(),
			Style:   s.Spec.Style.String(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(views); err != nil {
		a.logger.Warn("Failed to write series", "error", err)
	}
}

// Serve listens until ctx is cancelled.
func (a *Api) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.listen,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	a.logger.Info("Listening", "address", a.listen)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
