// Package agent runs the long-lived monitoring daemon: it polls one filer
// on an interval, publishes what it sees as Prometheus gauges, and serves
// /healthz and /metrics over HTTP.
package agent

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/filerops/filerctl/filer"
	"github.com/filerops/filerctl/model"
)

type healthResponse struct {
	Status  string `json:"status"`
	Filer   string `json:"filer"`
	Version string `json:"version,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Agent owns the HTTP surface and the poll loop for a single filer.
type Agent struct {
	cfg model.AgentConfig
	f   *filer.Filer
}

func New(cfg model.AgentConfig, f *filer.Filer) *Agent {
	return &Agent{cfg: cfg, f: f}
}

// Run polls immediately, then on every tick, until the context is
// cancelled. The HTTP server is started alongside and torn down with the
// context.
func (a *Agent) Run(ctx context.Context) error {
	e := echo.New()
	e.GET("/healthz", a.healthHandler())
	e.GET("/metrics", metricsHandler())

	go func() {
		sc := echo.StartConfig{Address: a.cfg.ListenAddr}
		if err := sc.Start(ctx, e); err != nil {
			log.Error().Err(err).Msg("agent http server stopped")
		}
	}()

	log.Info().
		Str("filer", a.f.Host()).
		Str("listen", a.cfg.ListenAddr).
		Dur("interval", a.cfg.PollInterval).
		Msg("agent started")

	a.poll(ctx)
	ticker := time.NewTicker(a.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("agent stopping")
			return nil
		case <-ticker.C:
			a.poll(ctx)
		}
	}
}

func (a *Agent) healthHandler() echo.HandlerFunc {
	return func(c *echo.Context) error {
		version, err := a.f.Version(c.Request().Context())
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, healthResponse{
				Status: "unreachable",
				Filer:  a.f.Host(),
				Error:  err.Error(),
			})
		}
		return c.JSON(http.StatusOK, healthResponse{
			Status:  "ok",
			Filer:   a.f.Host(),
			Version: version,
		})
	}
}

func metricsHandler() echo.HandlerFunc {
	h := promhttp.Handler()
	return func(c *echo.Context) error {
		h.ServeHTTP(c.Response(), c.Request())
		return nil
	}
}

// poll refreshes every gauge from one round of reads. A failed probe marks
// the filer down and leaves the remaining gauges at their last values.
func (a *Agent) poll(ctx context.Context) {
	host := a.f.Host()
	started := time.Now()
	defer func() {
		PollSeconds.WithLabelValues(host).Observe(time.Since(started).Seconds())
	}()

	if _, err := a.f.Version(ctx); err != nil {
		Up.WithLabelValues(host).Set(0)
		log.Warn().Err(err).Str("filer", host).Msg("filer unreachable")
		return
	}
	Up.WithLabelValues(host).Set(1)

	if aggrs, err := a.f.Aggregates(ctx); err != nil {
		log.Warn().Err(err).Str("filer", host).Msg("aggregate poll failed")
	} else {
		byState := map[string]int{}
		for _, ag := range aggrs {
			byState[ag.State]++
		}
		Aggregates.DeletePartialMatch(map[string]string{"filer": host})
		for state, n := range byState {
			Aggregates.WithLabelValues(host, state).Set(float64(n))
		}
	}

	if vols, err := a.f.Volumes(ctx); err != nil {
		log.Warn().Err(err).Str("filer", host).Msg("volume poll failed")
	} else {
		byState := map[string]int{}
		for _, v := range vols {
			byState[v.State]++
		}
		Volumes.DeletePartialMatch(map[string]string{"filer": host})
		for state, n := range byState {
			Volumes.WithLabelValues(host, state).Set(float64(n))
		}
	}

	if exports, err := a.f.Exports(ctx); err != nil {
		log.Warn().Err(err).Str("filer", host).Msg("export poll failed")
	} else {
		var active, inactive int
		for _, e := range exports {
			if e.Active() {
				active++
			} else {
				inactive++
			}
		}
		Exports.WithLabelValues(host, "active").Set(float64(active))
		Exports.WithLabelValues(host, "inactive").Set(float64(inactive))
	}

	if lics, err := a.f.Licenses(ctx); err != nil {
		log.Warn().Err(err).Str("filer", host).Msg("license poll failed")
	} else {
		var licensed int
		for _, l := range lics {
			if l.Licensed {
				licensed++
			}
		}
		Licenses.WithLabelValues(host).Set(float64(licensed))
	}
}
