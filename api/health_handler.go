package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// pinger is satisfied by database.Database
type pinger interface {
	Ping(ctx context.Context) error
}

type healthHandler struct {
	responder   Responder
	logger      zerolog.Logger
	database    pinger
	startupTime time.Time
	timeout     time.Duration
}

func newHealthHandler(database pinger, startupTime time.Time) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()

	return healthHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		database:    database,
		startupTime: startupTime,
		timeout:     2 * time.Second,
	}
}

type healthStatus struct {
	UptimeSeconds int64  `json:"uptimeSeconds"`
	Database      string `json:"database"`
}

// check reports uptime and whether the database answers a ping
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} SuccessEnvelope
// @Failure 503 {object} ErrorEnvelope
// @Router /healthz [get]
func (h healthHandler) check() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		if err := h.database.Ping(ctx); err != nil {
			h.logger.Error().Err(err).Msg("database ping failed")
			h.responder.Error(w, msgUnavailable, http.StatusServiceUnavailable)
			return
		}

		h.responder.Success(w, "ok", healthStatus{
			UptimeSeconds: int64(time.Since(h.startupTime).Seconds()),
			Database:      "ok",
		}, http.StatusOK)
	}
}
