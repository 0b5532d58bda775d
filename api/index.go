package handler

import (
	"net/http"

	"unires/config"
	"unires/di"
	"unires/shared/logger"
)

// Handler is the serverless entrypoint. It serves the HTTP API only; the
// sweep worker and notification consumer need the long-running cmd/app.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	handler := di.InitializeService()
	handler.ServeHTTP(w, r)
}
