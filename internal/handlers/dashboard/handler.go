package dashboard

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"unires/infras/otel"
	"unires/internal/domains/dashboard/service"
	"unires/shared/constant"
	"unires/shared/failure"
	"unires/transport/http/response"
)

type Handler struct {
	service service.Dashboard
	otel    otel.Otel
}

func New(service service.Dashboard, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/dashboard", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetDashboard)
		routerGroup.Post("/export", handler.ExportDashboard)
	})
}

// GetDashboard builds usage statistics over the last N days.
// @Summary Get dashboard statistics
// @Tags Dashboard
// @Produce json
// @Param days query integer false "Period length in days (1-365, default 30)"
// @Success 200 {object} response.Data[dto.DashboardResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/dashboard [get]
// @Security BearerAuth
func (handler *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetDashboard")
	defer scope.End()

	days, err := parseDays(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.service.Report(ctx, days)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to build dashboard")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// ExportDashboard uploads the dashboard report to object storage.
// @Summary Export dashboard statistics
// @Tags Dashboard
// @Produce json
// @Param days query integer false "Period length in days (1-365, default 30)"
// @Success 201 {object} response.Data[dto.ExportResponse]
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/dashboard/export [post]
// @Security BearerAuth
func (handler *Handler) ExportDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ExportDashboard")
	defer scope.End()

	days, err := parseDays(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.service.Export(ctx, days)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to export dashboard")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Dashboard exported by user " + user)

	response.WithJSON(w, http.StatusCreated, res)
}

func parseDays(r *http.Request) (int, error) {
	raw := r.URL.Query().Get(constant.RequestParamDays)
	if raw == constant.Empty {
		return service.DefaultDays, nil
	}

	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, failure.BadRequestFromString("days must be an integer")
	}

	return days, nil
}
