package availability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"unires/infras/otel"
	"unires/internal/domains/availability/service"
	"unires/shared/constant"
	"unires/shared/failure"
	"unires/shared/timezone"
	"unires/transport/http/response"
)

type Handler struct {
	service service.Availability
	otel    otel.Otel
}

func New(service service.Availability, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/availability", func(routerGroup chi.Router) {
		routerGroup.Get("/occupancy", handler.Occupancy)

		routerGroup.Route("/{resourceID}", func(resourceGroup chi.Router) {
			resourceGroup.Get("/conflict", handler.Conflict)
			resourceGroup.Get("/next-slot", handler.NextSlot)
			resourceGroup.Get("/day", handler.Day)
			resourceGroup.Get("/gaps", handler.Gaps)
			resourceGroup.Get("/utilization", handler.Utilization)
		})
	})
}

// Conflict reports whether a time range collides with existing bookings.
// @Summary Check for a booking conflict
// @Tags Availability
// @Produce json
// @Param resourceID path string true "Resource ID"
// @Param start query string true "Range start (RFC3339)"
// @Param end query string true "Range end (RFC3339)"
// @Success 200 {object} response.Data[dto.ConflictResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/availability/{resourceID}/conflict [get]
// @Security BearerAuth
func (handler *Handler) Conflict(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Conflict")
	defer scope.End()

	start, end, err := parseRange(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.service.HasConflict(ctx, chi.URLParam(r, constant.RequestParamResourceID), start, end)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to check conflict")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// NextSlot finds the earliest free slot of the requested length.
// @Summary Find the next available slot
// @Tags Availability
// @Produce json
// @Param resourceID path string true "Resource ID"
// @Param duration_hours query integer true "Slot length in whole hours"
// @Param from query string false "Search start (RFC3339), defaults to now"
// @Success 200 {object} response.Data[dto.NextSlotResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error "No slot inside the search horizon"
// @Router /v1/availability/{resourceID}/next-slot [get]
// @Security BearerAuth
func (handler *Handler) NextSlot(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".NextSlot")
	defer scope.End()

	duration, err := parsePositiveInt(r, constant.RequestParamDuration, true)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	var from time.Time

	if raw := r.URL.Query().Get(constant.RequestParamFrom); raw != constant.Empty {
		from, err = timezone.ParseInstant(raw)
		if err != nil {
			err = failure.BadRequestFromString("invalid from, expected RFC3339")
			scope.TraceError(err)
			response.WithError(w, err)

			return
		}
	}

	res, err := handler.service.NextAvailableSlot(ctx, chi.URLParam(r, constant.RequestParamResourceID), duration, from)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to find next available slot")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// Day returns the free and booked slots of one calendar day.
// @Summary Get day availability
// @Tags Availability
// @Produce json
// @Param resourceID path string true "Resource ID"
// @Param date query string true "Day (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.DayResponse]
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/availability/{resourceID}/day [get]
// @Security BearerAuth
func (handler *Handler) Day(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Day")
	defer scope.End()

	day, err := timezone.ParseDay(r.URL.Query().Get(constant.RequestParamDate))
	if err != nil {
		err = failure.BadRequestFromString("invalid date, expected YYYY-MM-DD")
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.service.DayAvailability(ctx, chi.URLParam(r, constant.RequestParamResourceID), day)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get day availability")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// Gaps lists free intervals of at least min_gap_minutes inside a range.
// @Summary List free gaps
// @Tags Availability
// @Produce json
// @Param resourceID path string true "Resource ID"
// @Param start query string true "Range start (RFC3339)"
// @Param end query string true "Range end (RFC3339)"
// @Param min_gap_minutes query integer false "Minimum gap length in minutes"
// @Success 200 {object} response.Data[dto.GapsResponse]
// @Failure 400 {object} response.Error
// @Router /v1/availability/{resourceID}/gaps [get]
// @Security BearerAuth
func (handler *Handler) Gaps(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Gaps")
	defer scope.End()

	start, end, err := parseRange(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	minGap, err := parsePositiveInt(r, constant.RequestParamMinGap, false)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.service.Gaps(ctx, chi.URLParam(r, constant.RequestParamResourceID), start, end, minGap)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list gaps")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// Utilization reports booked hours against open hours inside a range.
// @Summary Get utilization
// @Tags Availability
// @Produce json
// @Param resourceID path string true "Resource ID"
// @Param start query string true "Range start (RFC3339)"
// @Param end query string true "Range end (RFC3339)"
// @Success 200 {object} response.Data[dto.UtilizationResponse]
// @Failure 400 {object} response.Error
// @Router /v1/availability/{resourceID}/utilization [get]
// @Security BearerAuth
func (handler *Handler) Utilization(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Utilization")
	defer scope.End()

	start, end, err := parseRange(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res, err := handler.service.Utilization(ctx, chi.URLParam(r, constant.RequestParamResourceID), start, end)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to compute utilization")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// Occupancy reports which resources are in use right now.
// @Summary Get current occupancy
// @Tags Availability
// @Produce json
// @Success 200 {object} response.Data[dto.OccupancyResponse]
// @Failure 500 {object} response.Error
// @Router /v1/availability/occupancy [get]
// @Security BearerAuth
func (handler *Handler) Occupancy(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Occupancy")
	defer scope.End()

	res, err := handler.service.Occupancy(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to compute occupancy")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

func parseRange(r *http.Request) (start, end time.Time, err error) {
	query := r.URL.Query()

	start, err = timezone.ParseInstant(query.Get(constant.RequestParamStart))
	if err != nil {
		return start, end, failure.BadRequestFromString("invalid start, expected RFC3339")
	}

	end, err = timezone.ParseInstant(query.Get(constant.RequestParamEnd))
	if err != nil {
		return start, end, failure.BadRequestFromString("invalid end, expected RFC3339")
	}

	return start, end, nil
}

func parsePositiveInt(r *http.Request, param string, required bool) (int, error) {
	raw := r.URL.Query().Get(param)
	if raw == constant.Empty {
		if required {
			return 0, failure.BadRequestFromString(param + " is required")
		}

		return 0, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, failure.BadRequestFromString(param + " must be a non-negative integer")
	}

	return value, nil
}
