package reservation

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"unires/infras/otel"
	"unires/internal/domains/reservation/model"
	"unires/internal/domains/reservation/model/dto"
	"unires/internal/domains/reservation/service"
	"unires/shared/constant"
	gDto "unires/shared/dto"
	"unires/shared/failure"
	"unires/shared/timezone"
	"unires/shared/validator"
	"unires/transport/http/response"
)

type Handler struct {
	service service.Reservation
	otel    otel.Otel
}

func New(service service.Reservation, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/reservations", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateReservation)
		routerGroup.Get("/", handler.GetReservations)
		routerGroup.Get("/mine", handler.GetMyReservations)
		routerGroup.Get("/{id}", handler.GetReservationByID)

		routerGroup.Post("/{id}/approve", handler.Approve)
		routerGroup.Post("/{id}/reject", handler.Reject)
		routerGroup.Post("/{id}/escalate", handler.Escalate)
		routerGroup.Post("/{id}/hod-decision", handler.HodDecision)
		routerGroup.Post("/{id}/cancel", handler.Cancel)
		routerGroup.Post("/{id}/reschedule", handler.Reschedule)
		routerGroup.Post("/{id}/extension", handler.RequestExtension)
		routerGroup.Post("/{id}/extension/decision", handler.DecideExtension)
		routerGroup.Post("/{id}/return", handler.MarkReturned)
		routerGroup.Post("/{id}/suggestion-response", handler.RespondToSuggestion)
	})
}

// CreateReservation books a room or requests equipment.
// @Summary Create a reservation
// @Description Book a room or request equipment units for a time range. Overlapping bookings are rejected with the conflicting reservation ids.
// @Tags Reservation
// @Accept json
// @Produce json
// @Param request body dto.CreateReservationRequest true "Reservation details"
// @Success 201 {object} response.Data[dto.ReservationResponse] "Created reservation"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations [post]
// @Security BearerAuth
func (handler *Handler) CreateReservation(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateReservation")
	defer scope.End()

	req := dto.CreateReservationRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create reservation")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Reservation created successfully by user " + res.UserID)

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetReservations lists reservations for administrators.
// @Summary Get all reservations
// @Tags Reservation
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Param kind query string false "Filter by kind (room_booking, equipment_request)"
// @Param resource_ids query string false "Comma separated resource ids"
// @Param start query string false "Only reservations ending after this instant (RFC3339)"
// @Param end query string false "Only reservations starting before this instant (RFC3339)"
// @Success 200 {object} response.Data[dto.GetReservationsResponse] "List of reservations"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/reservations [get]
// @Security BearerAuth
func (handler *Handler) GetReservations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReservations")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.RestrictSort(model.SortableFields...)

	filterGroup, err := reservationFilter(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	reservations, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reservations")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reservations)
}

// GetMyReservations lists the caller's own reservations.
// @Summary Get my reservations
// @Tags Reservation
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Param kind query string false "Filter by kind"
// @Success 200 {object} response.Data[dto.GetReservationsResponse] "List of reservations"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Router /v1/reservations/mine [get]
// @Security BearerAuth
func (handler *Handler) GetMyReservations(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyReservations")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.RestrictSort(model.SortableFields...)

	filterGroup, err := reservationFilter(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	reservations, err := handler.service.GetMine(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get own reservations")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, reservations)
}

// GetReservationByID retrieves a reservation by its ID.
// @Summary Get a reservation by ID
// @Tags Reservation
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Data[dto.ReservationResponse] "Reservation details"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/reservations/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetReservationByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetReservationByID")
	defer scope.End()

	res, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get reservation by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// Approve approves a pending reservation.
// @Summary Approve a reservation
// @Tags Reservation
// @Produce json
// @Param id path string true "Reservation ID"
// @Success 200 {object} response.Data[dto.ReservationResponse]
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/reservations/{id}/approve [post]
// @Security BearerAuth
func (handler *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	transition(handler, w, r, "Approve", false, func(ctx context.Context, id string, _ struct{}) (dto.ReservationResponse, error) {
		return handler.service.Approve(ctx, id)
	})
}

// Reject rejects a pending reservation, optionally suggesting an alternative.
// @Summary Reject a reservation
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.RejectRequest false "Reason and suggestion"
// @Success 200 {object} response.Data[dto.ReservationResponse]
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/reservations/{id}/reject [post]
// @Security BearerAuth
func (handler *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	transition(handler, w, r, "Reject", false, handler.service.Reject)
}

// Escalate forwards a pending reservation to the head of department.
// @Summary Escalate a reservation
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.EscalateRequest true "Escalation reason"
// @Success 200 {object} response.Data[dto.ReservationResponse]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/reservations/{id}/escalate [post]
// @Security BearerAuth
func (handler *Handler) Escalate(w http.ResponseWriter, r *http.Request) {
	transition(handler, w, r, "Escalate", true, handler.service.Escalate)
}

// HodDecision records the head of department's decision on an escalated reservation.
// @Summary Decide an escalated reservation
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.HodDecisionRequest true "Decision"
// @Success 200 {object} response.Data[dto.ReservationResponse]
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/reservations/{id}/hod-decision [post]
// @Security BearerAuth
func (handler *Handler) HodDecision(w http.ResponseWriter, r *http.Request) {
	transition(handler, w, r, "HodDecision", true, handler.service.HodDecide)
}

// Cancel cancels a reservation owned by the caller.
// @Summary Cancel a reservation
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.CancelRequest false "Cancellation reason"
// @Success 200 {object} response.Data[dto.ReservationResponse]
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/reservations/{id}/cancel [post]
// @Security BearerAuth
func (handler *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	transition(handler, w, r, "Cancel", false, handler.service.Cancel)
}

// Reschedule moves a reservation to a new time range and sends it back for approval.
// @Summary Reschedule a reservation
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.RescheduleRequest true "New time range"
// @Success 200 {object} response.Data[dto.ReservationResponse]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/reservations/{id}/reschedule [post]
// @Security BearerAuth
func (handler *Handler) Reschedule(w http.ResponseWriter, r *http.Request) {
	transition(handler, w, r, "Reschedule", true, handler.service.Reschedule)
}

// RequestExtension asks for more time on an approved equipment request.
// @Summary Request an extension
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.ExtensionRequest true "Extension hours and reason"
// @Success 200 {object} response.Data[dto.ReservationResponse]
// @Failure 409 {object} response.Error
// @Failure 422 {object} response.Error "Daily extension quota exceeded"
// @Router /v1/reservations/{id}/extension [post]
// @Security BearerAuth
func (handler *Handler) RequestExtension(w http.ResponseWriter, r *http.Request) {
	transition(handler, w, r, "RequestExtension", true, handler.service.RequestExtension)
}

// DecideExtension approves or rejects a pending extension.
// @Summary Decide an extension
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.ExtensionDecisionRequest true "Decision"
// @Success 200 {object} response.Data[dto.ReservationResponse]
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/reservations/{id}/extension/decision [post]
// @Security BearerAuth
func (handler *Handler) DecideExtension(w http.ResponseWriter, r *http.Request) {
	transition(handler, w, r, "DecideExtension", true, handler.service.DecideExtension)
}

// MarkReturned records the return of borrowed equipment.
// @Summary Mark equipment returned
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.ReturnRequest true "Return condition"
// @Success 200 {object} response.Data[dto.ReservationResponse]
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/reservations/{id}/return [post]
// @Security BearerAuth
func (handler *Handler) MarkReturned(w http.ResponseWriter, r *http.Request) {
	transition(handler, w, r, "MarkReturned", true, handler.service.MarkReturned)
}

// RespondToSuggestion acknowledges or declines an administrator's alternative suggestion.
// @Summary Respond to a suggestion
// @Tags Reservation
// @Accept json
// @Produce json
// @Param id path string true "Reservation ID"
// @Param request body dto.SuggestionResponseRequest true "Response"
// @Success 200 {object} response.Data[dto.ReservationResponse]
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/reservations/{id}/suggestion-response [post]
// @Security BearerAuth
func (handler *Handler) RespondToSuggestion(w http.ResponseWriter, r *http.Request) {
	transition(handler, w, r, "RespondToSuggestion", true, handler.service.RespondToSuggestion)
}

// transition decodes the body (optional unless bodyRequired), runs call and writes the updated reservation.
func transition[T any](handler *Handler, w http.ResponseWriter, r *http.Request, name string, bodyRequired bool,
	call func(ctx context.Context, id string, req T) (dto.ReservationResponse, error),
) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+name)
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	var req T

	var err error
	if bodyRequired || r.ContentLength > 0 {
		err = validator.Validate(r.Body, &req)
	} else {
		err = validator.ValidateStruct(&req)
	}

	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("reservation_id", id).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := call(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("reservation_id", id).Str("operation", name).Msg("failed to transition reservation")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Reservation " + id + " is now " + string(res.Status))

	response.WithJSON(w, http.StatusOK, res)
}

func reservationFilter(r *http.Request) (gDto.FilterGroup, error) {
	query := r.URL.Query()

	filterGroup := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if raw := query.Get(constant.RequestParamStatus); raw != constant.Empty {
		status, err := model.ParseStatus(raw)
		if err != nil {
			return filterGroup, failure.BadRequest(err)
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    string(status),
			Table:    model.TableName,
		})
	}

	if raw := query.Get(constant.RequestParamKind); raw != constant.Empty {
		if !model.Kind(raw).Valid() {
			return filterGroup, failure.BadRequestFromString("invalid kind: " + raw)
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldKind,
			Operator: gDto.FilterOperatorEq,
			Value:    raw,
			Table:    model.TableName,
		})
	}

	if raw := query.Get(constant.RequestParamResources); raw != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldResourceID,
			Operator: gDto.FilterOperatorIn,
			Value:    strings.Split(raw, ","),
			Table:    model.TableName,
		})
	}

	if raw := query.Get(constant.RequestParamStart); raw != constant.Empty {
		start, err := timezone.ParseInstant(raw)
		if err != nil {
			return filterGroup, failure.BadRequestFromString("invalid start, expected RFC3339")
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			ArgName:  "window_start",
			Field:    model.FieldEndTime,
			Operator: gDto.FilterOperatorGreaterEq,
			Value:    start,
			Table:    model.TableName,
		})
	}

	if raw := query.Get(constant.RequestParamEnd); raw != constant.Empty {
		end, err := timezone.ParseInstant(raw)
		if err != nil {
			return filterGroup, failure.BadRequestFromString("invalid end, expected RFC3339")
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			ArgName:  "window_end",
			Field:    model.FieldStartTime,
			Operator: gDto.FilterOperatorLessEq,
			Value:    end,
			Table:    model.TableName,
		})
	}

	return filterGroup, nil
}
