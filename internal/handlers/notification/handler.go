package notification

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"unires/infras/otel"
	"unires/internal/domains/notification/service"
	"unires/shared/constant"
	gDto "unires/shared/dto"
	"unires/transport/http/response"
)

type Handler struct {
	inbox service.Inbox
	otel  otel.Otel
}

func New(inbox service.Inbox, otel otel.Otel) Handler {
	return Handler{
		inbox: inbox,
		otel:  otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/notifications", func(routerGroup chi.Router) {
		routerGroup.Get("/mine", handler.GetMyNotifications)
		routerGroup.Post("/{id}/read", handler.MarkRead)
	})
}

// GetMyNotifications lists notifications addressed to the caller or the caller's role.
// @Summary Get my notifications
// @Tags Notification
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetNotificationsResponse]
// @Failure 401 {object} response.Error
// @Router /v1/notifications/mine [get]
// @Security BearerAuth
func (handler *Handler) GetMyNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyNotifications")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	res, err := handler.inbox.ListMine(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list notifications")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// MarkRead marks one of the caller's notifications as read.
// @Summary Mark a notification read
// @Tags Notification
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Router /v1/notifications/{id}/read [post]
// @Security BearerAuth
func (handler *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".MarkRead")
	defer scope.End()

	if err := handler.inbox.MarkRead(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to mark notification read")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Notification marked as read")
}
