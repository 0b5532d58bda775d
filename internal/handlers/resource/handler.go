package resource

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"unires/infras/otel"
	"unires/internal/domains/resource/model"
	"unires/internal/domains/resource/model/dto"
	"unires/internal/domains/resource/service"
	"unires/shared"
	"unires/shared/constant"
	gDto "unires/shared/dto"
	"unires/shared/failure"
	"unires/shared/validator"
	"unires/transport/http/response"
)

type Handler struct {
	service service.Resource
	otel    otel.Otel
}

func New(service service.Resource, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/resources", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateResource)
		routerGroup.Get("/", handler.GetResources)
		routerGroup.Get("/{id}", handler.GetResourceByID)
		routerGroup.Patch("/{id}", handler.UpdateResource)
		routerGroup.Delete("/{id}", handler.DeleteResource)
	})
}

// CreateResource handles the creation of a new room or equipment item.
// @Summary Create a new resource
// @Description Register a room or an equipment pool.
// @Tags Resource
// @Accept json
// @Produce json
// @Param request body dto.CreateResourceRequest true "Resource details"
// @Success 201 {object} response.Data[dto.ResourceResponse] "Created resource"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/resources [post]
// @Security BearerAuth
func (handler *Handler) CreateResource(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateResource")
	defer scope.End()

	req := dto.CreateResourceRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create resource")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Resource created successfully by user " + user)

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetResources retrieves resources based on query parameters.
// @Summary Get all resources
// @Description Retrieve rooms and equipment with optional filtering and pagination.
// @Tags Resource
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param kind query string false "Filter by kind (room, equipment)"
// @Param name query string false "Filter by name"
// @Param location query string false "Filter by location"
// @Param available query boolean false "Filter by availability"
// @Success 200 {object} response.Data[dto.GetResourcesResponse] "List of resources"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/resources [get]
func (handler *Handler) GetResources(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetResources")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)
	queryParams.RestrictSort(model.SortableFields...)

	filterGroup, err := resourceFilter(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	resources, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get resources")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Resources retrieved successfully")

	response.WithJSON(w, http.StatusOK, resources)
}

// GetResourceByID retrieves a resource by its ID.
// @Summary Get a resource by ID
// @Tags Resource
// @Produce json
// @Param id path string true "Resource ID"
// @Success 200 {object} response.Data[dto.ResourceResponse] "Resource details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/resources/{id} [get]
func (handler *Handler) GetResourceByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetResourceByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	resource, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get resource by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Resource retrieved successfully")

	response.WithJSON(w, http.StatusOK, resource)
}

// UpdateResource updates an existing resource by its ID.
// @Summary Update a resource by ID
// @Tags Resource
// @Accept json
// @Produce json
// @Param id path string true "Resource ID"
// @Param request body dto.UpdateResourceRequest true "Fields to update"
// @Success 200 {object} response.Message "Resource updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/resources/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateResource(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateResource")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateResourceRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update resource")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Resource updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Resource updated successfully")
}

// DeleteResource deletes a resource by its ID.
// @Summary Delete a resource by ID
// @Tags Resource
// @Produce json
// @Param id path string true "Resource ID"
// @Success 200 {object} response.Message "Resource deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/resources/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteResource(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteResource")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete resource")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Resource deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Resource deleted successfully")
}

func resourceFilter(r *http.Request) (gDto.FilterGroup, error) {
	query := r.URL.Query()

	filterGroup := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if kind := query.Get(model.FieldKind); kind != constant.Empty {
		if !model.Kind(kind).Valid() {
			return filterGroup, failure.BadRequestFromString("invalid kind: " + kind)
		}

		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldKind,
			Operator: gDto.FilterOperatorEq,
			Value:    kind,
			Table:    model.TableName,
		})
	}

	for _, field := range []string{model.FieldName, model.FieldLocation} {
		if value := query.Get(field); value != constant.Empty {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorLike,
				Value:    value,
				Table:    model.TableName,
			})
		}
	}

	if available := shared.ConvertStringToBool(query.Get(model.FieldAvailable)); available != nil {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldAvailable,
			Operator: gDto.FilterOperatorEq,
			Value:    *available,
			Table:    model.TableName,
		})
	}

	return filterGroup, nil
}
