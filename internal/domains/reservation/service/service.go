package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"unires/config"
	"unires/infras/otel"
	"unires/internal/domains/availability/engine"
	notification "unires/internal/domains/notification/service"
	"unires/internal/domains/reservation/lifecycle"
	"unires/internal/domains/reservation/model"
	"unires/internal/domains/reservation/model/dto"
	"unires/internal/domains/reservation/repository"
	resource "unires/internal/domains/resource/model"
	resourceRepo "unires/internal/domains/resource/repository"
	"unires/shared"
	"unires/shared/cache"
	"unires/shared/clock"
	"unires/shared/constant"
	gDto "unires/shared/dto"
	"unires/shared/failure"
	gRepo "unires/shared/repository"
)

type Reservation interface {
	Create(ctx context.Context, req dto.CreateReservationRequest) (dto.ReservationResponse, error)
	Get(ctx context.Context, id string) (dto.ReservationResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetReservationsResponse, error)
	GetMine(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetReservationsResponse, error)

	Approve(ctx context.Context, id string) (dto.ReservationResponse, error)
	Reject(ctx context.Context, id string, req dto.RejectRequest) (dto.ReservationResponse, error)
	Escalate(ctx context.Context, id string, req dto.EscalateRequest) (dto.ReservationResponse, error)
	HodDecide(ctx context.Context, id string, req dto.HodDecisionRequest) (dto.ReservationResponse, error)
	Cancel(ctx context.Context, id string, req dto.CancelRequest) (dto.ReservationResponse, error)
	Reschedule(ctx context.Context, id string, req dto.RescheduleRequest) (dto.ReservationResponse, error)
	RequestExtension(ctx context.Context, id string, req dto.ExtensionRequest) (dto.ReservationResponse, error)
	DecideExtension(ctx context.Context, id string, req dto.ExtensionDecisionRequest) (dto.ReservationResponse, error)
	MarkReturned(ctx context.Context, id string, req dto.ReturnRequest) (dto.ReservationResponse, error)
	RespondToSuggestion(ctx context.Context, id string, req dto.SuggestionResponseRequest) (dto.ReservationResponse, error)

	SweepCandidates(ctx context.Context, limit int) ([]string, error)
	SweepOne(ctx context.Context, id string) (bool, error)
}

type serviceImpl struct {
	repo      repository.Reservation
	resources resourceRepo.Resource
	tx        gRepo.Transactor
	notifier  notification.Notifier
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
	clock     clock.Clock
}

func New(repo repository.Reservation, resources resourceRepo.Resource, tx gRepo.Transactor, notifier notification.Notifier,
	cfg *config.Config, cache cache.RedisCache, otel otel.Otel, clk clock.Clock,
) Reservation {
	return &serviceImpl{
		repo:      repo,
		resources: resources,
		tx:        tx,
		notifier:  notifier,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
		clock:     clk,
	}
}

// transitionFunc computes the next state of a locked reservation. It may
// fill env with facts read outside the transaction.
type transitionFunc func(ctx context.Context, current model.Reservation, env *lifecycle.Env) (lifecycle.Result, error)

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReservationRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor, err := actorFrom(ctx)
	if err != nil {
		return res, err
	}

	env := s.env()
	reservation := req.ToModel(actor.ID, env.Now)

	target, err := s.loadResource(ctx, reservation.ResourceID)
	if err != nil {
		return res, err
	}

	if err = checkBookable(target, reservation); err != nil {
		return res, err
	}

	existing, err := s.repo.FindOverlapping(ctx, reservation.ResourceID, reservation.StartTime, reservation.EndTime)
	if err != nil {
		log.Error().Err(err).Msg("failed to find overlapping reservations")

		return res, fmt.Errorf("failed to find overlapping reservations: %w", err)
	}

	env.Conflicts = blockingConflicts(target, existing, reservation.StartTime, reservation.EndTime, constant.Empty, reservation.Quantity)

	result, err := lifecycle.Create(reservation, env)
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, result.Reservation); err != nil {
		log.Error().Err(err).Msg("failed to create reservation")

		return res, fmt.Errorf("failed to create reservation: %w", err)
	}

	s.dispatch(ctx, result)
	res.FromModel(result.Reservation)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor, err := actorFrom(ctx)
	if err != nil {
		return res, err
	}

	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return res, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return res, failure.NotFound("reservation not found") // nolint:wrapcheck
	}

	if reservation.UserID != actor.ID && !actor.IsAdmin() && !actor.IsHod() {
		return res, failure.Forbidden("you can only view your own reservations") // nolint:wrapcheck
	}

	res.FromModel(reservation)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations")

		return res, fmt.Errorf("failed to get reservations: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	return res, nil
}

func (s *serviceImpl) GetMine(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetReservationsResponse, err error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return res, err
	}

	return s.GetAll(ctx, params, scopeToUser(filter, actor.ID))
}

func (s *serviceImpl) Approve(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	return s.transition(ctx, id, "Approve", "approve", func(_ context.Context, current model.Reservation, env *lifecycle.Env) (lifecycle.Result, error) {
		approver, err := requireAdmin(ctx)
		if err != nil {
			return lifecycle.Result{}, err
		}

		return lifecycle.Approve(current, approver, *env)
	})
}

func (s *serviceImpl) Reject(ctx context.Context, id string, req dto.RejectRequest) (res dto.ReservationResponse, err error) {
	return s.transition(ctx, id, "Reject", "reject", func(_ context.Context, current model.Reservation, env *lifecycle.Env) (lifecycle.Result, error) {
		approver, err := requireAdmin(ctx)
		if err != nil {
			return lifecycle.Result{}, err
		}

		return lifecycle.Reject(current, approver, req.Reason, req.Suggestion, *env)
	})
}

func (s *serviceImpl) Escalate(ctx context.Context, id string, req dto.EscalateRequest) (res dto.ReservationResponse, err error) {
	return s.transition(ctx, id, "Escalate", "escalate", func(_ context.Context, current model.Reservation, env *lifecycle.Env) (lifecycle.Result, error) {
		approver, err := requireAdmin(ctx)
		if err != nil {
			return lifecycle.Result{}, err
		}

		return lifecycle.Escalate(current, approver, req.Reason, req.Suggestion, *env)
	})
}

func (s *serviceImpl) HodDecide(ctx context.Context, id string, req dto.HodDecisionRequest) (res dto.ReservationResponse, err error) {
	return s.transition(ctx, id, "HodDecide", "decide on", func(_ context.Context, current model.Reservation, env *lifecycle.Env) (lifecycle.Result, error) {
		hod, err := actorFrom(ctx)
		if err != nil {
			return lifecycle.Result{}, err
		}

		if !hod.IsHod() {
			return lifecycle.Result{}, failure.Forbidden("only the head of department can decide escalated reservations")
		}

		return lifecycle.HodDecide(current, hod, *req.Approved, req.Reason, *env)
	})
}

func (s *serviceImpl) Cancel(ctx context.Context, id string, req dto.CancelRequest) (res dto.ReservationResponse, err error) {
	return s.transition(ctx, id, "Cancel", "cancel", func(_ context.Context, current model.Reservation, env *lifecycle.Env) (lifecycle.Result, error) {
		actor, err := actorFrom(ctx)
		if err != nil {
			return lifecycle.Result{}, err
		}

		return lifecycle.Cancel(current, actor, req.Reason, *env)
	})
}

func (s *serviceImpl) Reschedule(ctx context.Context, id string, req dto.RescheduleRequest) (res dto.ReservationResponse, err error) {
	return s.transition(ctx, id, "Reschedule", "reschedule", func(ctx context.Context, current model.Reservation, env *lifecycle.Env) (lifecycle.Result, error) {
		owner, err := actorFrom(ctx)
		if err != nil {
			return lifecycle.Result{}, err
		}

		target, err := s.loadResource(ctx, current.ResourceID)
		if err != nil {
			return lifecycle.Result{}, err
		}

		existing, err := s.repo.FindOverlapping(ctx, current.ResourceID, req.StartTime, req.EndTime)
		if err != nil {
			return lifecycle.Result{}, fmt.Errorf("failed to find overlapping reservations: %w", err)
		}

		env.Conflicts = blockingConflicts(target, existing, req.StartTime, req.EndTime, current.ID, current.Quantity)

		return lifecycle.Reschedule(current, owner, req.StartTime, req.EndTime, *env)
	})
}

func (s *serviceImpl) RequestExtension(ctx context.Context, id string, req dto.ExtensionRequest) (res dto.ReservationResponse, err error) {
	return s.transition(ctx, id, "RequestExtension", "request extension for", func(ctx context.Context, current model.Reservation, env *lifecycle.Env) (lifecycle.Result, error) {
		requester, err := actorFrom(ctx)
		if err != nil {
			return lifecycle.Result{}, err
		}

		dayStart, dayEnd := clock.DayBounds(env.Now)

		used, err := s.repo.ApprovedExtensionHours(ctx, current.UserID, dayStart, dayEnd)
		if err != nil {
			return lifecycle.Result{}, fmt.Errorf("failed to sum extension hours: %w", err)
		}

		target, err := s.loadResource(ctx, current.ResourceID)
		if err != nil {
			return lifecycle.Result{}, err
		}

		start, end := lifecycle.ExtensionWindow(current, req.Hours)

		existing, err := s.repo.FindOverlapping(ctx, current.ResourceID, start, end)
		if err != nil {
			return lifecycle.Result{}, fmt.Errorf("failed to find overlapping reservations: %w", err)
		}

		env.UsedExtensionHoursToday = used
		env.Conflicts = blockingConflicts(target, existing, start, end, current.ID, current.Quantity)

		return lifecycle.RequestExtension(current, requester, req.Hours, req.Reason, *env)
	})
}

func (s *serviceImpl) DecideExtension(ctx context.Context, id string, req dto.ExtensionDecisionRequest) (res dto.ReservationResponse, err error) {
	return s.transition(ctx, id, "DecideExtension", "decide extension for", func(ctx context.Context, current model.Reservation, env *lifecycle.Env) (lifecycle.Result, error) {
		approver, err := requireAdmin(ctx)
		if err != nil {
			return lifecycle.Result{}, err
		}

		if *req.Approved && current.Extension.Status == model.ExtensionPending {
			dayStart, dayEnd := clock.DayBounds(env.Now)

			used, err := s.repo.ApprovedExtensionHours(ctx, current.UserID, dayStart, dayEnd)
			if err != nil {
				return lifecycle.Result{}, fmt.Errorf("failed to sum extension hours: %w", err)
			}

			env.UsedExtensionHoursToday = used
		}

		return lifecycle.DecideExtension(current, approver, *req.Approved, req.RejectionReason, *env)
	})
}

func (s *serviceImpl) MarkReturned(ctx context.Context, id string, req dto.ReturnRequest) (res dto.ReservationResponse, err error) {
	return s.transition(ctx, id, "MarkReturned", "mark returned", func(_ context.Context, current model.Reservation, env *lifecycle.Env) (lifecycle.Result, error) {
		admin, err := requireAdmin(ctx)
		if err != nil {
			return lifecycle.Result{}, err
		}

		return lifecycle.MarkReturned(current, admin, req.Condition, req.Notes, *env)
	})
}

func (s *serviceImpl) RespondToSuggestion(ctx context.Context, id string, req dto.SuggestionResponseRequest) (res dto.ReservationResponse, err error) {
	return s.transition(ctx, id, "RespondToSuggestion", "respond to suggestion on", func(_ context.Context, current model.Reservation, env *lifecycle.Env) (lifecycle.Result, error) {
		owner, err := actorFrom(ctx)
		if err != nil {
			return lifecycle.Result{}, err
		}

		return lifecycle.RespondToSuggestion(current, owner, *req.Acknowledged, req.Reason, *env)
	})
}

func (s *serviceImpl) SweepCandidates(ctx context.Context, limit int) (ids []string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.SweepCandidates")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	ids, err = s.repo.ListSweepCandidates(ctx, s.clock.Now(), limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to list sweep candidates")

		return nil, fmt.Errorf("failed to list sweep candidates: %w", err)
	}

	return ids, nil
}

// SweepOne applies the time-driven transitions due for one reservation. A
// row locked by a concurrent request is skipped and reported unchanged.
func (s *serviceImpl) SweepOne(ctx context.Context, id string) (changed bool, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation.SweepOne")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	now := s.clock.Now()

	var result lifecycle.Result

	err = s.tx.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		current, err := s.repo.GetForUpdate(ctx, tx, id, true)
		if err != nil {
			return fmt.Errorf("failed to lock reservation: %w", err)
		}

		if current.ID == constant.Empty {
			return nil
		}

		result, changed = lifecycle.Sweep(current, now)
		if !changed {
			return nil
		}

		result.Reservation.Touch(constant.ActorSystem, now)

		return s.persist(ctx, tx, result)
	})
	if err != nil {
		log.Error().Err(err).Str("reservationID", id).Msg("failed to sweep reservation")

		return false, fmt.Errorf("failed to sweep reservation: %w", err)
	}

	if changed {
		s.dispatch(ctx, result)
	}

	return changed, nil
}

// transition runs fn against the row locked for update and persists the
// result with its unit effects in the same transaction. Notifications go out
// only after commit.
func (s *serviceImpl) transition(ctx context.Context, id, operation, verb string, fn transitionFunc) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".reservation."+operation)
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor, err := actorFrom(ctx)
	if err != nil {
		return res, err
	}

	var result lifecycle.Result

	err = s.tx.WithTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		current, err := s.repo.GetForUpdate(ctx, tx, id, false)
		if err != nil {
			return fmt.Errorf("failed to lock reservation: %w", err)
		}

		if current.ID == constant.Empty {
			return failure.NotFound("reservation not found")
		}

		env := s.env()

		result, err = fn(ctx, current, &env)
		if err != nil {
			return err
		}

		result.Reservation.Touch(actor.ID, env.Now)

		return s.persist(ctx, tx, result)
	})
	if err != nil {
		log.Error().Err(err).Str("reservationID", id).Msgf("failed to %s reservation", verb)

		return res, fmt.Errorf("failed to %s reservation: %w", verb, err)
	}

	s.dispatch(ctx, result)
	res.FromModel(result.Reservation)

	return res, nil
}

func (s *serviceImpl) persist(ctx context.Context, tx *sqlx.Tx, result lifecycle.Result) error {
	if err := s.repo.SaveTx(ctx, tx, result.Reservation); err != nil {
		return fmt.Errorf("failed to save reservation: %w", err)
	}

	for _, effect := range result.Effects {
		switch effect.Kind {
		case lifecycle.EffectReserveUnits:
			if err := s.resources.ReserveUnitsTx(ctx, tx, effect.ResourceID, effect.Quantity); err != nil {
				return fmt.Errorf("failed to reserve units: %w", err)
			}
		case lifecycle.EffectReleaseUnits:
			if err := s.resources.ReleaseUnitsTx(ctx, tx, effect.ResourceID, effect.Quantity); err != nil {
				return fmt.Errorf("failed to release units: %w", err)
			}
		}
	}

	return nil
}

// dispatch sends the notifications of a committed transition and drops the
// cached views it made stale.
func (s *serviceImpl) dispatch(ctx context.Context, result lifecycle.Result) {
	messages := result.Messages()
	resourceID := result.Reservation.ResourceID

	go func() {
		c := context.WithoutCancel(ctx)

		s.notifier.Notify(c, messages...)

		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(constant.CachePrefixAvailabilityDay, resourceID))
		shared.InvalidateCaches(c, s.cache, constant.CachePrefixOccupancy)
		shared.InvalidateCaches(c, s.cache, shared.BuildCacheKey(constant.CachePrefixResource, resourceID))
		shared.InvalidateCaches(c, s.cache, constant.CachePrefixResourceGets)
	}()
}

func (s *serviceImpl) env() lifecycle.Env {
	return lifecycle.Env{
		Now:                    s.clock.Now(),
		DailyExtensionCapHours: s.cfg.Reservation.DailyExtensionCapHours,
		AutoApproveRooms:       s.cfg.Reservation.AutoApproveRooms,
	}
}

func (s *serviceImpl) loadResource(ctx context.Context, id string) (resource.Resource, error) {
	target, err := s.resources.Get(ctx, shared.FilterByID(id, resource.FieldID, resource.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get resource")

		return target, fmt.Errorf("failed to get resource: %w", err)
	}

	if target.ID == constant.Empty {
		return target, failure.NotFound("resource not found") // nolint:wrapcheck
	}

	return target, nil
}

func checkBookable(target resource.Resource, r model.Reservation) error {
	switch {
	case r.Kind == model.KindRoomBooking && target.Kind != resource.KindRoom:
		return failure.BadRequestFromString("room bookings must reference a room")
	case r.Kind == model.KindEquipmentRequest && target.Kind != resource.KindEquipment:
		return failure.BadRequestFromString("equipment requests must reference equipment")
	case !target.Bookable():
		return failure.InvalidState("the resource is not available for booking")
	case r.HoldsUnits() && r.Quantity > target.Quantity:
		return failure.BadRequestFromString(fmt.Sprintf("only %d units of %s exist", target.Quantity, target.Name))
	}

	return nil
}

func blockingConflicts(target resource.Resource, existing []model.Reservation, start, end time.Time, excludeID string, quantity int) []string {
	return engine.DemandOf(target, quantity).Blocking(existing, start, end, excludeID)
}

func actorFrom(ctx context.Context) (lifecycle.Actor, error) {
	userID, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	if userID == constant.Empty {
		return lifecycle.Actor{}, failure.Unauthorized("missing user identity") // nolint:wrapcheck
	}

	return lifecycle.Actor{ID: userID, Role: role}, nil
}

func requireAdmin(ctx context.Context) (lifecycle.Actor, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return actor, err
	}

	if !actor.IsAdmin() {
		return actor, failure.Forbidden("only an administrator can perform this action") // nolint:wrapcheck
	}

	return actor, nil
}

func scopeToUser(filter gDto.FilterGroup, userID string) gDto.FilterGroup {
	owner := gDto.Filter{Field: model.FieldUserID, Value: userID, Operator: gDto.FilterOperatorEq, Table: model.TableName}

	if len(filter.Filters) == 0 {
		return gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd, Filters: []any{owner}}
	}

	return gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd, Filters: []any{filter, owner}}
}
