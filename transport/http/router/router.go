package router

import (
	"github.com/go-chi/chi/v5"

	"unires/internal/handlers/availability"
	"unires/internal/handlers/dashboard"
	"unires/internal/handlers/notification"
	"unires/internal/handlers/reservation"
	"unires/internal/handlers/resource"
)

type DomainHandlers struct {
	Resource     resource.Handler
	Reservation  reservation.Handler
	Availability availability.Handler
	Dashboard    dashboard.Handler
	Notification notification.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Resource.Router(routerGroup)
		r.DomainHandlers.Reservation.Router(routerGroup)
		r.DomainHandlers.Availability.Router(routerGroup)
		r.DomainHandlers.Dashboard.Router(routerGroup)
		r.DomainHandlers.Notification.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
