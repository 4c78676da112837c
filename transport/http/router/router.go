package router

import (
	"github.com/go-chi/chi/v5"

	"motel/internal/handlers/auth"
	"motel/internal/handlers/inventory"
	"motel/internal/handlers/reservation"
	"motel/internal/handlers/room"
	"motel/internal/handlers/roomtype"
	"motel/internal/handlers/user"
	"motel/transport/http/middleware"
)

type DomainHandlers struct {
	Auth        auth.Handler
	RoomType    roomtype.Handler
	Room        room.Handler
	Reservation reservation.Handler
	Inventory   inventory.Handler
	User        user.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	Middleware     middleware.Auth
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Auth.PublicRouter(routerGroup)

		routerGroup.Group(func(protected chi.Router) {
			protected.Use(r.Middleware.APIKey)
			protected.Use(r.Middleware.Auth)

			r.DomainHandlers.Auth.Router(protected)
			r.DomainHandlers.RoomType.Router(protected)
			r.DomainHandlers.Room.Router(protected)
			r.DomainHandlers.Reservation.Router(protected)
			r.DomainHandlers.Inventory.Router(protected)
			r.DomainHandlers.User.Router(protected)
		})
	})
}

func New(domainHandlers DomainHandlers, authMiddleware middleware.Auth) Router {
	return Router{
		DomainHandlers: domainHandlers,
		Middleware:     authMiddleware,
	}
}
