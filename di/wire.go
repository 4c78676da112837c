//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"motel/config"
	"motel/infras/jwt"
	"motel/infras/kafka"
	"motel/infras/otel"
	"motel/infras/postgres"
	"motel/infras/redis"
	"motel/internal/accesscontrol"
	"motel/internal/events"
	"motel/shared/cache"
	"motel/transport/http"
	"motel/transport/http/middleware"
	"motel/transport/http/router"

	authService "motel/internal/domains/auth/service"
	inventoryRepository "motel/internal/domains/inventory/repository"
	inventoryService "motel/internal/domains/inventory/service"
	reservationRepository "motel/internal/domains/reservation/repository"
	reservationService "motel/internal/domains/reservation/service"
	roomRepository "motel/internal/domains/room/repository"
	roomService "motel/internal/domains/room/service"
	roomTypeRepository "motel/internal/domains/roomtype/repository"
	roomTypeService "motel/internal/domains/roomtype/service"
	userRepository "motel/internal/domains/user/repository"
	userService "motel/internal/domains/user/service"

	authHandler "motel/internal/handlers/auth"
	inventoryHandler "motel/internal/handlers/inventory"
	reservationHandler "motel/internal/handlers/reservation"
	roomHandler "motel/internal/handlers/room"
	roomTypeHandler "motel/internal/handlers/roomtype"
	userHandler "motel/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	events.New,
	accesscontrol.New,
)

var authDomain = wire.NewSet(
	userRepository.New,
	authService.New,
)

var userDomain = wire.NewSet(
	userService.New,
)

var roomTypeDomain = wire.NewSet(
	roomTypeRepository.New,
	roomTypeService.New,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomRepository.NewStatusHistory,
	roomService.New,
)

var reservationDomain = wire.NewSet(
	reservationRepository.New,
	reservationService.New,
)

var inventoryDomain = wire.NewSet(
	inventoryRepository.NewCategory,
	inventoryRepository.NewProduct,
	inventoryRepository.NewStockMovement,
	inventoryService.New,
)

var domains = wire.NewSet(
	authDomain,
	userDomain,
	roomTypeDomain,
	roomDomain,
	reservationDomain,
	inventoryDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	roomTypeHandler.New,
	roomHandler.New,
	reservationHandler.New,
	inventoryHandler.New,
	userHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeAuth() authService.Auth {
	wire.Build(
		config.Get,
		postgres.New,
		otel.New,
		jwt.New,
		authDomain,
	)

	return nil
}
