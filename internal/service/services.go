package service

import (
	"github.com/JulianVillasenor/restaurante/internal/repository"
	redisrepo "github.com/JulianVillasenor/restaurante/internal/repository/redis"
	"github.com/JulianVillasenor/restaurante/internal/service/admin"
	"github.com/JulianVillasenor/restaurante/internal/service/floor"
	"github.com/JulianVillasenor/restaurante/internal/service/orders"
	"github.com/JulianVillasenor/restaurante/internal/uow"
)

type Services struct {
	Orders *orders.Service
	Floor  *floor.Service
	Admin  *admin.Service
}

type Config struct {
	Floor floor.Config
}

func NewServices(
	store repository.Store,
	co uow.Coordinator,
	cache *redisrepo.Cache,
	pubsub *redisrepo.TablesPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	cfg Config,
) *Services {
	return &Services{
		Orders: orders.New(store, co, cache, pubsub, limiter),
		Floor:  floor.New(store, cache, cfg.Floor),
		Admin:  admin.New(store, co, cache, pubsub),
	}
}
