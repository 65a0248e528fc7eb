package router

import (
	"github.com/oksasatya/go-follow-graph/internal/application"
	"github.com/oksasatya/go-follow-graph/internal/container"
	"github.com/oksasatya/go-follow-graph/internal/domain/repository"
	pginfra "github.com/oksasatya/go-follow-graph/internal/infrastructure/postgres"
	"github.com/oksasatya/go-follow-graph/internal/infrastructure/redisstore"
	"github.com/oksasatya/go-follow-graph/internal/infrastructure/search"
	handlers "github.com/oksasatya/go-follow-graph/internal/interface/http"
	"github.com/oksasatya/go-follow-graph/internal/router/modules"
)

type ModuleDeps struct {
	Users       repository.UserRepository
	Service     *application.Service
	UserHandler *handlers.UserHandler
	Friendships *handlers.FriendshipHandler
}

// BuildService assembles the application service from the container singletons.
// Users live in Postgres when a pool is set and USER_STORE=postgres, else in Redis.
func BuildService() (*application.Service, repository.UserRepository) {
	rdb := container.GetRedis()

	var users repository.UserRepository = redisstore.NewUserRepository(rdb)
	if cfg := container.GetConfig(); cfg != nil && cfg.UserStore == "postgres" && container.GetPGPool() != nil {
		users = pginfra.NewUserRepository(container.GetPGPool())
	}

	var index application.UserIndexer
	if es := container.GetES(); es != nil {
		index = search.NewUserIndex(es, container.GetConfig().ESUsersIndex)
	}
	var events application.EventPublisher
	if pub := container.GetRabbitPub(); pub != nil {
		events = pub
	}

	service := application.NewService(
		users,
		redisstore.NewFollowRepository(rdb),
		redisstore.NewTweetCounter(rdb),
		application.NewContextAuthenticator(users),
		index,
		events,
		container.GetLogger(),
	)
	return service, users
}

func buildDeps() ModuleDeps {
	service, users := BuildService()
	return ModuleDeps{
		Users:       users,
		Service:     service,
		UserHandler: handlers.NewUserHandler(service, container.GetLogger()),
		Friendships: handlers.NewFriendshipHandler(service, container.GetLogger()),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	deps := buildDeps()
	r.Add(modules.NewUserModule(deps.UserHandler, container.GetJWT()))
	r.Add(modules.NewFriendshipModule(deps.Friendships, container.GetJWT()))
	if cfg := container.GetConfig(); cfg == nil || cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
