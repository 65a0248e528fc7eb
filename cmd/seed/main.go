package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-follow-graph/config"
	"github.com/oksasatya/go-follow-graph/internal/application"
	"github.com/oksasatya/go-follow-graph/internal/container"
	"github.com/oksasatya/go-follow-graph/internal/domain/entity"
	pginfra "github.com/oksasatya/go-follow-graph/internal/infrastructure/postgres"
	"github.com/oksasatya/go-follow-graph/internal/infrastructure/redisstore"
	"github.com/oksasatya/go-follow-graph/internal/router"
	"github.com/oksasatya/go-follow-graph/pkg/helpers"
)

var demoUsers = []struct {
	user   entity.User
	tweets int64
}{
	{entity.User{Login: "jdubois", Email: "jdubois@ippon.fr", FirstName: "Julien", LastName: "Dubois"}, 2},
	{entity.User{Login: "uuser", Email: "uuser@ippon.fr", FirstName: "Update", LastName: "User"}, 0},
	{entity.User{Login: "userWhoFollow", Email: "userWhoFollow@ippon.fr", FirstName: "Follow", LastName: "Er"}, 0},
	{entity.User{Login: "userWhoIsFollowed", Email: "userWhoIsFollowed@ippon.fr", FirstName: "Follow", LastName: "Ed"}, 1},
}

var demoFollows = [][2]string{
	{"userWhoFollow", "userWhoIsFollowed"},
	{"userWhoFollow", "jdubois"},
	{"uuser", "jdubois"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)
	ctx := context.Background()

	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()
	if err := helpers.PingRedis(ctx, rdb); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetRedis(rdb)

	if cfg.UserStore == "postgres" {
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		container.SetPGPool(pool)
	}

	svc, _ := router.BuildService()
	tweets := redisstore.NewTweetCounter(rdb)
	jwt := helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.AccessTTL, cfg.AppName)

	for _, d := range demoUsers {
		u := d.user
		// update is an upsert, so re-running the seed is safe
		if err := svc.UpdateUser(ctx, &u); err != nil {
			log.Fatalf("failed to seed user %s: %v", u.Login, err)
		}
		current, err := tweets.TweetCountOf(ctx, u.Login)
		if err != nil {
			log.Fatalf("failed to read tweet count of %s: %v", u.Login, err)
		}
		if d.tweets > current {
			if _, err := tweets.Add(ctx, u.Login, d.tweets-current); err != nil {
				log.Fatalf("failed to seed tweets of %s: %v", u.Login, err)
			}
		}
		token, exp, err := jwt.GenerateAccessToken(u.Login)
		if err != nil {
			log.Fatalf("failed to issue token for %s: %v", u.Login, err)
		}
		fmt.Printf("seeded user: login=%s email=%s token=%s (expires %s)\n", u.Login, u.Email, token, exp.Format("2006-01-02 15:04"))
	}

	for _, f := range demoFollows {
		if err := svc.FollowUser(application.WithLogin(ctx, f[0]), f[1]); err != nil {
			log.Fatalf("failed to seed follow %s -> %s: %v", f[0], f[1], err)
		}
		fmt.Printf("seeded follow: %s -> %s\n", f[0], f[1])
	}
}
