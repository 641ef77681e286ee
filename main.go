package main

import (
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/MicahParks/keyfunc"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"kanban-api/api"
	"kanban-api/config"
	"kanban-api/storage"
	"kanban-api/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	store, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer store.Close()

	repos := store.Repositories()
	if cfg.RedisConnectionString != "" {
		rc := redis.NewClient(redisOptions(cfg.RedisConnectionString))
		repos.Boards = storage.NewBoardCache(store.Boards, rc, cfg.CacheTTL)
		defer rc.Close()
	}

	var auth *api.Auth
	var issuer api.TokenIssuer
	if cfg.LocalAuthSecret != "" {
		auth, err = api.NewAuth(api.AuthOptions{
			LocalSecret: []byte(cfg.LocalAuthSecret),
			Audience:    cfg.Auth0Audience,
			TokenTTL:    cfg.TokenTTL,
		})
		if err != nil {
			log.Fatalf("auth: %v", err)
		}
		issuer = auth
	} else {
		jwksURL := fmt.Sprintf("https://%s/.well-known/jwks.json", cfg.Auth0Domain)
		jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{})
		if err != nil {
			log.Fatalf("jwks: %v", err)
		}
		auth, err = api.NewAuth(api.AuthOptions{
			JWKS:     jwks,
			Audience: cfg.Auth0Audience,
			Issuer:   "https://" + cfg.Auth0Domain + "/",
		})
		if err != nil {
			log.Fatalf("auth: %v", err)
		}
	}

	svc := usecase.New(repos, usecase.UUIDGenerator{}, usecase.UTCClock{}, usecase.BcryptHasher{})

	e := echo.New()
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(api.GzipRequestMiddleware())

	logger := log.New()
	api.Register(e, svc, auth, issuer, logger)

	e.Logger.Fatal(e.Start(cfg.ListenAddr))
}

// redisOptions accepts either a redis URL or the comma-separated
// "host:port,password=...,ssl=true" form some managed providers hand out.
func redisOptions(conn string) *redis.Options {
	opts, err := redis.ParseURL(conn)
	if err == nil {
		return opts
	}
	parts := strings.Split(conn, ",")
	opts = &redis.Options{Addr: parts[0]}
	for _, p := range parts[1:] {
		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch strings.ToLower(kv[0]) {
		case "password":
			opts.Password = kv[1]
		case "ssl":
			if strings.ToLower(kv[1]) == "true" {
				opts.TLSConfig = &tls.Config{}
			}
		}
	}
	return opts
}
