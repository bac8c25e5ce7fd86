package di

import (
	"context"
	"fmt"

	goredis "github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"cinematix/api"
	cineapi "cinematix/api/cinematix"
	"cinematix/api/wikidata"
	"cinematix/config"
	"cinematix/dao/redis"
	"cinematix/db"
	"cinematix/models"
	"cinematix/server"
	"cinematix/server/handlers"
	services "cinematix/service"
)

// Container holds all application dependencies.
type Container struct {
	Config              *config.Config
	Log                 *zap.Logger
	KVClient            db.KeyValueClient
	ResponseCacheDAO    *redis.ResponseCacheDAO
	PreferenceDAO       *redis.PreferenceDAO
	CinematixAPI        cineapi.API
	WikidataAPI         wikidata.API
	Engine              *services.Engine
	TodayService        *services.TodayService
	ShowtimeHandler     *handlers.ShowtimeHandler
	SearchHandler       *handlers.SearchHandler
	PreferenceHandler   *handlers.PreferenceHandler
	MuxRouter           *mux.Router
	Router              *server.Router
	CinematixHttpServer *server.CinematixHttpServer
}

// NewContainer initializes and wires up all dependencies. Outside production
// the showtimes API and the key-value store are replaced with fixtures so the
// whole pipeline runs offline.
func NewContainer(cfg *config.Config, log *zap.Logger) (*Container, error) {
	log.Info("initializing container", zap.String("env", cfg.App.Environment))

	var kvClient db.KeyValueClient
	if cfg.IsProduction() {
		redisInternalClient := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		client := db.NewRedisKVClient(redisInternalClient)
		if err := client.Ping(context.Background()); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		kvClient = client
	} else {
		log.Info("using in-memory key-value store")
		kvClient = db.NewMockKVClient()
	}

	responseCacheDao := redis.NewResponseCacheDAO(kvClient, cfg.API.CacheTTL)
	preferenceDao := redis.NewPreferenceDAO(kvClient)

	var cinematixAPI cineapi.API
	if cfg.IsProduction() {
		cinematixAPI = cineapi.NewClient(api.NewHTTPClient(cfg.API.BaseURL), models.DefaultQuery())
	} else {
		log.Info("using fixture-backed showtimes api")
		cinematixAPI = cineapi.NewClientMock()
	}

	wikidataAPI := wikidata.NewClient(api.NewHTTPClient(cfg.Search.BaseURL))

	engine := &services.Engine{
		API:         cinematixAPI,
		Wikidata:    wikidataAPI,
		Cache:       responseCacheDao,
		Previews:    cfg.API.Previews,
		Concurrency: cfg.API.PriceConcurrency,
		Debounce:    cfg.Search.Debounce,
		Log:         log,
	}

	todayService, err := services.NewTodayService(engine.Broadcast, log)
	if err != nil {
		return nil, err
	}

	showtimeHandler := handlers.NewShowtimeHandler(engine, log)
	searchHandler := handlers.NewSearchHandler(wikidataAPI, log)
	preferenceHandler := handlers.NewPreferenceHandler(preferenceDao, log)

	muxRouter := mux.NewRouter()
	router := server.NewRouter(showtimeHandler, searchHandler, preferenceHandler, muxRouter)
	httpServer := server.NewCinematixHttpServer(router, muxRouter, cfg.Server.Addr(), log)

	return &Container{
		Config:              cfg,
		Log:                 log,
		KVClient:            kvClient,
		ResponseCacheDAO:    responseCacheDao,
		PreferenceDAO:       preferenceDao,
		CinematixAPI:        cinematixAPI,
		WikidataAPI:         wikidataAPI,
		Engine:              engine,
		TodayService:        todayService,
		ShowtimeHandler:     showtimeHandler,
		SearchHandler:       searchHandler,
		PreferenceHandler:   preferenceHandler,
		MuxRouter:           muxRouter,
		Router:              router,
		CinematixHttpServer: httpServer,
	}, nil
}
