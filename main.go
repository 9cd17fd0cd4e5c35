package main

import (
	"feedserver/auth"
	"feedserver/config"
	"feedserver/db"
	"feedserver/feed"
	"feedserver/handlers"
	"feedserver/models"
	"feedserver/posts"
	"feedserver/storage"
	"feedserver/utils"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func newPageCache() feed.PageCache {
	ttl := time.Duration(config.FEED_CACHE_TTL) * time.Second
	if config.REDIS_ADDR != "" {
		slog.Info("feed cache", "type", "redis", "addr", config.REDIS_ADDR)
		client := redis.NewClient(&redis.Options{
			Addr:     config.REDIS_ADDR,
			Password: config.REDIS_PASSWORD,
			DB:       config.REDIS_DB,
		})
		return feed.NewRedisCache(client, ttl)
	}
	slog.Info("feed cache", "type", "memory", "ttl", ttl, "max_pages", config.FEED_CACHE_MAX_PAGES)
	return feed.NewMemoryCache(ttl, config.FEED_CACHE_MAX_PAGES)
}

func main() {
	utils.InitLogger(config.DEBUG_MODE)
	db.Init()
	if err := models.Migrate(db.Instance); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
	var images storage.ImageStore
	if store, err := storage.NewFromConfig(); err != nil {
		slog.Error("image storage unavailable, posts will be text only", "error", err)
	} else {
		images = store
	}
	pageCache := newPageCache()
	h := &handlers.Handlers{
		DB:        db.Instance,
		Feed:      feed.NewAssembler(db.Instance, pageCache),
		Posts:     posts.NewService(db.Instance, images, uint(config.IMAGE_MAX_SIZE)),
		PageCache: pageCache,
	}

	if !config.DEBUG_MODE {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	_ = router.SetTrustedProxies([]string{})
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "ETag"},
		AllowCredentials: true,
		MaxAge:           30 * 24 * time.Hour,
	}))
	router.Use(auth.SessionMiddleware(db.Instance, true))
	if !config.DEBUG_MODE {
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{config.MEDIA_URL})))
	}
	router.Use((&utils.CacheRouter{CacheTime: utils.CacheNoCache}).Handler()) // No cache by default, individual end-points can override that
	h.Register(router)
	if config.MEDIA_STORAGE == storage.StorageTypeDisk {
		media := router.Group(config.MEDIA_URL, (&utils.CacheRouter{CacheTime: 86400, Public: true}).Handler())
		media.Static("/", config.MEDIA_DIR)
	}

	var err error
	if config.TLS_DOMAINS != "" {
		err = autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...)
	} else {
		err = router.Run(config.BIND_ADDRESS)
	}
	slog.Error("server stopped", "error", err)
	os.Exit(1)
}
