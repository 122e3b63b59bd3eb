// Package runtime owns the server process lifespan: verify kernels, spawn
// the worker pool, open the cache and rate-limit backings, bind the
// listener; and the reverse on shutdown.
package runtime

import (
	"context"
	"fmt"
	"net/http"
	goruntime "runtime"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/eburns009/ephemeris-service/internal/api"
	"github.com/eburns009/ephemeris-service/internal/ayanamsha"
	"github.com/eburns009/ephemeris-service/internal/cache"
	"github.com/eburns009/ephemeris-service/internal/config"
	"github.com/eburns009/ephemeris-service/internal/geocode"
	"github.com/eburns009/ephemeris-service/internal/kernel"
	"github.com/eburns009/ephemeris-service/internal/pool"
	"github.com/eburns009/ephemeris-service/internal/ratelimit"
	"github.com/eburns009/ephemeris-service/internal/timeresolve"
)

// Runtime wires every component together from a resolved Config and owns
// the start/stop sequence.
type Runtime struct {
	cfg *config.Config
	log *logrus.Logger

	pool       *pool.Pool
	redis      *redis.Client
	httpServer *http.Server
}

// New builds a Runtime from config. It does not start anything yet.
func New(cfg *config.Config, log *logrus.Logger) *Runtime {
	return &Runtime{cfg: cfg, log: log}
}

// Start performs the full lifespan: verify kernels, spawn the worker pool,
// open cache/rate-limit backings, bind the listener. The returned error
// means the server never became ready; Start does not block on serving.
func (rt *Runtime) Start(ctx context.Context) error {
	manifest, err := kernel.LoadManifest(rt.cfg.Kernels.ManifestPath)
	if err != nil {
		return fmt.Errorf("runtime: load kernel manifest: %w", err)
	}
	kernelMgr := kernel.NewManager(manifest)

	bundlesToVerify := []string{"DE440", "DE441"}
	if rt.cfg.Kernels.Bundle != "auto" && rt.cfg.Kernels.Bundle != "" {
		bundlesToVerify = []string{rt.cfg.Kernels.Bundle}
	}
	for _, id := range bundlesToVerify {
		if err := kernelMgr.Verify(id); err != nil {
			rt.log.WithError(err).WithField("bundle", id).Warn("kernel bundle failed verification at startup")
		}
	}

	ayanReg, err := ayanamsha.Load(rt.cfg.Ayanamsha.RegistryPath)
	if err != nil {
		return fmt.Errorf("runtime: load ayanamsha registry: %w", err)
	}

	workerCount := rt.cfg.Worker.Count
	if workerCount <= 0 {
		workerCount = 2 * goruntime.NumCPU() // worker.count=0 means auto: twice the CPU count
	}
	p, err := pool.New(pool.Config{
		WorkerCount:           workerCount,
		QueueSize:             rt.cfg.Worker.QueueSize,
		JobTimeout:            rt.cfg.Worker.JobTimeout,
		MaxReplacementsPerMin: rt.cfg.Worker.MaxReplacementsPerMin,
		WorkerBinaryPath:      "ephemeris-worker",
		BundleID:              rt.cfg.Kernels.Bundle,
	}, rt.log)
	if err != nil {
		return fmt.Errorf("runtime: start worker pool: %w", err)
	}
	rt.pool = p

	var redisClient *redis.Client
	var l2 cache.RemoteCache
	if rt.cfg.Cache.L2URL != "" {
		opts, err := redis.ParseURL(rt.cfg.Cache.L2URL)
		if err != nil {
			return fmt.Errorf("runtime: parse cache.l2_url: %w", err)
		}
		redisClient = redis.NewClient(opts)
		l2 = cache.NewRedisCache(redisClient, "ephemeris:cache:")
		rt.redis = redisClient
	}
	c := cache.New(cache.Config{L1Size: rt.cfg.Cache.L1Size, L1TTL: rt.cfg.Cache.L1TTL, L2TTL: rt.cfg.Cache.L2TTL}, l2)

	var rlRedis *redis.Client
	if rt.cfg.RateLimit.StorageURI != "" {
		opts, err := redis.ParseURL(rt.cfg.RateLimit.StorageURI)
		if err != nil {
			return fmt.Errorf("runtime: parse rate_limit.storage_uri: %w", err)
		}
		rlRedis = redis.NewClient(opts)
	}
	limiter := ratelimit.New(rt.cfg.RateLimit.Rules, rlRedis, rt.cfg.RateLimit.Disabled)

	var patches *timeresolve.PatchTable
	if rt.cfg.TimeResolver.TZPatchPath != "" {
		patches, err = timeresolve.LoadPatchTable(rt.cfg.TimeResolver.TZPatchPath)
		if err != nil {
			return fmt.Errorf("runtime: load tz patch table: %w", err)
		}
	}
	resolver := timeresolve.New(patches, timeresolve.Profile(rt.cfg.TimeResolver.DefaultParityProfile))

	geocoder := geocode.New(rt.cfg.TimeResolver.GeocodeURL)

	server := api.NewServer(api.Deps{
		Log:        rt.log,
		Pool:       p,
		Cache:      c,
		Limiter:    limiter,
		Ayanamsha:  ayanReg,
		Resolver:   resolver,
		Geocoder:   geocoder,
		Kernels:    kernelMgr,
		Manifest:   manifest,
		BundleMode: rt.cfg.Kernels.Bundle,
	})

	rt.httpServer = &http.Server{
		Addr:              rt.cfg.API.Bind,
		Handler:           server.Router(rt.cfg.API.AllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		rt.log.WithField("addr", rt.cfg.API.Bind).Info("listening")
		if err := rt.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			rt.log.WithError(err).Error("http server stopped unexpectedly")
		}
	}()

	return nil
}

// Shutdown drains the pool, closes backings, and stops the listener.
func (rt *Runtime) Shutdown(ctx context.Context) error {
	var firstErr error
	if rt.httpServer != nil {
		if err := rt.httpServer.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("runtime: shutdown http server: %w", err)
		}
	}
	if rt.pool != nil {
		if err := rt.pool.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("runtime: shutdown worker pool: %w", err)
		}
	}
	if rt.redis != nil {
		if err := rt.redis.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("runtime: close cache redis client: %w", err)
		}
	}
	return firstErr
}
