package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/parkospace/internal/config"
	"github.com/iliyamo/parkospace/internal/database"
	"github.com/iliyamo/parkospace/internal/geocoding"
	"github.com/iliyamo/parkospace/internal/handler"
	"github.com/iliyamo/parkospace/internal/location"
	"github.com/iliyamo/parkospace/internal/middleware"
	"github.com/iliyamo/parkospace/internal/otp"
	"github.com/iliyamo/parkospace/internal/queue"
	"github.com/iliyamo/parkospace/internal/repository"
	"github.com/iliyamo/parkospace/internal/router"
	"github.com/iliyamo/parkospace/internal/service"
)

func main() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := database.Connect(ctx, database.Options{
		DatabaseURL:  cfg.DatabaseURL,
		SQLitePath:   cfg.SQLitePath,
		ProbeTimeout: cfg.DBProbeTimeout,
	})
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer backend.Close()
	if err := database.EnsureSchema(ctx, backend); err != nil {
		log.Fatalf("schema: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb != nil {
		defer rdb.Close()
	}

	var events service.EventPublisher = service.NopPublisher{}
	if cfg.EventsEnabled {
		events = service.NewAMQPPublisher(cfg.AMQPURL)
		go func() {
			if err := queue.StartListingConsumer(ctx, cfg.AMQPURL, cfg.EventLogDir); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("listing-consumer: stopped: %v", err)
			}
		}()
	}

	listingRepo := repository.NewListingRepo(backend)
	ownerRepo := repository.NewOwnerRepo(backend)

	geocoder := geocoding.NewCached(
		geocoding.NewClient(cfg.NominatimURL, cfg.GeocoderUserAgent, cfg.HTTPTimeout),
		rdb, cfg.GeocodeCacheTTL)

	listings := handler.NewListingHandler(
		service.NewNearbyService(listingRepo),
		service.NewListingService(listingRepo, events),
		handler.ProximityDefaults{Lat: cfg.DefaultLat, Lng: cfg.DefaultLng, RadiusKm: cfg.DefaultRadiusKm},
	)
	utilsH := handler.NewUtilsHandler(
		location.NewResolver(location.NewHTTPRedirectFollower(cfg.HTTPTimeout), geocoder),
		location.NewSearcher(geocoder),
	)
	auth := handler.NewAuthHandler(cfg.JWTSecret, cfg.AccessTTLMin,
		otp.NewClient(cfg.OTPServiceURL, cfg.OTPOrganization, cfg.OTPSubject, cfg.HTTPTimeout),
		ownerRepo)

	cacheCfg := config.LoadCacheConfig()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.CORS())

	router.RegisterRoutes(e, backend.Dialect.Name())
	router.RegisterListings(e, listings, handler.NewOwnerHandler(ownerRepo), cfg.JWTSecret,
		middleware.ResponseCache(cacheCfg, rdb), middleware.PurgeOnWrite(cacheCfg, rdb))
	router.RegisterUtils(e, utilsH)
	router.RegisterAuth(e, auth, middleware.TokenBucket(config.LoadRateLimitConfig(), rdb))

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, store=%s)", addr, cfg.Env, backend.Dialect.Name())
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
