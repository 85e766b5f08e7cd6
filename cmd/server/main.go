package main

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/lib/pq"

	"github.com/go-shopfront/shopfront/pkg/configpkg"
	"github.com/go-shopfront/shopfront/pkg/dbpkg"
	"github.com/go-shopfront/shopfront/pkg/randompkg"
	"github.com/go-shopfront/shopfront/pkg/tokenpkg"

	"github.com/go-shopfront/shopfront/internal/accountrepo"
	"github.com/go-shopfront/shopfront/internal/accountstore"
	"github.com/go-shopfront/shopfront/internal/bonusdelivery"
	"github.com/go-shopfront/shopfront/internal/bonusservice"
	"github.com/go-shopfront/shopfront/internal/cartdelivery"
	"github.com/go-shopfront/shopfront/internal/cartservice"
	"github.com/go-shopfront/shopfront/internal/catalogrepo"
	"github.com/go-shopfront/shopfront/internal/catalogservice"
	"github.com/go-shopfront/shopfront/internal/itemdelivery"
	"github.com/go-shopfront/shopfront/internal/middleware"
	"github.com/go-shopfront/shopfront/internal/pricing"
	"github.com/go-shopfront/shopfront/internal/sessiondelivery"
	"github.com/go-shopfront/shopfront/internal/sessionrepo"
	"github.com/go-shopfront/shopfront/internal/sessionservice"
	"github.com/go-shopfront/shopfront/internal/userdelivery"
	"github.com/go-shopfront/shopfront/internal/userrepo"
	"github.com/go-shopfront/shopfront/internal/userservice"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.GetLogger(config)

	conn, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to db")
	}

	server, err := createServer(conn, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	err = server.Run(config.ServerAddress)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}

func createServer(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*gin.Engine, error) {
	userRepo := userrepo.NewRepoPGS(conn)
	accountRepo := accountrepo.NewRepoPGS(conn)
	catalogRepo := catalogrepo.NewRepoPGS(conn)
	sessionRepo := sessionrepo.NewRepoPGS(conn)

	tokenMaker, err := tokenpkg.NewPasetoMaker(config.TokenSymmetricKey)
	if err != nil {
		return nil, errors.New("cannot create token maker")
	}

	catalogService, err := catalogservice.New(catalogRepo, config.ItemCacheSize)
	if err != nil {
		return nil, errors.New("cannot initialize catalog service")
	}

	accountStore := accountstore.New(accountRepo, catalogService, config.AccountLockTimeout)

	userService := userservice.New(userRepo, accountStore)
	cartService := cartservice.New(accountStore)
	bonusService := bonusservice.New(accountStore, catalogService)

	sessionService, err := sessionservice.New(sessionRepo, config, tokenMaker)
	if err != nil {
		return nil, errors.New("cannot initialize session service")
	}

	rng := randompkg.NewLockedRand(time.Now().UnixNano())
	pricingEngine := pricing.New()

	ctx := logger.WithContext(context.Background())

	stores, err := catalogService.ListStores(ctx)
	if err != nil {
		return nil, errors.New("cannot list stores")
	}

	store, err := catalogservice.ChooseStore(stores, rng)
	if err != nil {
		return nil, errors.New("cannot choose store")
	}

	logger.Info().Int32("store_id", store.ID).Str("store", store.Name).Msg("storefront chosen")

	userHandler := userdelivery.NewHandler(userService, sessionService)
	itemHandler := itemdelivery.NewHandler(catalogService, pricingEngine, rng)
	cartHandler := cartdelivery.NewHandler(cartService, catalogService, pricingEngine, rng)
	bonusHandler := bonusdelivery.NewHandler(bonusService, rng)
	sessionHandler := sessiondelivery.NewHandler(sessionService)

	gin.SetMode(gin.ReleaseMode)
	server := gin.New()

	server.Use(middleware.RequestLogger(logger))
	server.Use(gin.Recovery())

	server.POST("/users", userHandler.Create)
	server.POST("/users/login", userHandler.Login)
	server.POST("/sessions", sessionHandler.RenewAccessToken)

	server.GET("/items/:id", itemHandler.Get)

	authRoutes := server.Group("/").Use(middleware.AuthMiddleware(sessionService.TokenMaker))

	authRoutes.GET("/cart", cartHandler.Get)
	authRoutes.POST("/cart/lines", cartHandler.AddLine)
	authRoutes.DELETE("/cart/lines/:item_id", cartHandler.RemoveLine)

	authRoutes.POST("/bonus", bonusHandler.Grant)

	return server, nil
}
