// Package httpserver manages server creation and api routing.
package httpserver

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/go-petr/pet-wallet/internal/geocode"
	"github.com/go-petr/pet-wallet/internal/investmentdelivery"
	"github.com/go-petr/pet-wallet/internal/investmentrepo"
	"github.com/go-petr/pet-wallet/internal/investmentservice"
	"github.com/go-petr/pet-wallet/internal/livefeed"
	"github.com/go-petr/pet-wallet/internal/locationdelivery"
	"github.com/go-petr/pet-wallet/internal/middleware"
	"github.com/go-petr/pet-wallet/internal/movementdelivery"
	"github.com/go-petr/pet-wallet/internal/movementrepo"
	"github.com/go-petr/pet-wallet/internal/movementservice"
	"github.com/go-petr/pet-wallet/internal/navigation"
	"github.com/go-petr/pet-wallet/internal/pagedelivery"
	"github.com/go-petr/pet-wallet/internal/sessiondelivery"
	"github.com/go-petr/pet-wallet/internal/sessionrepo"
	"github.com/go-petr/pet-wallet/internal/sessionservice"
	"github.com/go-petr/pet-wallet/internal/userdelivery"
	"github.com/go-petr/pet-wallet/internal/userrepo"
	"github.com/go-petr/pet-wallet/internal/userservice"
	"github.com/go-petr/pet-wallet/internal/walletdelivery"
	"github.com/go-petr/pet-wallet/internal/walletrepo"
	"github.com/go-petr/pet-wallet/internal/walletservice"
	"github.com/go-petr/pet-wallet/pkg/configpkg"
	"github.com/go-petr/pet-wallet/pkg/currencypkg"
	"github.com/go-petr/pet-wallet/pkg/errorspkg"
	"github.com/go-petr/pet-wallet/pkg/tokenpkg"
	"github.com/go-petr/pet-wallet/pkg/web"
)

// Server holds db connection, live broker, handlers router and configuration.
type Server struct {
	DB         *sql.DB
	Broker     livefeed.Broker
	Engine     *gin.Engine
	Config     configpkg.Config
	TokenMaker tokenpkg.Maker
	Logger     zerolog.Logger
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, broker livefeed.Broker, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	if err := registerValidators(); err != nil {
		return nil, err
	}

	tokenMaker, err := tokenpkg.New(config.TokenType, config.TokenSymmetricKey)
	if err != nil {
		return nil, errors.New("cannot create token maker")
	}

	userRepo := userrepo.NewRepoPGS(conn)
	sessionRepo := sessionrepo.NewRepoPGS(conn)
	walletRepo := walletrepo.NewRepoPGS(conn)
	movementRepo := movementrepo.NewRepoPGS(conn)
	investmentRepo := investmentrepo.NewRepoPGS(conn)

	geocoder := geocode.New(config)

	userService := userservice.New(userRepo)
	sessionService, err := sessionservice.New(sessionRepo, config, tokenMaker, broker)
	if err != nil {
		return nil, errors.New("cannot initialize session service")
	}
	walletService := walletservice.New(walletRepo, broker)
	movementService := movementservice.New(movementRepo, broker, geocoder)
	investmentService := investmentservice.New(investmentRepo, broker)

	userHandler := userdelivery.NewHandler(userService, sessionService, broker)
	sessionHandler := sessiondelivery.NewHandler(sessionService)
	walletHandler := walletdelivery.NewHandler(walletService)
	movementHandler := movementdelivery.NewHandler(movementService, walletService)
	investmentHandler := investmentdelivery.NewHandler(investmentService)
	locationHandler := locationdelivery.NewHandler(geocoder)
	pageHandler := pagedelivery.NewHandler(walletService, movementHandler, investmentService)

	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))

	engine.GET("/healthz", func(gctx *gin.Context) {
		if err := conn.PingContext(gctx.Request.Context()); err != nil {
			zerolog.Ctx(gctx.Request.Context()).Error().Err(err).Msg("database is unreachable")
			gctx.JSON(http.StatusServiceUnavailable, web.Error(errorspkg.ErrInternal))

			return
		}

		gctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := engine.Group("/api/auth")
	auth.POST("/signup", userHandler.SignUp)
	auth.POST("/signin", userHandler.SignIn)
	auth.POST("/signout", sessionHandler.SignOut)
	auth.POST("/renew", sessionHandler.RenewAccessToken)

	api := engine.Group("/api", middleware.AuthMiddleware(tokenMaker))

	api.GET("/auth/identity", userHandler.Identity)
	api.GET("/auth/identity/stream", userHandler.IdentityStream)

	api.POST("/wallets", walletHandler.Create)
	api.GET("/wallets", walletHandler.List)
	api.GET("/wallets/stream", walletHandler.Stream)
	api.GET("/wallets/:id", walletHandler.Get)

	api.POST("/movements", movementHandler.Create)
	api.POST("/movements/unscoped", movementHandler.CreateUnscoped)
	api.GET("/movements", movementHandler.View)
	api.GET("/movements/stream", movementHandler.Stream)

	api.POST("/investments", investmentHandler.Create)
	api.GET("/investments", investmentHandler.List)
	api.GET("/investments/stream", investmentHandler.Stream)

	api.GET("/locations/reverse", locationHandler.Reverse)

	pages := engine.Group("/", middleware.OptionalAuth(tokenMaker))
	for _, path := range []string{
		navigation.Login,
		navigation.Dashboard,
		navigation.Movements,
		navigation.Setup,
		navigation.Investments,
	} {
		pages.GET(path, pageHandler.Serve)
	}

	engine.NoRoute(middleware.OptionalAuth(tokenMaker), pageHandler.Serve)

	server := &Server{
		DB:         conn,
		Broker:     broker,
		Engine:     engine,
		Config:     config,
		TokenMaker: tokenMaker,
		Logger:     logger,
	}

	return server, nil
}

// Serve serves requests on ln until ctx is done and then shuts the server
// down, waiting at most shutdownTimeout for handlers to return.
//
// Request contexts are cancelled when shutdown starts, so open event streams
// end and release their subscriptions instead of holding shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener, shutdownTimeout time.Duration) error {
	base, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()

	srv := &http.Server{
		Handler:     s,
		BaseContext: func(net.Listener) context.Context { return base },
	}
	srv.RegisterOnShutdown(cancelBase)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.Logger.Info().Msg("shutting down server")

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func registerValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}

	if err := v.RegisterValidation("currency", currencypkg.ValidCurrency); err != nil {
		return errors.New("cannot register currency validator")
	}

	if err := v.RegisterValidation("walletkind", walletdelivery.ValidWalletKind); err != nil {
		return errors.New("cannot register wallet kind validator")
	}

	if err := v.RegisterValidation("movementkind", movementdelivery.ValidMovementKind); err != nil {
		return errors.New("cannot register movement kind validator")
	}

	return nil
}
