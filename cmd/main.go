// Package main runs the wallet server: accounts, wallets, movements and investments.
package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/go-petr/pet-wallet/cmd/httpserver"
	"github.com/go-petr/pet-wallet/internal/livefeed"
	"github.com/go-petr/pet-wallet/internal/middleware"
	"github.com/go-petr/pet-wallet/pkg/configpkg"
	"github.com/go-petr/pet-wallet/pkg/dbpkg"

	_ "github.com/lib/pq"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to database")
	}
	defer db.Close()

	var broker livefeed.Broker
	if config.RedisURL != "" {
		broker, err = livefeed.NewRedisBroker(ctx, config.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("cannot connect to redis")
		}
	} else {
		broker = livefeed.NewMemoryBroker()
	}
	defer broker.Close()

	server, err := httpserver.New(db, broker, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	ln, err := net.Listen("tcp", config.ServerAddress)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot listen")
	}

	logger.Info().Str("address", config.ServerAddress).Msg("WALLET SERVER HAS STARTED")

	if err := server.Serve(ctx, ln, config.ShutdownTimeout); err != nil {
		logger.Error().Err(err).Msg("server stopped with error")
	}
}
