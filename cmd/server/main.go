package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"paniervert-be/internal/cart"
	"paniervert-be/internal/catalog"
	"paniervert-be/internal/config"
	"paniervert-be/internal/db"
	"paniervert-be/internal/logger"
	"paniervert-be/internal/order"
	"paniervert-be/internal/transport"
	"paniervert-be/internal/user"
	"paniervert-be/internal/wallet"

	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	catalogRepo := catalog.NewRepository(database)
	catalogSvc := catalog.NewService(catalogRepo)

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo, catalogRepo)

	walletRepo := wallet.NewRepository(database)
	walletSvc := wallet.NewService(walletRepo)

	orderRepo := order.NewRepository(database, walletRepo)
	orderSvc := order.NewService(orderRepo)

	handler := transport.NewHandler(userSvc, catalogSvc, cartSvc, orderSvc, walletSvc)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: handler.Routes(),
	}

	go func() {
		logger.L().Info("server listening", zap.String("port", cfg.AppPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.L().Error("shutdown failed", zap.Error(err))
	}
	logger.L().Info("server stopped")
}
