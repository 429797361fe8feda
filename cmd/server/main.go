package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"authsystem/internal/api"
	"authsystem/internal/app/service"
	"authsystem/internal/common/security"
	"authsystem/internal/domain/repository"
	"authsystem/internal/platform/config"
	"authsystem/internal/platform/database"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")
	fmt.Println("Environment:", config.AppConfig.AppEnv)

	// 2. Initialize JWT. Refusing to start without a secret keeps the token
	// service fail-closed.
	if err := security.InitJWT(); err != nil {
		log.Fatalf("JWT initialization failed: %v", err)
	}
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()

	if err := database.Migrate(context.Background()); err != nil {
		log.Fatalf("Migrations failed: %v", err)
	}
	fmt.Println("Database ready.")

	// 4. Initialize Repositories & Services
	userRepo := repository.NewPgUserRepository(database.DB)
	authService := service.NewAuthService(userRepo)

	// 5. Initialize Router & HTTP Server
	router := api.NewRouter(authService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 6. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
