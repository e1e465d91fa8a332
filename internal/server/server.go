package server

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"

	"liveerd/internal/ai"
	"liveerd/internal/config"
	"liveerd/internal/database"
	"liveerd/internal/handlers"
	"liveerd/internal/realtime"
	"liveerd/internal/repositories"
	"liveerd/internal/routes"
	"liveerd/internal/services"
)

// NewServer connects the database, runs migrations, wires the dependency
// graph and returns a configured HTTP server.
func NewServer() *http.Server {
	port, _ := strconv.Atoi(os.Getenv("PORT"))
	if port == 0 {
		port = 8080
	}

	ctx := context.Background()

	pool, err := database.Connect(ctx)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(ctx, pool); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	oauthConfig, err := config.OAuthConfig()
	if err != nil {
		log.Printf("Google OAuth disabled: %v", err)
	}

	var llm ai.LLMClient
	if openaiClient, err := ai.NewOpenAIClient(); err != nil {
		log.Printf("AI generation disabled: %v", err)
	} else {
		llm = openaiClient
	}

	// Dependency injection
	userRepo := repositories.NewUserRepository(pool)
	diagramRepo := repositories.NewDiagramRepository(pool)

	authService := services.NewAuthService(userRepo)
	googleAuthService := services.NewGoogleAuthService(userRepo)
	userService := services.NewUserService(userRepo)
	generator := ai.NewGenerator(llm, logger)
	diagramService := services.NewDiagramService(diagramRepo, generator, logger)

	hub := realtime.NewHub(logger)

	authHandler := handlers.NewAuthHandler(authService)
	googleAuthHandler := handlers.NewGoogleAuthHandler(googleAuthService, oauthConfig)
	userHandler := handlers.NewUserHandler(userService)
	diagramHandler := handlers.NewDiagramHandler(diagramService, userService)
	realtimeHandler := handlers.NewRealtimeHandler(hub, userService, diagramService)

	router := gin.Default()
	router.Use(cors.New(corsConfig()))
	routes.RegisterRoutes(router, authHandler, googleAuthHandler, userHandler, diagramHandler, realtimeHandler)

	// No WriteTimeout: it would kill long-lived websocket connections.
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowOrigins = strings.Split(origins, ",")
	} else {
		cfg.AllowOrigins = []string{"http://localhost:5173"}
	}
	cfg.AllowCredentials = true
	cfg.AddAllowHeaders("Authorization")
	return cfg
}
