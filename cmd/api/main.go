package main

import (
	"context"
	"os"
	"runtime"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/nutripraxis/nutripraxis-api/internal/ai"
	"github.com/nutripraxis/nutripraxis-api/internal/config"
	"github.com/nutripraxis/nutripraxis-api/internal/db"
	"github.com/nutripraxis/nutripraxis-api/internal/logger"
	"github.com/nutripraxis/nutripraxis-api/internal/router"
	"go.uber.org/zap"
)

// init is called before the main function.
func init() {
	// Initialize structured logger (dev mode if GIN_MODE != release)
	isDev := os.Getenv("GIN_MODE") != "release"
	logger.Init(isDev)

	if isDev {
		// Best effort; production reads real env vars.
		_ = godotenv.Load()
	}

	// Configure the runtime
	ConfigureRuntime()
}

// Entry point for the API.
func main() {
	defer logger.Sync()

	// Load the config
	var cfg *config.Config
	if c, err := config.LoadConfig(); err != nil {
		logger.Get().Fatal("failed to load config", zap.Error(err))
	} else {
		cfg = c
	}

	// Check that all ENV variables are set
	if err := cfg.CheckConfigEnvFields(); err != nil {
		logger.Get().Fatal("missing required config fields", zap.Error(err))
	}

	// Load prompts from YAML
	prompts, err := config.LoadPrompts("configs/prompts.yaml")
	if err != nil {
		logger.Get().Fatal("failed to load prompts", zap.Error(err))
	}
	cfg.Prompts = prompts

	// Build the provider registry from whichever credentials are set
	providers, err := buildProviderRegistry(context.Background(), cfg)
	if err != nil {
		logger.Get().Fatal("failed to initialize AI providers", zap.Error(err))
	}
	logger.Get().Info("AI providers configured", zap.Strings("providers", providers.Available()))

	// Connect to the database
	database, err := db.New(cfg)
	if err != nil {
		logger.Get().Fatal("failed to connect to database", zap.Error(err))
	}
	sqlDB, err := database.DB()
	if err != nil {
		logger.Get().Fatal("failed to get underlying sql.DB", zap.Error(err))
	}
	defer sqlDB.Close()

	// Create a new gin router
	gin.SetMode(gin.ReleaseMode)
	r := router.SetupRouter(cfg, database, providers)

	// Run the server
	logger.Get().Info("starting server", zap.String("port", cfg.EnvVars.Port))
	r.Run(":" + cfg.EnvVars.Port)
}

// buildProviderRegistry constructs one caller per configured credential.
func buildProviderRegistry(ctx context.Context, cfg *config.Config) (*ai.Registry, error) {
	var providers []ai.ChatProvider

	if cfg.EnvVars.GeminiAPIKey != "" {
		gemini, err := ai.NewGeminiProvider(ctx, cfg.EnvVars.GeminiAPIKey)
		if err != nil {
			return nil, err
		}
		providers = append(providers, gemini)
	}
	if cfg.EnvVars.OpenAIAPIKey != "" {
		providers = append(providers, ai.NewOpenAIProvider(cfg.EnvVars.OpenAIAPIKey))
	}
	if cfg.EnvVars.DeepSeekAPIKey != "" {
		providers = append(providers, ai.NewDeepSeekProvider(cfg.EnvVars.DeepSeekAPIKey))
	}

	return ai.NewRegistry(providers...), nil
}

// ConfigureRuntime sets the number of operating system threads.
func ConfigureRuntime() {
	nuCPU := runtime.NumCPU()
	runtime.GOMAXPROCS(nuCPU)
	logger.Get().Info("runtime configured", zap.Int("cpus", nuCPU))
}
