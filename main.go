package main

import (
	"cancer-support-bot/internal/config"
	"cancer-support-bot/internal/domain/entities"
	Iservices "cancer-support-bot/internal/domain/interfaces/services"
	"cancer-support-bot/internal/infra/handlers"
	"cancer-support-bot/internal/infra/logger"
	"cancer-support-bot/internal/infra/provider"
	"cancer-support-bot/internal/infra/repository"
	"cancer-support-bot/internal/infra/routes"
	"cancer-support-bot/internal/infra/services"
	"cancer-support-bot/internal/middleware"
	client "cancer-support-bot/internal/pkg"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jessevdk/go-flags"
)

type options struct {
	EnvFile string `long:"env-file" description:"Path to a .env file" default:".env"`
	Port    string `long:"port" description:"HTTP port, overrides PORT"`
	LogJSON bool   `long:"log-json" description:"Force JSON log output"`
}

func main() {
	opts := &options{}
	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Println(err)
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	_ = config.LoadEnv(opts.EnvFile)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if opts.Port != "" {
		cfg.Port = opts.Port
	}
	if opts.LogJSON {
		cfg.LogJSON = true
	}

	ctx := context.Background()
	log := logger.NewLogger(ctx, cfg.LogLevel, cfg.LogJSON)

	httpClient := &http.Client{Timeout: cfg.GenerationTimeout}
	generator := provider.NewGeminiProvider(log, httpClient, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL)

	var gateway Iservices.IDispatchGateway
	var infobipHandlers *handlers.InfobipHandlers
	switch cfg.DispatchProvider {
	case config.DispatchProviderInfobip:
		gateway = provider.NewInfobipWhatsAppProvider(log, &http.Client{Timeout: cfg.DispatchTimeout}, cfg.InfobipURL, cfg.InfobipClientID, cfg.InfobipClientSecret, cfg.WhatsAppPhoneNumber)
	default:
		gateway = provider.NewTwilioGateway(log, cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber, cfg.TwilioVoiceNumber)
	}

	promptBuilder := services.NewPromptBuilder(cfg.MaxUtteranceLength)
	queryAIService := services.NewQueryAIService(log, generator, cfg.GenerationTimeout)
	formatter := services.NewResponseFormatter(cfg.VoicePersona, cfg.VoiceLanguage, cfg.GatherTimeout, cfg.SpeechTimeout, cfg.PublicBaseURL+"/voice")
	sessions := services.NewSessionStore(cfg.SessionCapacity, cfg.SessionTTL)

	channelService := services.NewChannelService(log, promptBuilder, queryAIService, formatter, gateway, cfg.DispatchTimeout)
	voiceService := services.NewVoiceService(log, promptBuilder, queryAIService, formatter, sessions, cfg.TerminationPhrases, cfg.GenerationRetryCap, cfg.SilenceRepromptCap)

	if cfg.DispatchProvider == config.DispatchProviderInfobip {
		infobipHandlers = handlers.NewInfobipHandlers(log, channelService)
	}

	var userHandlers *handlers.UserHandlers
	if cfg.MongoURI != "" {
		mongoClient, err := client.MongoClient(ctx, cfg.MongoURI, 10*time.Second)
		if err != nil {
			log.Fatal(fmt.Sprintf("Failed to connect to MongoDB: %s", err))
		}
		defer mongoClient.Disconnect(context.Background())

		userRepo := repository.NewMongoRepository[entities.RegisteredUser](mongoClient.Database(cfg.MongoDatabase))
		userService := services.NewUserService(userRepo, gateway, log, cfg.DefaultRegion)
		if err := userService.EnsureIndexes(ctx); err != nil {
			log.Fatal(fmt.Sprintf("Failed to create user indexes: %s", err))
		}
		userHandlers = handlers.NewUserHandlers(log, userService)
	} else {
		log.Warn("MONGODB_URI is not set, registration routes are disabled")
	}

	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware(log))

	routes := routes.NewRoutes(
		router,
		handlers.NewHttpHandlers(log, channelService, voiceService, cfg.ChatDispatchMode),
		handlers.NewDispatchHandlers(log, gateway, cfg.PublicBaseURL, cfg.DispatchTimeout),
		infobipHandlers,
		userHandlers,
	)

	routes.Init()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info(fmt.Sprintf("Server is running on port %s", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(fmt.Sprintf("Error running HTTP server: %s", err))
			os.Exit(1)
		}
	}()

	<-stop
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(fmt.Sprintf("Server forced to shutdown: %v", err))
	} else {
		log.Info("Server stopped gracefully.")
	}
}
