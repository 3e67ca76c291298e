package main

import (
	"context"
	"dao-explorer/internal/app"
	"dao-explorer/internal/config"
	"dao-explorer/internal/indexer"
	"dao-explorer/internal/ports/http"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found")
	}
	config.Init()

	logger, err := getLogger(config.GetLogLevel())
	if err != nil {
		log.Fatalln("setting up the logger failed: ", err)
		return
	}
	defer logger.Sync()

	logger.Info("application started", zap.String("network", config.GetNetwork()), zap.String("indexer", config.GetIndexerURL()))

	registry, err := config.LoadRegistry(config.GetRegistryPath())
	if err != nil {
		logger.Fatal("failed to load the dao registry: " + err.Error())
	}
	logger.Debug("dao registry loaded", zap.Int("daos", len(registry.DAOs)))

	client := indexer.NewClient(logger, config.GetIndexerURL(), config.GetNetwork(), config.GetRequestTimeout(), config.GetDaoCacheTTL())
	ser := http.NewServer(logger, app.NewApp(logger, client, registry), config.GetPort())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := ser.Run(); err != nil {
			logger.Error("failed to run the server: " + err.Error())
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := ser.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shut the server down: " + err.Error())
	}

	logger.Info("application finished")
}

func getLogger(level string) (*zap.Logger, error) {
	options := []zap.Option{
		zap.AddCaller(),
		zap.AddStacktrace(zap.FatalLevel),
	}

	atomicLevel, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
	config.Development = true
	config.Level = atomicLevel

	logger, err := config.Build()
	if err != nil {
		return nil, err
	}
	return logger.WithOptions(options...), nil
}
