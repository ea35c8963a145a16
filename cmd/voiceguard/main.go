package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"github.com/voiceguard/voiceguard/detection/heuristic"
	"github.com/voiceguard/voiceguard/media"
	"github.com/voiceguard/voiceguard/messages"
	"github.com/voiceguard/voiceguard/server"
	"github.com/voiceguard/voiceguard/store"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

var CommitHash = ""

type config struct {
	APIKey     string `env:"API_KEY" envDefault:"voiceguard-secret-key"`
	ListenAddr string `env:"LISTEN_ADDR" envDefault:"127.0.0.1:8000"`

	PostgresDSN string `env:"POSTGRES_DSN"`

	FFmpegBinary  string `env:"FFMPEG_BINARY" envDefault:"ffmpeg"`
	FFprobeBinary string `env:"FFPROBE_BINARY" envDefault:"ffprobe"`

	MaxAudioBytes      int     `env:"MAX_AUDIO_BYTES" envDefault:"4194304"`
	MaxAudioSeconds    float64 `env:"MAX_AUDIO_SECONDS" envDefault:"600"`
	RateLimitPerMinute int     `env:"RATE_LIMIT_PER_MINUTE" envDefault:"10"`
}

const environmentPrefix = "VOICEGUARD_"
const logLevelEnvKey = environmentPrefix + "LOG_LEVEL"

func createLog() *zap.Logger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = ""

	logLevelValue := os.Getenv(logLevelEnvKey)
	logLevel, logLevelErr := zapcore.ParseLevel(logLevelValue)

	if logLevelErr != nil {
		logLevel = zapcore.InfoLevel
	}

	rawLog := zap.New(zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(os.Stdout),
		logLevel,
	)).Named("voiceguard")

	if CommitHash != "" {
		rawLog = rawLog.With(zap.String("commit", CommitHash))
	}

	if logLevelErr != nil && logLevelValue != "" {
		rawLog.With(zap.String(logLevelEnvKey, logLevelValue)).Warn("unable to parse log level, using INFO")
	}

	return rawLog
}

func main() {
	_ = godotenv.Load()

	parentLogger := createLog()
	defer parentLogger.Sync()

	log := parentLogger.Named("main")
	log.With(zap.String("min_log_level", parentLogger.Level().String())).Info("starting")

	cfg := config{}
	if err := env.ParseWithOptions(&cfg, env.Options{
		Prefix: environmentPrefix,
	}); err != nil {
		log.Fatal("failed to parse config", zap.Error(err))
	}

	ffmpeg := media.NewFFmpeg(
		media.WithFFmpegBinary(cfg.FFmpegBinary),
		media.WithFFprobeBinary(cfg.FFprobeBinary),
		media.WithMaxDuration(cfg.MaxAudioSeconds),
	)

	messageProvider, err := messages.NewMessageProvider()
	if err != nil {
		log.Fatal("failed to create message provider", zap.Error(err))
	}

	var extraOptions []server.ServerExtraOption
	if cfg.PostgresDSN != "" {
		s := store.NewStore(parentLogger)
		if err := s.Connect(context.Background(), cfg.PostgresDSN); err != nil {
			log.Fatal("failed to connect store", zap.Error(err))
		}
		defer s.Close()
		extraOptions = append(extraOptions, server.WithStore(s))
	}

	srv, err := server.NewServer(server.ServerOptions{
		ParentLogger: parentLogger,
		Decoder:      ffmpeg,
		Classifier:   heuristic.NewClassifier(),
		Messages:     messageProvider,

		APIKey:             cfg.APIKey,
		MaxAudioBytes:      cfg.MaxAudioBytes,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	}, extraOptions...)
	if err != nil {
		log.Fatal("failed to create server", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g := errgroup.Group{}

	g.Go(func() error {
		defer cancel()

		return srv.Run(ctx, cfg.ListenAddr)
	})

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-shutdownSignal:
		cancel()
		log.Info("received signal, shutting down")
	case <-ctx.Done():
		log.Info("context done, shutting down")
	}

	err = g.Wait()
	if err != nil {
		log.Fatal("error group error", zap.Error(err))
	}
}
