// Package server exposes the voice detection API over HTTP.
package server

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/voiceguard/voiceguard/detection"
	"github.com/voiceguard/voiceguard/messages"
	"github.com/voiceguard/voiceguard/store"
	"github.com/voiceguard/voiceguard/utils"
	"go.uber.org/zap"
)

const DefaultMaxAudioBytes = 1024 * 1024 * 4
const DefaultRateLimitPerMinute = 10

type Server struct {
	log *zap.Logger
	app *fiber.App

	apiKey             string
	maxAudioBytes      int
	rateLimitPerMinute int

	decoder    detection.AudioDecoder
	classifier detection.VoiceClassifier
	messages   *messages.MessageProvider

	store *store.Store
}

type ServerOptions struct {
	ParentLogger *zap.Logger
	Decoder      detection.AudioDecoder
	Classifier   detection.VoiceClassifier
	Messages     *messages.MessageProvider

	APIKey             string
	MaxAudioBytes      int
	RateLimitPerMinute int
}

type ServerExtraOption func(*Server)

// WithStore enables detection history: results get recorded and the
// listing route is mounted.
func WithStore(st *store.Store) ServerExtraOption {
	return func(s *Server) {
		s.store = st
	}
}

func NewServer(options ServerOptions, extraOptions ...ServerExtraOption) (*Server, error) {
	if options.APIKey == "" {
		return nil, fmt.Errorf("api key must be configured")
	}
	if options.Decoder == nil {
		return nil, fmt.Errorf("audio decoder must be configured")
	}
	if options.Classifier == nil {
		return nil, fmt.Errorf("classifier must be configured")
	}
	if options.Messages == nil {
		return nil, fmt.Errorf("message provider must be configured")
	}

	s := &Server{
		log: options.ParentLogger.Named("server"),

		apiKey:             options.APIKey,
		maxAudioBytes:      options.MaxAudioBytes,
		rateLimitPerMinute: options.RateLimitPerMinute,

		decoder:    options.Decoder,
		classifier: options.Classifier,
		messages:   options.Messages,
	}
	if s.maxAudioBytes <= 0 {
		s.maxAudioBytes = DefaultMaxAudioBytes
	}
	if s.rateLimitPerMinute <= 0 {
		s.rateLimitPerMinute = DefaultRateLimitPerMinute
	}

	for _, option := range extraOptions {
		option(s)
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "Voice Guard API",
		DisableStartupMessage: true,
		// Base64 inflates the payload by a third, plus the JSON envelope;
		// oversized audio itself is rejected with a proper 400 in the
		// handler, so the transport limit stays comfortably above it.
		BodyLimit: s.maxAudioBytes*2 + 1024*1024,
	})
	s.routes()

	return s, nil
}

func (s *Server) routes() {
	s.app.Use(s.requestContext)

	s.app.Get("/", s.handleHome)
	s.app.Get("/docs", s.handleDocs)

	s.app.Post("/api/voice-detection", s.rateLimiter(), s.requireAPIKey, s.handleVoiceDetection)
	if s.store != nil {
		s.app.Get("/api/detections", s.requireAPIKey, s.handleRecentDetections)
	}
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	listenErr := make(chan error, 1)
	go func() {
		defer utils.PanicRecovery(s.log)

		listenErr <- s.app.Listen(addr)
	}()

	s.log.With(zap.String("addr", addr)).Info("listening")

	select {
	case err := <-listenErr:
		if err != nil {
			return fmt.Errorf("listening: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	if err := s.app.ShutdownWithTimeout(time.Second * 10); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	<-listenErr

	return nil
}
