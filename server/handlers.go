package server

import (
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/voiceguard/voiceguard/detection"
	"github.com/voiceguard/voiceguard/store"
	"github.com/voiceguard/voiceguard/utils"
	"go.uber.org/zap"
)

type errorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func errorResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(errorBody{
		Status:  "error",
		Message: message,
	})
}

type voiceDetectionRequest struct {
	Language    string `json:"language"`
	AudioFormat string `json:"audioFormat"`
	AudioBase64 string `json:"audioBase64"`
}

type voiceDetectionResponse struct {
	Status          string          `json:"status"`
	Language        string          `json:"language"`
	Classification  detection.Label `json:"classification"`
	ConfidenceScore float64         `json:"confidenceScore"`
	Explanation     string          `json:"explanation"`
}

func (s *Server) handleHome(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message":  "Voice Guard API is Running!",
		"docs_url": "/docs",
		"health":   "Active",
	})
}

func (s *Server) handleVoiceDetection(c *fiber.Ctx) error {
	ctx := c.UserContext()
	log := utils.GetLogFromContext(ctx, s.log)

	var payload voiceDetectionRequest
	if err := c.BodyParser(&payload); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Malformed request body")
	}

	if !detection.SupportedLanguage(payload.Language) {
		return errorResponse(c, fiber.StatusBadRequest,
			fmt.Sprintf("Language %q not supported. Must be one of %v", payload.Language, detection.Languages()))
	}

	format := payload.AudioFormat
	if format == "" {
		format = "mp3"
	}
	if !detection.SupportedFormat(format) {
		return errorResponse(c, fiber.StatusBadRequest,
			fmt.Sprintf("Format %q not supported", payload.AudioFormat))
	}

	raw, err := base64.StdEncoding.DecodeString(payload.AudioBase64)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Failed to process audio: invalid base64 payload")
	}
	if len(raw) == 0 {
		return errorResponse(c, fiber.StatusBadRequest, "Failed to process audio: empty payload")
	}
	if len(raw) > s.maxAudioBytes {
		return errorResponse(c, fiber.StatusBadRequest,
			fmt.Sprintf("Failed to process audio: payload exceeds %d bytes", s.maxAudioBytes))
	}

	start := time.Now()

	clip, err := s.decoder.Decode(ctx, raw)
	if errors.Is(err, detection.ErrBadAudio) {
		log.With(zap.Error(err)).Info("rejected audio payload")
		return errorResponse(c, fiber.StatusBadRequest, fmt.Sprintf("Failed to process audio: %v", err))
	} else if err != nil {
		log.Error("decoding audio", zap.Error(err))
		return errorResponse(c, fiber.StatusInternalServerError, "Processing failed")
	}

	result, err := s.classifier.Classify(ctx, clip, payload.Language)
	if err != nil {
		log.Error("classifying clip", zap.Error(err))
		return errorResponse(c, fiber.StatusInternalServerError, "Processing failed")
	}

	processingTime := time.Since(start).Seconds()

	explanation, err := s.messages.RenderExplanation(result)
	if err != nil {
		log.Error("rendering explanation", zap.Error(err))
		explanation = string(result.Label)
	}

	confidence := math.Round(result.Confidence*100) / 100

	log.With(
		zap.String("language", payload.Language),
		zap.String("classification", string(result.Label)),
		zap.Float64("confidence", confidence),
		zap.Float64("audio_duration", clip.Duration),
		zap.Float64("processing_time", processingTime),
	).Info("classified clip")

	if s.store != nil {
		// History is best-effort; a store outage must not fail a valid
		// classification.
		if err := s.store.RecordDetection(ctx, store.Detection{
			ID:             uuid.NewString(),
			Language:       payload.Language,
			Classification: string(result.Label),
			Confidence:     confidence,
			AudioDuration:  clip.Duration,
			ProcessingTime: processingTime,
		}); err != nil {
			log.Error("recording detection", zap.Error(err))
		}
	}

	return c.JSON(voiceDetectionResponse{
		Status:          "success",
		Language:        payload.Language,
		Classification:  result.Label,
		ConfidenceScore: confidence,
		Explanation:     explanation,
	})
}

type detectionRecord struct {
	ID              string    `json:"id"`
	Language        string    `json:"language"`
	Classification  string    `json:"classification"`
	ConfidenceScore float64   `json:"confidenceScore"`
	AudioDuration   float64   `json:"audioDuration"`
	ProcessingTime  float64   `json:"processingTime"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (s *Server) handleRecentDetections(c *fiber.Ctx) error {
	log := utils.GetLogFromContext(c.UserContext(), s.log)

	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	detections, err := s.store.RecentDetections(c.UserContext(), limit)
	if err != nil {
		log.Error("listing detections", zap.Error(err))
		return errorResponse(c, fiber.StatusInternalServerError, "Processing failed")
	}

	records := make([]detectionRecord, 0, len(detections))
	for _, d := range detections {
		records = append(records, detectionRecord{
			ID:              d.ID,
			Language:        d.Language,
			Classification:  d.Classification,
			ConfidenceScore: d.Confidence,
			AudioDuration:   d.AudioDuration,
			ProcessingTime:  d.ProcessingTime,
			CreatedAt:       d.CreatedAt,
		})
	}

	return c.JSON(fiber.Map{
		"status":     "success",
		"detections": records,
	})
}
