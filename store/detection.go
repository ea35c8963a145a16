package store

import (
	"context"
	"fmt"
	"time"
)

type Detection struct {
	ID             string
	Language       string
	Classification string
	Confidence     float64
	AudioDuration  float64
	ProcessingTime float64
	CreatedAt      time.Time
}

func (s *Store) RecordDetection(ctx context.Context, d Detection) error {
	_, err := s.conn.Exec(ctx, `
		INSERT INTO detections (id, language, classification, confidence, audio_duration, processing_time)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, d.ID, d.Language, d.Classification, d.Confidence, d.AudioDuration, d.ProcessingTime)
	if err != nil {
		return fmt.Errorf("inserting detection: %w", err)
	}
	return nil
}

func (s *Store) RecentDetections(ctx context.Context, limit int) ([]Detection, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT id, language, classification, confidence, audio_duration, processing_time, created_at
		FROM detections
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying detections: %w", err)
	}
	defer rows.Close()

	var detections []Detection
	for rows.Next() {
		var d Detection
		err := rows.Scan(&d.ID, &d.Language, &d.Classification, &d.Confidence, &d.AudioDuration, &d.ProcessingTime, &d.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning detection: %w", err)
		}
		detections = append(detections, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading detections: %w", err)
	}

	return detections, nil
}
