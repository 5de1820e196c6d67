package usecase

import (
	"context"

	"SentimentPulse/internal/domain/models"
)

// StaticResults serves the fixed result set regardless of upload contents.
type StaticResults struct{}

func (StaticResults) Results(_ context.Context) (models.ResultSet, error) {
	return models.StaticResultSet(), nil
}
