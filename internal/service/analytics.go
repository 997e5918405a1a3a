package service

import (
	"fmt"
	"time"

	"github.com/coachms/coaching-service/internal/apperrors"
	"github.com/coachms/coaching-service/internal/models"
)

// MonthlyCollections returns completed-payment totals for the trailing
// number of months, current month included
func (s *Service) MonthlyCollections(months int) ([]*models.MonthlyCollection, error) {
	if months <= 0 || months > 36 {
		return nil, fmt.Errorf("%w: months must be between 1 and 36", apperrors.ErrValidation)
	}
	now := s.now()
	to := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	from := to.AddDate(0, -months, 0)
	return s.repo.MonthlyCollections(from, to)
}

// OutstandingSummary aggregates open dues as of now
func (s *Service) OutstandingSummary() (*models.OutstandingSummary, error) {
	return s.repo.OutstandingSummary(s.now())
}
