package service

import (
	"time"

	"github.com/coachms/coaching-service/internal/config"
	"github.com/coachms/coaching-service/internal/repository"
	"github.com/coachms/coaching-service/internal/utils/email"
	"github.com/sirupsen/logrus"
)

// Service handles business logic
type Service struct {
	repo   *repository.Repository
	log    *logrus.Logger
	config *config.Config
	mailer *email.Sender

	// now is the clock used for all fee computations; tests may pin it
	now func() time.Time
}

// NewService initializes a new service
func NewService(repo *repository.Repository, log *logrus.Logger, cfg *config.Config, mailer *email.Sender) *Service {
	return &Service{
		repo:   repo,
		log:    log,
		config: cfg,
		mailer: mailer,
		now:    time.Now,
	}
}
