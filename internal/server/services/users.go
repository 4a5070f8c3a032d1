// Package services contains server-side business logic: credential checks,
// the batch upload pipeline and audit reporting.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/auditoria/internal/common"
	"github.com/dmitrijs2005/auditoria/internal/logging"
	"github.com/dmitrijs2005/auditoria/internal/server/auth"
	"github.com/dmitrijs2005/auditoria/internal/server/config"
	"github.com/dmitrijs2005/auditoria/internal/server/models"
	"github.com/dmitrijs2005/auditoria/internal/server/repositories/repomanager"
	"github.com/jmoiron/sqlx"
)

// UserService checks and manages login credentials.
type UserService struct {
	db            *sqlx.DB
	repomanager   repomanager.RepositoryManager
	adminUsername string
	adminPassword string
	logger        logging.Logger
}

func NewUserService(db *sqlx.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *UserService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &UserService{
		db:            db,
		repomanager:   m,
		adminUsername: cfg.AdminUsername,
		adminPassword: cfg.AdminPassword,
		logger:        logger,
	}
}

// Verify reports whether password matches the stored digest for username.
// Unknown users are not an error.
func (s *UserService) Verify(ctx context.Context, username, password string) (bool, error) {
	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, username)
	if errors.Is(err, common.ErrorNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return auth.CheckPassword(password, user.PasswordHash), nil
}

// EnsureSeedAdmin inserts the configured admin credential unless a user with
// that name already exists.
func (s *UserService) EnsureSeedAdmin(ctx context.Context) error {
	created, err := s.repomanager.Users(s.db).CreateIfAbsent(ctx, &models.User{
		Username:     s.adminUsername,
		PasswordHash: auth.HashPassword(s.adminPassword),
	})
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if created {
		s.logger.Info(ctx, "seeded admin user", "username", s.adminUsername)
	}
	return nil
}

// Create adds a credential. Duplicate usernames yield common.ErrorAlreadyExists.
func (s *UserService) Create(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, errors.New("username and password are required")
	}

	user, err := s.repomanager.Users(s.db).Create(ctx, &models.User{
		Username:     username,
		PasswordHash: auth.HashPassword(password),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user created", "username", username)
	return user, nil
}
