package users

import (
	"context"

	"github.com/dmitrijs2005/auditoria/internal/server/models"
)

// Repository stores login credentials (the usuarios table).
type Repository interface {
	// Create inserts a new user and fills its ID. A duplicate username yields
	// common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// CreateIfAbsent inserts the user unless the username is taken and
	// reports whether a row was written.
	CreateIfAbsent(ctx context.Context, user *models.User) (bool, error)
	// GetUserByLogin returns common.ErrorNotFound for unknown usernames.
	GetUserByLogin(ctx context.Context, username string) (*models.User, error)
}
