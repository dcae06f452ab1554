package auth

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/splitledger/splitledger/internal/db/models"
	"github.com/splitledger/splitledger/internal/web/session"
)

// Service authenticates requests by their session id.
type Service struct {
	db       *gorm.DB
	sessions *session.Store
}

// NewService creates a new auth service.
func NewService(db *gorm.DB, sessions *session.Store) *Service {
	return &Service{db: db, sessions: sessions}
}

// CookieName returns the name of the session cookie.
func (s *Service) CookieName() string {
	return s.sessions.CookieName()
}

// Authenticate returns the id of the active user owning sessionID.
// Errors wrapping ErrUnauthenticated mean the session is not acceptable,
// any other error means the session storage or the database failed.
func (s *Service) Authenticate(sessionID string) (uint64, error) {
	if sessionID == "" {
		return 0, ErrUnauthenticated
	}

	data, err := s.sessions.Read(sessionID)

	switch {
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, session.ErrSessionCorrupt):
		return 0, errors.Join(ErrUnauthenticated, err)
	case err != nil:
		return 0, err
	case data.UserID == 0:
		return 0, ErrUnauthenticated
	case !models.StorableID(data.UserID):
		return 0, errors.Join(ErrUnauthenticated, ErrUserNotFound)
	}

	var user models.User

	err = s.db.Select("id", "active").First(&user, data.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, errors.Join(ErrUnauthenticated, ErrUserNotFound)
	}

	if err != nil {
		return 0, fmt.Errorf("failed to load session user: %w", err)
	}

	if !user.Active {
		return 0, errors.Join(ErrUnauthenticated, ErrUserAccountDisabled)
	}

	return user.ID, nil
}
