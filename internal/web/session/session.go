// Package session reads the sessions the login service keeps in the shared session storage.
package session

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/splitledger/splitledger/internal/config"
)

var (
	// ErrSessionNotFound is returned when the storage holds no session for the id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionCorrupt is returned when the stored session can not be decoded.
	ErrSessionCorrupt = errors.New("session data is corrupt")
	// ErrStorageNil is returned when no storage backend was provided.
	ErrStorageNil = errors.New("session storage is nil")
)

// Data represents the session data structure shared with the login service.
type Data struct {
	UserID   uint64 `json:"user_id"`
	Username string `json:"username,omitempty"`
}

// Store reads sessions from the shared storage backend.
type Store struct {
	storage fiber.Storage
	cfg     config.Session
}

// New creates a session store on top of the given storage backend.
func New(storage fiber.Storage, cfg config.Session) (*Store, error) {
	if storage == nil {
		return nil, ErrStorageNil
	}

	return &Store{storage: storage, cfg: cfg}, nil
}

// CookieName returns the name of the cookie carrying the session id.
func (s *Store) CookieName() string {
	return s.cfg.CookieName
}

// Read loads the session stored under sessionID.
// Storage failures are returned wrapped, a missing or undecodable session yields
// ErrSessionNotFound or ErrSessionCorrupt.
func (s *Store) Read(sessionID string) (*Data, error) {
	raw, err := s.storage.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	if len(raw) == 0 {
		return nil, ErrSessionNotFound
	}

	data := new(Data)
	if err = json.Unmarshal(raw, data); err != nil {
		return nil, errors.Join(ErrSessionCorrupt, err)
	}

	return data, nil
}
