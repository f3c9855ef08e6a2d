package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/example/pterohub-shop/internal/infrastructure/kv"
)

// ErrInvalidCredentials deliberately does not distinguish an unknown
// username from a wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

const (
	seedUsername  = "admin"
	seedPassword  = "admin123"
	seedEmail     = "admin@pterohub.id"
	seedStoreName = "PTEROHUB.ID"
)

// Admin is the single dashboard account, persisted under its own key.
// Only the bcrypt hash of the password is ever stored.
type Admin struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	StoreName    string `json:"store_name"`
}

// ProfileUpdate carries a partial profile edit. Nil fields are unchanged.
type ProfileUpdate struct {
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	StoreName *string `json:"store_name,omitempty"`
}

// AdminService owns the admin account and persists it on every change.
type AdminService struct {
	mu      sync.Mutex
	backend kv.Store
	admin   Admin
}

// SeedAdmin builds the default account with a freshly hashed password.
func SeedAdmin() (Admin, error) {
	hash, err := HashPassword(seedPassword)
	if err != nil {
		return Admin{}, err
	}
	return Admin{
		Username:     seedUsername,
		PasswordHash: hash,
		Email:        seedEmail,
		StoreName:    seedStoreName,
	}, nil
}

// LoadAdmin reads the admin account from the backend, seeding the default
// account when the key is absent or unreadable.
func LoadAdmin(ctx context.Context, backend kv.Store) (*AdminService, error) {
	s := &AdminService{backend: backend}

	raw, found, err := backend.Get(ctx, kv.KeyAdmin)
	if err != nil {
		return nil, fmt.Errorf("load admin: %w", err)
	}
	if found {
		if err := kv.Unmarshal(raw, &s.admin); err == nil {
			return s, nil
		}
		log.Printf("[Auth] Admin snapshot unreadable, reseeding default account")
	}

	s.admin, err = SeedAdmin()
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Login verifies the credentials. Both failure modes return the same
// generic error.
func (s *AdminService) Login(username, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if username != s.admin.Username || !CheckPassword(password, s.admin.PasswordHash) {
		return ErrInvalidCredentials
	}
	return nil
}

// ChangePassword replaces the stored hash. Length validation comes from
// HashPassword.
func (s *AdminService) ChangePassword(ctx context.Context, newPassword string) error {
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.admin.PasswordHash = hash
	return s.persist(ctx)
}

// UpdateProfile merges the partial edit into the account.
func (s *AdminService) UpdateProfile(ctx context.Context, u ProfileUpdate) (Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.Email != nil {
		s.admin.Email = *u.Email
	}
	if u.Phone != nil {
		s.admin.Phone = *u.Phone
	}
	if u.StoreName != nil {
		s.admin.StoreName = *u.StoreName
	}
	return s.admin, s.persist(ctx)
}

// Profile returns the current account.
func (s *AdminService) Profile() Admin {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.admin
}

// persist must be called with the mutex held.
func (s *AdminService) persist(ctx context.Context) error {
	data, err := kv.Marshal(s.admin)
	if err != nil {
		return err
	}
	return s.backend.Set(ctx, kv.KeyAdmin, data)
}
