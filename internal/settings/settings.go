package settings

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/example/pterohub-shop/internal/domain/purchase"
	"github.com/example/pterohub-shop/internal/infrastructure/kv"
)

// Settings is the storefront configuration, persisted under its own key.
type Settings struct {
	StoreName        string `json:"store_name"`
	StoreDescription string `json:"store_description"`
	ContactEmail     string `json:"contact_email"`
	ContactPhone     string `json:"contact_phone"`
	WhatsAppNumber   string `json:"whatsapp_number"`
	EnableQRIS       bool   `json:"enable_qris"`
	EnableDANA       bool   `json:"enable_dana"`
	EnableGOPAY      bool   `json:"enable_gopay"`
	MaintenanceMode  bool   `json:"maintenance_mode"`
}

// Default returns the settings used when the backend holds no snapshot.
func Default() Settings {
	return Settings{
		StoreName:        "PTEROHUB.ID",
		StoreDescription: "Premium Digital Solutions",
		ContactEmail:     "support@pterohub.id",
		ContactPhone:     "+62 812-3456-7890",
		WhatsAppNumber:   "6281234567890",
		EnableQRIS:       true,
		EnableDANA:       true,
		EnableGOPAY:      true,
	}
}

// Update carries a partial settings edit. Nil fields are unchanged.
type Update struct {
	StoreName        *string `json:"store_name,omitempty"`
	StoreDescription *string `json:"store_description,omitempty"`
	ContactEmail     *string `json:"contact_email,omitempty"`
	ContactPhone     *string `json:"contact_phone,omitempty"`
	WhatsAppNumber   *string `json:"whatsapp_number,omitempty"`
	EnableQRIS       *bool   `json:"enable_qris,omitempty"`
	EnableDANA       *bool   `json:"enable_dana,omitempty"`
	EnableGOPAY      *bool   `json:"enable_gopay,omitempty"`
	MaintenanceMode  *bool   `json:"maintenance_mode,omitempty"`
}

// Service owns the current settings and persists them on every change.
type Service struct {
	mu      sync.RWMutex
	backend kv.Store
	current Settings
}

// Load reads settings from the backend, falling back to defaults when the
// key is absent or unreadable.
func Load(ctx context.Context, backend kv.Store) (*Service, error) {
	s := &Service{backend: backend, current: Default()}

	raw, found, err := backend.Get(ctx, kv.KeySettings)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if found {
		if err := kv.Unmarshal(raw, &s.current); err != nil {
			log.Printf("[Settings] Snapshot unreadable, using defaults: %v", err)
			s.current = Default()
		}
		return s, nil
	}

	if err := s.persistLocked(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// ApplyUpdate merges the partial edit and persists the result.
func (s *Service) ApplyUpdate(ctx context.Context, u Update) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.StoreName != nil {
		s.current.StoreName = *u.StoreName
	}
	if u.StoreDescription != nil {
		s.current.StoreDescription = *u.StoreDescription
	}
	if u.ContactEmail != nil {
		s.current.ContactEmail = *u.ContactEmail
	}
	if u.ContactPhone != nil {
		s.current.ContactPhone = *u.ContactPhone
	}
	if u.WhatsAppNumber != nil {
		s.current.WhatsAppNumber = *u.WhatsAppNumber
	}
	if u.EnableQRIS != nil {
		s.current.EnableQRIS = *u.EnableQRIS
	}
	if u.EnableDANA != nil {
		s.current.EnableDANA = *u.EnableDANA
	}
	if u.EnableGOPAY != nil {
		s.current.EnableGOPAY = *u.EnableGOPAY
	}
	if u.MaintenanceMode != nil {
		s.current.MaintenanceMode = *u.MaintenanceMode
	}
	return s.current, s.persistLocked(ctx)
}

// PaymentEnabled reports whether checkout may use the method.
func (s *Service) PaymentEnabled(m purchase.PaymentMethod) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch m {
	case purchase.MethodQRIS:
		return s.current.EnableQRIS
	case purchase.MethodDANA:
		return s.current.EnableDANA
	case purchase.MethodGOPAY:
		return s.current.EnableGOPAY
	}
	return false
}

// persistLocked must be called with the mutex held (read lock is not
// enough).
func (s *Service) persistLocked(ctx context.Context) error {
	data, err := kv.Marshal(s.current)
	if err != nil {
		return err
	}
	return s.backend.Set(ctx, kv.KeySettings, data)
}
