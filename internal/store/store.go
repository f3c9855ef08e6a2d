package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/example/pterohub-shop/internal/domain/product"
	"github.com/example/pterohub-shop/internal/domain/purchase"
	"github.com/example/pterohub-shop/internal/infrastructure/kv"
	"github.com/google/uuid"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrPurchaseNotFound = errors.New("purchase not found")
	ErrInvalidAmount    = errors.New("restock amount must be positive")
	ErrPersistence      = errors.New("snapshot write failed")
)

// Publisher publishes repository events. A nil publisher disables
// publishing; the repository never depends on it for correctness.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// Store owns the authoritative products and purchases collections. Every
// mutation happens under one mutex and is snapshot-persisted to the backend
// before the lock is released, so readers always see fully-applied state
// and the backend always holds a complete snapshot.
//
// Purchases are kept newest-first, matching the order they are served in.
type Store struct {
	mu        sync.RWMutex
	products  []product.Product
	purchases []purchase.Purchase
	version   uint64

	backend  kv.Store
	producer Publisher
	strict   bool
	now      func() time.Time
}

type Option func(*Store)

// WithPublisher enables event publishing for mutations.
func WithPublisher(p Publisher) Option {
	return func(s *Store) { s.producer = p }
}

// WithStrictTransitions enforces the purchase status transition table.
// The default is permissive: any status may be set from any other.
func WithStrictTransitions() Option {
	return func(s *Store) { s.strict = true }
}

// WithClock overrides the time source. Tests use this to pin timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open loads both collections from the backend. A missing or unreadable
// products snapshot falls back to the seed catalog (which is persisted
// immediately); a missing purchases snapshot starts empty.
func Open(ctx context.Context, backend kv.Store, opts ...Option) (*Store, error) {
	s := &Store{
		backend: backend,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	raw, found, err := backend.Get(ctx, kv.KeyProducts)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	seeded := false
	if found {
		if err := kv.Unmarshal(raw, &s.products); err != nil {
			log.Printf("[Store] Products snapshot unreadable, reseeding: %v", err)
			s.products = product.Seed(s.now())
			seeded = true
		}
	} else {
		s.products = product.Seed(s.now())
		seeded = true
	}
	if seeded {
		if err := s.persist(ctx, kv.KeyProducts, s.products); err != nil {
			return nil, err
		}
	}

	raw, found, err = backend.Get(ctx, kv.KeyPurchases)
	if err != nil {
		return nil, fmt.Errorf("load purchases: %w", err)
	}
	if found {
		if err := kv.Unmarshal(raw, &s.purchases); err != nil {
			log.Printf("[Store] Purchases snapshot unreadable, starting empty: %v", err)
			s.purchases = nil
		}
	}

	return s, nil
}

// Version increases on every mutation. Derived-view caches key on it.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Snapshot returns copies of both collections and the version that
// produced them, taken under one lock so they are mutually consistent.
func (s *Store) Snapshot() ([]product.Product, []purchase.Purchase, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProducts(s.products), clonePurchases(s.purchases), s.version
}

// ---- Products ----

// ProductFilter narrows Products. The zero value matches everything.
type ProductFilter struct {
	ActiveOnly bool
	Category   string
	Query      string // matched against name, description, and category
}

func (f ProductFilter) match(p product.Product) bool {
	if f.ActiveOnly && !p.IsActive {
		return false
	}
	if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) &&
			!strings.Contains(strings.ToLower(p.Category), q) {
			return false
		}
	}
	return true
}

func (s *Store) Products(f ProductFilter) []product.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]product.Product, 0, len(s.products))
	for _, p := range s.products {
		if f.match(p) {
			out = append(out, p)
		}
	}
	return out
}

func (s *Store) ProductByID(id string) (product.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return product.Product{}, ErrProductNotFound
}

// AddProduct appends a new product built from the draft. Validation of
// required fields is the caller's job; absent optional fields get defaults.
func (s *Store) AddProduct(ctx context.Context, d product.Draft) (product.Product, error) {
	now := s.now()
	p := product.Product{
		ID:            uuid.New().String(),
		Name:          d.Name,
		Description:   d.Description,
		Price:         d.Price,
		OriginalPrice: d.OriginalPrice,
		Stock:         d.Stock,
		Category:      d.Category,
		Image:         d.Image,
		Features:      d.Features,
		IsActive:      d.IsActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if p.Category == "" {
		p.Category = product.DefaultCategory
	}
	if p.Image == "" {
		p.Image = product.DefaultImage
	}

	s.mu.Lock()
	s.products = append(s.products, p)
	s.version++
	err := s.persist(ctx, kv.KeyProducts, s.products)
	s.mu.Unlock()

	s.publish(ctx, p.ID, EventProductCreated, p)
	return p, err
}

// UpdateProduct merges the partial edit into the matching product.
func (s *Store) UpdateProduct(ctx context.Context, id string, u product.Update) (product.Product, error) {
	s.mu.Lock()
	i := s.productIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return product.Product{}, ErrProductNotFound
	}
	u.Apply(&s.products[i])
	s.products[i].UpdatedAt = s.now()
	p := s.products[i]
	s.version++
	err := s.persist(ctx, kv.KeyProducts, s.products)
	s.mu.Unlock()

	s.publish(ctx, p.ID, EventProductUpdated, p)
	return p, err
}

// DeleteProduct removes the product. Purchases referencing it keep their
// snapshotted name and price as the historical record.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	i := s.productIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return ErrProductNotFound
	}
	s.products = append(s.products[:i], s.products[i+1:]...)
	s.version++
	err := s.persist(ctx, kv.KeyProducts, s.products)
	s.mu.Unlock()

	s.publish(ctx, id, EventProductDeleted, ProductDeleted{ProductID: id})
	return err
}

// RestockProduct adds amount to the product's stock.
func (s *Store) RestockProduct(ctx context.Context, id string, amount int) (product.Product, error) {
	if amount <= 0 {
		return product.Product{}, fmt.Errorf("%w: %d", ErrInvalidAmount, amount)
	}

	s.mu.Lock()
	i := s.productIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return product.Product{}, ErrProductNotFound
	}
	s.products[i].Stock += amount
	s.products[i].UpdatedAt = s.now()
	p := s.products[i]
	s.version++
	err := s.persist(ctx, kv.KeyProducts, s.products)
	s.mu.Unlock()

	s.publish(ctx, id, EventProductRestocked, ProductRestocked{
		ProductID: id,
		Amount:    amount,
		Stock:     p.Stock,
	})
	return p, err
}

// IncrementProductViews bumps the view counter. Views are not a meaningful
// edit, so UpdatedAt stays put and no event is published.
func (s *Store) IncrementProductViews(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(id)
	if i < 0 {
		return ErrProductNotFound
	}
	s.products[i].Views++
	s.version++
	return s.persist(ctx, kv.KeyProducts, s.products)
}

// ---- Purchases ----

// PurchaseFilter narrows Purchases. The zero value matches everything.
type PurchaseFilter struct {
	Status purchase.Status
	Query  string // matched against order id, customer name, and product name
}

func (f PurchaseFilter) match(p purchase.Purchase) bool {
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(p.OrderID), q) &&
			!strings.Contains(strings.ToLower(p.CustomerName), q) &&
			!strings.Contains(strings.ToLower(p.ProductName), q) {
			return false
		}
	}
	return true
}

// Purchases returns matching purchases, newest first.
func (s *Store) Purchases(f PurchaseFilter) []purchase.Purchase {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]purchase.Purchase, 0, len(s.purchases))
	for _, p := range s.purchases {
		if f.match(p) {
			out = append(out, p)
		}
	}
	return out
}

func (s *Store) PurchaseByID(id string) (purchase.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.purchases {
		if p.ID == id {
			return p, nil
		}
	}
	return purchase.Purchase{}, ErrPurchaseNotFound
}

// PurchaseByOrderID finds a purchase by its public order id. The match is
// case-insensitive and exact, never partial.
func (s *Store) PurchaseByOrderID(orderID string) (purchase.Purchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.purchases {
		if strings.EqualFold(p.OrderID, orderID) {
			return p, nil
		}
	}
	return purchase.Purchase{}, ErrPurchaseNotFound
}

// CreatePurchase records a pending purchase of the given product,
// snapshotting its name and price, and in the same critical section
// decrements the product's stock (clamped at zero) and increments its
// sales count.
func (s *Store) CreatePurchase(ctx context.Context, productID, customerName, customerEmail, customerPhone string, method purchase.PaymentMethod) (purchase.Purchase, error) {
	if !method.Valid() {
		return purchase.Purchase{}, fmt.Errorf("%w: %q", purchase.ErrInvalidPaymentMethod, method)
	}

	now := s.now()

	s.mu.Lock()
	i := s.productIndex(productID)
	if i < 0 {
		s.mu.Unlock()
		return purchase.Purchase{}, ErrProductNotFound
	}

	p := purchase.Purchase{
		ID:            uuid.New().String(),
		OrderID:       purchase.NewOrderID(now),
		ProductID:     productID,
		ProductName:   s.products[i].Name,
		CustomerName:  customerName,
		CustomerEmail: customerEmail,
		CustomerPhone: customerPhone,
		Price:         s.products[i].Price,
		PaymentMethod: method,
		Status:        purchase.StatusPending,
		CreatedAt:     now,
	}
	s.purchases = append([]purchase.Purchase{p}, s.purchases...)

	if s.products[i].Stock > 0 {
		s.products[i].Stock--
	}
	s.products[i].SalesCount++
	s.version++

	err := s.persist(ctx, kv.KeyPurchases, s.purchases)
	if perr := s.persist(ctx, kv.KeyProducts, s.products); err == nil {
		err = perr
	}
	s.mu.Unlock()

	s.publish(ctx, p.ID, EventPurchaseCreated, p)
	return p, err
}

// UpdatePurchaseStatus sets the status. PaidAt and CompletedAt are stamped
// only the first time the matching status is reached; repeating a status
// is a no-op for the timestamps.
func (s *Store) UpdatePurchaseStatus(ctx context.Context, id string, status purchase.Status) (purchase.Purchase, error) {
	if !status.Valid() {
		return purchase.Purchase{}, fmt.Errorf("%w: %q", purchase.ErrInvalidStatus, status)
	}

	s.mu.Lock()
	i := s.purchaseIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return purchase.Purchase{}, ErrPurchaseNotFound
	}

	from := s.purchases[i].Status
	if s.strict && !purchase.CanTransition(from, status) {
		s.mu.Unlock()
		return purchase.Purchase{}, purchase.TransitionError(from, status)
	}

	s.applyStatus(&s.purchases[i], status)
	p := s.purchases[i]
	s.version++
	err := s.persist(ctx, kv.KeyPurchases, s.purchases)
	s.mu.Unlock()

	if from != status {
		s.publish(ctx, p.ID, EventPurchaseStatusChanged, PurchaseStatusChanged{
			PurchaseID:    p.ID,
			OrderID:       p.OrderID,
			From:          from,
			To:            status,
			CustomerEmail: p.CustomerEmail,
		})
	}
	return p, err
}

// BulkUpdateStatus applies UpdatePurchaseStatus semantics to every id in
// the set. Unknown ids are skipped, as are strict-mode violations when the
// transition table is enforced. Returns how many purchases changed.
func (s *Store) BulkUpdateStatus(ctx context.Context, ids []string, status purchase.Status) (int, error) {
	if !status.Valid() {
		return 0, fmt.Errorf("%w: %q", purchase.ErrInvalidStatus, status)
	}

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	var changed []PurchaseStatusChanged

	s.mu.Lock()
	updated := 0
	for i := range s.purchases {
		if !wanted[s.purchases[i].ID] {
			continue
		}
		from := s.purchases[i].Status
		if s.strict && !purchase.CanTransition(from, status) {
			continue
		}
		s.applyStatus(&s.purchases[i], status)
		updated++
		if from != status {
			changed = append(changed, PurchaseStatusChanged{
				PurchaseID:    s.purchases[i].ID,
				OrderID:       s.purchases[i].OrderID,
				From:          from,
				To:            status,
				CustomerEmail: s.purchases[i].CustomerEmail,
			})
		}
	}

	var err error
	if updated > 0 {
		s.version++
		err = s.persist(ctx, kv.KeyPurchases, s.purchases)
	}
	s.mu.Unlock()

	for _, ev := range changed {
		s.publish(ctx, ev.PurchaseID, EventPurchaseStatusChanged, ev)
	}
	return updated, err
}

// SetPurchaseNotes replaces the admin note on a purchase.
func (s *Store) SetPurchaseNotes(ctx context.Context, id, notes string) (purchase.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.purchaseIndex(id)
	if i < 0 {
		return purchase.Purchase{}, ErrPurchaseNotFound
	}
	s.purchases[i].Notes = notes
	s.version++
	return s.purchases[i], s.persist(ctx, kv.KeyPurchases, s.purchases)
}

// ---- internals ----

// applyStatus must be called with the write lock held.
func (s *Store) applyStatus(p *purchase.Purchase, status purchase.Status) {
	p.Status = status
	now := s.now()
	if status == purchase.StatusPaid && p.PaidAt == nil {
		p.PaidAt = &now
	}
	if status == purchase.StatusCompleted && p.CompletedAt == nil {
		p.CompletedAt = &now
	}
}

func (s *Store) productIndex(id string) int {
	for i := range s.products {
		if s.products[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) purchaseIndex(id string) int {
	for i := range s.purchases {
		if s.purchases[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) persist(ctx context.Context, key string, v any) error {
	data, err := kv.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPersistence, key, err)
	}
	if err := s.backend.Set(ctx, key, data); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPersistence, key, err)
	}
	return nil
}

func (s *Store) publish(ctx context.Context, key, eventType string, payload any) {
	if s.producer == nil {
		return
	}
	event, err := NewEvent(eventType, payload, s.now())
	if err != nil {
		log.Printf("[Store] Failed to encode %s event: %v", eventType, err)
		return
	}
	if err := s.producer.Publish(ctx, key, event); err != nil {
		log.Printf("[Store] Failed to publish %s event: %v", eventType, err)
	}
}

func cloneProducts(in []product.Product) []product.Product {
	out := make([]product.Product, len(in))
	copy(out, in)
	return out
}

func clonePurchases(in []purchase.Purchase) []purchase.Purchase {
	out := make([]purchase.Purchase, len(in))
	copy(out, in)
	return out
}
