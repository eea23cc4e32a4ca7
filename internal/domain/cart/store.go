// internal/domain/cart/store.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/swiftcart/internal/domain/catalog"
	"github.com/your-org/swiftcart/internal/pkg/notify"
)

var (
	// ErrLineNotFound indicates a quantity update referenced a product
	// that has no line in the cart
	ErrLineNotFound = errors.New("item not found in cart")

	// ErrInvalidQuantity indicates a non-positive quantity on AddItem
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// Store is the authoritative product-to-quantity mapping for one session.
// Lines keep insertion order. Every mutation runs as an atomic
// read-modify-write under the store lock, is persisted to the storage slot,
// and publishes a cart.changed event.
type Store struct {
	mu        sync.Mutex
	lines     []Line
	storage   Storage
	notifier  notify.Notifier
	logger    *logrus.Logger
	sessionID string
	clock     func() time.Time
}

// NewStore creates an empty cart store bound to a storage slot
func NewStore(storage Storage, notifier notify.Notifier, logger *logrus.Logger, sessionID string) *Store {
	return &Store{
		storage:   storage,
		notifier:  notifier,
		logger:    logger,
		sessionID: sessionID,
		clock:     func() time.Time { return time.Now().UTC() },
	}
}

// Rehydrate loads the persisted cart into the store. A missing slot or a
// malformed payload yields an empty cart; storage problems are logged and
// never surfaced to the caller.
func (s *Store) Rehydrate(ctx context.Context) {
	lines, err := s.storage.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrCartNotFound) {
			s.logger.WithError(err).WithField("session_id", s.sessionID).
				Warn("Persisted cart unreadable, starting empty")
		}
		return
	}

	s.mu.Lock()
	s.lines = lines
	s.mu.Unlock()
}

// AddItem adds a product to the cart. An existing line for the product has
// its quantity incremented; otherwise a new line is appended with a snapshot
// of title, price and image.
func (s *Store) AddItem(ctx context.Context, product catalog.Product, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}

	s.mu.Lock()
	merged := false
	for i := range s.lines {
		if s.lines[i].ProductID == product.ID {
			s.lines[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		s.lines = append(s.lines, Line{
			ProductID: product.ID,
			Title:     product.Title,
			Price:     product.Price,
			Image:     product.Image,
			Quantity:  quantity,
			AddedAt:   s.clock(),
		})
	}
	s.mu.Unlock()

	s.persist(ctx)
	s.notifyChanged(fmt.Sprintf("%s added to cart", product.Title))
	return nil
}

// RemoveItem deletes the line for the product. Removing an absent product is
// a no-op, not an error.
func (s *Store) RemoveItem(ctx context.Context, productID int) error {
	s.mu.Lock()
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.persist(ctx)
	s.notifyChanged("Item removed from cart")
	return nil
}

// SetQuantity overwrites the quantity of an existing line. A quantity of
// zero or less removes the line. Setting a positive quantity on a product
// with no line is refused.
func (s *Store) SetQuantity(ctx context.Context, productID, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, productID)
	}

	s.mu.Lock()
	found := false
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines[i].Quantity = quantity
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return fmt.Errorf("%w: product %d", ErrLineNotFound, productID)
	}

	s.persist(ctx)
	s.notifyChanged("Cart updated")
	return nil
}

// Clear empties the cart
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.lines = nil
	s.mu.Unlock()

	s.persist(ctx)
	s.notifyChanged("Cart cleared")
	return nil
}

// Lines returns a copy of the cart lines in insertion order
func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Line(nil), s.lines...)
}

// Total returns the sum of price * quantity over all lines. Internal
// arithmetic stays unrounded; rounding to two places happens at the
// presentation edge.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, line := range s.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// ItemCount returns the sum of all line quantities (cart badge)
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, line := range s.lines {
		count += line.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no lines
func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines) == 0
}

// persist overwrites the storage slot with the current cart. A write failure
// is logged but does not fail the mutation; the in-memory cart stays
// authoritative for the session.
func (s *Store) persist(ctx context.Context) {
	if err := s.storage.Save(ctx, s.Lines()); err != nil {
		s.logger.WithError(err).WithField("session_id", s.sessionID).
			Warn("Failed to persist cart")
	}
}

func (s *Store) notifyChanged(message string) {
	s.notifier.Publish(notify.Event{
		Type:      notify.EventCartChanged,
		SessionID: s.sessionID,
		Payload: map[string]interface{}{
			"message":    message,
			"item_count": s.ItemCount(),
			"total":      s.Total().StringFixed(2),
		},
		At: s.clock(),
	})
}
