// internal/session/manager.go
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/swiftcart/internal/config"
	"github.com/your-org/swiftcart/internal/domain/cart"
	"github.com/your-org/swiftcart/internal/domain/checkout"
	"github.com/your-org/swiftcart/internal/domain/pricing"
	"github.com/your-org/swiftcart/internal/pkg/notify"
)

// Session owns the mutable storefront state for one visitor: exactly one
// cart store and one checkout machine. Presentation code never mutates
// state directly; it goes through these two APIs.
type Session struct {
	ID       string
	Cart     *cart.Store
	Checkout *checkout.Machine
}

// Manager creates and caches sessions keyed by session id. It is the
// application root's single owner of storefront state.
type Manager struct {
	cfg        *config.Config
	redis      *redis.Client
	calculator *pricing.Calculator
	notifier   notify.Notifier
	logger     *logrus.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a session manager
func NewManager(cfg *config.Config, redisClient *redis.Client, calculator *pricing.Calculator, notifier notify.Notifier, logger *logrus.Logger) *Manager {
	return &Manager{
		cfg:        cfg,
		redis:      redisClient,
		calculator: calculator,
		notifier:   notifier,
		logger:     logger,
		sessions:   make(map[string]*Session),
	}
}

// Get returns the session for the given id, creating it on first access.
// A new session rehydrates its cart from the persisted slot; a missing or
// unreadable slot yields an empty cart.
func (m *Manager) Get(ctx context.Context, sessionID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[sessionID]; ok {
		return s
	}

	storage := cart.NewRedisStorage(m.redis, m.cartKey(sessionID), m.cfg.Cart.TTL)
	store := cart.NewStore(storage, m.notifier, m.logger, sessionID)
	store.Rehydrate(ctx)

	s := &Session{
		ID:       sessionID,
		Cart:     store,
		Checkout: checkout.NewMachine(store, m.calculator, m.notifier, m.cfg, sessionID),
	}
	m.sessions[sessionID] = s
	return s
}

func (m *Manager) cartKey(sessionID string) string {
	return fmt.Sprintf("%s:%s", m.cfg.Cart.KeyPrefix, sessionID)
}
