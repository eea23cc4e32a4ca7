// internal/domain/checkout/machine.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/your-org/swiftcart/internal/config"
	"github.com/your-org/swiftcart/internal/domain/cart"
	"github.com/your-org/swiftcart/internal/domain/pricing"
	"github.com/your-org/swiftcart/internal/pkg/notify"
)

var (
	// ErrEmptyCart indicates checkout was opened with nothing to buy
	ErrEmptyCart = errors.New("cart is empty")

	// ErrNotOpen indicates an operation that requires an open checkout
	ErrNotOpen = errors.New("checkout is not open")

	// ErrSubmissionInProgress indicates an order submission is already
	// running; the duplicate call is refused so exactly one order is
	// produced per user-initiated submission
	ErrSubmissionInProgress = errors.New("order submission in progress")
)

// Machine governs the checkout lifecycle for one session:
// Idle -> Open -> Submitting -> Success -> Idle, with Open -> Idle on
// cancel. All transitions run under the machine lock except the simulated
// processing delay, which releases it so the Submitting state stays
// observable and re-entrant submissions can be refused.
type Machine struct {
	cartStore  *cart.Store
	calculator *pricing.Calculator
	notifier   notify.Notifier
	sessionID  string

	mu       sync.Mutex
	state    State
	form     Form
	snapshot pricing.Totals
	order    *Order

	// deterministic in tests, wall-clock in production
	processingDelay time.Duration
	deliveryDays    int
	clock           func() time.Time
	sleep           func(time.Duration)
	orderNumber     func() string
}

// NewMachine creates an idle checkout machine for one session
func NewMachine(cartStore *cart.Store, calculator *pricing.Calculator, notifier notify.Notifier, cfg *config.Config, sessionID string) *Machine {
	return &Machine{
		cartStore:       cartStore,
		calculator:      calculator,
		notifier:        notifier,
		sessionID:       sessionID,
		state:           StateIdle,
		processingDelay: cfg.Checkout.ProcessingDelay,
		deliveryDays:    cfg.Checkout.DeliveryDays,
		clock:           func() time.Time { return time.Now().UTC() },
		sleep:           time.Sleep,
		orderNumber:     generateOrderNumber,
	}
}

// State returns the current lifecycle state
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Totals returns the totals snapshot taken when the checkout was opened
func (m *Machine) Totals() pricing.Totals {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot
}

// PaymentMethod returns the currently selected payment method
func (m *Machine) PaymentMethod() PaymentMethod {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.form.PaymentMethod
}

// Order returns the order held for display after a successful placement
func (m *Machine) Order() *Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order
}

// Open transitions Idle -> Open. The cart must be non-empty; on success the
// current totals are snapshotted for display and the payment method defaults
// to credit.
func (m *Machine) Open(ctx context.Context) (pricing.Totals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case StateSubmitting:
		return pricing.Totals{}, ErrSubmissionInProgress
	case StateOpen:
		return m.snapshot, nil
	}

	if m.cartStore.IsEmpty() {
		return pricing.Totals{}, ErrEmptyCart
	}

	m.snapshot = m.calculator.ComputeTotals(m.cartStore.Lines())
	m.form = Form{PaymentMethod: PaymentCredit}
	m.state = StateOpen

	m.notifier.Publish(notify.Event{
		Type:      notify.EventCheckoutOpened,
		SessionID: m.sessionID,
		Payload: map[string]interface{}{
			"total":      m.snapshot.Total.StringFixed(2),
			"item_count": m.cartStore.ItemCount(),
		},
		At: m.clock(),
	})

	return m.snapshot, nil
}

// Close transitions Open -> Idle, discarding the in-progress form. The cart
// is untouched. Closing is refused while a submission is in flight.
func (m *Machine) Close(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateSubmitting {
		return ErrSubmissionInProgress
	}
	if m.state != StateOpen {
		return nil
	}

	m.form = Form{}
	m.state = StateIdle

	m.notifier.Publish(notify.Event{
		Type:      notify.EventCheckoutClosed,
		SessionID: m.sessionID,
		At:        m.clock(),
	})
	return nil
}

// SetPaymentMethod switches the selected payment method while the checkout
// is open. Switching to credit makes the card fields required for
// submission; switching away makes them optional. Pure state update.
func (m *Machine) SetPaymentMethod(method PaymentMethod) error {
	if !method.Valid() {
		return &ValidationError{Fields: map[string]string{
			"payment_method": "payment method must be credit, paypal or cash",
		}}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateOpen {
		return ErrNotOpen
	}
	m.form.PaymentMethod = method
	return nil
}

// PlaceOrder validates the form and runs the simulated order submission.
// Validation failure leaves the state Open and returns the field-level
// errors. On success the machine enters Submitting for the processing
// delay, then derives the Order, clears the cart and enters Success. A
// call arriving while a submission is in flight is refused. The delay is
// not cancellable once started.
func (m *Machine) PlaceOrder(ctx context.Context, form Form) (*Order, error) {
	m.mu.Lock()
	if m.state == StateSubmitting {
		m.mu.Unlock()
		return nil, ErrSubmissionInProgress
	}
	if m.state != StateOpen {
		m.mu.Unlock()
		return nil, ErrNotOpen
	}

	if form.PaymentMethod == "" {
		form.PaymentMethod = m.form.PaymentMethod
	}
	if err := form.validate(); err != nil {
		m.mu.Unlock()
		return nil, err
	}

	m.form = form
	m.state = StateSubmitting
	m.mu.Unlock()

	// Simulated payment processing; stands in for a real gateway call
	m.sleep(m.processingDelay)

	m.mu.Lock()
	lines := m.cartStore.Lines()
	placedAt := m.clock()
	order := &Order{
		OrderNumber:       m.orderNumber(),
		PlacedAt:          placedAt,
		EstimatedDelivery: placedAt.AddDate(0, 0, m.deliveryDays),
		Lines:             lines,
		Totals:            m.calculator.ComputeTotals(lines),
	}

	if err := m.cartStore.Clear(ctx); err != nil {
		// Clear never fails today; guard the transition anyway
		m.state = StateOpen
		m.mu.Unlock()
		return nil, fmt.Errorf("failed to clear cart after placement: %w", err)
	}

	m.order = order
	m.form = Form{}
	m.state = StateSuccess
	m.mu.Unlock()

	m.notifier.Publish(notify.Event{
		Type:      notify.EventOrderPlaced,
		SessionID: m.sessionID,
		Payload: map[string]interface{}{
			"order_number":       order.OrderNumber,
			"total":              order.Totals.Total.StringFixed(2),
			"estimated_delivery": order.EstimatedDelivery.Format("2006-01-02"),
		},
		At: placedAt,
	})

	return order, nil
}

// AckSuccess transitions Success -> Idle and discards the displayed order.
// Acknowledging in any other state is a no-op.
func (m *Machine) AckSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateSuccess {
		m.order = nil
		m.state = StateIdle
	}
}

// generateOrderNumber returns a SWIFT-prefixed 6-digit token. Randomness is
// the only uniqueness guarantee, which is acceptable for the simulated flow.
func generateOrderNumber() string {
	return fmt.Sprintf("SWIFT%06d", rand.Intn(1000000))
}
