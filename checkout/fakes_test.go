package checkout

import (
	"context"
	"errors"
	"sync"

	"github.com/imaginarygifts/storefront-backend-go/models"
	"github.com/imaginarygifts/storefront-backend-go/payment"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errNotFound = errors.New("not found")

type memCounter struct {
	mu     sync.Mutex
	values map[string]int64
	err    error
	calls  int
}

func (m *memCounter) Increment(_ context.Context, name string, first int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return 0, m.err
	}
	if m.values == nil {
		m.values = map[string]int64{}
	}
	v, ok := m.values[name]
	if !ok {
		v = first - 1
	}
	v++
	m.values[name] = v
	return v, nil
}

type memOrders struct {
	mu     sync.Mutex
	orders []models.Order
	err    error
}

func (m *memOrders) Insert(_ context.Context, o *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	o.ID = primitive.NewObjectID()
	m.orders = append(m.orders, *o)
	return nil
}

func (m *memOrders) SetPayment(_ context.Context, id string, p models.Payment) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.orders {
		if m.orders[i].ID.Hex() == id {
			m.orders[i].Payment = p
			o := m.orders[i]
			return &o, nil
		}
	}
	return nil, errNotFound
}

func (m *memOrders) Get(_ context.Context, id string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.ID.Hex() == id {
			return &o, nil
		}
	}
	return nil, errNotFound
}

func (m *memOrders) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

type memCatalog struct {
	products map[string]models.Product
	coupons  []models.Coupon
}

func (m *memCatalog) GetProduct(_ context.Context, id string) (*models.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, errNotFound
	}
	return &p, nil
}

func (m *memCatalog) ListCoupons(context.Context) ([]models.Coupon, error) {
	return m.coupons, nil
}

type memIntents struct {
	mu      sync.Mutex
	intents map[string]*models.PaymentIntent
}

func (m *memIntents) Insert(_ context.Context, in *models.PaymentIntent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.intents == nil {
		m.intents = map[string]*models.PaymentIntent{}
	}
	cp := *in
	m.intents[in.GatewayOrderID] = &cp
	return nil
}

func (m *memIntents) GetByGatewayOrderID(_ context.Context, id string) (*models.PaymentIntent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	in, ok := m.intents[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *in
	return &cp, nil
}

func (m *memIntents) Claim(_ context.Context, id, paymentID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	in, ok := m.intents[id]
	if !ok || in.Status != models.IntentCreated {
		return false, nil
	}
	in.Status = models.IntentPaid
	in.PaymentID = paymentID
	return true, nil
}

func (m *memIntents) Release(_ context.Context, id, paymentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	in, ok := m.intents[id]
	if ok && in.Status == models.IntentPaid && in.PaymentID == paymentID {
		in.Status = models.IntentCreated
		in.PaymentID = ""
	}
	return nil
}

type fakeGateway struct {
	secret  string
	created []payment.OrderRequest
	err     error
}

func (g *fakeGateway) CreateOrder(_ context.Context, req payment.OrderRequest) (payment.GatewayOrder, error) {
	if g.err != nil {
		return payment.GatewayOrder{}, g.err
	}
	g.created = append(g.created, req)
	return payment.GatewayOrder{ID: "order_gw_1", Amount: req.Amount, Currency: req.Currency, Receipt: req.Receipt}, nil
}

func (g *fakeGateway) Verify(p payment.Proof) error {
	if p.Signature != payment.Sign(g.secret, p.OrderID, p.PaymentID) {
		return payment.ErrInvalidSignature
	}
	return nil
}

func (g *fakeGateway) KeyID() string { return "rzp_test" }

type recordingNotifier struct {
	mu     sync.Mutex
	orders []models.Order
	err    error
}

func (n *recordingNotifier) OrderPlaced(_ context.Context, o models.Order) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.orders = append(n.orders, o)
	return n.err
}
