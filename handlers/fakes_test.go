package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/imaginarygifts/storefront-backend-go/auth"
	"github.com/imaginarygifts/storefront-backend-go/checkout"
	"github.com/imaginarygifts/storefront-backend-go/database"
	"github.com/imaginarygifts/storefront-backend-go/models"
	"github.com/imaginarygifts/storefront-backend-go/payment"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// call runs h against a JSON request. params are name/value pairs for path parameters.
func call(t *testing.T, h echo.HandlerFunc, method, target, body string, params ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for i := 0; i+1 < len(params); i += 2 {
		c.SetParamNames(params[i])
		c.SetParamValues(params[i+1])
	}
	require.NoError(t, h(c))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decode(t, rec, &body)
	return body["error"]
}

type fakeCheckout struct {
	sel     checkout.Selection
	proof   *payment.Proof
	orderID string

	session checkout.Session
	start   checkout.PaymentStart
	order   models.Order
	err     error
}

func (f *fakeCheckout) Quote(_ context.Context, sel checkout.Selection) (checkout.Session, error) {
	f.sel = sel
	return f.session, f.err
}

func (f *fakeCheckout) StartPayment(_ context.Context, sel checkout.Selection) (checkout.PaymentStart, error) {
	f.sel = sel
	return f.start, f.err
}

func (f *fakeCheckout) PlaceOrder(_ context.Context, sel checkout.Selection, proof *payment.Proof) (models.Order, error) {
	f.sel = sel
	f.proof = proof
	return f.order, f.err
}

func (f *fakeCheckout) ConfirmPayment(_ context.Context, orderID string, proof payment.Proof) (*models.Order, error) {
	f.orderID = orderID
	f.proof = &proof
	if f.err != nil {
		return nil, f.err
	}
	o := f.order
	return &o, nil
}

type fakeCatalog struct {
	products   map[string]models.Product
	categories []models.Category
	category   string
	err        error
}

func (f *fakeCatalog) GetProduct(_ context.Context, id string) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, database.ErrProductNotFound
	}
	return &p, nil
}

func (f *fakeCatalog) ListProducts(_ context.Context, categoryID string) ([]models.Product, error) {
	f.category = categoryID
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Product
	for _, p := range f.products {
		if categoryID == "" || p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) ListCategories(context.Context) ([]models.Category, error) {
	return f.categories, f.err
}

func (f *fakeCatalog) CategoryNames(context.Context) (map[string]string, error) {
	names := map[string]string{}
	for _, c := range f.categories {
		names[c.ID] = c.Name
	}
	return names, f.err
}

func (f *fakeCatalog) CountProducts(context.Context) (int64, error) {
	return int64(len(f.products)), f.err
}

func (f *fakeCatalog) CountCategories(context.Context) (int64, error) {
	return int64(len(f.categories)), f.err
}

type fakeOrders struct {
	orders []models.Order
	err    error
}

func (f *fakeOrders) find(id string) int {
	for i, o := range f.orders {
		if o.ID.Hex() == id {
			return i
		}
	}
	return -1
}

func (f *fakeOrders) Get(_ context.Context, id string) (*models.Order, error) {
	i := f.find(id)
	if i < 0 {
		return nil, database.ErrOrderNotFound
	}
	o := f.orders[i]
	return &o, nil
}

func (f *fakeOrders) ListAll(context.Context) ([]models.Order, error) {
	return f.orders, f.err
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id string, status models.OrderStatus, at time.Time) (*models.Order, error) {
	i := f.find(id)
	if i < 0 {
		return nil, database.ErrOrderNotFound
	}
	f.orders[i].Status = status
	if f.orders[i].Timeline == nil {
		f.orders[i].Timeline = map[string]time.Time{}
	}
	f.orders[i].Timeline[string(status)] = at
	o := f.orders[i]
	return &o, nil
}

func (f *fakeOrders) Count(context.Context) (int64, error) {
	return int64(len(f.orders)), f.err
}

type fakeOTP struct {
	phone   string
	code    string
	session auth.Session
	err     error
}

func (f *fakeOTP) Send(_ context.Context, rawPhone string) (string, error) {
	f.phone = rawPhone
	if f.err != nil {
		return "", f.err
	}
	return "+91" + rawPhone, nil
}

func (f *fakeOTP) Verify(_ context.Context, rawPhone, code string) (auth.Session, error) {
	f.phone, f.code = rawPhone, code
	return f.session, f.err
}

type fakeProfiles struct {
	users map[primitive.ObjectID]*models.User
}

func (f *fakeProfiles) Get(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, database.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeProfiles) UpdateProfile(_ context.Context, id primitive.ObjectID, p database.Profile) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, database.ErrUserNotFound
	}
	u.Name, u.Address, u.Pincode = p.Name, p.Address, p.Pincode
	return u, nil
}
