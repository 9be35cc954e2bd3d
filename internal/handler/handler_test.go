package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"printshop-orders/internal/middleware"
	"printshop-orders/internal/model"
	"printshop-orders/internal/repository/memory"
	"printshop-orders/internal/service"
	"printshop-orders/pkg/jwt"
	"printshop-orders/pkg/logger"
	"printshop-orders/pkg/numeric"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var secret = []byte("handler-test-secret")

type users map[uuid.UUID]*model.User

func (u users) FindByEmail(string) (*model.User, error) { return nil, gorm.ErrRecordNotFound }
func (u users) Create(*model.User) error                { return nil }
func (u users) FindByID(id uuid.UUID) (*model.User, error) {
	if found, ok := u[id]; ok {
		return found, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fixture struct {
	app      *fiber.App
	branch   model.Branch
	customer model.Customer
	banner   model.BranchProduct
	operator string
	outsider string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	f := &fixture{}
	f.branch = store.AddBranch(model.Branch{Name: "Centro", IsActive: true})
	f.customer = store.AddCustomer(model.Customer{FullName: "Ana", IsActive: true})
	f.banner = store.AddBranchProduct(model.BranchProduct{
		BranchID: f.branch.ID,
		Price:    numeric.MustParse("100"),
		IsActive: true,
		Product: model.Product{
			Name:     "Lona",
			UnitKind: model.UnitMeter,
			MinQty:   numeric.MustParse("0.5"),
			IsActive: true,
		},
	})

	op := &model.User{FullName: "Luis", RoleCode: model.RoleOperator, BranchID: &f.branch.ID, IsActive: true}
	op.ID = uuid.New()
	otherBranch := uuid.New()
	out := &model.User{FullName: "Eva", RoleCode: model.RoleOperator, BranchID: &otherBranch, IsActive: true}
	out.ID = uuid.New()
	f.operator = sign(t, op)
	f.outsider = sign(t, out)

	log := logger.Discard()
	f.app = fiber.New()
	RegisterRoutes(f.app.Group("/api/v1"), middleware.RequireAuth(secret, users{op.ID: op, out.ID: out}), Handlers{
		Orders:      NewOrderHandler(service.NewOrderService(store, service.NopNotifier{}, log)),
		Fulfillment: NewFulfillmentHandler(service.NewFulfillmentService(store, service.NopNotifier{}, log)),
		Pricing:     NewPricingHandler(service.NewPricingService(store, log)),
	})
	return f
}

func sign(t *testing.T, u *model.User) string {
	t.Helper()
	tok, err := jwt.GenerateToken(secret, u.ID, u.FullName, u.RoleCode, *u.BranchID, time.Hour)
	require.NoError(t, err)
	return tok
}

type envelope struct {
	Error string          `json:"error"`
	Code  string          `json:"code"`
	Kind  string          `json:"kind"`
	Data  json.RawMessage `json:"data"`
}

func (f *fixture) do(t *testing.T, method, path, token, body string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func (f *fixture) orderBody(qty string) string {
	return fmt.Sprintf(`{
		"branch_id": %q,
		"pickup_branch_id": %q,
		"customer_id": %q,
		"payment_method": "CASH",
		"lines": [{"product_id": %q, "quantity": %q}]
	}`, f.branch.ID, f.branch.ID, f.customer.ID, f.banner.ProductID, qty)
}

func TestOrderLifecycle(t *testing.T) {
	f := newFixture(t)

	status, env := f.do(t, http.MethodPost, "/api/v1/orders", f.operator, f.orderBody("2.5"))
	require.Equal(t, http.StatusCreated, status, env.Error)
	var created service.CreateOrderResult
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.True(t, created.Total.Equal(numeric.MustParse("250")))

	status, env = f.do(t, http.MethodGet, "/api/v1/orders/"+created.OrderID.String(), f.operator, "")
	require.Equal(t, http.StatusOK, status)
	var order model.Order
	require.NoError(t, json.Unmarshal(env.Data, &order))
	require.Len(t, order.Items, 1)
	itemID := order.Items[0].ID

	status, env = f.do(t, http.MethodPost, "/api/v1/items/"+itemID.String()+"/advance", f.operator, "")
	require.Equal(t, http.StatusOK, status)
	var advanced service.AdvanceResult
	require.NoError(t, json.Unmarshal(env.Data, &advanced))
	assert.True(t, advanced.ItemReady)
	assert.Equal(t, model.StageReady, advanced.OrderStage)

	status, _ = f.do(t, http.MethodPatch, "/api/v1/orders/"+created.OrderID.String(), f.operator, `{"notes": "frágil"}`)
	assert.Equal(t, http.StatusOK, status)

	status, _ = f.do(t, http.MethodPost, "/api/v1/orders/"+created.OrderID.String()+"/deliver", f.operator, "")
	assert.Equal(t, http.StatusOK, status)

	status, env = f.do(t, http.MethodPost, "/api/v1/items/"+itemID.String()+"/advance", f.operator, "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "ORDER_DELIVERED", env.Code)
	assert.Equal(t, string(service.KindConflict), env.Kind)
}

func TestOrderErrors(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		status int
		code   string
	}{
		{"malformed json", http.MethodPost, "/api/v1/orders", f.operator, `{"lines":`, 400, ""},
		{"below minimum", http.MethodPost, "/api/v1/orders", f.operator, f.orderBody("0.25"), 400, "BELOW_MINIMUM_QUANTITY"},
		{"other branch", http.MethodPost, "/api/v1/orders", f.outsider, f.orderBody("1"), 403, "NOT_AUTHORIZED"},
		{"bad order id", http.MethodGet, "/api/v1/orders/nope", f.operator, "", 400, ""},
		{"unknown order", http.MethodGet, "/api/v1/orders/" + uuid.NewString(), f.operator, "", 404, "ORDER_NOT_FOUND"},
		{"unknown item", http.MethodPost, "/api/v1/items/" + uuid.NewString() + "/advance", f.operator, "", 404, "ITEM_NOT_FOUND"},
		{"no token", http.MethodGet, "/api/v1/orders/" + uuid.NewString(), "", "", 401, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := f.do(t, tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.status, status, env.Error)
			assert.Equal(t, tt.code, env.Code)
		})
	}
}

func TestQuoteEndpoint(t *testing.T) {
	f := newFixture(t)
	body := fmt.Sprintf(`{"branch_id": %q, "product_id": %q, "quantity": 3}`, f.branch.ID, f.banner.ProductID)

	status, env := f.do(t, http.MethodPost, "/api/v1/quotes", f.operator, body)
	require.Equal(t, http.StatusOK, status, env.Error)
	var quote service.QuoteResult
	require.NoError(t, json.Unmarshal(env.Data, &quote))
	assert.True(t, quote.Subtotal.Equal(numeric.MustParse("300")))
	assert.Equal(t, "Lona", quote.ProductName)
}

func TestRespondErrorHidesInternalDetails(t *testing.T) {
	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return respondError(c, errors.New("pq: password authentication failed"))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, 400, statusFor(service.KindValidation))
	assert.Equal(t, 404, statusFor(service.KindNotFound))
	assert.Equal(t, 403, statusFor(service.KindNotAuthorized))
	assert.Equal(t, 409, statusFor(service.KindConflict))
	assert.Equal(t, 500, statusFor(service.KindInternal))
}
