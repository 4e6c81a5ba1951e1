package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"book-marketplace/internal/domains/order/model"
	"book-marketplace/internal/shared/response"
)

type mockOrderService struct {
	mock.Mock
}

func (m *mockOrderService) order(args mock.Arguments) (*model.Order, error) {
	o, _ := args.Get(0).(*model.Order)
	return o, args.Error(1)
}

func (m *mockOrderService) orders(args mock.Arguments) ([]model.Order, error) {
	o, _ := args.Get(0).([]model.Order)
	return o, args.Error(1)
}

func (m *mockOrderService) Purchase(ctx context.Context, req model.PurchaseRequest) (*model.Order, error) {
	return m.order(m.Called(ctx, req))
}

func (m *mockOrderService) ListByBuyer(ctx context.Context, buyerID int64) ([]model.Order, error) {
	return m.orders(m.Called(ctx, buyerID))
}

func (m *mockOrderService) ListBySeller(ctx context.Context, sellerID int64) ([]model.Order, error) {
	return m.orders(m.Called(ctx, sellerID))
}

func (m *mockOrderService) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	return m.order(m.Called(ctx, id))
}

func (m *mockOrderService) UpdateStatus(ctx context.Context, id int64, status string) (*model.Order, error) {
	return m.order(m.Called(ctx, id, status))
}

func setup() (*gin.Engine, *mockOrderService) {
	gin.SetMode(gin.TestMode)
	svc := new(mockOrderService)
	r := gin.New()
	NewOrderHandler(svc).RegisterRoutes(r)
	return r, svc
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.Error {
	t.Helper()
	var body response.Error
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestPurchase(t *testing.T) {
	r, svc := setup()
	req := model.PurchaseRequest{BuyerID: 2, BookID: 1, Quantity: 3}
	svc.On("Purchase", mock.Anything, req).Return(&model.Order{
		ID:         10,
		BuyerID:    2,
		BookID:     1,
		SellerID:   7,
		Quantity:   3,
		TotalPrice: decimal.NewFromInt(30),
		Status:     model.OrderStatusCompleted,
	}, nil)

	w := do(r, http.MethodPost, "/orders/purchase", `{"buyerId":2,"bookId":1,"quantity":3}`)

	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "COMPLETED", got["status"])
	assert.Equal(t, float64(7), got["sellerId"])
	assert.Contains(t, got, "totalPrice")
	assert.Contains(t, got, "orderDate")
}

func TestPurchaseErrors(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{model.ErrInsufficientStock, http.StatusBadRequest, "Insufficient stock"},
		{model.ErrBookNotFound, http.StatusBadRequest, "Book not found"},
		{fmt.Errorf("%w: dial tcp", model.ErrBookStoreUnavailable), http.StatusBadGateway, "book store unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			r, svc := setup()
			svc.On("Purchase", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := do(r, http.MethodPost, "/orders/purchase", `{"buyerId":2,"bookId":1,"quantity":3}`)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.message, decodeError(t, w).Error)
		})
	}
}

func TestPurchaseMalformedBody(t *testing.T) {
	r, svc := setup()

	w := do(r, http.MethodPost, "/orders/purchase", `{"buyerId":"x"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Purchase", mock.Anything, mock.Anything)
}

func TestListByBuyerEmpty(t *testing.T) {
	r, svc := setup()
	svc.On("ListByBuyer", mock.Anything, int64(99)).Return([]model.Order{}, nil)

	w := do(r, http.MethodGet, "/orders/buyer/99", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestListBySeller(t *testing.T) {
	r, svc := setup()
	svc.On("ListBySeller", mock.Anything, int64(7)).Return([]model.Order{{ID: 1}, {ID: 2}}, nil)

	w := do(r, http.MethodGet, "/orders/seller/7", "")

	require.Equal(t, http.StatusOK, w.Code)
	var got []model.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got, 2)
}

func TestGetOrderNotFound(t *testing.T) {
	r, svc := setup()
	svc.On("GetByID", mock.Anything, int64(5)).Return(nil, model.ErrOrderNotFound)

	w := do(r, http.MethodGet, "/orders/5", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ORDER_NOT_FOUND", decodeError(t, w).Code)
}

func TestUpdateStatus(t *testing.T) {
	r, svc := setup()
	svc.On("UpdateStatus", mock.Anything, int64(1), "CANCELLED").
		Return(&model.Order{ID: 1, Status: model.OrderStatusCancelled}, nil)

	w := do(r, http.MethodPut, "/orders/1/status", `{"status":"CANCELLED"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestUpdateStatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"unknown status", model.ErrInvalidStatus, http.StatusBadRequest},
		{"illegal transition", model.ErrInvalidTransition, http.StatusConflict},
		{"missing order", model.ErrOrderNotFound, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, svc := setup()
			svc.On("UpdateStatus", mock.Anything, int64(1), "PENDING").Return(nil, tt.err)

			w := do(r, http.MethodPut, "/orders/1/status", `{"status":"PENDING"}`)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestUpdateStatusMissingField(t *testing.T) {
	r, svc := setup()

	w := do(r, http.MethodPut, "/orders/1/status", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}
