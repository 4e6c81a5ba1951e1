package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"book-marketplace/internal/domains/book/model"
	"book-marketplace/internal/shared/response"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) books(args mock.Arguments) ([]model.Book, error) {
	b, _ := args.Get(0).([]model.Book)
	return b, args.Error(1)
}

func (m *mockService) book(args mock.Arguments) (*model.Book, error) {
	b, _ := args.Get(0).(*model.Book)
	return b, args.Error(1)
}

func (m *mockService) CreateBook(ctx context.Context, req model.BookRequest) (*model.Book, error) {
	return m.book(m.Called(ctx, req))
}

func (m *mockService) ListBooks(ctx context.Context) ([]model.Book, error) {
	return m.books(m.Called(ctx))
}

func (m *mockService) ListByStatus(ctx context.Context, status model.BookStatus) ([]model.Book, error) {
	return m.books(m.Called(ctx, status))
}

func (m *mockService) ListAvailable(ctx context.Context) ([]model.Book, error) {
	return m.books(m.Called(ctx))
}

func (m *mockService) ListBySeller(ctx context.Context, sellerID int64) ([]model.Book, error) {
	return m.books(m.Called(ctx, sellerID))
}

func (m *mockService) GetBook(ctx context.Context, id int64) (*model.Book, error) {
	return m.book(m.Called(ctx, id))
}

func (m *mockService) GetBookFresh(ctx context.Context, id int64) (*model.Book, error) {
	return m.book(m.Called(ctx, id))
}

func (m *mockService) UpdateBook(ctx context.Context, id int64, req model.BookRequest) (*model.Book, error) {
	return m.book(m.Called(ctx, id, req))
}

func (m *mockService) UpdateQuantity(ctx context.Context, id int64, quantity int) (*model.Book, error) {
	return m.book(m.Called(ctx, id, quantity))
}

func (m *mockService) DecrementStock(ctx context.Context, id int64, quantity int) (*model.Book, error) {
	return m.book(m.Called(ctx, id, quantity))
}

func (m *mockService) RestoreStock(ctx context.Context, id int64, quantity int, orderRef string) (*model.Book, error) {
	return m.book(m.Called(ctx, id, quantity, orderRef))
}

func (m *mockService) DeleteBook(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func setup() (*gin.Engine, *mockService) {
	gin.SetMode(gin.TestMode)
	svc := new(mockService)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r)
	return r, svc
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body response.Error
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Code
}

func TestGetBook(t *testing.T) {
	r, svc := setup()
	svc.On("GetBook", mock.Anything, int64(1)).Return(&model.Book{
		ID:       1,
		Title:    "Dune",
		Price:    decimal.RequireFromString("12.50"),
		Quantity: 2,
		SellerID: 5,
		Status:   model.BookStatusAvailable,
	}, nil)

	w := do(r, http.MethodGet, "/books/1", "")

	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Dune", got["title"])
	assert.Equal(t, float64(5), got["sellerId"])
	assert.Equal(t, "AVAILABLE", got["status"])
}

func TestGetBookNotFound(t *testing.T) {
	r, svc := setup()
	svc.On("GetBook", mock.Anything, int64(42)).Return(nil, model.ErrBookNotFound)

	w := do(r, http.MethodGet, "/books/42", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "BOOK_NOT_FOUND", errorCode(t, w))
}

func TestGetBookInvalidID(t *testing.T) {
	r, _ := setup()

	w := do(r, http.MethodGet, "/books/abc", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListRoutes(t *testing.T) {
	r, svc := setup()
	svc.On("ListBooks", mock.Anything).Return([]model.Book{{ID: 1}, {ID: 2}}, nil)
	svc.On("ListAvailable", mock.Anything).Return([]model.Book{{ID: 1}}, nil)
	svc.On("ListBySeller", mock.Anything, int64(5)).Return([]model.Book{}, nil)
	svc.On("ListByStatus", mock.Anything, model.BookStatusSoldOut).Return([]model.Book{{ID: 2}}, nil)

	tests := []struct {
		path string
		want int
	}{
		{"/books", 2},
		{"/books/available", 1},
		{"/books/seller/5", 0},
		{"/books?status=SOLD_OUT", 1},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := do(r, http.MethodGet, tt.path, "")

			require.Equal(t, http.StatusOK, w.Code)
			var got []model.Book
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Len(t, got, tt.want)
		})
	}
}

func TestListBooksUnknownStatus(t *testing.T) {
	r, _ := setup()

	w := do(r, http.MethodGet, "/books?status=LOST", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_STATUS", errorCode(t, w))
}

func TestCreateBook(t *testing.T) {
	r, svc := setup()
	svc.On("CreateBook", mock.Anything, mock.MatchedBy(func(req model.BookRequest) bool {
		return req.Title == "Dune" && req.Quantity != nil && *req.Quantity == 3 && req.SellerID == 5
	})).Return(&model.Book{ID: 7, Title: "Dune", Quantity: 3, Status: model.BookStatusAvailable}, nil)

	w := do(r, http.MethodPost, "/books", `{"title":"Dune","price":9.5,"quantity":3,"sellerId":5}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestCreateBookMalformedBody(t *testing.T) {
	r, _ := setup()

	w := do(r, http.MethodPost, "/books", `{"title":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateQuantityRequiresQuantity(t *testing.T) {
	r, svc := setup()

	w := do(r, http.MethodPut, "/books/1/quantity", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
	svc.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateQuantity(t *testing.T) {
	r, svc := setup()
	svc.On("UpdateQuantity", mock.Anything, int64(1), 0).
		Return(&model.Book{ID: 1, Quantity: 0, Status: model.BookStatusSoldOut}, nil)

	w := do(r, http.MethodPut, "/books/1/quantity", `{"quantity":0}`)

	require.Equal(t, http.StatusOK, w.Code)
	var got model.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, model.BookStatusSoldOut, got.Status)
}

func TestDecrementInsufficientIsConflict(t *testing.T) {
	r, svc := setup()
	svc.On("DecrementStock", mock.Anything, int64(1), 4).Return(nil, model.ErrInsufficientStock)

	w := do(r, http.MethodPost, "/books/1/decrement", `{"quantity":4}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, w))
}

func TestRestock(t *testing.T) {
	r, svc := setup()
	svc.On("RestoreStock", mock.Anything, int64(1), 2, "").
		Return(&model.Book{ID: 1, Quantity: 2, Status: model.BookStatusAvailable}, nil)

	w := do(r, http.MethodPost, "/books/1/restock", `{"quantity":2}`)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestRestockPassesOrderRef(t *testing.T) {
	r, svc := setup()
	svc.On("RestoreStock", mock.Anything, int64(1), 3, "ref-42").
		Return(&model.Book{ID: 1, Quantity: 5, Status: model.BookStatusAvailable}, nil)

	w := do(r, http.MethodPost, "/books/1/restock", `{"quantity":3,"orderRef":"ref-42"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestGetBookNoCacheReadsFresh(t *testing.T) {
	r, svc := setup()
	svc.On("GetBookFresh", mock.Anything, int64(1)).
		Return(&model.Book{ID: 1, Quantity: 2, Status: model.BookStatusAvailable}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/books/1", nil)
	req.Header.Set("Cache-Control", "no-cache")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
	svc.AssertNotCalled(t, "GetBook", mock.Anything, mock.Anything)
}

func TestDeleteBook(t *testing.T) {
	r, svc := setup()
	svc.On("DeleteBook", mock.Anything, int64(99)).Return(nil)

	w := do(r, http.MethodDelete, "/books/99", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, w.Body.Len())
}
