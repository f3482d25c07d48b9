package transport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"atelier-catalog/internal/csrf"
	"atelier-catalog/internal/domain"
	"atelier-catalog/internal/repository"
	"atelier-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubProductStore struct {
	products map[uuid.UUID]*domain.Product
}

func newStubProductStore() *stubProductStore {
	return &stubProductStore{products: make(map[uuid.UUID]*domain.Product)}
}

func (s *stubProductStore) Insert(ctx context.Context, product *domain.Product) error {
	s.products[product.ID] = product
	return nil
}

func (s *stubProductStore) Update(ctx context.Context, product *domain.Product) error {
	if _, exists := s.products[product.ID]; !exists {
		return repository.ErrProductNotFound
	}
	s.products[product.ID] = product
	return nil
}

func (s *stubProductStore) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, exists := s.products[id]
	if !exists {
		return nil, repository.ErrProductNotFound
	}
	return product, nil
}

func (s *stubProductStore) FindImageURL(ctx context.Context, id uuid.UUID) (string, error) {
	product, exists := s.products[id]
	if !exists {
		return "", repository.ErrProductNotFound
	}
	if product.ImageURL == nil {
		return "", nil
	}
	return *product.ImageURL, nil
}

func (s *stubProductStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := s.products[id]; !exists {
		return repository.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *stubProductStore) List(ctx context.Context) ([]*domain.Product, error) {
	products := []*domain.Product{}
	for _, p := range s.products {
		products = append(products, p)
	}
	return products, nil
}

func newTestRouter(store *stubProductStore) *chi.Mux {
	logger := zap.NewNop()
	products := service.NewProductService(store, nil, logger)
	handler := NewProductHandler(products, nil, false, logger)

	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

// issueToken renders the admin form and returns the issued token plus
// the cookie carrying it, the way a browser would hold both.
func issueToken(t *testing.T, router *chi.Mux) (string, []*http.Cookie) {
	t.Helper()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/products/form", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp ProductFormResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.CSRFToken)

	return resp.CSRFToken, w.Result().Cookies()
}

func postForm(router *chi.Mux, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/admin/products", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, cookie := range cookies {
		r.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func validCreateForm(token string) url.Values {
	return url.Values{
		"action":     {"create"},
		"csrf_token": {token},
		"slug":       {"ceai-de-menta"},
		"name":       {"Ceai de menta"},
		"price":      {"18.00"},
		"currency":   {"RON"},
		"tags":       {"ceai, bio"},
		"in_stock":   {"true"},
	}
}

func TestNewProductForm_IssuesTokenAndCookie(t *testing.T) {
	router := newTestRouter(newStubProductStore())

	token, cookies := issueToken(t, router)

	require.Len(t, cookies, 1)
	assert.Equal(t, csrf.CookieName, cookies[0].Name)
	assert.Equal(t, token, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestSubmit_RejectsMissingCSRFToken(t *testing.T) {
	router := newTestRouter(newStubProductStore())

	w := postForm(router, validCreateForm(""), nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSubmit_RejectsTokenWithoutCookie(t *testing.T) {
	router := newTestRouter(newStubProductStore())
	token, _ := issueToken(t, router)

	w := postForm(router, validCreateForm(token), nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSubmit_RejectsMismatchedToken(t *testing.T) {
	router := newTestRouter(newStubProductStore())
	_, cookies := issueToken(t, router)

	w := postForm(router, validCreateForm(csrf.GenerateToken()), cookies)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

// Token rotation: a token issued for an earlier form no longer matches
// after the cookie was overwritten by a newer one.
func TestSubmit_RejectsRotatedToken(t *testing.T) {
	router := newTestRouter(newStubProductStore())
	oldToken, _ := issueToken(t, router)
	_, newCookies := issueToken(t, router)

	w := postForm(router, validCreateForm(oldToken), newCookies)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSubmit_CreateHappyPath(t *testing.T) {
	store := newStubProductStore()
	router := newTestRouter(store)
	token, cookies := issueToken(t, router)

	w := postForm(router, validCreateForm(token), cookies)

	require.Equal(t, http.StatusCreated, w.Code)

	var result service.Result[struct{}]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)

	require.Len(t, store.products, 1)
	for _, product := range store.products {
		assert.Equal(t, "ceai-de-menta", product.Slug)
		assert.Equal(t, []string{"ceai", "bio"}, product.Tags)
		assert.True(t, product.InStock)
	}
}

func TestSubmit_CreateValidationFailureListsEveryField(t *testing.T) {
	store := newStubProductStore()
	router := newTestRouter(store)
	token, cookies := issueToken(t, router)

	form := validCreateForm(token)
	form.Set("slug", "NOT A SLUG")
	form.Set("name", "")
	form.Set("currency", "USD")

	w := postForm(router, form, cookies)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, store.products)

	body, _ := io.ReadAll(w.Body)
	payload := string(body)
	assert.Contains(t, payload, "validation_errors")
	assert.Contains(t, payload, `"slug"`)
	assert.Contains(t, payload, `"name"`)
	assert.Contains(t, payload, `"currency"`)
}

func TestSubmit_Update(t *testing.T) {
	store := newStubProductStore()
	id := uuid.New()
	store.products[id] = &domain.Product{ID: id, Slug: "ceai-de-menta", Name: "Ceai"}

	router := newTestRouter(store)
	token, cookies := issueToken(t, router)

	form := validCreateForm(token)
	form.Set("action", "update")
	form.Set("id", id.String())
	form.Set("name", "Ceai de menta proaspata")

	w := postForm(router, form, cookies)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Ceai de menta proaspata", store.products[id].Name)
}

func TestSubmit_Delete(t *testing.T) {
	store := newStubProductStore()
	id := uuid.New()
	store.products[id] = &domain.Product{ID: id, Slug: "ceai-de-menta", Name: "Ceai"}

	router := newTestRouter(store)
	token, cookies := issueToken(t, router)

	form := url.Values{
		"action":     {"delete"},
		"csrf_token": {token},
		"id":         {id.String()},
	}

	w := postForm(router, form, cookies)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, store.products)
}

func TestSubmit_UnknownActionRejected(t *testing.T) {
	router := newTestRouter(newStubProductStore())
	token, cookies := issueToken(t, router)

	form := validCreateForm(token)
	form.Set("action", "publish")

	w := postForm(router, form, cookies)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmit_InvalidIDRejected(t *testing.T) {
	router := newTestRouter(newStubProductStore())
	token, cookies := issueToken(t, router)

	form := url.Values{
		"action":     {"delete"},
		"csrf_token": {token},
		"id":         {"not-a-uuid"},
	}

	w := postForm(router, form, cookies)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListProducts(t *testing.T) {
	store := newStubProductStore()
	id := uuid.New()
	store.products[id] = &domain.Product{ID: id, Slug: "ceai-de-menta", Name: "Ceai"}
	router := newTestRouter(store)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var products []*domain.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	assert.Len(t, products, 1)
}

func TestGetProduct(t *testing.T) {
	store := newStubProductStore()
	id := uuid.New()
	store.products[id] = &domain.Product{ID: id, Slug: "ceai-de-menta", Name: "Ceai"}
	router := newTestRouter(store)

	t.Run("found", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products/"+id.String(), nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products/not-a-uuid", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products/"+uuid.NewString(), nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestUploadProductImage_UnconfiguredStorage(t *testing.T) {
	router := newTestRouter(newStubProductStore())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/products/image", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
