package transport

import (
	"net/http"
	"path/filepath"

	"atelier-catalog/internal/csrf"
	"atelier-catalog/internal/middleware"
	"atelier-catalog/internal/service"
	"atelier-catalog/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxImageUploadBytes = 10 << 20 // 10 MiB

// Form actions the admin submission endpoint dispatches on
const (
	actionCreate = "create"
	actionUpdate = "update"
	actionDelete = "delete"
)

// ProductFormResponse is returned when the admin form is rendered: the
// freshly issued CSRF token (also set as a cookie) and, for edits, the
// product being edited.
type ProductFormResponse struct {
	CSRFToken string `json:"csrf_token"`
	Product   any    `json:"product,omitempty"`
}

// ProductHandler handles the public catalog endpoints and the admin
// product form endpoints.
type ProductHandler struct {
	products     *service.ProductService
	blobs        storage.BlobStore
	secureCookie bool
	logger       *zap.Logger
}

// NewProductHandler creates a new ProductHandler. secureCookie marks
// issued CSRF cookies Secure and should be true in production.
func NewProductHandler(products *service.ProductService, blobs storage.BlobStore, secureCookie bool, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		products:     products,
		blobs:        blobs,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

// RegisterRoutes registers the public and admin product routes. The
// admin middleware chain (session guard, role check, rate limiter) is
// applied to the /admin subtree only.
func (h *ProductHandler) RegisterRoutes(r chi.Router, adminMiddleware ...func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/{id}", h.GetProduct)
	})

	r.Route("/admin/products", func(r chi.Router) {
		for _, mw := range adminMiddleware {
			r.Use(mw)
		}
		r.Get("/form", h.NewProductForm)
		r.Get("/{id}/form", h.EditProductForm)
		r.Post("/", h.SubmitProductForm)
		r.Post("/image", h.UploadProductImage)
	})
}

// ListProducts returns the whole catalog for the rendering layer
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	result := h.products.List(r.Context())
	if !result.Success {
		middleware.RespondWithError(w, http.StatusInternalServerError, result.Error)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, result.Data)
}

// GetProduct returns a single product by id
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	result := h.products.Get(r.Context(), id)
	if !result.Success {
		middleware.RespondWithError(w, http.StatusNotFound, result.Error)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, result.Data)
}

// NewProductForm issues a fresh CSRF token for the create form. The
// token travels twice: in the admin-scoped cookie set here and as a
// hidden field the form echoes back.
func (h *ProductHandler) NewProductForm(w http.ResponseWriter, r *http.Request) {
	token := csrf.GenerateToken()
	csrf.SetCookie(w, token, h.secureCookie)

	middleware.RespondWithJSON(w, http.StatusOK, ProductFormResponse{CSRFToken: token})
}

// EditProductForm loads the product being edited and issues a fresh
// CSRF token. Issuing a new token rotates the cookie, invalidating any
// previously rendered form.
func (h *ProductHandler) EditProductForm(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	result := h.products.Get(r.Context(), id)
	if !result.Success {
		middleware.RespondWithError(w, http.StatusNotFound, result.Error)
		return
	}

	token := csrf.GenerateToken()
	csrf.SetCookie(w, token, h.secureCookie)

	middleware.RespondWithJSON(w, http.StatusOK, ProductFormResponse{
		CSRFToken: token,
		Product:   result.Data,
	})
}

// SubmitProductForm is the single mutation endpoint the admin forms
// post to. The CSRF check runs before anything else; only then is the
// submission parsed, validated, and handed to the persistence gateway.
func (h *ProductHandler) SubmitProductForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid form submission")
		return
	}

	cookieToken := csrf.ReadCookie(r)
	formToken := r.PostForm.Get(csrf.FormField)
	if !csrf.ValidateTokens(cookieToken, formToken) {
		h.logger.Warn("CSRF token mismatch",
			zap.String("path", r.URL.Path),
			zap.String("remote_addr", r.RemoteAddr),
		)
		middleware.RespondWithError(w, http.StatusForbidden, "invalid csrf token")
		return
	}

	switch r.PostForm.Get("action") {
	case actionCreate:
		h.createProduct(w, r)
	case actionUpdate:
		h.updateProduct(w, r)
	case actionDelete:
		h.deleteProduct(w, r)
	default:
		middleware.RespondWithError(w, http.StatusBadRequest, "unknown action")
	}
}

func (h *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	data := service.ParseProductForm(r.PostForm)

	if errs := service.ValidateProductData(data); len(errs) > 0 {
		middleware.RespondWithValidationErrors(w, errs)
		return
	}

	result := h.products.Create(r.Context(), data)
	if !result.Success {
		middleware.RespondWithJSON(w, http.StatusInternalServerError, result)
		return
	}

	h.logger.Info("Product created", zap.String("slug", data.Slug))
	middleware.RespondWithJSON(w, http.StatusCreated, result)
}

func (h *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PostForm.Get("id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	data := service.ParseProductForm(r.PostForm)

	if errs := service.ValidateProductData(data); len(errs) > 0 {
		middleware.RespondWithValidationErrors(w, errs)
		return
	}

	result := h.products.Update(r.Context(), id, data)
	if !result.Success {
		middleware.RespondWithJSON(w, http.StatusInternalServerError, result)
		return
	}

	h.logger.Info("Product updated", zap.String("product_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, result)
}

func (h *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PostForm.Get("id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	result := h.products.Delete(r.Context(), id)
	if !result.Success {
		middleware.RespondWithJSON(w, http.StatusInternalServerError, result)
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// UploadProductImage streams an admin-submitted image to the blob
// store untouched and returns its public URL. No resizing, no format
// sniffing beyond the declared content type.
func (h *ProductHandler) UploadProductImage(w http.ResponseWriter, r *http.Request) {
	if h.blobs == nil {
		middleware.RespondWithError(w, http.StatusServiceUnavailable, "image storage not configured")
		return
	}

	if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid upload")
		return
	}

	cookieToken := csrf.ReadCookie(r)
	formToken := r.FormValue(csrf.FormField)
	if !csrf.ValidateTokens(cookieToken, formToken) {
		middleware.RespondWithError(w, http.StatusForbidden, "invalid csrf token")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	path := uuid.NewString() + filepath.Ext(header.Filename)

	imageURL, err := h.blobs.Upload(r.Context(), path, contentType, file)
	if err != nil {
		h.logger.Error("Image upload failed",
			zap.String("path", path),
			zap.Error(err),
		)
		middleware.RespondWithError(w, http.StatusInternalServerError, "could not upload image")
		return
	}

	h.logger.Info("Image uploaded", zap.String("path", path))
	middleware.RespondWithJSON(w, http.StatusCreated, map[string]string{"image_url": imageURL})
}
