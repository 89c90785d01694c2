// Package backend is the HTTP client for the bookstore REST API. It
// owns every request the storefront makes: catalog reads, the token
// and registration endpoints, cart synchronization, checkout session
// creation and the vendor surface. Requests are JSON over HTTP with a
// bearer token where required; failures are terminal for the current
// call, there is no retry policy and the user retries manually.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"bookshop/internal/product"
)

// Client talks to the backend API. Safe for sequential use from a
// single goroutine, which is all the storefront needs.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// NewClient returns a client for the API rooted at baseURL, sending
// at most rps requests per second.
func NewClient(baseURL string, rps int) *Client {
	if rps < 1 {
		rps = 1
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL: baseURL,
		limiter: rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
	}
}

// ---- products ----

// Products fetches the full product list. No caching, no pagination;
// callers re-fetch per page view.
func (c *Client) Products(ctx context.Context) ([]product.Product, error) {
	var out []product.Product
	if err := c.do(ctx, http.MethodGet, "/products/", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchProducts runs a backend-side product search.
func (c *Client) SearchProducts(ctx context.Context, query string) ([]product.Product, error) {
	var out []product.Product
	path := "/products/?search=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Product fetches a single product by id.
func (c *Client) Product(ctx context.Context, id int) (*product.Product, error) {
	var out product.Product
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d/", id), "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---- authentication ----

// Register creates a user account.
func (c *Client) Register(ctx context.Context, in RegisterInput) error {
	return c.do(ctx, http.MethodPost, "/users/register/", "", in, nil)
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	body := map[string]string{"email": email, "password": password}
	var out TokenPair
	if err := c.do(ctx, http.MethodPost, "/token/", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RefreshToken exchanges a refresh token for a fresh token pair.
func (c *Client) RefreshToken(ctx context.Context, refresh string) (*TokenPair, error) {
	body := map[string]string{"refresh": refresh}
	var out TokenPair
	if err := c.do(ctx, http.MethodPost, "/token/refresh/", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RequestPasswordReset asks the backend to mail a reset link.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, "/password-reset/", "", body, nil)
}

// ConfirmPasswordReset sets a new password using the uid and token
// from the reset link.
func (c *Client) ConfirmPasswordReset(ctx context.Context, uid, token, newPassword string) error {
	body := map[string]string{"uid": uid, "token": token, "new_password": newPassword}
	return c.do(ctx, http.MethodPost, "/password-reset-confirm/", "", body, nil)
}

// ---- cart & checkout ----

// RemoteCartLine is one line of the backend-side cart.
type RemoteCartLine struct {
	ProductID int           `json:"product_id"`
	Quantity  int           `json:"quantity"`
	Name      string        `json:"name,omitempty"`
	Price     product.Price `json:"price,omitempty"`
}

// Cart fetches the backend-side cart.
func (c *Client) Cart(ctx context.Context, token string) ([]RemoteCartLine, error) {
	var out []RemoteCartLine
	if err := c.do(ctx, http.MethodGet, "/cart/", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddToCart adds quantity of a product to the backend-side cart. The
// call carries an Idempotency-Key header so that a checkout retry
// does not double lines the backend already recorded.
func (c *Client) AddToCart(ctx context.Context, token string, productID, quantity int) error {
	body := map[string]int{"product_id": productID, "quantity": quantity}
	req, err := c.newRequest(ctx, http.MethodPost, "/cart/add/", token, body)
	if err != nil {
		return err
	}
	req.Header.Set("Idempotency-Key", uuid.NewString())
	return c.send(req, nil)
}

// CreateCheckoutSession requests a hosted payment session for the
// backend-side cart. The legacy body shape carries an empty cart
// list; the backend uses the cart synced via AddToCart.
func (c *Client) CreateCheckoutSession(ctx context.Context, token string) (*CheckoutSession, error) {
	body := map[string]any{"cart": []any{}}
	var out CheckoutSession
	if err := c.do(ctx, http.MethodPost, "/payments/create-checkout-session/", token, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---- profile & vendors ----

// UserProfile fetches the authenticated user's profile.
func (c *Client) UserProfile(ctx context.Context, token string) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodGet, "/users/me/", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VendorCompanies lists the registered vendor companies. Public, used
// by the vendor registration form.
func (c *Client) VendorCompanies(ctx context.Context) ([]VendorCompany, error) {
	var out []VendorCompany
	if err := c.do(ctx, http.MethodGet, "/users/vendor/companies/", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RegisterVendor registers a user under a vendor company.
func (c *Client) RegisterVendor(ctx context.Context, in VendorRegisterInput) error {
	return c.do(ctx, http.MethodPost, "/auth/vendor/register/", "", in, nil)
}

// VendorProducts lists the products owned by the authenticated vendor.
func (c *Client) VendorProducts(ctx context.Context, token string) ([]product.Product, error) {
	var out []product.Product
	if err := c.do(ctx, http.MethodGet, "/vendor/products/", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// VendorProduct fetches one vendor-owned product.
func (c *Client) VendorProduct(ctx context.Context, token string, id int) (*product.Product, error) {
	var out product.Product
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/vendor/products/%d/", id), token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateVendorProduct patches the editable fields of a vendor-owned
// product and returns the updated record.
func (c *Client) UpdateVendorProduct(ctx context.Context, token string, id int, upd ProductUpdate) (*product.Product, error) {
	var out product.Product
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/vendor/products/%d/", id), token, upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadedImage is the image upload response.
type UploadedImage struct {
	ImageURL string `json:"image_url,omitempty"`
	RawURL   string `json:"url,omitempty"`
}

// URL returns whichever field the backend populated.
func (u UploadedImage) URL() string {
	if u.ImageURL != "" {
		return u.ImageURL
	}
	return u.RawURL
}

// UploadProductImage uploads an image file as multipart form data
// under the "image" field and returns the stored image URL.
func (c *Client) UploadProductImage(ctx context.Context, token, path string) (*UploadedImage, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/vendor/upload-image/", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	var out UploadedImage
	if err := c.send(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VendorAnalytics fetches the authenticated vendor's sales analytics.
func (c *Client) VendorAnalytics(ctx context.Context, token string) (*Analytics, error) {
	var out Analytics
	if err := c.do(ctx, http.MethodGet, "/vendor/analytics/", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---- plumbing ----

func (c *Client) newRequest(ctx context.Context, method, path, token string, body any) (*http.Request, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) send(req *http.Request, target any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		return newAPIError(resp.StatusCode, body)
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("backend: decode response: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body, target any) error {
	req, err := c.newRequest(ctx, method, path, token, body)
	if err != nil {
		return err
	}
	return c.send(req, target)
}
