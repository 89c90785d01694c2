package backend

// TokenPair matches the token endpoint response.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RegisterInput is the user registration payload.
type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// VendorRegisterInput registers a user against an existing vendor
// company, authorized by the company password.
type VendorRegisterInput struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	VendorID        int    `json:"vendor_id"`
	CompanyPassword string `json:"company_password"`
}

// VendorCompany is one entry of the public vendor company listing.
type VendorCompany struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Profile is the authenticated user's profile.
type Profile struct {
	ID        int    `json:"id,omitempty"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	IsVendor  bool   `json:"is_vendor,omitempty"`
}

// CheckoutSession is the hosted payment session response. Older
// backend versions return checkout_url instead of url.
type CheckoutSession struct {
	URL         string `json:"url,omitempty"`
	CheckoutURL string `json:"checkout_url,omitempty"`
}

// RedirectURL returns the session URL regardless of which field the
// backend populated, or "" when neither is set.
func (s CheckoutSession) RedirectURL() string {
	if s.URL != "" {
		return s.URL
	}
	return s.CheckoutURL
}

// ProductUpdate is the vendor product PATCH payload; nil fields are
// left unchanged.
type ProductUpdate struct {
	Description     *string `json:"description,omitempty"`
	Pages           *int    `json:"pages,omitempty"`
	PublicationYear *int    `json:"publication_year,omitempty"`
	Image           *string `json:"image,omitempty"`
}

// Analytics is the vendor analytics payload.
type Analytics struct {
	TotalSales   int                `json:"total_sales"`
	TotalRevenue float64            `json:"total_revenue"`
	TotalOrders  int                `json:"total_orders"`
	TopProducts  []ProductSales     `json:"top_products,omitempty"`
	SalesByMonth []MonthlySales     `json:"sales_by_month,omitempty"`
	SalesByFmt   map[string]float64 `json:"sales_by_format,omitempty"`
}

// ProductSales is one row of the top-products analytics table.
type ProductSales struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	SalesCount int     `json:"sales_count"`
	Revenue    float64 `json:"revenue"`
}

// MonthlySales is one row of the per-month analytics series.
type MonthlySales struct {
	Month   string  `json:"month"`
	Sales   int     `json:"sales"`
	Revenue float64 `json:"revenue"`
}
