// Command storefront is the terminal front of the bookstore: it
// browses the catalog, maintains the local cart and wishlist, manages
// the account session and hands the cart off to the hosted payment
// page. All domain data lives behind the backend REST API; the only
// local state is what the store in internal/localstore owns.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"bookshop/internal/backend"
	"bookshop/internal/cart"
	"bookshop/internal/catalog"
	"bookshop/internal/checkout"
	"bookshop/internal/config"
	"bookshop/internal/localstore"
	"bookshop/internal/product"
	"bookshop/internal/profile"
	"bookshop/internal/session"
	"bookshop/internal/vendor"
	"bookshop/internal/wishlist"
)

type app struct {
	catalog  *catalog.Service
	cart     *cart.Cart
	wishlist *wishlist.Wishlist
	session  *session.Manager
	checkout *checkout.Flow
	profile  *profile.Service
	vendor   *vendor.Service
}

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load(config.FindConfigFile())
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	store, err := localstore.Open(cfg.StateDir)
	if err != nil {
		log.Fatalf("open local store: %v", err)
	}

	client := backend.NewClient(cfg.APIBaseURL, cfg.RequestsPerSecond)
	sess := session.NewManager(client, store)
	cartStore := cart.New(store)

	a := &app{
		catalog:  catalog.NewService(client),
		cart:     cartStore,
		wishlist: wishlist.New(store),
		session:  sess,
		checkout: checkout.NewFlow(cartStore, sess, client, terminalNavigator{}, log.Default()),
		profile:  profile.NewService(client, sess),
		vendor:   vendor.NewService(client, sess),
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	if err := a.run(context.Background(), os.Args[1], os.Args[2:]); err != nil {
		log.Fatalf("%v", err)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "products":
		return a.browse(ctx, catalog.ViewAll, args)
	case "books":
		return a.browse(ctx, catalog.ViewBooks, args)
	case "ebooks":
		return a.browse(ctx, catalog.ViewEbooks, args)
	case "product":
		return a.showProduct(ctx, args)
	case "search":
		return a.search(ctx, args)
	case "cart":
		return a.cartCmd(ctx, args)
	case "wishlist":
		return a.wishlistCmd(ctx, args)
	case "login":
		return a.login(ctx, args)
	case "logout":
		return a.session.Logout()
	case "register":
		return a.register(ctx, args)
	case "reset-request":
		return a.resetRequest(ctx, args)
	case "reset-confirm":
		return a.resetConfirm(ctx, args)
	case "checkout":
		return a.checkout.Run(ctx)
	case "success":
		return a.checkout.ConfirmSuccess()
	case "profile":
		return a.showProfile(ctx)
	case "vendor":
		return a.vendorCmd(ctx, args)
	case "help", "-h", "--help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

// terminalNavigator is the CLI stand-in for browser navigation:
// internal paths become hints, external URLs are printed for the user
// to open.
type terminalNavigator struct{}

func (terminalNavigator) Navigate(url string) {
	switch url {
	case "/cart":
		fmt.Println("Your cart is empty. Browse the shop and add something first.")
	case "/login":
		fmt.Println("You are not logged in. Run: storefront login -email ... -password ...")
	default:
		fmt.Printf("Open the payment page to finish your order:\n%s\n", url)
	}
}

// ---- catalog ----

func (a *app) browse(ctx context.Context, view catalog.View, args []string) error {
	fs := flag.NewFlagSet("browse", flag.ExitOnError)
	author := fs.String("author", "", "filter by author")
	publisher := fs.String("publisher", "", "filter by publisher")
	genre := fs.String("genre", "", "filter by genre")
	minPrice := fs.Float64("min-price", -1, "minimum price")
	maxPrice := fs.Float64("max-price", -1, "maximum price")
	sortKey := fs.String("sort", "", "sort key: alphabetical, popularity, price-asc, price-desc, date-newest, date-oldest")
	showOptions := fs.Bool("options", false, "print available filter values and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filters := product.Filters{Author: *author, Publisher: *publisher, Genre: *genre}
	if *minPrice >= 0 {
		filters.MinPrice = minPrice
	}
	if *maxPrice >= 0 {
		filters.MaxPrice = maxPrice
	}

	listing, err := a.catalog.Browse(ctx, view, filters, product.SortKey(*sortKey))
	if err != nil {
		return err
	}

	if *showOptions {
		printOptions(listing.Options)
		return nil
	}
	fmt.Printf("Found: %d of %d\n", len(listing.Products), listing.Total)
	for _, p := range listing.Products {
		printProductLine(p)
	}
	return nil
}

func (a *app) showProduct(ctx context.Context, args []string) error {
	id, err := argID(args)
	if err != nil {
		return err
	}
	p, err := a.catalog.Get(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", p.DisplayName())
	if p.Author != "" {
		fmt.Printf("  author:    %s\n", p.Author)
	}
	if p.Publisher != "" {
		fmt.Printf("  publisher: %s\n", p.Publisher)
	}
	if p.Genre != "" {
		fmt.Printf("  genre:     %s\n", p.Genre)
	}
	fmt.Printf("  price:     %s\n", p.Price)
	if p.Format != "" {
		fmt.Printf("  format:    %s\n", p.Format)
	}
	if p.Description != "" {
		fmt.Printf("  %s\n", p.Description)
	}
	return nil
}

func (a *app) search(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: storefront search <query>")
	}
	hits, err := a.catalog.Search(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Found: %d\n", len(hits))
	for _, p := range hits {
		printProductLine(p)
	}
	return nil
}

func printProductLine(p product.Product) {
	author := p.Author
	if author == "" {
		author = "-"
	}
	fmt.Printf("%6d  %-40s  %-24s  %s\n", p.ID, p.DisplayName(), author, p.Price)
}

func printOptions(opts product.FilterOptions) {
	fmt.Println("authors:", opts.Authors)
	fmt.Println("publishers:", opts.Publishers)
	fmt.Println("genres:", opts.Genres)
	if opts.HasPrices {
		fmt.Printf("price range: %.2f - %.2f\n", opts.MinPrice, opts.MaxPrice)
	}
}

// ---- cart & wishlist ----

func (a *app) cartCmd(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "list" {
		items, err := a.cart.Items()
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("Your cart is empty.")
			return nil
		}
		for _, it := range items {
			fmt.Printf("%6d  %-40s  %3d x %s  [%s]\n", it.ID, it.Name, it.Quantity, it.Price, it.Format)
		}
		fmt.Printf("Total: %s\n", cart.Total(items))
		return nil
	}

	switch args[0] {
	case "add":
		id, format, err := idAndFormat(args[1:])
		if err != nil {
			return err
		}
		p, err := a.catalog.Get(ctx, id)
		if err != nil {
			return err
		}
		if format == "" {
			format = p.Format
		}
		return a.cart.Add(cart.ItemFor(*p, format))
	case "remove":
		id, format, err := idAndFormat(args[1:])
		if err != nil {
			return err
		}
		return a.cart.Remove(cart.Key{ID: id, Format: format})
	case "qty":
		if len(args) < 3 {
			return fmt.Errorf("usage: storefront cart qty <id> <n> [-format f]")
		}
		id, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[1])
		}
		n, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[2])
		}
		format, err := formatFlag(args[3:])
		if err != nil {
			return err
		}
		return a.cart.SetQuantity(cart.Key{ID: id, Format: format}, n)
	case "clear":
		return a.cart.Clear()
	default:
		return fmt.Errorf("unknown cart command %q", args[0])
	}
}

func (a *app) wishlistCmd(ctx context.Context, args []string) error {
	if len(args) == 0 || args[0] == "list" {
		items, err := a.wishlist.Items()
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("Your wishlist is empty.")
			return nil
		}
		for _, it := range items {
			fmt.Printf("%6d  %-40s  %s  [%s]\n", it.ID, it.Name, it.Price, it.Format)
		}
		return nil
	}

	switch args[0] {
	case "toggle":
		id, format, err := idAndFormat(args[1:])
		if err != nil {
			return err
		}
		p, err := a.catalog.Get(ctx, id)
		if err != nil {
			return err
		}
		if format == "" {
			format = p.Format
		}
		added, err := a.wishlist.Toggle(wishlist.ItemFor(*p, format))
		if err != nil {
			return err
		}
		if added {
			fmt.Printf("Added %q to your wishlist.\n", p.DisplayName())
		} else {
			fmt.Printf("Removed %q from your wishlist.\n", p.DisplayName())
		}
		return nil
	case "to-cart":
		id, format, err := idAndFormat(args[1:])
		if err != nil {
			return err
		}
		return a.wishlist.MoveToCart(cart.Key{ID: id, Format: format}, a.cart)
	default:
		return fmt.Errorf("unknown wishlist command %q", args[0])
	}
}

// ---- account ----

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return fmt.Errorf("usage: storefront login -email <email> -password <password>")
	}
	if err := a.session.Login(ctx, *email, *password); err != nil {
		return err
	}
	fmt.Printf("Logged in as %s.\n", *email)
	return nil
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password (min 8 characters)")
	confirm := fs.String("confirm", "", "password confirmation")
	first := fs.String("first-name", "", "first name")
	last := fs.String("last-name", "", "last name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	err := a.session.Register(ctx, session.RegisterForm{
		Email:           *email,
		Password:        *password,
		ConfirmPassword: *confirm,
		FirstName:       *first,
		LastName:        *last,
	})
	if err != nil {
		return err
	}
	fmt.Println("Account created. You can log in now.")
	return nil
}

func (a *app) resetRequest(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset-request", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return fmt.Errorf("usage: storefront reset-request -email <email>")
	}
	if err := a.session.RequestPasswordReset(ctx, *email); err != nil {
		return err
	}
	fmt.Println("If the address exists, a reset link has been sent.")
	return nil
}

func (a *app) resetConfirm(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset-confirm", flag.ExitOnError)
	uid := fs.String("uid", "", "uid from the reset link")
	token := fs.String("token", "", "token from the reset link")
	password := fs.String("password", "", "new password (min 8 characters)")
	confirm := fs.String("confirm", "", "new password confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	err := a.session.ConfirmPasswordReset(ctx, session.ResetForm{
		UID:         *uid,
		Token:       *token,
		NewPassword: *password,
		Confirm:     *confirm,
	})
	if err != nil {
		return err
	}
	fmt.Println("Password changed. You can log in now.")
	return nil
}

func (a *app) showProfile(ctx context.Context) error {
	p, err := a.profile.Get(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("email: %s\n", p.Email)
	if p.FirstName != "" || p.LastName != "" {
		fmt.Printf("name:  %s %s\n", p.FirstName, p.LastName)
	}
	return nil
}

// ---- vendor ----

func (a *app) vendorCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: storefront vendor <products|product|update|upload|analytics|dashboard|companies|register>")
	}
	switch args[0] {
	case "products":
		products, err := a.vendor.Products(ctx)
		if err != nil {
			return err
		}
		for _, p := range products {
			printProductLine(p)
		}
		return nil
	case "product":
		id, err := argID(args[1:])
		if err != nil {
			return err
		}
		p, err := a.vendor.Product(ctx, id)
		if err != nil {
			return err
		}
		printProductLine(*p)
		return nil
	case "update":
		return a.vendorUpdate(ctx, args[1:])
	case "upload":
		if len(args) < 2 {
			return fmt.Errorf("usage: storefront vendor upload <image-file>")
		}
		url, err := a.vendor.UploadImage(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Println(url)
		return nil
	case "analytics":
		return a.vendorAnalytics(ctx)
	case "dashboard":
		stats, err := a.vendor.Dashboard(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("products: %d\nsales:    %d\norders:   %d\nrevenue:  %s\n",
			stats.TotalProducts, stats.TotalSales, stats.TotalOrders, stats.Revenue)
		return nil
	case "companies":
		companies, err := a.vendor.Companies(ctx)
		if err != nil {
			return err
		}
		for _, c := range companies {
			fmt.Printf("%6d  %s\n", c.ID, c.Name)
		}
		return nil
	case "register":
		return a.vendorRegister(ctx, args[1:])
	default:
		return fmt.Errorf("unknown vendor command %q", args[0])
	}
}

func (a *app) vendorUpdate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("vendor update", flag.ExitOnError)
	id := fs.Int("id", 0, "product id")
	description := fs.String("description", "", "new description")
	pages := fs.Int("pages", 0, "page count")
	year := fs.Int("year", 0, "publication year")
	image := fs.String("image", "", "image URL (from vendor upload)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		return fmt.Errorf("usage: storefront vendor update -id <id> [-description ...] [-pages n] [-year n] [-image url]")
	}
	var upd backend.ProductUpdate
	if *description != "" {
		upd.Description = description
	}
	if *pages > 0 {
		upd.Pages = pages
	}
	if *year > 0 {
		upd.PublicationYear = year
	}
	if *image != "" {
		upd.Image = image
	}
	p, err := a.vendor.Update(ctx, *id, upd)
	if err != nil {
		return err
	}
	fmt.Printf("Updated %q.\n", p.DisplayName())
	return nil
}

func (a *app) vendorAnalytics(ctx context.Context) error {
	an, err := a.vendor.Analytics(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("sales: %d  revenue: %.2f  orders: %d\n", an.TotalSales, an.TotalRevenue, an.TotalOrders)
	if len(an.TopProducts) > 0 {
		fmt.Println("top products:")
		for _, p := range an.TopProducts {
			fmt.Printf("  %-40s  sold %4d  revenue %.2f\n", p.Name, p.SalesCount, p.Revenue)
		}
	}
	if len(an.SalesByMonth) > 0 {
		fmt.Println("by month:")
		for _, m := range an.SalesByMonth {
			fmt.Printf("  %-8s  sold %4d  revenue %.2f\n", m.Month, m.Sales, m.Revenue)
		}
	}
	return nil
}

func (a *app) vendorRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("vendor register", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password")
	first := fs.String("first-name", "", "first name")
	last := fs.String("last-name", "", "last name")
	vendorID := fs.Int("vendor-id", 0, "company id (see vendor companies)")
	companyPassword := fs.String("company-password", "", "company password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	err := a.vendor.Register(ctx, backend.VendorRegisterInput{
		Email:           *email,
		Password:        *password,
		FirstName:       *first,
		LastName:        *last,
		VendorID:        *vendorID,
		CompanyPassword: *companyPassword,
	})
	if err != nil {
		return err
	}
	fmt.Println("Vendor account created.")
	return nil
}

// ---- helpers ----

func argID(args []string) (int, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("missing product id")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid product id %q", args[0])
	}
	return id, nil
}

func formatFlag(args []string) (product.Format, error) {
	fs := flag.NewFlagSet("format", flag.ExitOnError)
	format := fs.String("format", "", "product format (physical, ebook)")
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	return product.Format(*format), nil
}

func idAndFormat(args []string) (int, product.Format, error) {
	id, err := argID(args)
	if err != nil {
		return 0, "", err
	}
	format, err := formatFlag(args[1:])
	if err != nil {
		return 0, "", err
	}
	return id, format, nil
}

func usage() {
	fmt.Fprint(os.Stderr, `storefront - bookstore shop front

Usage:
  storefront products|books|ebooks [-author a] [-publisher p] [-genre g]
             [-min-price n] [-max-price n] [-sort key] [-options]
  storefront product <id>
  storefront search <query>
  storefront cart [list|add <id>|remove <id>|qty <id> <n>|clear] [-format f]
  storefront wishlist [list|toggle <id>|to-cart <id>] [-format f]
  storefront login -email <email> -password <password>
  storefront logout
  storefront register -email ... -password ... -confirm ... -first-name ... -last-name ...
  storefront reset-request -email <email>
  storefront reset-confirm -uid ... -token ... -password ... -confirm ...
  storefront checkout
  storefront success
  storefront profile
  storefront vendor products|product <id>|update|upload <file>|analytics|dashboard|companies|register
`)
}
