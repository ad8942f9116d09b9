package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/nikolayk812/storefront-core/internal/domain"
	"github.com/nikolayk812/storefront-core/internal/service"
)

type Catalog interface {
	Browse(ctx context.Context, criteria domain.FilterCriteria) ([]domain.Product, error)
	Search(ctx context.Context, query string) ([]domain.Product, error)
	Product(ctx context.Context, id int64) (domain.Product, error)
	Facets(ctx context.Context) (service.Facets, error)
}

type Cart interface {
	AddItem(ctx context.Context, p domain.Product, quantity int) domain.Cart
	UpdateQuantity(ctx context.Context, productID int64, quantity int) domain.Cart
	RemoveItem(ctx context.Context, productID int64) domain.Cart
	ClearCart(ctx context.Context) domain.Cart
	Cart() domain.Cart
	Summary() domain.Summary
}

// Admin runs database maintenance. It is nil when no database is configured.
type Admin interface {
	Migrate(ctx context.Context) ([]string, error)
	Seed(ctx context.Context) (int, error)
}

type App struct {
	Catalog Catalog
	Cart    Cart
	Admin   Admin
	Out     io.Writer
}

var errNotInCart = errors.New("product is not in the cart")

// Execute runs inv against app and maps the outcome to an exit code.
func Execute(ctx context.Context, inv Invocation, app App) (int, error) {
	if app.Catalog == nil || app.Cart == nil || app.Out == nil {
		return ExitInternalError, fmt.Errorf("app is not wired")
	}

	err := execute(ctx, inv, app)
	switch {
	case err == nil:
		return ExitSuccess, nil
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, errNotInCart):
		return ExitFailure, err
	case errors.Is(err, domain.ErrInvalidCriteria):
		return ExitUsage, err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ExitFailure, err
	default:
		var usageErr *UsageError
		if errors.As(err, &usageErr) {
			return usageErr.ExitCode, err
		}
		return ExitInternalError, err
	}
}

func execute(ctx context.Context, inv Invocation, app App) error {
	switch inv.Command {
	case CommandProducts:
		products, err := app.Catalog.Browse(ctx, inv.Criteria)
		if err != nil {
			return fmt.Errorf("catalog.Browse: %w", err)
		}
		return printProducts(app.Out, products)

	case CommandSearch:
		products, err := app.Catalog.Search(ctx, inv.Query)
		if err != nil {
			return fmt.Errorf("catalog.Search: %w", err)
		}
		return printProducts(app.Out, products)

	case CommandProduct:
		p, err := app.Catalog.Product(ctx, inv.ProductID)
		if err != nil {
			return fmt.Errorf("catalog.Product: %w", err)
		}
		return printProduct(app.Out, p)

	case CommandFacets:
		facets, err := app.Catalog.Facets(ctx)
		if err != nil {
			return fmt.Errorf("catalog.Facets: %w", err)
		}
		return printFacets(app.Out, facets)

	case CommandCart:
		return executeCart(ctx, inv, app)

	case CommandMigrate:
		if app.Admin == nil {
			return &UsageError{ExitCode: ExitConfigError, Message: "migrate requires DATABASE_URL"}
		}
		applied, err := app.Admin.Migrate(ctx)
		if err != nil {
			return fmt.Errorf("admin.Migrate: %w", err)
		}
		for _, name := range applied {
			fmt.Fprintf(app.Out, "applied %s\n", name)
		}
		return nil

	case CommandSeed:
		if app.Admin == nil {
			return &UsageError{ExitCode: ExitConfigError, Message: "seed requires DATABASE_URL"}
		}
		n, err := app.Admin.Seed(ctx)
		if err != nil {
			return fmt.Errorf("admin.Seed: %w", err)
		}
		fmt.Fprintf(app.Out, "seeded %d products\n", n)
		return nil

	default:
		return usagef("unknown command %q", inv.Command)
	}
}

func executeCart(ctx context.Context, inv Invocation, app App) error {
	switch inv.CartAction {
	case CartShow:
	case CartAdd:
		p, err := app.Catalog.Product(ctx, inv.ProductID)
		if err != nil {
			return fmt.Errorf("catalog.Product: %w", err)
		}
		app.Cart.AddItem(ctx, p, inv.Quantity)
	case CartUpdate:
		if _, ok := app.Cart.Cart().Find(inv.ProductID); !ok {
			return fmt.Errorf("product[%d]: %w", inv.ProductID, errNotInCart)
		}
		app.Cart.UpdateQuantity(ctx, inv.ProductID, inv.Quantity)
	case CartRemove:
		app.Cart.RemoveItem(ctx, inv.ProductID)
	case CartClear:
		app.Cart.ClearCart(ctx)
	default:
		return usagef("unknown cart action %q", inv.CartAction)
	}

	return printCart(app.Out, app.Cart.Cart(), app.Cart.Summary())
}

func printProducts(w io.Writer, products []domain.Product) error {
	if len(products) == 0 {
		_, err := fmt.Fprintln(w, "No products found")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tPRICE\tRATING\tSTOCK")
	for _, p := range products {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.1f\t%s\n", p.ID, p.Title, p.Price.StringFixed(2), p.Rating, stockLabel(p.InStock))
	}
	return tw.Flush()
}

func printProduct(w io.Writer, p domain.Product) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\t%d\n", p.ID)
	fmt.Fprintf(tw, "Title\t%s\n", p.Title)
	fmt.Fprintf(tw, "Price\t%s\n", p.Price.StringFixed(2))
	fmt.Fprintf(tw, "Category\t%s\n", joinNonEmpty(" / ", p.Category, p.Subcategory))
	fmt.Fprintf(tw, "Rating\t%.1f\n", p.Rating)
	fmt.Fprintf(tw, "Stock\t%s\n", stockLabel(p.InStock))
	for _, row := range [][2]string{{"Brand", p.Brand}, {"Color", p.Color}, {"Size", p.Size}} {
		if row[1] != "" {
			fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1])
		}
	}
	if p.Description != "" {
		fmt.Fprintf(tw, "Description\t%s\n", p.Description)
	}
	for _, k := range slices.Sorted(maps.Keys(p.Specifications)) {
		fmt.Fprintf(tw, "%s\t%s\n", k, p.Specifications[k])
	}
	return tw.Flush()
}

func printFacets(w io.Writer, f service.Facets) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Brands\t%s\n", strings.Join(f.Brands, ", "))
	fmt.Fprintf(tw, "Colors\t%s\n", strings.Join(f.Colors, ", "))
	fmt.Fprintf(tw, "Sizes\t%s\n", strings.Join(f.Sizes, ", "))
	if f.HasPriceRange {
		fmt.Fprintf(tw, "Price\t%s - %s\n", f.MinPrice.StringFixed(2), f.MaxPrice.StringFixed(2))
	}
	fmt.Fprintf(tw, "Availability\t%d in stock, %d out of stock\n", f.InStock, f.OutOfStock)
	return tw.Flush()
}

func printCart(w io.Writer, cart domain.Cart, summary domain.Summary) error {
	if cart.IsEmpty() {
		_, err := fmt.Fprintln(w, "Your cart is empty")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tQTY\tPRICE\tTOTAL")
	for _, item := range cart.Items {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n",
			item.ID, item.Title, item.Quantity, item.Price.StringFixed(2), item.LineTotal().StringFixed(2))
	}
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "Items\t%d\n", summary.ItemCount)
	fmt.Fprintf(tw, "Subtotal\t%s\n", summary.Subtotal)
	fmt.Fprintf(tw, "Tax\t%s\n", summary.Tax)
	fmt.Fprintf(tw, "Total\t%s\n", summary.Total)
	return tw.Flush()
}

func stockLabel(inStock bool) string {
	if inStock {
		return "in stock"
	}
	return "out of stock"
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
