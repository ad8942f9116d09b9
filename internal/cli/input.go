package cli

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nikolayk812/storefront-core/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	ExitSuccess       = 0
	ExitFailure       = 1
	ExitUsage         = 2
	ExitConfigError   = 3
	ExitInternalError = 4
)

type Command string

const (
	CommandProducts Command = "products"
	CommandProduct  Command = "product"
	CommandSearch   Command = "search"
	CommandFacets   Command = "facets"
	CommandCart     Command = "cart"
	CommandMigrate  Command = "migrate"
	CommandSeed     Command = "seed"
)

type CartAction string

const (
	CartShow   CartAction = "show"
	CartAdd    CartAction = "add"
	CartUpdate CartAction = "update"
	CartRemove CartAction = "remove"
	CartClear  CartAction = "clear"
)

// Invocation is a parsed command line. Only the fields of its Command are set.
type Invocation struct {
	Command    Command
	CartAction CartAction
	Criteria   domain.FilterCriteria
	ProductID  int64
	Quantity   int
	Query      string
}

type UsageError struct {
	ExitCode int
	Message  string
}

func (e *UsageError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

func usagef(format string, args ...any) error {
	return &UsageError{ExitCode: ExitUsage, Message: fmt.Sprintf(format, args...)}
}

const Usage = `usage: storefront <command> [flags]

commands:
  products [-category c] [-subcategory s] [-min-price p] [-max-price p] [-min-rating r]
           [-brand b]... [-color c]... [-size s]... [-in-stock]
  product <id>
  search <query>
  facets
  cart show | add <id> [-qty n] | update <id> <qty> | remove <id> | clear
  (a quantity below 1 adds one item on add and removes the item on update)
  migrate
  seed`

// ParseInvocation turns os.Args[1:] into an Invocation.
// Flags may appear before or after positional arguments.
func ParseInvocation(args []string) (Invocation, error) {
	if len(args) == 0 {
		return Invocation{}, usagef("command is required")
	}

	cmd, rest := Command(args[0]), args[1:]
	switch cmd {
	case CommandProducts:
		return parseProducts(rest)
	case CommandProduct:
		return parseProduct(rest)
	case CommandSearch:
		return parseSearch(rest)
	case CommandFacets, CommandMigrate, CommandSeed:
		if _, err := parseArgs(newFlagSet(cmd), rest, 0); err != nil {
			return Invocation{}, err
		}
		return Invocation{Command: cmd}, nil
	case CommandCart:
		return parseCart(rest)
	default:
		return Invocation{}, usagef("unknown command %q", args[0])
	}
}

func parseProducts(args []string) (Invocation, error) {
	fs := newFlagSet(CommandProducts)

	criteria := domain.DefaultCriteria()
	var minRating optionalFloat
	fs.StringVar(&criteria.Category, "category", domain.AllCategories, "Category, All disables the filter.")
	fs.StringVar(&criteria.Subcategory, "subcategory", "", "Subcategory within -category.")
	fs.Var(&decimalValue{target: &criteria.MinPrice}, "min-price", "Lowest price, inclusive.")
	fs.Var(&decimalValue{target: &criteria.MaxPrice}, "max-price", "Highest price, inclusive.")
	fs.Var(&minRating, "min-rating", "Lowest rating, inclusive.")
	fs.Var((*listValue)(&criteria.Brands), "brand", "Brand, repeatable.")
	fs.Var((*listValue)(&criteria.Colors), "color", "Color, repeatable.")
	fs.Var((*listValue)(&criteria.Sizes), "size", "Size, repeatable.")
	fs.BoolVar(&criteria.InStockOnly, "in-stock", false, "Only products in stock.")

	if _, err := parseArgs(fs, args, 0); err != nil {
		return Invocation{}, err
	}
	criteria.MinRating = minRating.value

	if err := criteria.Validate(); err != nil {
		return Invocation{}, usagef("%v", err)
	}

	return Invocation{Command: CommandProducts, Criteria: criteria}, nil
}

func parseProduct(args []string) (Invocation, error) {
	positional, err := parseArgs(newFlagSet(CommandProduct), args, 1)
	if err != nil {
		return Invocation{}, err
	}

	id, err := parseProductID(positional[0])
	if err != nil {
		return Invocation{}, err
	}
	return Invocation{Command: CommandProduct, ProductID: id}, nil
}

func parseSearch(args []string) (Invocation, error) {
	positional, err := parseArgs(newFlagSet(CommandSearch), args, -1)
	if err != nil {
		return Invocation{}, err
	}

	query := strings.TrimSpace(strings.Join(positional, " "))
	if query == "" {
		return Invocation{}, usagef("search query is required")
	}
	return Invocation{Command: CommandSearch, Query: query}, nil
}

func parseCart(args []string) (Invocation, error) {
	if len(args) == 0 {
		return Invocation{Command: CommandCart, CartAction: CartShow}, nil
	}

	action, rest := CartAction(args[0]), args[1:]
	fs := newFlagSet(CommandCart)
	inv := Invocation{Command: CommandCart, CartAction: action}

	switch action {
	case CartShow, CartClear:
		if _, err := parseArgs(fs, rest, 0); err != nil {
			return Invocation{}, err
		}
		return inv, nil

	case CartAdd:
		fs.IntVar(&inv.Quantity, "qty", 1, "Quantity to add, below 1 adds one.")
		positional, err := parseArgs(fs, rest, 1)
		if err != nil {
			return Invocation{}, err
		}
		inv.ProductID, err = parseProductID(positional[0])
		return inv, err

	case CartUpdate:
		positional, err := parseArgs(fs, rest, 2)
		if err != nil {
			return Invocation{}, err
		}
		if inv.ProductID, err = parseProductID(positional[0]); err != nil {
			return Invocation{}, err
		}
		if inv.Quantity, err = strconv.Atoi(positional[1]); err != nil {
			return Invocation{}, usagef("quantity[%s] is not a number", positional[1])
		}
		return inv, nil

	case CartRemove:
		positional, err := parseArgs(fs, rest, 1)
		if err != nil {
			return Invocation{}, err
		}
		inv.ProductID, err = parseProductID(positional[0])
		return inv, err

	default:
		return Invocation{}, usagef("unknown cart action %q", args[0])
	}
}

func newFlagSet(cmd Command) *flag.FlagSet {
	fs := flag.NewFlagSet(string(cmd), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// parseArgs parses flags interleaved with positional arguments.
// Negative numbers are positional, so "update 5 -1" reads as a quantity.
// want is the exact number of positional arguments, or -1 for any number.
func parseArgs(fs *flag.FlagSet, args []string, want int) ([]string, error) {
	var positional []string
	for len(args) > 0 {
		if isNegativeNumber(args[0]) {
			positional = append(positional, args[0])
			args = args[1:]
			continue
		}

		if err := fs.Parse(args); err != nil {
			return nil, usagef("%s: %v", fs.Name(), err)
		}
		args = fs.Args()
		if len(args) == 0 {
			break
		}
		positional = append(positional, args[0])
		args = args[1:]
	}

	if want >= 0 && len(positional) != want {
		return nil, usagef("%s: expected %d argument(s), got %d", fs.Name(), want, len(positional))
	}
	return positional, nil
}

func isNegativeNumber(s string) bool {
	if !strings.HasPrefix(s, "-") {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func parseProductID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, usagef("product id[%s] is invalid", s)
	}
	return id, nil
}

// listValue collects a repeatable flag. A comma-separated value adds several entries.
type listValue []string

func (l *listValue) String() string {
	if l == nil {
		return ""
	}
	return strings.Join(*l, ",")
}

func (l *listValue) Set(s string) error {
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			*l = append(*l, v)
		}
	}
	return nil
}

type decimalValue struct {
	target **decimal.Decimal
}

func (d *decimalValue) String() string {
	if d == nil || d.target == nil || *d.target == nil {
		return ""
	}
	return (*d.target).String()
}

func (d *decimalValue) Set(s string) error {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("decimal.NewFromString: %w", err)
	}
	*d.target = &v
	return nil
}

type optionalFloat struct {
	value *float64
}

func (f *optionalFloat) String() string {
	if f == nil || f.value == nil {
		return ""
	}
	return strconv.FormatFloat(*f.value, 'f', -1, 64)
}

func (f *optionalFloat) Set(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	f.value = &v
	return nil
}
