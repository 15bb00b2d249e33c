package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/storefront/backend/internal/application/storefront"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/infrastructure/storefrontapi"
)

var errUsage = errors.New("invalid usage")

// Catalog fetches product details for cart and wishlist additions
type Catalog interface {
	GetProduct(ctx context.Context, id string) (*storefrontapi.Product, error)
}

// Admin changes order status with an admin session
type Admin interface {
	Login(ctx context.Context, email, password string) (string, error)
	UpdateOrderStatus(ctx context.Context, token, id, status string) (*storefrontapi.Order, error)
}

// app runs one shop command against a hydrated store
type app struct {
	out      io.Writer
	store    *storefront.Store
	identity *storefront.IdentityResolver
	checkout *storefront.CheckoutService
	tracker  *storefront.OrderTracker
	catalog  Catalog
	admin    Admin
	receipt  *storefront.ReceiptFormatter
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "cart":
		return a.showCart()
	case "add":
		return a.add(ctx, args)
	case "remove":
		return a.remove(ctx, args)
	case "qty":
		return a.quantity(ctx, args)
	case "clear":
		a.store.Dispatch(ctx, cart.ClearCart{})
		fmt.Fprintln(a.out, "Cart cleared")
		return nil
	case "wishlist":
		return a.wishlist(ctx, args)
	case "checkout":
		return a.placeOrder(ctx, args)
	case "orders":
		return a.orders(ctx, args)
	case "whoami":
		return a.whoami(ctx)
	case "forget":
		if err := a.identity.Forget(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Identity removed from this device")
		return nil
	case "status":
		return a.setStatus(ctx, args)
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, command)
}

func lineFlags(name string) (*flag.FlagSet, *string, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	size := fs.String("size", "", "Size, e.g. M")
	color := fs.String("color", "", "Color")
	return fs, size, color
}

// parseInterspersed allows flags after positional arguments
func parseInterspersed(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, fmt.Errorf("%w: %v", errUsage, err)
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

func (a *app) add(ctx context.Context, args []string) error {
	fs, size, color := lineFlags("add")
	qty := fs.Int("qty", 1, "Quantity")
	rest, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return fmt.Errorf("%w: add <productId> -size S [-color C] [-qty N]", errUsage)
	}

	product, err := a.catalog.GetProduct(ctx, rest[0])
	if err != nil {
		return err
	}
	if *size == "" {
		return fmt.Errorf("%w: -size is required (available: %s)", errUsage, strings.Join(product.Sizes, ", "))
	}

	state := a.store.Dispatch(ctx, cart.AddToCart{Item: cart.Item{
		ID:            product.ID,
		Name:          product.Name,
		Price:         product.Price,
		DiscountPrice: product.DiscountPrice,
		Image:         product.Image(),
		Size:          *size,
		Color:         *color,
		Quantity:      *qty,
	}})
	fmt.Fprintf(a.out, "Added %s (%s) to cart, %d items\n", product.Name, *size, state.ItemCount())
	return nil
}

func (a *app) remove(ctx context.Context, args []string) error {
	fs, size, color := lineFlags("remove")
	rest, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return fmt.Errorf("%w: remove <productId> -size S [-color C]", errUsage)
	}
	state := a.store.Dispatch(ctx, cart.RemoveFromCart{Key: cart.LineKey{ID: rest[0], Size: *size, Color: *color}})
	fmt.Fprintf(a.out, "Removed, %d items in cart\n", state.ItemCount())
	return nil
}

func (a *app) quantity(ctx context.Context, args []string) error {
	fs, size, color := lineFlags("qty")
	rest, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(rest) != 2 {
		return fmt.Errorf("%w: qty <productId> <quantity> -size S [-color C]", errUsage)
	}
	n, err := strconv.Atoi(rest[1])
	if err != nil {
		return fmt.Errorf("%w: quantity must be a number", errUsage)
	}
	state := a.store.Dispatch(ctx, cart.UpdateQuantity{
		Key:      cart.LineKey{ID: rest[0], Size: *size, Color: *color},
		Quantity: n,
	})
	fmt.Fprintf(a.out, "Updated, %d items in cart\n", state.ItemCount())
	return nil
}

func (a *app) showCart() error {
	state := a.store.State()
	if state.IsEmpty() {
		fmt.Fprintln(a.out, "Your cart is empty")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tNAME\tSIZE\tCOLOR\tQTY\tPRICE")
	for _, item := range state.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			item.ID, item.Name, item.Size, item.Color, item.Quantity, a.receipt.Amount(item.UnitPrice()))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	totals := state.Totals()
	fmt.Fprintf(a.out, "Subtotal: %s\nShipping: %s\nTotal:    %s\n",
		a.receipt.Amount(totals.Subtotal), a.receipt.Amount(totals.Shipping), a.receipt.Amount(totals.Total))
	return nil
}

func (a *app) wishlist(ctx context.Context, args []string) error {
	if len(args) == 0 {
		state := a.store.State()
		if len(state.Wishlist) == 0 {
			fmt.Fprintln(a.out, "Your wishlist is empty")
			return nil
		}
		for _, w := range state.Wishlist {
			fmt.Fprintf(a.out, "%s  %s  %s\n", w.ID, w.Name, a.receipt.Amount(w.Price))
		}
		return nil
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: wishlist [add|remove <productId>]", errUsage)
	}

	switch args[0] {
	case "add":
		product, err := a.catalog.GetProduct(ctx, args[1])
		if err != nil {
			return err
		}
		if a.store.State().InWishlist(product.ID) {
			fmt.Fprintf(a.out, "%s is already in your wishlist\n", product.Name)
			return nil
		}
		a.store.Dispatch(ctx, cart.AddToWishlist{Item: cart.WishlistItem{
			ID:            product.ID,
			Name:          product.Name,
			Price:         product.Price,
			DiscountPrice: product.DiscountPrice,
			Image:         product.Image(),
			Category:      product.Category,
		}})
		fmt.Fprintf(a.out, "Saved %s to your wishlist\n", product.Name)
	case "remove":
		a.store.Dispatch(ctx, cart.RemoveFromWishlist{ID: args[1]})
		fmt.Fprintln(a.out, "Removed from your wishlist")
	default:
		return fmt.Errorf("%w: wishlist [add|remove <productId>]", errUsage)
	}
	return nil
}

func (a *app) placeOrder(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	name := fs.String("name", "", "Full name")
	email := fs.String("email", "", "Email address")
	address := fs.String("address", "", "Shipping address")
	phone := fs.String("phone", "", "Phone number")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	a.store.Dispatch(ctx, cart.UpdateCheckoutForm{Patch: cart.FormPatch{
		Name: name, Email: email, Address: address, Phone: phone,
	}})

	confirmation, err := a.checkout.Checkout(ctx)
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, a.receipt.Receipt(confirmation))
	return nil
}

func (a *app) orders(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("orders", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	user := fs.String("user", "", "Look up another userOrderId")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	var (
		orders []storefrontapi.Order
		err    error
	)
	if *user != "" {
		orders, err = a.tracker.Lookup(ctx, *user)
	} else {
		orders, err = a.tracker.Mine(ctx)
	}
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		fmt.Fprintln(a.out, "No orders found")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ORDER\tPLACED\tITEMS\tTOTAL\tSTATUS")
	for _, o := range orders {
		count := 0
		for _, item := range o.Items {
			count += item.Quantity
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			o.ID, o.CreatedAt.Local().Format("2006-01-02 15:04"), count, a.receipt.Amount(o.Total), o.Status)
	}
	return tw.Flush()
}

func (a *app) whoami(ctx context.Context) error {
	id, ok := a.identity.Current(ctx)
	if !ok {
		fmt.Fprintln(a.out, "No identity on this device yet. One is created at your first checkout.")
		return nil
	}
	fmt.Fprintln(a.out, id)
	fmt.Fprintln(a.out, storefront.BearerTokenWarning)
	return nil
}

func (a *app) setStatus(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	email := fs.String("email", "", "Admin email")
	password := fs.String("password", "", "Admin password")
	rest, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	if len(rest) != 2 || *email == "" || *password == "" {
		return fmt.Errorf("%w: status <orderId> <pending|dispatch|delivered> -email E -password P", errUsage)
	}

	token, err := a.admin.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	order, err := a.admin.UpdateOrderStatus(ctx, token, rest[0], rest[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Order %s is now %s\n", order.ID, order.Status)
	return nil
}
