package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/application/storefront"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/localstore"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/storefrontapi"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

func main() {
	var (
		apiURL    string
		statePath string
		logLevel  string
		locale    string
	)
	flag.StringVar(&apiURL, "api", "", "Storefront API base URL (default from config)")
	flag.StringVar(&statePath, "state", "", "SQLite file holding the cart and identity (default from config)")
	flag.StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flag.StringVar(&locale, "locale", "en-IN", "Locale used to format amounts")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(2)
	}

	logCfg := logger.ConfigForEnvironment("")
	logCfg.Level = logLevel
	logCfg.Output = "stderr"
	log, err := logger.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if apiURL == "" {
		apiURL = cfg.Shop.APIBaseURL
	}
	if statePath == "" {
		statePath = cfg.Shop.StatePath
	}

	lang, err := language.Parse(locale)
	if err != nil {
		log.Fatal("Invalid locale", zap.String("locale", locale), zap.Error(err))
	}

	decimal.MarshalJSONWithoutQuotes = true

	storage, err := localstore.Open(statePath, logger.NewGormLogger(log, logger.MapGormLogLevel("warn"), 0, false))
	if err != nil {
		log.Fatal("Failed to open local state", zap.String("path", statePath), zap.Error(err))
	}
	defer storage.Close()

	client, err := storefrontapi.New(apiURL,
		storefrontapi.WithTimeout(cfg.Shop.RequestTimeout),
		storefrontapi.WithLogger(log),
	)
	if err != nil {
		log.Fatal("Failed to create API client", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := newApp(os.Stdout, storage, client, lang, log)
	if err := a.run(ctx, args[0], args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, describe(err))
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// client is the API surface the shop command needs
type client interface {
	storefront.CustomerDirectory
	storefront.OrderGateway
	Catalog
	Admin
}

func newApp(out io.Writer, storage storefront.LocalStorage, api client, lang language.Tag, log *zap.Logger) *app {
	store := storefront.NewStore(storage, log)
	store.Hydrate(context.Background())
	identity := storefront.NewIdentityResolver(storage, api, log)
	return &app{
		out:      out,
		store:    store,
		identity: identity,
		checkout: storefront.NewCheckoutService(store, identity, api, log),
		tracker:  storefront.NewOrderTracker(identity, api),
		catalog:  api,
		admin:    api,
		receipt:  storefront.NewReceiptFormatter(lang, ""),
	}
}

// describe turns an error into the message shown to the shopper
func describe(err error) string {
	var apiErr *storefrontapi.APIError
	var invalid *storefront.ValidationError
	switch {
	case errors.As(err, &invalid):
		return invalid.Error()
	case errors.Is(err, storefront.ErrOrderNotPlaced):
		return storefront.ErrOrderNotPlaced.Error()
	case errors.As(err, &apiErr):
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return apiErr.Error()
	}
	return err.Error()
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Storefront shopper client

Usage:
  shop [flags] <command> [arguments]

Commands:
  cart                                   Show the cart and its totals
  add <productId> -size S [-color C] [-qty N]
                                         Add a product to the cart
  remove <productId> -size S [-color C]  Remove a cart line
  qty <productId> <n> -size S [-color C] Set the quantity of a line (0 removes it)
  clear                                  Empty the cart
  wishlist [add|remove <productId>]      Show or edit the wishlist
  checkout -name N -email E -address A -phone P
                                         Place an order for the cart
  orders [-user ID]                      List your orders, or another user ID's
  whoami                                 Show the user ID stored on this device
  forget                                 Remove the user ID from this device
  status <orderId> <status> -email E -password P
                                         Change an order's status (admin)

Flags:
  -api string         Storefront API base URL
  -state string       Local state file
  -locale string      Locale used to format amounts (default "en-IN")
  -log-level string   Log level (default "warn")`)
}
