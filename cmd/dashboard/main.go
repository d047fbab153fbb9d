package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/inventrack/console/internal/alerts"
	"github.com/inventrack/console/internal/api"
	"github.com/inventrack/console/internal/categories"
	"github.com/inventrack/console/internal/coordinator"
	"github.com/inventrack/console/internal/emails"
	"github.com/inventrack/console/internal/invalidation"
	"github.com/inventrack/console/internal/inventory"
	"github.com/inventrack/console/internal/products"
	"github.com/inventrack/console/internal/session"
	"github.com/inventrack/console/internal/views"
	"github.com/inventrack/console/pkg/config"
	"github.com/inventrack/console/pkg/logger"
	"github.com/inventrack/console/pkg/metrics"
)

func main() {
	watch := flag.Bool("watch", false, "stay running and re-render on invalidation events")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "dashboard"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "dashboard",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg, *watch); err != nil {
		logg.Error(context.Background(), "dashboard failed", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger, watch bool) error {
	ctx := context.Background()

	storage, err := session.OpenStorage(cfg.State.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := storage.Close(); err != nil {
			logg.Error(ctx, "error closing state db", err)
		}
	}()

	var sessions *session.Store
	client, err := api.NewClient(api.ClientParams{
		Config:  cfg.API,
		Tokens:  tokenFunc(func() string { return sessions.Token() }),
		Logger:  logg,
		Metrics: metrics.NewRequestMetrics(prometheus.NewRegistry()),
	})
	if err != nil {
		return err
	}

	authAPI, err := session.NewAPI(client)
	if err != nil {
		return err
	}
	sessions, err = session.NewStore(authAPI, storage, logg)
	if err != nil {
		return err
	}

	productAPI, err := products.NewAPI(client)
	if err != nil {
		return err
	}
	productStore, err := products.NewStore(productAPI)
	if err != nil {
		return err
	}
	categoryAPI, err := categories.NewAPI(client)
	if err != nil {
		return err
	}
	categoryStore, err := categories.NewStore(categoryAPI)
	if err != nil {
		return err
	}
	inventoryAPI, err := inventory.NewAPI(client)
	if err != nil {
		return err
	}
	inventoryStore, err := inventory.NewStore(inventoryAPI)
	if err != nil {
		return err
	}
	alertAPI, err := alerts.NewAPI(client)
	if err != nil {
		return err
	}
	alertStore, err := alerts.NewStore(alertAPI)
	if err != nil {
		return err
	}
	emailAPI, err := emails.NewAPI(client)
	if err != nil {
		return err
	}
	emailStore, err := emails.NewStore(emailAPI)
	if err != nil {
		return err
	}

	coord, err := coordinator.New(coordinator.Params{
		Logger:     logg,
		Transport:  client,
		Session:    sessions,
		Products:   productStore,
		Categories: categoryStore,
		Inventory:  inventoryStore,
		Alerts:     alertStore,
		Emails:     emailStore,
		Bus:        invalidation.NewBus(),
	})
	if err != nil {
		return err
	}

	if err := signIn(ctx, cfg, logg, coord); err != nil {
		return err
	}

	render := func() {
		if err := coord.LoadDashboard(ctx); err != nil {
			logg.Warn(ctx, "dashboard load incomplete")
		}
		if err := inventoryStore.LoadStock(ctx, inventory.StockFilter{}); err != nil {
			logg.Warn(ctx, "inventory load failed")
		}
		printDashboard(coord, productStore, categoryStore, inventoryStore, alertStore)
	}
	render()

	if !watch {
		return nil
	}

	// re-render whenever a recorded movement invalidates the inventory
	for _, resource := range invalidation.MovementDependents {
		cancel := coord.Bus().Subscribe(resource, func(string) { render() })
		defer cancel()
	}
	unsubscribe := coord.SubscribeRefreshers()
	defer unsubscribe()

	logg.Info(ctx, "watching for changes, ctrl-c to exit")
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	return nil
}

type tokenFunc func() string

func (f tokenFunc) Token() string { return f() }

// signIn reuses a restored session when one survives in storage,
// falling back to the configured credentials.
func signIn(ctx context.Context, cfg *config.Config, logg *logger.Logger, coord *coordinator.Coordinator) error {
	if coord.Session().Authenticated {
		if err := coord.Profile(ctx); err == nil {
			logg.Info(ctx, "restored session")
			return nil
		}
		logg.Warn(ctx, "restored session rejected, signing in again")
	}
	if cfg.Auth.Email == "" || cfg.Auth.Password == "" {
		return fmt.Errorf("no stored session and no credentials configured")
	}
	return coord.Login(ctx, session.Credentials{
		Email:    cfg.Auth.Email,
		Password: cfg.Auth.Password,
	})
}

func printDashboard(coord *coordinator.Coordinator, productStore *products.Store, categoryStore *categories.Store, inventoryStore *inventory.Store, alertStore *alerts.Store) {
	summary := views.Dashboard(productStore.Items(), categoryStore.Items(), inventoryStore.Movements(), alertStore.Items())

	fmt.Println()
	if user := coord.Session().User; user != nil {
		fmt.Printf("Inventory dashboard (%s)\n", user.Email)
	}
	fmt.Printf("Products: %d  Categories: %d  Total stock: %d  Active alerts: %d\n",
		summary.ProductCount, summary.CategoryCount, summary.TotalStock, summary.ActiveAlertCount)

	if len(summary.RecentActivity) > 0 {
		fmt.Println("\nRecent activity:")
		for _, act := range summary.RecentActivity {
			fmt.Printf("  %s %s (%s)\n", act.Delta, act.Movement.Product.Name, act.Movement.Type)
		}
	}
	if len(summary.LowStock) > 0 {
		fmt.Println("\nLow stock alerts:")
		for _, a := range summary.LowStock {
			fmt.Printf("  %s: %d left (threshold %d)\n", a.Product.Name, a.CurrentStock, a.Threshold)
		}
	}

	rows := views.InventoryRows(inventoryStore.Items())
	if len(rows) == 0 {
		return
	}
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PRODUCT\tSKU\tCATEGORY\tSTOCK\tSTATUS\tMOVEMENTS")
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%d\n",
			row.Item.Product.Name, row.Item.Product.SKU, row.CategoryName,
			row.Item.CurrentStock, row.Badge, row.Item.Movements.Total)
	}
	_ = w.Flush()
}
