package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/adapter/logger"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/adapter/memory"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/adapter/postgres"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/adapter/rabbitmq"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/adapter/remote"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/app/checkout"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/app/orders"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/app/shift"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/app/stockhold"
	appsync "github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/app/sync"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/config"
	"github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/interfaces"

	amqpAdapter "github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/adapter/amqp"
	httpAdapter "github.com/JuanJoJara00/Ecosystema-PanPanocha-V1.0-sub003/internal/adapter/http"
)

// repositories bundles the store implementations a process role wires
// its services from. Either all postgres or all memory.
type repositories struct {
	sales        interfaces.SaleRepository
	orders       interfaces.OrderRepository
	shifts       interfaces.ShiftRepository
	reservations interfaces.ReservationRepository
	products     interfaces.ProductRepository
	tables       interfaces.TableRepository
	users        interfaces.UserRepository
	syncCounts   interfaces.SyncRepository
}

func main() {
	mode := flag.String("mode", "", "Service mode: pos-service, sync-worker, reservation-sweeper")
	port := flag.Int("port", 3000, "HTTP port (for pos-service)")
	prefetch := flag.Int("prefetch", 1, "RabbitMQ prefetch count (for sync-worker)")
	configPath := flag.String("config", "config.yaml", "Path to config file")
	flag.Parse()

	if *mode == "" {
		log.Fatal("--mode flag is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	lgr := logger.New(*mode, cfg.Terminal.ID)

	var repos repositories
	if cfg.UseMemoryStore() {
		store := memory.NewStore()
		repos = repositories{
			sales:        memory.NewSaleRepository(store),
			orders:       memory.NewOrderRepository(store),
			shifts:       memory.NewShiftRepository(store),
			reservations: memory.NewReservationRepository(store),
			products:     memory.NewProductRepository(store),
			tables:       memory.NewTableRepository(store),
			users:        memory.NewUserRepository(store),
			syncCounts:   memory.NewSyncRepository(store),
		}
		lgr.Info("store_ready", "Running on in-memory store", "startup", nil)
	} else {
		db, err := postgres.Connect(ctx, cfg.Database)
		if err != nil {
			log.Fatalf("Failed to connect to PostgreSQL: %v", err)
		}
		defer db.Close()

		if err := postgres.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("Failed to ensure schema: %v", err)
		}

		repos = repositories{
			sales:        postgres.NewSaleRepository(db),
			orders:       postgres.NewOrderRepository(db),
			shifts:       postgres.NewShiftRepository(db),
			reservations: postgres.NewReservationRepository(db),
			products:     postgres.NewProductRepository(db),
			tables:       postgres.NewTableRepository(db),
			users:        postgres.NewUserRepository(db),
			syncCounts:   postgres.NewSyncRepository(db),
		}

		lgr.Info("db_connected", "Connected to local PostgreSQL", "startup", map[string]interface{}{
			"host": cfg.Database.Host,
			"db":   cfg.Database.Database,
		})
	}

	switch *mode {
	case "pos-service":
		mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer mqConn.Close()

		runPOSService(ctx, cfg, repos, mqConn, lgr, *port)

	case "sync-worker":
		mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer mqConn.Close()

		runSyncWorker(ctx, cfg, repos, mqConn, lgr, *prefetch)

	case "reservation-sweeper":
		runReservationSweeper(ctx, cfg, repos, lgr)

	default:
		log.Fatalf("Invalid mode: %s", *mode)
	}
}

func runPOSService(ctx context.Context, cfg *config.Config, repos repositories, mqConn rabbitmq.Connection, lgr logger.Logger, port int) {
	publisher := rabbitmq.NewPublisher(mqConn)

	stockholdService := stockhold.NewService(repos.reservations, repos.products, lgr)
	checkoutService := checkout.NewService(repos.sales, repos.shifts, repos.users, stockholdService, publisher, lgr)
	orderService := orders.NewService(repos.orders, repos.tables, repos.users, stockholdService, lgr)
	shiftService := shift.NewService(repos.shifts, repos.sales, repos.users, publisher, lgr)

	branch := cfg.Terminal.BranchID
	handler := httpAdapter.NewRouter(
		httpAdapter.NewCheckoutHandler(checkoutService, branch, lgr),
		httpAdapter.NewOrderHandler(orderService, branch, lgr),
		httpAdapter.NewShiftHandler(shiftService, branch, lgr),
		httpAdapter.NewCatalogHandler(repos.products, repos.sales, repos.tables, stockholdService, branch, lgr),
		lgr,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lgr.Info("service_started", fmt.Sprintf("POS service started on port %d", port), "startup", map[string]interface{}{
		"port":   port,
		"branch": branch,
	})

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		lgr.Info("shutdown_initiated", "Shutting down POS service", "shutdown", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			lgr.Error("shutdown_error", "Error during shutdown", "shutdown", nil, err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lgr.Error("server_error", "Server error", "runtime", nil, err)
	}
}

func runSyncWorker(ctx context.Context, cfg *config.Config, repos repositories, mqConn rabbitmq.Connection, lgr logger.Logger, prefetch int) {
	gateway := remote.NewClient(cfg.Remote)

	// Exchange credentials up front. A failure is fatal here: the
	// worker is useless without an access token, and a restart retries.
	if _, err := gateway.ExchangeToken(ctx, cfg.SessionToken()); err != nil {
		log.Fatalf("Token exchange failed: %v", err)
	}
	lgr.Info("token_exchanged", "Remote access token acquired", "startup", nil)

	syncService := appsync.NewService(repos.sales, repos.syncCounts, repos.products, repos.reservations, gateway, cfg.Terminal.BranchID, cfg.Sync.BatchSize, lgr)

	if n, err := syncService.PullProducts(ctx); err != nil {
		lgr.Error("catalog_pull_failed", "Initial catalog pull failed", "startup", nil, err)
	} else {
		lgr.Info("catalog_ready", fmt.Sprintf("Catalog primed with %d products", n), "startup", nil)
	}

	consumer := rabbitmq.NewConsumer(mqConn, prefetch)
	handler := amqpAdapter.NewSyncHandler(syncService, lgr)
	worker := appsync.NewWorker(syncService, consumer, handler.HandleMutation,
		time.Duration(cfg.Sync.IntervalSeconds)*time.Second, lgr)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint
		lgr.Info("graceful_shutdown", "Shutting down sync worker", "shutdown", nil)
		cancel()
	}()

	if err := worker.Run(runCtx); err != nil && runCtx.Err() == nil {
		lgr.Error("worker_error", "Sync worker stopped with error", "runtime", nil, err)
	}
}

func runReservationSweeper(ctx context.Context, cfg *config.Config, repos repositories, lgr logger.Logger) {
	service := stockhold.NewService(repos.reservations, repos.products, lgr)
	sweeper := stockhold.NewSweeper(service,
		time.Duration(cfg.Reservations.SweepIntervalSeconds)*time.Second,
		time.Duration(cfg.Reservations.MaxAgeMinutes)*time.Minute,
		lgr)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint
		lgr.Info("graceful_shutdown", "Shutting down reservation sweeper", "shutdown", nil)
		cancel()
	}()

	if err := sweeper.Run(runCtx); err != nil && runCtx.Err() == nil {
		lgr.Error("sweeper_error", "Sweeper stopped with error", "runtime", nil, err)
	}
}
