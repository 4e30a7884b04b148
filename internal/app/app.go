package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/abrezinsky/lottoledger/internal/cache"
	"github.com/abrezinsky/lottoledger/internal/config"
	"github.com/abrezinsky/lottoledger/internal/handlers"
	"github.com/abrezinsky/lottoledger/internal/logger"
	"github.com/abrezinsky/lottoledger/internal/models"
	"github.com/abrezinsky/lottoledger/internal/repository"
	"github.com/abrezinsky/lottoledger/internal/services"
	"github.com/abrezinsky/lottoledger/internal/websocket"
)

// App holds all application dependencies
type App struct {
	log             logger.Logger
	handlers        *handlers.Handlers
	repo            *repository.Repository
	redis           *redis.Client
	engine          *services.Engine
	cancelHeartbeat context.CancelFunc
}

// New creates and initializes a new application instance
func New(log logger.Logger, cfg *config.Config) (*App, error) {
	repo, err := repository.New(cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()

	ledger, err := services.NewLedgerService(log, repo, cfg.PotSplit())
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("invalid pot split: %w", err)
	}
	if err := ledger.Init(ctx); err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to initialize pots: %w", err)
	}

	store, rdb, err := newCacheStore(ctx, cfg)
	if err != nil {
		repo.Close()
		return nil, err
	}

	engine := services.NewEngine(log, ledger,
		services.NewHierarchyResolver(log, repo),
		services.NewCommissionEngine(log, repo),
		cache.New(log, store))
	if err := engine.RefreshHierarchy(ctx); err != nil {
		// the resolver retries on first use
		log.Warn("Failed to load reseller tree", "error", err)
	}

	entityService := services.NewEntityService(log, repo)
	entityService.SetRefresher(engine)
	wagerService := services.NewWagerService(log, repo, repo, ledger)

	hub := websocket.New(log, ledger)
	hub.Start()
	ledger.SetBroadcaster(hub)

	hbCtx, cancel := context.WithCancel(context.Background())
	go hub.StartHeartbeat(hbCtx, cfg.Server.Heartbeat)

	h := handlers.New(engine, ledger, entityService, wagerService, hub, log)

	log.Info("Application initialized",
		"db", cfg.Database.Path,
		"cache", cfg.Cache.Backend,
		"pots", fmt.Sprintf("%s/%s/%s", cfg.Pots.PrizeFund, cfg.Pots.Reserve, cfg.Pots.OperatorProfit))

	return &App{
		log:             log,
		handlers:        h,
		repo:            repo,
		redis:           rdb,
		engine:          engine,
		cancelHeartbeat: cancel,
	}, nil
}

// newCacheStore builds the aggregation cache backend named in the config
func newCacheStore(ctx context.Context, cfg *config.Config) (cache.Store, *redis.Client, error) {
	if cfg.Cache.Backend != "redis" {
		return cache.NewMemoryStore(), nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	store, err := cache.NewRedisStore(ctx, &cache.RedisConfig{
		Client:    rdb,
		KeyPrefix: cfg.Redis.KeyPrefix,
		TTL:       cfg.Cache.TTL,
	})
	if err != nil {
		rdb.Close()
		return nil, nil, err
	}
	return store, rdb, nil
}

// Balances returns the current pot balances
func (a *App) Balances(ctx context.Context) (*models.LedgerSnapshot, error) {
	return a.engine.Snapshot(ctx)
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Close performs graceful shutdown of app resources
func (a *App) Close() {
	if a.cancelHeartbeat != nil {
		a.cancelHeartbeat()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("Failed to close redis client", "error", err)
		}
	}
	if a.repo != nil {
		if err := a.repo.Close(); err != nil {
			a.log.Warn("Failed to close database", "error", err)
		}
	}
}

// Run serves HTTP on addr until ctx is cancelled, then drains open requests
func (a *App) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		port = strings.TrimPrefix(addr, ":")
	}
	baseURL := fmt.Sprintf("http://%s:%s", getPreferredIP(realNetworkProvider{}), port)
	a.log.Info("Server starting", "url", baseURL)
	a.log.Info("Ledger feed", "url", strings.Replace(baseURL, "http://", "ws://", 1)+"/ws")

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a.log.Info("Server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// networkInterface wraps net.Interface for testing
type networkInterface interface {
	Flags() net.Flags
	Addrs() ([]net.Addr, error)
}

type realInterface struct {
	iface net.Interface
}

func (r realInterface) Flags() net.Flags {
	return r.iface.Flags
}

func (r realInterface) Addrs() ([]net.Addr, error) {
	return r.iface.Addrs()
}

// networkProvider lists network interfaces
type networkProvider interface {
	Interfaces() ([]networkInterface, error)
}

type realNetworkProvider struct{}

func (realNetworkProvider) Interfaces() ([]networkInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	result := make([]networkInterface, len(ifaces))
	for i, iface := range ifaces {
		result[i] = realInterface{iface: iface}
	}
	return result, nil
}

// getPreferredIP returns the address back-office screens on the LAN should use.
// Private IPv4 ranges win; localhost is the fallback.
func getPreferredIP(provider networkProvider) string {
	ifaces, err := provider.Interfaces()
	if err != nil {
		return "localhost"
	}

	var candidates []net.IP
	for _, iface := range ifaces {
		flags := iface.Flags()
		if flags&net.FlagUp == 0 || flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip == nil || ip.To4() == nil || ip.IsLoopback() {
				continue
			}
			candidates = append(candidates, ip)
		}
	}

	for _, ip := range candidates {
		if ip.IsPrivate() {
			return ip.String()
		}
	}
	if len(candidates) > 0 {
		return candidates[0].String()
	}
	return "localhost"
}
