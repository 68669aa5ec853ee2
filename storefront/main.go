package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"overcooked-storefront/config"
	httpapi "overcooked-storefront/storefront/internal/api/http"
	"overcooked-storefront/storefront/internal/client"
	"overcooked-storefront/storefront/internal/discovery"
	"overcooked-storefront/storefront/internal/screens"
	"overcooked-storefront/storefront/internal/service"
	"overcooked-storefront/storefront/internal/storage"

	"github.com/sirupsen/logrus"
)

func main() {
	logger := config.NewLogger(os.Getenv("LOG_LEVEL"))
	cfg := config.Load(logger)
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	apiURL := cfg.APIBaseURL
	if cfg.ConsulAddr != "" {
		consul, err := discovery.NewConsulClient(cfg.ConsulAddr, logger)
		if err != nil {
			logger.WithError(err).Warn("Consul unavailable, using API_BASE_URL")
		} else {
			apiURL = consul.ResolveURL(cfg.APIServiceName, apiURL)
			if port := listenPort(cfg.ListenAddr); port > 0 {
				hostname, _ := os.Hostname()
				serviceID := "storefront-" + hostname
				if err := consul.Register(discovery.ServiceConfig{Name: "storefront", ID: serviceID, Port: port}); err != nil {
					logger.WithError(err).Warn("failed to register with Consul")
				} else {
					defer consul.Deregister(serviceID)
				}
			}
		}
	}
	logger.WithField("api", apiURL).Info("using ordering API")

	requester := client.NewRequester(apiURL, &http.Client{Timeout: 15 * time.Second}, logger)
	restaurants := client.NewRestaurantAPI(requester)
	products := client.NewProductAPI(requester)
	orders := client.NewOrderAPI(requester)

	drafts, closeDrafts := newDraftStore(ctx, cfg, logger)
	defer closeDrafts()

	var events screens.EventPublisher
	if writer := config.NewKafkaWriter(cfg); writer != nil {
		defer writer.Close()
		events = storage.NewKafkaPublisher(writer)
		logger.WithField("topic", cfg.KafkaTopic).Info("publishing storefront events")
	}

	registry := httpapi.NewRegistry(httpapi.Deps{
		Restaurants: restaurants,
		Products:    products,
		Orders:      orders,
		Drafts:      drafts,
		Events:      events,
		ImageBase:   apiURL,
		Logger:      logger,
	})
	go registry.RunPruner(ctx, 10*time.Minute, time.Hour)

	handler := httpapi.NewHandler(registry, restaurants, products, service.ReceiptQR{BaseURL: cfg.AppURL}, logger)
	if err := httpapi.StartServer(ctx, cfg.ListenAddr, httpapi.NewRouter(handler), logger); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}

func newDraftStore(ctx context.Context, cfg config.Config, logger *logrus.Logger) (screens.DraftStore, func()) {
	switch cfg.DraftStore {
	case config.DraftStoreRedis:
		rdb := config.MustInitRedis(cfg, logger)
		return storage.NewRedisDraftStore(rdb, cfg.DraftTTL), func() { rdb.Close() }
	case config.DraftStorePostgres:
		db := config.MustInitPostgres(cfg, logger)
		store := storage.NewPostgresDraftStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			logger.WithError(err).Fatal("failed to create order_drafts table")
		}
		return store, func() { db.Close() }
	default:
		store := storage.NewMemoryDraftStore(cfg.DraftTTL)
		go store.RunPruner(ctx, 10*time.Minute)
		return store, func() {}
	}
}

func listenPort(addr string) int {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return 0
	}
	p, _ := strconv.Atoi(port)
	return p
}
