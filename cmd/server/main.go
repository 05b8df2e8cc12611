package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/sawitmart/order-service/internal/config"
	"github.com/sawitmart/order-service/internal/es"
	"github.com/sawitmart/order-service/internal/gateway"
	"github.com/sawitmart/order-service/internal/handlers"
	"github.com/sawitmart/order-service/internal/logging"
	loggingmw "github.com/sawitmart/order-service/internal/middleware/logging"
	"github.com/sawitmart/order-service/internal/mykafka"
	"github.com/sawitmart/order-service/internal/repo"
	"github.com/sawitmart/order-service/internal/service"
	"github.com/sawitmart/order-service/internal/service/search"
	httpserver "github.com/sawitmart/order-service/internal/transport/http"
)

const ordersIndex = "orders"

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)
	slog.SetDefault(logger)

	db, err := config.InitDB(context.Background(), configuration.DATABASE_URL)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	svc := &service.OrderService{
		Repo:          &repo.OrderRepo{DB: db},
		Products:      gateway.NewProductClient(configuration.PRODUCT_URL),
		Logistics:     gateway.NewLogisticsClient(configuration.LOGISTIC_URL),
		Payments:      gateway.NewPaymentClient(configuration.PAYMENT_URL),
		OriginCityID:  configuration.WAREHOUSE_CITY_ID,
		PickupAddress: configuration.WAREHOUSE_PICKUP,
	}

	var prod *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		prod = mykafka.NewProducer(config.CSV(configuration.KAFKA_ADDRESS), "order_events")
		svc.Producer = prod
	}

	deps := &httpserver.Deps{
		DB:           db,
		OrderHandler: &handlers.OrderHandler{Svc: svc},
	}

	if configuration.ES_URL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			log.Fatal(err)
		}
		svc.Indexer = &search.Indexer{ES: esClient, IndexName: ordersIndex}
		deps.SearchHandler = handlers.NewSearchHandler(esClient, ordersIndex)
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", configuration.SERVER_PORT),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if prod != nil {
		if err := prod.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}

	log.Println("shutdown complete")
}
