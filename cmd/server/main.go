package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/homesplit/homesplit/internal/auth"
	"github.com/homesplit/homesplit/internal/middleware"
	"github.com/homesplit/homesplit/internal/rpc"
	"github.com/homesplit/homesplit/internal/service"
	"github.com/homesplit/homesplit/internal/storage/sqlite"
	"github.com/homesplit/homesplit/pkg/logging"
)

const tokenLifetime = 30 * 24 * time.Hour

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	logging.Setup()

	dbPath := getEnv("DB_PATH", "./data/homesplit.db")
	port := getEnv("PORT", "8080")
	jwtSecret := os.Getenv("JWT_SECRET")
	returnBase := getEnv("PAYPAL_RETURN_BASE", "https://homesplit.app")

	if jwtSecret == "" {
		slog.Error("JWT_SECRET must be set")
		os.Exit(1)
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", dbPath)

	tokens := auth.NewTokenManager(jwtSecret, tokenLifetime)
	interceptors := connect.WithInterceptors(
		middleware.Auth(tokens),
		middleware.Logging(),
		middleware.Metrics(),
	)

	mux := http.NewServeMux()

	authPath, authHandler := rpc.NewAuthServiceHandler(
		service.NewAuthService(store, tokens), interceptors)
	mux.Handle(authPath, authHandler)

	householdPath, householdHandler := rpc.NewHouseholdServiceHandler(
		service.NewHouseholdService(store), interceptors)
	mux.Handle(householdPath, householdHandler)

	shoppingPath, shoppingHandler := rpc.NewShoppingServiceHandler(
		service.NewShoppingService(store), interceptors)
	mux.Handle(shoppingPath, shoppingHandler)

	ledgerPath, ledgerHandler := rpc.NewLedgerServiceHandler(
		service.NewLedgerService(store, returnBase), interceptors)
	mux.Handle(ledgerPath, ledgerHandler)

	mux.Handle("/metrics", promhttp.Handler())

	// h2c allows HTTP/2 without TLS, which Connect clients use locally.
	handler := h2c.NewHandler(corsMiddleware(mux), &http2.Server{})

	addr := ":" + port
	slog.Info("Connect server starting", "address", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

// corsMiddleware adds CORS headers for browser and embedded-webview access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
