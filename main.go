package main

//go:generate swag init

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pahanaedu/bookshop/db"
	_ "github.com/pahanaedu/bookshop/docs"
	"github.com/pahanaedu/bookshop/handlers"
	httpSwagger "github.com/swaggo/http-swagger"
)

//go:embed static/*
var staticFiles embed.FS

// @title           Pahana Edu Bookshop API
// @version         1.0.0
// @description     API for managing bookshop customers, inventory, and billing.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.basic  BasicAuth

func main() {
	// Configure structured logging
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	// Open database
	database, err := db.Open()
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	// Run migrations
	if err := db.Migrate(database); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Set shared DB for handlers
	handlers.DB = database

	// Router setup
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// API routes with basic auth
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(handlers.BasicAuth)

		// Customers
		r.Get("/customers", handlers.ListCustomers)
		r.Post("/customers", handlers.CreateCustomer)
		r.Get("/customers/{id}", handlers.GetCustomer)
		r.Put("/customers/{id}", handlers.UpdateCustomer)
		r.Delete("/customers/{id}", handlers.DeleteCustomer)
		r.Get("/customers/{id}/bills", handlers.GetCustomerBills)

		// Items
		r.Get("/items", handlers.ListItems)
		r.Post("/items", handlers.CreateItem)
		r.Get("/items/{id}", handlers.GetItem)
		r.Put("/items/{id}", handlers.UpdateItem)
		r.Delete("/items/{id}", handlers.DeleteItem)
		r.Post("/items/{id}/stock", handlers.AdjustItemStock)

		// Bills
		r.Get("/bills", handlers.ListBills)
		r.Post("/bills", handlers.CreateBill)
		r.Get("/bills/{id}", handlers.GetBill)
		r.Delete("/bills/{id}", handlers.DeleteBill)
		r.Put("/bills/{id}/status", handlers.UpdateBillStatus)
		r.Get("/bills/{id}/items", handlers.GetBillLineItems)

		// Dashboard
		r.Get("/dashboard", handlers.GetDashboard)
	})

	// Serve static files (UI)
	staticFS, _ := fs.Sub(staticFiles, "static")
	r.Handle("/*", http.FileServer(http.FS(staticFS)))

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := fmt.Sprintf(":%s", port)
	slog.Info("server starting", "address", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
