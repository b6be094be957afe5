package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/warehouse360/warehouse360-backend/api/controllers"
	"github.com/warehouse360/warehouse360-backend/api/middleware"
	"github.com/warehouse360/warehouse360-backend/internal/assignments"
	"github.com/warehouse360/warehouse360-backend/internal/auth"
	"github.com/warehouse360/warehouse360-backend/internal/fulfillment"
	"github.com/warehouse360/warehouse360-backend/internal/products"
	internalsession "github.com/warehouse360/warehouse360-backend/internal/session"
	"github.com/warehouse360/warehouse360-backend/internal/stores"
	"github.com/warehouse360/warehouse360-backend/internal/users"
	"github.com/warehouse360/warehouse360-backend/internal/warehouses"
	"github.com/warehouse360/warehouse360-backend/pkg/auth/session"
	"github.com/warehouse360/warehouse360-backend/pkg/config"
	"github.com/warehouse360/warehouse360-backend/pkg/db"
	"github.com/warehouse360/warehouse360-backend/pkg/db/models"
	"github.com/warehouse360/warehouse360-backend/pkg/logger"
	"github.com/warehouse360/warehouse360-backend/pkg/metrics"
	"github.com/warehouse360/warehouse360-backend/pkg/redis"
)

type identitySource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type contextResolver interface {
	Resolve(ctx context.Context, user *models.User, activeAssignmentID *uuid.UUID) (internalsession.Resolution, error)
}

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	SessionChecker session.AccessSessionChecker
	Users          identitySource
	Resolver       contextResolver
	HTTPMetrics    *metrics.HTTPMetrics

	AuthService       auth.Service
	WarehouseService  warehouses.Service
	StoreService      stores.Service
	ProductService    products.Service
	UserService       users.Service
	AssignmentService assignments.Service
	OrderService      fulfillment.Service
}

// NewRouter assembles the middleware chain and all API routes.
func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(d.HTTPMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.DB, d.Redis))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/login", controllers.Login(d.AuthService, logg))
		r.Post("/refresh", controllers.Refresh(d.AuthService, cfg.JWT, logg))

		// Authenticated but allowed before role selection.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.SessionChecker, d.Users, d.Resolver, logg))
			r.Post("/logout", controllers.Logout(d.AuthService, logg))
			r.Get("/role-options", controllers.RoleOptions(d.AuthService, logg))
			r.Post("/select-role", controllers.SelectRole(d.AuthService, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.SessionChecker, d.Users, d.Resolver, logg))
		r.Use(middleware.RequireContext(logg))

		r.Route("/warehouses", func(r chi.Router) {
			r.Get("/", controllers.WarehouseList(d.WarehouseService, logg))
			r.Post("/", controllers.WarehouseCreate(d.WarehouseService, logg))
			r.Get("/{warehouseId}", controllers.WarehouseGet(d.WarehouseService, logg))
			r.Patch("/{warehouseId}", controllers.WarehouseUpdate(d.WarehouseService, logg))
			r.Delete("/{warehouseId}", controllers.WarehouseDelete(d.WarehouseService, logg))
		})

		r.Route("/stores", func(r chi.Router) {
			r.Get("/", controllers.StoreList(d.StoreService, logg))
			r.Post("/", controllers.StoreCreate(d.StoreService, logg))
			r.Get("/options", controllers.StoreOptions(d.StoreService, logg))
			r.Get("/{storeId}", controllers.StoreGet(d.StoreService, logg))
			r.Patch("/{storeId}", controllers.StoreUpdate(d.StoreService, logg))
			r.Delete("/{storeId}", controllers.StoreDelete(d.StoreService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(d.ProductService, logg))
			r.Post("/", controllers.ProductCreate(d.ProductService, logg))
			r.Get("/{productId}", controllers.ProductGet(d.ProductService, logg))
			r.Patch("/{productId}", controllers.ProductUpdate(d.ProductService, logg))
			r.Delete("/{productId}", controllers.ProductDelete(d.ProductService, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.UserList(d.UserService, logg))
			r.Post("/", controllers.UserCreate(d.UserService, logg))
			r.Get("/{userId}", controllers.UserGet(d.UserService, logg))
			r.Patch("/{userId}", controllers.UserUpdate(d.UserService, logg))
			r.Delete("/{userId}", controllers.UserDelete(d.UserService, logg))

			r.Route("/{userId}/assignments", func(r chi.Router) {
				r.Get("/", controllers.AssignmentListByUser(d.AssignmentService, logg))
				r.Post("/", controllers.AssignmentCreate(d.AssignmentService, logg))
			})
		})

		r.Delete("/assignments/{assignmentId}", controllers.AssignmentDelete(d.AssignmentService, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(d.OrderService, logg))
			r.Post("/", controllers.OrderCreate(d.OrderService, logg))
			r.Get("/status-counts", controllers.OrderStatusCounts(d.OrderService, logg))
			r.Get("/{orderId}", controllers.OrderGet(d.OrderService, logg))
			r.Patch("/{orderId}", controllers.OrderUpdate(d.OrderService, logg))
			r.Post("/{orderId}/transition/{kind}", controllers.OrderTransition(d.OrderService, logg))
		})
	})

	return r
}
