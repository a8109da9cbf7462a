// Package routes wires every HTTP endpoint to its controller.
package routes

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pentshop/pentshop/app/controllers"
	"github.com/pentshop/pentshop/app/graph"
	"github.com/pentshop/pentshop/app/models"
	"github.com/pentshop/pentshop/app/repositories"
	"github.com/pentshop/pentshop/app/services"
	"github.com/pentshop/pentshop/config"
	"github.com/pentshop/pentshop/pkg/event"
	"github.com/pentshop/pentshop/pkg/logger"
	"github.com/pentshop/pentshop/pkg/metrics"
	"github.com/pentshop/pentshop/pkg/middleware"
	"github.com/pentshop/pentshop/pkg/paystack"
	"github.com/pentshop/pentshop/pkg/rbac"
	"github.com/pentshop/pentshop/pkg/reqid"
	"github.com/pentshop/pentshop/pkg/router"
	"github.com/pentshop/pentshop/pkg/workerpool"
	"github.com/pentshop/pentshop/pkg/ws"
)

// OrderFeed pushes new orders and status changes to connected admin
// dashboards.
var OrderFeed = ws.NewHub()

var adminOnly = rbac.HasRole("admin")

// feedBroadcast subscribes the admin feed to an order event. The push
// is non-blocking; a full hub drops the frame rather than stalling the
// write path.
func feedBroadcast(hub *ws.Hub, name string) event.Handler {
	return func(payload interface{}) {
		order, ok := payload.(models.Order)
		if !ok {
			return
		}
		data, err := json.Marshal(map[string]interface{}{
			"event": name,
			"order": order,
		})
		if err != nil {
			return
		}
		select {
		case hub.Broadcast <- data:
		default:
		}
	}
}

// Build constructs the router with every route and its middleware.
func Build() *router.Router {
	r := router.New()

	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(300, time.Minute),
	)

	go OrderFeed.Run()
	event.Listen("order.placed", feedBroadcast(OrderFeed, "order.placed"))
	event.Listen("order.status_changed", feedBroadcast(OrderFeed, "order.status_changed"))

	pool := workerpool.New(4)

	orderSvc := services.NewOrderService(
		repositories.NewOrderRepository(),
		paystack.New(config.PaystackBaseURL(), config.PaystackSecretKey()),
	)
	authSvc := services.NewAuthService(repositories.NewUserRepository())
	productSvc := services.NewProductService(repositories.NewProductRepository(), pool)

	orders := controllers.NewOrderController(orderSvc)
	payments := controllers.NewPaymentController(orderSvc)
	auth := controllers.NewAuthController(authSvc)
	products := controllers.NewProductController(productSvc)
	posts := controllers.NewPostController(repositories.NewPostRepository())
	submissions := controllers.NewSubmissionController(repositories.NewSubmissionRepository())
	settings := controllers.NewSettingsController(repositories.NewSettingsRepository())
	notifications := controllers.NewNotificationController(repositories.NewNotificationRepository())
	health := controllers.NewHealthController()

	api := r.Group("/api")

	// Orders. Listing, status updates and deletion are admin-only;
	// creation and customer lookups are public so guests can order.
	api.Post("/orders", "orders.create", orders.Create)
	api.Get("/orders", "orders.list", orders.List, middleware.Auth, adminOnly)
	api.Get("/orders/user/{email}", "orders.by_email", orders.ListByEmail)
	api.Get("/orders/reference/{reference}", "orders.by_reference", orders.GetByReference)
	api.Get("/orders/{id}", "orders.get", orders.Get)
	api.Put("/orders/{id}", "orders.update_status", orders.UpdateStatus, middleware.Auth, adminOnly)
	api.Delete("/orders/{id}", "orders.delete", orders.Delete, middleware.Auth, adminOnly)

	// Payments.
	api.Post("/paystack/initiate", "paystack.initiate", payments.Initiate)

	// Auth.
	api.Post("/auth/signup", "auth.signup", auth.Signup)
	api.Post("/auth/login", "auth.login", auth.Login)
	api.Post("/auth/verify-email", "auth.verify_email", auth.VerifyEmail)
	api.Post("/auth/reset-password", "auth.reset_password", auth.ResetPassword)
	api.Get("/auth/me", "auth.me", auth.Me, middleware.Auth)
	api.Put("/auth/me", "auth.update_me", auth.UpdateMe, middleware.Auth)

	// User administration.
	api.Get("/users", "users.list", auth.Users, middleware.Auth, adminOnly)
	api.Delete("/users/{email}", "users.delete", auth.DeleteUser, middleware.Auth, adminOnly)

	// Catalogue.
	api.Get("/products", "products.list", products.List)
	api.Get("/products/{id}", "products.get", products.Get)
	api.Post("/products", "products.create", products.Create, middleware.Auth, adminOnly)
	api.Post("/products/upload", "products.upload", products.Upload, middleware.Auth, adminOnly)
	api.Put("/products/{id}", "products.update", products.Update, middleware.Auth, adminOnly)
	api.Delete("/products/{id}", "products.delete", products.Delete, middleware.Auth, adminOnly)

	// CMS.
	api.Get("/cms/posts", "cms.posts.list", posts.List, middleware.Auth, adminOnly)
	api.Post("/cms/posts", "cms.posts.create", posts.Create, middleware.Auth, adminOnly)
	api.Get("/cms/posts/{id}", "cms.posts.get", posts.Get, middleware.Auth, adminOnly)
	api.Put("/cms/posts/{id}", "cms.posts.update", posts.Update, middleware.Auth, adminOnly)
	api.Delete("/cms/posts/{id}", "cms.posts.delete", posts.Delete, middleware.Auth, adminOnly)
	api.Get("/public/posts", "public.posts", posts.Published)
	api.Post("/public/posts/{id}/like", "public.posts.like", posts.Like)
	api.Post("/public/posts/{id}/view", "public.posts.view", posts.View)

	// Spiritual submissions.
	api.Post("/spiritual-submissions", "submissions.create", submissions.Create)
	api.Get("/spiritual-submissions", "submissions.list", submissions.List, middleware.Auth, adminOnly)

	// Settings.
	api.Get("/settings", "settings.get", settings.Get)
	api.Put("/settings", "settings.update", settings.Update, middleware.Auth, adminOnly)

	// Admin notifications and ad hoc mail.
	api.Post("/notifications", "notifications.send", notifications.Send, middleware.Auth, adminOnly)
	api.Get("/notifications", "notifications.list", notifications.List, middleware.Auth, adminOnly)
	api.Put("/notifications/{id}/read", "notifications.read", notifications.MarkRead, middleware.Auth, adminOnly)
	api.Delete("/notifications/{id}", "notifications.delete", notifications.Delete, middleware.Auth, adminOnly)
	api.Post("/email", "email.send", notifications.SendEmail, middleware.Auth, adminOnly)

	// Health and live order feed.
	api.Get("/health", "health", health.Check)
	api.Get("/admin/orders/live", "admin.orders.live", func(w http.ResponseWriter, req *http.Request) {
		ws.Upgrade(w, req, OrderFeed)
	}, middleware.Auth, adminOnly)

	// GraphQL read API.
	if gql, err := graph.New(orderSvc, productSvc, repositories.NewPostRepository()); err != nil {
		logger.Error("graphql: schema build failed, endpoint disabled", "error", err)
	} else {
		r.Handle("/graphql", gql)
	}

	// Prometheus and uploaded images.
	r.Handle("/metrics", metrics.Handler())
	r.Handle("/uploads/*", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(config.StorageLocalRoot()))))

	return r
}
