package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"agrihub/internal/auth"
)

func (app *application) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(app.recoverPanic, app.logRequest)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", app.root)
		r.Get("/health", app.health)

		r.Post("/auth/signup", app.signup)
		r.Post("/auth/login", app.login)

		r.Get("/products", app.listProducts)
		r.Get("/products/{id}", app.showProduct)
		r.Get("/reviews/{productID}", app.listReviews)

		r.Group(func(r chi.Router) {
			r.Use(app.requireAuth)

			r.Get("/auth/me", app.me)
			r.Get("/orders", app.listOrders)
			r.Get("/orders/{id}", app.showOrder)
			r.Get("/notifications", app.listNotifications)
			r.Put("/notifications/{id}/read", app.markNotificationRead)

			r.Group(func(r chi.Router) {
				r.Use(app.requireRole(auth.RoleFarmer))

				r.Post("/products", app.createProduct)
				r.Put("/products/{id}", app.updateProduct)
				r.Delete("/products/{id}", app.deleteProduct)
				r.Get("/farmer/products", app.farmerProducts)
				r.Put("/orders/{id}/status", app.updateOrderStatus)
			})

			r.Group(func(r chi.Router) {
				r.Use(app.requireRole(auth.RoleBuyer))

				r.Post("/cart", app.addToCart)
				r.Get("/cart", app.getCart)
				r.Put("/cart/{id}", app.updateCartItem)
				r.Delete("/cart/{id}", app.removeCartItem)
				r.Delete("/cart", app.clearCart)
				r.Post("/orders", app.createOrder)
				r.Post("/reviews", app.createReview)
				r.Post("/payment/process", app.processPayment)
			})

			r.Group(func(r chi.Router) {
				r.Use(app.requireRole(auth.RoleAdmin))

				r.Get("/admin/users", app.listUsers)
				r.Get("/admin/pending-products", app.pendingProducts)
				r.Get("/admin/analytics", app.analytics)
				r.Put("/admin/products/{id}/approve", app.approveProduct)
			})
		})
	})

	r.Get("/ws", app.serveWS)

	return r
}
