package routes

import (
	"github.com/gorilla/mux"

	"freshcart/controllers"
	"freshcart/middleware"
	"freshcart/models"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, auth *middleware.Auth, userController *controllers.UserController, productController *controllers.ProductController, cartController *controllers.CartController, orderController *controllers.OrderController, paymentController *controllers.PaymentController) {
	// Public routes
	router.HandleFunc("/register", userController.Register).Methods("POST")
	router.HandleFunc("/login", userController.Login).Methods("POST")
	router.HandleFunc("/users", userController.UpsertUser).Methods("POST")
	router.HandleFunc("/products", productController.GetProducts).Methods("GET")
	router.HandleFunc("/products/{id}", productController.GetProductByID).Methods("GET")
	router.HandleFunc("/create-payment-intent", paymentController.CreatePaymentIntent).Methods("POST")

	// Signed-in shopper routes
	shopper := router.PathPrefix("/").Subrouter()
	shopper.Use(auth.Authenticate)
	shopper.HandleFunc("/profile", userController.GetProfile).Methods("GET")
	shopper.HandleFunc("/users", userController.GetUsers).Methods("GET")
	shopper.HandleFunc("/cart", cartController.GetCart).Methods("GET")
	shopper.HandleFunc("/cart", cartController.ClearCart).Methods("DELETE")
	shopper.HandleFunc("/cart/count", cartController.GetCartCount).Methods("GET")
	shopper.HandleFunc("/cart/items", cartController.AddItem).Methods("POST")
	shopper.HandleFunc("/cart/items/{cartId}", cartController.UpdateItem).Methods("PATCH")
	shopper.HandleFunc("/cart/items/{cartId}", cartController.RemoveItem).Methods("DELETE")
	shopper.HandleFunc("/checkout", paymentController.Checkout).Methods("POST")
	shopper.HandleFunc("/orders", orderController.CreateOrder).Methods("POST")
	shopper.HandleFunc("/orders", orderController.GetOrders).Methods("GET")
	shopper.HandleFunc("/orders/{id}", orderController.GetOrderByID).Methods("GET")

	// Catalog management (admin and manager)
	catalog := router.PathPrefix("/products").Subrouter()
	catalog.Use(auth.Authenticate)
	catalog.Use(auth.RequireRole(models.RoleAdmin, models.RoleManager))
	catalog.HandleFunc("", productController.CreateProduct).Methods("POST")
	catalog.HandleFunc("/{id}", productController.UpdateProduct).Methods("PATCH")
	catalog.HandleFunc("/{id}", productController.DeleteProduct).Methods("DELETE")

	// Order management (admin and manager)
	orders := router.PathPrefix("/orders").Subrouter()
	orders.Use(auth.Authenticate)
	orders.Use(auth.RequireRole(models.RoleAdmin, models.RoleManager))
	orders.HandleFunc("/{id}", orderController.UpdateOrderStatus).Methods("PATCH")
	orders.HandleFunc("/{id}", orderController.DeleteOrder).Methods("DELETE")

	// User management (admin only)
	users := router.PathPrefix("/users").Subrouter()
	users.Use(auth.Authenticate)
	users.Use(auth.RequireRole(models.RoleAdmin))
	users.HandleFunc("/{id}", userController.UpdateUserRole).Methods("PATCH")
}
