// main.go
package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"freshcart/cart"
	"freshcart/checkout"
	"freshcart/controllers"
	"freshcart/events"
	"freshcart/middleware"
	"freshcart/routes"
	"freshcart/utils"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found. Proceeding with environment variables.")
	}

	log.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339Nano})

	// Set the JWT secret key
	utils.JwtKey = []byte(os.Getenv("JWT_SECRET"))

	// Initialize EmailService
	emailService := utils.NewEmailService()

	// Connect to MongoDB
	client := utils.ConnectDB()
	defer func() {
		if err := client.Disconnect(context.TODO()); err != nil {
			log.WithError(err).Fatal("mongodb disconnect failed")
		}
	}()

	// Cart store: durable single-record storage plus the change signal bus
	bus := events.NewBus()
	store := cart.NewStore(newCartBackend(), bus)

	// Payment gateway and order submission
	gateway := newGateway()
	orderController := controllers.NewOrderController(client, emailService)
	var creator checkout.OrderCreator = orderController
	if url := os.Getenv("ORDERS_API_URL"); url != "" {
		creator = checkout.NewHTTPOrderClient(url)
		log.WithField("url", url).Info("submitting orders to remote orders API")
	}
	submitter := checkout.NewSubmitter(store, gateway, creator)

	// Route guards
	auth := middleware.NewAuth(middleware.NewMongoRoleFinder(client), middleware.NewRevoker())

	// Initialize controllers
	userController := controllers.NewUserController(client, emailService)
	productController := controllers.NewProductController(client)
	cartController := controllers.NewCartController(store, bus)
	paymentController := controllers.NewPaymentController(gateway, submitter)

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, auth, userController, productController, cartController, orderController, paymentController)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	log.WithField("port", port).Info("server listening")
	log.Fatal(http.ListenAndServe(":"+port, router))
}

// newCartBackend picks the durable slot the cart lives in: Redis when
// REDIS_ADDR is set, otherwise a JSON file.
func newCartBackend() cart.Backend {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		log.WithField("addr", addr).Info("cart backend: redis")
		return cart.NewRedisBackend(redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		}))
	}

	path := os.Getenv("CART_FILE")
	if path == "" {
		path = "data/cart.json"
	}
	log.WithField("path", path).Info("cart backend: file")
	return cart.NewFileBackend(path)
}

// newGateway picks the payment provider: the hosted one when PAYMENT_API_URL
// is set, otherwise the always-approve stub for local runs.
func newGateway() checkout.PaymentGateway {
	if url := os.Getenv("PAYMENT_API_URL"); url != "" {
		log.WithField("url", url).Info("payment gateway: hosted provider")
		return checkout.NewHTTPGateway(url, os.Getenv("PAYMENT_API_KEY"))
	}
	log.Warn("PAYMENT_API_URL not set, using stub payment gateway")
	return checkout.NewStubGateway()
}
