package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"freshcart/checkout"
	"freshcart/models"
	"freshcart/utils"
)

// OrderController handles order-related requests and implements
// checkout.OrderCreator for single-binary deployments.
type OrderController struct {
	Collection   *mongo.Collection
	EmailService *utils.EmailService
}

// NewOrderController creates a new OrderController
func NewOrderController(client *mongo.Client, emailService *utils.EmailService) *OrderController {
	collection := client.Database(utils.DatabaseName).Collection("orders")
	return &OrderController{
		Collection:   collection,
		EmailService: emailService,
	}
}

// Create persists an order and returns its id. The status always starts at
// pending regardless of what the caller sent; transitions happen only through
// UpdateOrderStatus.
func (oc *OrderController) Create(ctx context.Context, req checkout.OrderRequest) (string, error) {
	order := models.Order{
		Email:           req.Email,
		Products:        req.Products,
		Total:           req.Total,
		PaymentMethod:   req.PaymentMethod,
		TransactionID:   req.TransactionID,
		ShippingAddress: req.ShippingAddress,
		OrderStatus:     models.OrderStatusPending,
		CreatedAt:       time.Now().UTC(),
	}

	result, err := oc.Collection.InsertOne(ctx, order)
	if err != nil {
		return "", err
	}
	id := result.InsertedID.(primitive.ObjectID).Hex()
	order.ID = result.InsertedID.(primitive.ObjectID)

	go func(email string, order models.Order) {
		if err := oc.EmailService.SendOrderConfirmationEmail(email, order); err != nil {
			log.WithError(err).WithField("email", email).Warn("order confirmation email failed")
		}
	}(req.Email, order)

	return id, nil
}

// CreateOrder handles POST /orders. Responds 201 with the inserted id; only
// a 201 tells the storefront it may clear its cart.
func (oc *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req checkout.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if req.Email == "" || len(req.Products) == 0 {
		http.Error(w, "Email and products are required", http.StatusBadRequest)
		return
	}
	if req.Total <= 0 {
		http.Error(w, "Invalid order total", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	id, err := oc.Create(ctx, req)
	if err != nil {
		http.Error(w, "Failed to create order", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{
		"insertedId": id,
		"message":    "Order created successfully",
	})
}

// GetOrders retrieves a page of orders. Supported query params: email,
// status, page, limit. Responds with {orders, totalPages}.
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)
	if limit > 1000 {
		limit = 1000
	}

	filter := bson.M{}
	if email := r.URL.Query().Get("email"); email != "" {
		filter["email"] = email
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["orderStatus"] = status
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	total, err := oc.Collection.CountDocuments(ctx, filter)
	if err != nil {
		http.Error(w, "Error counting orders", http.StatusInternalServerError)
		return
	}

	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := oc.Collection.Find(ctx, filter, opts)
	if err != nil {
		http.Error(w, "Failed to retrieve orders", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		http.Error(w, "Error decoding orders", http.StatusInternalServerError)
		return
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)
	if totalPages == 0 {
		totalPages = 1
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"orders":     orders,
		"totalPages": totalPages,
	})
}

// GetOrderByID retrieves a single order
func (oc *OrderController) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	var order models.Order
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = oc.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(order)
}

// UpdateOrderStatus moves an order through its lifecycle (admin/manager
// only). Illegal transitions are rejected here; clients never compute them.
func (oc *OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	var update struct {
		OrderStatus string `json:"orderStatus"`
	}
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var order models.Order
	err = oc.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	if !models.CanTransition(order.OrderStatus, update.OrderStatus) {
		http.Error(w, "Invalid status transition", http.StatusBadRequest)
		return
	}

	_, err = oc.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"orderStatus": update.OrderStatus},
	})
	if err != nil {
		http.Error(w, "Failed to update order status", http.StatusInternalServerError)
		return
	}

	log.WithFields(log.Fields{
		"orderId": id.Hex(),
		"from":    order.OrderStatus,
		"to":      update.OrderStatus,
	}).Info("order status updated")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Order status updated successfully"})
}

// DeleteOrder removes an order (admin/manager only)
func (oc *OrderController) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := oc.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		http.Error(w, "Error deleting order", http.StatusInternalServerError)
		return
	}
	if result.DeletedCount == 0 {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Order deleted successfully"})
}
