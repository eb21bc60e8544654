package utils

import (
	"context"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DatabaseName is the MongoDB database all collections live in.
const DatabaseName = "freshcart"

// ConnectDB connects to MongoDB using MONGO_URI and verifies the connection.
func ConnectDB() *mongo.Client {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.WithError(err).Fatal("mongodb connect failed")
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.WithError(err).Fatal("mongodb ping failed")
	}

	log.Info("connected to mongodb")
	return client
}
