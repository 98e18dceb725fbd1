package db

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var client *mongo.Client

func Connect(uri string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Mongo connect failed: %v", err)
	}

	if err := c.Ping(ctx, readpref.Primary()); err != nil {
		log.Fatalf("Mongo ping failed: %v", err)
	}

	client = c
	log.Println("Connected to MongoDB")
}

func GetCollection(dbName, collection string) *mongo.Collection {
	return client.Database(dbName).Collection(collection)
}
