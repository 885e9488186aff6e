package main

import (
	"context"
	"jaspel-service/internal/app/config"
	"jaspel-service/internal/app/drivers/database"
	"jaspel-service/internal/app/services/core/feerecords"
	"log"
	"time"
)

// Ensures the unique natural-key indexes exist before the service takes
// writes. Run once per deployment; index creation is idempotent.
func main() {
	driverConfig := config.NewDriverConfig()

	mongoDB := database.NewMongoDB(driverConfig)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := feerecords.EnsureIndexes(ctx, mongoDB, driverConfig.MongoDB.DbName); err != nil {
		log.Fatalf("Error creating fee record indexes: %v", err)
	}
	log.Println("Fee record natural-key indexes are in place")

	if err := mongoDB.Disconnect(ctx); err != nil {
		log.Fatalf("Error disconnecting from mongo database: %v", err)
	}
}
