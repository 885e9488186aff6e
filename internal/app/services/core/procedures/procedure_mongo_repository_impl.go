package procedures

import (
	"context"
	"jaspel-service/internal/app/contracts"
	"jaspel-service/internal/app/models"
	"jaspel-service/internal/pkg/constvars"
	"jaspel-service/internal/pkg/exceptions"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type ProcedureMongoRepository struct {
	Collection *mongo.Collection
}

func NewProcedureMongoRepository(db *mongo.Client, dbName string) contracts.ProcedureRepository {
	return &ProcedureMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionProcedures),
	}
}

func (r *ProcedureMongoRepository) FindByID(ctx context.Context, procedureID string) (*models.Procedure, error) {
	var procedure models.Procedure
	err := r.Collection.FindOne(ctx, bson.M{"_id": procedureID}).Decode(&procedure)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &procedure, nil
}

func (r *ProcedureMongoRepository) UpdateStatus(ctx context.Context, procedure *models.Procedure, expectedVersion int64) (bool, error) {
	filter := bson.M{"_id": procedure.ID, "version": expectedVersion}
	update := bson.M{
		"$set": bson.M{
			"status":      procedure.Status,
			"validatedBy": procedure.ValidatedBy,
			"validatedAt": procedure.ValidatedAt,
			"updatedAt":   time.Now(),
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := r.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, exceptions.ErrMongoDBUpdateDocument(err)
	}
	if result.MatchedCount == 0 {
		// Version moved underneath us; the caller decides whether to
		// reload or surface a conflict.
		return false, nil
	}
	procedure.Version = expectedVersion + 1
	return true, nil
}
