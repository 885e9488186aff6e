package formulas

import (
	"context"
	"jaspel-service/internal/app/contracts"
	"jaspel-service/internal/app/models"
	"jaspel-service/internal/pkg/constvars"
	"jaspel-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type FeeFormulaMongoRepository struct {
	Collection *mongo.Collection
}

func NewFeeFormulaMongoRepository(db *mongo.Client, dbName string) contracts.FeeFormulaRepository {
	return &FeeFormulaMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionFeeFormulas),
	}
}

func (r *FeeFormulaMongoRepository) FindActiveByShiftWindow(ctx context.Context, shiftWindow string) (*models.FeeFormula, error) {
	var formula models.FeeFormula
	filter := bson.M{"shiftWindow": shiftWindow, "active": true}
	opts := options.FindOne().SetSort(bson.D{{Key: "updatedAt", Value: -1}})

	err := r.Collection.FindOne(ctx, filter, opts).Decode(&formula)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &formula, nil
}

func (r *FeeFormulaMongoRepository) FindAnyActive(ctx context.Context) (*models.FeeFormula, error) {
	var formula models.FeeFormula
	opts := options.FindOne().SetSort(bson.D{{Key: "updatedAt", Value: -1}})

	err := r.Collection.FindOne(ctx, bson.M{"active": true}, opts).Decode(&formula)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &formula, nil
}
