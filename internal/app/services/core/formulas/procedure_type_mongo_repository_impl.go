package formulas

import (
	"context"
	"jaspel-service/internal/app/contracts"
	"jaspel-service/internal/app/models"
	"jaspel-service/internal/pkg/constvars"
	"jaspel-service/internal/pkg/exceptions"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type ProcedureTypeMongoRepository struct {
	Collection *mongo.Collection
}

func NewProcedureTypeMongoRepository(db *mongo.Client, dbName string) contracts.ProcedureTypeRepository {
	return &ProcedureTypeMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionProcedureTypes),
	}
}

func (r *ProcedureTypeMongoRepository) FindByID(ctx context.Context, procedureTypeID string) (*models.ProcedureType, error) {
	var procedureType models.ProcedureType
	err := r.Collection.FindOne(ctx, bson.M{"_id": procedureTypeID}).Decode(&procedureType)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &procedureType, nil
}
