package feerecords

import (
	"context"
	"jaspel-service/internal/app/contracts"
	"jaspel-service/internal/app/models"
	"jaspel-service/internal/pkg/constvars"
	"jaspel-service/internal/pkg/exceptions"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type FeeRecordMongoRepository struct {
	Collection *mongo.Collection
}

func NewFeeRecordMongoRepository(db *mongo.Client, dbName string) contracts.FeeRecordRepository {
	return &FeeRecordMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionFeeRecords),
	}
}

// EnsureIndexes creates the unique natural-key indexes settlement
// idempotency depends on. Run by the migration command before the service
// starts taking writes.
func EnsureIndexes(ctx context.Context, db *mongo.Client, dbName string) error {
	collection := db.Database(dbName).Collection(constvars.MongoCollectionFeeRecords)
	_, err := collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "procedureId", Value: 1}, {Key: "beneficiaryId", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"procedureId": bson.M{"$gt": ""}}),
		},
		{
			Keys: bson.D{{Key: "beneficiaryId", Value: 1}, {Key: "settlementDate", Value: 1}, {Key: "category", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"category": string(models.CategoryPatientCountDaily)}),
		},
	})
	return err
}

func (r *FeeRecordMongoRepository) Insert(ctx context.Context, record *models.FeeRecord) (bool, error) {
	if record.ID == "" {
		record.ID = primitive.NewObjectID().Hex()
	}
	now := time.Now()
	record.CreatedAt = now
	record.UpdatedAt = now

	_, err := r.Collection.InsertOne(ctx, record)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Another writer settled the same natural key first; this is
			// the idempotent outcome, not a failure.
			return false, nil
		}
		return false, exceptions.ErrMongoDBInsertDocument(err)
	}
	return true, nil
}

func (r *FeeRecordMongoRepository) FindByID(ctx context.Context, feeRecordID string) (*models.FeeRecord, error) {
	var record models.FeeRecord
	err := r.Collection.FindOne(ctx, bson.M{"_id": feeRecordID}).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &record, nil
}

func (r *FeeRecordMongoRepository) FindByProcedureAndBeneficiary(ctx context.Context, procedureID, beneficiaryID string) (*models.FeeRecord, error) {
	var record models.FeeRecord
	filter := bson.M{"procedureId": procedureID, "beneficiaryId": beneficiaryID}
	err := r.Collection.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &record, nil
}

func (r *FeeRecordMongoRepository) FindByBeneficiaryDateCategory(ctx context.Context, beneficiaryID string, date time.Time, category models.FeeCategory) (*models.FeeRecord, error) {
	var record models.FeeRecord
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	filter := bson.M{
		"beneficiaryId": beneficiaryID,
		"category":      string(category),
		"settlementDate": bson.M{
			"$gte": dayStart,
			"$lt":  dayStart.AddDate(0, 0, 1),
		},
	}
	err := r.Collection.FindOne(ctx, filter).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &record, nil
}

func (r *FeeRecordMongoRepository) FindByProcedure(ctx context.Context, procedureID string) ([]models.FeeRecord, error) {
	cursor, err := r.Collection.Find(ctx, bson.M{"procedureId": procedureID})
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var records []models.FeeRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return records, nil
}

func (r *FeeRecordMongoRepository) FindDuplicateShape(ctx context.Context, record *models.FeeRecord) (bool, error) {
	dayStart := time.Date(record.SettlementDate.Year(), record.SettlementDate.Month(), record.SettlementDate.Day(), 0, 0, 0, 0, record.SettlementDate.Location())
	filter := bson.M{
		"_id":           bson.M{"$ne": record.ID},
		"beneficiaryId": record.BeneficiaryID,
		"category":      string(record.Category),
		"nominal":       record.Nominal,
		"settlementDate": bson.M{
			"$gte": dayStart,
			"$lt":  dayStart.AddDate(0, 0, 1),
		},
	}
	count, err := r.Collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, exceptions.ErrMongoDBFindDocument(err)
	}
	return count > 0, nil
}

func (r *FeeRecordMongoRepository) Update(ctx context.Context, record *models.FeeRecord) error {
	record.UpdatedAt = time.Now()
	filter := bson.M{"_id": record.ID}
	update := bson.M{"$set": record}

	_, err := r.Collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(false))
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

func (r *FeeRecordMongoRepository) Delete(ctx context.Context, feeRecordID string) error {
	_, err := r.Collection.DeleteOne(ctx, bson.M{"_id": feeRecordID})
	if err != nil {
		return exceptions.ErrMongoDBDeleteDocument(err)
	}
	return nil
}
