package patientcounts

import (
	"context"
	"jaspel-service/internal/app/contracts"
	"jaspel-service/internal/app/models"
	"jaspel-service/internal/pkg/constvars"
	"jaspel-service/internal/pkg/exceptions"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PatientCountMongoRepository struct {
	Collection *mongo.Collection
}

func NewPatientCountMongoRepository(db *mongo.Client, dbName string) contracts.DailyPatientCountRepository {
	return &PatientCountMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionPatientCounts),
	}
}

func (r *PatientCountMongoRepository) FindByID(ctx context.Context, patientCountID string) (*models.DailyPatientCount, error) {
	var count models.DailyPatientCount
	err := r.Collection.FindOne(ctx, bson.M{"_id": patientCountID}).Decode(&count)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &count, nil
}

func (r *PatientCountMongoRepository) FindApprovedByDoctorAndRange(ctx context.Context, doctorID string, from, to time.Time) ([]models.DailyPatientCount, error) {
	filter := bson.M{
		"doctorId": doctorID,
		"status":   constvars.ValidationStatusApproved,
		"date": bson.M{
			"$gte": from,
			"$lte": to,
		},
	}
	cursor, err := r.Collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var counts []models.DailyPatientCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return counts, nil
}

func (r *PatientCountMongoRepository) Approve(ctx context.Context, patientCountID, approverID string, approvedAt time.Time) error {
	filter := bson.M{"_id": patientCountID}
	update := bson.M{
		"$set": bson.M{
			"status":     constvars.ValidationStatusApproved,
			"approvedBy": approverID,
			"approvedAt": approvedAt,
			"updatedAt":  time.Now(),
		},
	}
	_, err := r.Collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}
