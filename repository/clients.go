package repository

import (
	"context"
	"errors"
	"main/model"
	"main/utils"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type ClientsRepo struct {
	MongoCollection *mongo.Collection
}

// Retrieves MongoDB collection for clients
func GetClientsRepo(client *mongo.Client) *ClientsRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := utils.GetEnvAsString("CLIENTS_COLLECTION", "clients")
	return &ClientsRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func (r *ClientsRepo) CreateClient(ctx context.Context, client *model.Client) error {
	timer := utils.TrackDBOperation("insert", "clients")
	defer timer.ObserveDuration()

	_, err := r.MongoCollection.InsertOne(ctx, client)
	if err != nil {
		utils.TrackError("database", "client_creation_failed")
		return err
	}
	return nil
}

// Returns nil, nil when the client does not exist
func (r *ClientsRepo) GetClientByID(ctx context.Context, clientID string) (*model.Client, error) {
	timer := utils.TrackDBOperation("find_one", "clients")
	defer timer.ObserveDuration()

	var client model.Client
	err := r.MongoCollection.FindOne(ctx, bson.M{"_id": clientID}).Decode(&client)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		utils.TrackError("database", "client_fetch_failed")
		return nil, err
	}
	return &client, nil
}

func (r *ClientsRepo) GetAllClients(ctx context.Context) ([]*model.Client, error) {
	timer := utils.TrackDBOperation("find", "clients")
	defer timer.ObserveDuration()

	var clients []*model.Client
	cursor, err := r.MongoCollection.Find(ctx, bson.M{})
	if err != nil {
		utils.TrackError("database", "client_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &clients); err != nil {
		utils.TrackError("database", "client_decode_failed")
		return nil, err
	}
	return clients, nil
}

func (r *ClientsRepo) UpdateClient(ctx context.Context, clientID string, updates *model.Client) error {
	timer := utils.TrackDBOperation("update", "clients")
	defer timer.ObserveDuration()

	update := bson.M{
		"$set": bson.M{
			"name":                updates.Name,
			"registration_number": updates.RegistrationNumber,
			"contact_email":       updates.ContactEmail,
			"phone":               updates.Phone,
			"active":              updates.Active,
			"updated_at":          time.Now(),
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, bson.M{"_id": clientID}, update)
	if err != nil {
		utils.TrackError("database", "client_update_failed")
		return err
	}
	if result.MatchedCount == 0 {
		utils.TrackError("database", "client_not_found")
		return errors.New("client not found")
	}
	return nil
}

func (r *ClientsRepo) DeleteClient(ctx context.Context, clientID string) error {
	timer := utils.TrackDBOperation("delete", "clients")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"_id": clientID})
	if err != nil {
		utils.TrackError("database", "client_deletion_failed")
		return err
	}
	if result.DeletedCount == 0 {
		utils.TrackError("database", "client_not_found")
		return errors.New("client not found")
	}
	return nil
}
