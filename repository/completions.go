package repository

import (
	"context"
	"main/model"
	"main/utils"
	"os"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CompletionsRepo struct {
	MongoCollection *mongo.Collection
}

// Retrieves MongoDB collection for the per-client completion ledger
func GetCompletionsRepo(client *mongo.Client) *CompletionsRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := utils.GetEnvAsString("COMPLETIONS_COLLECTION", "client_task_completions")
	return &CompletionsRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func tripleFilter(taskID, clientID, monthKey string) bson.M {
	return bson.M{
		"task_id":   taskID,
		"client_id": clientID,
		"month_key": monthKey,
	}
}

// Looks up the single ledger record for a triple. Absence is a valid
// "not yet touched" state, reported as nil, nil.
func (r *CompletionsRepo) GetByTriple(ctx context.Context, taskID, clientID, monthKey string) (*model.ClientTaskCompletion, error) {
	timer := utils.TrackDBOperation("find_one", "client_task_completions")
	defer timer.ObserveDuration()

	var rec model.ClientTaskCompletion
	err := r.MongoCollection.FindOne(ctx, tripleFilter(taskID, clientID, monthKey)).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		utils.TrackError("database", "completion_fetch_failed")
		return nil, err
	}
	return &rec, nil
}

// UpsertCompleted marks a triple complete in one atomic upsert, so two
// concurrent marks cannot create duplicate records. Calling it again on
// a completed triple only advances updated_at.
func (r *CompletionsRepo) UpsertCompleted(ctx context.Context, rec *model.ClientTaskCompletion) (*model.ClientTaskCompletion, error) {
	timer := utils.TrackDBOperation("upsert", "client_task_completions")
	defer timer.ObserveDuration()

	now := time.Now()
	set := bson.M{
		"is_completed": true,
		"completed_at": rec.CompletedAt,
		"completed_by": rec.CompletedBy,
		"updated_at":   now,
	}
	if rec.ArnNumber != "" {
		set["arn_number"] = rec.ArnNumber
		set["arn_name"] = rec.ArnName
	}

	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"_id":        uuid.New().String(),
			"task_id":    rec.TaskID,
			"client_id":  rec.ClientID,
			"month_key":  rec.MonthKey,
			"created_at": now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var updated model.ClientTaskCompletion
	err := r.MongoCollection.FindOneAndUpdate(ctx,
		tripleFilter(rec.TaskID, rec.ClientID, rec.MonthKey), update, opts).Decode(&updated)
	if err != nil {
		utils.TrackError("database", "completion_upsert_failed")
		return nil, err
	}
	return &updated, nil
}

// DeleteByTriple removes the record for a triple. Returns false without
// error when no record existed.
func (r *CompletionsRepo) DeleteByTriple(ctx context.Context, taskID, clientID, monthKey string) (bool, error) {
	timer := utils.TrackDBOperation("delete", "client_task_completions")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteOne(ctx, tripleFilter(taskID, clientID, monthKey))
	if err != nil {
		utils.TrackError("database", "completion_deletion_failed")
		return false, err
	}
	return result.DeletedCount > 0, nil
}

// Lists every ledger record for a task, optionally narrowed to a month
func (r *CompletionsRepo) ListByTask(ctx context.Context, taskID string, monthKey string) ([]*model.ClientTaskCompletion, error) {
	timer := utils.TrackDBOperation("find", "client_task_completions")
	defer timer.ObserveDuration()

	filter := bson.M{"task_id": taskID}
	if monthKey != "" {
		filter["month_key"] = monthKey
	}

	var records []*model.ClientTaskCompletion
	cursor, err := r.MongoCollection.Find(ctx, filter)
	if err != nil {
		utils.TrackError("database", "completion_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &records); err != nil {
		utils.TrackError("database", "completion_decode_failed")
		return nil, err
	}
	return records, nil
}
