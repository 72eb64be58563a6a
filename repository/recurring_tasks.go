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

type RecurringTasksRepo struct {
	MongoCollection *mongo.Collection
}

// Retrieves MongoDB collection for recurring tasks
func GetRecurringTasksRepo(client *mongo.Client) *RecurringTasksRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := utils.GetEnvAsString("TASKS_COLLECTION", "recurring_tasks")
	return &RecurringTasksRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

// Add a new recurring task into the database
func (r *RecurringTasksRepo) CreateTask(ctx context.Context, task *model.RecurringTask) error {
	timer := utils.TrackDBOperation("insert", "recurring_tasks")
	defer timer.ObserveDuration()

	if task.Title == "" {
		utils.TrackError("database", "missing_task_title")
		return errors.New("task title is required")
	}

	_, err := r.MongoCollection.InsertOne(ctx, task)
	if err != nil {
		utils.TrackError("database", "task_creation_failed")
		return err
	}

	return nil
}

// Retrieves a single task by its ID; returns nil, nil when absent
func (r *RecurringTasksRepo) GetTaskByID(ctx context.Context, taskID string) (*model.RecurringTask, error) {
	timer := utils.TrackDBOperation("find_one", "recurring_tasks")
	defer timer.ObserveDuration()

	var task model.RecurringTask
	err := r.MongoCollection.FindOne(ctx, bson.M{"_id": taskID}).Decode(&task)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		utils.TrackError("database", "task_fetch_failed")
		return nil, err
	}
	return &task, nil
}

// Retrieves every task
func (r *RecurringTasksRepo) GetAllTasks(ctx context.Context) ([]*model.RecurringTask, error) {
	timer := utils.TrackDBOperation("find", "recurring_tasks")
	defer timer.ObserveDuration()

	return r.findTasks(ctx, bson.M{})
}

// Retrieves tasks referencing a contact (client or employee) id
func (r *RecurringTasksRepo) GetTasksByContact(ctx context.Context, contactID string) ([]*model.RecurringTask, error) {
	timer := utils.TrackDBOperation("find", "recurring_tasks")
	defer timer.ObserveDuration()

	return r.findTasks(ctx, bson.M{"contact_ids": contactID})
}

func (r *RecurringTasksRepo) findTasks(ctx context.Context, filter bson.M) ([]*model.RecurringTask, error) {
	var tasks []*model.RecurringTask
	cursor, err := r.MongoCollection.Find(ctx, filter)
	if err != nil {
		utils.TrackError("database", "task_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &tasks); err != nil {
		utils.TrackError("database", "task_decode_failed")
		return nil, err
	}
	return tasks, nil
}

// All encompassing update for editable task fields. StartDate and the
// completion history are never touched here.
func (r *RecurringTasksRepo) UpdateTask(ctx context.Context, taskID string, updates *model.RecurringTask) error {
	timer := utils.TrackDBOperation("update", "recurring_tasks")
	defer timer.ObserveDuration()

	update := bson.M{
		"$set": bson.M{
			"title":                updates.Title,
			"description":          updates.Description,
			"priority":             updates.Priority,
			"status":               updates.Status,
			"recurrence_pattern":   updates.Pattern,
			"due_date":             updates.DueDate,
			"end_date":             updates.EndDate,
			"contact_ids":          updates.ContactIDs,
			"requires_arn":         updates.RequiresArn,
			"team_member_mappings": updates.TeamMemberMappings,
			"updated_at":           time.Now(),
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, bson.M{"_id": taskID}, update)
	if err != nil {
		utils.TrackError("database", "task_update_failed")
		return err
	}
	if result.MatchedCount == 0 {
		utils.TrackError("database", "task_not_found")
		return errors.New("task not found")
	}
	return nil
}

// Removes a task from the database
func (r *RecurringTasksRepo) DeleteTask(ctx context.Context, taskID string) error {
	timer := utils.TrackDBOperation("delete", "recurring_tasks")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"_id": taskID})
	if err != nil {
		utils.TrackError("database", "task_deletion_failed")
		return err
	}
	if result.DeletedCount == 0 {
		utils.TrackError("database", "task_not_found")
		return errors.New("task not found")
	}
	return nil
}

// Flips the paused flag. Idempotent: setting the current value matches
// the document and changes nothing.
func (r *RecurringTasksRepo) SetPaused(ctx context.Context, taskID string, paused bool) (bool, error) {
	timer := utils.TrackDBOperation("update", "recurring_tasks")
	defer timer.ObserveDuration()

	update := bson.M{
		"$set": bson.M{
			"is_paused":  paused,
			"updated_at": time.Now(),
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, bson.M{"_id": taskID}, update)
	if err != nil {
		utils.TrackError("database", "task_update_failed")
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// AdvanceCycle appends a completion entry and moves the task to its next
// state in one conditional update. The filter carries the revision the
// caller read, so a concurrent completion makes the update match nothing
// and the caller can re-read and retry. Returns false on that conflict.
func (r *RecurringTasksRepo) AdvanceCycle(ctx context.Context, taskID string, revision int64,
	entry model.CompletionEntry, newStatus model.Status, newDueDate time.Time, advance bool) (bool, error) {

	timer := utils.TrackDBOperation("update", "recurring_tasks")
	defer timer.ObserveDuration()

	set := bson.M{
		"status":     newStatus,
		"updated_at": time.Now(),
	}
	if advance {
		set["due_date"] = newDueDate
	}

	update := bson.M{
		"$push": bson.M{"completion_history": entry},
		"$set":  set,
		"$inc":  bson.M{"revision": 1},
	}

	filter := bson.M{
		"_id":      taskID,
		"revision": revision,
	}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "task_cycle_update_failed")
		return false, err
	}
	return result.MatchedCount > 0, nil
}
