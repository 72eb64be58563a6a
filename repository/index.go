package repository

import (
	"context"
	"fmt"
	"log"
	"main/utils"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func SetupIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tasksCollection := db.Collection(utils.GetEnvAsString("TASKS_COLLECTION", "recurring_tasks"))
	completionsCollection := db.Collection(utils.GetEnvAsString("COMPLETIONS_COLLECTION", "client_task_completions"))
	rosterCollection := db.Collection(utils.GetEnvAsString("ROSTER_COLLECTION", "roster"))
	attendanceCollection := db.Collection(utils.GetEnvAsString("ATTENDANCE_COLLECTION", "attendance"))

	taskIndexes := []mongo.IndexModel{
		// Due-date scan for dashboards
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "due_date", Value: 1},
			},
			Options: options.Index().
				SetName("status_due_date").
				SetUnique(false),
		},
		// Contact lookup
		{
			Keys: bson.D{{Key: "contact_ids", Value: 1}},
			Options: options.Index().
				SetName("contact_ids_index"),
		},
	}

	completionIndexes := []mongo.IndexModel{
		// The ledger triple. Unique so the upsert path cannot leave
		// duplicate records behind even under concurrent marks.
		{
			Keys: bson.D{
				{Key: "task_id", Value: 1},
				{Key: "client_id", Value: 1},
				{Key: "month_key", Value: 1},
			},
			Options: options.Index().
				SetName("task_client_month").
				SetUnique(true),
		},
		{
			Keys: bson.D{
				{Key: "task_id", Value: 1},
				{Key: "month_key", Value: 1},
			},
			Options: options.Index().
				SetName("task_month"),
		},
	}

	rosterIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "employee_id", Value: 1},
				{Key: "date", Value: 1},
			},
			Options: options.Index().
				SetName("employee_date").
				SetUnique(true),
		},
	}

	attendanceIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "employee_id", Value: 1},
				{Key: "date", Value: 1},
			},
			Options: options.Index().
				SetName("employee_date").
				SetUnique(true),
		},
	}

	if _, err := tasksCollection.Indexes().CreateMany(ctx, taskIndexes); err != nil {
		return fmt.Errorf("failed to create task indexes: %w", err)
	}
	if _, err := completionsCollection.Indexes().CreateMany(ctx, completionIndexes); err != nil {
		return fmt.Errorf("failed to create completion indexes: %w", err)
	}
	if _, err := rosterCollection.Indexes().CreateMany(ctx, rosterIndexes); err != nil {
		return fmt.Errorf("failed to create roster indexes: %w", err)
	}
	if _, err := attendanceCollection.Indexes().CreateMany(ctx, attendanceIndexes); err != nil {
		return fmt.Errorf("failed to create attendance indexes: %w", err)
	}

	log.Println("Successfully created all indexes")
	return nil
}
