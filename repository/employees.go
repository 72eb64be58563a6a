package repository

import (
	"context"
	"errors"
	"main/model"
	"main/utils"
	"os"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type EmployeesRepo struct {
	MongoCollection  *mongo.Collection
	RosterCollection *mongo.Collection
}

// Retrieves MongoDB collections for employees and their roster
func GetEmployeesRepo(client *mongo.Client) *EmployeesRepo {
	dbName := os.Getenv("MONGO_DB")
	employeesName := utils.GetEnvAsString("EMPLOYEES_COLLECTION", "employees")
	rosterName := utils.GetEnvAsString("ROSTER_COLLECTION", "roster")
	db := client.Database(dbName)
	return &EmployeesRepo{
		MongoCollection:  db.Collection(employeesName),
		RosterCollection: db.Collection(rosterName),
	}
}

func (r *EmployeesRepo) CreateEmployee(ctx context.Context, employee *model.Employee) error {
	timer := utils.TrackDBOperation("insert", "employees")
	defer timer.ObserveDuration()

	_, err := r.MongoCollection.InsertOne(ctx, employee)
	if err != nil {
		utils.TrackError("database", "employee_creation_failed")
		return err
	}
	return nil
}

// Returns nil, nil when the employee does not exist
func (r *EmployeesRepo) GetEmployeeByID(ctx context.Context, employeeID string) (*model.Employee, error) {
	timer := utils.TrackDBOperation("find_one", "employees")
	defer timer.ObserveDuration()

	var employee model.Employee
	err := r.MongoCollection.FindOne(ctx, bson.M{"_id": employeeID}).Decode(&employee)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		utils.TrackError("database", "employee_fetch_failed")
		return nil, err
	}
	return &employee, nil
}

func (r *EmployeesRepo) GetAllEmployees(ctx context.Context) ([]*model.Employee, error) {
	timer := utils.TrackDBOperation("find", "employees")
	defer timer.ObserveDuration()

	var employees []*model.Employee
	cursor, err := r.MongoCollection.Find(ctx, bson.M{})
	if err != nil {
		utils.TrackError("database", "employee_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &employees); err != nil {
		utils.TrackError("database", "employee_decode_failed")
		return nil, err
	}
	return employees, nil
}

func (r *EmployeesRepo) UpdateEmployee(ctx context.Context, employeeID string, updates *model.Employee) error {
	timer := utils.TrackDBOperation("update", "employees")
	defer timer.ObserveDuration()

	update := bson.M{
		"$set": bson.M{
			"name":       updates.Name,
			"email":      updates.Email,
			"role":       updates.Role,
			"active":     updates.Active,
			"updated_at": time.Now(),
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, bson.M{"_id": employeeID}, update)
	if err != nil {
		utils.TrackError("database", "employee_update_failed")
		return err
	}
	if result.MatchedCount == 0 {
		utils.TrackError("database", "employee_not_found")
		return errors.New("employee not found")
	}
	return nil
}

func (r *EmployeesRepo) DeleteEmployee(ctx context.Context, employeeID string) error {
	timer := utils.TrackDBOperation("delete", "employees")
	defer timer.ObserveDuration()

	result, err := r.MongoCollection.DeleteOne(ctx, bson.M{"_id": employeeID})
	if err != nil {
		utils.TrackError("database", "employee_deletion_failed")
		return err
	}
	if result.DeletedCount == 0 {
		utils.TrackError("database", "employee_not_found")
		return errors.New("employee not found")
	}
	return nil
}

// UpsertRosterEntry writes one shift assignment. One entry exists per
// (employee, day); assigning again overwrites the shift.
func (r *EmployeesRepo) UpsertRosterEntry(ctx context.Context, entry *model.RosterEntry) (*model.RosterEntry, error) {
	timer := utils.TrackDBOperation("upsert", "roster")
	defer timer.ObserveDuration()

	now := time.Now()
	day := entry.Date.Truncate(24 * time.Hour)

	filter := bson.M{
		"employee_id": entry.EmployeeID,
		"date":        day,
	}
	update := bson.M{
		"$set": bson.M{
			"shift":      entry.Shift,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"_id":         uuid.New().String(),
			"employee_id": entry.EmployeeID,
			"date":        day,
			"created_at":  now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var updated model.RosterEntry
	err := r.RosterCollection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if err != nil {
		utils.TrackError("database", "roster_upsert_failed")
		return nil, err
	}
	return &updated, nil
}

// GetRoster lists shift assignments, by employee or across a date range.
// An empty employeeID matches everyone.
func (r *EmployeesRepo) GetRoster(ctx context.Context, employeeID string, from, to time.Time) ([]*model.RosterEntry, error) {
	timer := utils.TrackDBOperation("find", "roster")
	defer timer.ObserveDuration()

	filter := bson.M{}
	if employeeID != "" {
		filter["employee_id"] = employeeID
	}
	if !from.IsZero() || !to.IsZero() {
		dateRange := bson.M{}
		if !from.IsZero() {
			dateRange["$gte"] = from
		}
		if !to.IsZero() {
			dateRange["$lte"] = to
		}
		filter["date"] = dateRange
	}

	var entries []*model.RosterEntry
	cursor, err := r.RosterCollection.Find(ctx, filter)
	if err != nil {
		utils.TrackError("database", "roster_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &entries); err != nil {
		utils.TrackError("database", "roster_decode_failed")
		return nil, err
	}
	return entries, nil
}
