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
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AttendanceRepo struct {
	MongoCollection *mongo.Collection
}

// Retrieves MongoDB collection for attendance records
func GetAttendanceRepo(client *mongo.Client) *AttendanceRepo {
	dbName := os.Getenv("MONGO_DB")
	collectionName := utils.GetEnvAsString("ATTENDANCE_COLLECTION", "attendance")
	return &AttendanceRepo{
		MongoCollection: client.Database(dbName).Collection(collectionName),
	}
}

func dayFilter(employeeID string, date time.Time) bson.M {
	return bson.M{
		"employee_id": employeeID,
		"date":        date.Truncate(24 * time.Hour),
	}
}

func (r *AttendanceRepo) CreateAttendance(ctx context.Context, record *model.Attendance) error {
	timer := utils.TrackDBOperation("insert", "attendance")
	defer timer.ObserveDuration()

	record.Date = record.Date.Truncate(24 * time.Hour)
	_, err := r.MongoCollection.InsertOne(ctx, record)
	if err != nil {
		utils.TrackError("database", "attendance_creation_failed")
		return err
	}
	return nil
}

// Returns nil, nil when no record exists for the employee-day
func (r *AttendanceRepo) GetByEmployeeDay(ctx context.Context, employeeID string, date time.Time) (*model.Attendance, error) {
	timer := utils.TrackDBOperation("find_one", "attendance")
	defer timer.ObserveDuration()

	var record model.Attendance
	err := r.MongoCollection.FindOne(ctx, dayFilter(employeeID, date)).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		utils.TrackError("database", "attendance_fetch_failed")
		return nil, err
	}
	return &record, nil
}

// GetOpenByEmployee returns the most recent record without a checkout,
// or nil, nil when every record is closed. Records are stored without a
// check_out field until the employee checks out, so an overnight shift
// still resolves to the day it was opened on.
func (r *AttendanceRepo) GetOpenByEmployee(ctx context.Context, employeeID string) (*model.Attendance, error) {
	timer := utils.TrackDBOperation("find_one", "attendance")
	defer timer.ObserveDuration()

	filter := bson.M{
		"employee_id": employeeID,
		"check_out":   bson.M{"$exists": false},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "date", Value: -1}})

	var record model.Attendance
	err := r.MongoCollection.FindOne(ctx, filter, opts).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		utils.TrackError("database", "attendance_fetch_failed")
		return nil, err
	}
	return &record, nil
}

func (r *AttendanceRepo) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]*model.Attendance, error) {
	timer := utils.TrackDBOperation("find", "attendance")
	defer timer.ObserveDuration()

	filter := bson.M{"employee_id": employeeID}
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

	var records []*model.Attendance
	cursor, err := r.MongoCollection.Find(ctx, filter)
	if err != nil {
		utils.TrackError("database", "attendance_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &records); err != nil {
		utils.TrackError("database", "attendance_decode_failed")
		return nil, err
	}
	return records, nil
}

// SetCheckOut stamps the checkout time on an open record
func (r *AttendanceRepo) SetCheckOut(ctx context.Context, employeeID string, date time.Time, checkOut time.Time) error {
	timer := utils.TrackDBOperation("update", "attendance")
	defer timer.ObserveDuration()

	update := bson.M{
		"$set": bson.M{
			"check_out":  checkOut,
			"updated_at": time.Now(),
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, dayFilter(employeeID, date), update)
	if err != nil {
		utils.TrackError("database", "attendance_update_failed")
		return err
	}
	if result.MatchedCount == 0 {
		utils.TrackError("database", "attendance_not_found")
		return errors.New("attendance record not found")
	}
	return nil
}

// SetBreaks replaces the break list on a record
func (r *AttendanceRepo) SetBreaks(ctx context.Context, employeeID string, date time.Time, breaks []model.BreakPeriod) error {
	timer := utils.TrackDBOperation("update", "attendance")
	defer timer.ObserveDuration()

	update := bson.M{
		"$set": bson.M{
			"breaks":     breaks,
			"updated_at": time.Now(),
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, dayFilter(employeeID, date), update)
	if err != nil {
		utils.TrackError("database", "attendance_update_failed")
		return err
	}
	if result.MatchedCount == 0 {
		utils.TrackError("database", "attendance_not_found")
		return errors.New("attendance record not found")
	}
	return nil
}
