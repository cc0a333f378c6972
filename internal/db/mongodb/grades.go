package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/ukane-philemon/grades/internal/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CreateGrade inserts newGrade as a new grade document.
func (mdb *MongoDB) CreateGrade(ctx context.Context, newGrade any) (*db.InsertResult, error) {
	switch newGrade.(type) {
	case bson.D, bson.M:
	default:
		return nil, fmt.Errorf("%w: a grade must be a JSON object", db.ErrorInvalidRequest)
	}

	res, err := mdb.gradesCollection.InsertOne(ctx, newGrade)
	if err != nil {
		return nil, fmt.Errorf("gradesCollection.InsertOne error: %w", err)
	}

	return &db.InsertResult{
		Acknowledged: true,
		InsertedID:   res.InsertedID,
	}, nil
}

// Grade returns the grade document that matches id, or nil if there is none.
func (mdb *MongoDB) Grade(ctx context.Context, id primitive.ObjectID) (bson.M, error) {
	var grade bson.M
	err := mdb.gradesCollection.FindOne(ctx, bson.M{dbIDKey: id}).Decode(&grade)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("gradesCollection.FindOne error: %w", err)
	}

	return grade, nil
}

// AddScore appends score to the scores array of the grade that matches id.
func (mdb *MongoDB) AddScore(ctx context.Context, id primitive.ObjectID, score any) (*db.UpdateResult, error) {
	res, err := mdb.gradesCollection.UpdateOne(ctx, bson.M{dbIDKey: id}, bson.M{actionPush: bson.M{scoresKey: score}})
	if err != nil {
		return nil, fmt.Errorf("gradesCollection.UpdateOne error: %w", err)
	}

	return updateResult(res), nil
}

// RemoveScore pulls every entry matching score from the scores array of the
// grade that matches id.
func (mdb *MongoDB) RemoveScore(ctx context.Context, id primitive.ObjectID, score any) (*db.UpdateResult, error) {
	res, err := mdb.gradesCollection.UpdateOne(ctx, bson.M{dbIDKey: id}, bson.M{actionPull: bson.M{scoresKey: score}})
	if err != nil {
		return nil, fmt.Errorf("gradesCollection.UpdateOne error: %w", err)
	}

	return updateResult(res), nil
}

// DeleteGrade deletes the grade that matches id.
func (mdb *MongoDB) DeleteGrade(ctx context.Context, id primitive.ObjectID) (*db.DeleteResult, error) {
	res, err := mdb.gradesCollection.DeleteOne(ctx, bson.M{dbIDKey: id})
	if err != nil {
		return nil, fmt.Errorf("gradesCollection.DeleteOne error: %w", err)
	}

	return deleteResult(res), nil
}

// LearnerGrades returns the grades of learnerID, optionally restricted to
// classID.
func (mdb *MongoDB) LearnerGrades(ctx context.Context, learnerID float64, classID *float64) ([]bson.M, error) {
	filter := bson.D{{Key: learnerIDKey, Value: learnerID}}
	if classID != nil {
		filter = append(filter, bson.E{Key: classIDKey, Value: *classID})
	}
	return mdb.findGrades(ctx, filter)
}

// DeleteLearnerGrades deletes every grade of learnerID.
func (mdb *MongoDB) DeleteLearnerGrades(ctx context.Context, learnerID float64) (*db.DeleteResult, error) {
	res, err := mdb.gradesCollection.DeleteMany(ctx, bson.M{learnerIDKey: learnerID})
	if err != nil {
		return nil, fmt.Errorf("gradesCollection.DeleteMany error: %w", err)
	}

	return deleteResult(res), nil
}

// ClassGrades returns the grades recorded for classID, optionally restricted
// to learnerID.
func (mdb *MongoDB) ClassGrades(ctx context.Context, classID float64, learnerID *float64) ([]bson.M, error) {
	filter := bson.D{{Key: classIDKey, Value: classID}}
	if learnerID != nil {
		filter = append(filter, bson.E{Key: learnerIDKey, Value: *learnerID})
	}
	return mdb.findGrades(ctx, filter)
}

// UpdateClassID sets class_id to newClassID on every grade of classID.
func (mdb *MongoDB) UpdateClassID(ctx context.Context, classID float64, newClassID any) (*db.UpdateResult, error) {
	update := bson.M{actionSet: bson.M{classIDKey: newClassID}}
	res, err := mdb.gradesCollection.UpdateMany(ctx, bson.M{classIDKey: classID}, update)
	if err != nil {
		return nil, fmt.Errorf("gradesCollection.UpdateMany error: %w", err)
	}

	return updateResult(res), nil
}

// DeleteClassGrades deletes every grade recorded for classID.
func (mdb *MongoDB) DeleteClassGrades(ctx context.Context, classID float64) (*db.DeleteResult, error) {
	res, err := mdb.gradesCollection.DeleteMany(ctx, bson.M{classIDKey: classID})
	if err != nil {
		return nil, fmt.Errorf("gradesCollection.DeleteMany error: %w", err)
	}

	return deleteResult(res), nil
}

// findGrades is a helper method that retrieves all the grades that match
// filter.
func (mdb *MongoDB) findGrades(ctx context.Context, filter bson.D) ([]bson.M, error) {
	cur, err := mdb.gradesCollection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("gradesCollection.Find error: %w", err)
	}

	grades := []bson.M{}
	err = cur.All(ctx, &grades)
	if err != nil {
		return nil, fmt.Errorf("failed to decode grades: %w", err)
	}

	return grades, nil
}
