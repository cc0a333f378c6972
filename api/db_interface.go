package api

import (
	"context"

	"github.com/ukane-philemon/grades/internal/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type GradeDatabase interface {
	// CreateGrade inserts newGrade as a new grade document. newGrade is
	// stored as provided, callers are responsible for normalising it.
	CreateGrade(ctx context.Context, newGrade any) (*db.InsertResult, error)
	// Grade returns the grade document that matches id. A nil document and a
	// nil error are returned if nothing matches.
	Grade(ctx context.Context, id primitive.ObjectID) (bson.M, error)
	// AddScore appends score to the scores of the grade that matches id.
	AddScore(ctx context.Context, id primitive.ObjectID, score any) (*db.UpdateResult, error)
	// RemoveScore removes every entry equal to score from the scores of the
	// grade that matches id.
	RemoveScore(ctx context.Context, id primitive.ObjectID, score any) (*db.UpdateResult, error)
	// DeleteGrade deletes the grade that matches id.
	DeleteGrade(ctx context.Context, id primitive.ObjectID) (*db.DeleteResult, error)
	// LearnerGrades returns the grades of learnerID. Set classID to restrict
	// the result to a single class.
	LearnerGrades(ctx context.Context, learnerID float64, classID *float64) ([]bson.M, error)
	// DeleteLearnerGrades deletes every grade of learnerID.
	DeleteLearnerGrades(ctx context.Context, learnerID float64) (*db.DeleteResult, error)
	// ClassGrades returns the grades recorded for classID. Set learnerID to
	// restrict the result to a single learner.
	ClassGrades(ctx context.Context, classID float64, learnerID *float64) ([]bson.M, error)
	// UpdateClassID sets class_id to newClassID on every grade of classID.
	UpdateClassID(ctx context.Context, classID float64, newClassID any) (*db.UpdateResult, error)
	// DeleteClassGrades deletes every grade recorded for classID.
	DeleteClassGrades(ctx context.Context, classID float64) (*db.DeleteResult, error)
	// Shutdown gracefully disconnects the database after the server is
	// shutdown.
	Shutdown(ctx context.Context) error
}
