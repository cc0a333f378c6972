package api

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/ukane-philemon/grades/internal/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeDB is an in-memory GradeDatabase. Values go through a BSON round trip
// so that they are stored the way the real database would store them.
type fakeDB struct {
	mu     sync.Mutex
	grades []bson.M
	calls  int

	// err is returned by every method when set.
	err error
	// nilResults makes write methods return a nil result.
	nilResults bool
	// panicMsg makes every method panic when set.
	panicMsg string
}

var _ GradeDatabase = (*fakeDB)(nil)

func newFakeDB() *fakeDB {
	return &fakeDB{}
}

func (f *fakeDB) enter() error {
	f.calls++
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	return f.err
}

func canonical(v any) any {
	data, err := bson.Marshal(bson.M{"v": v})
	if err != nil {
		panic(err)
	}
	var doc bson.M
	if err := bson.Unmarshal(data, &doc); err != nil {
		panic(err)
	}
	return doc["v"]
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func matches(grade bson.M, key string, want float64) bool {
	got, ok := number(grade[key])
	return ok && got == want
}

func (f *fakeDB) find(id primitive.ObjectID) bson.M {
	for _, grade := range f.grades {
		if grade["_id"] == id {
			return grade
		}
	}
	return nil
}

func (f *fakeDB) CreateGrade(_ context.Context, newGrade any) (*db.InsertResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(); err != nil {
		return nil, err
	}

	grade, ok := canonical(newGrade).(bson.M)
	if !ok {
		return nil, fmt.Errorf("%w: a grade must be a JSON object", db.ErrorInvalidRequest)
	}
	if _, found := grade["_id"]; !found {
		grade["_id"] = primitive.NewObjectID()
	}
	f.grades = append(f.grades, grade)

	return &db.InsertResult{Acknowledged: true, InsertedID: grade["_id"]}, nil
}

func (f *fakeDB) Grade(_ context.Context, id primitive.ObjectID) (bson.M, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(); err != nil {
		return nil, err
	}
	return f.find(id), nil
}

func (f *fakeDB) updateScores(id primitive.ObjectID, update func(scores bson.A) bson.A) (*db.UpdateResult, error) {
	if err := f.enter(); err != nil {
		return nil, err
	}
	if f.nilResults {
		return nil, nil
	}

	res := &db.UpdateResult{Acknowledged: true}
	grade := f.find(id)
	if grade == nil {
		return res, nil
	}

	scores, _ := grade["scores"].(bson.A)
	grade["scores"] = update(scores)
	res.MatchedCount, res.ModifiedCount = 1, 1
	return res, nil
}

func (f *fakeDB) AddScore(_ context.Context, id primitive.ObjectID, score any) (*db.UpdateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updateScores(id, func(scores bson.A) bson.A {
		return append(scores, canonical(score))
	})
}

func (f *fakeDB) RemoveScore(_ context.Context, id primitive.ObjectID, score any) (*db.UpdateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	target := canonical(score)
	return f.updateScores(id, func(scores bson.A) bson.A {
		kept := bson.A{}
		for _, s := range scores {
			if !reflect.DeepEqual(s, target) {
				kept = append(kept, s)
			}
		}
		return kept
	})
}

func (f *fakeDB) deleteWhere(keep func(grade bson.M) bool) (*db.DeleteResult, error) {
	if err := f.enter(); err != nil {
		return nil, err
	}
	if f.nilResults {
		return nil, nil
	}

	var kept []bson.M
	for _, grade := range f.grades {
		if keep(grade) {
			kept = append(kept, grade)
		}
	}

	res := &db.DeleteResult{Acknowledged: true, DeletedCount: int64(len(f.grades) - len(kept))}
	f.grades = kept
	return res, nil
}

func (f *fakeDB) DeleteGrade(_ context.Context, id primitive.ObjectID) (*db.DeleteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deleteWhere(func(grade bson.M) bool { return grade["_id"] != id })
}

func (f *fakeDB) filter(key string, value float64, optKey string, optValue *float64) ([]bson.M, error) {
	if err := f.enter(); err != nil {
		return nil, err
	}

	grades := []bson.M{}
	for _, grade := range f.grades {
		if !matches(grade, key, value) {
			continue
		}
		if optValue != nil && !matches(grade, optKey, *optValue) {
			continue
		}
		grades = append(grades, grade)
	}
	return grades, nil
}

func (f *fakeDB) LearnerGrades(_ context.Context, learnerID float64, classID *float64) ([]bson.M, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filter(learnerIDKey, learnerID, classIDKey, classID)
}

func (f *fakeDB) DeleteLearnerGrades(_ context.Context, learnerID float64) (*db.DeleteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deleteWhere(func(grade bson.M) bool { return !matches(grade, learnerIDKey, learnerID) })
}

func (f *fakeDB) ClassGrades(_ context.Context, classID float64, learnerID *float64) ([]bson.M, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filter(classIDKey, classID, learnerIDKey, learnerID)
}

func (f *fakeDB) UpdateClassID(_ context.Context, classID float64, newClassID any) (*db.UpdateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enter(); err != nil {
		return nil, err
	}
	if f.nilResults {
		return nil, nil
	}

	res := &db.UpdateResult{Acknowledged: true}
	for _, grade := range f.grades {
		if matches(grade, classIDKey, classID) {
			grade[classIDKey] = canonical(newClassID)
			res.MatchedCount++
			res.ModifiedCount++
		}
	}
	return res, nil
}

func (f *fakeDB) DeleteClassGrades(_ context.Context, classID float64) (*db.DeleteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deleteWhere(func(grade bson.M) bool { return !matches(grade, classIDKey, classID) })
}

func (f *fakeDB) Shutdown(context.Context) error {
	return nil
}
