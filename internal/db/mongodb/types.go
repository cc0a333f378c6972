package mongodb

import (
	"github.com/ukane-philemon/grades/internal/db"
	"go.mongodb.org/mongo-driver/mongo"
)

func updateResult(res *mongo.UpdateResult) *db.UpdateResult {
	if res == nil {
		return nil
	}
	return &db.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    res.UpsertedID,
	}
}

func deleteResult(res *mongo.DeleteResult) *db.DeleteResult {
	if res == nil {
		return nil
	}
	return &db.DeleteResult{
		Acknowledged: true,
		DeletedCount: res.DeletedCount,
	}
}
