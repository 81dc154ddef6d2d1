// Package dashboardqueries provides the read-only queries behind the dashboard.
package dashboardqueries

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/pagepulse/internal/app/system/normalize"
	"github.com/dalemusser/pagepulse/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ProjectWithViews is a project row with its page-view count.
type ProjectWithViews struct {
	ID          primitive.ObjectID `bson:"_id"`
	Name        string             `bson:"name"`
	Domain      string             `bson:"domain"`
	TrackingKey string             `bson:"tracking_key"`
	CreatedAt   time.Time          `bson:"created_at"`
	PageViews   int64              `bson:"page_views"`
}

// UserProjects is a user with every project they own, newest first.
type UserProjects struct {
	User     models.User
	Projects []ProjectWithViews
}

// UserWithProjects loads the user with the given email and their projects.
// It returns (nil, nil) when no such user exists.
func UserWithProjects(ctx context.Context, db *mongo.Database, email string) (*UserProjects, error) {
	var u models.User
	err := db.Collection("users").FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	projects, err := ProjectsWithViews(ctx, db, u.ID)
	if err != nil {
		return nil, err
	}
	return &UserProjects{User: u, Projects: projects}, nil
}

// ProjectsWithViews lists ownerID's projects ordered by created_at desc,
// each joined with its page-view count in a single aggregation.
func ProjectsWithViews(ctx context.Context, db *mongo.Database, ownerID primitive.ObjectID) ([]ProjectWithViews, error) {
	pipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"owner_id": ownerID}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from": "page_views",
			"let":  bson.M{"pid": "$_id"},
			"pipeline": bson.A{
				bson.M{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$project_id", "$$pid"}}}},
				bson.M{"$count": "n"},
			},
			"as": "views",
		}}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"page_views": bson.M{"$ifNull": bson.A{bson.M{"$arrayElemAt": bson.A{"$views.n", 0}}, 0}},
		}}},
		bson.D{{Key: "$project", Value: bson.M{"views": 0}}},
	}

	cur, err := db.Collection("projects").Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []ProjectWithViews{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
