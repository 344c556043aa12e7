package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainreviews "luxeory/internal/domain/reviews"
	domainrooms "luxeory/internal/domain/rooms"
)

type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{col: db.Collection("reviews")}
}

func (r *ReviewRepository) Insert(ctx context.Context, review *domainreviews.Review) (domainreviews.ReviewID, error) {
	doc := reviewDocument{
		ID:        primitive.NewObjectID(),
		RoomID:    string(review.RoomID),
		Email:     review.Email,
		Timestamp: review.Timestamp.UnixMilli(),
		Rating:    review.Rating,
		Comment:   review.Comment,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return "", translate(err)
	}
	return domainreviews.ReviewID(doc.ID.Hex()), nil
}

func (r *ReviewRepository) List(ctx context.Context, roomID domainrooms.RoomID) ([]*domainreviews.Review, error) {
	filter := bson.M{}
	if roomID != "" {
		filter["roomId"] = string(roomID)
	}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, translate(err)
	}
	var docs []reviewDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, translate(err)
	}
	reviews := make([]*domainreviews.Review, 0, len(docs))
	for _, doc := range docs {
		reviews = append(reviews, doc.toEntity())
	}
	return reviews, nil
}

type reviewDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	RoomID    string             `bson:"roomId"`
	Email     string             `bson:"email"`
	Timestamp int64              `bson:"timestamp"`
	Rating    int                `bson:"rating"`
	Comment   string             `bson:"comment"`
}

func (d reviewDocument) toEntity() *domainreviews.Review {
	return &domainreviews.Review{
		ID:        domainreviews.ReviewID(d.ID.Hex()),
		RoomID:    domainrooms.RoomID(d.RoomID),
		Email:     d.Email,
		Timestamp: time.UnixMilli(d.Timestamp).UTC(),
		Rating:    d.Rating,
		Comment:   d.Comment,
	}
}
