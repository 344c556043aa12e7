package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainrooms "luxeory/internal/domain/rooms"
)

type RoomRepository struct {
	col *mongo.Collection
}

func NewRoomRepository(db *mongo.Database) *RoomRepository {
	return &RoomRepository{col: db.Collection("rooms")}
}

func (r *RoomRepository) ByID(ctx context.Context, id domainrooms.RoomID) (*domainrooms.Room, error) {
	oid, err := roomObjectID(id)
	if err != nil {
		return nil, err
	}
	var doc roomDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainrooms.ErrNotFound
		}
		return nil, translate(err)
	}
	return doc.toEntity(), nil
}

func (r *RoomRepository) List(ctx context.Context, sortBy string) ([]*domainrooms.Room, error) {
	opts := options.Find().SetSort(bson.D{{Key: sortBy, Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, translate(err)
	}
	var docs []roomDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, translate(err)
	}
	rooms := make([]*domainrooms.Room, 0, len(docs))
	for _, doc := range docs {
		rooms = append(rooms, doc.toEntity())
	}
	return rooms, nil
}

func (r *RoomRepository) SetAvailability(ctx context.Context, id domainrooms.RoomID, available bool) error {
	oid, err := roomObjectID(id)
	if err != nil {
		return err
	}
	update := bson.M{"$set": bson.M{"available": available}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return domainrooms.ErrNotFound
	}
	return nil
}

func (r *RoomRepository) IncrementReviewCount(ctx context.Context, id domainrooms.RoomID) error {
	oid, err := roomObjectID(id)
	if err != nil {
		return err
	}
	update := bson.M{"$inc": bson.M{"reviewCount": 1}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return domainrooms.ErrNotFound
	}
	return nil
}

func roomObjectID(id domainrooms.RoomID) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(string(id))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", domainrooms.ErrInvalidID, id)
	}
	return oid, nil
}

type roomDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	Price       float64            `bson:"price"`
	Thumbnail   string             `bson:"thumbnail"`
	Available   bool               `bson:"available"`
	ReviewCount int64              `bson:"reviewCount"`
}

func (d roomDocument) toEntity() *domainrooms.Room {
	return &domainrooms.Room{
		ID:          domainrooms.RoomID(d.ID.Hex()),
		Title:       d.Title,
		Price:       d.Price,
		Thumbnail:   d.Thumbnail,
		Available:   d.Available,
		ReviewCount: d.ReviewCount,
	}
}
