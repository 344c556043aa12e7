package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbookings "luxeory/internal/domain/bookings"
	domainrooms "luxeory/internal/domain/rooms"
)

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection("bookings")}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbookings.BookingID) (*domainbookings.Booking, error) {
	oid, err := bookingObjectID(id)
	if err != nil {
		return nil, err
	}
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbookings.ErrNotFound
		}
		return nil, translate(err)
	}
	return doc.toEntity()
}

func (r *BookingRepository) Insert(ctx context.Context, b *domainbookings.Booking) (domainbookings.BookingID, error) {
	doc := bookingDocument{
		ID:          primitive.NewObjectID(),
		RoomID:      string(b.RoomID),
		Email:       b.Email,
		BookingDate: b.BookingDate.Format(domainbookings.DateLayout),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return "", translate(err)
	}
	return domainbookings.BookingID(doc.ID.Hex()), nil
}

func (r *BookingRepository) UpdateDate(ctx context.Context, id domainbookings.BookingID, date time.Time) error {
	oid, err := bookingObjectID(id)
	if err != nil {
		return err
	}
	update := bson.M{"$set": bson.M{"bookingDate": date.Format(domainbookings.DateLayout)}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return translate(err)
	}
	if res.MatchedCount == 0 {
		return domainbookings.ErrNotFound
	}
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, id domainbookings.BookingID) error {
	oid, err := bookingObjectID(id)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return domainbookings.ErrNotFound
	}
	return nil
}

func (r *BookingRepository) ListByEmail(ctx context.Context, email string) ([]*domainbookings.Booking, error) {
	cursor, err := r.col.Find(ctx, bson.M{"email": email})
	if err != nil {
		return nil, translate(err)
	}
	var docs []bookingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, translate(err)
	}
	bookings := make([]*domainbookings.Booking, 0, len(docs))
	for _, doc := range docs {
		b, err := doc.toEntity()
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

func (r *BookingRepository) ExistsForRoom(ctx context.Context, roomID domainrooms.RoomID) (bool, error) {
	opts := options.Count().SetLimit(1)
	n, err := r.col.CountDocuments(ctx, bson.M{"roomId": string(roomID)}, opts)
	if err != nil {
		return false, translate(err)
	}
	return n > 0, nil
}

func bookingObjectID(id domainbookings.BookingID) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(string(id))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", domainbookings.ErrInvalidID, id)
	}
	return oid, nil
}

type bookingDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	RoomID      string             `bson:"roomId"`
	Email       string             `bson:"email"`
	BookingDate string             `bson:"bookingDate"`
}

func (d bookingDocument) toEntity() (*domainbookings.Booking, error) {
	date, err := domainbookings.ParseDate(d.BookingDate)
	if err != nil {
		return nil, fmt.Errorf("bookings: corrupt bookingDate %q on %s: %w", d.BookingDate, d.ID.Hex(), err)
	}
	return &domainbookings.Booking{
		ID:          domainbookings.BookingID(d.ID.Hex()),
		RoomID:      domainrooms.RoomID(d.RoomID),
		Email:       d.Email,
		BookingDate: date,
	}, nil
}
