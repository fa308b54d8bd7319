package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainroom "innkeeper/internal/domain/room"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type RoomRepository struct {
	col *mongo.Collection
}

func NewRoomRepository(db *mongo.Database) *RoomRepository {
	return &RoomRepository{col: db.Collection("agg_room")}
}

func (r *RoomRepository) ByID(ctx context.Context, id domainroom.ID) (*domainroom.Room, error) {
	var doc roomDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainroom.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *RoomRepository) Save(ctx context.Context, rm *domainroom.Room) error {
	doc := newRoomDocument(rm)
	filter := bson.M{"_id": doc.ID, "version": rm.Version}
	doc.Version = rm.Version + 1
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	rm.Version = doc.Version
	return nil
}

func (r *RoomRepository) List(ctx context.Context) ([]*domainroom.Room, error) {
	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainroom.Room
	for cursor.Next(ctx) {
		var doc roomDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

func (r *RoomRepository) Delete(ctx context.Context, id domainroom.ID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainroom.ErrNotFound
	}
	return nil
}

type roomDocument struct {
	ID               string   `bson:"_id"`
	Name             string   `bson:"name"`
	Description      string   `bson:"description"`
	Type             string   `bson:"type"`
	Capacity         int      `bson:"capacity"`
	NightlyRateCents int64    `bson:"nightly_rate_cents"`
	SizeSqft         int      `bson:"size_sqft"`
	Amenities        []string `bson:"amenities"`
	Photos           []string `bson:"photos"`
	Available        bool     `bson:"available"`
	CreatedAt        int64    `bson:"created_at"`
	UpdatedAt        int64    `bson:"updated_at"`
	Version          int64    `bson:"version"`
}

func newRoomDocument(rm *domainroom.Room) roomDocument {
	return roomDocument{
		ID:               string(rm.ID),
		Name:             rm.Name,
		Description:      rm.Description,
		Type:             string(rm.Type),
		Capacity:         rm.Capacity,
		NightlyRateCents: rm.NightlyRateCents,
		SizeSqft:         rm.SizeSqft,
		Amenities:        rm.Amenities,
		Photos:           rm.Photos,
		Available:        rm.Available,
		CreatedAt:        rm.CreatedAt.UnixMilli(),
		UpdatedAt:        rm.UpdatedAt.UnixMilli(),
		Version:          rm.Version,
	}
}

func (d roomDocument) toAggregate() *domainroom.Room {
	return &domainroom.Room{
		ID:               domainroom.ID(d.ID),
		Name:             d.Name,
		Description:      d.Description,
		Type:             domainroom.Type(d.Type),
		Capacity:         d.Capacity,
		NightlyRateCents: d.NightlyRateCents,
		SizeSqft:         d.SizeSqft,
		Amenities:        d.Amenities,
		Photos:           d.Photos,
		Available:        d.Available,
		CreatedAt:        timestampToTime(d.CreatedAt),
		UpdatedAt:        timestampToTime(d.UpdatedAt),
		Version:          d.Version,
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
