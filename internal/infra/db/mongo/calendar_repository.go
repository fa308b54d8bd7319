package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainavailability "innkeeper/internal/domain/availability"
	domainroom "innkeeper/internal/domain/room"
	domainrange "innkeeper/internal/domain/shared/daterange"
)

// CalendarRepository persists per-room occupancy calendars. Save filters on
// the version loaded with the calendar, so a racing writer that committed
// first invalidates this write and the caller gets ErrConcurrentUpdate
// instead of a double booking.
type CalendarRepository struct {
	col *mongo.Collection
}

func NewCalendarRepository(db *mongo.Database) *CalendarRepository {
	return &CalendarRepository{col: db.Collection("agg_room_calendar")}
}

func (r *CalendarRepository) Calendar(ctx context.Context, id domainroom.ID) (*domainavailability.Calendar, error) {
	var doc calendarDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domainavailability.NewCalendar(id), nil
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *CalendarRepository) Save(ctx context.Context, calendar *domainavailability.Calendar) error {
	doc := newCalendarDocument(calendar)
	filter := bson.M{"_id": doc.ID, "version": calendar.Version}
	doc.Version = calendar.Version + 1
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
	calendar.Version = doc.Version
	return nil
}

type calendarDocument struct {
	ID      string          `bson:"_id"`
	Blocks  []blockDocument `bson:"blocks"`
	Version int64           `bson:"version"`
}

type blockDocument struct {
	Range     rangeDocument `bson:"range"`
	Reference string        `bson:"reference"`
	CreatedAt int64         `bson:"created_at"`
}

func newCalendarDocument(calendar *domainavailability.Calendar) calendarDocument {
	blocks := make([]blockDocument, 0, len(calendar.Blocks))
	for _, b := range calendar.Blocks {
		blocks = append(blocks, blockDocument{
			Range:     rangeDocument{CheckIn: b.Range.CheckIn.UnixMilli(), CheckOut: b.Range.CheckOut.UnixMilli()},
			Reference: b.Reference,
			CreatedAt: b.CreatedAt.UnixMilli(),
		})
	}
	return calendarDocument{
		ID:      string(calendar.RoomID),
		Blocks:  blocks,
		Version: calendar.Version,
	}
}

func (d calendarDocument) toAggregate() *domainavailability.Calendar {
	calendar := domainavailability.NewCalendar(domainroom.ID(d.ID))
	calendar.Version = d.Version
	for _, b := range d.Blocks {
		calendar.Blocks = append(calendar.Blocks, domainavailability.Block{
			Range: domainrange.DateRange{
				CheckIn:  timestampToTime(b.Range.CheckIn),
				CheckOut: timestampToTime(b.Range.CheckOut),
			},
			Reference: b.Reference,
			CreatedAt: timestampToTime(b.CreatedAt),
		})
	}
	return calendar
}
