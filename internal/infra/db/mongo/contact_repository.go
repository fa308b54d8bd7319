package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domaincontact "innkeeper/internal/domain/contact"
)

type ContactRepository struct {
	col *mongo.Collection
}

func NewContactRepository(db *mongo.Database) *ContactRepository {
	return &ContactRepository{col: db.Collection("contact_message")}
}

func (r *ContactRepository) Save(ctx context.Context, msg *domaincontact.Message) error {
	doc := contactDocument{
		ID:        string(msg.ID),
		Name:      msg.Name,
		Email:     msg.Email,
		Subject:   msg.Subject,
		Body:      msg.Body,
		CreatedAt: msg.CreatedAt.UnixMilli(),
	}
	_, err := r.col.InsertOne(ctx, doc)
	return err
}

func (r *ContactRepository) List(ctx context.Context) ([]*domaincontact.Message, error) {
	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domaincontact.Message
	for cursor.Next(ctx) {
		var doc contactDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, &domaincontact.Message{
			ID:        domaincontact.ID(doc.ID),
			Name:      doc.Name,
			Email:     doc.Email,
			Subject:   doc.Subject,
			Body:      doc.Body,
			CreatedAt: timestampToTime(doc.CreatedAt),
		})
	}
	return out, cursor.Err()
}

type contactDocument struct {
	ID        string `bson:"_id"`
	Name      string `bson:"name"`
	Email     string `bson:"email"`
	Subject   string `bson:"subject"`
	Body      string `bson:"body"`
	CreatedAt int64  `bson:"created_at"`
}

var _ domaincontact.Repository = (*ContactRepository)(nil)
