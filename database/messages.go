package database

import (
	"context"
	"errors"
	"fmt"

	"bate-papo/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type messageStore struct {
	coll *mongo.Collection
}

// NewMessageStore 回傳以 messages 集合為後端的 MessageStore
func NewMessageStore(db *mongo.Database) MessageStore {
	return &messageStore{coll: db.Collection(MessagesCollection)}
}

// 將新的聊天訊息插入到 MongoDB
func (s *messageStore) Insert(ctx context.Context, m models.Message) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	if _, err := s.coll.InsertOne(ctx, m); err != nil {
		return primitive.NilObjectID, err
	}
	return m.ID, nil
}

func (s *messageStore) InsertMany(ctx context.Context, ms []models.Message) ([]primitive.ObjectID, error) {
	if len(ms) == 0 {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	docs := make([]interface{}, 0, len(ms))
	ids := make([]primitive.ObjectID, 0, len(ms))
	for _, m := range ms {
		if m.ID.IsZero() {
			m.ID = primitive.NewObjectID()
		}
		ids = append(ids, m.ID)
		docs = append(docs, m)
	}

	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *messageStore) FindAll(ctx context.Context) ([]models.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	// 以 _id 升序排列；ObjectID 開頭是秒級時間戳記，同一秒內跨程序寫入的順序不保證
	findOptions := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := s.coll.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	messages := []models.Message{}
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *messageStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var m models.Message
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *messageStore) Update(ctx context.Context, id primitive.ObjectID, m models.Message) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"to":   m.To,
		"text": m.Text,
		"type": m.Type,
		"time": m.Time,
	}}
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("update message %s: %w", id.Hex(), ErrNotFound)
	}
	return nil
}

func (s *messageStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete message %s: %w", id.Hex(), ErrNotFound)
	}
	return nil
}
