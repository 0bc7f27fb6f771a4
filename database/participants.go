package database

import (
	"context"

	"bate-papo/backend/models"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type participantStore struct {
	coll *mongo.Collection
}

// NewParticipantStore 回傳以 users 集合為後端的 ParticipantStore
func NewParticipantStore(db *mongo.Database) ParticipantStore {
	return &participantStore{coll: db.Collection(UsersCollection)}
}

func (s *participantStore) Insert(ctx context.Context, p models.Participant) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := s.coll.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateName
		}
		return err
	}
	return nil
}

func (s *participantStore) FindAll(ctx context.Context) ([]models.Participant, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := s.coll.Find(ctx, bson.M{}) // bson.M{} 表示無條件查找所有文檔
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	participants := []models.Participant{}
	if err = cursor.All(ctx, &participants); err != nil {
		return nil, err
	}
	return participants, nil
}

func (s *participantStore) Exists(ctx context.Context, name string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	n, err := s.coll.CountDocuments(ctx, bson.M{"name": name}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *participantStore) Touch(ctx context.Context, name string, lastStatus int64) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.coll.UpdateOne(ctx, bson.M{"name": name}, bson.M{"$set": bson.M{"lastStatus": lastStatus}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (s *participantStore) FindIdle(ctx context.Context, cutoff int64) ([]models.Participant, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cursor, err := s.coll.Find(ctx, bson.M{"lastStatus": bson.M{"$lte": cutoff}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var idle []models.Participant
	if err = cursor.All(ctx, &idle); err != nil {
		return nil, err
	}
	return idle, nil
}

func (s *participantStore) DeleteByNames(ctx context.Context, names []string) (int64, error) {
	if len(names) == 0 {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := s.coll.DeleteMany(ctx, bson.M{"name": bson.M{"$in": names}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Names 回傳使用者名稱列表
func Names(participants []models.Participant) []string {
	return lo.Map(participants, func(p models.Participant, _ int) string {
		return p.Name
	})
}
