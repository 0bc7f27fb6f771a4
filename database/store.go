package database

//go:generate mockgen -source=store.go -destination=mocks/store_mock.go -package=mocks

import (
	"context"
	"errors"

	"bate-papo/backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrDuplicateName 表示名稱已被使用，由 ParticipantStore.Insert 回傳
	ErrDuplicateName = errors.New("participant name already exists")
	// ErrNotFound 表示沒有符合的文件，由 MessageStore.Update 與 Delete 回傳
	ErrNotFound = errors.New("document not found")
)

// ParticipantStore 是 users 集合的存取介面
type ParticipantStore interface {
	// Insert 新增使用者，名稱重複時回傳 ErrDuplicateName
	Insert(ctx context.Context, p models.Participant) error
	FindAll(ctx context.Context) ([]models.Participant, error)
	Exists(ctx context.Context, name string) (bool, error)
	// Touch 更新 lastStatus，回傳是否有找到該使用者
	Touch(ctx context.Context, name string, lastStatus int64) (bool, error)
	FindIdle(ctx context.Context, cutoff int64) ([]models.Participant, error)
	DeleteByNames(ctx context.Context, names []string) (int64, error)
}

// MessageStore 是 messages 集合的存取介面
type MessageStore interface {
	Insert(ctx context.Context, m models.Message) (primitive.ObjectID, error)
	InsertMany(ctx context.Context, ms []models.Message) ([]primitive.ObjectID, error)
	// FindAll 依寫入順序 (由舊到新) 回傳所有訊息
	FindAll(ctx context.Context) ([]models.Message, error)
	// FindByID 找不到時回傳 nil, nil
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Message, error)
	// Update 覆寫 to/text/type/time，from 與 id 保持不變
	Update(ctx context.Context, id primitive.ObjectID, m models.Message) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
