package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const (
	UsersCollection    = "users"
	MessagesCollection = "messages"

	// 每次資料庫操作的逾時時間
	opTimeout = 5 * time.Second
)

// ConnectMongoDB 建立 MongoDB 連線並確認 primary 可用
func ConnectMongoDB(ctx context.Context, uri, name string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	// Ping 主節點確認連線
	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	zap.S().Infow("connected to mongodb", "database", name)
	return client.Database(name), nil
}

// EnsureIndexes 建立 users.name 的唯一索引，讓資料庫保證同名使用者只會有一個
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	users := db.Collection(UsersCollection)
	_, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_name"),
		},
		{
			// 清理閒置使用者時依 lastStatus 查詢
			Keys:    bson.D{{Key: "lastStatus", Value: 1}},
			Options: options.Index().SetName("idx_last_status"),
		},
	})
	if err != nil {
		return fmt.Errorf("create users indexes: %w", err)
	}
	zap.S().Infow("indexes ensured", "collection", UsersCollection)
	return nil
}

// DisconnectMongoDB 關閉 MongoDB 連線
func DisconnectMongoDB(db *mongo.Database) {
	if db == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := db.Client().Disconnect(ctx); err != nil {
		zap.S().Errorw("error disconnecting from mongodb", "error", err)
		return
	}
	zap.S().Info("disconnected from mongodb")
}
