package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JoinRequest 是 POST /participants 的請求體
type JoinRequest struct {
	Name string `json:"name" validate:"required"`
}

// Participant 代表一個目前在聊天室中的使用者
type Participant struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name       string             `bson:"name" json:"name"`             // 唯一索引，見 database.EnsureIndexes
	LastStatus int64              `bson:"lastStatus" json:"lastStatus"` // 最後一次心跳 (Unix 毫秒)
}
