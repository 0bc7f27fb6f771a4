package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageType 定義消息類型
type MessageType string

const (
	MessageTypeMessage MessageType = "message"         // 公開訊息
	MessageTypePrivate MessageType = "private_message" // 私訊，只有發送者與接收者可見
	MessageTypeStatus  MessageType = "status"          // 系統產生的進出訊息
)

// Everyone 是公開訊息與狀態訊息的接收者
const Everyone = "Todos"

// MessageRequest 是 POST /messages 與 PUT /messages/{id} 的請求體
type MessageRequest struct {
	To   string      `json:"to" validate:"required"`
	Text string      `json:"text" validate:"required"`
	Type MessageType `json:"type" validate:"required,oneof=message private_message"`
}

// Message 代表一個聊天訊息
type Message struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	From string             `bson:"from" json:"from"`
	To   string             `bson:"to" json:"to"`
	Text string             `bson:"text" json:"text"`
	Type MessageType        `bson:"type" json:"type"`
	Time string             `bson:"time" json:"time"`
}

// VisibleTo 回報 requester 是否可以看到這則訊息。
// 公開訊息與狀態訊息所有人可見，私訊只有發送者與接收者可見
func (m Message) VisibleTo(requester string) bool {
	switch m.Type {
	case MessageTypeMessage, MessageTypeStatus:
		return true
	}
	return m.From == requester || m.To == requester
}
