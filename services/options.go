package services

import (
	"time"

	"bate-papo/backend/models"
	"bate-papo/backend/utils"
)

const (
	StatusJoined = "entra na sala..."
	StatusLeft   = "sai da sala..."
)

// Publisher 在訊息儲存後接收該訊息
type Publisher interface {
	Publish(m models.Message)
}

type nopPublisher struct{}

func (nopPublisher) Publish(models.Message) {}

type settings struct {
	now       func() time.Time
	loc       *time.Location
	publisher Publisher
}

// Option 設定 Presence 與 Messaging
type Option func(*settings)

// WithClock 取代 time.Now
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// WithLocation 設定訊息時間使用的時區
func WithLocation(loc *time.Location) Option {
	return func(s *settings) { s.loc = loc }
}

// WithPublisher 將儲存後的訊息轉交給 p
func WithPublisher(p Publisher) Option {
	return func(s *settings) {
		if p != nil {
			s.publisher = p
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{now: time.Now, loc: time.Local, publisher: nopPublisher{}}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// StatusMessage 建立 name 進入或離開聊天室的系統訊息
func StatusMessage(name, text string, at time.Time, loc *time.Location) models.Message {
	return models.Message{
		From: name,
		To:   models.Everyone,
		Text: text,
		Type: models.MessageTypeStatus,
		Time: utils.FormatClock(at, loc),
	}
}
