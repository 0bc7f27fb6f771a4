package services

import (
	"context"
	"errors"
	"fmt"

	"bate-papo/backend/database"
	"bate-papo/backend/models"
	"bate-papo/backend/utils"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Messaging 處理訊息的新增、查詢、修改與刪除
type Messaging struct {
	participants database.ParticipantStore
	messages     database.MessageStore
	settings
}

// NewMessaging 建立 Messaging 服務
func NewMessaging(participants database.ParticipantStore, messages database.MessageStore, opts ...Option) *Messaging {
	return &Messaging{
		participants: participants,
		messages:     messages,
		settings:     newSettings(opts),
	}
}

// Post 儲存 author 發出的新訊息
func (s *Messaging) Post(ctx context.Context, author string, req models.MessageRequest) error {
	msg, err := s.build(ctx, author, req)
	if err != nil {
		return err
	}

	id, err := s.messages.Insert(ctx, msg)
	if err != nil {
		return storeError("insert message", err)
	}
	msg.ID = id
	s.publisher.Publish(msg)
	return nil
}

// List 回傳 requester 可見的訊息，由舊到新。limit > 0 時只回傳最後 limit 筆。
func (s *Messaging) List(ctx context.Context, requester string, limit int) ([]models.Message, error) {
	all, err := s.messages.FindAll(ctx)
	if err != nil {
		return nil, storeError("list messages", err)
	}

	requester = utils.Sanitize(requester)
	visible := lo.Filter(all, func(m models.Message, _ int) bool {
		return m.VisibleTo(requester)
	})
	if limit > 0 && limit < len(visible) {
		visible = visible[len(visible)-limit:]
	}
	return visible, nil
}

// Delete 刪除 requester 自己發出的訊息
func (s *Messaging) Delete(ctx context.Context, requester, id string) error {
	msg, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if msg.From != utils.Sanitize(requester) {
		return ErrUnauthorized
	}

	if err := s.messages.Delete(ctx, msg.ID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrNotFound
		}
		return storeError("delete message", err)
	}
	return nil
}

// Update 覆寫 requester 自己發出的訊息的 to/text/type/time
func (s *Messaging) Update(ctx context.Context, requester, id string, req models.MessageRequest) error {
	replacement, err := s.build(ctx, requester, req)
	if err != nil {
		return err
	}

	msg, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if msg.From != replacement.From {
		return ErrUnauthorized
	}

	if err := s.messages.Update(ctx, msg.ID, replacement); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrNotFound
		}
		return storeError("update message", err)
	}
	return nil
}

// build 清理並驗證 author 送出的訊息內容，回報所有失敗的規則，而不只第一個
func (s *Messaging) build(ctx context.Context, author string, req models.MessageRequest) (models.Message, error) {
	author = utils.Sanitize(author)
	req.To = utils.Sanitize(req.To)
	req.Text = utils.Sanitize(req.Text)
	req.Type = models.MessageType(utils.Sanitize(string(req.Type)))

	details := validationDetails(req)
	if author == "" {
		details = append(details, `"from" is required`)
	} else {
		online, err := s.participants.Exists(ctx, author)
		if err != nil {
			return models.Message{}, storeError("check author", err)
		}
		if !online {
			details = append(details, fmt.Sprintf("%q must be a logged-in participant", "from"))
		}
	}
	if len(details) > 0 {
		return models.Message{}, &ValidationError{Details: details}
	}

	return models.Message{
		From: author,
		To:   req.To,
		Text: req.Text,
		Type: req.Type,
		Time: utils.FormatClock(s.now(), s.loc),
	}, nil
}

func (s *Messaging) find(ctx context.Context, id string) (*models.Message, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	msg, err := s.messages.FindByID(ctx, oid)
	if err != nil {
		return nil, storeError("find message", err)
	}
	if msg == nil {
		return nil, ErrNotFound
	}
	return msg, nil
}
