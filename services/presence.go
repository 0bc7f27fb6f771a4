package services

import (
	"context"
	"errors"

	"bate-papo/backend/database"
	"bate-papo/backend/models"
	"bate-papo/backend/utils"
)

// Presence 處理使用者加入、列表與心跳
type Presence struct {
	participants database.ParticipantStore
	messages     database.MessageStore
	settings
}

// NewPresence 建立 Presence 服務
func NewPresence(participants database.ParticipantStore, messages database.MessageStore, opts ...Option) *Presence {
	return &Presence{
		participants: participants,
		messages:     messages,
		settings:     newSettings(opts),
	}
}

// Join 讓使用者以 name 進入聊天室，並發出一則 "entra na sala..." 的狀態訊息。
// 名稱的唯一性由 users.name 的唯一索引保證。
func (p *Presence) Join(ctx context.Context, req models.JoinRequest) error {
	req.Name = utils.Sanitize(req.Name)
	if details := validationDetails(req); len(details) > 0 {
		return &ValidationError{Details: details}
	}

	now := p.now()
	participant := models.Participant{Name: req.Name, LastStatus: now.UnixMilli()}
	if err := p.participants.Insert(ctx, participant); err != nil {
		if errors.Is(err, database.ErrDuplicateName) {
			return ErrConflict
		}
		return storeError("insert participant", err)
	}

	status := StatusMessage(req.Name, StatusJoined, now, p.loc)
	id, err := p.messages.Insert(ctx, status)
	if err != nil {
		return storeError("insert join status", err)
	}
	status.ID = id
	p.publisher.Publish(status)
	return nil
}

// List 回傳所有在線使用者
func (p *Presence) List(ctx context.Context) ([]models.Participant, error) {
	participants, err := p.participants.FindAll(ctx)
	if err != nil {
		return nil, storeError("list participants", err)
	}
	return participants, nil
}

// Heartbeat 更新使用者的 lastStatus
func (p *Presence) Heartbeat(ctx context.Context, name string) error {
	// 與加入時相同的清理，讓 header 能對上儲存的名稱
	name = utils.Sanitize(name)
	if name == "" {
		return ErrMissingHeader
	}

	found, err := p.participants.Touch(ctx, name, p.now().UnixMilli())
	if err != nil {
		return storeError("touch participant", err)
	}
	if !found {
		return ErrNotFound
	}
	return nil
}
