package handlers

import (
	"context"
	"sync"

	"bate-papo/backend/database"
	"bate-papo/backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memParticipants 是測試用的 users 集合，模擬唯一索引
type memParticipants struct {
	mu    sync.Mutex
	users []models.Participant
}

var _ database.ParticipantStore = (*memParticipants)(nil)

func (s *memParticipants) Insert(_ context.Context, p models.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Name == p.Name {
			return database.ErrDuplicateName
		}
	}
	p.ID = primitive.NewObjectID()
	s.users = append(s.users, p)
	return nil
}

func (s *memParticipants) FindAll(context.Context) ([]models.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Participant{}, s.users...), nil
}

func (s *memParticipants) Exists(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (s *memParticipants) Touch(_ context.Context, name string, lastStatus int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].Name == name {
			s.users[i].LastStatus = lastStatus
			return true, nil
		}
	}
	return false, nil
}

func (s *memParticipants) FindIdle(_ context.Context, cutoff int64) ([]models.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var idle []models.Participant
	for _, u := range s.users {
		if u.LastStatus <= cutoff {
			idle = append(idle, u)
		}
	}
	return idle, nil
}

func (s *memParticipants) DeleteByNames(_ context.Context, names []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	kept := s.users[:0]
	var deleted int64
	for _, u := range s.users {
		if drop[u.Name] {
			deleted++
			continue
		}
		kept = append(kept, u)
	}
	s.users = kept
	return deleted, nil
}

// memMessages 是測試用的 messages 集合，保留寫入順序
type memMessages struct {
	mu   sync.Mutex
	msgs []models.Message
}

var _ database.MessageStore = (*memMessages)(nil)

func (s *memMessages) Insert(_ context.Context, m models.Message) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = primitive.NewObjectID()
	s.msgs = append(s.msgs, m)
	return m.ID, nil
}

func (s *memMessages) InsertMany(ctx context.Context, ms []models.Message) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(ms))
	for _, m := range ms {
		id, _ := s.Insert(ctx, m)
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *memMessages) FindAll(context.Context) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Message{}, s.msgs...), nil
}

func (s *memMessages) FindByID(_ context.Context, id primitive.ObjectID) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.msgs {
		if m.ID == id {
			found := m
			return &found, nil
		}
	}
	return nil, nil
}

func (s *memMessages) Update(_ context.Context, id primitive.ObjectID, m models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.msgs {
		if s.msgs[i].ID == id {
			s.msgs[i].To, s.msgs[i].Text, s.msgs[i].Type, s.msgs[i].Time = m.To, m.Text, m.Type, m.Time
			return nil
		}
	}
	return database.ErrNotFound
}

func (s *memMessages) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.msgs {
		if s.msgs[i].ID == id {
			s.msgs = append(s.msgs[:i], s.msgs[i+1:]...)
			return nil
		}
	}
	return database.ErrNotFound
}
