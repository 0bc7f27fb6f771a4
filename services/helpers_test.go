package services

import (
	"testing"
	"time"

	"bate-papo/backend/database/mocks"
	"bate-papo/backend/models"

	"go.uber.org/mock/gomock"
)

// fixedNow 是測試中使用的固定時間
var fixedNow = time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)

type publishRecorder struct {
	got []models.Message
}

func (r *publishRecorder) Publish(m models.Message) {
	r.got = append(r.got, m)
}

type fixture struct {
	participants *mocks.MockParticipantStore
	messages     *mocks.MockMessageStore
	published    *publishRecorder
	opts         []Option
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	pub := &publishRecorder{}
	return &fixture{
		participants: mocks.NewMockParticipantStore(ctrl),
		messages:     mocks.NewMockMessageStore(ctrl),
		published:    pub,
		opts: []Option{
			WithClock(func() time.Time { return fixedNow }),
			WithLocation(time.UTC),
			WithPublisher(pub),
		},
	}
}
