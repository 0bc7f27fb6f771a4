package services

import (
	"context"
	"errors"
	"testing"

	"bate-papo/backend/database"
	"bate-papo/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"
)

func TestMessagingPost(t *testing.T) {
	f := newFixture(t)
	svc := NewMessaging(f.participants, f.messages, f.opts...)
	id := primitive.NewObjectID()

	f.participants.EXPECT().Exists(gomock.Any(), "ana").Return(true, nil)
	f.messages.EXPECT().
		Insert(gomock.Any(), models.Message{
			From: "ana",
			To:   "Todos",
			Text: "oi",
			Type: models.MessageTypeMessage,
			Time: "14:07:09",
		}).
		Return(id, nil)

	err := svc.Post(context.Background(), "ana", models.MessageRequest{
		To:   " Todos ",
		Text: "<p>oi</p>",
		Type: models.MessageTypeMessage,
	})
	require.NoError(t, err)
	require.Len(t, f.published.got, 1)
	assert.Equal(t, id, f.published.got[0].ID)
}

func TestMessagingPostValidation(t *testing.T) {
	t.Run("reports every failing field", func(t *testing.T) {
		f := newFixture(t)
		svc := NewMessaging(f.participants, f.messages, f.opts...)
		f.participants.EXPECT().Exists(gomock.Any(), "ana").Return(false, nil)

		err := svc.Post(context.Background(), "ana", models.MessageRequest{Type: "shout"})

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{
			`"to" is required`,
			`"text" is required`,
			`"type" must be one of [message, private_message]`,
			`"from" must be a logged-in participant`,
		}, verr.Details)
	})

	t.Run("status type is not accepted from clients", func(t *testing.T) {
		f := newFixture(t)
		svc := NewMessaging(f.participants, f.messages, f.opts...)
		f.participants.EXPECT().Exists(gomock.Any(), "ana").Return(true, nil)

		err := svc.Post(context.Background(), "ana", models.MessageRequest{To: "Todos", Text: "oi", Type: models.MessageTypeStatus})

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{`"type" must be one of [message, private_message]`}, verr.Details)
	})

	t.Run("missing author", func(t *testing.T) {
		f := newFixture(t)
		svc := NewMessaging(f.participants, f.messages, f.opts...)

		err := svc.Post(context.Background(), "", models.MessageRequest{To: "Todos", Text: "oi", Type: models.MessageTypeMessage})

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{`"from" is required`}, verr.Details)
	})

	t.Run("author lookup fails", func(t *testing.T) {
		f := newFixture(t)
		svc := NewMessaging(f.participants, f.messages, f.opts...)
		f.participants.EXPECT().Exists(gomock.Any(), "ana").Return(false, errors.New("timeout"))

		err := svc.Post(context.Background(), "ana", models.MessageRequest{To: "Todos", Text: "oi", Type: models.MessageTypeMessage})
		assert.ErrorIs(t, err, ErrStore)
	})
}

func TestMessagingList(t *testing.T) {
	stored := []models.Message{
		{From: "ana", To: "Todos", Text: "entra na sala...", Type: models.MessageTypeStatus},
		{From: "ana", To: "Todos", Text: "oi", Type: models.MessageTypeMessage},
		{From: "ana", To: "bob", Text: "secret", Type: models.MessageTypePrivate},
		{From: "carol", To: "ana", Text: "psst", Type: models.MessageTypePrivate},
		{From: "bob", To: "Todos", Text: "tchau", Type: models.MessageTypeMessage},
	}

	cases := []struct {
		name      string
		requester string
		limit     int
		want      []string
	}{
		{"sender sees own private", "ana", 0, []string{"entra na sala...", "oi", "secret", "psst", "tchau"}},
		{"recipient sees private", "bob", 0, []string{"entra na sala...", "oi", "secret", "tchau"}},
		{"outsider sees broadcasts only", "dave", 0, []string{"entra na sala...", "oi", "tchau"}},
		{"anonymous sees broadcasts only", "", 0, []string{"entra na sala...", "oi", "tchau"}},
		{"limit keeps the most recent", "bob", 2, []string{"secret", "tchau"}},
		{"limit larger than result", "dave", 10, []string{"entra na sala...", "oi", "tchau"}},
		{"negative limit means all", "dave", -1, []string{"entra na sala...", "oi", "tchau"}},
		{"padded requester matches stored name", "  bob ", 0, []string{"entra na sala...", "oi", "secret", "tchau"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			svc := NewMessaging(f.participants, f.messages, f.opts...)
			f.messages.EXPECT().FindAll(gomock.Any()).Return(stored, nil)

			got, err := svc.List(context.Background(), tc.requester, tc.limit)
			require.NoError(t, err)

			texts := make([]string, 0, len(got))
			for _, m := range got {
				texts = append(texts, m.Text)
			}
			assert.Equal(t, tc.want, texts)
		})
	}
}

func TestMessagingDelete(t *testing.T) {
	id := primitive.NewObjectID()
	stored := &models.Message{ID: id, From: "ana", To: "Todos", Text: "oi", Type: models.MessageTypeMessage}

	t.Run("malformed id", func(t *testing.T) {
		f := newFixture(t)
		svc := NewMessaging(f.participants, f.messages, f.opts...)

		assert.ErrorIs(t, svc.Delete(context.Background(), "ana", "not-an-id"), ErrNotFound)
	})

	t.Run("unknown id", func(t *testing.T) {
		f := newFixture(t)
		svc := NewMessaging(f.participants, f.messages, f.opts...)
		f.messages.EXPECT().FindByID(gomock.Any(), id).Return(nil, nil)

		assert.ErrorIs(t, svc.Delete(context.Background(), "ana", id.Hex()), ErrNotFound)
	})

	t.Run("someone else's message", func(t *testing.T) {
		f := newFixture(t)
		svc := NewMessaging(f.participants, f.messages, f.opts...)
		f.messages.EXPECT().FindByID(gomock.Any(), id).Return(stored, nil)
		// 沒有設定 Delete 的 EXPECT，若被呼叫 gomock 會讓測試失敗

		assert.ErrorIs(t, svc.Delete(context.Background(), "bob", id.Hex()), ErrUnauthorized)
	})

	t.Run("author deletes", func(t *testing.T) {
		f := newFixture(t)
		svc := NewMessaging(f.participants, f.messages, f.opts...)
		f.messages.EXPECT().FindByID(gomock.Any(), id).Return(stored, nil)
		f.messages.EXPECT().Delete(gomock.Any(), id).Return(nil)

		assert.NoError(t, svc.Delete(context.Background(), "ana", id.Hex()))
	})

	t.Run("vanished between find and delete", func(t *testing.T) {
		f := newFixture(t)
		svc := NewMessaging(f.participants, f.messages, f.opts...)
		f.messages.EXPECT().FindByID(gomock.Any(), id).Return(stored, nil)
		f.messages.EXPECT().Delete(gomock.Any(), id).Return(database.ErrNotFound)

		assert.ErrorIs(t, svc.Delete(context.Background(), "ana", id.Hex()), ErrNotFound)
	})
}

func TestMessagingUpdate(t *testing.T) {
	id := primitive.NewObjectID()
	stored := &models.Message{ID: id, From: "ana", To: "Todos", Text: "oi", Type: models.MessageTypeMessage, Time: "10:00:00"}
	body := models.MessageRequest{To: "bob", Text: "corrigido", Type: models.MessageTypePrivate}

	t.Run("validation runs before lookup", func(t *testing.T) {
		f := newFixture(t)
		svc := NewMessaging(f.participants, f.messages, f.opts...)
		f.participants.EXPECT().Exists(gomock.Any(), "ana").Return(true, nil)

		err := svc.Update(context.Background(), "ana", id.Hex(), models.MessageRequest{To: "bob"})

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Details, 2)
	})

	t.Run("unknown id", func(t *testing.T) {
		f := newFixture(t)
		svc := NewMessaging(f.participants, f.messages, f.opts...)
		f.participants.EXPECT().Exists(gomock.Any(), "ana").Return(true, nil)
		f.messages.EXPECT().FindByID(gomock.Any(), id).Return(nil, nil)

		assert.ErrorIs(t, svc.Update(context.Background(), "ana", id.Hex(), body), ErrNotFound)
	})

	t.Run("someone else's message", func(t *testing.T) {
		f := newFixture(t)
		svc := NewMessaging(f.participants, f.messages, f.opts...)
		f.participants.EXPECT().Exists(gomock.Any(), "bob").Return(true, nil)
		f.messages.EXPECT().FindByID(gomock.Any(), id).Return(stored, nil)

		assert.ErrorIs(t, svc.Update(context.Background(), "bob", id.Hex(), body), ErrUnauthorized)
	})

	t.Run("author updates", func(t *testing.T) {
		f := newFixture(t)
		svc := NewMessaging(f.participants, f.messages, f.opts...)
		f.participants.EXPECT().Exists(gomock.Any(), "ana").Return(true, nil)
		f.messages.EXPECT().FindByID(gomock.Any(), id).Return(stored, nil)
		f.messages.EXPECT().
			Update(gomock.Any(), id, models.Message{
				From: "ana",
				To:   "bob",
				Text: "corrigido",
				Type: models.MessageTypePrivate,
				Time: "14:07:09",
			}).
			Return(nil)

		assert.NoError(t, svc.Update(context.Background(), "ana", id.Hex(), body))
	})
}
