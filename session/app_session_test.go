package session_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albt6x/rent-a-camera/models"
	"github.com/albt6x/rent-a-camera/session"
)

func TestGet_ReturnsCachedRole(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := session.NewAppSessionStore(rdb, time.Hour)

	now := time.Now()
	b, err := json.Marshal(session.AppSession{
		UserID:    "u1",
		Role:      models.RoleStaff,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	mock.ExpectGet("rk:sess:s1").SetVal(string(b))

	as, err := store.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "u1", as.UserID)
	assert.Equal(t, models.RoleStaff, as.Role, "the role travels in the session payload")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_MissingSessionErrors(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := session.NewAppSessionStore(rdb, time.Hour)

	mock.ExpectGet("rk:sess:gone").RedisNil()

	_, err := store.Get(context.Background(), "gone")
	assert.Error(t, err)
}

func TestRevokeAllForUser_DropsEverySession(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := session.NewAppSessionStore(rdb, time.Hour)

	mock.ExpectSMembers("rk:user_sessions:u1").SetVal([]string{"s1", "s2"})
	mock.ExpectTxPipeline()
	mock.ExpectDel("rk:sess:s1").SetVal(1)
	mock.ExpectDel("rk:sess:s2").SetVal(1)
	mock.ExpectDel("rk:user_sessions:u1").SetVal(1)
	mock.ExpectTxPipelineExec()

	require.NoError(t, store.RevokeAllForUser(context.Background(), "u1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
