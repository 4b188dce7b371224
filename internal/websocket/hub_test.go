package websocket

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"synergy-backend/internal/models"
)

type staticVerifier struct {
	token  string
	userID uuid.UUID
}

func (v staticVerifier) Verify(token string) (uuid.UUID, error) {
	if token != v.token {
		return uuid.Nil, errors.New("invalid credential")
	}
	return v.userID, nil
}

func TestUserChannel(t *testing.T) {
	id := uuid.MustParse("6f1c2a8e-2b0a-4c55-9d0e-6d7a1b9c3e21")
	assert.Equal(t, "user_updates:6f1c2a8e-2b0a-4c55-9d0e-6d7a1b9c3e21", UserChannel(id))
}

func TestHandleWebSocket_RejectsBadToken(t *testing.T) {
	hub := NewHub(nil, staticVerifier{token: "good", userID: uuid.New()}, zap.NewNop())

	for _, target := range []string{"/ws", "/ws?token=bad"} {
		rr := httptest.NewRecorder()
		hub.HandleWebSocket(rr, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code, target)
	}
}

func TestHub_DeliversToConnectedUser(t *testing.T) {
	userID := uuid.New()
	hub := NewHub(nil, staticVerifier{token: "good", userID: userID}, zap.NewNop())
	defer hub.Close()

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?token=good"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ConnectionCount(userID) == 1 }, time.Second, 10*time.Millisecond)

	hub.SendToUser(userID, models.WSMessage{
		Type:    models.WSTypeChatMessage,
		Payload: models.ChatMessageEvent{Message: "Halo", FromUser: false},
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"chat_message"`)
	assert.Contains(t, string(data), `"message":"Halo"`)
}
