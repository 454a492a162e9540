package realtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikkim/reviewhub-backend/internal/app/service"
)

func sessionCount(h *Hub, userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

func waitForSessions(t *testing.T, h *Hub, userID uint, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if sessionCount(h, userID) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d sessions for user %d, got %d", want, userID, sessionCount(h, userID))
}

func receiveEvent(t *testing.T, c *Client) string {
	t.Helper()

	select {
	case msg, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		return string(msg)
	case <-time.After(2 * time.Second):
		t.Fatal("no broadcast received")
		return ""
	}
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	first := NewClient(hub, nil, 1)
	second := NewClient(hub, nil, 2)
	hub.Register(first)
	hub.Register(second)
	waitForSessions(t, hub, 1, 1)
	waitForSessions(t, hub, 2, 1)

	hub.Publish(service.FeedEvent{Type: "review_created", ReviewID: 10, UserID: 1})

	assert.Contains(t, receiveEvent(t, first), "review_created")
	assert.Contains(t, receiveEvent(t, second), "review_created")
}

func TestHub_DuplicateUnregisterKeepsOtherSessions(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// 같은 사용자의 멀티 디바이스 접속
	phone := NewClient(hub, nil, 7)
	laptop := NewClient(hub, nil, 7)
	hub.Register(phone)
	hub.Register(laptop)
	waitForSessions(t, hub, 7, 2)

	// 느린 소비자 정리와 ReadPump 종료가 같은 연결을 두 번 해제 요청하는 경우
	hub.Unregister(phone)
	hub.Unregister(phone)
	waitForSessions(t, hub, 7, 1)

	// 남은 연결은 계속 브로드캐스트를 받아야 함
	hub.Publish(service.FeedEvent{Type: "review_liked", ReviewID: 3, UserID: 7})
	assert.Contains(t, receiveEvent(t, laptop), "review_liked")

	// 해제된 연결의 채널은 닫혀 있어야 함
	select {
	case _, ok := <-phone.Send:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("expected closed send channel")
	}

	assert.True(t, hub.IsUserOnline(7))
	hub.Unregister(laptop)
	waitForSessions(t, hub, 7, 0)
	assert.False(t, hub.IsUserOnline(7))
}
