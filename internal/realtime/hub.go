package realtime

import (
	"encoding/json"
	"sync"

	"github.com/ikkim/reviewhub-backend/internal/app/service"
	"github.com/ikkim/reviewhub-backend/pkg/logger"
)

// Hub는 활동 피드 WebSocket 연결 관리자.
// 새 리뷰/좋아요/댓글 이벤트를 접속 중인 모든 클라이언트에 브로드캐스트한다.
type Hub struct {
	// 등록된 클라이언트들 (UserID별 멀티 디바이스 지원)
	clients map[uint][]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	mu sync.RWMutex
}

// NewHub Hub 생성
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan []byte, 1024),
	}
}

// Run Hub 실행
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			// 멀티 디바이스 지원: 클라이언트 리스트에 추가
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			logger.Info("Feed client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"total_sessions": len(h.clients[client.UserID]),
			})

		case client := <-h.unregister:
			h.mu.Lock()
			removed := false
			if clientList, ok := h.clients[client.UserID]; ok {
				newList := make([]*Client, 0, len(clientList))
				for _, c := range clientList {
					if c != client {
						newList = append(newList, c)
					}
				}
				removed = len(newList) < len(clientList)

				if len(newList) == 0 {
					delete(h.clients, client.UserID)
				} else {
					h.clients[client.UserID] = newList
				}
			}
			h.mu.Unlock()

			// 같은 클라이언트가 중복 해제 요청되어도 Send는 한 번만 닫는다
			if removed {
				close(client.Send)
				logger.Info("Feed client unregistered", map[string]interface{}{
					"user_id": client.UserID,
				})
			}

		case message := <-h.broadcast:
			h.mu.RLock()
			for userID, clientList := range h.clients {
				for _, client := range clientList {
					select {
					case client.Send <- message:
						// 전송 성공
					default:
						// Send 채널이 막혀있음 - 비동기로 정리
						go h.Unregister(client)
						logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
							"user_id": userID,
						})
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Publish는 활동 이벤트를 모든 접속자에게 브로드캐스트합니다.
// 채널이 가득 차면 이벤트를 버립니다 (주요 로직에 영향 없음).
func (h *Hub) Publish(event service.FeedEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal feed event", err, nil)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		logger.Warn("Broadcast channel full, event dropped", map[string]interface{}{
			"type": event.Type,
		})
	}
}

// Register 클라이언트 등록
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister 클라이언트 등록 해제
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// IsUserOnline 사용자 온라인 여부 확인
func (h *Hub) IsUserOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// OnlineCount 현재 접속자 수
func (h *Hub) OnlineCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
