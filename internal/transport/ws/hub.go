package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Case lifecycle events pushed to the review feed
const (
	MsgCaseReceived MessageType = "case_received"
	MsgDraftReady   MessageType = "draft_ready"
	MsgCaseApproved MessageType = "case_approved"
	MsgCaseRejected MessageType = "case_rejected"
	MsgError        MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages reviewer connections to the live case feed, grouped by the
// instrument they are reviewing
type Hub struct {
	// instrumentID -> reviewerID -> conn
	reviewerConns map[string]map[string]*Connection

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents one reviewer's WebSocket connection
type Connection struct {
	InstrumentID string
	ReviewerID   string
	Send         chan []byte
	Hub          *Hub
}

// BroadcastMessage is a message to fan out to an instrument's reviewers
type BroadcastMessage struct {
	InstrumentID string
	Message      *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		reviewerConns: make(map[string]map[string]*Connection),
		register:      make(chan *Connection),
		unregister:    make(chan *Connection),
		broadcast:     make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.reviewerConns[conn.InstrumentID] == nil {
				h.reviewerConns[conn.InstrumentID] = make(map[string]*Connection)
			}
			h.reviewerConns[conn.InstrumentID][conn.ReviewerID] = conn
			h.mu.Unlock()
			log.Printf("Reviewer %s joined feed for instrument %s", conn.ReviewerID, conn.InstrumentID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.reviewerConns[conn.InstrumentID]; ok {
				if existing, ok := conns[conn.ReviewerID]; ok && existing == conn {
					delete(conns, conn.ReviewerID)
					close(conn.Send)
					log.Printf("Reviewer %s left feed for instrument %s", conn.ReviewerID, conn.InstrumentID)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			for _, conn := range h.reviewerConns[msg.InstrumentID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToReviewers sends a message to every reviewer watching an
// instrument (implements service.Broadcaster)
func (h *Hub) BroadcastToReviewers(instrumentID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		InstrumentID: instrumentID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}
