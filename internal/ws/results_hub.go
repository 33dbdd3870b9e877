package ws

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 256
)

// TallyEntry is one ranked row of the live results feed.
type TallyEntry struct {
	CandidateID uint    `json:"candidate_id"`
	Name        string  `json:"name"`
	ViceName    string  `json:"vice_name"`
	Votes       int     `json:"votes"`
	Percentage  float64 `json:"percentage"`
}

// TallyPayload is pushed to admin dashboards after every recorded vote.
type TallyPayload struct {
	TotalVotes int          `json:"total_votes"`
	Results    []TallyEntry `json:"results"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// ResultsHub handles websocket clients listening for tally updates.
type ResultsHub struct {
	register   chan *resultsClient
	unregister chan *resultsClient
	broadcast  chan []byte
	clients    map[*resultsClient]struct{}
}

func NewResultsHub() *ResultsHub {
	return &ResultsHub{
		register:   make(chan *resultsClient),
		unregister: make(chan *resultsClient),
		broadcast:  make(chan []byte, 256),
		clients:    make(map[*resultsClient]struct{}),
	}
}

func (h *ResultsHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				client.conn.Close()
			}
		case msg := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					delete(h.clients, client)
					close(client.send)
					client.conn.Close()
				}
			}
		}
	}
}

// Broadcast pushes a fresh tally to every connected dashboard.
func (h *ResultsHub) Broadcast(payload TallyPayload) {
	if h == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ws: failed to marshal tally: %v", err)
		return
	}
	h.broadcast <- data
}

type resultsClient struct {
	hub  *ResultsHub
	conn *websocket.Conn
	send chan []byte
}

func newResultsClient(hub *ResultsHub, conn *websocket.Conn) *resultsClient {
	return &resultsClient{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

func (c *resultsClient) readPump() {
	defer func() {
		c.hub.unregister <- c
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *resultsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			if _, err := w.Write(msg); err != nil {
				return
			}
			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
