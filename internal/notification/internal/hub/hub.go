// Copyright 2023 ecodeclub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hub

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/gotomicro/ego/core/elog"
)

const broadcastBufferSize = 256

var ErrHubClosed = errors.New("消息中心已关闭")

type envelope struct {
	rooms []string
	data  []byte
}

// Hub 按房间分发消息。房间与客户端的关系只在 Run 所在的 goroutine 里修改
type Hub struct {
	clients map[*Client]struct{}
	rooms   map[string]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	broadcast  chan envelope
	done       chan struct{}

	upgrader websocket.Upgrader
	count    atomic.Int64
	logger   *elog.Component
}

// NewHub allowedOrigins 为空时不校验 Origin
func NewHub(allowedOrigins []string) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		rooms:      make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan envelope, broadcastBufferSize),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowedOrigins) == 0 {
					return true
				}
				return slices.Contains(allowedOrigins, r.Header.Get("Origin"))
			},
		},
		logger: elog.DefaultLogger,
	}
}

// Run 阻塞直到 ctx 结束，退出时断开所有客户端
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		for c := range h.clients {
			h.remove(c)
		}
		close(h.done)
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.add(c)
		case c := <-h.unregister:
			h.remove(c)
		case env := <-h.broadcast:
			h.deliver(env)
		}
	}
}

func (h *Hub) add(c *Client) {
	h.clients[c] = struct{}{}
	for _, room := range c.rooms {
		members, ok := h.rooms[room]
		if !ok {
			members = make(map[*Client]struct{})
			h.rooms[room] = members
		}
		members[c] = struct{}{}
	}
	h.count.Add(1)
}

func (h *Hub) remove(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	for _, room := range c.rooms {
		members := h.rooms[room]
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	close(c.send)
	h.count.Add(-1)
}

func (h *Hub) deliver(env envelope) {
	// 同一个客户端可能同时在多个目标房间里
	sent := make(map[*Client]struct{})
	for _, room := range env.rooms {
		for c := range h.rooms[room] {
			if _, ok := sent[c]; ok {
				continue
			}
			sent[c] = struct{}{}
			select {
			case c.send <- env.data:
			default:
				h.logger.Warn("客户端消费过慢，断开连接",
					elog.String("clientID", c.id),
					elog.Int64("uid", c.uid))
				h.remove(c)
			}
		}
	}
}

// Publish 不阻塞，缓冲区满时丢弃消息并返回 false
func (h *Hub) Publish(data []byte, rooms ...string) bool {
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.broadcast <- envelope{rooms: rooms, data: data}:
		return true
	default:
		return false
	}
}

// ServeWS 把 HTTP 连接升级为 websocket 并加入 rooms
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, uid int64, rooms []string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &Client{
		id:    uuid.NewString(),
		uid:   uid,
		rooms: rooms,
		conn:  conn,
		send:  make(chan []byte, sendBufferSize),
	}
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return ErrHubClosed
	}
	go c.writePump()
	go c.readPump(h)
	return nil
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) ClientCount() int64 {
	return h.count.Load()
}
