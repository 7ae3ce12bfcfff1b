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
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// elog 的异步写日志协程是全局的，不属于 Hub
func leakOptions() []goleak.Option {
	return []goleak.Option{
		goleak.IgnoreCurrent(),
		goleak.IgnoreTopFunction("github.com/gotomicro/ego/core/elog.bufferWriteSyncer.func2"),
	}
}

type testEnv struct {
	hub     *Hub
	server  *httptest.Server
	cancel  context.CancelFunc
	stopped chan struct{}
	errs    chan error
}

func newTestEnv(t *testing.T) *testEnv {
	ctx, cancel := context.WithCancel(context.Background())
	env := &testEnv{
		hub:     NewHub(nil),
		cancel:  cancel,
		stopped: make(chan struct{}),
		errs:    make(chan error, 8),
	}
	go func() {
		env.hub.Run(ctx)
		close(env.stopped)
	}()
	env.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, _ := strconv.ParseInt(r.URL.Query().Get("uid"), 10, 64)
		if err := env.hub.ServeWS(w, r, uid, r.URL.Query()["room"]); err != nil {
			env.errs <- err
		}
	}))
	return env
}

func (e *testEnv) dial(t *testing.T, uid int64, rooms ...string) *websocket.Conn {
	u := "ws" + strings.TrimPrefix(e.server.URL, "http") + "/?uid=" + strconv.FormatInt(uid, 10)
	for _, r := range rooms {
		u += "&room=" + r
	}
	conn, resp, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	return conn
}

func (e *testEnv) stop() {
	e.cancel()
	<-e.stopped
	e.server.Close()
}

func readText(t *testing.T, conn *websocket.Conn) string {
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	typ, data, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, websocket.TextMessage, typ)
	return string(data)
}

func TestHub_Publish(t *testing.T) {
	defer goleak.VerifyNone(t, leakOptions()...)
	env := newTestEnv(t)

	buyer := env.dial(t, 1, "user:1")
	vendor := env.dial(t, 7, "vendor:7")
	// 同时在两个房间里的客户端只收到一次
	admin := env.dial(t, 99, "admin", "vendor:7")
	require.Eventually(t, func() bool {
		return env.hub.ClientCount() == 3
	}, time.Second, 10*time.Millisecond)

	require.True(t, env.hub.Publish([]byte(`order-1`), "user:1", "vendor:7", "admin"))
	assert.Equal(t, "order-1", readText(t, buyer))
	assert.Equal(t, "order-1", readText(t, vendor))
	assert.Equal(t, "order-1", readText(t, admin))

	require.True(t, env.hub.Publish([]byte(`stock-7`), "vendor:7"))
	require.True(t, env.hub.Publish([]byte(`order-2`), "user:1"))
	assert.Equal(t, "stock-7", readText(t, vendor))
	assert.Equal(t, "stock-7", readText(t, admin))
	// 买家只能收到自己房间的消息
	assert.Equal(t, "order-2", readText(t, buyer))

	// 客户端断开后从房间里移除
	require.NoError(t, buyer.Close())
	require.Eventually(t, func() bool {
		return env.hub.ClientCount() == 2
	}, time.Second, 10*time.Millisecond)

	// 停止后服务端主动关闭剩余连接
	env.stop()
	for _, conn := range []*websocket.Conn{vendor, admin} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
		_, _, err := conn.ReadMessage()
		assert.True(t, websocket.IsCloseError(err, websocket.CloseNoStatusReceived), "err: %v", err)
		_ = conn.Close()
	}
	assert.Equal(t, int64(0), env.hub.ClientCount())
	assert.False(t, env.hub.Publish([]byte(`late`), "admin"))
}

func TestHub_ServeWSAfterStop(t *testing.T) {
	defer goleak.VerifyNone(t, leakOptions()...)
	env := newTestEnv(t)
	env.cancel()
	<-env.stopped

	conn := env.dial(t, 1, "user:1")
	select {
	case err := <-env.errs:
		assert.ErrorIs(t, err, ErrHubClosed)
	case <-time.After(time.Second):
		t.Fatal("没有拒绝连接")
	}
	_ = conn.Close()
	env.server.Close()
}

func TestHub_CheckOrigin(t *testing.T) {
	h := NewHub([]string{"https://webmall.com"})
	req := httptest.NewRequest(http.MethodGet, "/notification/ws", nil)
	req.Header.Set("Origin", "https://webmall.com")
	assert.True(t, h.upgrader.CheckOrigin(req))
	req.Header.Set("Origin", "https://evil.com")
	assert.False(t, h.upgrader.CheckOrigin(req))
	assert.True(t, NewHub(nil).upgrader.CheckOrigin(req))
}
