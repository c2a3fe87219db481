// SPDX-License-Identifier: MIT

package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ctmc/internal/api"
)

func dialStream(t *testing.T, s *api.Server, header http.Header) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/stream"

	return websocket.DefaultDialer.Dial(url, header)
}

func readAll(t *testing.T, ws *websocket.Conn) []api.StreamMessage {
	t.Helper()
	var out []api.StreamMessage
	_ = ws.SetReadDeadline(time.Now().Add(10 * time.Second))
	for {
		var m api.StreamMessage
		if err := ws.ReadJSON(&m); err != nil {
			return out
		}
		out = append(out, m)
	}
}

func TestStream(t *testing.T) {
	s, _ := newServer(t, testConfig())
	ws, _, err := dialStream(t, s, nil)
	require.NoError(t, err)
	defer ws.Close()

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(scenarioBody)))
	msgs := readAll(t, ws)

	require.Len(t, msgs, 4, "meta, two batches, done")
	assert.Equal(t, api.MessageMeta, msgs[0].Type)
	assert.Equal(t, 4, msgs[0].States)
	assert.Equal(t, 2, msgs[0].Batches)
	assert.Len(t, msgs[0].Times, 50)
	require.NotNil(t, msgs[0].Graph)

	for i, m := range msgs[1:3] {
		assert.Equal(t, api.MessageBatch, m.Type)
		require.NotNil(t, m.Batch)
		assert.Equal(t, i, m.Batch.Index)
		assert.Equal(t, msgs[0].RunID, m.RunID)
	}
	assert.Len(t, msgs[1].Batch.Series, 3)
	assert.Equal(t, api.MessageDone, msgs[3].Type)
	assert.Positive(t, msgs[3].Elapsed)
}

func TestStreamError(t *testing.T) {
	s, _ := newServer(t, testConfig())
	ws, _, err := dialStream(t, s, nil)
	require.NoError(t, err)
	defer ws.Close()

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(`{"components":2,"lambda":[1],"mu":[1,1]}`)))
	msgs := readAll(t, ws)

	require.Len(t, msgs, 1)
	assert.Equal(t, api.MessageError, msgs[0].Type)
	require.NotNil(t, msgs[0].Error)
	assert.Equal(t, http.StatusBadRequest, msgs[0].Error.Code)
	assert.Equal(t, "lambda", msgs[0].Error.Param)
}

func TestStreamRejectsBadMessage(t *testing.T) {
	s, _ := newServer(t, testConfig())
	ws, _, err := dialStream(t, s, nil)
	require.NoError(t, err)
	defer ws.Close()

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(`not json`)))
	msgs := readAll(t, ws)
	require.Len(t, msgs, 1)
	assert.Equal(t, api.MessageError, msgs[0].Type)
}

func TestStreamOrigin(t *testing.T) {
	cfg := testConfig()
	cfg.Security.AllowedOrigins = []string{"http://ui.example"}
	s, _ := newServer(t, cfg)

	_, resp, err := dialStream(t, s, http.Header{"Origin": []string{"http://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
