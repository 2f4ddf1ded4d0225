package hubcli

import (
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/nexushub/nexushub/common"
	"github.com/nexushub/nexushub/pkg/nexuslib"
)

// serveOne reads a single framed request from conn and answers it.
func serveOne(t *testing.T, conn net.Conn, handle func(*Request) *Response) {
	t.Helper()
	go func() {
		buf, err := read(conn)
		if err != nil {
			return
		}
		var req Request
		if err := json.Unmarshal(buf, &req); err != nil {
			return
		}
		b, err := json.Marshal(handle(&req))
		if err != nil {
			return
		}
		_ = write(conn, b)
	}()
}

func TestFrameRoundTrip(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	payload := []byte(`{"method":"get_items"}`)
	go func() { _ = write(server, payload) }()
	got, err := read(client)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("got %q, want %q", got, payload)
	}
}

func TestGetItems(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	c := NewClientForTesting(clientConn)
	defer c.Close()
	defer serverConn.Close()

	serveOne(t, serverConn, func(req *Request) *Response {
		if req.Method != common.UPDATE_GET_ITEMS {
			t.Errorf("method = %q", req.Method)
		}
		msg, _ := json.Marshal(&common.GetItemsResponse{
			Items: []*nexuslib.Item{{Id: "i1", Source: "github", Title: "Fix login"}},
		})
		return &Response{Ok: true, Update: &Update{Type: common.UPDATE_GET_ITEMS, Message: msg}}
	})

	res, err := c.GetItems(nil)
	if err != nil {
		t.Fatalf("GetItems: %v", err)
	}
	if len(res.Items) != 1 || res.Items[0].Id != "i1" {
		t.Errorf("items = %+v", res.Items)
	}
}

func TestInvokeErrorResponse(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	c := NewClientForTesting(clientConn)
	defer c.Close()
	defer serverConn.Close()

	serveOne(t, serverConn, func(req *Request) *Response {
		return &Response{Ok: false, Error: "item not found"}
	})

	err := c.MarkRead("nope", true)
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "item not found" {
		t.Errorf("error = %q", err)
	}
}

func TestRefreshPlugin(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	c := NewClientForTesting(clientConn)
	defer c.Close()
	defer serverConn.Close()

	serveOne(t, serverConn, func(req *Request) *Response {
		if req.Method != common.UPDATE_REFRESH_PLUGIN {
			t.Errorf("method = %q", req.Method)
		}
		m, ok := req.Message.(map[string]any)
		if !ok || m["plugin_id"] != "github" {
			t.Errorf("message = %+v", req.Message)
		}
		msg, _ := json.Marshal(&common.RefreshPluginResponse{PluginId: "github", ItemCount: 3})
		return &Response{Ok: true, Update: &Update{Type: common.UPDATE_REFRESH_PLUGIN, Message: msg}}
	})

	res, err := c.RefreshPlugin("github")
	if err != nil {
		t.Fatalf("RefreshPlugin: %v", err)
	}
	if res.ItemCount != 3 {
		t.Errorf("item count = %d, want 3", res.ItemCount)
	}
}

func TestListenDispatchesItemsUpdated(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	c := NewClientForTesting(clientConn)
	defer serverConn.Close()

	var got string
	c.Dispatcher().AddHandler(common.UPDATE_ITEMS_UPDATED, NewItemsUpdatedHandler("", func(v *common.ItemsUpdatedResponse) error {
		got = v.PluginId
		return ErrDisconnect
	}))

	go func() {
		msg, _ := json.Marshal(&common.ItemsUpdatedResponse{PluginId: "github"})
		b, _ := json.Marshal(&Response{Ok: true, Update: &Update{Type: common.UPDATE_ITEMS_UPDATED, Message: msg}})
		_ = write(serverConn, b)
	}()

	done := make(chan error, 1)
	go func() { done <- c.Listen() }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Listen: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Listen did not return")
	}
	if got != "github" {
		t.Errorf("plugin id = %q", got)
	}
}

func TestItemsUpdatedHandlerFilter(t *testing.T) {
	var calls []string
	h := NewItemsUpdatedHandler("github", func(v *common.ItemsUpdatedResponse) error {
		calls = append(calls, v.PluginId)
		return nil
	})

	for _, id := range []string{"jira", "github"} {
		msg, _ := json.Marshal(&common.ItemsUpdatedResponse{PluginId: id})
		if err := h.Handle(msg); err != nil {
			t.Fatal(err)
		}
	}
	if len(calls) != 1 || calls[0] != "github" {
		t.Errorf("calls = %v, want [github]", calls)
	}
}
