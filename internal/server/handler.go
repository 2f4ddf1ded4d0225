package server

import (
	"encoding/json"

	"github.com/nexushub/nexushub/common"
)

// HandlerFunc is the signature of command handlers. It receives the
// requesting connection, the attached-client pool, and the raw JSON
// message body, and returns the update type and payload of the
// response.
type HandlerFunc func(
	conn *SyncConn,
	pool *Pool,
	body json.RawMessage,
) (
	common.UpdateType,
	any,
	error,
)
