package api

import (
	"encoding/json"

	"github.com/nexushub/nexushub/common"
	"github.com/nexushub/nexushub/internal/server"
)

// attachHandler subscribes the connection to pushed updates. Attached
// clients receive items_updated frames after every successful poll
// until they disconnect.
func (s *Api) attachHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	pool.Attach(sconn)
	return common.UPDATE_ATTACH, nil, nil
}
