package api

import (
	"encoding/json"

	"github.com/nexushub/nexushub/common"
	"github.com/nexushub/nexushub/internal/server"
)

// versionHandler returns the daemon's version, set when the daemon
// was started.
func (s *Api) versionHandler(sconn *server.SyncConn, pool *server.Pool, body json.RawMessage) (common.UpdateType, any, error) {
	return common.UPDATE_VERSION, &common.VersionResponse{
		Version: s.version,
	}, nil
}
