package api

import (
	"log"

	"github.com/nexushub/nexushub/common"
	"github.com/nexushub/nexushub/internal/server"
	"github.com/nexushub/nexushub/pkg/nexuslib"
)

// Api binds the daemon's command surface onto the socket server. Each
// handler unwraps the request message, performs the operation against
// the store or the poller, and returns a typed response.
type Api struct {
	log     *log.Logger
	store   *nexuslib.DB
	poller  server.Refresher
	sealer  server.Sealer
	version string
}

func NewApi(l *log.Logger, store *nexuslib.DB, poller server.Refresher, sealer server.Sealer, version string) (*Api, error) {
	return &Api{
		log:     l,
		store:   store,
		poller:  poller,
		sealer:  sealer,
		version: version,
	}, nil
}

func (s *Api) RegisterHandlers(server *server.Server) {
	// item API methods
	server.RegisterHandler(common.UPDATE_GET_ITEMS, s.getItemsHandler)
	server.RegisterHandler(common.UPDATE_MARK_READ, s.markReadHandler)

	// notification API methods
	server.RegisterHandler(common.UPDATE_GET_NOTIFS, s.getNotificationsHandler)
	server.RegisterHandler(common.UPDATE_DISMISS_NOTIF, s.dismissNotificationHandler)
	server.RegisterHandler(common.UPDATE_DISMISS_ALL, s.dismissAllHandler)

	// setting API methods
	server.RegisterHandler(common.UPDATE_GET_SETTING, s.getSettingHandler)
	server.RegisterHandler(common.UPDATE_SET_SETTING, s.setSettingHandler)

	// plugin API methods
	server.RegisterHandler(common.UPDATE_GET_PLUGIN, s.getPluginHandler)
	server.RegisterHandler(common.UPDATE_SAVE_PLUGIN, s.savePluginHandler)
	server.RegisterHandler(common.UPDATE_LIST_PLUGINS, s.listPluginsHandler)
	server.RegisterHandler(common.UPDATE_REFRESH_PLUGIN, s.refreshPluginHandler)
	server.RegisterHandler(common.UPDATE_VALIDATE_PLUGIN, s.validatePluginHandler)

	// client session methods
	server.RegisterHandler(common.UPDATE_ATTACH, s.attachHandler)
	server.RegisterHandler(common.UPDATE_VERSION, s.versionHandler)
}

func (s *Api) Close() error {
	return s.store.Close()
}
