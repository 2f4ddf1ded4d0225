package hubcli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nexushub/nexushub/common"
)

// ErrDisconnect signals Listen to stop cleanly.
var ErrDisconnect = errors.New("disconnect")

// Dispatcher routes pushed updates to registered handlers by type.
type Dispatcher struct {
	Handlers map[common.UpdateType]Handler
}

// AddHandler registers a handler for the given update type, replacing
// any previous one.
func (d *Dispatcher) AddHandler(utype common.UpdateType, h Handler) {
	d.Handlers[utype] = h
}

func (d *Dispatcher) process(buf []byte) error {
	var res Response
	if err := json.Unmarshal(buf, &res); err != nil {
		return fmt.Errorf("failed to parse (%s): '%s'", err.Error(), string(buf))
	}
	if !res.Ok {
		return errors.New(res.Error)
	}
	if res.Update == nil {
		return nil
	}
	if h, ok := d.Handlers[res.Update.Type]; ok {
		return h.Handle(res.Update.Message)
	}
	return nil
}
