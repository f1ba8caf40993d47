package inspector

import (
	"github.com/muurk/smartap-inspector/internal/deviceconfig"
	"github.com/muurk/smartap-inspector/internal/discovery"
	"github.com/muurk/smartap-inspector/internal/errfeed"
)

// Messages for async operations
type targetLoadedMsg struct {
	target *Target
	config *deviceconfig.DeviceConfig
	err    error
}

type deviceFoundMsg struct {
	device *discovery.Device
}

type scanDoneMsg struct {
	devices []*discovery.Device
	err     error
}

type applyDoneMsg struct {
	target *Target
	err    error
}

// SignalMsg carries an error feed signal into the update loop, where it
// is fired on the panel's bus.
type SignalMsg struct {
	Signal errfeed.Signal
}
