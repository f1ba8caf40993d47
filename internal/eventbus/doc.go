// Package eventbus carries the two signals a properties panel exchanges with
// its host: replacing the global validation errors and revealing an entry.
//
//	bus := eventbus.New()
//	bus.Fire(eventbus.SetErrorsEvent, eventbus.SetErrors{
//	    Errors: map[string]string{"server.port": "Port must be between 1 and 65535"},
//	})
//
// Bus is an interface so hosts can bridge the panel onto their own event
// system. EventBus is the in-process implementation used by smartap-inspect.
package eventbus
