package command

import (
	"sort"

	"github.com/sirupsen/logrus"
)

// Handler executes commands for one component.
// It must return exactly one response per request.
type Handler interface {
	HandleCommand(req Request) Response
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(req Request) Response

func (f HandlerFunc) HandleCommand(req Request) Response { return f(req) }

// Dispatcher routes requests to handlers by component name.
// It is not safe for concurrent use; it runs on the component executor.
type Dispatcher struct {
	handlers map[string]Handler
	log      logrus.FieldLogger
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(log logrus.FieldLogger) *Dispatcher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Dispatcher{
		handlers: make(map[string]Handler),
		log:      log,
	}
}

// Register adds h under name, replacing any previous handler.
func (d *Dispatcher) Register(name string, h Handler) {
	d.handlers[name] = h
}

// Components returns the registered component names in sorted order.
func (d *Dispatcher) Components() []string {
	names := make([]string, 0, len(d.handlers))
	for n := range d.handlers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs req and returns its response.
func (d *Dispatcher) Dispatch(req Request) Response {
	h, ok := d.handlers[req.Component]
	if !ok {
		d.log.WithFields(logrus.Fields{
			"component": req.Component,
			"opcode":    req.Opcode,
		}).Warn("command: unknown component")
		return req.Respond(InvalidOpcode)
	}
	resp := h.HandleCommand(req)
	d.log.WithFields(logrus.Fields{
		"component": req.Component,
		"opcode":    req.Opcode,
		"seq":       req.Seq,
		"status":    resp.Status,
	}).Debug("command: completed")
	return resp
}
