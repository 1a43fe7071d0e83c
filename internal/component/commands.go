package component

import (
	"fmt"

	"github.com/broncoore/fsw/internal/command"
	"github.com/broncoore/fsw/internal/logic"
	"github.com/broncoore/fsw/internal/param"
	"github.com/broncoore/fsw/internal/telem"
)

// HandleCommand routes a ground command addressed to this component.
func (c *Component) HandleCommand(req command.Request) command.Response {
	switch req.Opcode {
	case OpBlinkingOnOff:
		return c.HandleEnableCommand(req)
	default:
		c.log.WithField("opcode", req.Opcode).Warn("command: unknown opcode")
		return req.Respond(command.InvalidOpcode)
	}
}

// HandleEnableCommand turns blinking on or off.
// The first argument must decode to ON or OFF; otherwise the command is
// rejected and the toggler left untouched.
func (c *Component) HandleEnableCommand(req command.Request) command.Response {
	now := c.cfg.Now()
	raw, _ := req.Arg(0)
	state, ok := logic.ParseState(raw)
	if !ok {
		c.event(now, telem.WarningLo, EvInvalidBlinkArgument, fmt.Sprintf("invalid blink argument %q", raw))
		return req.Respond(command.ValidationError)
	}

	c.toggler.SetEnabled(state == logic.StateOn)
	c.event(now, telem.ActivityHi, EvSetBlinkingState, fmt.Sprintf("blinking set to %s", state))
	c.telemetry(now, c.cfg.StateChannel, string(state))
	return req.Respond(command.OK)
}

// HandleParameterChange reports a confirmed update of the interval
// parameter. The new value takes effect on the next tick.
func (c *Component) HandleParameterChange(id param.ID) {
	if id != c.cfg.IntervalParam {
		return
	}
	v, validity := c.params.Get(id)
	if validity != param.Valid {
		c.log.WithField("validity", validity).Warn("param: interval updated but not valid")
		return
	}
	c.event(c.cfg.Now(), telem.ActivityHi, EvBlinkIntervalSet, fmt.Sprintf("blink interval set to %d", v))
}
