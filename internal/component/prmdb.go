package component

import (
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/broncoore/fsw/internal/command"
	"github.com/broncoore/fsw/internal/param"
)

// Parameter database opcodes.
const (
	OpPrmSet  = "PRM_SET"
	OpPrmSave = "PRM_SAVE"
)

// ParamDB exposes the parameter store to ground commands.
//
//	PRM_SET <name> <value>  validate and store; owners are notified
//	PRM_SAVE                write valid values to Path
type ParamDB struct {
	Store *param.Store
	Path  string
	Log   logrus.FieldLogger
}

func (p *ParamDB) logger() logrus.FieldLogger {
	if p.Log == nil {
		return logrus.StandardLogger()
	}
	return p.Log
}

// HandleCommand implements command.Handler.
func (p *ParamDB) HandleCommand(req command.Request) command.Response {
	switch req.Opcode {
	case OpPrmSet:
		name, ok1 := req.Arg(0)
		raw, ok2 := req.Arg(1)
		if !ok1 || !ok2 {
			return req.Respond(command.FormatError)
		}
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			p.logger().WithField("param", name).Warnf("param: bad value %q", raw)
			return req.Respond(command.ValidationError)
		}
		if err := p.Store.Set(name, uint32(v)); err != nil {
			p.logger().WithError(err).Warn("param: set rejected")
			return req.Respond(command.ValidationError)
		}
		return req.Respond(command.OK)

	case OpPrmSave:
		if p.Path == "" {
			p.logger().Warn("param: no parameter file configured")
			return req.Respond(command.ExecutionError)
		}
		if err := p.Store.Save(p.Path); err != nil {
			p.logger().WithError(err).Error("param: save failed")
			return req.Respond(command.ExecutionError)
		}
		p.logger().WithField("path", p.Path).Info("param: saved")
		return req.Respond(command.OK)

	default:
		return req.Respond(command.InvalidOpcode)
	}
}
