// Package command defines ground commands, their completion responses and
// the dispatcher that routes them to components.
package command

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Status is a command completion code.
// It is a string newtype and implements error so handlers can return it.
type Status string

func (s Status) Error() string { return string(s) }

const (
	OK              Status = "OK"
	InvalidOpcode   Status = "INVALID_OPCODE"
	ValidationError Status = "VALIDATION_ERROR"
	FormatError     Status = "FORMAT_ERROR"
	ExecutionError  Status = "EXECUTION_ERROR"
	Busy            Status = "BUSY"
)

// Request is a single command addressed to a component.
type Request struct {
	Component string   `json:"component"`
	Opcode    string   `json:"opcode"`
	Seq       uint32   `json:"seq"`
	Args      []string `json:"args,omitempty"`
}

// Arg returns argument i, or "" and false if absent.
func (r Request) Arg(i int) (string, bool) {
	if i < 0 || i >= len(r.Args) {
		return "", false
	}
	return r.Args[i], true
}

// Response is the single completion for a Request.
type Response struct {
	Component string `json:"component"`
	Opcode    string `json:"opcode"`
	Seq       uint32 `json:"seq"`
	Status    Status `json:"status"`
}

// Respond builds the response to r with the given status.
func (r Request) Respond(s Status) Response {
	return Response{
		Component: r.Component,
		Opcode:    r.Opcode,
		Seq:       r.Seq,
		Status:    s,
	}
}

// wireRequest is a Request as received: arguments may be JSON strings,
// numbers or booleans.
type wireRequest struct {
	Component string            `json:"component"`
	Opcode    string            `json:"opcode"`
	Seq       uint32            `json:"seq"`
	Args      []json.RawMessage `json:"args,omitempty"`
}

// Decode parses a JSON request. Scalar arguments are converted to their
// string form, so 1 and "1" decode alike. On error the returned Request
// holds whatever addressing fields could be recovered so a FORMAT_ERROR
// response can still be sent.
func Decode(data []byte) (Request, error) {
	var w wireRequest
	if err := json.Unmarshal(data, &w); err != nil {
		var partial struct {
			Component string `json:"component"`
			Opcode    string `json:"opcode"`
			Seq       uint32 `json:"seq"`
		}
		json.Unmarshal(data, &partial)
		return Request{Component: partial.Component, Opcode: partial.Opcode, Seq: partial.Seq},
			fmt.Errorf("decode command: %w", err)
	}
	req := Request{Component: w.Component, Opcode: w.Opcode, Seq: w.Seq}
	if req.Component == "" || req.Opcode == "" {
		return req, fmt.Errorf("decode command: missing component or opcode")
	}
	for i, raw := range w.Args {
		arg, err := scalarArg(raw)
		if err != nil {
			return req, fmt.Errorf("decode command: arg %d: %w", i, err)
		}
		req.Args = append(req.Args, arg)
	}
	return req, nil
}

func scalarArg(raw json.RawMessage) (string, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", err
	}
	switch v := v.(type) {
	case string:
		return v, nil
	case float64, bool:
		return string(bytes.TrimSpace(raw)), nil
	default:
		return "", fmt.Errorf("not a scalar: %s", raw)
	}
}

// Encode formats a response as JSON.
func Encode(resp Response) ([]byte, error) {
	return json.Marshal(resp)
}
