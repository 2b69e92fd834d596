package wcs

import (
	"fmt"

	"github.com/whttlr/jogcore/position"
)

// OpKind tags an Operation.
type OpKind string

// Operation kinds accepted by Execute.
const (
	OpSetActive   OpKind = "set-active"
	OpSetOffset   OpKind = "set-offset"
	OpZeroCurrent OpKind = "zero-current"
	OpCopyOffset  OpKind = "copy-offset"
	OpReset       OpKind = "reset"
)

// Operation is a tagged-union command. Which payload fields are required
// depends on Kind:
//
//	set-active:   System
//	set-offset:   System, Offset
//	zero-current: Machine
//	copy-offset:  From, To
//	reset:        System (empty = reset all)
type Operation struct {
	Kind    OpKind             `json:"kind"`
	System  System             `json:"system,omitempty"`
	From    System             `json:"from,omitempty"`
	To      System             `json:"to,omitempty"`
	Offset  *position.Position `json:"offset,omitempty"`
	Machine *position.Position `json:"machine,omitempty"`
}

// Execute dispatches op against the manager. Missing payload fields and
// unrecognized kinds are rejected before any state changes.
func (m *Manager) Execute(op Operation) error {
	switch op.Kind {
	case OpSetActive:
		if op.System == "" {
			return fmt.Errorf("%w: set-active requires system", ErrMissingPayload)
		}
		return m.SetActive(op.System)
	case OpSetOffset:
		if op.System == "" {
			return fmt.Errorf("%w: set-offset requires system", ErrMissingPayload)
		}
		if op.Offset == nil {
			return fmt.Errorf("%w: set-offset requires offset", ErrMissingPayload)
		}
		return m.SetOffset(op.System, *op.Offset)
	case OpZeroCurrent:
		if op.Machine == nil {
			return fmt.Errorf("%w: zero-current requires machine position", ErrMissingPayload)
		}
		return m.ZeroActive(*op.Machine)
	case OpCopyOffset:
		if op.From == "" || op.To == "" {
			return fmt.Errorf("%w: copy-offset requires from and to", ErrMissingPayload)
		}
		return m.CopyOffset(op.From, op.To)
	case OpReset:
		if op.System == "" {
			m.ResetAll()
			return nil
		}
		return m.Reset(op.System)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, op.Kind)
	}
}
