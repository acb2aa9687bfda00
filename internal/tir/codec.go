package tir

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/cla7aye15I4nd/TypePython/internal/source"
)

// Program files written by the driver are msgpack; Expr and Stmt travel
// as [kind, header, payload] so payloads decode into their concrete types.

func (e *Expr) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(3); err != nil {
		return err
	}
	if err := enc.EncodeUint8(uint8(e.Kind)); err != nil {
		return err
	}
	if err := enc.Encode(e.Type); err != nil {
		return err
	}
	return enc.Encode(e.Data)
}

func (e *Expr) DecodeMsgpack(dec *msgpack.Decoder) error {
	kind, err := decodeKind(dec)
	if err != nil {
		return err
	}
	var t Type
	if err := dec.Decode(&t); err != nil {
		return err
	}
	data := newExprData(ExprKind(kind))
	if data == nil {
		return fmt.Errorf("tir: unknown expression kind %d", kind)
	}
	if err := dec.Decode(data); err != nil {
		return fmt.Errorf("tir: %s payload: %w", ExprKind(kind), err)
	}
	e.Kind, e.Type, e.Data = ExprKind(kind), t, data
	return nil
}

func (s *Stmt) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(3); err != nil {
		return err
	}
	if err := enc.EncodeUint8(uint8(s.Kind)); err != nil {
		return err
	}
	if err := enc.Encode(s.Span); err != nil {
		return err
	}
	return enc.Encode(s.Data)
}

func (s *Stmt) DecodeMsgpack(dec *msgpack.Decoder) error {
	kind, err := decodeKind(dec)
	if err != nil {
		return err
	}
	var span source.Span
	if err := dec.Decode(&span); err != nil {
		return err
	}
	data := newStmtData(StmtKind(kind))
	if data == nil {
		return fmt.Errorf("tir: unknown statement kind %d", kind)
	}
	if err := dec.Decode(data); err != nil {
		return fmt.Errorf("tir: %s payload: %w", StmtKind(kind), err)
	}
	s.Kind, s.Span, s.Data = StmtKind(kind), span, data
	return nil
}

func decodeKind(dec *msgpack.Decoder) (uint8, error) {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return 0, err
	}
	if n != 3 {
		return 0, fmt.Errorf("tir: node must be a 3-element array, got %d", n)
	}
	return dec.DecodeUint8()
}

// Encode serializes a program.
func Encode(p *Program) ([]byte, error) {
	return msgpack.Marshal(p)
}

// Decode deserializes a program produced by Encode.
func Decode(data []byte) (*Program, error) {
	var p Program
	if err := msgpack.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
