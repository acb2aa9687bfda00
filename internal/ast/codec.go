package ast

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/cla7aye15I4nd/TypePython/internal/source"
)

// Expr and Stmt travel as [kind, span, payload] so the payload can be
// decoded into the concrete type selected by kind.

var (
	_ msgpack.CustomEncoder = (*Expr)(nil)
	_ msgpack.CustomDecoder = (*Expr)(nil)
	_ msgpack.CustomEncoder = (*Stmt)(nil)
	_ msgpack.CustomDecoder = (*Stmt)(nil)
)

func (e *Expr) EncodeMsgpack(enc *msgpack.Encoder) error {
	return encodeNode(enc, uint8(e.Kind), e.Span, e.Data)
}

func (e *Expr) DecodeMsgpack(dec *msgpack.Decoder) error {
	kind, span, err := decodeHeader(dec)
	if err != nil {
		return err
	}
	data := newExprData(ExprKind(kind))
	if data == nil {
		return fmt.Errorf("ast: unknown expression kind %d", kind)
	}
	if err := dec.Decode(data); err != nil {
		return fmt.Errorf("ast: %s payload: %w", ExprKind(kind), err)
	}
	e.Kind, e.Span, e.Data = ExprKind(kind), span, data
	return nil
}

func (s *Stmt) EncodeMsgpack(enc *msgpack.Encoder) error {
	return encodeNode(enc, uint8(s.Kind), s.Span, s.Data)
}

func (s *Stmt) DecodeMsgpack(dec *msgpack.Decoder) error {
	kind, span, err := decodeHeader(dec)
	if err != nil {
		return err
	}
	data := newStmtData(StmtKind(kind))
	if data == nil {
		return fmt.Errorf("ast: unknown statement kind %d", kind)
	}
	if err := dec.Decode(data); err != nil {
		return fmt.Errorf("ast: %s payload: %w", StmtKind(kind), err)
	}
	s.Kind, s.Span, s.Data = StmtKind(kind), span, data
	return nil
}

func encodeNode(enc *msgpack.Encoder, kind uint8, span source.Span, data any) error {
	if err := enc.EncodeArrayLen(3); err != nil {
		return err
	}
	if err := enc.EncodeUint8(kind); err != nil {
		return err
	}
	if err := enc.Encode(span); err != nil {
		return err
	}
	return enc.Encode(data)
}

func decodeHeader(dec *msgpack.Decoder) (uint8, source.Span, error) {
	var span source.Span
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return 0, span, err
	}
	if n != 3 {
		return 0, span, fmt.Errorf("ast: node must be a 3-element array, got %d", n)
	}
	kind, err := dec.DecodeUint8()
	if err != nil {
		return 0, span, err
	}
	if err := dec.Decode(&span); err != nil {
		return 0, span, err
	}
	return kind, span, nil
}

// Marshal encodes a module tree.
func Marshal(m *Module) ([]byte, error) {
	return msgpack.Marshal(m)
}

// Unmarshal decodes a module tree and normalizes its identifiers.
func Unmarshal(data []byte) (*Module, error) {
	var m Module
	if err := msgpack.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	Normalize(&m)
	return &m, nil
}
