// Package tir defines the typed intermediate representation handed to code
// generation: dense handle types, resolved types, statements, expressions and
// the assembled Program.
//
// Nothing in this package can hold an inference variable. Values are built
// exclusively by internal/resolve from the unresolved IR in internal/uir.
package tir

import (
	"fmt"
	"math"

	"fortio.org/safecast"
)

// ModuleID identifies a module of the program.
type ModuleID uint32

// ClassID identifies a class (user-defined or built-in specialization).
type ClassID uint32

// FuncID identifies a function, method or runtime-provided routine.
type FuncID uint32

// LocalID identifies a local variable within one function.
type LocalID uint32

// GlobalID identifies a global within one module.
type GlobalID uint32

// FieldID is the slot of a field in its class layout, inherited slots first.
type FieldID uint32

// MethodID identifies a method registration program-wide.
type MethodID uint32

// Handles are 0-based; the maximum value is the "none" sentinel.
const (
	NoModuleID ModuleID = math.MaxUint32
	NoClassID  ClassID  = math.MaxUint32
	NoFuncID   FuncID   = math.MaxUint32
	NoLocalID  LocalID  = math.MaxUint32
	NoGlobalID GlobalID = math.MaxUint32
	NoFieldID  FieldID  = math.MaxUint32
	NoMethodID MethodID = math.MaxUint32
)

func (id ModuleID) IsValid() bool { return id != NoModuleID }
func (id ClassID) IsValid() bool  { return id != NoClassID }
func (id FuncID) IsValid() bool   { return id != NoFuncID }
func (id LocalID) IsValid() bool  { return id != NoLocalID }
func (id GlobalID) IsValid() bool { return id != NoGlobalID }
func (id FieldID) IsValid() bool  { return id != NoFieldID }
func (id MethodID) IsValid() bool { return id != NoMethodID }

// Handle is any of the dense handle types.
type Handle interface {
	~uint32
}

// NextID converts the length of a flat table into the handle its next entry
// will get. Running out of handles is a programming error.
func NextID[T Handle](n int) T {
	v, err := safecast.Conv[uint32](n)
	if err != nil || v == math.MaxUint32 {
		panic(fmt.Errorf("handle overflow at %d: %v", n, err))
	}
	return T(v)
}
