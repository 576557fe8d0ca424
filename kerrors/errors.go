// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package kerrors defines the error kinds of spec 7 "Error handling
// design". Initialization errors (InvalidGeometry, ConfigInconsistent)
// are mostly raised with gosl/chk.Panic at the call site; InvalidGeometry
// is also returned as an error value when a surface product or surface
// step meets a wall with no grid. The event loop inspects and routes the
// runtime kinds (TileFull, AmbiguousCollision are recovered locally;
// RuntimeOutOfDomain and MissedUnimolecular are fatal and unwind to the
// top level).
package kerrors

import "fmt"

// Kind identifies one of the error kinds enumerated in spec 7.
type Kind int

const (
	InvalidGeometry Kind = iota
	ConfigInconsistent
	RuntimeOutOfDomain
	TileFull
	AmbiguousCollision
	MissedUnimolecular
)

func (k Kind) String() string {
	switch k {
	case InvalidGeometry:
		return "InvalidGeometry"
	case ConfigInconsistent:
		return "ConfigInconsistent"
	case RuntimeOutOfDomain:
		return "RuntimeOutOfDomain"
	case TileFull:
		return "TileFull"
	case AmbiguousCollision:
		return "AmbiguousCollision"
	case MissedUnimolecular:
		return "MissedUnimolecular"
	}
	return "Unknown"
}

// Fatal reports whether a Kind must unwind to the top level rather than
// being recovered locally by the step that raised it (spec 7
// "Propagation").
func (k Kind) Fatal() bool {
	switch k {
	case RuntimeOutOfDomain, MissedUnimolecular, InvalidGeometry, ConfigInconsistent:
		return true
	}
	return false
}

// Error is the typed error value carried through the kernel for every
// kind in spec 7.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New builds a kerrors.Error with the given kind and formatted message.
func New(k Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}

// Is reports whether err is a *Error of kind k, unwrapping nothing else
// (kernel errors are never wrapped further).
func Is(err error, k Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == k
}
