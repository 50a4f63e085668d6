// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind categorizes a decode failure.
type Kind string

const (
	KindMalformedPath       Kind = "malformed_path"
	KindUnresolvedReference Kind = "unresolved_reference"
	KindNonNumericValue     Kind = "non_numeric_value"
	KindStructuralFailure   Kind = "structural_failure"
)

// Sentinels for errors.Is. Any *Error of the same Kind matches.
var (
	ErrMalformedPath       = &Error{Kind: KindMalformedPath, Offset: -1}
	ErrUnresolvedReference = &Error{Kind: KindUnresolvedReference, Offset: -1}
	ErrNonNumericValue     = &Error{Kind: KindNonNumericValue, Offset: -1}
	ErrStructuralFailure   = &Error{Kind: KindStructuralFailure, Offset: -1}
)

// Error is the structured error returned by path parsing, path evaluation
// and decoding. None of these are retryable.
type Error struct {
	Kind     Kind
	Location string // tree location of the failing slot, e.g. "root.dos.e_lfanew"
	Expr     string // path expression involved, if any
	Offset   int    // absolute buffer offset, -1 if not applicable
	Detail   string
	Cause    error
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(string(e.Kind))
	if e.Location != "" {
		b.WriteString(" in ")
		b.WriteString(e.Location)
	}
	if e.Expr != "" {
		b.WriteString(" evaluating ")
		b.WriteString(strconv.Quote(e.Expr))
	}
	if e.Offset >= 0 {
		b.WriteString(" (offset 0x")
		b.WriteString(strconv.FormatInt(int64(e.Offset), 16))
		b.WriteByte(')')
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}
	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

func malformedPath(text, format string, args ...any) *Error {
	return &Error{Kind: KindMalformedPath, Expr: text, Offset: -1, Detail: fmt.Sprintf(format, args...)}
}

func unresolved(expr, format string, args ...any) *Error {
	return &Error{Kind: KindUnresolvedReference, Expr: expr, Offset: -1, Detail: fmt.Sprintf(format, args...)}
}

func nonNumeric(inst Instance) *Error {
	return &Error{
		Kind:   KindNonNumericValue,
		Offset: inst.Offset(),
		Detail: fmt.Sprintf("%s instance has no numeric value", inst.Variant()),
	}
}

func structural(off int, format string, args ...any) *Error {
	return &Error{Kind: KindStructuralFailure, Offset: off, Detail: fmt.Sprintf(format, args...)}
}

// prefixLocation prefixes the failure location of err with seg as it unwinds
// through a struct field or list element.
func prefixLocation(err error, seg string) error {
	e, ok := err.(*Error)
	if !ok {
		return err
	}
	switch {
	case e.Location == "":
		e.Location = seg
	case strings.HasPrefix(e.Location, "["):
		e.Location = seg + e.Location
	default:
		e.Location = seg + "." + e.Location
	}
	return e
}
