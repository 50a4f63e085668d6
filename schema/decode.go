// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package schema

import (
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"
)

// DefaultMaxElements caps the number of elements a single list may hold.
const DefaultMaxElements = 1 << 16

type decodeOptions struct {
	logger      *zap.Logger
	maxElements int
}

// DecodeOption configures a single Decode call.
type DecodeOption func(*decodeOptions)

// WithLogger sets the logger used for this decode instead of Logger().
func WithLogger(l *zap.Logger) DecodeOption {
	return func(o *decodeOptions) {
		o.logger = l
	}
}

// WithMaxElements caps list counts. Larger counts are structural failures.
func WithMaxElements(n int) DecodeOption {
	return func(o *decodeOptions) {
		o.maxElements = n
	}
}

// Result is the outcome of a decode. Root is never nil: on failure it holds
// the tree decoded so far, with the failing slot left as a Placeholder.
type Result struct {
	Root Instance
	Err  error
}

// Complete reports whether the decode finished without failure.
func (r *Result) Complete() bool {
	return r.Err == nil
}

// Decode decodes buf with t as the root descriptor. It is the only place
// where decode failures are caught: the returned Result always carries the
// tree built so far, and the failure is both logged and returned.
func Decode(t Type, buf []byte, opts ...DecodeOption) (*Result, error) {
	o := decodeOptions{maxElements: DefaultMaxElements}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = Logger()
	}
	if t == nil {
		return &Result{Root: &Placeholder{}}, &Error{Kind: KindStructuralFailure, Offset: -1, Detail: "nil root type"}
	}

	var root Instance
	c := &decodeContext{
		buf:         buf,
		root:        &root,
		logger:      o.logger,
		maxElements: o.maxElements,
	}

	err := c.run(t)
	res := &Result{Root: root, Err: err}
	if err != nil {
		o.logger.Warn("decode aborted, returning partial tree",
			zap.String("type", t.String()),
			zap.Int("len", len(buf)),
			zap.Error(err))
		return res, err
	}
	return res, nil
}

func (c *decodeContext) run(t Type) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &Error{Kind: KindStructuralFailure, Offset: -1, Detail: fmt.Sprintf("panic during decode: %v", r)}
		}
		if err != nil {
			err = prefixLocation(err, rootKeyword)
		}
	}()
	return c.fill(t, 0, c.root)
}

// WalkFunc is called for every instance in a tree. path is the location of
// inst in path-expression syntax. Returning SkipChildren skips the
// instance's children; any other error stops the walk.
type WalkFunc func(path string, depth int, name string, inst Instance) error

// SkipChildren can be returned from a WalkFunc to skip an instance's children.
var SkipChildren = errors.New("skip children")

// Walk visits root and its descendants depth first in declaration order.
func Walk(root Instance, fn WalkFunc) error {
	err := walk(rootKeyword, 0, "", root, fn)
	if err == SkipChildren {
		return nil
	}
	return err
}

func walk(path string, depth int, name string, inst Instance, fn WalkFunc) error {
	if err := fn(path, depth, name, inst); err != nil {
		if err == SkipChildren {
			return nil
		}
		return err
	}
	for i, c := range inst.Children() {
		var p string
		if c.Name != "" && inst.Variant() == VariantStruct {
			p = path + "." + c.Name
		} else {
			p = path + "[" + strconv.Itoa(i) + "]"
		}
		if err := walk(p, depth+1, c.Name, c.Inst, fn); err != nil {
			return err
		}
	}
	return nil
}

// Locate returns the chain of instances whose byte range contains off,
// ending at the deepest one. Anchored fields are searched as well, even
// though their range may lie outside their parent's.
func Locate(root Instance, off int) []Instance {
	var best []Instance
	var visit func(inst Instance, chain []Instance)
	visit = func(inst Instance, chain []Instance) {
		if off >= inst.Offset() && off < end(inst) {
			chain = append(chain[:len(chain):len(chain)], inst)
			if len(chain) > len(best) {
				best = chain
			}
		}
		for _, c := range inst.Children() {
			visit(c.Inst, chain)
		}
	}
	visit(root, nil)
	return best
}
