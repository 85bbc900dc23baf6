// Copyright 2013 Seth Bunce. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
package bson

import "fmt"

// InvalidOperationError reports a programmer API misuse: reading the wrong
// type, calling a method while the reader/writer is in the wrong state, a
// narrowing accessor that doesn't match the stored variant, or any call on
// a closed reader/writer.
type InvalidOperationError struct {
	// Path identifies where in the document the operation was attempted,
	// mirroring the `path` argument threaded through the teacher's
	// encodeMap/decodeMap family.
	Path string
	Msg  string
}

func (e *InvalidOperationError) Error() string {
	if e.Path == "" {
		return "InvalidOperation: " + e.Msg
	}
	return fmt.Sprintf("InvalidOperation: %v: %v", e.Path, e.Msg)
}

func invalidOp(path, format string, args ...interface{}) error {
	return &InvalidOperationError{Path: path, Msg: fmt.Sprintf(format, args...)}
}

// SerializationError reports that input bytes or text violate BSON/EJSON
// format rules: an unknown type tag, a size mismatch at end-of-container, a
// string missing its NUL terminator, a key or regex containing 0x00, an
// unrecognized EJSON envelope, exceeding the writer's max depth, or an
// unexpected EOF.
type SerializationError struct {
	Path string
	Msg  string
	Err  error
}

func (e *SerializationError) Error() string {
	if e.Path == "" {
		return "Serialization: " + e.Msg
	}
	return fmt.Sprintf("Serialization: %v: %v", e.Path, e.Msg)
}

func (e *SerializationError) Unwrap() error { return e.Err }

func serializationErr(path, format string, args ...interface{}) error {
	return &SerializationError{Path: path, Msg: fmt.Sprintf(format, args...)}
}

func wrapSerializationErr(path string, err error) error {
	if err == nil {
		return nil
	}
	return &SerializationError{Path: path, Msg: err.Error(), Err: err}
}

// NumberFormatError reports that a Decimal128 string is out of range,
// malformed, or loses non-zero digits under exact rounding.
type NumberFormatError struct {
	Input string
	Msg   string
}

func (e *NumberFormatError) Error() string {
	return fmt.Sprintf("NumberFormat: %v: %q", e.Msg, e.Input)
}

func numberFormatErr(input, format string, args ...interface{}) error {
	return &NumberFormatError{Input: input, Msg: fmt.Sprintf(format, args...)}
}
