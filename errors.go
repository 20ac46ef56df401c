package tga

import (
	"errors"
	"io"
)

// ErrNoInput is returned when a Reader is used without an input stream.
var ErrNoInput = errors.New("tga: no input")

// A FormatError reports that the input is not a valid or supported TGA file.
type FormatError string

func (e FormatError) Error() string { return "tga: invalid format: " + string(e) }

// An UnsupportedError reports that a decode parameter asks for a feature
// this package does not implement, such as sub-sampling.
type UnsupportedError string

func (e UnsupportedError) Error() string { return "tga: unsupported: " + string(e) }

// An IOError reports a failure reading the underlying stream.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string { return "tga: " + e.Op + ": " + e.Err.Error() }

// Unwrap returns the underlying stream error.
func (e *IOError) Unwrap() error { return e.Err }

func readFull(r io.Reader, b []byte, op string) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	if err != nil {
		return &IOError{Op: op, Err: err}
	}
	return nil
}
