package lib

import (
	"errors"
	"fmt"
	"math"

	"github.com/canopy-network/smt/lib/crypto"
)

type ErrorI interface {
	Code() ErrorCode     // Returns the error code
	Module() ErrorModule // Returns the error module
	error                // Implements the built-in error interface
}

var _ ErrorI = &Error{} // Ensures *Error implements ErrorI

type ErrorCode uint32 // Defines a type for error codes

type ErrorModule string // Defines a type for error modules

type Error struct {
	ECode   ErrorCode   `json:"code"`   // Error code
	EModule ErrorModule `json:"module"` // Error module
	Msg     string      `json:"msg"`    // Error message
}

func NewError(code ErrorCode, module ErrorModule, msg string) *Error {
	// Constructs a new Error instance
	return &Error{ECode: code, EModule: module, Msg: msg}
}

// Code() returns the associated error code
func (p *Error) Code() ErrorCode { return p.ECode }

// Module() returns module field
func (p *Error) Module() ErrorModule { return p.EModule }

// String() calls Error()
func (p *Error) String() string { return p.Error() }

// Error() returns a formatted string including module, code and message
func (p *Error) Error() string {
	return fmt.Sprintf("\nModule:  %s\nCode:    %d\nMessage: %s", p.EModule, p.ECode, p.Msg)
}

// Is() matches errors by kind (module and code) so callers can use errors.Is against a constructor
func (p *Error) Is(target error) bool {
	var t ErrorI
	if !errors.As(target, &t) {
		return false
	}
	return p.ECode == t.Code() && p.EModule == t.Module()
}

const (
	NoCode ErrorCode = math.MaxUint32

	// Main Module
	MainModule ErrorModule = "main"

	// Main Module Error Codes
	CodeJSONMarshal     ErrorCode = 1
	CodeJSONUnmarshal   ErrorCode = 2
	CodeMarshal         ErrorCode = 3
	CodeWriteFile       ErrorCode = 4
	CodeReadFile        ErrorCode = 5
	CodeInvalidArgument ErrorCode = 6

	// SMT Module
	SMTModule ErrorModule = "smt"

	// SMT Module Error Codes
	CodeMissingKey              ErrorCode = 1
	CodeCorruptedProof          ErrorCode = 2
	CodeEmptyProof              ErrorCode = 3
	CodeEmptyKeys               ErrorCode = 4
	CodeIncorrectNumberOfLeaves ErrorCode = 5
	CodeStore                   ErrorCode = 6
	CodeCorruptedStack          ErrorCode = 7
	CodeNonSiblings             ErrorCode = 8
	CodeInvalidCode             ErrorCode = 9
	CodeNonMergableRange        ErrorCode = 10
	CodeExistenceProof          ErrorCode = 11
	CodeNonExistenceProof       ErrorCode = 12
)

// error implementations below for the `lib` package
func newLogError(err error) ErrorI {
	return NewError(NoCode, MainModule, err.Error())
}

func ErrJSONUnmarshal(err error) ErrorI {
	return NewError(CodeJSONUnmarshal, MainModule, fmt.Sprintf("json.unmarshal() failed with err: %s", err.Error()))
}

func ErrJSONMarshal(err error) ErrorI {
	return NewError(CodeJSONMarshal, MainModule, fmt.Sprintf("json.marshal() failed with err: %s", err.Error()))
}

func ErrMarshal(err error) ErrorI {
	return NewError(CodeMarshal, MainModule, fmt.Sprintf("marshal() failed with err: %s", err.Error()))
}

func ErrWriteFile(err error) ErrorI {
	return NewError(CodeWriteFile, MainModule, fmt.Sprintf("os.WriteFile() failed with err: %s", err.Error()))
}

func ErrReadFile(err error) ErrorI {
	return NewError(CodeReadFile, MainModule, fmt.Sprintf("os.ReadFile() failed with err: %s", err.Error()))
}

func ErrInvalidArgument(err error) ErrorI {
	return NewError(CodeInvalidArgument, MainModule, fmt.Sprintf("invalid argument: %s", err.Error()))
}

func ErrMissingKey(height int, key crypto.H256) ErrorI {
	return NewError(CodeMissingKey, SMTModule, fmt.Sprintf("Missing key at height %d, key %s", height, key))
}

func ErrCorruptedProof() ErrorI {
	return NewError(CodeCorruptedProof, SMTModule, "Corrupted proof")
}

func ErrEmptyProof() ErrorI {
	return NewError(CodeEmptyProof, SMTModule, "Empty proof")
}

func ErrEmptyKeys() ErrorI {
	return NewError(CodeEmptyKeys, SMTModule, "Empty keys")
}

func ErrIncorrectNumberOfLeaves(expected, actual int) ErrorI {
	return NewError(CodeIncorrectNumberOfLeaves, SMTModule,
		fmt.Sprintf("Incorrect number of leaves, expected %d actual %d", expected, actual))
}

// ErrStore() passes a backend failure through without interpretation
func ErrStore(msg string) ErrorI {
	return NewError(CodeStore, SMTModule, fmt.Sprintf("Backend store error: %s", msg))
}

func ErrCorruptedStack() ErrorI {
	return NewError(CodeCorruptedStack, SMTModule, "Corrupted compiled proof stack")
}

func ErrNonSiblings() ErrorI {
	return NewError(CodeNonSiblings, SMTModule, "Merging non-siblings in compiled stack")
}

func ErrInvalidCode(code uint8) ErrorI {
	return NewError(CodeInvalidCode, SMTModule, fmt.Sprintf("Invalid compiled proof code: %d", code))
}

func ErrNonMergableRange() ErrorI {
	return NewError(CodeNonMergableRange, SMTModule, "Ranges can not be merged")
}

func ErrExistenceProof() ErrorI {
	return NewError(CodeExistenceProof, SMTModule, "Try to get ExistenceProof for non existing value")
}

func ErrNonExistenceProof() ErrorI {
	return NewError(CodeNonExistenceProof, SMTModule, "Try to get NonExistenceProof for the existing value")
}
