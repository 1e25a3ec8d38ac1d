// Package problem defines typed domain rule violations with stable codes.
//
// Every invariant a domain aggregate enforces surfaces as a *Problem so
// services and transport handlers can branch on the code without parsing
// message text. Codes are part of the API contract and never change.
package problem

import "errors"

// Problem is a domain rule violation with a stable problem code.
type Problem struct {
	Code    string
	Message string
}

// New creates a problem with the given code and message.
func New(code, message string) *Problem {
	return &Problem{Code: code, Message: message}
}

// Error implements the error interface.
func (p *Problem) Error() string {
	return p.Message
}

// CodeOf returns the problem code carried by err, or an empty string when
// err does not wrap a domain problem.
func CodeOf(err error) string {
	var p *Problem
	if errors.As(err, &p) {
		return p.Code
	}
	return ""
}
