package hook

import "errors"

var (
	// ErrUnknownPoint indicates use of an undeclared hook point.
	ErrUnknownPoint = errors.New("unknown hook point")

	// ErrInvalidPoint indicates a malformed declaration or subscription.
	ErrInvalidPoint = errors.New("invalid hook point")

	// ErrPolicyMismatch indicates a dispatch or redeclaration that does
	// not match the point's declared policy.
	ErrPolicyMismatch = errors.New("hook policy mismatch")

	// ErrNoSubscriber indicates an exactly-once dispatch with no
	// applicable handler.
	ErrNoSubscriber = errors.New("no subscriber for hook point")
)
