package mt5

import (
	"errors"
	"fmt"

	"pulse-node/internal/terminal"
)

var (
	ErrInitialize     = errors.New("terminal initialize failed")
	ErrIPCTimeout     = errors.New("terminal did not answer the handshake")
	ErrAuthentication = errors.New("terminal login failed")
	ErrUnknownSide    = errors.New("unknown position type")
)

// InitializationError means the terminal link could not be established. The
// credentials were never sent.
type InitializationError struct {
	Cause terminal.Error
}

func (e *InitializationError) Error() string {
	msg := fmt.Sprintf("Initialize failed %s. ", e.Cause)
	if e.Cause.IsIPCTimeout() {
		return msg + "Please OPEN your MetaTrader 5 application BEFORE clicking connect."
	}
	return msg + "Check if MT5 is installed."
}

func (e *InitializationError) Unwrap() []error {
	if e.Cause.IsIPCTimeout() {
		return []error{ErrInitialize, ErrIPCTimeout}
	}
	return []error{ErrInitialize}
}

// AuthenticationError means the link was up but the broker rejected the login.
// The link has already been released when this is returned.
type AuthenticationError struct {
	Login  int64
	Server string
	Cause  terminal.Error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("Login failed (Wrong broker/server name, or terminal issues): %s", e.Cause)
}

func (e *AuthenticationError) Unwrap() error { return ErrAuthentication }
