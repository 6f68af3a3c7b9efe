package errors

import "fmt"

var (
	// Authorization failures are kept generic so the transport layer never
	// leaks whether a record exists in a workspace the caller cannot access.
	ErrNotMember = fmt.Errorf("user is not a member of this workspace")
	ErrNotSender = fmt.Errorf("only the sender may modify this message")

	ErrMessageNotFound   = fmt.Errorf("message not found")
	ErrWorkspaceNotFound = fmt.Errorf("workspace not found")
	ErrUserNotFound      = fmt.Errorf("user not found")

	ErrEmptyContent   = fmt.Errorf("message content is required")
	ErrContentNotText = fmt.Errorf("message content must be text")
	ErrContentTooLong = fmt.Errorf("message content exceeds the maximum length")

	ErrSessionNotFound = fmt.Errorf("session not found")
	ErrInvalidSession  = fmt.Errorf("invalid session")

	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrInvalidPassword    = fmt.Errorf("password does not meet complexity requirements")
	ErrUserAlreadyExists  = fmt.Errorf("a user with this email already exists")
	ErrTokenGeneration    = fmt.Errorf("token generation failed")
)
