package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for domain operations
var (
	ErrCaseNotFound    = goerr.New("investigation not found")
	ErrUserNotFound    = goerr.New("user not found")
	ErrHuntNotFound    = goerr.New("hunt not found")
	ErrMessageNotFound = goerr.New("message not found")
	ErrUnknownThreat   = goerr.New("unknown threat type")
	ErrLastTeamMember  = goerr.New("cannot remove the last member of the investigation team")
	ErrInvalidOTP      = goerr.New("invalid or expired OTP")
	ErrEmailTaken      = goerr.New("user with this email already exists")
	ErrBadCredentials  = goerr.New("invalid email or password")
)
