package model

import "errors"

var (
	ErrInvalidDecimals           = errors.New("invalid token decimals")
	ErrInvalidSupply             = errors.New("invalid token supply")
	ErrInvalidCycle              = errors.New("invalid voting cycle length")
	ErrInvalidVotes              = errors.New("invalid vote amount")
	ErrMalformedMetadata         = errors.New("malformed proposal metadata")
	ErrUnrecognizedTransferShape = errors.New("unrecognized transfer shape")
	ErrUnknownTemplate           = errors.New("unknown dao template")
)
