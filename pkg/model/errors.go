package model

import (
	"errors"
)

// Protocol failure reasons. Every revert surfaced by a facet is one of these
// sentinel values so callers can branch on the exact cause.
var (
	// ErrMustBeContractOwner is returned when an owner-gated operation is
	// invoked by any other account.
	ErrMustBeContractOwner = errors.New("must be contract owner")

	// ErrInvalidSignature is returned when the recovered signer of a signed
	// payload does not match the claimed sender.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrInvalidNonce is returned when a signed payload carries a nonce that
	// does not equal the sender's current stored nonce.
	ErrInvalidNonce = errors.New("invalid nonce")

	// ErrSignatureExpired is returned when a signed payload's deadline has
	// passed.
	ErrSignatureExpired = errors.New("signature expired")

	// ErrIsNotYlide is returned when a signature-authorized entry point is
	// called by a relayer that is not on the ylide allow-list.
	ErrIsNotYlide = errors.New("is not ylide")

	// ErrNoRegistrar is returned on claim when the escrow sender's attached
	// key names no registrar to receive the registrar commission.
	ErrNoRegistrar = errors.New("no registrar")

	// ErrNoInterface is returned on claim when no referring interface address
	// is supplied.
	ErrNoInterface = errors.New("no interface")

	// ErrNothingToWithdraw is returned when operating on an escrow entry that
	// is missing, already claimed, or already canceled, and on withdrawal of
	// a zero balance.
	ErrNothingToWithdraw = errors.New("nothing to withdraw")

	// ErrNotSender is returned when an account other than the original escrow
	// sender attempts a cancellation.
	ErrNotSender = errors.New("not sender")

	// ErrStakeLockUp is returned on cancellation before the lock-up period
	// has elapsed.
	ErrStakeLockUp = errors.New("stake lock up")

	// ErrInvalidSender is returned when a zero or otherwise impossible sender
	// is supplied where a concrete party is required.
	ErrInvalidSender = errors.New("invalid sender")

	// ErrInvalidArguments is returned on malformed arguments: mismatched
	// array lengths, an exceeded block window, or an exhausted parts count.
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrNotFeedOwner is returned when a feed management operation is invoked
	// by an account that does not own the feed.
	ErrNotFeedOwner = errors.New("not feed owner")
)

// ErrPersisterNoResults is the error returned when a persister query finds
// no matching rows.
var ErrPersisterNoResults = errors.New("no results from persister")
