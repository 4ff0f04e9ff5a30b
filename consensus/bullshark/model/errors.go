package model

import (
	"errors"
	"fmt"

	"github.com/onflow/flow-narwhal/model/flow"
)

var (
	ErrInvalidFormat    = errors.New("invalid signature format")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrNotLeaderRound   = errors.New("round does not designate a leader")
)

// ConfigurationError indicates that a constructor or component was initialized with
// invalid or inconsistent parameters. It is fatal for the instance.
type ConfigurationError struct {
	err error
}

func NewConfigurationError(err error) error {
	return ConfigurationError{err}
}

func NewConfigurationErrorf(msg string, args ...interface{}) error {
	return ConfigurationError{fmt.Errorf(msg, args...)}
}

func (e ConfigurationError) Error() string { return e.err.Error() }
func (e ConfigurationError) Unwrap() error { return e.err }

// IsConfigurationError returns whether err is a ConfigurationError
func IsConfigurationError(err error) bool {
	var e ConfigurationError
	return errors.As(err, &e)
}

// UnknownAuthorityError indicates that the referenced authority is not a
// member of the committee.
type UnknownAuthorityError struct {
	AuthorityID flow.Identifier
}

func NewUnknownAuthorityError(authorityID flow.Identifier) error {
	return UnknownAuthorityError{AuthorityID: authorityID}
}

func (e UnknownAuthorityError) Error() string {
	return fmt.Sprintf("authority %x is not a member of the committee", e.AuthorityID)
}

// IsUnknownAuthorityError returns whether an error is UnknownAuthorityError
func IsUnknownAuthorityError(err error) bool {
	var e UnknownAuthorityError
	return errors.As(err, &e)
}

// MissingParentsError is returned when a certificate cannot be inserted into
// the DAG because some of its parents are unknown. The caller has to fetch the
// missing certificates and retry.
type MissingParentsError struct {
	CertificateID flow.Identifier
	Round         uint64
	Missing       flow.IdentifierList
}

func (e MissingParentsError) Error() string {
	return fmt.Sprintf("certificate %x at round %d is missing %d parents", e.CertificateID, e.Round, len(e.Missing))
}

// IsMissingParentsError returns whether an error is MissingParentsError
func IsMissingParentsError(err error) bool {
	var e MissingParentsError
	return errors.As(err, &e)
}

// AsMissingParentsError determines whether the given error is a MissingParentsError
// (potentially wrapped). It follows the same semantics as a checked type cast.
func AsMissingParentsError(err error) (*MissingParentsError, bool) {
	var e MissingParentsError
	ok := errors.As(err, &e)
	if ok {
		return &e, true
	}
	return nil, false
}

// EquivocationError indicates that an authority produced two different
// certificates for the same round. Only the first one is part of the DAG; the
// conflicting one is kept as evidence.
type EquivocationError struct {
	First       *flow.Certificate
	Conflicting *flow.Certificate
}

func NewEquivocationError(first, conflicting *flow.Certificate) error {
	return EquivocationError{First: first, Conflicting: conflicting}
}

func (e EquivocationError) Error() string {
	return fmt.Sprintf("authority %x equivocated at round %d: certificates %x and %x",
		e.First.AuthorID(), e.First.Round(), e.First.ID(), e.Conflicting.ID())
}

// IsEquivocationError returns whether an error is EquivocationError
func IsEquivocationError(err error) bool {
	var e EquivocationError
	return errors.As(err, &e)
}

// AsEquivocationError determines whether the given error is a EquivocationError
// (potentially wrapped). It follows the same semantics as a checked type cast.
func AsEquivocationError(err error) (*EquivocationError, bool) {
	var e EquivocationError
	ok := errors.As(err, &e)
	if ok {
		return &e, true
	}
	return nil, false
}

// InvalidCertificateError indicates that the certificate violates a structural
// rule of the DAG: its parents are not a quorum of the previous round, it
// references parents from the wrong round or it is authored by a non-member.
type InvalidCertificateError struct {
	CertificateID flow.Identifier
	Round         uint64
	Err           error
}

func NewInvalidCertificateErrorf(cert *flow.Certificate, msg string, args ...interface{}) error {
	return InvalidCertificateError{
		CertificateID: cert.ID(),
		Round:         cert.Round(),
		Err:           fmt.Errorf(msg, args...),
	}
}

// NewInvalidHeaderErrorf reports an invalid header under the identifier of
// the certificate it would become.
func NewInvalidHeaderErrorf(header *flow.Header, msg string, args ...interface{}) error {
	cert := flow.Certificate{Header: *header}
	return NewInvalidCertificateErrorf(&cert, msg, args...)
}

func (e InvalidCertificateError) Error() string {
	return fmt.Sprintf("invalid certificate %x at round %d: %s", e.CertificateID, e.Round, e.Err.Error())
}

func (e InvalidCertificateError) Unwrap() error {
	return e.Err
}

// IsInvalidCertificateError returns whether an error is InvalidCertificateError
func IsInvalidCertificateError(err error) bool {
	var e InvalidCertificateError
	return errors.As(err, &e)
}

// AsInvalidCertificateError determines whether the given error is a InvalidCertificateError
// (potentially wrapped). It follows the same semantics as a checked type cast.
func AsInvalidCertificateError(err error) (*InvalidCertificateError, bool) {
	var e InvalidCertificateError
	ok := errors.As(err, &e)
	if ok {
		return &e, true
	}
	return nil, false
}

// StaleCertificateError indicates that the certificate, or the parents it has
// to be checked against, belong to rounds that were already garbage collected.
type StaleCertificateError struct {
	CertificateID flow.Identifier
	Round         uint64
	LowestRound   uint64
}

func (e StaleCertificateError) Error() string {
	return fmt.Sprintf("certificate %x at round %d cannot be inserted, rounds below %d were garbage collected", e.CertificateID, e.Round, e.LowestRound)
}

// IsStaleCertificateError returns whether an error is StaleCertificateError
func IsStaleCertificateError(err error) bool {
	var e StaleCertificateError
	return errors.As(err, &e)
}

// InvalidVoteError indicates that the vote with identifier `VoteID` is invalid
type InvalidVoteError struct {
	VoteID flow.Identifier
	Round  uint64
	Err    error
}

func NewInvalidVoteErrorf(vote *flow.Vote, msg string, args ...interface{}) error {
	return InvalidVoteError{
		VoteID: vote.ID(),
		Round:  vote.Round,
		Err:    fmt.Errorf(msg, args...),
	}
}

func (e InvalidVoteError) Error() string {
	return fmt.Sprintf("invalid vote %x for round %d: %s", e.VoteID, e.Round, e.Err.Error())
}

// IsInvalidVoteError returns whether an error is InvalidVoteError
func IsInvalidVoteError(err error) bool {
	var e InvalidVoteError
	return errors.As(err, &e)
}

func (e InvalidVoteError) Unwrap() error {
	return e.Err
}

// DuplicateVoteError is returned when a vote from the same authority for the same
// header was already accumulated. The vote is not counted a second time.
type DuplicateVoteError struct {
	Vote *flow.Vote
}

func (e DuplicateVoteError) Error() string {
	return fmt.Sprintf("duplicate vote by %x for header %x", e.Vote.SignerID, e.Vote.HeaderID)
}

// IsDuplicateVoteError returns whether an error is DuplicateVoteError
func IsDuplicateVoteError(err error) bool {
	var e DuplicateVoteError
	return errors.As(err, &e)
}

// DoubleVoteError indicates that an authority voted for two different headers
// of the same author and round.
type DoubleVoteError struct {
	FirstVote       *flow.Vote
	ConflictingVote *flow.Vote
	err             error
}

func (e DoubleVoteError) Error() string {
	return e.err.Error()
}

// IsDoubleVoteError returns whether an error is DoubleVoteError
func IsDoubleVoteError(err error) bool {
	var e DoubleVoteError
	return errors.As(err, &e)
}

// AsDoubleVoteError determines whether the given error is a DoubleVoteError
// (potentially wrapped). It follows the same semantics as a checked type cast.
func AsDoubleVoteError(err error) (*DoubleVoteError, bool) {
	var e DoubleVoteError
	ok := errors.As(err, &e)
	if ok {
		return &e, true
	}
	return nil, false
}

func (e DoubleVoteError) Unwrap() error {
	return e.err
}

func NewDoubleVoteErrorf(firstVote, conflictingVote *flow.Vote, msg string, args ...interface{}) error {
	return DoubleVoteError{
		FirstVote:       firstVote,
		ConflictingVote: conflictingVote,
		err:             fmt.Errorf(msg, args...),
	}
}

// InvalidRoundError is returned when a leader is requested for a round that
// is not a leader round.
type InvalidRoundError struct {
	Round uint64
}

func (e InvalidRoundError) Error() string {
	return fmt.Sprintf("round %d is not a leader round", e.Round)
}

func (e InvalidRoundError) Unwrap() error {
	return ErrNotLeaderRound
}

// IsInvalidRoundError returns whether an error is InvalidRoundError
func IsInvalidRoundError(err error) bool {
	var e InvalidRoundError
	return errors.As(err, &e)
}
