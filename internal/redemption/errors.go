package redemption

import "errors"

var (
	// ErrMalformedCode indicates the redemption code fails local
	// format validation. No store lookup was made.
	ErrMalformedCode = errors.New("malformed redemption code")

	// ErrMalformedPassportCode indicates the login code fails local
	// format validation. No store lookup was made.
	ErrMalformedPassportCode = errors.New("malformed passport code")

	// ErrRateLimited indicates the attempt ceiling for this session
	// was reached. The counters are a soft throttle, cleared only by
	// process restart.
	ErrRateLimited = errors.New("too many attempts")

	// ErrCodeNotFound indicates the redemption code has no catalog entry.
	ErrCodeNotFound = errors.New("invalid code")

	// ErrPassportNotFound indicates no passport matches the login code.
	ErrPassportNotFound = errors.New("passport not found")

	// ErrAlreadyRedeemed indicates the resolved activity is already
	// stamped in this passport.
	ErrAlreadyRedeemed = errors.New("activity already redeemed")

	// ErrColorLocked indicates the chosen color requires a higher tier.
	ErrColorLocked = errors.New("color locked for current tier")

	// ErrPersistence indicates the directory write or lookup failed.
	// Engine state is unchanged and the operation may be retried.
	ErrPersistence = errors.New("passport store unavailable")

	// ErrNoSession indicates the session token is absent or expired.
	ErrNoSession = errors.New("no active session")

	// ErrInvalidState indicates the operation is not legal in the
	// session's current step.
	ErrInvalidState = errors.New("operation not allowed in current step")

	// ErrRedeemInFlight indicates a store call for this session is
	// still outstanding.
	ErrRedeemInFlight = errors.New("redemption write in flight")
)
