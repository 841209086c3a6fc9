// Package access decides whether a principal may obtain a usable wrapped key
// for a file, and which one.
//
// The decision is a pure function of the file record and the caller id. The
// owner always receives the owner's wrapped key. A recipient receives the key
// from the earliest share entry addressed to them. Anyone else is refused.
package access

import (
	"time"

	"github.com/dmitrijs2005/sealbox/internal/server/models"
)

// Outcome is the reason behind a decision.
type Outcome int

const (
	// NotFound means the file record does not exist.
	NotFound Outcome = iota
	// Forbidden means the file exists but the caller holds no grant.
	Forbidden
	// Allowed means the caller holds a grant; Result carries the key.
	Allowed
)

func (o Outcome) String() string {
	switch o {
	case NotFound:
		return "not_found"
	case Forbidden:
		return "forbidden"
	case Allowed:
		return "allowed"
	default:
		return "unknown"
	}
}

// Result is the outcome of Evaluate. The wrapped key is reachable only
// through Grant, and only when the outcome is Allowed.
type Result struct {
	outcome Outcome
	key     models.WrappedKey
}

// Outcome returns the reason for the decision.
func (r Result) Outcome() Outcome { return r.outcome }

// Grant returns the wrapped key the caller may use, or false when access was
// not allowed. It does not reveal why.
func (r Result) Grant() (models.WrappedKey, bool) {
	if r.outcome != Allowed {
		return "", false
	}
	return r.key, true
}

// Evaluate decides access for callerID to file. A nil file yields NotFound.
func Evaluate(file *models.File, callerID string) Result {
	if file == nil {
		return Result{outcome: NotFound}
	}
	if file.IsOwnedBy(callerID) {
		return Result{outcome: Allowed, key: file.OwnerWrappedKey}
	}
	for _, s := range file.Shares {
		if s.RecipientID == callerID {
			return Result{outcome: Allowed, key: s.WrappedKey}
		}
	}
	return Result{outcome: Forbidden}
}

// CanAccess reports whether Evaluate would allow callerID.
func CanAccess(file *models.File, callerID string) bool {
	return Evaluate(file, callerID).Outcome() == Allowed
}

// Ticket is everything a client needs to fetch and decrypt a file it is
// allowed to read.
type Ticket struct {
	// URL is a presigned, time-limited link to the ciphertext.
	URL        string
	WrappedKey models.WrappedKey
	Filename   string
	ExpiresAt  time.Time
}
