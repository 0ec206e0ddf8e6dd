package aggregates

import "strings"

// RequireCASSuccess converts a failed compare-and-set into a typed conflict error.
func RequireCASSuccess(ok bool, message string) error {
	if ok {
		return nil
	}
	return ConflictError(strings.TrimSpace(message))
}

// RequireVersionMatch validates version equality for optimistic locking flows.
func RequireVersionMatch(current, expected int64) error {
	if expected < 0 {
		return ValidationError("expected version must be >= 0")
	}
	if current != expected {
		return ConflictError("version mismatch")
	}
	return nil
}

// RequireOwner hides records that belong to someone else behind the same
// error a missing record would produce.
func RequireOwner(ownerID, userID uint, what string) error {
	if ownerID == 0 || ownerID != userID {
		return notFound(what)
	}
	return nil
}

// RequirePositive validates a strictly positive quantity.
func RequirePositive(n int, field string) error {
	if n <= 0 {
		return ValidationError(strings.TrimSpace(field) + " must be a positive integer")
	}
	return nil
}
