package bankgate

// Confirmation state machine helpers shared by the resolver and the users
// repository. The flag-invalidation rule lives here so every persistence path
// applies the same logic instead of each call site re-implementing it.

// nextConfirmationTarget picks which confirmation flag a successful
// per-channel confirmation flips. Email has priority; exactly one flag flips
// per call, matching the provider's per-channel confirmation semantics.
// Returns the attribute name, or "" when the account is fully confirmed.
func nextConfirmationTarget(u *User) string {
	switch {
	case u == nil:
		return ""
	case !u.ConfirmationEmail:
		return AttributeEmail
	case !u.ConfirmationPhone:
		return AttributePhone
	}
	return ""
}

// setAttributeConfirmation sets the flag for one contact channel. Unknown
// attribute names are ignored.
func setAttributeConfirmation(u *User, attributeName string, value bool) {
	if u == nil {
		return
	}
	switch attributeName {
	case AttributeEmail:
		u.ConfirmationEmail = value
	case AttributePhone:
		u.ConfirmationPhone = value
	}
}

// applyContactInvalidation resets confirmation flags on next when its email
// or phone differ from the persisted values in prev. Invariant: a persisted
// contact change always drops the matching flag, regardless of which code
// path performed the write. The users repository calls this on every update.
func applyContactInvalidation(prev, next *User) {
	if prev == nil || next == nil {
		return
	}
	if next.Email != "" && prev.Email != "" && next.Email != prev.Email {
		next.ConfirmationEmail = false
	}
	if next.Phone != "" && prev.Phone != "" && next.Phone != prev.Phone {
		next.ConfirmationPhone = false
	}
}
