package flips

// Requirements is how many more flips the identity has to (or may) make in
// the current epoch. Values are raw and can be negative when more flips
// were made than required; use Clamped for display.
type Requirements struct {
	RemainingRequired int
	RemainingOptional int
}

// Remaining derives the outstanding flip counts from the identity's
// requirement, its allowance and the number of flips already made.
func Remaining(required, available, made int) Requirements {
	remainingRequired := required - made
	optional := available - max(required, made)
	return Requirements{
		RemainingRequired: remainingRequired,
		RemainingOptional: optional,
	}
}

// Clamped returns the counts floored at zero.
func (r Requirements) Clamped() Requirements {
	return Requirements{
		RemainingRequired: max(r.RemainingRequired, 0),
		RemainingOptional: max(r.RemainingOptional, 0),
	}
}

// Outstanding reports whether any required or optional flip can still be
// made.
func (r Requirements) Outstanding() bool {
	return r.RemainingRequired > 0 || r.RemainingOptional > 0
}
