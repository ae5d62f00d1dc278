package core

// Basis point limits.
const (
	// BasisPointsDenominator is the number of basis points in 100%.
	BasisPointsDenominator int64 = 10000

	// MaxFeeBasisPoints caps the platform fee at 10%.
	MaxFeeBasisPoints int64 = 1000

	// MaxShareBasisPoints is the upper bound for a dispute resolution share.
	MaxShareBasisPoints = BasisPointsDenominator
)

// SplitFee divides amount into the platform fee and the freelancer share.
// The fee is floored, so any rounding remainder stays on the freelancer
// side; the two parts always sum to amount exactly.
func SplitFee(amount, feeBasisPoints int64) (fee, freelancerShare int64) {
	fee = mulBasisPoints(amount, feeBasisPoints)
	return fee, amount - fee
}

// SplitShare divides amount between client and freelancer for a dispute
// resolution. The client share is floored; the remainder goes to the
// freelancer side. No fee is extracted and the parts sum to amount exactly.
func SplitShare(amount, clientShareBasisPoints int64) (clientAmount, freelancerAmount int64) {
	clientAmount = mulBasisPoints(amount, clientShareBasisPoints)
	return clientAmount, amount - clientAmount
}

// mulBasisPoints computes floor(amount * bps / 10000) without forming the
// full product, so the result is exact over the whole int64 range.
// Both inputs must be non-negative and bps at most the denominator.
func mulBasisPoints(amount, bps int64) int64 {
	whole := amount / BasisPointsDenominator
	rem := amount % BasisPointsDenominator
	return whole*bps + rem*bps/BasisPointsDenominator
}
