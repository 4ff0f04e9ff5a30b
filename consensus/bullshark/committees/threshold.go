package committees

// WeightThresholdForQuorum returns the weight that is minimally required for
// a quorum: certificates need votes of this weight, a certificate's parents
// must carry it and so must the support of a leader before it is committed.
func WeightThresholdForQuorum(totalWeight uint64) uint64 {
	// Given totalWeight, we need the smallest integer t such that 2 * totalWeight / 3 < t
	// Formally, the minimally required weight is: 2 * Floor(totalWeight/3) + max(1, totalWeight mod 3)
	floorOneThird := totalWeight / 3 // integer division, includes floor
	res := 2 * floorOneThird
	divRemainder := totalWeight % 3
	if divRemainder <= 1 {
		res = res + 1
	} else {
		res += divRemainder
	}
	return res
}

// WeightThresholdForValidity returns the weight that is minimally required
// for a set of authorities to contain at least one honest member.
func WeightThresholdForValidity(totalWeight uint64) uint64 {
	// Given totalWeight, we need the smallest integer t such that totalWeight / 3 < t
	// Formally, the minimally required weight is: Floor(totalWeight/3) + 1
	return totalWeight/3 + 1
}
