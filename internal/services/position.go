package services

// NextPosition computes the position for an item appended to an ordered
// container (lists within a board, cards within a list). Positions grow
// monotonically and are never renumbered or reclaimed; an empty container
// yields 0 via the -1 sentinel.
func NextPosition(existing []int) int {
	max := -1
	for _, p := range existing {
		if p > max {
			max = p
		}
	}
	return max + 1
}
