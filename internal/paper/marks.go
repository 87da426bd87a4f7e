package paper

// TotalMarks is the paper-level aggregate: the sum of each section's own marks
// allocation. Question and subpart marks deliberately do not feed into it; the
// two tiers are independent. Callers recompute it from current state on every
// read, it is never cached.
func TotalMarks(sections []Section) int {
	total := 0
	for _, s := range sections {
		total += s.Marks
	}
	return total
}
