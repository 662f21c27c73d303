package evaluator

// Reduce discards every match record whose document did not survive into
// the final set, and counts the survivors per operand id. It must run after
// the whole tree has resolved: an OR branch's matches can only be judged
// against the root set, not against any intermediate one.
func Reduce(final DocumentSet, records []MatchRecord) ([]MatchRecord, map[string]int) {
	pruned := make([]MatchRecord, 0, len(records))
	counts := make(map[string]int)
	for _, rec := range records {
		if !final.Contains(rec.DocID) {
			continue
		}
		pruned = append(pruned, rec)
		counts[rec.OperandID]++
	}
	return pruned, counts
}
