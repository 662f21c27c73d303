package index

// withinDistance reports whether the edit distance between a and b is at
// most max. It runs the classic two-row DP and bails out as soon as every
// cell in the current row exceeds max.
func withinDistance(a, b string, max int) bool {
	ra, rb := []rune(a), []rune(b)
	la, lb := len(ra), len(rb)
	if la-lb > max || lb-la > max {
		return false
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		rowMin := curr[0]
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
			if curr[j] < rowMin {
				rowMin = curr[j]
			}
		}
		if rowMin > max {
			return false
		}
		prev, curr = curr, prev
	}
	return prev[lb] <= max
}

// prefixWithinDistance reports whether some prefix of term is within max
// edits of word, which is how tolerant matching extends to prefix operands.
func prefixWithinDistance(word, term string, max int) bool {
	rw, rt := []rune(word), []rune(term)
	limit := len(rw) + max
	if len(rt) > limit {
		rt = rt[:limit]
	}
	for end := len(rw) - max; end <= len(rt); end++ {
		if end < 0 {
			continue
		}
		if withinDistance(word, string(rt[:end]), max) {
			return true
		}
	}
	return false
}
