package chatbot

// Sample returns count elements of pool drawn uniformly without replacement, in random order.
// The pool itself is left untouched. count is clamped to [0, len(pool)].
func Sample(pool []string, count int, src Source) []string {
	if count > len(pool) {
		count = len(pool)
	}
	if count <= 0 {
		return []string{}
	}

	shuffled := make([]string, len(pool))
	copy(shuffled, pool)

	// partial Fisher-Yates: only the first count slots are settled
	for i := 0; i < count; i++ {
		j := i + src.Intn(len(shuffled)-i)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	return shuffled[:count:count]
}
