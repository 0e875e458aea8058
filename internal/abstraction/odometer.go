package abstraction

// enumerateCombinations walks the Cartesian product of admissible[i] for
// each free variable freeVars[i], in canonical odometer order — the last
// free variable varies fastest. base supplies the value for every
// variable not in freeVars. emit is called once per combination with a
// fresh state slice, which it may retain.
func enumerateCombinations(freeVars []int, admissible [][]int, base []int, emit func(state []int)) {
	n := len(freeVars)
	idx := make([]int, n)
	state := append([]int(nil), base...)

	for {
		for i, v := range freeVars {
			state[v] = admissible[i][idx[i]]
		}
		emitted := append([]int(nil), state...)
		emit(emitted)

		pos := n - 1
		for pos >= 0 {
			idx[pos]++
			if idx[pos] < len(admissible[pos]) {
				break
			}
			idx[pos] = 0
			pos--
		}
		if pos < 0 {
			return
		}
	}
}
