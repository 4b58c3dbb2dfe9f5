package engine

// Similarity is a Jaro-Winkler score in [0,1] between two normalized names.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	ar, br := []rune(a), []rune(b)
	if len(ar) == 0 || len(br) == 0 {
		return 0
	}

	maxLen := len(ar)
	if len(br) > maxLen {
		maxLen = len(br)
	}
	window := maxLen/2 - 1
	if window < 0 {
		window = 0
	}

	aMatched := make([]bool, len(ar))
	bMatched := make([]bool, len(br))
	matches := 0
	for i := range ar {
		start := i - window
		if start < 0 {
			start = 0
		}
		end := i + window + 1
		if end > len(br) {
			end = len(br)
		}
		for j := start; j < end; j++ {
			if bMatched[j] || ar[i] != br[j] {
				continue
			}
			aMatched[i] = true
			bMatched[j] = true
			matches++
			break
		}
	}
	if matches == 0 {
		return 0
	}

	transpositions := 0
	k := 0
	for i := range ar {
		if !aMatched[i] {
			continue
		}
		for !bMatched[k] {
			k++
		}
		if ar[i] != br[k] {
			transpositions++
		}
		k++
	}

	m := float64(matches)
	jaro := (m/float64(len(ar)) + m/float64(len(br)) + (m-float64(transpositions)/2)/m) / 3

	prefix := 0
	for i := 0; i < 4 && i < len(ar) && i < len(br); i++ {
		if ar[i] != br[i] {
			break
		}
		prefix++
	}
	return jaro + float64(prefix)*0.1*(1-jaro)
}
