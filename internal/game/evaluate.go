// internal/game/evaluate.go
//
// Guess scoring. Implements the standard two-pass algorithm so that
// repeated letters are credited at most count(letter, target) times,
// with exact-position matches taking precedence.

package game

// Evaluate scores guess against target and returns the marked row.
// Both inputs must be WordLength lowercase a-z words; callers validate
// before evaluation, never coerce.
//
// Pass 1: mark exact matches as correct and count the remaining
// target letters. Pass 2: for each unresolved position, mark present
// while the letter has remaining count, otherwise absent.
func Evaluate(guess, target string) Row {
	var row Row

	// Letter frequency for the non-exact target positions (a-z).
	var counts [26]int

	for i := 0; i < WordLength; i++ {
		row[i].Letter = string(guess[i])
		if guess[i] == target[i] {
			row[i].Verdict = VerdictCorrect
		} else {
			counts[target[i]-'a']++
		}
	}

	for i := 0; i < WordLength; i++ {
		if row[i].Verdict == VerdictCorrect {
			continue
		}
		j := int(guess[i] - 'a')
		if j >= 0 && j < 26 && counts[j] > 0 {
			row[i].Verdict = VerdictPresent
			counts[j]--
		} else {
			row[i].Verdict = VerdictAbsent
		}
	}
	return row
}

// KeyStatuses derives the best-known verdict per letter across all
// committed rows, for keyboard rendering. correct beats present beats
// absent; letters never guessed are omitted.
func KeyStatuses(rows []Row) map[string]Verdict {
	rank := map[Verdict]int{VerdictAbsent: 1, VerdictPresent: 2, VerdictCorrect: 3}
	out := make(map[string]Verdict)
	for _, row := range rows {
		for _, m := range row {
			if m.Verdict == VerdictEmpty || m.Letter == "" {
				continue
			}
			if rank[m.Verdict] > rank[out[m.Letter]] {
				out[m.Letter] = m.Verdict
			}
		}
	}
	return out
}
