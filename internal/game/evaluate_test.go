package game

import "testing"

func verdicts(r Row) [WordLength]Verdict {
	var v [WordLength]Verdict
	for i, m := range r {
		v[i] = m.Verdict
	}
	return v
}

func TestEvaluate(t *testing.T) {
	c, p, a := VerdictCorrect, VerdictPresent, VerdictAbsent
	cases := []struct {
		name   string
		guess  string
		target string
		want   [WordLength]Verdict
	}{
		{name: "all correct", guess: "robot", target: "robot", want: [WordLength]Verdict{c, c, c, c, c}},
		{name: "no overlap", guess: "lymph", target: "crane", want: [WordLength]Verdict{a, a, a, a, a}},
		{name: "repeated guess letter single remaining", guess: "roomy", target: "robot", want: [WordLength]Verdict{c, c, p, a, a}},
		{name: "present letters shifted", guess: "crane", target: "nacre", want: [WordLength]Verdict{p, p, p, p, c}},
		{name: "duplicate consumed by exact match", guess: "geese", target: "crane", want: [WordLength]Verdict{a, a, a, a, c}},
		{name: "triple letter against single", guess: "eerie", target: "pearl", want: [WordLength]Verdict{a, c, p, a, a}},
		{name: "one present only", guess: "crane", target: "robot", want: [WordLength]Verdict{a, p, a, a, a}},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			got := verdicts(Evaluate(tt.guess, tt.target))
			if got != tt.want {
				t.Errorf("Evaluate(%q, %q) = %v, want %v", tt.guess, tt.target, got, tt.want)
			}
		})
	}
}

// A position is correct iff the letters match there, and for any letter
// the correct+present count never exceeds its count in the target.
func TestEvaluateProperties(t *testing.T) {
	targets := []string{"robot", "pearl", "nacre", "eerie", "llama"}
	guesses := []string{"robot", "roomy", "crane", "geese", "eagle", "llama", "added"}
	for _, target := range targets {
		for _, guess := range guesses {
			row := Evaluate(guess, target)
			for i, m := range row {
				if (m.Verdict == VerdictCorrect) != (guess[i] == target[i]) {
					t.Errorf("Evaluate(%q, %q): position %d verdict %s inconsistent", guess, target, i, m.Verdict)
				}
			}
			credited := map[byte]int{}
			inTarget := map[byte]int{}
			for i := 0; i < WordLength; i++ {
				inTarget[target[i]]++
				if row[i].Verdict == VerdictCorrect || row[i].Verdict == VerdictPresent {
					credited[guess[i]]++
				}
			}
			for ch, n := range credited {
				if n > inTarget[ch] {
					t.Errorf("Evaluate(%q, %q): letter %q credited %d times, target has %d", guess, target, ch, n, inTarget[ch])
				}
			}
		}
	}
}

func TestKeyStatuses(t *testing.T) {
	rows := []Row{
		Evaluate("crane", "robot"),
		Evaluate("robot", "robot"),
	}
	ks := KeyStatuses(rows)
	if ks["r"] != VerdictCorrect {
		t.Errorf("r = %s, want correct (correct must outrank present)", ks["r"])
	}
	if ks["c"] != VerdictAbsent {
		t.Errorf("c = %s, want absent", ks["c"])
	}
	if _, ok := ks["z"]; ok {
		t.Error("unguessed letter should be omitted")
	}
}
