package assets

import (
	"bufio"
	"embed"
	"strings"
)

//go:embed fallback_words.txt
var FS embed.FS

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, strings.ToLower(s))
	}
	return out, sc.Err()
}

// FallbackWords returns the small built-in word list used when no
// remote word list could be loaded.
func FallbackWords() ([]string, error) {
	return readLines("fallback_words.txt")
}
