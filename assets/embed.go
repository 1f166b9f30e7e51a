package assets

import (
	"bufio"
	"embed"
	"strings"
)

//go:embed dishes.json valid_words.txt
var FS embed.FS

// DishesJSON returns the raw embedded dish catalog.
func DishesJSON() ([]byte, error) {
	return FS.ReadFile("dishes.json")
}

// ValidWords returns the embedded guess validation list, uppercased,
// with blank lines and #-comments stripped.
func ValidWords() ([]string, error) {
	f, err := FS.Open("valid_words.txt")
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
		out = append(out, strings.ToUpper(s))
	}
	return out, sc.Err()
}
