// Package assets embeds the static files the server ships with:
// word lists for generated game names and the SQL migrations.
package assets

import (
	"bufio"
	"embed"
	"strings"
)

//go:embed adjectives.txt nouns.txt
var FS embed.FS

// Migrations holds sql/*.sql, applied in lexical order.
//
//go:embed sql/*.sql
var Migrations embed.FS

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
		out = append(out, s)
	}
	return out, sc.Err()
}

func AdjectivesList() ([]string, error) {
	return readLines("adjectives.txt")
}

func NounsList() ([]string, error) {
	return readLines("nouns.txt")
}
