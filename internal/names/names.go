// internal/names/names.go
//
// Generates default game names such as "Epic Bowl #2345".
//
// Word lists:
//   - adjectives and nouns are embedded in the assets package.
//   - NAMES_ADJECTIVES_FILE / NAMES_NOUNS_FILE replace them with one word per line.
//
// Initialization is run once (sync.Once). If a list ends up empty, a small
// built-in fallback is used so Random never fails.

package names

import (
	"bufio"
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/bowling/assets"
)

var (
	initOnce   sync.Once
	adjectives []string
	nouns      []string
	initErr    error
)

// Init loads the word lists exactly once.
func Init() error {
	initOnce.Do(func() {
		adjectives, initErr = load("NAMES_ADJECTIVES_FILE", assets.AdjectivesList)
		if initErr != nil {
			return
		}
		nouns, initErr = load("NAMES_NOUNS_FILE", assets.NounsList)
	})
	return initErr
}

func load(env string, embedded func() ([]string, error)) ([]string, error) {
	if path := os.Getenv(env); path != "" {
		list, err := readWordFile(path)
		if err != nil {
			return nil, fmt.Errorf("names: read %s: %w", path, err)
		}
		log.Debug().Str("file", path).Int("words", len(list)).Msg("loaded name list")
		return list, nil
	}
	return embedded()
}

// readWordFile loads one word per line, skipping blanks and # comments.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		w := strings.TrimSpace(sc.Text())
		if w != "" && !strings.HasPrefix(w, "#") {
			out = append(out, w)
		}
	}
	return out, sc.Err()
}

// Random returns "<Adjective> <Noun> #<1000..9999>".
func Random() string {
	if err := Init(); err != nil {
		log.Warn().Err(err).Msg("name lists unavailable, using fallback")
	}
	return fmt.Sprintf("%s %s #%d", pick(adjectives, "Epic"), pick(nouns, "Bowl"), 1000+randInt(9000))
}

func pick(list []string, fallback string) string {
	if len(list) == 0 {
		return fallback
	}
	return list[randInt(len(list))]
}

// randInt returns a cryptographically random int in [0, n).
func randInt(n int) int {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(nBig.Int64())
}
