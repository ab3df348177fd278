package hargen

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strings"
)

// fallback vocabulary for when /usr/share/dict/words doesn't exist (windows, containers)
var fallbackWords = []string{
	"explorer", "show", "tree", "select", "refresh", "report", "summary",
	"button", "listnav", "search", "filter", "timeline", "policy", "tag",
	"quota", "tenant", "group", "role", "user", "schedule", "provision",
	"retire", "snapshot", "console", "compare", "drift", "performance",
	"utilization", "capacity", "inventory", "service", "catalog", "dialog",
	"request", "approve", "deny", "queue", "task", "widget", "chart",
	"host", "cluster", "datastore", "network", "subnet", "router", "flavor",
	"template", "image", "volume", "container", "project", "node", "pod",
}

// Dictionary holds the words used for paths and form parameters
type Dictionary struct {
	words []string
}

// LoadDictionary loads lower-case alphabetic words from path, falling back to
// a built-in vocabulary when the file does not exist.
func LoadDictionary(path string) (*Dictionary, error) {
	if path == "" {
		return &Dictionary{words: fallbackWords}, nil
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Dictionary{words: fallbackWords}, nil
		}
		return nil, fmt.Errorf("failed to open dictionary: %w", err)
	}
	defer file.Close()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if len(word) >= 3 && len(word) <= 15 && isAlpha(word) {
			words = append(words, strings.ToLower(word))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dictionary: %w", err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("no valid words found in dictionary %s", path)
	}

	return &Dictionary{words: words}, nil
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// RandomWord returns a random word from the dictionary
func (d *Dictionary) RandomWord(rng *rand.Rand) string {
	if len(d.words) == 0 {
		return "word"
	}
	return d.words[rng.Intn(len(d.words))]
}

// Size returns the number of words in the dictionary
func (d *Dictionary) Size() int {
	return len(d.words)
}
