package knowledge

import (
	"strings"

	"github.com/agrisense-ai/agribot/internal/observability"
)

// Topics is the fixed topic set. Every store carries all of them, possibly
// empty. The order is load order and drives tie-breaks in global search.
var Topics = []string{"crops", "pests", "soil", "weather", "general"}

// KeyedEntry pairs an entry with its lookup key.
type KeyedEntry struct {
	Key   string
	Entry *Entry
}

// topicData holds one topic's entries in insertion order.
type topicData struct {
	name    string
	entries []KeyedEntry
}

// Store is the read-only in-memory knowledge store. Topics and entries keep
// insertion order so that equal-score candidates resolve deterministically
// (first encountered wins, strict greater-than comparison).
type Store struct {
	topics []topicData
}

// Options configures the external data sources tried by Load. Both are
// optional; absence is a normal use-the-defaults state.
type Options struct {
	// DataPath points at a JSON file holding the crops topic.
	DataPath string
	// SQLitePath points at a SQLite database holding any topics.
	SQLitePath string
}

// Load constructs the store. It tries the SQLite source first, then the JSON
// crops file, topping up missing topics from the built-in dataset. Read
// failures are logged and absorbed; Load always returns a usable store.
func Load(logger *observability.Logger, opts Options) *Store {
	s := emptyStore()

	if opts.SQLitePath != "" {
		if err := s.loadSQLite(opts.SQLitePath); err != nil {
			logger.Warn().Err(err).Str("path", opts.SQLitePath).
				Msg("could not load knowledge database, falling back")
		}
	}

	if opts.DataPath != "" && s.topicSize("crops") == 0 {
		if err := s.loadCropsFile(opts.DataPath); err != nil {
			logger.Warn().Err(err).Str("path", opts.DataPath).
				Msg("could not load crops data file, using defaults")
		}
	}

	// Top up topics no source provided.
	for i := range s.topics {
		if len(s.topics[i].entries) == 0 {
			s.topics[i].entries = defaultTopicEntries(s.topics[i].name)
		}
	}

	total := 0
	for _, t := range s.topics {
		total += len(t.entries)
	}
	logger.Info().Int("entries", total).Msg("knowledge store loaded")

	return s
}

// emptyStore returns a store with every fixed topic present and empty.
func emptyStore() *Store {
	s := &Store{topics: make([]topicData, 0, len(Topics))}
	for _, name := range Topics {
		s.topics = append(s.topics, topicData{name: name})
	}
	return s
}

// TopicNames returns the topic names in store order.
func (s *Store) TopicNames() []string {
	names := make([]string, 0, len(s.topics))
	for _, t := range s.topics {
		names = append(names, t.name)
	}
	return names
}

// Entries returns the entries of a topic in store order, or nil when the
// topic is unknown.
func (s *Store) Entries(topic string) []KeyedEntry {
	for _, t := range s.topics {
		if t.name == topic {
			return t.entries
		}
	}
	return nil
}

// Search returns the highest-scoring entry for the query, or nil when every
// candidate scores zero. A topic present in the store scopes the scan; an
// empty or unknown topic falls back to scanning the whole store.
func (s *Store) Search(query, topic string) *Entry {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return nil
	}

	if topic != "" {
		if t := s.find(topic); t != nil {
			return bestMatch(words, t.entries)
		}
	}

	var best *Entry
	highest := 0
	for _, t := range s.topics {
		for _, ke := range t.entries {
			if score := relevance(words, ke.Key, ke.Entry); score > highest {
				highest = score
				best = ke.Entry
			}
		}
	}
	return best
}

func (s *Store) find(topic string) *topicData {
	for i := range s.topics {
		if s.topics[i].name == topic {
			return &s.topics[i]
		}
	}
	return nil
}

func (s *Store) topicSize(topic string) int {
	if t := s.find(topic); t != nil {
		return len(t.entries)
	}
	return 0
}

// addEntry appends an entry under a topic, creating the topic if it is not
// one of the fixed set (load-time only; the store is read-only afterwards).
func (s *Store) addEntry(topic, key string, e *Entry) {
	t := s.find(topic)
	if t == nil {
		s.topics = append(s.topics, topicData{name: topic})
		t = &s.topics[len(s.topics)-1]
	}
	t.entries = append(t.entries, KeyedEntry{Key: key, Entry: e})
}

// bestMatch scans entries in order and keeps the first highest-scoring one.
func bestMatch(words []string, entries []KeyedEntry) *Entry {
	var best *Entry
	highest := 0
	for _, ke := range entries {
		if score := relevance(words, ke.Key, ke.Entry); score > highest {
			highest = score
			best = ke.Entry
		}
	}
	return best
}

// relevance computes the heuristic match score between query words and one
// entry: +2 when any word is a substring of the key, +1 per scalar field
// containing any word, +1 when a bare-text entry contains any word. List
// fields never score, and there is no normalization by field count, so dense
// entries are deliberately favored for compatibility with existing content.
func relevance(words []string, key string, e *Entry) int {
	score := 0

	if containsAny(strings.ToLower(key), words) {
		score += 2
	}

	if e.IsText() {
		if containsAny(strings.ToLower(e.Text), words) {
			score++
		}
		return score
	}

	for _, f := range e.Fields {
		if f.List != nil {
			continue
		}
		if containsAny(strings.ToLower(f.Value), words) {
			score++
		}
	}
	return score
}

func containsAny(haystack string, words []string) bool {
	for _, w := range words {
		if strings.Contains(haystack, w) {
			return true
		}
	}
	return false
}
