// Package dialogue implements the query routing pipeline: topic
// classification, greeting and farewell detection, weather dispatch, and
// knowledge-augmented generation.
package dialogue

import "strings"

// topicPatterns pairs a topic with its keyword set. Table order is the
// tie-break order: the earliest topic wins an equal score.
type topicPatterns struct {
	topic    string
	keywords []string
}

// patternTable is constant for the process lifetime.
var patternTable = []topicPatterns{
	{"crops", []string{"crop", "crops", "plant", "plants", "grow", "cultivation", "farming"}},
	{"pests", []string{"pest", "pests", "insect", "insects", "bug", "bugs", "disease", "diseases"}},
	{"soil", []string{"soil", "fertilizer", "fertiliser", "nutrients", "ph", "compost"}},
	{"weather", []string{"weather", "rain", "season", "climate", "temperature", "humidity", "pressure", "forecast"}},
	{"seeds", []string{"seed", "seeds", "planting", "sowing", "germination"}},
	{"harvest", []string{"harvest", "harvesting", "yield", "production", "storage"}},
}

// ClassifyTopic scores normalized text against the pattern table by keyword
// substring hits and returns the best topic. A stable argmax: equal counts
// resolve to the earlier table entry, and a zero-hit text yields no topic.
func ClassifyTopic(text string) (string, bool) {
	best := ""
	bestCount := 0
	for _, tp := range patternTable {
		count := 0
		for _, kw := range tp.keywords {
			if strings.Contains(text, kw) {
				count++
			}
		}
		if count > bestCount {
			best = tp.topic
			bestCount = count
		}
	}
	return best, bestCount > 0
}

// weatherKeywords returns the weather row of the pattern table; the router's
// weather check and the classifier share one keyword set.
func weatherKeywords() []string {
	for _, tp := range patternTable {
		if tp.topic == "weather" {
			return tp.keywords
		}
	}
	return nil
}
