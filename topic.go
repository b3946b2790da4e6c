package ezweb

import (
	"strings"
	"unicode/utf8"
)

// TopicCandidate is a possible topic label and the tag it was found in.
type TopicCandidate struct {
	Text string
	Tag  string
}

// topicStopWords are navigation labels that are never topics.
var topicStopWords = []string{
	"فروشگاه", "خانه", "صفحه اصلی", "برگشت", "بازگشت", "ورود",
	"home", "return", "back", "undo", "shop", "change", "login",
}

// topicMarker is a placeholder sequence some templates leave in empty labels.
const topicMarker = "@:]["

// OKTopicName reports whether name is acceptable as a topic of a page on the
// site called siteName.
func OKTopicName(name, siteName string, th Thresholds) bool {
	name = strings.TrimSpace(name)
	if name == "" || IsDigits(name) {
		return false
	}
	lower := strings.ToLower(name)
	if utf8.RuneCountInString(lower) > th.TopicMaxLength {
		return false
	}
	if strings.Contains(lower, topicMarker) {
		return false
	}
	for _, w := range topicStopWords {
		if lower == w || strings.HasPrefix(lower, w+" ") {
			return false
		}
	}
	if siteName == "" {
		return true
	}
	if strings.EqualFold(name, siteName) {
		return false
	}
	return Similarity(lower, strings.ToLower(siteName)) <= th.TopicSiteNameCeiling
}

// FilterTopics applies OKTopicName to candidates and returns the capitalized
// survivors without duplicates, in first-seen order.
func FilterTopics(candidates []TopicCandidate, siteName string, th Thresholds) []string {
	seen := make(map[string]bool)
	var topics []string
	for _, c := range candidates {
		text := CleanText(c.Text)
		if !OKTopicName(text, siteName, th) {
			continue
		}
		topic := Capitalize(text)
		if seen[topic] {
			continue
		}
		seen[topic] = true
		topics = append(topics, topic)
	}
	return topics
}
