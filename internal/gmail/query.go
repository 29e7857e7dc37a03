package gmail

import (
	"fmt"
	"strings"
)

// BuildQuery assembles the Gmail search query for an ingestion run: a
// subject disjunction over the keywords, restricted to messages with
// attachments inside the [after, before) epoch window.
//
// Keywords are deduplicated case-insensitively, keeping the first spelling
// seen. Base keywords come first so user additions never reorder them.
func BuildQuery(keywords []string, afterEpoch, beforeEpoch int64) string {
	quoted := make([]string, 0, len(keywords))
	seen := make(map[string]struct{}, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		lower := strings.ToLower(kw)
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		quoted = append(quoted, fmt.Sprintf("%q", kw))
	}

	return fmt.Sprintf("subject:(%s) has:attachment after:%d before:%d",
		strings.Join(quoted, " OR "), afterEpoch, beforeEpoch)
}
