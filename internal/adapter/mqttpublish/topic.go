package mqttpublish

import "strings"

// expandTopic substitutes {host}, replacing characters that are not
// allowed in a topic level.
func expandTopic(topic, host string) string {
	safe := strings.NewReplacer("/", "_", "+", "_", "#", "_").Replace(host)
	return strings.ReplaceAll(topic, "{host}", safe)
}
