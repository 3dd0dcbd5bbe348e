package app

import (
	"fmt"
	"strings"
)

const maxSynopsisLength = 1500

const (
	breakingHeader = "**🚨 GROUND NEWS • BREAKING NEWS**"
	updateHeader   = "**🔄 GROUND NEWS • STORY UPDATE**"
)

// formatMessage builds the full post: header, bold title, published
// line, synopsis, link trailer. The trailing URL triggers the channel's
// link preview.
func formatMessage(title, url, published, synopsis string, isUpdate bool) string {
	var b strings.Builder

	if isUpdate {
		b.WriteString(updateHeader + "\n")
	} else {
		b.WriteString(breakingHeader + "\n")
	}
	b.WriteString(fmt.Sprintf("**%s**\n\n", title))

	if published != "" {
		b.WriteString(fmt.Sprintf("*Published: %s*\n\n", published))
	}
	if synopsis != "" {
		b.WriteString(synopsis + "\n\n")
	}

	b.WriteString("Read more: " + url)
	return b.String()
}

// formatMinimalMessage is the fallback when the full post exceeds the
// delivery length limit: header, title and URL only.
func formatMinimalMessage(title, url string, isUpdate bool) string {
	header := breakingHeader
	if isUpdate {
		header = updateHeader
	}
	return fmt.Sprintf("%s\n**%s**\n\nRead more: %s", header, title, url)
}

// truncateAtSentence cuts s to at most max characters, preferring to
// end on a sentence boundary the way a human editor would.
func truncateAtSentence(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	if i := strings.LastIndexAny(cut, ".!?"); i > max/2 {
		return strings.TrimSpace(cut[:i+1])
	}
	return strings.TrimSpace(cut) + "..."
}
