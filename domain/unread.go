package domain

import "iter"

// UnreadCount counts messages userID has not read yet. It holds no state:
// the result is always recomputed from the log.
func UnreadCount(messages iter.Seq[Message], userID UserID) int {
	count := 0
	for m := range messages {
		if m.UnreadBy(userID) {
			count++
		}
	}
	return count
}
