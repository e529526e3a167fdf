package driven

import "time"

// ResponseCatalog returns canned replies for turns that need no search.
type ResponseCatalog interface {
	// Reply returns one reply for the category (a domain.ReplyKind value).
	// now lets greetings follow the time of day.
	// Unknown categories return an empty string.
	Reply(category string, now time.Time) string
}
