package domain

import (
	"slices"
	"time"
)

// ConversationType classifies a user utterance.
type ConversationType string

// Conversation types, in classifier precedence order.
const (
	ConversationGreeting  ConversationType = "greeting"
	ConversationFarewell  ConversationType = "farewell"
	ConversationGratitude ConversationType = "gratitude"
	ConversationHelp      ConversationType = "help"
	ConversationSmalltalk ConversationType = "smalltalk"
	ConversationSearch    ConversationType = "search"
)

// IsValid returns true if the type is recognised.
func (c ConversationType) IsValid() bool {
	switch c {
	case ConversationGreeting, ConversationFarewell, ConversationGratitude,
		ConversationHelp, ConversationSmalltalk, ConversationSearch:
		return true
	default:
		return false
	}
}

// IsConversational returns true for every type that is answered with a
// canned reply instead of a search.
func (c ConversationType) IsConversational() bool {
	return c.IsValid() && c != ConversationSearch
}

// String returns the string representation.
func (c ConversationType) String() string {
	return string(c)
}

// FollowUpIntent is what a user wants after a previous search.
type FollowUpIntent string

// Follow-up intents.
const (
	IntentNone        FollowUpIntent = ""
	IntentSatisfied   FollowUpIntent = "satisfied"
	IntentUnsatisfied FollowUpIntent = "unsatisfied"
	IntentRefinement  FollowUpIntent = "refinement"
	IntentNewSearch   FollowUpIntent = "new_search"
)

// String returns the string representation.
func (i FollowUpIntent) String() string {
	return string(i)
}

// ReplyKind identifies which branch produced a chat reply.
// Each kind except ReplyResults maps to a canned-response category.
type ReplyKind string

// Reply kinds.
const (
	ReplyGreeting      ReplyKind = "greeting"
	ReplyFarewell      ReplyKind = "farewell"
	ReplyGratitude     ReplyKind = "gratitude"
	ReplyHelp          ReplyKind = "help"
	ReplySmalltalk     ReplyKind = "smalltalk"
	ReplySatisfied     ReplyKind = "satisfied"
	ReplyClarification ReplyKind = "clarification"
	ReplyResults       ReplyKind = "results"
	ReplyNoResults     ReplyKind = "no_results"
	ReplyOutOfScope    ReplyKind = "out_of_scope"
)

// String returns the string representation.
func (k ReplyKind) String() string {
	return string(k)
}

// SearchRecord is one search recorded in a session.
type SearchRecord struct {
	Query     string    `json:"query"`
	Hrefs     []string  `json:"hrefs"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the short-term memory of one conversation.
type Session struct {
	ID          string         `json:"id"`
	History     []SearchRecord `json:"history"`
	LastResults []Document     `json:"last_results"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// NewSession creates an empty session.
func NewSession(id string, now time.Time) *Session {
	return &Session{ID: id, CreatedAt: now, UpdatedAt: now}
}

// IsFollowUp returns true once the session has recorded a search.
func (s *Session) IsFollowUp() bool {
	return len(s.History) > 0
}

// PreviousHrefs returns every href returned by the recorded searches.
func (s *Session) PreviousHrefs() map[string]struct{} {
	hrefs := make(map[string]struct{})
	for _, rec := range s.History {
		for _, h := range rec.Hrefs {
			hrefs[h] = struct{}{}
		}
	}
	return hrefs
}

// AddSearch records a search and its results.
func (s *Session) AddSearch(query string, results []ScoredDocument, now time.Time) {
	docs := make([]Document, 0, len(results))
	for i := range results {
		docs = append(docs, results[i].Document)
	}
	s.History = append(s.History, SearchRecord{
		Query:     query,
		Hrefs:     Hrefs(results),
		Timestamp: now,
	})
	s.LastResults = docs
	s.UpdatedAt = now
}

// LastQuery returns the query of the most recent search.
func (s *Session) LastQuery() string {
	if len(s.History) == 0 {
		return ""
	}
	return s.History[len(s.History)-1].Query
}

// Clone returns a deep copy so stored sessions are never shared.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.History = make([]SearchRecord, len(s.History))
	for i, rec := range s.History {
		rec.Hrefs = slices.Clone(rec.Hrefs)
		c.History[i] = rec
	}
	c.LastResults = slices.Clone(s.LastResults)
	return &c
}

// ChatReply is the outcome of one conversational turn.
type ChatReply struct {
	SessionID        string           `json:"session_id"`
	Kind             ReplyKind        `json:"kind"`
	ConversationType ConversationType `json:"conversation_type"`
	Intent           FollowUpIntent   `json:"intent,omitempty"`

	// Query is the query actually searched (empty if no search ran).
	Query     string           `json:"query,omitempty"`
	Documents []ScoredDocument `json:"documents"`

	// Follow-up comparison against earlier results.
	NewCount        int     `json:"new_count"`
	RepeatedCount   int     `json:"repeated_count"`
	TopicSimilarity float64 `json:"topic_similarity"`

	// Text is the Markdown reply.
	Text string `json:"response"`
}

// Searched returns true when the turn ran the ranking engine.
func (r *ChatReply) Searched() bool {
	return r.Query != ""
}
