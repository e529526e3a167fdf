package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/archivo/internal/conversation"
	"github.com/custodia-labs/archivo/internal/core/domain"
	"github.com/custodia-labs/archivo/internal/core/ports/driven"
	"github.com/custodia-labs/archivo/internal/core/ports/driving"
	"github.com/custodia-labs/archivo/internal/logger"
	"github.com/custodia-labs/archivo/internal/textproc"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// ChatService runs the conversation state machine: classify the message,
// interpret follow-ups, search, compare against earlier results and reply.
type ChatService struct {
	search     driving.SearchService
	sessions   driven.SessionStore
	responder  *Responder
	classifier *conversation.Classifier
	detector   *conversation.Detector
	comparator *conversation.Comparator
	metrics    metricsSink

	now   func() time.Time
	newID func() string
}

// NewChatService creates a chat service. The intent section of tables is
// compiled here; empty sections use the built-in patterns.
func NewChatService(
	search driving.SearchService,
	sessions driven.SessionStore,
	responder *Responder,
	tables domain.Tables,
	settings domain.ConversationSettings,
) (*ChatService, error) {
	intent := conversation.WithDefaultIntent(tables.Intent)

	classifier, err := conversation.NewClassifier(intent)
	if err != nil {
		return nil, fmt.Errorf("create classifier: %w", err)
	}
	extractor := textproc.ExtractorFunc(func(text string) domain.Entities {
		return search.Analyze(text).Entities
	})
	detector, err := conversation.NewDetector(intent, extractor)
	if err != nil {
		return nil, fmt.Errorf("create follow-up detector: %w", err)
	}

	opts := []conversation.ComparatorOption{
		conversation.WithTopicThreshold(settings.TopicThreshold),
		conversation.WithFuzzyThreshold(settings.TitleFuzzyThreshold),
	}
	if settings.FuzzyComparator {
		opts = append(opts, conversation.WithFuzzyTopics())
	}

	return &ChatService{
		search:     search,
		sessions:   sessions,
		responder:  responder,
		classifier: classifier,
		detector:   detector,
		comparator: conversation.NewComparator(opts...),
		now:        time.Now,
		newID:      uuid.NewString,
	}, nil
}

// SetMetrics sets the collector for turn events.
func (c *ChatService) SetMetrics(m driven.Metrics) {
	c.metrics = metricsSink{m: m}
}

// Chat answers one message.
func (c *ChatService) Chat(ctx context.Context, sessionID, message string) (*domain.ChatReply, error) {
	start := time.Now()

	message = strings.TrimSpace(message)
	if message == "" {
		return nil, domain.ErrEmptyMessage
	}
	if sessionID == "" {
		sessionID = c.newID()
	}

	session, ok := c.sessions.Get(ctx, sessionID)
	if !ok {
		session = domain.NewSession(sessionID, c.now())
	}

	reply, err := c.turn(ctx, session, message)
	if err != nil {
		return nil, err
	}

	logger.Debug("Session %s: %s turn (intent %q) in %s",
		session.ID, reply.Kind, reply.Intent, time.Since(start))
	c.metrics.turn(reply.Kind.String(), time.Since(start))
	c.metrics.sessions(c.sessions.Len())
	return reply, nil
}

func (c *ChatService) turn(ctx context.Context, session *domain.Session, message string) (*domain.ChatReply, error) {
	reply := &domain.ChatReply{
		SessionID: session.ID,
		Documents: []domain.ScoredDocument{},
	}

	kind := c.classifier.Classify(message)
	reply.ConversationType = kind
	followUp := session.IsFollowUp()

	if kind.IsConversational() {
		if followUp && kind == domain.ConversationGratitude {
			reply.Intent = domain.IntentSatisfied
			return c.canned(reply, domain.ReplySatisfied), nil
		}
		return c.canned(reply, domain.ReplyKind(kind)), nil
	}

	text := message
	query := message
	if followUp {
		text = c.detector.RemoveGreetings(message)
		if c.detector.HasExplicitSearch(text) {
			reply.Intent = domain.IntentNewSearch
		} else {
			reply.Intent = c.detector.Detect(text)
		}

		switch reply.Intent {
		case domain.IntentUnsatisfied:
			return c.canned(reply, domain.ReplyClarification), nil
		case domain.IntentSatisfied:
			return c.canned(reply, domain.ReplySatisfied), nil
		}
		query = c.search.Analyze(text).Entities.RefinedQuery(text)
		logger.Debug("Follow-up %s, searching %q", reply.Intent, query)
	}

	if c.search.IsOutOfScope(text) {
		return c.canned(reply, domain.ReplyOutOfScope), nil
	}

	docs, err := c.search.Search(ctx, query, 0)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	reply.Query = query
	reply.Documents = docs

	if followUp {
		fresh, seen := c.comparator.Compare(docs, session.PreviousHrefs())
		reply.NewCount, reply.RepeatedCount = len(fresh), len(seen)

		current := make([]domain.Document, 0, len(docs))
		for i := range docs {
			current = append(current, docs[i].Document)
		}
		reply.TopicSimilarity = c.comparator.TopicSimilarity(current, session.LastResults)
		if c.comparator.IsTopicShift(current, session.LastResults) {
			logger.Debug("Topic shift in session %s (similarity %.2f)", session.ID, reply.TopicSimilarity)
		}
	} else {
		reply.NewCount = len(docs)
	}

	session.AddSearch(query, docs, c.now())
	c.sessions.Put(ctx, session)

	reply.Kind, reply.Text = c.responder.Compose(ctx, query, docs)
	return reply, nil
}

func (c *ChatService) canned(reply *domain.ChatReply, kind domain.ReplyKind) *domain.ChatReply {
	reply.Kind = kind
	reply.Text = c.responder.Canned(kind)
	return reply
}

// Reset forgets the session.
func (c *ChatService) Reset(ctx context.Context, sessionID string) {
	c.sessions.Delete(ctx, sessionID)
	c.metrics.sessions(c.sessions.Len())
}

// Sessions returns the number of live sessions.
func (c *ChatService) Sessions() int {
	return c.sessions.Len()
}

// ReloadTables recompiles the intent and follow-up patterns. If either
// fails to compile, the error is returned and both keep their previous
// patterns.
func (c *ChatService) ReloadTables(tables domain.Tables) error {
	intent := conversation.WithDefaultIntent(tables.Intent)
	if _, err := conversation.NewDetector(intent, nil); err != nil {
		return fmt.Errorf("reload follow-up detector: %w", err)
	}
	if err := c.classifier.Reload(intent); err != nil {
		return fmt.Errorf("reload classifier: %w", err)
	}
	if err := c.detector.Reload(intent); err != nil {
		return fmt.Errorf("reload follow-up detector: %w", err)
	}
	logger.Info("Conversation tables reloaded")
	return nil
}
