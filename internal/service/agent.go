package service

import (
	"context"

	"go.uber.org/zap"

	"carsearch/internal/model"
)

// CarSearcher is the catalog surface the conversational agent needs.
type CarSearcher interface {
	SearchCars(ctx context.Context, filters *model.CarFilters, page model.Pagination) (*model.SearchPage, error)
}

// Session is the conversational state for one connection: accumulated
// preferences, bounded search history, and the last result set for
// refinement detection. Sessions are not safe for concurrent use; the
// connection's read loop serializes turns.
type Session struct {
	extractor *Extractor
	searcher  CarSearcher
	logger    *zap.Logger

	prefs       model.Preferences
	history     SearchHistory
	lastResults []model.CarDetail
}

// NewSession creates an empty conversation.
func NewSession(extractor *Extractor, searcher CarSearcher, logger *zap.Logger) *Session {
	return &Session{
		extractor: extractor,
		searcher:  searcher,
		logger:    logger,
		prefs:     model.Preferences{},
	}
}

// Process runs one conversation turn: extract preferences from the message,
// merge them into accumulated state, then either search the catalog or ask
// one clarifying question. A turn always produces a reply; failures and
// panics degrade to an apology rather than killing the session.
func (s *Session) Process(ctx context.Context, message string) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("conversation turn panicked", zap.Any("panic", r))
			reply = "Sorry, something went wrong while processing your message. Could you try again?"
		}
	}()

	refining := IsRefinement(message, len(s.lastResults) > 0)
	var prior []model.CarDetail
	if refining {
		prior = s.lastResults
	}
	extracted := s.extractor.Extract(ctx, message, s.prefs, prior)
	s.prefs = model.MergePreferences(s.prefs, extracted)

	s.logger.Debug("conversation turn",
		zap.Any("extracted", extracted),
		zap.Bool("refinement", refining),
		zap.Int("accumulated", len(s.prefs)))

	if len(s.prefs) > 0 {
		return s.search(ctx)
	}
	return s.extractor.Question(ctx, s.prefs)
}

func (s *Session) search(ctx context.Context) string {
	filterMap := FiltersFromPreferences(s.prefs)
	page := model.Pagination{Page: 1, PageSize: model.ConversationalPageSize}.Normalize(model.ConversationalPageSize)

	results, err := s.searcher.SearchCars(ctx, model.FiltersFromMap(filterMap), page)
	if err != nil {
		s.logger.Error("conversational search failed", zap.Error(err))
		s.history.Add(SearchRecord{
			Filters:  filterMap,
			Page:     page.Page,
			PageSize: page.PageSize,
		})
		return "Sorry, something went wrong while searching. Could you try again?"
	}

	s.history.Add(SearchRecord{
		Filters:     filterMap,
		Page:        page.Page,
		PageSize:    page.PageSize,
		ResultCount: len(results.Results),
		Success:     true,
	})

	if len(results.Results) == 0 {
		s.lastResults = nil
		return FormatResults(nil, s.prefs)
	}

	s.lastResults = results.Results
	return FormatResults(results.Results, s.prefs)
}

// Preferences returns a copy of the accumulated preference map.
func (s *Session) Preferences() model.Preferences {
	out := make(model.Preferences, len(s.prefs))
	for k, v := range s.prefs {
		out[k] = v
	}
	return out
}

// History returns the retained search records.
func (s *Session) History() []SearchRecord {
	return s.history.Records()
}

// LastResults returns the most recent non-empty result set.
func (s *Session) LastResults() []model.CarDetail {
	return s.lastResults
}
