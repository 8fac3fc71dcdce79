package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/carolzy/networkai/internal/events"
	"github.com/carolzy/networkai/internal/flow"
)

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.registry.Count(),
	})
}

func (s *Service) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.registry.Create()
	question := s.controller.NextQuestion(r.Context(), sess, flow.StepProduct, "")
	writeJSON(w, http.StatusCreated, map[string]any{
		"session_id":   sess.ID,
		"current_step": flow.StepProduct,
		"question":     question,
	})
}

func (s *Service) session(w http.ResponseWriter, r *http.Request) (*flow.Session, bool) {
	id := chi.URLParam(r, "sessionID")
	sess, ok := s.registry.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return sess, true
}

type advanceRequest struct {
	Step   string `json:"step"`
	Answer string `json:"answer"`
}

func (s *Service) handleAdvance(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req advanceRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Step) == "" {
		writeError(w, http.StatusBadRequest, "step is required")
		return
	}

	result := s.controller.Advance(r.Context(), sess, req.Step, req.Answer)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"session_id":    sess.ID,
		"current_step":  result.CurrentStep,
		"next_step":     result.NextStep,
		"next_question": result.NextQuestion,
		"keywords":      result.Keywords,
	})
}

func (s *Service) handleStatus(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.controller.Status(r.Context(), sess))
}

func (s *Service) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.Reset()
	log.Info().Str("session_id", sess.ID).Msg("Session reset")
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"session_id":   sess.ID,
		"current_step": flow.StepProduct,
	})
}

func (s *Service) handleUserInfo(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var info flow.UserInfo
	if err := decodeBody(r, &info); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sess.SetInfo(info)
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

type searchRequest struct {
	SessionID  string   `json:"session_id"`
	Keywords   []string `json:"keywords"`
	Summary    string   `json:"user_summary"`
	UserType   string   `json:"user_type"`
	Location   string   `json:"location"`
	MaxResults int      `json:"max_results"`
}

// handleSearch runs the event search. Explicit parameters win; anything
// missing is filled from the referenced session.
func (s *Service) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	q := events.Query{
		Keywords:   req.Keywords,
		Summary:    req.Summary,
		UserType:   req.UserType,
		Location:   req.Location,
		MaxResults: req.MaxResults,
	}
	if req.SessionID != "" {
		if sess, ok := s.registry.Get(req.SessionID); ok {
			sc := sess.SearchContext()
			if len(q.Keywords) == 0 {
				q.Keywords = sc.Keywords
			}
			if q.Summary == "" {
				q.Summary = sc.Summary
			}
			if q.UserType == "" {
				q.UserType = string(sc.UserType)
			}
			if q.Location == "" {
				q.Location = sc.Location
			}
		}
	}
	if q.UserType == "" {
		q.UserType = string(flow.UserFounder)
	}

	result := s.ranker.Find(r.Context(), q)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"trade_shows":  formatEvents(result.TradeShows),
		"local_events": formatEvents(result.LocalEvents),
	})
}

type recommendationRequest struct {
	SessionID  string   `json:"session_id"`
	Summary    string   `json:"user_summary"`
	Keywords   []string `json:"keywords"`
	Goals      []string `json:"goals"`
	UserType   string   `json:"user_type"`
	WebsiteURL string   `json:"website_url"`
}

func (s *Service) handleRecommendation(w http.ResponseWriter, r *http.Request) {
	var req recommendationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p := events.RecommendProfile{
		Summary:    req.Summary,
		Keywords:   req.Keywords,
		Goals:      req.Goals,
		UserType:   req.UserType,
		WebsiteURL: req.WebsiteURL,
	}
	if req.SessionID != "" {
		if sess, ok := s.registry.Get(req.SessionID); ok {
			sc := sess.SearchContext()
			if p.Summary == "" {
				p.Summary = sc.Summary
			}
			if len(p.Keywords) == 0 {
				p.Keywords = sc.Keywords
			}
			if len(p.Goals) == 0 {
				p.Goals = sc.Goals
			}
			if p.UserType == "" {
				p.UserType = string(sc.UserType)
			}
			if p.WebsiteURL == "" {
				p.WebsiteURL = sc.Website
			}
		}
	}

	// A previously refined recommendation for the same website beats
	// generating from scratch.
	if s.store != nil && p.WebsiteURL != "" {
		if rec, ok := s.store.Best(p.WebsiteURL); ok {
			writeJSON(w, http.StatusOK, map[string]any{
				"success":        true,
				"recommendation": rec,
				"cached":         true,
			})
			return
		}
	}

	rec := s.recommender.Recommend(r.Context(), p)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"recommendation": rec,
		"cached":         false,
	})
}

// formattedEvent is the API shape of an event: the relevance score is
// presented on a 0-100 scale.
type formattedEvent struct {
	Name             string           `json:"name"`
	Description      string           `json:"description"`
	URL              string           `json:"url"`
	Date             string           `json:"date"`
	Location         string           `json:"location"`
	IsTradeShow      bool             `json:"is_tradeshow"`
	Score            int              `json:"business_value_score"`
	MatchingKeywords []string         `json:"matching_keywords"`
	ConversionPath   string           `json:"conversion_path"`
	Speakers         []events.Speaker `json:"speakers,omitempty"`
}

func formatEvents(evs []events.Event) []formattedEvent {
	out := make([]formattedEvent, 0, len(evs))
	for _, ev := range evs {
		out = append(out, formattedEvent{
			Name:             ev.Name,
			Description:      ev.Description,
			URL:              ev.URL,
			Date:             ev.Date,
			Location:         ev.Location,
			IsTradeShow:      ev.IsTradeShow,
			Score:            int(ev.RelevanceScore * 100),
			MatchingKeywords: ev.MatchingKeywords,
			ConversionPath:   ev.ConversionPath,
			Speakers:         ev.Speakers,
		})
	}
	return out
}
