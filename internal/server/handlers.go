package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	svcErr "github.com/campusmatch/campusmatch/internal/errors"
	"github.com/campusmatch/campusmatch/internal/service/chat"
	"github.com/campusmatch/campusmatch/internal/service/discover"
)

// envelope is the common response wrapper: success flag plus a
// human-readable message on failure.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type candidatesResponse struct {
	envelope
	Users []discover.CandidateView `json:"users"`
}

type swipeRequest struct {
	TargetID uint64 `json:"target_id"`
	Action   string `json:"action"`
}

type swipeResponse struct {
	envelope
	Matched bool `json:"matched"`
}

type matchView struct {
	MatchID       uint64    `json:"match_id"`
	MatchedUserID uint64    `json:"matched_user_id"`
	FirstName     string    `json:"first_name"`
	CollegeName   string    `json:"college_name"`
	PictureURL    string    `json:"profile_picture_url,omitempty"`
	Bio           string    `json:"bio,omitempty"`
	MatchTime     time.Time `json:"match_time"`
}

type matchesResponse struct {
	envelope
	Matches       []matchView `json:"matches"`
	NextPageToken *string     `json:"next_page_token,omitempty"`
}

type messagesResponse struct {
	envelope
	Messages []chat.MessageView `json:"messages"`
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type sendMessageResponse struct {
	envelope
	Data *chat.MessageView `json:"data"`
}

type countResponse struct {
	envelope
	Count int64 `json:"count"`
}

type profileView struct {
	UserID           uint64   `json:"user_id"`
	Email            string   `json:"email"`
	FirstName        string   `json:"first_name"`
	CollegeName      string   `json:"college_name"`
	Bio              string   `json:"bio,omitempty"`
	Pictures         []string `json:"pictures"`
	Gender           string   `json:"gender,omitempty"`
	Seeking          string   `json:"seeking,omitempty"`
	RelationshipGoal string   `json:"relationship_goal,omitempty"`
	Interests        []string `json:"interests"`
}

type profileResponse struct {
	envelope
	Profile profileView `json:"profile"`
}

type interestView struct {
	ID   uint64 `json:"interest_id"`
	Name string `json:"interest_name"`
}

type interestsResponse struct {
	envelope
	Interests []interestView `json:"interests"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeEnvelope(w, http.StatusOK, envelope{Success: true, Message: "ok"})
}

func (s *Server) handleCandidates(w http.ResponseWriter, r *http.Request) {
	views, err := s.discover.Candidates(r.Context(), requesterID(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, candidatesResponse{
		envelope: envelope{Success: true},
		Users:    views,
	})
}

func (s *Server) handleSwipe(w http.ResponseWriter, r *http.Request) {
	var req swipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, svcErr.InvalidArgument("invalid request payload"))
		return
	}

	matched, err := s.swipes.Record(r.Context(), requesterID(r), req.TargetID, req.Action)
	if err != nil {
		s.writeError(w, err)
		return
	}

	msg := "Swipe recorded"
	if matched {
		msg = "It's a match!"
	}
	s.writeJSON(w, http.StatusOK, swipeResponse{
		envelope: envelope{Success: true, Message: msg},
		Matched:  matched,
	})
}

func (s *Server) handleMatches(w http.ResponseWriter, r *http.Request) {
	var token *string
	if v := r.URL.Query().Get("page_token"); v != "" {
		token = &v
	}

	summaries, nextToken, err := s.swipes.Matches(r.Context(), requesterID(r), token)
	if err != nil {
		s.writeError(w, err)
		return
	}

	matches := make([]matchView, 0, len(summaries))
	for _, m := range summaries {
		matches = append(matches, matchView{
			MatchID:       m.MatchID,
			MatchedUserID: m.PeerID,
			FirstName:     m.FirstName,
			CollegeName:   m.CollegeName,
			PictureURL:    m.PictureURL,
			Bio:           m.Bio,
			MatchTime:     m.CreatedAt,
		})
	}
	s.writeJSON(w, http.StatusOK, matchesResponse{
		envelope:      envelope{Success: true},
		Matches:       matches,
		NextPageToken: nextToken,
	})
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	matchID, err := parseMatchID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	views, err := s.chat.List(r.Context(), requesterID(r), matchID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, messagesResponse{
		envelope: envelope{Success: true},
		Messages: views,
	})
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	matchID, err := parseMatchID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, svcErr.InvalidArgument("invalid request payload"))
		return
	}

	view, err := s.chat.Send(r.Context(), requesterID(r), matchID, req.Text)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, sendMessageResponse{
		envelope: envelope{Success: true, Message: "Message sent successfully"},
		Data:     view,
	})
}

func (s *Server) handleAdmirerCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.swipes.AdmirerCount(r.Context(), requesterID(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, countResponse{
		envelope: envelope{Success: true},
		Count:    count,
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	userID := requesterID(r)

	user, err := s.profileRepo.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.writeError(w, svcErr.NotFound("profile not found"))
			return
		}
		s.writeError(w, svcErr.Map(err))
		return
	}

	view := profileView{
		UserID:      user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		CollegeName: user.College.Name,
		Pictures:    []string{},
		Interests:   []string{},
	}

	profile, err := s.profileRepo.GetProfile(r.Context(), userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.writeError(w, svcErr.Map(err))
		return
	}
	if profile != nil {
		view.Bio = profile.Bio
		view.Gender = profile.Gender
		view.Seeking = profile.Seeking
		view.RelationshipGoal = profile.RelationshipGoal
		for _, url := range []string{profile.PictureURL, profile.Picture2URL, profile.Picture3URL} {
			if url != "" {
				view.Pictures = append(view.Pictures, url)
			}
		}
	}

	if names, err := s.profileRepo.InterestNames(r.Context(), userID); err == nil {
		view.Interests = names
	}

	s.writeJSON(w, http.StatusOK, profileResponse{
		envelope: envelope{Success: true},
		Profile:  view,
	})
}

func (s *Server) handleInterests(w http.ResponseWriter, r *http.Request) {
	interests, err := s.profileRepo.AllInterests(r.Context())
	if err != nil {
		s.writeError(w, svcErr.Map(err))
		return
	}

	views := make([]interestView, 0, len(interests))
	for _, i := range interests {
		views = append(views, interestView{ID: i.ID, Name: i.Name})
	}
	s.writeJSON(w, http.StatusOK, interestsResponse{
		envelope:  envelope{Success: true},
		Interests: views,
	})
}

// --- helpers ---

func parseMatchID(r *http.Request) (uint64, error) {
	matchID, err := strconv.ParseUint(chi.URLParam(r, "matchID"), 10, 64)
	if err != nil {
		return 0, svcErr.InvalidArgument("match id must be a valid integer")
	}
	return matchID, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.appCtx.Logger.Error("failed to encode response", "err", err)
	}
}

func (s *Server) writeEnvelope(w http.ResponseWriter, status int, env envelope) {
	s.writeJSON(w, status, env)
}

// writeError maps a (possibly coded) error onto the JSON envelope.
// Internal details are logged, never surfaced to the caller.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var coded *svcErr.Error
	if !errors.As(err, &coded) {
		s.appCtx.Logger.Error("unclassified error", "err", err)
		coded = svcErr.Internal("internal error")
	}
	if coded.Code == svcErr.CodeInternal {
		s.appCtx.Logger.Error("internal error", "err", err)
	}
	s.writeEnvelope(w, coded.HTTPStatus(), envelope{Success: false, Message: coded.Msg})
}
