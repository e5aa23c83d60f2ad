package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/feedline/feedline/internal/common"
	"github.com/feedline/feedline/internal/server/auth"
	"github.com/feedline/feedline/internal/server/models"
	"github.com/gorilla/mux"
)

// messageDTO is the wire shape of one feed entry.
type messageDTO struct {
	ID       int64  `json:"id"`
	AuthorID int64  `json:"author_id"`
	Content  string `json:"content"`
	PubDate  int64  `json:"pub_date"`
}

func toMessageDTOs(msgs []*models.Message) []messageDTO {
	out := make([]messageDTO, len(msgs))
	for i, m := range msgs {
		out[i] = messageDTO{ID: m.ID, AuthorID: m.AuthorID, Content: m.Text, PubDate: m.PubDate.Unix()}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"status": status, "error_msg": msg})
}

// writeDomainError maps the typed domain failures onto HTTP statuses;
// anything else is an opaque infrastructure failure.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrUsernameTaken):
		writeError(w, http.StatusBadRequest, "Username taken")
	case errors.Is(err, common.ErrEmailTaken):
		writeError(w, http.StatusBadRequest, "Email taken")
	case errors.Is(err, common.ErrUnknownUser):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, common.ErrDuplicateFollower):
		writeError(w, http.StatusConflict, "Already following")
	case errors.Is(err, common.ErrUnknownFollowerRelation):
		writeError(w, http.StatusNotFound, "Not following")
	default:
		writeError(w, http.StatusInternalServerError, "Internal error")
	}
}

// feedSize reads the "no" query parameter, falling back to the configured
// default (the parameter name follows the original API).
func (s *Server) feedSize(r *http.Request) int {
	if v := r.URL.Query().Get("no"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return s.defaultFeedSize
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"pwd"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing fields")
		return
	}

	if _, err := s.directory.CreateUser(r.Context(), req.Username, req.Email, req.Password); err != nil {
		s.logger.Error(r.Context(), "registration failed", "error", err.Error())
		registerFailure.Inc()
		writeDomainError(w, err)
		return
	}

	registerSuccess.Inc()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"pwd"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	user, err := s.directory.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, common.ErrUnknownUser) {
			loginFailure.WithLabelValues("unknown_user").Inc()
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		writeDomainError(w, err)
		return
	}

	if !auth.CheckPassword(req.Password, user.PwHash) {
		loginFailure.WithLabelValues("bad_password").Inc()
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidity)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}

	loginSuccess.Inc()
	writeJSON(w, http.StatusOK, map[string]string{"access_token": token})
}

func (s *Server) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := s.timeline.GetGlobalFeed(r.Context(), s.feedSize(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMessageDTOs(msgs))
}

func (s *Server) handleMessagesPerUser(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	user, err := s.directory.GetUserByUsername(r.Context(), username)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	msgs, err := s.timeline.GetUserFeed(r.Context(), user, s.feedSize(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMessageDTOs(msgs))
}

func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	callerID, ok := s.authorize(w, r)
	if !ok {
		return
	}

	username := mux.Vars(r)["username"]
	user, err := s.directory.GetUserByUsername(r.Context(), username)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if user.ID != callerID {
		writeError(w, http.StatusForbidden, "Cannot post as another user")
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if _, err := s.timeline.CreateMessageByID(r.Context(), req.Content, callerID); err != nil {
		writeDomainError(w, err)
		return
	}

	messagesPosted.Inc()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	callerID, ok := s.authorize(w, r)
	if !ok {
		return
	}

	msgs, err := s.timeline.GetFollowedFeedByID(r.Context(), callerID, s.feedSize(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMessageDTOs(msgs))
}

func (s *Server) handleGetFollowers(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	followers, err := s.directory.GetFollowers(r.Context(), username, s.feedSize(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	names := make([]string, len(followers))
	for i, f := range followers {
		names[i] = f.Username
	}
	writeJSON(w, http.StatusOK, map[string]any{"follows": names})
}

func (s *Server) handleFollow(w http.ResponseWriter, r *http.Request) {
	callerID, ok := s.authorize(w, r)
	if !ok {
		return
	}

	username := mux.Vars(r)["username"]
	user, err := s.directory.GetUserByUsername(r.Context(), username)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if user.ID != callerID {
		writeError(w, http.StatusForbidden, "Cannot follow as another user")
		return
	}

	var req struct {
		Follow   string `json:"follow"`
		Unfollow string `json:"unfollow"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	switch {
	case req.Follow != "":
		err = s.directory.AddFollower(r.Context(), username, req.Follow)
	case req.Unfollow != "":
		err = s.directory.RemoveFollower(r.Context(), username, req.Unfollow)
	default:
		writeError(w, http.StatusBadRequest, "Nothing to do")
		return
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleIsFollowing(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	follower, err := s.directory.GetUserByUsername(r.Context(), vars["username"])
	if err != nil {
		writeDomainError(w, err)
		return
	}

	following, err := s.directory.IsFollowing(r.Context(), follower.ID, vars["followee"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"following": following})
}
