package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/bjarke-xyz/mortgage-intake/internal/domain"
	"github.com/samber/lo"
)

const (
	commentListLimit = 50
	maxCommentBody   = 1 << 14
)

type commentView struct {
	ID        int64     `json:"id"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func newCommentView(c domain.Comment) commentView {
	return commentView{ID: c.ID, Comment: c.Comment, CreatedAt: c.CreatedAt}
}

func (s *server) handleListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := s.commentRepository.List(r.Context(), commentListLimit)
	if err != nil {
		s.logger.Error("error listing comments", "error", err)
		errorJSON(w, http.StatusInternalServerError, "Lookup failed", err.Error())
		return
	}
	noStore(w)
	jsonResponse(w, http.StatusOK, lo.Map(comments, func(c domain.Comment, _ int) commentView {
		return newCommentView(c)
	}))
}

type createCommentInput struct {
	Comment *string `json:"comment"`
}

func (s *server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	input := createCommentInput{}
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCommentBody)).Decode(&input)
	if err != nil || input.Comment == nil || strings.TrimSpace(*input.Comment) == "" {
		errorJSON(w, http.StatusBadRequest, "Invalid comment", "")
		return
	}

	comment := domain.Comment{Comment: strings.TrimSpace(*input.Comment)}
	if err := s.commentRepository.Create(r.Context(), &comment); err != nil {
		s.logger.Error("error creating comment", "error", err)
		errorJSON(w, http.StatusInternalServerError, "Insert failed", err.Error())
		return
	}
	jsonResponse(w, http.StatusCreated, newCommentView(comment))
}
