package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfnote/shelfnote-server/internal/domain"
	"github.com/shelfnote/shelfnote-server/internal/errors"
	"github.com/shelfnote/shelfnote-server/internal/service"
)

func (s *Server) registerSessionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "logSession",
		Method:        http.MethodPost,
		Path:          "/api/v1/sessions",
		Summary:       "Log reading session",
		Description:   "Records pages read on a day for a shelved book",
		Tags:          []string{"Sessions"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleLogSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "listSessions",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions",
		Summary:     "List reading sessions",
		Description: "Returns sessions oldest first, optionally bounded by day and book",
		Tags:        []string{"Sessions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListSessions)
}

// LogSessionRequest is the request body for logging a session.
type LogSessionRequest struct {
	BookID    string `json:"book_id" validate:"required" doc:"Book ID"`
	Date      *Date  `json:"date,omitempty" doc:"Day read; defaults to today"`
	PagesRead int    `json:"pages_read" validate:"gt=0" doc:"Pages read that day"`
}

// LogSessionInput wraps the session request for Huma.
type LogSessionInput struct {
	Body LogSessionRequest
}

// SessionOutput wraps a session for Huma.
type SessionOutput struct {
	Body domain.ReadingSession
}

// ListSessionsInput contains session filters.
type ListSessionsInput struct {
	From   string `query:"from" doc:"First day, YYYY-MM-DD"`
	To     string `query:"to" doc:"Last day, YYYY-MM-DD"`
	BookID string `query:"book_id" doc:"Only sessions for this book"`
}

// ListSessionsResponse lists sessions.
type ListSessionsResponse struct {
	Sessions []domain.ReadingSession `json:"sessions"`
}

// ListSessionsOutput wraps the session list for Huma.
type ListSessionsOutput struct {
	Body ListSessionsResponse
}

func (s *Server) handleLogSession(ctx context.Context, input *LogSessionInput) (*SessionOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	session, err := s.services.Sessions.Log(ctx, userID, service.LogSessionInput{
		BookID:    input.Body.BookID,
		Date:      input.Body.Date.Day(),
		PagesRead: input.Body.PagesRead,
	})
	if err != nil {
		return nil, err
	}
	return &SessionOutput{Body: *session}, nil
}

func (s *Server) handleListSessions(ctx context.Context, input *ListSessionsInput) (*ListSessionsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	from, err := parseDayParam("from", input.From)
	if err != nil {
		return nil, errors.Validation(err.Error())
	}
	to, err := parseDayParam("to", input.To)
	if err != nil {
		return nil, errors.Validation(err.Error())
	}

	sessions, err := s.services.Sessions.List(ctx, userID, service.ListSessionsInput{
		BookID: input.BookID,
		From:   from,
		To:     to,
	})
	if err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []domain.ReadingSession{}
	}
	return &ListSessionsOutput{Body: ListSessionsResponse{Sessions: sessions}}, nil
}
