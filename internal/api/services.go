package api

import "github.com/shelfnote/shelfnote-server/internal/service"

// Services groups the business services the API server calls.
type Services struct {
	Insights *service.InsightsService
	Library  *service.LibraryService
	Sessions *service.SessionService
	Goals    *service.GoalService
	Books    *service.BookService
}
