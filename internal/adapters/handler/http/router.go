package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// Handlers groups everything mounted by NewHandler.
type Handlers struct {
	Index       *IndexHandler
	Slash       *SlashHandler
	Interactive *InteractiveHandler
	Events      *EventsHandler
}

func NewHandler(h Handlers, verifier RequestVerifier, log logrus.FieldLogger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&logFormatter{log: log}))
	r.Use(middleware.Recoverer)

	r.Get("/", h.Index.Status)

	r.Route("/slack", func(r chi.Router) {
		r.Use(VerifySlackSignature(verifier, log))

		r.Route("/commands", func(r chi.Router) {
			r.Post("/vote", h.Slash.Vote)
			r.Post("/check-votes", h.Slash.CheckVotes)
			r.Post("/check-points", h.Slash.CheckPoints)
			r.Post("/check-winners", h.Slash.CheckWinners)
			r.Post("/top", h.Slash.Top)
			r.Post("/check-comments", h.Slash.CheckComments)
			r.Post("/about", h.Slash.About)
		})
		r.Post("/interactive", h.Interactive.Handle)
		r.Post("/events", h.Events.Handle)
	})

	return r
}
