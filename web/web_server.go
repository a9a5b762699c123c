package web

import (
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/jyothri/mailclean/cleanup"
	"github.com/jyothri/mailclean/constants"
	"github.com/jyothri/mailclean/session"
)

var (
	store  *session.Store
	engine *cleanup.Service
)

// Server wires the routes and blocks serving HTTP.
func Server(sessions *session.Store) {
	slog.Info("Starting web server.", "addr", constants.ListenAddr)
	store = sessions
	engine = cleanup.NewService()
	oauthConfig = buildOauthConfig()

	r := mux.NewRouter()
	api(r)
	oauth(r)
	sse(r)
	cors := cors.New(cors.Options{
		AllowedOrigins:   []string{constants.FrontendUrl},
		AllowCredentials: true,
	})
	handler := cors.Handler(r)
	srv := &http.Server{
		Handler: handler,
		Addr:    constants.ListenAddr,
		// Cleanup and preview runs stream for minutes; only bound the
		// read side.
		ReadTimeout: 10 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}
