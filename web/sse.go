package web

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/jyothri/mailclean/notification"
)

func sse(r *mux.Router) {
	sse := r.PathPrefix("/sse").Subrouter()
	sse.HandleFunc("/progress", progressHandler)
}

// progressHandler streams grouping progress for one session as
// server-sent events while a preview is running.
func progressHandler(w http.ResponseWriter, r *http.Request) {
	sess := requireSession(w, r)
	if sess == nil {
		return
	}

	w.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events := notification.Subscribe(sess.Id)
	defer notification.Unsubscribe(sess.Id, events)

	rc := http.NewResponseController(w)
	clientGone := r.Context().Done()
	keepAlive := time.NewTicker(15 * time.Second)
	defer keepAlive.Stop()

	slog.Info("Progress client connected", "email", sess.Email)
	start := time.Now()
	for {
		select {
		case <-clientGone:
			slog.Info("Progress client disconnected",
				"email", sess.Email,
				"connection_duration", time.Since(start))
			return
		case progress := <-events:
			data, err := json.Marshal(progress)
			if err != nil {
				slog.Error("Failed to marshal progress event", "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event:progress\ndata:%s\n\n", data); err != nil {
				slog.Warn("Unable to write progress event", "email", sess.Email, "error", err)
				return
			}
			rc.Flush()
		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ":keepalive\n\n"); err != nil {
				return
			}
			rc.Flush()
		}
	}
}
