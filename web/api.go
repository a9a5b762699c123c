package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/jyothri/mailclean/cleanup"
	"github.com/jyothri/mailclean/db"
	"github.com/jyothri/mailclean/session"
)

func api(r *mux.Router) {
	// Handle API routes
	api := r.PathPrefix("/api/gmail").Subrouter()
	api.Use(RequestSizeLimitMiddleware(CleanupRequestMaxBodySize))
	api.HandleFunc("/stats", StatsHandler).Methods("GET")
	api.HandleFunc("/preview", PreviewHandler).Methods("POST")
	api.HandleFunc("/cleanup", CleanupHandler).Methods("POST")
	api.HandleFunc("/history", HistoryHandler).Methods("GET")
	r.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	})
}

// StatsHandler reports counts per cleanup category. Stats never errors;
// categories that could not be resolved report zero.
func StatsHandler(w http.ResponseWriter, r *http.Request) {
	sess := requireSession(w, r)
	if sess == nil {
		return
	}
	stats := engine.Stats(r.Context(), sess.Client)
	writeJSONResponse(w, stats, http.StatusOK)
}

// PreviewHandler groups matching messages by sender for the UI to confirm
// before deletion.
func PreviewHandler(w http.ResponseWriter, r *http.Request) {
	sess := requireSession(w, r)
	if sess == nil {
		return
	}

	req, ok := decodeCleanupRequest(w, r)
	if !ok {
		return
	}

	slog.Info("Getting preview", "email", sess.Email)
	result := engine.Preview(r.Context(), sess.Client, sess.Id, req)
	writeJSONResponse(w, result, http.StatusOK)
}

// CleanupHandler performs the deletion and records the outcome in history
// when persistence is configured.
func CleanupHandler(w http.ResponseWriter, r *http.Request) {
	sess := requireSession(w, r)
	if sess == nil {
		return
	}

	req, ok := decodeCleanupRequest(w, r)
	if !ok {
		return
	}

	slog.Info("Starting cleanup", "email", sess.Email)
	result := engine.Cleanup(r.Context(), sess.Client, req)

	if db.Ready() {
		run := db.CleanupRun{
			Email:         sess.Email,
			UnreadDeleted: result.Details.UnreadDeleted,
			SpamDeleted:   result.Details.SpamDeleted,
			TrashDeleted:  result.Details.TrashDeleted,
			OldDeleted:    result.Details.OldEmailsDeleted,
			TotalDeleted:  result.TotalDeleted,
			Success:       result.Success,
		}
		// History is best effort; a failed insert never fails the cleanup.
		if err := db.SaveCleanupRun(run); err != nil {
			slog.Error("Failed to save cleanup run",
				"email", sess.Email,
				"error", err)
		}
	}

	writeJSONResponse(w, result, http.StatusOK)
}

// HistoryHandler lists past cleanup runs for the session's account.
func HistoryHandler(w http.ResponseWriter, r *http.Request) {
	sess := requireSession(w, r)
	if sess == nil {
		return
	}
	if !db.Ready() {
		http.Error(w, "Cleanup history is not enabled", http.StatusNotFound)
		return
	}

	pageNo := getPageNumber(r)
	runs, totResults, err := db.GetCleanupRunsFromDb(sess.Email, pageNo)
	if err != nil {
		slog.Error("Failed to get cleanup runs from database",
			"email", sess.Email,
			"page", pageNo,
			"error", err)
		http.Error(w, "Failed to retrieve cleanup history", http.StatusInternalServerError)
		return
	}

	pageInfo := PaginationInfo{Page: pageNo, Size: totResults}
	body := HistoryResponse{
		PageInfo: pageInfo,
		Runs:     runs,
	}
	writeJSONResponse(w, body, http.StatusOK)
}

// requireSession resolves the sessionId query parameter. A missing or
// expired handle writes a 401 and returns nil.
func requireSession(w http.ResponseWriter, r *http.Request) *session.Session {
	sess := store.Get(r.URL.Query().Get("sessionId"))
	if sess == nil {
		writeJSONResponse(w, map[string]string{"error": "Invalid or expired session"}, http.StatusUnauthorized)
		return nil
	}
	return sess
}

func decodeCleanupRequest(w http.ResponseWriter, r *http.Request) (cleanup.CleanupRequest, bool) {
	var req cleanup.CleanupRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if handleMaxBytesError(w, r, err, CleanupRequestMaxBodySize) {
		return req, false
	}
	if err != nil {
		slog.Error("Failed to decode cleanup request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func getPageNumber(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// writeJSONResponse writes a JSON response with the given status code
func writeJSONResponse(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")

	serializedBody, err := json.Marshal(data)
	if err != nil {
		slog.Error("Failed to marshal JSON", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(statusCode)

	if _, err := w.Write(serializedBody); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}

type PaginationInfo struct {
	Size int `json:"size"`
	Page int `json:"page"`
}

type HistoryResponse struct {
	PageInfo PaginationInfo  `json:"paginationInfo"`
	Runs     []db.CleanupRun `json:"runs"`
}
