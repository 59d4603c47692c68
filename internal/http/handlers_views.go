package http

import (
	"fmt"
	"net/http"
	"strconv"

	"fintrack/internal/core"
	"fintrack/internal/insights"
)

// --- dashboard ---

func windowParam(r *http.Request) (core.Window, error) {
	w := core.Window(r.URL.Query().Get("window"))
	if w == "" {
		w = core.WindowMonth
	}
	if !core.ValidWindow(w) {
		return "", fmt.Errorf("unknown window %q", w)
	}
	return w, nil
}

func (s *Server) handleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	window, err := windowParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, s.svc.DashboardSummary(window))
}

func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	window, err := windowParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, s.svc.ExpenseBreakdown(window))
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	unit := r.URL.Query().Get("unit")
	if unit == "" {
		unit = "day"
	}
	count := 7
	if raw := r.URL.Query().Get("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid count %q", raw))
			return
		}
		count = parsed
	}

	buckets, err := s.svc.Trend(unit, count)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, buckets)
}

// --- notifications and insights ---

func (s *Server) handleNotifications(w http.ResponseWriter, _ *http.Request) {
	notifications := s.svc.Notifications()
	if notifications == nil {
		notifications = []core.Notification{}
	}
	writeJSON(w, http.StatusOK, notifications)
}

func (s *Server) handleInsights(w http.ResponseWriter, _ *http.Request) {
	insightList := s.svc.Insights()
	if insightList == nil {
		insightList = []insights.Insight{}
	}
	writeJSON(w, http.StatusOK, insightList)
}

func (s *Server) handleRefreshInsights(w http.ResponseWriter, r *http.Request) {
	s.svc.RefreshInsights(r.Context())
	w.WriteHeader(http.StatusAccepted)
}

// --- settings ---

func (s *Server) handleGetPreferences(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Snapshot().Preferences())
}

func (s *Server) handleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var prefs core.NotificationPreferences
	if !decodeBody(w, r, &prefs) {
		return
	}
	if err := s.svc.UpdatePreferences(r.Context(), prefs); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (s *Server) handleGetCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Snapshot().Metadata)
}

func (s *Server) handleAddSubCategory(w http.ResponseWriter, r *http.Request) {
	var req subCategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.svc.AddSubCategory(r.Context(), req.Type, req.Category, req.Name); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.svc.Snapshot().Metadata)
}

func (s *Server) handleRenameSubCategory(w http.ResponseWriter, r *http.Request) {
	var req renameSubCategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.svc.RenameSubCategory(r.Context(), req.Type, req.Category, req.From, req.To); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Snapshot().Metadata)
}

func (s *Server) handleDeleteSubCategory(w http.ResponseWriter, r *http.Request) {
	var req subCategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.svc.DeleteSubCategory(r.Context(), req.Type, req.Category, req.Name); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Snapshot().Metadata)
}

// --- profile and snapshot ---

func (s *Server) handleGetProfile(w http.ResponseWriter, _ *http.Request) {
	profile := s.svc.Snapshot().Profile
	if profile == nil {
		writeJSON(w, http.StatusOK, core.UserProfile{})
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var profile core.UserProfile
	if !decodeBody(w, r, &profile) {
		return
	}
	if err := s.svc.UpdateProfile(r.Context(), profile); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// handleSnapshot exports the full ledger state, the same document that
// persistence stores.
func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Snapshot())
}
