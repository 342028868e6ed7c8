package http

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/KhemraButh/Loan-Performance/internal/core"
	"github.com/KhemraButh/Loan-Performance/internal/portfolio"
)

const recordsTimeout = 7 * time.Second

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded for index page")
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	_, _ = s.sessions.state(w, r)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.html", nil); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err, "template", "index.html")
	}
}

// handleDashboard renders the partial for whatever level the session is on.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	_, st := s.sessions.state(w, r)
	s.renderDashboard(w, r, st)
}

func (s *Server) handleSelectMonth(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, func(st core.NavigationState) (core.NavigationState, error) {
		return st.SelectMonth(r.FormValue("month"))
	})
}

func (s *Server) handleSelectBranch(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, func(st core.NavigationState) (core.NavigationState, error) {
		return st.SelectBranch(r.FormValue("branch"))
	})
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, func(st core.NavigationState) (core.NavigationState, error) {
		return st.Back(), nil
	})
}

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	s.navigate(w, r, func(st core.NavigationState) (core.NavigationState, error) {
		return st.WithFilters(r.FormValue("quarter"), r.FormValue("product")), nil
	})
}

// handleRefresh throws away the cached record set and re-renders. The next
// fetch hits the configured source.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.portfolio.Invalidate()
	s.viewCache.Purge()
	slog.InfoContext(r.Context(), "Manual refresh requested")

	_, st := s.sessions.state(w, r)
	s.renderDashboard(w, r, st)
}

// navigate applies a state transition for the request's session and renders
// the resulting level. A rejected transition keeps the current state.
func (s *Server) navigate(w http.ResponseWriter, r *http.Request, step func(core.NavigationState) (core.NavigationState, error)) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id, st := s.sessions.state(w, r)
	next, err := step(st)
	if err != nil {
		slog.WarnContext(r.Context(), "Navigation rejected", "error", err, "level", string(st.Level))
		next = st
	}
	s.sessions.save(id, next)
	s.renderDashboard(w, r, next)
}

func (s *Server) renderDashboard(w http.ResponseWriter, r *http.Request, st core.NavigationState) {
	if s.templates == nil {
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), recordsTimeout)
	defer cancel()

	data, err := s.portfolio.Records(ctx)
	if err != nil {
		slog.ErrorContext(r.Context(), "Record fetch failed", "error", err, "level", string(st.Level))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<div class="error">Portfolio data is unavailable right now: ` +
			template.HTMLEscapeString(err.Error()) + `</div>`))
		return
	}

	view, err := s.viewFor(data, st)
	if err != nil {
		// A stored session can only reach here if its scope keys were
		// lost; start the visitor over at the monthly level.
		slog.WarnContext(r.Context(), "Session scope invalid, resetting", "error", err)
		view, err = s.viewFor(data, core.NewNavigation())
		if err != nil {
			http.Error(w, "failed to build dashboard", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "dashboard.html", view); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "dashboard.html", "level", view.Level)
	}
}

// viewFor returns the rendered view model for one state and record set,
// reusing a cached copy when the record set has not changed.
func (s *Server) viewFor(data portfolio.Data, st core.NavigationState) (dashboardView, error) {
	key := viewCacheKey(data, st)
	if v, ok := s.viewCache.Get(key); ok {
		return v, nil
	}
	view, err := buildDashboardView(data.Records, st, data.FetchedAt, data.Stale)
	if err != nil {
		return dashboardView{}, err
	}
	s.viewCache.Set(key, view)
	return view, nil
}

func viewCacheKey(data portfolio.Data, st core.NavigationState) string {
	return strings.Join([]string{
		string(st.Level),
		st.SelectedMonth,
		st.SelectedBranch,
		st.Quarter,
		st.Product,
		strconv.FormatInt(data.FetchedAt.UnixNano(), 10),
		strconv.FormatBool(data.Stale),
	}, "|")
}
