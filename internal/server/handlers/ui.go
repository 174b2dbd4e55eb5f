// internal/server/handlers/ui.go

package handlers

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/BrownBean2017/SpotShare-MVP/internal/domain/spot"
	"github.com/BrownBean2017/SpotShare-MVP/internal/server/web"
	"github.com/BrownBean2017/SpotShare-MVP/internal/service/marketplace"
	"github.com/BrownBean2017/SpotShare-MVP/internal/service/session"
)

// UIHandler serves the server-rendered browser UI.
// Every POST mutates the session and redirects back to the page.
type UIHandler struct {
	page *template.Template
}

type uiPage struct {
	session.State
	Notice      string
	FilterTypes []spot.Type
	Types       []spot.Type
}

var uiFuncs = template.FuncMap{
	"money": func(v float64) string {
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', 2, 64)
	},
	"when": func(t time.Time) string {
		return t.Format("Jan 2, 3:04 PM")
	},
	"join": strings.Join,
	"hours": func(h float64) string {
		if h == 1 {
			return "1 Hour"
		}
		return fmt.Sprintf("%g Hours", h)
	},
}

// NewUIHandler parses the embedded templates
func NewUIHandler() (*UIHandler, error) {
	page, err := template.New("index.html").Funcs(uiFuncs).ParseFS(web.Templates, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse UI templates: %w", err)
	}

	return &UIHandler{page: page}, nil
}

// Index renders the whole application for the session
func (h *UIHandler) Index(w http.ResponseWriter, r *http.Request) {
	s := SessionFrom(r.Context())

	data := uiPage{
		State:       s.Snapshot(),
		Notice:      s.TakeNotice(),
		FilterTypes: spot.FilterTypes,
		Types:       spot.Types,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.page.Execute(w, data); err != nil {
		log.Printf("Failed to render UI: %v", err)
	}
}

// SetView switches tabs
func (h *UIHandler) SetView(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ctx context.Context, s *session.Session) error {
		return s.SetView(session.View(r.PostFormValue("view")))
	})
}

// ToggleMap flips the map panel
func (h *UIHandler) ToggleMap(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ctx context.Context, s *session.Session) error {
		s.ToggleMap()
		return nil
	})
}

// SetFilter applies the filter bar
func (h *UIHandler) SetFilter(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ctx context.Context, s *session.Session) error {
		filters := spot.Filters{Type: spot.Type(r.PostFormValue("type"))}
		if v := r.PostFormValue("maxPrice"); v != "" {
			p, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid max price %q: %w", v, marketplace.ErrInvalidPrice)
			}
			filters.MaxPrice = p
		}
		return s.SetFilters(filters)
	})
}

// Search runs the AI search
func (h *UIHandler) Search(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ctx context.Context, s *session.Session) error {
		_, err := s.Search(ctx, strings.TrimSpace(r.PostFormValue("query")))
		return err
	})
}

// Select opens the booking modal
func (h *UIHandler) Select(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ctx context.Context, s *session.Session) error {
		_, err := s.SelectSpot(r.PostFormValue("spotId"))
		return err
	})
}

// Close closes the booking modal
func (h *UIHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ctx context.Context, s *session.Session) error {
		s.ClearSelection()
		return nil
	})
}

// Book confirms the booking in the modal
func (h *UIHandler) Book(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ctx context.Context, s *session.Session) error {
		_, err := s.ConfirmBooking(r.PostFormValue("spotId"))
		return err
	})
}

// Draft saves the host form and runs the requested action
func (h *UIHandler) Draft(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(ctx context.Context, s *session.Session) error {
		patch, err := draftPatchFromForm(r)
		if err != nil {
			return err
		}
		if _, err := s.UpdateDraft(patch); err != nil {
			return err
		}

		switch r.PostFormValue("action") {
		case "suggest":
			_, err = s.SuggestPrice(ctx)
		case "describe":
			_, err = s.GenerateDescription(ctx)
		case "publish":
			_, err = s.PublishListing()
		}
		return err
	})
}

// act runs a mutation and redirects to the page. Errors become the notice.
func (h *UIHandler) act(w http.ResponseWriter, r *http.Request, fn func(context.Context, *session.Session) error) {
	s := SessionFrom(r.Context())

	if err := r.ParseForm(); err != nil {
		s.SetNotice("Invalid form submission.")
	} else if err := fn(r.Context(), s); err != nil {
		s.SetNotice(NoticeFor(err))
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func draftPatchFromForm(r *http.Request) (session.DraftPatch, error) {
	var patch session.DraftPatch

	if _, ok := r.PostForm["title"]; ok {
		v := r.PostFormValue("title")
		patch.Title = &v
	}
	if _, ok := r.PostForm["address"]; ok {
		v := r.PostFormValue("address")
		patch.Address = &v
	}
	if _, ok := r.PostForm["type"]; ok {
		v := r.PostFormValue("type")
		patch.Type = &v
	}
	if _, ok := r.PostForm["description"]; ok {
		v := r.PostFormValue("description")
		patch.Description = &v
	}
	if _, ok := r.PostForm["features"]; ok {
		features := []string{}
		for _, f := range strings.Split(r.PostFormValue("features"), ",") {
			if f = strings.TrimSpace(f); f != "" {
				features = append(features, f)
			}
		}
		patch.Features = &features
	}
	if v := strings.TrimSpace(r.PostFormValue("pricePerHour")); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return patch, fmt.Errorf("invalid hourly rate %q: %w", v, marketplace.ErrInvalidPrice)
		}
		patch.PricePerHour = &p
	}

	return patch, nil
}
