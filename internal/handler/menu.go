package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/subo-hems/api/internal/floor"
	"github.com/subo-hems/api/internal/menu"
)

// MenuCatalog defines the catalog reads needed by menu handlers.
// Satisfied by *menu.Catalog.
type MenuCatalog interface {
	ByCategory() map[string][]menu.Item
	Search(category, term string) []menu.Item
}

// MenuHandler serves the read-only menu and floor plan.
type MenuHandler struct {
	catalog MenuCatalog
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(catalog MenuCatalog) *MenuHandler {
	return &MenuHandler{catalog: catalog}
}

// RegisterRoutes registers menu and table endpoints.
func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Get("/menu", h.Menu)
	r.Get("/tables", h.Tables)
}

type menuItemResponse struct {
	ID       int         `json:"id"`
	Name     string      `json:"name"`
	Price    json.Number `json:"price"`
	Category string      `json:"category"`
}

// Menu handles GET /menu. Without parameters it returns items grouped by
// category; ?category= and ?search= return a flat filtered list.
func (h *MenuHandler) Menu(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category, search := q.Get("category"), q.Get("search")

	if category == "" && search == "" {
		grouped := h.catalog.ByCategory()
		resp := make(map[string][]menuItemResponse, len(grouped))
		for cat, items := range grouped {
			resp[cat] = toMenuItemResponses(items)
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}

	writeJSON(w, http.StatusOK, toMenuItemResponses(h.catalog.Search(category, search)))
}

// Tables handles GET /tables.
func (h *MenuHandler) Tables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, floor.Layout())
}

func toMenuItemResponses(items []menu.Item) []menuItemResponse {
	out := make([]menuItemResponse, len(items))
	for i, it := range items {
		out[i] = menuItemResponse{
			ID:       it.ID,
			Name:     it.Name,
			Price:    money(it.Price),
			Category: it.Category,
		}
	}
	return out
}
