package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/subo-hems/api/internal/floor"
	"github.com/subo-hems/api/internal/report"
)

// DashboardServicer defines the service method needed by the dashboard.
// Satisfied by *service.OrderService.
type DashboardServicer interface {
	Dashboard(ctx context.Context) (report.Summary, error)
}

// DashboardHandler serves the management summary.
type DashboardHandler struct {
	svc DashboardServicer
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(svc DashboardServicer) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// RegisterRoutes registers the dashboard endpoint. Expected inside a group
// restricted to management.
func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.Get)
}

type dashboardResponse struct {
	TotalOrders          int                 `json:"totalOrders"`
	PendingOrders        int                 `json:"pendingOrders"`
	CompletedOrders      int                 `json:"completedOrders"`
	DineInOrders         int                 `json:"dineInOrders"`
	TakeoutOrders        int                 `json:"takeoutOrders"`
	Revenue              json.Number         `json:"revenue"`
	OpenValue            json.Number         `json:"openValue"`
	AvgCompletionSeconds int64               `json:"avgCompletionSeconds"`
	TopItems             []topItemResponse   `json:"topItems"`
	OccupiedTables       []occupiedTableResp `json:"occupiedTables"`
}

type topItemResponse struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type occupiedTableResp struct {
	Table int    `json:"table"`
	Label string `json:"label"`
}

// Get handles GET /dashboard.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Dashboard(r.Context())
	if err != nil {
		log.Printf("ERROR: dashboard: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := dashboardResponse{
		TotalOrders:          s.TotalOrders,
		PendingOrders:        s.Pending,
		CompletedOrders:      s.Completed,
		DineInOrders:         s.DineIn,
		TakeoutOrders:        s.Takeout,
		Revenue:              money(s.Revenue),
		OpenValue:            money(s.OpenValue),
		AvgCompletionSeconds: int64(s.AvgCompletion.Seconds()),
		TopItems:             make([]topItemResponse, len(s.TopItems)),
		OccupiedTables:       make([]occupiedTableResp, len(s.OccupiedTables)),
	}
	for i, it := range s.TopItems {
		resp.TopItems[i] = topItemResponse{ID: it.MenuID, Name: it.Name, Quantity: it.Quantity}
	}
	for i, t := range s.OccupiedTables {
		resp.OccupiedTables[i] = occupiedTableResp{Table: t, Label: floor.Label(t)}
	}
	writeJSON(w, http.StatusOK, resp)
}
