package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/subo-hems/api/internal/handler"
	"github.com/subo-hems/api/internal/menu"
)

func setupMenuRouter() *chi.Mux {
	r := chi.NewRouter()
	handler.NewMenuHandler(menu.Default()).RegisterRoutes(r)
	return r
}

func TestMenu_Grouped(t *testing.T) {
	rr := doRequest(t, setupMenuRouter(), "GET", "/menu", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	var resp map[string][]map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, cat := range menu.Categories {
		if len(resp[cat]) == 0 {
			t.Errorf("category %s empty", cat)
		}
	}
	if got := resp["appetizers"][2]; got["name"] != "Garlic Bread" || got["price"] != float64(120) {
		t.Errorf("appetizers[2]: got %v", got)
	}
}

func TestMenu_Search(t *testing.T) {
	rr := doRequest(t, setupMenuRouter(), "GET", "/menu?category=drinks&search=iced", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	var items []map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items: got %d, want 2 (Iced Tea, Iced Coffee)", len(items))
	}
	for _, it := range items {
		if it["category"] != "drinks" {
			t.Errorf("category: got %v", it["category"])
		}
	}
}

func TestTables(t *testing.T) {
	rr := doRequest(t, setupMenuRouter(), "GET", "/tables", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusOK)
	}

	var groups []map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&groups); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(groups) != 4 || groups[0]["name"] != "Main Hall" {
		t.Errorf("groups: got %v", groups)
	}
}
