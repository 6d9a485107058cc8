package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/subo-hems/api/internal/cart"
	"github.com/subo-hems/api/internal/client"
	"github.com/subo-hems/api/internal/config"
	"github.com/subo-hems/api/internal/enum"
	"github.com/subo-hems/api/internal/floor"
	"github.com/subo-hems/api/internal/menu"
)

type demoLine struct {
	menuID int
	qty    int
	notes  string
}

type demoOrder struct {
	orderType string
	table     int
	lines     []demoLine
	complete  bool
}

var demoOrders = []demoOrder{
	{enum.OrderTypeDineIn, 5, []demoLine{{3, 2, ""}, {45, 1, ""}}, false},
	{enum.OrderTypeDineIn, 16, []demoLine{{12, 2, "medium rare"}, {28, 2, ""}, {48, 2, ""}}, true},
	{enum.OrderTypeTakeout, 0, []demoLine{{22, 1, "no peanuts"}, {43, 1, ""}}, false},
	{enum.OrderTypeDineIn, 20, []demoLine{{16, 1, ""}, {17, 1, ""}, {28, 3, ""}, {51, 3, ""}}, true},
}

func main() {
	cfg := config.Load()

	apiURL := flag.String("api", cfg.APIURL, "API base URL")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	api := client.New(*apiURL)
	catalog := menu.Default()

	for i, d := range demoOrders {
		c := cart.New()
		for _, l := range d.lines {
			item, ok := catalog.Lookup(l.menuID)
			if !ok {
				log.Fatalf("Demo order %d references unknown menu item %d", i+1, l.menuID)
			}
			if err := c.Add(item, l.qty, l.notes); err != nil {
				log.Fatalf("Demo order %d: %v", i+1, err)
			}
		}
		total := c.Total()

		o, err := c.PlaceOrder(ctx, api, d.orderType, d.table)
		if err != nil {
			log.Fatalf("Unable to place demo order %d: %v", i+1, err)
		}

		where := "takeout"
		if o.TableNumber != nil {
			where = floor.Label(*o.TableNumber)
		}
		log.Printf("Placed %s (%s) total %s", o.OrderNumber, where, total.StringFixed(2))

		if !d.complete {
			continue
		}
		for idx := range o.Items {
			if _, err := api.SetItemPrepared(ctx, o.ID, idx, true); err != nil {
				log.Fatalf("Unable to prepare %s item %d: %v", o.OrderNumber, idx, err)
			}
		}
		if _, err := api.SetStatus(ctx, o.ID, enum.OrderStatusCompleted); err != nil {
			log.Fatalf("Unable to complete %s: %v", o.OrderNumber, err)
		}
		log.Printf("Completed %s", o.OrderNumber)
	}

	log.Printf("Seeded %d demo orders against %s", len(demoOrders), *apiURL)
}
