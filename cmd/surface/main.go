package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/subo-hems/api/internal/auth"
	"github.com/subo-hems/api/internal/client"
	"github.com/subo-hems/api/internal/config"
	"github.com/subo-hems/api/internal/domain"
	"github.com/subo-hems/api/internal/enum"
	"github.com/subo-hems/api/internal/floor"
	"github.com/subo-hems/api/internal/logger"
	"github.com/subo-hems/api/internal/notify"
	"github.com/subo-hems/api/internal/poller"
	"github.com/subo-hems/api/internal/report"
)

func main() {
	cfg := config.Load()

	apiURL := flag.String("api", cfg.APIURL, "API base URL")
	role := flag.String("role", enum.RoleKitchen, "kitchen, dining or management (the static user of that name)")
	password := flag.String("password", "1234", "login password")
	view := flag.String("view", "", "surface to open: kitchen, orders or dashboard (default: the role's landing view)")
	interval := flag.Duration("interval", cfg.PollInterval, "polling interval")
	logLevel := flag.String("log-level", cfg.LogLevel, "off, normal or verbose")
	flag.Parse()

	lg := logger.New(logger.ParseLevel(*logLevel), os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	login, err := client.New(*apiURL).Login(ctx, *role, *password)
	if err != nil {
		log.Fatalf("Login failed: %v", err)
	}

	surface := *view
	if surface == "" && len(login.User.Surfaces) > 0 {
		surface = login.User.Surfaces[0]
	}
	if !auth.CanOpen(login.User.Role, surface) {
		log.Fatalf("Role %s cannot open the %q surface (allowed: %s)",
			login.User.Role, surface, strings.Join(login.User.Surfaces, ", "))
	}

	api := client.New(*apiURL, client.WithToken(login.Token), client.WithHTTPTimeout(*interval))
	name := surface + "-" + uuid.NewString()[:8]
	sink := notify.Fanout{notify.NewBellSink(os.Stdout), notify.NewLogSink(lg, name)}

	p := poller.New(api, sink,
		poller.WithInterval(*interval),
		poller.WithLogger(lg),
		poller.WithName(name),
		poller.WithOnUpdate(func(s poller.Snapshot) { render(os.Stdout, surface, s) }),
	)

	lg.Info("%s signed in as %s, opening %s", login.User.Username, login.User.Role, surface)
	go commands(ctx, os.Stdin, p, lg)
	p.Run(ctx)
}

// render prints a one-screen summary of the latest snapshot.
func render(w io.Writer, surface string, s poller.Snapshot) {
	switch surface {
	case enum.SurfaceDashboard:
		sum := report.Summarize(s.Orders)
		fmt.Fprintf(w, "orders %d (pending %d, completed %d) revenue %s open %s avg %s\n",
			sum.TotalOrders, sum.Pending, sum.Completed,
			sum.Revenue.StringFixed(2), sum.OpenValue.StringFixed(2), sum.AvgCompletion.Round(time.Second))
		for _, it := range sum.TopItems {
			fmt.Fprintf(w, "  %3d × %s\n", it.Quantity, it.Name)
		}
	default:
		fmt.Fprintf(w, "-- %d order(s), %d pending [%s] --\n", len(s.Orders), len(s.Pending), s.State)
		for _, o := range s.Orders {
			if surface == enum.SurfaceKitchen && !o.IsPending() {
				continue
			}
			fmt.Fprintf(w, "%s %-10s %-9s %s\n", o.OrderNumber, where(o), o.Status, o.TotalPrice().StringFixed(2))
			for i, li := range o.Items {
				mark := " "
				if flags := s.Checked[o.ID]; i < len(flags) && flags[i] {
					mark = "x"
				}
				line := fmt.Sprintf("   [%s] %d: %d × %s", mark, i, li.Quantity, li.Name)
				if li.Notes != "" {
					line += " (" + li.Notes + ")"
				}
				fmt.Fprintln(w, line)
			}
		}
	}
}

func where(o domain.Order) string {
	if o.TableNumber == nil {
		return "takeout"
	}
	return floor.Label(*o.TableNumber)
}

// commands reads kitchen actions from r:
//
//	p <order> <item>  toggle prepared
//	c <order>         complete
//	r <order>         reset to pending
//	d <order>         delete
func commands(ctx context.Context, r io.Reader, p *poller.Poller, lg *logger.Logger) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		id, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			lg.Warn("bad order id %q", fields[1])
			continue
		}

		switch fields[0] {
		case "p":
			if len(fields) < 3 {
				lg.Warn("usage: p <order> <item>")
				continue
			}
			idx, err := strconv.Atoi(fields[2])
			if err != nil {
				lg.Warn("bad item index %q", fields[2])
				continue
			}
			err = p.TogglePrepared(ctx, id, idx)
			msg := "toggled"
			if err != nil {
				msg = err.Error()
			}
			lg.Info("%s item %d: %s", domain.OrderNumber(id), idx, msg)
		case "c":
			if err := p.Complete(ctx, id); err != nil {
				if errors.Is(err, domain.ErrNotReady) {
					lg.Warn("%s: check every item first", domain.OrderNumber(id))
					continue
				}
				lg.Error("%s: %v", domain.OrderNumber(id), err)
			}
		case "r":
			if err := p.Reset(ctx, id); err != nil {
				lg.Error("%s: %v", domain.OrderNumber(id), err)
			}
		case "d":
			if err := p.Delete(ctx, id); err != nil {
				lg.Error("%s: %v", domain.OrderNumber(id), err)
			}
		default:
			lg.Warn("unknown command %q", fields[0])
		}
	}
}
