// Command streamctl is a terminal front-end for the subscription
// management API: it lists subscribers with filters, shows statistics,
// creates subscribers and triggers reminder messages.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/streamops/streammanager/internal/config"
	"github.com/streamops/streammanager/internal/dashboard"
	"github.com/streamops/streammanager/internal/domain"
	"github.com/streamops/streammanager/pkg/client"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to YAML config file")
		baseURL    = flag.String("url", "", "backend base URL (overrides config)")
		search     = flag.String("search", "", "filter by name, email or phone")
		service    = flag.String("service", dashboard.FilterAll, "filter by streaming service")
		status     = flag.String("status", "all", "filter by status: all, active, expiring")

		create      = flag.Bool("create", false, "create a subscriber from the -name/-phone/-email/-expires/-service flags")
		name        = flag.String("name", "", "subscriber name (with -create)")
		phone       = flag.String("phone", "", "subscriber phone (with -create)")
		email       = flag.String("email", "", "subscriber email (with -create)")
		expires     = flag.String("expires", "", "expiration date YYYY-MM-DD (with -create)")
		sendTo      = flag.String("send", "", "subscriber ID to message")
		messageType = flag.String("type", string(domain.MessageTypeRecordatorio), "message type: recordatorio, vencimiento, personalizado")
		message     = flag.String("message", "", "custom message body (with -type personalizado)")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	if *configPath == "" {
		*configPath = os.Getenv("CONFIG_PATH")
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal("load config: %v", err)
	}
	if *baseURL == "" {
		*baseURL = cfg.Client.BaseURL
	}

	api := client.New(*baseURL, client.WithLogger(logger))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := api.Health(ctx); err != nil {
		fatal("backend not available at %s: %v", *baseURL, err)
	}

	switch {
	case *create:
		runCreate(ctx, api, cfg.Billing.UnitPrice, *service, *name, *phone, *email, *expires)
	case *sendTo != "":
		runSend(ctx, api, *sendTo, *messageType, *message)
	default:
		runList(ctx, api, cfg.Billing.UnitPrice, dashboard.Criteria{
			Search:  *search,
			Service: *service,
			Status:  dashboard.StatusFilter(*status),
		})
	}
}

func runList(ctx context.Context, api dashboard.API, unitPrice float64, criteria dashboard.Criteria) {
	ctrl := dashboard.NewController(api,
		dashboard.WithUnitPrice(unitPrice),
		dashboard.WithNotify(printNotice),
	)
	defer ctrl.Close()

	if err := ctrl.Load(ctx); err != nil {
		fatal("load dashboard: %v", err)
	}

	ctrl.SetSearch(criteria.Search)
	ctrl.SetServiceFilter(criteria.Service)
	ctrl.SetStatusFilter(criteria.Status)

	state := ctrl.Snapshot()

	fmt.Printf("Subscribers: %d total, %d active, %d expiring  |  Revenue: $%.2f\n\n",
		state.Stats.Total, state.Stats.Active, state.Stats.Expiring, state.Stats.Revenue)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSERVICE\tNAME\tPHONE\tEMAIL\tEXPIRES\tDAYS\tSTATUS")
	for _, sub := range state.Visible {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			sub.ID, sub.Service, sub.Name, sub.Phone, sub.Email,
			sub.ExpirationDate, sub.DaysRemaining, statusLabel(sub),
		)
	}
	_ = w.Flush()

	if len(state.Visible) != len(state.Subscribers) {
		fmt.Printf("\n%d of %d shown\n", len(state.Visible), len(state.Subscribers))
	}
}

func runCreate(ctx context.Context, api dashboard.API, unitPrice float64, service, name, phone, email, expires string) {
	var expirationDate domain.Date
	if expires != "" {
		parsed, err := domain.ParseDate(expires)
		if err != nil {
			fatal("invalid -expires value %q: use YYYY-MM-DD", expires)
		}
		expirationDate = parsed
	}

	if service == dashboard.FilterAll {
		service = ""
	}

	ctrl := dashboard.NewController(api,
		dashboard.WithUnitPrice(unitPrice),
		dashboard.WithNotify(printNotice),
	)
	defer ctrl.Close()

	if err := ctrl.Load(ctx); err != nil {
		fatal("load dashboard: %v", err)
	}

	sub, err := ctrl.CreateSubscriber(ctx, dashboard.Draft{
		Service:        service,
		Name:           name,
		Phone:          phone,
		Email:          email,
		ExpirationDate: expirationDate,
	})
	if err != nil {
		var verr *dashboard.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintln(os.Stderr, "invalid input:")
			for field, msg := range verr.Fields {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", field, msg)
			}
			os.Exit(2)
		}
		fatal("create subscriber: %v", err)
	}

	fmt.Printf("created subscriber %s (%s, %s)\n", sub.ID, sub.Name, sub.Service)
}

func runSend(ctx context.Context, api *client.Client, subscriberID, messageType, message string) {
	result, err := api.SendMessage(ctx, client.SendMessageRequest{
		SubscriberID: subscriberID,
		MessageType:  domain.MessageType(messageType),
		Message:      message,
	})
	if err != nil {
		fatal("send message: %v", err)
	}
	fmt.Println(result.Message)
}

func statusLabel(sub domain.Subscriber) string {
	switch domain.SeverityFor(sub.DaysRemaining) {
	case domain.SeverityCritical:
		return string(sub.Status) + " !!"
	case domain.SeverityWarning:
		return string(sub.Status) + " !"
	default:
		return string(sub.Status)
	}
}

func printNotice(n dashboard.Notice) {
	if n.Level == dashboard.NoticeError {
		fmt.Fprintln(os.Stderr, n.Message)
		return
	}
	fmt.Println(n.Message)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
