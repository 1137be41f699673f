// services/notification_service.go
package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"mechanicshop-backend/config"
	"mechanicshop-backend/models"
	"mechanicshop-backend/store"
	"mechanicshop-backend/utils"
)

// Tickets sitting In Progress longer than this show up in the daily
// sweep log.
const staleTicketDays = 7

// NotificationService sends a pickup SMS when a ticket is first
// completed and runs the daily stale-ticket sweep. Everything here is
// best effort: failures are logged and never reach the request that
// triggered them.
type NotificationService struct {
	store   *store.Store
	client  *twilio.RestClient
	enabled bool
}

func NewNotificationService(st *store.Store) *NotificationService {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &NotificationService{
		store:   st,
		enabled: os.Getenv("NOTIFY_ENABLED") == "true" && accountSid != "",
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (s *NotificationService) StartScheduler() {
	c := cron.New()

	// Run every day at 9 AM
	c.AddFunc("0 9 * * *", s.SweepStaleTickets)

	c.Start()
	config.Log.Info("notification scheduler started")
}

// TicketCompleted sends the "vehicle ready" SMS for a ticket that just
// reached Completed for the first time.
func (s *NotificationService) TicketCompleted(ticket models.ServiceTicket) {
	if !s.enabled {
		return
	}

	ctx := context.Background()
	doc, err := s.store.Get(ctx, store.Customers, ticket.CustomerID)
	if err != nil {
		config.Log.Warn("completion notice: customer lookup failed",
			zap.String("ticket_id", ticket.ID), zap.Error(err))
		return
	}
	var customer models.Customer
	if err := store.Decode(doc, &customer); err != nil {
		config.Log.Warn("completion notice: customer decode failed",
			zap.String("ticket_id", ticket.ID), zap.Error(err))
		return
	}
	if customer.Phone == "" {
		return
	}

	vehicle := "vehicle"
	if ticket.VehicleMake != "" {
		vehicle = ticket.VehicleMake
		if ticket.VehicleModel != "" {
			vehicle += " " + ticket.VehicleModel
		}
	}
	message := fmt.Sprintf("Hi %s, your %s is ready for pickup. Thank you for choosing us!",
		customer.FirstName, vehicle)

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(customer.Phone)
	params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	params.SetBody(message)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		config.Log.Warn("completion notice: send failed",
			zap.String("ticket_id", ticket.ID),
			zap.String("to", customer.Phone),
			zap.Error(err))
		return
	}
	sid := ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	config.Log.Info("completion notice sent",
		zap.String("ticket_id", ticket.ID),
		zap.String("sid", sid))
}

// SweepStaleTickets logs every ticket that has been In Progress for
// more than staleTicketDays so the shop can chase it. Observation
// only; nothing is mutated.
func (s *NotificationService) SweepStaleTickets() {
	ctx := context.Background()
	docs, err := s.store.FindByField(ctx, store.Tickets, "status", models.StatusInProgress)
	if err != nil {
		config.Log.Error("stale ticket sweep failed", zap.Error(err))
		return
	}

	now := time.Now().UTC()
	stale := 0
	for _, doc := range docs {
		var ticket models.ServiceTicket
		if err := store.Decode(doc, &ticket); err != nil {
			continue
		}
		if utils.DaysBetween(ticket.CreatedAt, now) > staleTicketDays {
			stale++
			config.Log.Warn("ticket stuck in progress",
				zap.String("ticket_id", ticket.ID),
				zap.String("customer_id", ticket.CustomerID),
				zap.Time("created_at", ticket.CreatedAt))
		}
	}
	config.Log.Info("stale ticket sweep completed",
		zap.Int("in_progress", len(docs)), zap.Int("stale", stale))
}
