package services

import (
	"context"
	"log"
	"sync"
	"time"

	"postulate-api/models"
)

// Notifier is told about committed waitlist signups. Implementations return
// without waiting on the network and handle their own failures.
type Notifier interface {
	WaitlistJoined(ctx context.Context, entry models.WaitlistEntry)
}

// MailSender is satisfied by config.Mailer.
type MailSender interface {
	Send(to []string, subject, html, text string) error
}

// MailNotifier emails the operator and the new signup from a goroutine.
type MailNotifier struct {
	sender   MailSender
	operator string
	siteURL  string
	wg       sync.WaitGroup
}

func NewMailNotifier(sender MailSender, operator, siteURL string) *MailNotifier {
	return &MailNotifier{sender: sender, operator: operator, siteURL: siteURL}
}

func (n *MailNotifier) WaitlistJoined(ctx context.Context, entry models.WaitlistEntry) {
	at := entry.CreatedAt
	if at.IsZero() {
		at = time.Now()
	}
	alert := waitlistAlertEmail(entry, at)
	welcome := waitlistWelcomeEmail(entry, n.siteURL)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if n.operator != "" {
			if err := n.sender.Send([]string{n.operator}, alert.Subject, alert.HTML, alert.Text); err != nil {
				log.Printf("[mail] waitlist alert to %s failed: %v", n.operator, err)
			} else {
				log.Printf("[mail] waitlist alert sent to %s", n.operator)
			}
		}
		if err := n.sender.Send([]string{entry.Email}, welcome.Subject, welcome.HTML, welcome.Text); err != nil {
			log.Printf("[mail] confirmation to %s failed: %v", entry.Email, err)
			return
		}
		log.Printf("[mail] confirmation sent to %s", entry.Email)
	}()
}

// Wait blocks until in-flight mail has been attempted.
func (n *MailNotifier) Wait() {
	n.wg.Wait()
}

// EventNotifier publishes waitlist.joined from a goroutine.
type EventNotifier struct {
	events EventPublisher
	wg     sync.WaitGroup
}

func NewEventNotifier(events EventPublisher) *EventNotifier {
	return &EventNotifier{events: events}
}

func (n *EventNotifier) WaitlistJoined(ctx context.Context, entry models.WaitlistEntry) {
	event := WaitlistJoinedEvent{
		EntryID:   entry.ID,
		UserID:    entry.UserID,
		Email:     entry.Email,
		Type:      entry.Type,
		CreatedAt: entry.CreatedAt,
	}
	ctx = persistentContext(ctx)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		if err := n.events.Publish(ctx, EventWaitlistJoined, event); err != nil {
			log.Printf("[events] publish %s failed: %v", EventWaitlistJoined, err)
		}
	}()
}

// Wait blocks until queued events have been attempted.
func (n *EventNotifier) Wait() {
	n.wg.Wait()
}

// LogNotifier is used when no mail transport is configured.
type LogNotifier struct{}

func (LogNotifier) WaitlistJoined(_ context.Context, entry models.WaitlistEntry) {
	log.Printf("[notify] waitlist signup %s (%s), mail disabled", entry.Email, entry.Type)
}

// MultiNotifier fans out to every notifier in order.
type MultiNotifier []Notifier

func (m MultiNotifier) WaitlistJoined(ctx context.Context, entry models.WaitlistEntry) {
	for _, n := range m {
		n.WaitlistJoined(ctx, entry)
	}
}
