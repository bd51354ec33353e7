// Package queue defines message payloads exchanged over the message broker.
package queue

import "context"

// MailQueueName is the durable queue carrying outbound mail requests.
const MailQueueName = "kennel.mail"

// MailRequested is published whenever the application wants a mail sent:
// on registration, when a generated password is issued, and on view-count
// milestones.  It carries the full send contract so the consumer needs no
// database access.
type MailRequested struct {
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
	From    string   `json:"from"`
	To      []string `json:"to"`
}

// Notifier publishes mail requests.  Handlers treat publishing as
// best-effort: errors are logged and never fail the request that produced
// the notification.
type Notifier interface {
	PublishMail(ctx context.Context, ev MailRequested) error
}
