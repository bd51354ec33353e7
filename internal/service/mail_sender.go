package service

import (
	"log"

	gomail "gopkg.in/gomail.v2"

	q "github.com/kennelapp/dog-kennel/internal/queue"
)

// SMTPSender delivers mail requests over SMTP.  It implements
// queue.Sender.  With an empty Host the sender only logs the delivery,
// which keeps local environments working without a mail server.
type SMTPSender struct {
	Host string
	Port int
	User string
	Pass string
}

func NewSMTPSender(host string, port int, user, pass string) *SMTPSender {
	return &SMTPSender{Host: host, Port: port, User: user, Pass: pass}
}

// Send delivers one message as plain text.
func (s *SMTPSender) Send(ev q.MailRequested) error {
	if s.Host == "" {
		log.Printf("mail: no SMTP host configured, dropping %q to %v", ev.Subject, ev.To)
		return nil
	}

	m := gomail.NewMessage()
	from := ev.From
	if from == "" {
		from = s.User
	}
	m.SetHeader("From", from)
	m.SetHeader("To", ev.To...)
	m.SetHeader("Subject", ev.Subject)
	m.SetBody("text/plain", ev.Body)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Pass)
	return d.DialAndSend(m)
}
