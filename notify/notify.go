package notify

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Notifier delivers post-commit side effects: verification codes, booking
// confirmations, calendar invites and session reminders. A delivery failure
// never rolls anything back; callers report it as degraded and move on.
type Notifier interface {
	SendCode(email, code string) error
	SendBookingConfirmation(requesterEmail, providerEmail, date, slot string) error
	SendCalendarInvite(requesterEmail, providerEmail, date, slot string) error
	SendReminder(email, date, slot string) error
}

// SMTPNotifier sends everything over plain SMTP via gomail.
type SMTPNotifier struct {
	host string
	port int
	user string
	pass string
}

func NewSMTPNotifier(host string, port int, user, pass string) *SMTPNotifier {
	return &SMTPNotifier{host: host, port: port, user: user, pass: pass}
}

func (n *SMTPNotifier) send(to []string, subject, body string, attach func(*gomail.Message)) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.user)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	if attach != nil {
		attach(m)
	}

	d := gomail.NewDialer(n.host, n.port, n.user, n.pass)
	return d.DialAndSend(m)
}

func (n *SMTPNotifier) SendCode(email, code string) error {
	body := fmt.Sprintf(`
		<p>Welcome!</p>
		<p>Your verification code is <strong>%s</strong>.</p>
		<p>It expires in one hour.</p>
	`, code)
	return n.send([]string{email}, "Verify your email", body, nil)
}

func (n *SMTPNotifier) SendBookingConfirmation(requesterEmail, providerEmail, date, slot string) error {
	body := fmt.Sprintf(`
		<p>Your session is confirmed.</p>
		<p><strong>Date:</strong> %s</p>
		<p><strong>Time:</strong> %s</p>
		<p>The session lasts one hour.</p>
	`, date, slot)
	return n.send([]string{requesterEmail, providerEmail}, "Session confirmed", body, nil)
}

func (n *SMTPNotifier) SendCalendarInvite(requesterEmail, providerEmail, date, slot string) error {
	ics, err := buildInvite(requesterEmail, providerEmail, date, slot)
	if err != nil {
		return err
	}
	body := "<p>Your session invite is attached.</p>"
	return n.send([]string{requesterEmail, providerEmail}, "Session invite", body, withInvite(ics))
}

func (n *SMTPNotifier) SendReminder(email, date, slot string) error {
	body := fmt.Sprintf(`
		<p>This is a reminder for your session starting in one hour.</p>
		<p><strong>Date:</strong> %s</p>
		<p><strong>Time:</strong> %s</p>
		<p>Please be on time.</p>
	`, date, slot)
	return n.send([]string{email}, "Upcoming session reminder", body, nil)
}
