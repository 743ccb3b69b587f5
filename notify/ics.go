package notify

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

const icsTimeLayout = "20060102T150405Z"

// buildInvite renders a one-event iCalendar payload for a one-hour session.
// date is "2006-01-02" and slot is the grid form "H:MM".
func buildInvite(requesterEmail, providerEmail, date, slot string) ([]byte, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}
	hour, err := strconv.Atoi(strings.SplitN(slot, ":", 2)[0])
	if err != nil {
		return nil, fmt.Errorf("invalid slot %q: %w", slot, err)
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//slotbook//session-booking//EN\r\n")
	b.WriteString("METHOD:REQUEST\r\n")
	b.WriteString("BEGIN:VEVENT\r\n")
	fmt.Fprintf(&b, "UID:%s\r\n", uuid.NewString())
	fmt.Fprintf(&b, "DTSTAMP:%s\r\n", time.Now().UTC().Format(icsTimeLayout))
	fmt.Fprintf(&b, "DTSTART:%s\r\n", start.Format(icsTimeLayout))
	fmt.Fprintf(&b, "DTEND:%s\r\n", end.Format(icsTimeLayout))
	b.WriteString("SUMMARY:Booked session\r\n")
	fmt.Fprintf(&b, "ORGANIZER:mailto:%s\r\n", providerEmail)
	fmt.Fprintf(&b, "ATTENDEE;ROLE=REQ-PARTICIPANT:mailto:%s\r\n", requesterEmail)
	fmt.Fprintf(&b, "ATTENDEE;ROLE=REQ-PARTICIPANT:mailto:%s\r\n", providerEmail)
	b.WriteString("END:VEVENT\r\n")
	b.WriteString("END:VCALENDAR\r\n")
	return []byte(b.String()), nil
}

// withInvite attaches the rendered calendar to an outgoing message.
func withInvite(ics []byte) func(*gomail.Message) {
	return func(m *gomail.Message) {
		m.Attach("invite.ics",
			gomail.SetHeader(map[string][]string{"Content-Type": {"text/calendar; method=REQUEST"}}),
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(ics)
				return err
			}),
		)
	}
}
