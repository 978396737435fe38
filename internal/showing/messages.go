package showing

import (
	"fmt"

	"github.com/evcraddock/showing-hive/internal/notify"
	"github.com/evcraddock/showing-hive/internal/property"
	"github.com/evcraddock/showing-hive/internal/schedule"
)

const timeLayout = "2006-01-02 15:04"

func buyer(sh *schedule.Showing) notify.Recipient {
	return notify.Recipient{Name: sh.Client.Name, Phone: sh.Client.Phone, Email: sh.Client.Email}
}

// address sends buyerLetter to the showing's client and ownerLetter to the
// property's seller and agent.
func address(p *property.Property, sh *schedule.Showing, buyerLetter, ownerLetter notify.Letter) []notify.Message {
	msgs := buyerLetter.To(buyer(sh))
	for _, c := range p.Contacts() {
		msgs = append(msgs, ownerLetter.To(notify.Recipient{Name: c.Name, Phone: c.Phone, Email: c.Email})...)
	}
	return msgs
}

func requestedMessages(p *property.Property, sh *schedule.Showing) []notify.Message {
	when := sh.ScheduledAt.Format(timeLayout)
	return address(p, sh,
		notify.Letter{
			Subject: "Showing request received",
			SMS:     fmt.Sprintf("Your showing request for %s on %s has been received and is pending approval.", p.Name, when),
			Email: fmt.Sprintf("Hello %s,\n\nYour showing request for %s on %s has been received and is pending approval.\n\nThank you.",
				sh.Client.Name, p.Name, when),
		},
		notify.Letter{
			Subject: "New showing request",
			SMS:     fmt.Sprintf("New showing request for %s on %s from %s. Showing ID: %s", p.Name, when, sh.Client.Name, sh.ID),
			Email: fmt.Sprintf("%s has requested a showing of %s (%s) on %s.\n\nShowing ID: %s\nPhone: %s\nEmail: %s\n",
				sh.Client.Name, p.Name, p.Address, when, sh.ID, sh.Client.Phone, sh.Client.Email),
		},
	)
}

func approvedMessages(p *property.Property, sh *schedule.Showing) []notify.Message {
	when := sh.ScheduledAt.Format(timeLayout)
	expires := sh.CodeExpiresAt.Format(timeLayout)
	return address(p, sh,
		notify.Letter{
			Subject: "Showing approved",
			SMS: fmt.Sprintf("Your showing for %s at %s has been approved. Lockbox code: %s (expires %s).",
				p.Name, when, sh.LockboxCode, expires),
			Email: fmt.Sprintf("Hello %s,\n\nYour showing for %s at %s has been approved.\nYour lockbox code is %s and will expire at %s.\n\nThank you.",
				sh.Client.Name, p.Name, when, sh.LockboxCode, expires),
		},
		notify.Letter{
			Subject: "Showing approved",
			SMS: fmt.Sprintf("Showing of %s for %s at %s approved. Lockbox code %s expires %s.",
				p.Name, sh.Client.Name, when, sh.LockboxCode, expires),
			Email: fmt.Sprintf("The showing of %s for %s at %s has been approved.\nLockbox code: %s (expires %s).\n",
				p.Name, sh.Client.Name, when, sh.LockboxCode, expires),
		},
	)
}

func declinedMessages(p *property.Property, sh *schedule.Showing) []notify.Message {
	when := sh.ScheduledAt.Format(timeLayout)
	return address(p, sh,
		notify.Letter{
			Subject: "Showing declined",
			SMS:     fmt.Sprintf("Your showing request for %s on %s has been declined.", p.Name, when),
			Email: fmt.Sprintf("Hello %s,\n\nYour showing request for %s on %s has been declined.\n\nThank you.",
				sh.Client.Name, p.Name, when),
		},
		notify.Letter{
			Subject: "Showing declined",
			SMS:     fmt.Sprintf("Showing of %s for %s on %s was declined.", p.Name, sh.Client.Name, when),
			Email:   fmt.Sprintf("The showing of %s for %s on %s was declined. The slot is open again.\n", p.Name, sh.Client.Name, when),
		},
	)
}

func rescheduledMessages(p *property.Property, sh *schedule.Showing, previous string, newCode bool) []notify.Message {
	when := sh.ScheduledAt.Format(timeLayout)
	owner := notify.Letter{
		Subject: "Showing rescheduled",
		SMS:     fmt.Sprintf("Showing of %s for %s moved from %s to %s.", p.Name, sh.Client.Name, previous, when),
		Email:   fmt.Sprintf("The showing of %s for %s has moved from %s to %s.\n", p.Name, sh.Client.Name, previous, when),
	}

	if newCode {
		expires := sh.CodeExpiresAt.Format(timeLayout)
		return address(p, sh,
			notify.Letter{
				Subject: "Showing rescheduled",
				SMS: fmt.Sprintf("Your showing for %s has been rescheduled to %s. New lockbox code: %s (expires %s).",
					p.Name, when, sh.LockboxCode, expires),
				Email: fmt.Sprintf("Hello %s,\n\nYour showing for %s has been rescheduled to %s.\nYour new lockbox code is %s and will expire at %s.\n\nThank you.",
					sh.Client.Name, p.Name, when, sh.LockboxCode, expires),
			},
			owner,
		)
	}

	return address(p, sh,
		notify.Letter{
			Subject: "Showing rescheduled",
			SMS:     fmt.Sprintf("Your showing request for %s has been rescheduled to %s and is pending approval.", p.Name, when),
			Email: fmt.Sprintf("Hello %s,\n\nYour showing request for %s has been rescheduled to %s and is pending approval.\n\nThank you.",
				sh.Client.Name, p.Name, when),
		},
		owner,
	)
}

func reminderMessages(p *property.Property, sh *schedule.Showing) []notify.Message {
	when := sh.ScheduledAt.Format(timeLayout)
	expires := sh.CodeExpiresAt.Format(timeLayout)
	return notify.Letter{
		Subject: "Showing reminder",
		SMS: fmt.Sprintf("Reminder: your showing of %s at %s starts at %s. Lockbox code: %s (expires %s).",
			p.Name, p.Address, when, sh.LockboxCode, expires),
		Email: fmt.Sprintf("Hello %s,\n\nThis is a reminder that your showing of %s at %s starts at %s.\nYour lockbox code is %s and will expire at %s.\n\nThank you.",
			sh.Client.Name, p.Name, p.Address, when, sh.LockboxCode, expires),
	}.To(buyer(sh))
}
