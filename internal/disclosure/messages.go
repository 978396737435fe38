package disclosure

import (
	"fmt"

	"github.com/evcraddock/showing-hive/internal/notify"
	"github.com/evcraddock/showing-hive/internal/property"
	"github.com/evcraddock/showing-hive/internal/schedule"
)

func buyer(sh *schedule.Share) notify.Recipient {
	return notify.Recipient{Name: sh.Buyer.Name, Phone: sh.Buyer.Phone, Email: sh.Buyer.Email}
}

func toOwners(p *property.Property, l notify.Letter) []notify.Message {
	var msgs []notify.Message
	for _, c := range p.Contacts() {
		msgs = append(msgs, l.To(notify.Recipient{Name: c.Name, Phone: c.Phone, Email: c.Email})...)
	}
	return msgs
}

func requestedMessages(p *property.Property, pkg *schedule.Package, sh *schedule.Share) []notify.Message {
	if sh.Approved {
		msgs := toOwners(p, notify.Letter{
			Subject: "Disclosures shared",
			SMS:     fmt.Sprintf("%s was given access to the %q disclosures for %s.", sh.Buyer.Name, pkg.Name, p.Name),
			Email:   fmt.Sprintf("%s was given access to the %q disclosure package for %s.\n\nShare ID: %s\n", sh.Buyer.Name, pkg.Name, p.Name, sh.ID),
		})
		return append(msgs, notify.Letter{
			Subject: "Disclosures available",
			SMS:     fmt.Sprintf("The %q disclosures for %s are ready to download. Share ID: %s", pkg.Name, p.Name, sh.ID),
			Email: fmt.Sprintf("Hello %s,\n\nThe %q disclosure package for %s is ready to download.\nShare ID: %s\n\nThank you.",
				sh.Buyer.Name, pkg.Name, p.Name, sh.ID),
		}.To(buyer(sh))...)
	}

	msgs := toOwners(p, notify.Letter{
		Subject: "Disclosure request needs approval",
		SMS:     fmt.Sprintf("%s requested the %q disclosures for %s. Approve share %s to grant access.", sh.Buyer.Name, pkg.Name, p.Name, sh.ID),
		Email: fmt.Sprintf("%s has requested the %q disclosure package for %s.\n\nApprove share %s to grant access.\nPhone: %s\nEmail: %s\n",
			sh.Buyer.Name, pkg.Name, p.Name, sh.ID, sh.Buyer.Phone, sh.Buyer.Email),
	})
	return append(msgs, notify.Letter{
		Subject: "Disclosure request received",
		SMS:     fmt.Sprintf("Your request for the %q disclosures for %s is pending seller approval.", pkg.Name, p.Name),
		Email: fmt.Sprintf("Hello %s,\n\nYour request for the %q disclosure package for %s has been received and is pending seller approval.\n\nThank you.",
			sh.Buyer.Name, pkg.Name, p.Name),
	}.To(buyer(sh))...)
}

func approvedMessages(p *property.Property, pkg *schedule.Package, sh *schedule.Share) []notify.Message {
	msgs := notify.Letter{
		Subject: "Disclosures approved",
		SMS:     fmt.Sprintf("Your access to the %q disclosures for %s has been approved. Share ID: %s", pkg.Name, p.Name, sh.ID),
		Email: fmt.Sprintf("Hello %s,\n\nYour access to the %q disclosure package for %s has been approved.\nShare ID: %s\n\nThank you.",
			sh.Buyer.Name, pkg.Name, p.Name, sh.ID),
	}.To(buyer(sh))
	return append(msgs, toOwners(p, notify.Letter{
		Subject: "Disclosure share approved",
		SMS:     fmt.Sprintf("Share %s of %q for %s is approved.", sh.ID, pkg.Name, sh.Buyer.Name),
		Email:   fmt.Sprintf("You approved %s's access to the %q disclosure package for %s.\n", sh.Buyer.Name, pkg.Name, p.Name),
	})...)
}

func feedbackMessages(p *property.Property, sh *schedule.Share, fb schedule.Feedback) []notify.Message {
	return toOwners(p, notify.Letter{
		Subject: "Disclosure feedback",
		SMS:     fmt.Sprintf("%s rated the %s disclosures %d/5: %s", sh.Buyer.Name, p.Name, fb.Rating, fb.Comment),
		Email:   fmt.Sprintf("%s left feedback on the disclosures for %s.\n\nRating: %d/5\nComment: %s\n", sh.Buyer.Name, p.Name, fb.Rating, fb.Comment),
	})
}
