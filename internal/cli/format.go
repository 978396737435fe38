package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/evcraddock/showing-hive/internal/activity"
	"github.com/evcraddock/showing-hive/internal/property"
	"github.com/evcraddock/showing-hive/internal/schedule"
	"github.com/evcraddock/showing-hive/internal/showing"
	"github.com/evcraddock/showing-hive/internal/tour"
)

const timeLayout = "2006-01-02 15:04"

// printJSON marshals v as indented JSON and writes it to out.
func printJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// table writes rows under a header with a dashed separator line.
func table(out io.Writer, header []string, rows [][]string) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	seps := make([]string, len(header))
	for i, h := range header {
		seps[i] = strings.Repeat("-", len(h))
	}
	if _, err := fmt.Fprintln(w, strings.Join(header, "\t")); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, strings.Join(seps, "\t")); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}
	return w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(timeLayout)
}

func formatContact(c property.Contact) string {
	var parts []string
	for _, s := range []string{c.Name, c.Phone, c.Email} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return orDash(strings.Join(parts, ", "))
}

func formatPerson(p schedule.Person) string {
	return formatContact(property.Contact{Name: p.Name, Phone: p.Phone, Email: p.Email})
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// formatRating renders a 1..5 rating as stars.
func formatRating(r int) string {
	if r < 0 || r > 5 {
		return fmt.Sprint(r)
	}
	return strings.Repeat("★", r) + strings.Repeat("☆", 5-r)
}

// printProperty prints a single property in text format.
func printProperty(out io.Writer, p *property.Property) {
	fmt.Fprintf(out, "Property %s\n", p.ID)
	fmt.Fprintf(out, "  Name:        %s\n", p.Name)
	fmt.Fprintf(out, "  Address:     %s\n", p.Address)
	fmt.Fprintf(out, "  Seller:      %s\n", formatContact(p.Seller))
	fmt.Fprintf(out, "  Agent:       %s\n", formatContact(p.Agent))
	fmt.Fprintf(out, "  Auto-approve showings:  %s\n", yesNo(p.AutoApproveShowings))
	fmt.Fprintf(out, "  Disclosure approval:    %s\n", yesNo(p.RequiresDisclosureApproval))
}

// printPropertyTable prints a list of properties as a formatted table.
func printPropertyTable(out io.Writer, props []*property.Property) error {
	if len(props) == 0 {
		fmt.Fprintln(out, "No properties found.")
		return nil
	}
	rows := make([][]string, 0, len(props))
	for _, p := range props {
		rows = append(rows, []string{p.ID, p.Name, p.Address, yesNo(p.AutoApproveShowings)})
	}
	return table(out, []string{"ID", "NAME", "ADDRESS", "AUTO"}, rows)
}

// printShowing prints a single showing in text format.
func printShowing(out io.Writer, sh *schedule.Showing) {
	fmt.Fprintf(out, "Showing %s (%s)\n", sh.ID, sh.Status)
	fmt.Fprintf(out, "  Property:  %s\n", sh.PropertyID)
	fmt.Fprintf(out, "  Client:    %s\n", formatPerson(sh.Client))
	fmt.Fprintf(out, "  When:      %s\n", formatTime(sh.ScheduledAt))
	if sh.CodeExpiresAt != nil {
		fmt.Fprintf(out, "  Code valid until: %s\n", formatTime(*sh.CodeExpiresAt))
	}
	for _, fb := range sh.Feedback {
		fmt.Fprintf(out, "  %s %s\n", formatRating(fb.Rating), fb.Comment)
	}
}

// printShowingTable prints showings as a formatted table.
func printShowingTable(out io.Writer, list []*schedule.Showing) error {
	if len(list) == 0 {
		fmt.Fprintln(out, "No showings found.")
		return nil
	}
	rows := make([][]string, 0, len(list))
	for _, sh := range list {
		rows = append(rows, []string{
			sh.ID, formatTime(sh.ScheduledAt), string(sh.Status), formatPerson(sh.Client), fmt.Sprint(len(sh.Feedback)),
		})
	}
	return table(out, []string{"ID", "WHEN", "STATUS", "CLIENT", "FEEDBACK"}, rows)
}

// printBlockTable prints blocked ranges as a formatted table.
func printBlockTable(out io.Writer, blocks []schedule.BlockedRange) error {
	if len(blocks) == 0 {
		fmt.Fprintln(out, "No blocked time.")
		return nil
	}
	rows := make([][]string, 0, len(blocks))
	for _, b := range blocks {
		rows = append(rows, []string{formatTime(b.Start), formatTime(b.End)})
	}
	return table(out, []string{"START", "END"}, rows)
}

// printCredential prints a lockbox code.
func printCredential(out io.Writer, c *showing.Credential) {
	fmt.Fprintf(out, "Lockbox code: %s (valid until %s)\n", c.Code, formatTime(c.ExpiresAt))
}

// printPackageTable prints packages as a formatted table.
func printPackageTable(out io.Writer, pkgs []*schedule.Package) error {
	if len(pkgs) == 0 {
		fmt.Fprintln(out, "No packages found.")
		return nil
	}
	rows := make([][]string, 0, len(pkgs))
	for _, p := range pkgs {
		rows = append(rows, []string{p.ID, p.Name, strings.Join(p.Filenames, ", "), yesNo(p.IsPublic)})
	}
	return table(out, []string{"ID", "NAME", "FILES", "PUBLIC"}, rows)
}

// printShare prints a single share in text format.
func printShare(out io.Writer, sh *schedule.Share) {
	status := "waiting for approval"
	if sh.Approved {
		status = "approved"
	}
	fmt.Fprintf(out, "Share %s (%s)\n", sh.ID, status)
	fmt.Fprintf(out, "  Package:   %s\n", sh.PackageID)
	fmt.Fprintf(out, "  Buyer:     %s\n", formatPerson(sh.Buyer))
	for _, d := range sh.Downloads {
		fmt.Fprintf(out, "  Downloaded %s at %s\n", d.Filename, formatTime(d.Timestamp))
	}
	for _, fb := range sh.Feedback {
		fmt.Fprintf(out, "  %s %s\n", formatRating(fb.Rating), fb.Comment)
	}
}

// printShareTable prints shares as a formatted table.
func printShareTable(out io.Writer, shares []*schedule.Share) error {
	if len(shares) == 0 {
		fmt.Fprintln(out, "No shares found.")
		return nil
	}
	rows := make([][]string, 0, len(shares))
	for _, sh := range shares {
		rows = append(rows, []string{
			sh.ID, sh.PackageID, formatPerson(sh.Buyer), yesNo(sh.Approved), fmt.Sprint(len(sh.Downloads)),
		})
	}
	return table(out, []string{"ID", "PACKAGE", "BUYER", "APPROVED", "DOWNLOADS"}, rows)
}

// printDashboard prints a seller's view of a property.
func printDashboard(out io.Writer, d *showing.Dashboard) error {
	printProperty(out, d.Property)
	sections := []struct {
		title string
		print func() error
	}{
		{"Showings", func() error { return printShowingTable(out, d.Showings) }},
		{"Blocked time", func() error { return printBlockTable(out, d.Blocks) }},
		{"Packages", func() error { return printPackageTable(out, d.Packages) }},
		{"Shares", func() error { return printShareTable(out, d.Shares) }},
	}
	for _, s := range sections {
		fmt.Fprintf(out, "\n%s\n", s.title)
		if err := s.print(); err != nil {
			return err
		}
	}
	return nil
}

// printEvents prints activity events, newest first.
func printEvents(out io.Writer, events []*activity.Event) error {
	if len(events) == 0 {
		fmt.Fprintln(out, "No activity yet.")
		return nil
	}
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		rows = append(rows, []string{formatTime(e.CreatedAt), string(e.Type), formatDetails(e.Details)})
	}
	return table(out, []string{"WHEN", "EVENT", "DETAILS"}, rows)
}

func formatDetails(d activity.Details) string {
	if len(d) == 0 {
		return "-"
	}
	b, err := json.Marshal(d)
	if err != nil {
		return "-"
	}
	return string(b)
}

// printTour prints an itinerary.
func printTour(out io.Writer, t *tour.Tour) error {
	fmt.Fprintf(out, "Tour %s for %s\n", t.ID, orDash(t.BuyerName))
	rows := make([][]string, 0, len(t.Stops))
	for i, s := range t.Stops {
		rows = append(rows, []string{
			fmt.Sprint(i + 1), formatTime(s.ScheduledAt), formatTime(s.EndsAt), s.PropertyName, s.Address,
		})
	}
	return table(out, []string{"#", "START", "END", "PROPERTY", "ADDRESS"}, rows)
}

// printTourTable prints saved tours as a formatted table.
func printTourTable(out io.Writer, tours []*tour.Tour) error {
	if len(tours) == 0 {
		fmt.Fprintln(out, "No tours found.")
		return nil
	}
	rows := make([][]string, 0, len(tours))
	for _, t := range tours {
		first := "-"
		if len(t.Stops) > 0 {
			first = formatTime(t.Stops[0].ScheduledAt)
		}
		rows = append(rows, []string{t.ID, orDash(t.BuyerName), fmt.Sprint(len(t.Stops)), first})
	}
	return table(out, []string{"ID", "BUYER", "STOPS", "FIRST"}, rows)
}
