// Package email renders the messages sent by the mail relay.
package email

import (
	"fmt"
	"html"
	"strings"

	"solarhub/internal/domain"
)

// Message is a rendered email.
type Message struct {
	Subject string
	HTML    string
	Text    string
}

// NewApplicationMessage renders the admin notification for a new application.
// frontendURL links to the admin review page and may be empty.
func NewApplicationMessage(app *domain.Application, frontendURL string) Message {
	subject := fmt.Sprintf("New solar application: %s", app.ProjectName)

	reviewURL := ""
	if frontendURL != "" {
		reviewURL = fmt.Sprintf("%s/admin/applications/%s", strings.TrimRight(frontendURL, "/"), app.ID)
	}

	systemType := string(app.SystemType)
	if systemType == "" {
		systemType = "unspecified"
	}

	rows := [][2]string{
		{"Project", app.ProjectName},
		{"Facility type", string(app.FacilityType)},
		{"Location", app.Location},
		{"System type", systemType},
		{"Monthly consumption", app.LoadProfile},
		{"Status", string(app.Status)},
		{"Attachments", fmt.Sprintf("%d bills, %d photos, %d load files",
			len(app.Files.Bills), len(app.Files.Photos), len(app.Files.LoadData))},
		{"Submitted", app.CreatedAt.UTC().Format("2006-01-02 15:04 MST")},
	}
	if app.Notes != "" {
		rows = append(rows, [2]string{"Notes", app.Notes})
	}

	var text strings.Builder
	text.WriteString("A new solar application was submitted.\n\n")
	for _, r := range rows {
		fmt.Fprintf(&text, "%s: %s\n", r[0], r[1])
	}
	if reviewURL != "" {
		fmt.Fprintf(&text, "\nReview it at %s\n", reviewURL)
	}
	text.WriteString("\nSolarHub")

	var table strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&table,
			`<tr><td style="padding: 6px 12px; color: #666;">%s</td><td style="padding: 6px 12px;">%s</td></tr>`+"\n",
			html.EscapeString(r[0]), html.EscapeString(r[1]))
	}
	button := ""
	if reviewURL != "" {
		button = fmt.Sprintf(`<p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #F59E0B; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Review Application</a>
  </p>`, html.EscapeString(reviewURL))
	}

	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">New solar application</h2>
  <table style="border-collapse: collapse; width: 100%%;">
%s  </table>
  %s
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">SolarHub - Solar Energy Brokerage</p>
</body>
</html>`, table.String(), button)

	return Message{Subject: subject, HTML: body, Text: text.String()}
}
