package services

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"postulate-api/models"
)

type emailMetaItem struct {
	Label string
	Value string
}

var basicHTMLReplacer = strings.NewReplacer(
	"&lt;strong&gt;", "<strong>",
	"&lt;/strong&gt;", "</strong>",
)

// buildEmailTemplate renders the shared card layout. Paragraph and meta text
// is escaped; only <strong> survives in paragraphs.
func buildEmailTemplate(subject string, paragraphs []string, meta []emailMetaItem, buttonText, buttonURL, footerHTML string) string {
	var content strings.Builder
	for _, paragraph := range paragraphs {
		trimmed := strings.TrimSpace(paragraph)
		if trimmed == "" {
			continue
		}
		escaped := template.HTMLEscapeString(trimmed)
		escaped = strings.ReplaceAll(escaped, "\n", "<br />")
		escaped = basicHTMLReplacer.Replace(escaped)
		content.WriteString(`<p style="margin:0 0 16px 0;line-height:1.7;">`)
		content.WriteString(escaped)
		content.WriteString(`</p>`)
	}

	var metaSection strings.Builder
	for _, item := range meta {
		label := strings.TrimSpace(item.Label)
		value := strings.TrimSpace(item.Value)
		if label == "" || value == "" {
			continue
		}
		fmt.Fprintf(&metaSection, `<tr><td style="padding:8px 12px;color:#6b7280;font-size:13px;">%s</td><td style="padding:8px 12px;color:#111827;font-weight:600;white-space:pre-wrap;">%s</td></tr>`,
			template.HTMLEscapeString(label), template.HTMLEscapeString(value))
	}
	metaHTML := ""
	if metaSection.Len() > 0 {
		metaHTML = `<table role="presentation" cellpadding="0" cellspacing="0" width="100%" style="margin:0 0 20px 0;border:1px solid #e5e7eb;border-radius:10px;background-color:#f9fafb;"><tbody>` +
			metaSection.String() + `</tbody></table>`
	}

	buttonHTML := ""
	if strings.TrimSpace(buttonText) != "" && strings.TrimSpace(buttonURL) != "" {
		buttonHTML = fmt.Sprintf(`<div style="text-align:center;margin:12px 0 20px 0;"><a href="%s" style="display:inline-block;padding:12px 28px;background-color:#111827;color:#ffffff;text-decoration:none;border-radius:999px;font-weight:600;">%s</a></div>`,
			template.HTMLEscapeString(buttonURL), template.HTMLEscapeString(buttonText))
	}

	footer := ""
	if strings.TrimSpace(footerHTML) != "" {
		footer = fmt.Sprintf(`<div style="color:#6b7280;font-size:13px;line-height:1.7;">%s</div>`, footerHTML)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
</head>
<body style="margin:0;padding:0;background-color:#f9fafb;font-family:Helvetica,Arial,sans-serif;">
<div style="max-width:600px;margin:0 auto;padding:24px 20px;">
<div style="background-color:#ffffff;border:1px solid #e5e7eb;border-radius:12px;padding:24px;">
<h1 style="margin:0 0 20px 0;font-size:22px;color:#111827;">%s</h1>
<div style="color:#1f2937;font-size:16px;">%s</div>
%s
%s
%s
</div>
</div>
</body>
</html>`, template.HTMLEscapeString(subject), template.HTMLEscapeString(subject), content.String(), metaHTML, buttonHTML, footer)
}

type emailContent struct {
	Subject string
	HTML    string
	Text    string
}

func waitlistAlertEmail(entry models.WaitlistEntry, at time.Time) emailContent {
	label := entry.Type.Label()
	meta := []emailMetaItem{
		{Label: "Type", Value: label},
		{Label: "Email", Value: entry.Email},
		{Label: "Name", Value: deref(entry.Name)},
		{Label: "Company", Value: deref(entry.Company)},
		{Label: "Message", Value: deref(entry.Message)},
		{Label: "Signed up at", Value: at.Format(time.RFC1123)},
	}

	var text strings.Builder
	text.WriteString("New Waitlist Signup\n\n")
	for _, item := range meta {
		if item.Value != "" {
			fmt.Fprintf(&text, "%s: %s\n", item.Label, item.Value)
		}
	}

	subject := "New Waitlist Signup - " + label
	return emailContent{
		Subject: subject,
		HTML:    buildEmailTemplate(subject, []string{"A new signup just joined the waitlist."}, meta, "", "", ""),
		Text:    text.String(),
	}
}

func waitlistWelcomeEmail(entry models.WaitlistEntry, siteURL string) emailContent {
	name := deref(entry.Name)
	if name == "" {
		name = "there"
	}
	paragraphs := []string{
		"Hi " + name + ",",
		"We're excited to have you join us as a " + strings.ToLower(entry.Type.Label()) + " on postulate.ai!",
		"We'll be in touch soon with updates and early access information.",
		"In the meantime, feel free to reach out if you have any questions.",
		"Best regards,\nThe postulate.ai Team",
	}

	buttonText := ""
	if siteURL != "" {
		buttonText = "Visit postulate.ai"
	}

	return emailContent{
		Subject: "Welcome to postulate.ai Waitlist!",
		HTML:    buildEmailTemplate("Thank you for joining the postulate.ai waitlist!", paragraphs, nil, buttonText, siteURL, ""),
		Text:    "Thank you for joining the postulate.ai waitlist!\n\n" + strings.Join(paragraphs, "\n\n") + "\n",
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
