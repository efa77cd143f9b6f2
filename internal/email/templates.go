package email

import (
	"fmt"
	"html"
	"strings"

	"atelier/internal/config"
	"atelier/internal/models"
)

// Templates provides email template generation.
type Templates struct {
	cfg *config.Config
}

// NewTemplates creates a new templates instance.
func NewTemplates(cfg *config.Config) *Templates {
	return &Templates{cfg: cfg}
}

// baseHTML wraps content in a consistent HTML email template.
func (t *Templates) baseHTML(title, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #1f2937; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #f9fafb; padding: 20px; border: 1px solid #e5e7eb; }
        .footer { background: #f3f4f6; padding: 15px; text-align: center; font-size: 12px; color: #6b7280; border-radius: 0 0 8px 8px; border: 1px solid #e5e7eb; border-top: none; }
        .info-box { background: white; border: 1px solid #e5e7eb; border-radius: 6px; padding: 15px; margin: 15px 0; }
        .label { font-weight: 600; color: #374151; }
        .value { color: #6b7280; }
        .approve { color: #059669; }
        .reject { color: #dc2626; }
        .comment { color: #d97706; }
        blockquote { border-left: 3px solid #e5e7eb; margin: 10px 0; padding-left: 12px; color: #4b5563; }
    </style>
</head>
<body>
    <div class="header">
        <h1>%s</h1>
    </div>
    <div class="content">
        %s
    </div>
    <div class="footer">
        <p>This email was sent by %s</p>
        <p><a href="%s">%s</a></p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(t.cfg.SiteTitle), content, html.EscapeString(t.cfg.SiteTitle), t.cfg.BaseURL, t.cfg.BaseURL)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// actionVerb maps a ledger action to the phrasing used in subjects and bodies.
func actionVerb(action string) string {
	switch action {
	case models.ActionApprove:
		return "approved"
	case models.ActionReject:
		return "rejected"
	default:
		return "commented on"
	}
}

// ApprovalAction generates the email sent to operators when a client account
// records an approval, rejection, or comment on a material.
func (t *Templates) ApprovalAction(approval *models.Approval, material *models.Material, account *models.ClientAccount) (subject, htmlBody, textBody string) {
	verb := actionVerb(approval.Action)
	who := account.Email
	if account.Name != "" {
		who = fmt.Sprintf("%s (%s)", account.Name, account.Email)
	}

	subject = fmt.Sprintf("[%s] %s %s: %s", t.cfg.SiteTitle, who, verb, material.Title)

	commentBlock := ""
	if approval.Comment != "" {
		commentBlock = fmt.Sprintf(`<blockquote>%s</blockquote>`, html.EscapeString(approval.Comment))
	}

	content := fmt.Sprintf(`
        <p><span class="%s">%s</span> has been recorded on a material.</p>

        <div class="info-box">
            <p><span class="label">Material:</span> %s</p>
            <p><span class="label">By:</span> %s</p>
            <p><span class="label">Action:</span> <span class="%s">%s</span></p>
            %s
        </div>

        <p>Review the full response history in the admin console.</p>`,
		approval.Action, html.EscapeString(titleCase(approval.Action)),
		html.EscapeString(material.Title),
		html.EscapeString(who),
		approval.Action, approval.Action,
		commentBlock)

	htmlBody = t.baseHTML("Client Response Recorded", content)

	var text strings.Builder
	text.WriteString(fmt.Sprintf("%s %s the material %q.\n\n", who, verb, material.Title))
	if approval.Comment != "" {
		text.WriteString(fmt.Sprintf("Comment:\n%s\n\n", approval.Comment))
	}
	text.WriteString(fmt.Sprintf("Recorded at: %s\n", approval.CreatedAt.Format("2006-01-02 15:04 MST")))
	textBody = text.String()

	return subject, htmlBody, textBody
}

// PreviewCheckFailed generates the email sent to operators when a material
// preview asset stops responding.
func (t *Templates) PreviewCheckFailed(material *models.Material, checkErr string) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("[%s] Preview asset unreachable: %s", t.cfg.SiteTitle, material.Title)

	content := fmt.Sprintf(`
        <p>A material's preview asset failed its reachability check.</p>

        <div class="info-box">
            <p><span class="label">Material:</span> %s</p>
            <p><span class="label">Preview URL:</span> <a href="%s">%s</a></p>
            <p><span class="label">Error:</span> <span class="reject">%s</span></p>
        </div>

        <p>Clients opening their share link will see a material without a working preview until this is fixed.</p>`,
		html.EscapeString(material.Title),
		html.EscapeString(material.PreviewURL),
		html.EscapeString(material.PreviewURL),
		html.EscapeString(checkErr))

	htmlBody = t.baseHTML("Preview Asset Unreachable", content)

	textBody = fmt.Sprintf("The preview asset for material %q failed its reachability check.\n\nURL: %s\nError: %s\n",
		material.Title, material.PreviewURL, checkErr)

	return subject, htmlBody, textBody
}
