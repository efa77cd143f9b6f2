package email

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"atelier/internal/config"
	"atelier/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		SiteTitle: "Atelier Test",
		BaseURL:   "https://studio.example.com",
	}
}

func TestTemplates_BaseHTML(t *testing.T) {
	tmpl := NewTemplates(testConfig())

	html := tmpl.baseHTML("Test Title", "<p>Test content</p>")

	checks := []string{
		"<!DOCTYPE html>",
		"<title>Test Title</title>",
		"Atelier Test",
		"https://studio.example.com",
		"<p>Test content</p>",
	}

	for _, check := range checks {
		if !strings.Contains(html, check) {
			t.Errorf("baseHTML missing %q", check)
		}
	}
}

func TestTemplates_BaseHTML_EscapesHTML(t *testing.T) {
	cfg := testConfig()
	cfg.SiteTitle = "<script>alert('xss')</script>"
	tmpl := NewTemplates(cfg)

	html := tmpl.baseHTML("Test", "Content")

	if strings.Contains(html, "<script>alert") {
		t.Error("baseHTML did not escape site title")
	}
}

func TestTemplates_ApprovalAction(t *testing.T) {
	tmpl := NewTemplates(testConfig())

	material := &models.Material{
		ID:    uuid.New(),
		Title: "Homepage Hero v3",
	}
	account := &models.ClientAccount{
		ID:    uuid.New(),
		Name:  "Dana Reyes",
		Email: "dana@client.example.com",
	}

	tests := []struct {
		name        string
		action      string
		comment     string
		wantSubject string
		wantBody    []string
	}{
		{
			name:        "approve",
			action:      models.ActionApprove,
			wantSubject: "approved",
			wantBody:    []string{"Homepage Hero v3", "Dana Reyes"},
		},
		{
			name:        "reject with comment",
			action:      models.ActionReject,
			comment:     "Logo is too small",
			wantSubject: "rejected",
			wantBody:    []string{"Logo is too small"},
		},
		{
			name:        "comment",
			action:      models.ActionComment,
			comment:     "Can we try a darker blue?",
			wantSubject: "commented on",
			wantBody:    []string{"Can we try a darker blue?"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			approval := &models.Approval{
				ID:         uuid.New(),
				MaterialID: material.ID,
				AccountID:  account.ID,
				Action:     tt.action,
				Comment:    tt.comment,
				CreatedAt:  time.Now(),
			}

			subject, htmlBody, textBody := tmpl.ApprovalAction(approval, material, account)

			if !strings.Contains(subject, tt.wantSubject) {
				t.Errorf("subject %q missing %q", subject, tt.wantSubject)
			}
			for _, want := range tt.wantBody {
				if !strings.Contains(htmlBody, want) {
					t.Errorf("html body missing %q", want)
				}
				if !strings.Contains(textBody, want) {
					t.Errorf("text body missing %q", want)
				}
			}
		})
	}
}

func TestTemplates_ApprovalAction_EscapesComment(t *testing.T) {
	tmpl := NewTemplates(testConfig())

	approval := &models.Approval{
		Action:    models.ActionComment,
		Comment:   "<img src=x onerror=alert(1)>",
		CreatedAt: time.Now(),
	}
	material := &models.Material{Title: "Brand Deck"}
	account := &models.ClientAccount{Email: "a@b.example.com"}

	_, htmlBody, _ := tmpl.ApprovalAction(approval, material, account)

	if strings.Contains(htmlBody, "<img src=x") {
		t.Error("ApprovalAction did not escape comment HTML")
	}
}

func TestTemplates_PreviewCheckFailed(t *testing.T) {
	tmpl := NewTemplates(testConfig())

	material := &models.Material{
		Title:      "Spring Campaign Video",
		PreviewURL: "https://cdn.example.com/spring.mp4",
	}

	subject, htmlBody, textBody := tmpl.PreviewCheckFailed(material, "connection refused")

	if !strings.Contains(subject, "Spring Campaign Video") {
		t.Errorf("subject %q missing material title", subject)
	}
	if !strings.Contains(htmlBody, "connection refused") {
		t.Error("html body missing check error")
	}
	if !strings.Contains(textBody, "https://cdn.example.com/spring.mp4") {
		t.Error("text body missing preview URL")
	}
}
