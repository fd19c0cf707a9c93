// Package ses provides email notification services via AWS SES
package ses

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"

	appConfig "insurance-advisor-engine/internal/config"
	"insurance-advisor-engine/internal/models"
	"insurance-advisor-engine/internal/utils"
)

// Service handles SES email operations
type Service struct {
	client    *ses.Client
	fromEmail string
}

// EmailParams represents parameters for sending an email
type EmailParams struct {
	To        string
	Subject   string
	HTMLBody  string
	TextBody  string
	ReplyTo   string
	CC        []string
	BCC       []string
	ConfigSet string
}

// ProminentAlertParams contains data for the prominent customer alert
// sent to the relationship manager after an assessment.
type ProminentAlertParams struct {
	ManagerEmail    string
	UserID          int64
	ProminenceScore int
	Income          string
	Area            string
	PoliciesCount   int
	TopPolicies     []PolicyInfo
	DashboardURL    string
}

// PolicyInfo contains info about a single recommended policy for email
type PolicyInfo struct {
	Name       string
	Provider   string
	Category   string
	Premium    float64
	Coverage   float64
	Government bool
}

// SendEmailResult contains the result of sending an email
type SendEmailResult struct {
	MessageID string
	SentAt    time.Time
}

// NewService creates a new SES service
func NewService(ctx context.Context) (*Service, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	appCfg, err := appConfig.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load app config: %w", err)
	}

	client := ses.NewFromConfig(cfg)

	return &Service{
		client:    client,
		fromEmail: appCfg.SESSenderEmail,
	}, nil
}

// SendEmail sends a basic email
func (s *Service) SendEmail(ctx context.Context, params EmailParams) (*SendEmailResult, error) {
	input := &ses.SendEmailInput{
		Source: aws.String(s.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{params.To},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(params.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{},
		},
	}

	if params.HTMLBody != "" {
		input.Message.Body.Html = &types.Content{
			Data:    aws.String(params.HTMLBody),
			Charset: aws.String("UTF-8"),
		}
	}

	if params.TextBody != "" {
		input.Message.Body.Text = &types.Content{
			Data:    aws.String(params.TextBody),
			Charset: aws.String("UTF-8"),
		}
	}

	if len(params.CC) > 0 {
		input.Destination.CcAddresses = params.CC
	}

	if len(params.BCC) > 0 {
		input.Destination.BccAddresses = params.BCC
	}

	if params.ReplyTo != "" {
		input.ReplyToAddresses = []string{params.ReplyTo}
	}

	if params.ConfigSet != "" {
		input.ConfigurationSetName = aws.String(params.ConfigSet)
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		utils.GetLogger().Error("Failed to send email",
			zap.String("to", params.To),
			zap.String("subject", params.Subject),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to send email: %w", err)
	}

	utils.GetLogger().Info("Email sent successfully",
		zap.String("to", params.To),
		zap.String("subject", params.Subject),
		zap.String("messageId", *result.MessageId),
	)

	return &SendEmailResult{
		MessageID: *result.MessageId,
		SentAt:    time.Now(),
	}, nil
}

// SendProminentAlert notifies the relationship manager that an
// assessment identified a prominent customer.
func (s *Service) SendProminentAlert(ctx context.Context, params ProminentAlertParams) (*SendEmailResult, error) {
	htmlBody, err := s.renderProminentAlertHTML(params)
	if err != nil {
		return nil, fmt.Errorf("failed to render email template: %w", err)
	}

	textBody := s.renderProminentAlertText(params)

	subject := fmt.Sprintf("Prominent customer identified: user %d (score %d)", params.UserID, params.ProminenceScore)

	return s.SendEmail(ctx, EmailParams{
		To:       params.ManagerEmail,
		Subject:  subject,
		HTMLBody: htmlBody,
		TextBody: textBody,
	})
}

// SendBatchProminentAlerts sends alerts for multiple customers
func (s *Service) SendBatchProminentAlerts(ctx context.Context, alerts []ProminentAlertParams) ([]SendEmailResult, []error) {
	results := make([]SendEmailResult, 0, len(alerts))
	errors := make([]error, 0)

	for _, alert := range alerts {
		result, err := s.SendProminentAlert(ctx, alert)
		if err != nil {
			errors = append(errors, fmt.Errorf("failed to send alert for user %d: %w", alert.UserID, err))
			continue
		}
		results = append(results, *result)
	}

	utils.GetLogger().Info("Batch alerts sent",
		zap.Int("total", len(alerts)),
		zap.Int("success", len(results)),
		zap.Int("failed", len(errors)),
	)

	return results, errors
}

// BuildProminentAlertParams creates alert params from assessment data
func BuildProminentAlertParams(managerEmail string, customer *models.Customer, recommended []*models.Policy, dashboardURL string) ProminentAlertParams {
	topPolicies := make([]PolicyInfo, 0, len(recommended))

	for _, policy := range recommended {
		info := PolicyInfo{
			Name:       policy.Name,
			Provider:   policy.Provider,
			Category:   policy.Category,
			Government: policy.IsGovernmentPolicy,
		}
		if policy.Premium != nil {
			info.Premium = float64(*policy.Premium)
		}
		if policy.Coverage != nil {
			info.Coverage = float64(*policy.Coverage)
		}
		topPolicies = append(topPolicies, info)
	}

	return ProminentAlertParams{
		ManagerEmail:    managerEmail,
		UserID:          customer.UserID,
		ProminenceScore: customer.ProminenceScore,
		Income:          customer.Income,
		Area:            string(customer.Area),
		PoliciesCount:   customer.PoliciesCount,
		TopPolicies:     topPolicies,
		DashboardURL:    dashboardURL,
	}
}

// renderProminentAlertHTML renders the HTML email template
func (s *Service) renderProminentAlertHTML(params ProminentAlertParams) (string, error) {
	tmpl := `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: linear-gradient(135deg, #0f766e 0%, #115e59 100%); color: white; padding: 30px; border-radius: 10px 10px 0 0; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px; }
        .profile-row { margin: 5px 0; }
        .profile-label { font-size: 12px; color: #999; }
        .profile-value { font-weight: bold; color: #333; }
        .policy-card { background: white; border-radius: 8px; padding: 20px; margin: 15px 0; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .policy-card h3 { margin: 0 0 10px 0; color: #0f766e; }
        .policy-card .provider { color: #666; font-size: 14px; margin-bottom: 10px; }
        .score-badge { display: inline-block; background: #28a745; color: white; padding: 5px 12px; border-radius: 20px; font-weight: bold; }
        .gov-badge { display: inline-block; background: #1d4ed8; color: white; padding: 3px 10px; border-radius: 20px; font-size: 12px; }
        .cta-button { display: inline-block; background: #0f766e; color: white; padding: 15px 30px; text-decoration: none; border-radius: 8px; font-weight: bold; margin-top: 20px; }
        .footer { text-align: center; margin-top: 30px; color: #999; font-size: 12px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Prominent Customer Identified</h1>
        <p>User {{.UserID}} scored <span class="score-badge">{{.ProminenceScore}}</span></p>
    </div>
    <div class="content">
        <div class="profile-row"><span class="profile-label">Income bracket:</span> <span class="profile-value">{{.Income}}</span></div>
        <div class="profile-row"><span class="profile-label">Area:</span> <span class="profile-value">{{.Area}}</span></div>
        <div class="profile-row"><span class="profile-label">Existing policies:</span> <span class="profile-value">{{.PoliciesCount}}</span></div>

        <p>Recommended policies for this customer:</p>

        {{range .TopPolicies}}
        <div class="policy-card">
            <h3>{{.Name}} {{if .Government}}<span class="gov-badge">Government</span>{{end}}</h3>
            <p class="provider">{{.Provider}} &middot; {{.Category}}</p>
            <div class="profile-row"><span class="profile-label">Premium:</span> <span class="profile-value">&#8377;{{printf "%.0f" .Premium}}/year</span></div>
            <div class="profile-row"><span class="profile-label">Coverage:</span> <span class="profile-value">&#8377;{{printf "%.0f" .Coverage}}</span></div>
        </div>
        {{end}}

        {{if .DashboardURL}}
        <div style="text-align: center;">
            <a href="{{.DashboardURL}}" class="cta-button">Open Manager Dashboard</a>
        </div>
        {{end}}
    </div>
    <div class="footer">
        <p>This email was sent by Insurance Advisor Engine</p>
        <p>You received this because a customer assessment crossed the prominence threshold.</p>
    </div>
</body>
</html>`

	t, err := template.New("prominent_alert").Parse(tmpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, params); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// renderProminentAlertText renders plain text version
func (s *Service) renderProminentAlertText(params ProminentAlertParams) string {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Prominent customer identified: user %d\n\n", params.UserID))
	buf.WriteString(fmt.Sprintf("Prominence score: %d\n", params.ProminenceScore))
	buf.WriteString(fmt.Sprintf("Income bracket: %s\n", params.Income))
	buf.WriteString(fmt.Sprintf("Area: %s\n", params.Area))
	buf.WriteString(fmt.Sprintf("Existing policies: %d\n\n", params.PoliciesCount))
	buf.WriteString("Recommended policies:\n\n")

	for i, policy := range params.TopPolicies {
		buf.WriteString(fmt.Sprintf("%d. %s by %s (%s)\n", i+1, policy.Name, policy.Provider, policy.Category))
		buf.WriteString(fmt.Sprintf("   Premium: Rs %.0f/year\n", policy.Premium))
		buf.WriteString(fmt.Sprintf("   Coverage: Rs %.0f\n", policy.Coverage))
		if policy.Government {
			buf.WriteString("   Government-backed\n")
		}
		buf.WriteString("\n")
	}

	if params.DashboardURL != "" {
		buf.WriteString(fmt.Sprintf("Manager dashboard: %s\n\n", params.DashboardURL))
	}

	buf.WriteString("Insurance Advisor Engine\n")

	return buf.String()
}

// VerifyEmailAddress verifies an email address for sending
func (s *Service) VerifyEmailAddress(ctx context.Context, email string) error {
	input := &ses.VerifyEmailAddressInput{
		EmailAddress: aws.String(email),
	}

	_, err := s.client.VerifyEmailAddress(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to verify email: %w", err)
	}

	utils.GetLogger().Info("Email verification initiated", zap.String("email", email))
	return nil
}
