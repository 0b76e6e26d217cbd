package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"log/slog"
	texttemplate "text/template"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	pkglogger "github.com/BradenHooton/meular/pkg/logger"
)

// Mail templates
const (
	TemplateEmailValidation  = "email-validation"
	TemplatePasswordRecovery = "password-recovery"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Mail is one outbound message. Data is rendered into both the html and the
// text variant of Template.
type Mail struct {
	To       string
	From     string
	Subject  string
	Template string
	Data     any
}

// MailService delivers templated mail
type MailService interface {
	Send(ctx context.Context, mail Mail) error
}

// ValidationMailData feeds the email-validation template
type ValidationMailData struct {
	Name      string
	Link      string
	ExpiresIn string
}

// RecoveryMailData feeds the password-recovery template
type RecoveryMailData struct {
	Name       string
	Link       string
	RecoveryID string
	ExpiresIn  string
}

// MailRenderer renders the embedded html and text templates
type MailRenderer struct {
	html *htmltemplate.Template
	text *texttemplate.Template
}

// NewMailRenderer parses the embedded templates
func NewMailRenderer() (*MailRenderer, error) {
	html, err := htmltemplate.ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse html mail templates: %w", err)
	}

	text, err := texttemplate.ParseFS(templateFS, "templates/*.txt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse text mail templates: %w", err)
	}

	return &MailRenderer{html: html, text: text}, nil
}

// Render returns the html and text bodies for mail
func (r *MailRenderer) Render(mail Mail) (string, string, error) {
	var htmlBody, textBody bytes.Buffer

	if err := r.html.ExecuteTemplate(&htmlBody, mail.Template+".html.tmpl", mail.Data); err != nil {
		return "", "", fmt.Errorf("failed to render %s html: %w", mail.Template, err)
	}
	if err := r.text.ExecuteTemplate(&textBody, mail.Template+".txt.tmpl", mail.Data); err != nil {
		return "", "", fmt.Errorf("failed to render %s text: %w", mail.Template, err)
	}

	return htmlBody.String(), textBody.String(), nil
}

// SESAPI is the part of the SES client used for delivery
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESMailService sends mail using AWS SES
type SESMailService struct {
	client      SESAPI
	renderer    *MailRenderer
	fromAddress string
	logger      *slog.Logger
}

// NewSESMailService loads the default AWS credential chain for region
func NewSESMailService(ctx context.Context, region, fromAddress string, logger *slog.Logger) (*SESMailService, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewSESMailServiceWithClient(ses.NewFromConfig(cfg), fromAddress, logger)
}

// NewSESMailServiceWithClient wires an existing SES client
func NewSESMailServiceWithClient(client SESAPI, fromAddress string, logger *slog.Logger) (*SESMailService, error) {
	renderer, err := NewMailRenderer()
	if err != nil {
		return nil, err
	}

	return &SESMailService{
		client:      client,
		renderer:    renderer,
		fromAddress: fromAddress,
		logger:      logger,
	}, nil
}

func (s *SESMailService) Send(ctx context.Context, mail Mail) error {
	htmlBody, textBody, err := s.renderer.Render(mail)
	if err != nil {
		return err
	}

	from := mail.From
	if from == "" {
		from = s.fromAddress
	}

	input := &ses.SendEmailInput{
		Source: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{mail.To},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(mail.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(htmlBody), Charset: aws.String("UTF-8")},
				Text: &types.Content{Data: aws.String(textBody), Charset: aws.String("UTF-8")},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		s.logger.Error("failed to send mail via SES",
			slog.String("template", mail.Template),
			slog.String("email", pkglogger.SanitizedEmail(mail.To)),
			slog.Any("error", err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("mail sent",
		slog.String("template", mail.Template),
		slog.String("email", pkglogger.SanitizedEmail(mail.To)),
		slog.String("message_id", aws.ToString(result.MessageId)))

	return nil
}

// LogMailService renders mail and writes it to the log instead of sending it.
// Development only.
type LogMailService struct {
	renderer *MailRenderer
	logger   *slog.Logger
}

func NewLogMailService(logger *slog.Logger) (*LogMailService, error) {
	renderer, err := NewMailRenderer()
	if err != nil {
		return nil, err
	}
	return &LogMailService{renderer: renderer, logger: logger}, nil
}

func (s *LogMailService) Send(ctx context.Context, mail Mail) error {
	_, textBody, err := s.renderer.Render(mail)
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "mail not sent (log driver)",
		slog.String("template", mail.Template),
		slog.String("to", mail.To),
		slog.String("subject", mail.Subject),
		slog.String("body", textBody))
	return nil
}
