package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMailRenderer_Render(t *testing.T) {
	r, err := NewMailRenderer()
	require.NoError(t, err)

	t.Run("email validation", func(t *testing.T) {
		html, text, err := r.Render(Mail{
			Template: TemplateEmailValidation,
			Data:     ValidationMailData{Name: "Alice", Link: "https://meular.example/validate-email?id=abc&token=xyz", ExpiresIn: "7 days"},
		})
		require.NoError(t, err)
		assert.Contains(t, html, "Hi Alice")
		assert.Contains(t, html, "id=abc&amp;token=xyz")
		assert.Contains(t, text, "https://meular.example/validate-email?id=abc&token=xyz")
		assert.Contains(t, text, "expires in 7 days")
	})

	t.Run("password recovery", func(t *testing.T) {
		html, text, err := r.Render(Mail{
			Template: TemplatePasswordRecovery,
			Data:     RecoveryMailData{Name: "Alice", Link: "https://meular.example/reset-password?id=01J&token=xyz", RecoveryID: "01J", ExpiresIn: "30 minutes"},
		})
		require.NoError(t, err)
		assert.Contains(t, html, "Reset your password")
		assert.Contains(t, text, "expires in 30 minutes")
	})

	t.Run("html escapes user input", func(t *testing.T) {
		html, _, err := r.Render(Mail{
			Template: TemplateEmailValidation,
			Data:     ValidationMailData{Name: "<script>alert(1)</script>"},
		})
		require.NoError(t, err)
		assert.NotContains(t, html, "<script>")
	})

	t.Run("unknown template", func(t *testing.T) {
		_, _, err := r.Render(Mail{Template: "welcome"})
		assert.Error(t, err)
	})
}

func TestSESMailService_Send(t *testing.T) {
	client := &fakeSES{}
	svc, err := NewSESMailServiceWithClient(client, "default@meular.example", discardLogger())
	require.NoError(t, err)

	err = svc.Send(context.Background(), Mail{
		To:       "alice@example.com",
		Subject:  "Confirm your MeuLar email",
		Template: TemplateEmailValidation,
		Data:     ValidationMailData{Name: "Alice", Link: "https://meular.example/x", ExpiresIn: "7 days"},
	})
	require.NoError(t, err)

	require.NotNil(t, client.input)
	assert.Equal(t, "default@meular.example", aws.ToString(client.input.Source))
	assert.Equal(t, []string{"alice@example.com"}, client.input.Destination.ToAddresses)
	assert.Equal(t, "Confirm your MeuLar email", aws.ToString(client.input.Message.Subject.Data))
	assert.Contains(t, aws.ToString(client.input.Message.Body.Text.Data), "https://meular.example/x")
	assert.Contains(t, aws.ToString(client.input.Message.Body.Html.Data), "Hi Alice")
}

func TestSESMailService_Send_ExplicitFrom(t *testing.T) {
	client := &fakeSES{}
	svc, err := NewSESMailServiceWithClient(client, "default@meular.example", discardLogger())
	require.NoError(t, err)

	err = svc.Send(context.Background(), Mail{
		To:       "alice@example.com",
		From:     "security@meular.example",
		Template: TemplatePasswordRecovery,
		Data:     RecoveryMailData{Name: "Alice"},
	})
	require.NoError(t, err)
	assert.Equal(t, "security@meular.example", aws.ToString(client.input.Source))
}

func TestSESMailService_Send_ClientError(t *testing.T) {
	client := &fakeSES{err: errors.New("MessageRejected")}
	svc, err := NewSESMailServiceWithClient(client, "default@meular.example", discardLogger())
	require.NoError(t, err)

	err = svc.Send(context.Background(), Mail{To: "alice@example.com", Template: TemplateEmailValidation, Data: ValidationMailData{}})
	assert.ErrorContains(t, err, "MessageRejected")
}

func TestSESMailService_Send_RenderErrorSkipsClient(t *testing.T) {
	client := &fakeSES{}
	svc, err := NewSESMailServiceWithClient(client, "default@meular.example", discardLogger())
	require.NoError(t, err)

	err = svc.Send(context.Background(), Mail{To: "alice@example.com", Template: "missing"})
	assert.Error(t, err)
	assert.Nil(t, client.input)
}

func TestLogMailService_Send(t *testing.T) {
	var buf bytes.Buffer
	svc, err := NewLogMailService(slog.New(slog.NewJSONHandler(&buf, nil)))
	require.NoError(t, err)

	err = svc.Send(context.Background(), Mail{
		To:       "alice@example.com",
		Subject:  "Reset your MeuLar password",
		Template: TemplatePasswordRecovery,
		Data:     RecoveryMailData{Name: "Alice", Link: "https://meular.example/reset-password?id=1&token=2", ExpiresIn: "30 minutes"},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "reset-password")
	assert.Contains(t, buf.String(), "Reset your MeuLar password")
}
