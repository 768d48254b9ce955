package sendgrid_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/storefront-labs/checkout-core/internal/models"
	sendgridclient "github.com/storefront-labs/checkout-core/pkg/sendgrid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmailService(t *testing.T) {
	// Act
	service := sendgridclient.NewEmailService("test-api-key", "sender@example.com", "Test Sender")

	// Assert
	assert.NotNil(t, service)
}

type sendgridV3Payload struct {
	Personalizations []struct {
		To      []map[string]string `json:"to"`
		Cc      []map[string]string `json:"cc,omitempty"`
		Bcc     []map[string]string `json:"bcc,omitempty"`
		Subject string              `json:"subject"`
	} `json:"personalizations"`
	From    map[string]string `json:"from"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
}

func TestEmailServiceSend(t *testing.T) {
	apiKey := "SG.test-api-key"
	fromEmail := "orders@example.com"
	fromName := "Checkout Core"
	ctx := t.Context()

	var lastRequestPayload sendgridV3Payload

	newMockServer := func(handler http.HandlerFunc) *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bodyBytes, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			defer r.Body.Close()

			require.NoError(t, json.Unmarshal(bodyBytes, &lastRequestPayload))
			handler(w, r)
		}))
	}

	newService := func(baseURL string) sendgridclient.EmailService {
		service := sendgridclient.NewEmailService(apiKey, fromEmail, fromName)
		service.GetSendGridClient().Request.BaseURL = baseURL

		return service
	}

	t.Run("Success - Plain And HTML Content", func(t *testing.T) {
		// Arrange
		lastRequestPayload = sendgridV3Payload{}
		server := newMockServer(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Equal(t, "Bearer "+apiKey, r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusAccepted)
		})
		defer server.Close()

		service := newService(server.URL)

		// Act
		err := service.Send(ctx, &models.EmailNotificationRequest{
			To:          "customer@example.com",
			Subject:     "Order confirmation",
			Content:     "Thanks for your order.",
			HTMLContent: "<p>Thanks for your order.</p>",
		})

		// Assert
		require.NoError(t, err)
		require.Len(t, lastRequestPayload.Personalizations, 1)
		pers := lastRequestPayload.Personalizations[0]
		require.Len(t, pers.To, 1)
		assert.Equal(t, "customer@example.com", pers.To[0]["email"])
		assert.Equal(t, "Order confirmation", pers.Subject)
		assert.Equal(t, fromEmail, lastRequestPayload.From["email"])
		assert.Equal(t, fromName, lastRequestPayload.From["name"])

		require.Len(t, lastRequestPayload.Content, 2)
		assert.Equal(t, "text/plain", lastRequestPayload.Content[0].Type)
		assert.Equal(t, "Thanks for your order.", lastRequestPayload.Content[0].Value)
		assert.Equal(t, "text/html", lastRequestPayload.Content[1].Type)
	})

	t.Run("Success - With CC and BCC", func(t *testing.T) {
		// Arrange
		lastRequestPayload = sendgridV3Payload{}
		server := newMockServer(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusAccepted)
		})
		defer server.Close()

		service := newService(server.URL)

		// Act
		err := service.Send(ctx, &models.EmailNotificationRequest{
			To:      "customer@example.com",
			CC:      []string{"cc1@example.com", "cc2@example.com"},
			BCC:     []string{"bcc1@example.com"},
			Subject: "Order confirmation",
			Content: "Thanks for your order.",
		})

		// Assert
		require.NoError(t, err)
		require.Len(t, lastRequestPayload.Personalizations, 1)
		pers := lastRequestPayload.Personalizations[0]
		require.Len(t, pers.Cc, 2)
		assert.Equal(t, "cc1@example.com", pers.Cc[0]["email"])
		require.Len(t, pers.Bcc, 1)
		assert.Equal(t, "bcc1@example.com", pers.Bcc[0]["email"])
		require.Len(t, lastRequestPayload.Content, 1, "no HTML block when HTMLContent is empty")
	})

	t.Run("Failure - SendGrid API Error", func(t *testing.T) {
		// Arrange
		server := newMockServer(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"errors": [{"message": "Invalid email"}]}`))
		})
		defer server.Close()

		service := newService(server.URL)

		// Act
		err := service.Send(ctx, &models.EmailNotificationRequest{
			To:      "bad@example.com",
			Subject: "Order confirmation",
			Content: "Content",
		})

		// Assert
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to send email, status code: 400")
	})

	t.Run("Failure - Network Error", func(t *testing.T) {
		// Arrange
		server := newMockServer(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusAccepted)
		})
		service := newService(server.URL)
		server.Close()

		// Act
		err := service.Send(ctx, &models.EmailNotificationRequest{
			To:      "customer@example.com",
			Subject: "Order confirmation",
			Content: "Content",
		})

		// Assert
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "connection refused") || strings.Contains(err.Error(), "dial tcp"))
	})
}
