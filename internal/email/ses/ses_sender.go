package ses

import (
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"facturio/internal/domain"
	"facturio/internal/money"
	"facturio/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return &sesSender{
		client:      sesv2.NewFromConfig(cfg),
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendDocument(ctx context.Context, toEmail, subject, message string, doc *domain.Document) error {
	if subject == "" {
		subject = fmt.Sprintf("%s %s", documentLabel(doc.DocumentType), doc.DocumentNumber)
	}
	if message == "" {
		message = fmt.Sprintf("Veuillez trouver ci-joint %s N°%s.",
			strings.ToLower(documentLabel(doc.DocumentType)), doc.DocumentNumber)
	}
	textBody := buildTextBody(message, doc)
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func documentLabel(docType domain.DocumentType) string {
	if docType == domain.TypeQuote {
		return "Devis"
	}
	return "Facture"
}

func buildTextBody(message string, doc *domain.Document) string {
	var b strings.Builder
	b.WriteString(message)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s N°%s\n", documentLabel(doc.DocumentType), doc.DocumentNumber)
	fmt.Fprintf(&b, "Date d'émission: %s\n", doc.IssueDate)
	if doc.DueDate != "" {
		fmt.Fprintf(&b, "Date d'échéance: %s\n", doc.DueDate)
	}
	fmt.Fprintf(&b, "Total: %s EUR\n", money.DocumentTotal(doc).StringFixed(2))
	fmt.Fprintf(&b, "\n%s\n", doc.Provider.Name)
	return b.String()
}
