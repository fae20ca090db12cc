package mail

import (
	"bytes"                           // Template output
	"coffee_platform/internal/domain" // Identifier
	"coffee_platform/internal/otp"    // Code purpose
	"context"                         // Request context
	"html/template"                   // Mail body
	"strings"                         // Purpose formatting
	"sync"                            // In-flight deliveries
	"time"                            // Code lifetime

	"github.com/sirupsen/logrus" // Logrus for dispatch logging
	"golang.org/x/text/cases"    // Title casing
	"golang.org/x/text/language" // Casing rules
)

var codeTemplate = template.Must(template.New("code").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: Arial, sans-serif; background: #f7f3ef; padding: 24px;">
    <div style="max-width: 480px; margin: auto; background: #fff; border-radius: 8px; padding: 24px;">
      <h2 style="color: #6f4e37;">{{.Purpose}}</h2>
      <p>Your CoffeeMe verification code is:</p>
      <p style="font-size: 32px; letter-spacing: 8px; font-weight: bold;">{{.Code}}</p>
      <p>The code expires in {{.Minutes}} minutes. If you did not request it, ignore this email.</p>
    </div>
  </body>
</html>`))

// DefaultSendTimeout bounds one delivery attempt
const DefaultSendTimeout = 30 * time.Second

// Notifier sends one-time codes to the identifier's channel
type Notifier struct {
	mailer  Mailer
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewNotifier dispatches email through mailer
func NewNotifier(mailer Mailer) *Notifier {
	return &Notifier{mailer: mailer, timeout: DefaultSendTimeout}
}

// Wait blocks until every dispatched delivery has finished
func (n *Notifier) Wait() {
	n.wg.Wait()
}

// SendCode renders the code email and delivers it in the background.
// Delivery outlives the request but not the send timeout; failures are logged and never returned.
func (n *Notifier) SendCode(ctx context.Context, id domain.Identifier, code string, purpose otp.Purpose, ttl time.Duration) {
	entry := logrus.WithFields(logrus.Fields{"identifier": id.Value, "purpose": purpose})
	if id.Kind != domain.IdentifierEmail {
		entry.Warn("No SMS gateway configured, code not delivered")
		return
	}
	title := formatPurpose(purpose)
	var body bytes.Buffer
	err := codeTemplate.Execute(&body, struct {
		Purpose string
		Code    string
		Minutes int
	}{title, code, int(ttl.Minutes())})
	if err != nil {
		entry.WithError(err).Error("Failed to render code email")
		return
	}
	msg := Message{To: id.Value, Subject: "CoffeeMe " + title + " Code", HTML: body.String()}
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer cancel()
		if err := n.mailer.Send(sendCtx, msg); err != nil {
			entry.WithError(err).Error("Failed to send code email")
			return
		}
		entry.Info("Code email sent")
	}()
}

func formatPurpose(purpose otp.Purpose) string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(purpose), "_", " "))
}
