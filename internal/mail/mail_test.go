package mail

import (
	"coffee_platform/internal/domain"
	"coffee_platform/internal/otp"
	"context"
	"errors"
	"net/smtp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	sent []Message
	err  error
}

func (r *recordingMailer) Send(_ context.Context, msg Message) error {
	r.sent = append(r.sent, msg)
	return r.err
}

func TestSendCodeEmail(t *testing.T) {
	m := &recordingMailer{}
	n := NewNotifier(m)
	n.SendCode(context.Background(), domain.EmailIdentifier("a@example.com"), "0420", otp.PurposeRegistration, 2*time.Minute)
	n.Wait()

	require.Len(t, m.sent, 1)
	assert.Equal(t, "a@example.com", m.sent[0].To)
	assert.Equal(t, "CoffeeMe Account Registration Code", m.sent[0].Subject)
	assert.Contains(t, m.sent[0].HTML, "0420")
	assert.Contains(t, m.sent[0].HTML, "2 minutes")
}

func TestSendCodePhoneIsSkipped(t *testing.T) {
	m := &recordingMailer{}
	n := NewNotifier(m)
	n.SendCode(context.Background(), domain.PhoneIdentifier("+994501234567"), "0420", otp.PurposeRecovery, time.Minute)
	n.Wait()
	assert.Empty(t, m.sent)
}

func TestSendCodeSwallowsErrors(t *testing.T) {
	m := &recordingMailer{err: errors.New("relay down")}
	n := NewNotifier(m)
	assert.NotPanics(t, func() {
		n.SendCode(context.Background(), domain.EmailIdentifier("a@example.com"), "1", otp.PurposeRecovery, time.Minute)
		n.Wait()
	})
	assert.Len(t, m.sent, 1)
}

type blockingMailer struct {
	release chan struct{}
	ctxErr  chan error
}

func (b *blockingMailer) Send(ctx context.Context, _ Message) error {
	<-b.release
	b.ctxErr <- ctx.Err()
	return nil
}

func TestSendCodeDoesNotWaitForDelivery(t *testing.T) {
	m := &blockingMailer{release: make(chan struct{}), ctxErr: make(chan error, 1)}
	n := NewNotifier(m)
	ctx, cancel := context.WithCancel(context.Background())

	returned := make(chan struct{})
	go func() {
		n.SendCode(ctx, domain.EmailIdentifier("a@example.com"), "0420", otp.PurposeRegistration, time.Minute)
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("SendCode blocked on a slow mailer")
	}

	// The request finishing must not abort the delivery
	cancel()
	close(m.release)
	n.Wait()
	assert.NoError(t, <-m.ctxErr)
}

func TestSendCodeBoundsDelivery(t *testing.T) {
	m := &blockingMailer{release: make(chan struct{}), ctxErr: make(chan error, 1)}
	n := NewNotifier(m)
	n.timeout = 10 * time.Millisecond
	n.SendCode(context.Background(), domain.EmailIdentifier("a@example.com"), "0420", otp.PurposeRecovery, time.Minute)
	time.Sleep(50 * time.Millisecond)
	close(m.release)
	n.Wait()
	assert.ErrorIs(t, <-m.ctxErr, context.DeadlineExceeded)
}

func TestSMTPMailerGivesUpOnDeadline(t *testing.T) {
	m := NewSMTPMailer("smtp.example.com", "587", "noreply@example.com", "pw")
	release := make(chan struct{})
	defer close(release)
	m.send = func(string, smtp.Auth, string, []string, []byte) error {
		<-release
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, m.Send(ctx, Message{To: "a@example.com", Subject: "Hi"}), context.DeadlineExceeded)
}

func TestSMTPMailerFormatsMessage(t *testing.T) {
	m := NewSMTPMailer("smtp.example.com", "587", "noreply@example.com", "pw")
	var gotAddr, gotFrom string
	var gotBody []byte
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotBody = addr, from, msg
		return nil
	}
	require.NoError(t, m.Send(context.Background(), Message{To: "a@example.com", Subject: "Hi", HTML: "<p>x</p>"}))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "noreply@example.com", gotFrom)
	assert.Contains(t, string(gotBody), "Subject: Hi\r\n")
	assert.Contains(t, string(gotBody), "text/html")
}

func TestFormatPurpose(t *testing.T) {
	assert.Equal(t, "Password Recovery", formatPurpose(otp.PurposeRecovery))
}
