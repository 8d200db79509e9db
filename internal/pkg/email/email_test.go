package email

import (
	"errors"
	"net"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-leave-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	addr string
	from string
	to   []string
	body string
}

func newTestService(t *testing.T, host string, failures int) (*emailServiceImpl, *[]sentMail, *int) {
	t.Helper()
	svc, err := NewEmailService(config.SMTPConfig{
		Host:     host,
		Port:     2525,
		From:     "no-reply@hris.local",
		FromName: "HR Back Office",
	}, "hris-leave")
	require.NoError(t, err)

	impl := svc.(*emailServiceImpl)
	impl.backoff = 0

	sent := []sentMail{}
	attempts := 0
	impl.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		attempts++
		if attempts <= failures {
			return errors.New("connection refused")
		}
		sent = append(sent, sentMail{addr: addr, from: from, to: to, body: string(msg)})
		return nil
	}
	return impl, &sent, &attempts
}

func TestSendNotification_RendersTemplate(t *testing.T) {
	svc, sent, _ := newTestService(t, "smtp.example.com", 0)

	err := svc.SendNotification("dana@example.com", "Dana", "Leave request update", "Your leave was approved")

	require.NoError(t, err)
	require.Len(t, *sent, 1)
	mail := (*sent)[0]
	assert.Equal(t, "smtp.example.com:2525", mail.addr)
	assert.Equal(t, []string{"dana@example.com"}, mail.to)
	assert.True(t, strings.HasPrefix(mail.body, "From: HR Back Office <no-reply@hris.local>\r\n"))
	assert.Contains(t, mail.body, "Subject: Leave request update\r\n")
	assert.Contains(t, mail.body, "Dana")
	assert.Contains(t, mail.body, "Your leave was approved")
}

func TestSendNotification_RetriesThenSucceeds(t *testing.T) {
	svc, sent, attempts := newTestService(t, "smtp.example.com", 2)

	err := svc.SendNotification("dana@example.com", "Dana", "Subject", "Body")

	require.NoError(t, err)
	assert.Equal(t, 3, *attempts)
	assert.Len(t, *sent, 1)
}

func TestSendNotification_GivesUpAfterMaxRetries(t *testing.T) {
	svc, sent, attempts := newTestService(t, "smtp.example.com", 10)

	err := svc.SendNotification("dana@example.com", "Dana", "Subject", "Body")

	assert.ErrorContains(t, err, "after 3 attempts")
	assert.Equal(t, maxRetries, *attempts)
	assert.Empty(t, *sent)
}

func TestSendNotification_SkipsWithoutHost(t *testing.T) {
	svc, sent, attempts := newTestService(t, "", 0)

	err := svc.SendNotification("dana@example.com", "Dana", "Subject", "Body")

	require.NoError(t, err)
	assert.Zero(t, *attempts)
	assert.Empty(t, *sent)
}

func TestSendMailWithin_SilentServerTimesOut(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	// Accept connections and never send the SMTP greeting
	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			defer conn.Close()
		}
	}()

	send := sendMailWithin(100 * time.Millisecond)

	start := time.Now()
	err = send(listener.Addr().String(), nil, "no-reply@hris.local", []string{"dana@example.com"}, []byte("hello"))

	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}
