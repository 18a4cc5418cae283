package services

import (
	"context"
	"net"
	"testing"

	"github.com/emersion/go-imap/backend/memory"
	"github.com/emersion/go-imap/server"
	"github.com/luo-one/inbox-agent/internal/config"
	"github.com/luo-one/inbox-agent/internal/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startTestIMAPServer serves the in-memory backend, which holds user
// "username"/"password" with a single INBOX message
func startTestIMAPServer(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := server.New(memory.New())
	s.AllowInsecureAuth = true
	go s.Serve(ln)
	t.Cleanup(func() { s.Close() })

	return ln.Addr().(*net.TCPAddr).Port
}

func testIMAPConfig(port int) config.IMAPConfig {
	return config.IMAPConfig{
		Host:     "127.0.0.1",
		Port:     port,
		Username: "username",
		Password: "password",
		UseSSL:   false,
	}
}

func TestIMAPSourceLoad(t *testing.T) {
	port := startTestIMAPServer(t)

	src := NewIMAPSource(testIMAPConfig(port))
	emails, err := LoadInbox(context.Background(), src, nil)
	require.NoError(t, err)
	require.Len(t, emails, 1)

	email := emails[0]
	assert.NotEmpty(t, email.ID)
	assert.Equal(t, "contact@example.org", email.Sender)
	assert.Equal(t, "A little message, just for you", email.Subject)
	assert.Equal(t, "Hi there :)", email.Body)
	assert.Equal(t, models.StatusPending, email.Status)
}

func TestIMAPSourceDefaults(t *testing.T) {
	src := NewIMAPSource(config.IMAPConfig{Host: "mail.example.com", Username: "alex"})
	assert.Equal(t, "imap:alex@mail.example.com/INBOX", src.Name())
	assert.Equal(t, config.DefaultIMAPLimit, src.cfg.Limit)
}

func TestIMAPSourceBadLogin(t *testing.T) {
	port := startTestIMAPServer(t)

	cfg := testIMAPConfig(port)
	cfg.Password = "wrong"
	_, err := NewIMAPSource(cfg).Load(context.Background())
	assert.ErrorIs(t, err, ErrIMAPConnectionFailed)
}

func TestIMAPSourceUnknownMailbox(t *testing.T) {
	port := startTestIMAPServer(t)

	cfg := testIMAPConfig(port)
	cfg.Mailbox = "Archive"
	_, err := NewIMAPSource(cfg).Load(context.Background())
	assert.Error(t, err)
}

func TestIMAPSourceUnreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	_, err = NewIMAPSource(testIMAPConfig(port)).Load(context.Background())
	assert.ErrorIs(t, err, ErrIMAPConnectionFailed)
}
