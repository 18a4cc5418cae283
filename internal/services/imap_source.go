package services

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/emersion/go-imap"
	id "github.com/emersion/go-imap-id"
	"github.com/emersion/go-imap/client"
	"github.com/luo-one/inbox-agent/internal/config"
	"github.com/luo-one/inbox-agent/internal/database/models"
)

// ErrIMAPConnectionFailed indicates IMAP connection failed
var ErrIMAPConnectionFailed = errors.New("IMAP connection failed")

const (
	imapDialTimeout    = 10 * time.Second
	imapCommandTimeout = 2 * time.Minute
)

// IMAPSource pulls the most recent messages of a mailbox. Messages are fetched
// with BODY.PEEK so their \Seen flag is left alone.
type IMAPSource struct {
	cfg config.IMAPConfig
}

// NewIMAPSource creates a new IMAPSource
func NewIMAPSource(cfg config.IMAPConfig) *IMAPSource {
	if cfg.Mailbox == "" {
		cfg.Mailbox = config.DefaultIMAPMailbox
	}
	if cfg.Limit <= 0 {
		cfg.Limit = config.DefaultIMAPLimit
	}
	return &IMAPSource{cfg: cfg}
}

// Name returns the source name
func (s *IMAPSource) Name() string {
	return fmt.Sprintf("imap:%s@%s/%s", s.cfg.Username, s.cfg.Host, s.cfg.Mailbox)
}

// Load fetches up to Limit messages, newest first
func (s *IMAPSource) Load(ctx context.Context) ([]models.Email, error) {
	c, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer c.Logout()

	// Abort a blocked command when the caller gives up
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			c.Terminate()
		case <-stop:
		}
	}()

	mbox, err := c.Select(s.cfg.Mailbox, true)
	if err != nil {
		return nil, fmt.Errorf("failed to select %s: %w", s.cfg.Mailbox, err)
	}
	if mbox.Messages == 0 {
		return []models.Email{}, nil
	}

	from := uint32(1)
	if mbox.Messages > uint32(s.cfg.Limit) {
		from = mbox.Messages - uint32(s.cfg.Limit) + 1
	}
	seqSet := new(imap.SeqSet)
	seqSet.AddRange(from, mbox.Messages)

	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchUid, imap.FetchEnvelope, section.FetchItem()}
	messages := make(chan *imap.Message, 10)
	done := make(chan error, 1)

	go func() {
		done <- c.Fetch(seqSet, items, messages)
	}()

	var emails []models.Email
	for msg := range messages {
		if msg == nil {
			continue
		}
		literal := msg.GetBody(section)
		if literal == nil {
			continue
		}
		email, err := ParseEML(literal)
		if err != nil {
			continue
		}
		if email.ID == "" {
			email.ID = fmt.Sprintf("uid:%d", msg.Uid)
		}
		emails = append(emails, email)
	}
	if err := <-done; err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("fetch failed: %w", err)
	}

	// Sequence numbers ascend with arrival; the inbox shows newest first
	for i, j := 0, len(emails)-1; i < j; i, j = i+1, j-1 {
		emails[i], emails[j] = emails[j], emails[i]
	}
	return emails, nil
}

// connect dials, identifies and logs in
func (s *IMAPSource) connect(ctx context.Context) (*client.Client, error) {
	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port))
	dialer := &net.Dialer{Timeout: imapDialTimeout}

	var conn net.Conn
	var err error
	if s.cfg.UseSSL {
		tlsDialer := &tls.Dialer{NetDialer: dialer, Config: &tls.Config{ServerName: s.cfg.Host}}
		conn, err = tlsDialer.DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIMAPConnectionFailed, err)
	}

	c, err := client.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %v", ErrIMAPConnectionFailed, err)
	}
	c.Timeout = imapCommandTimeout

	// Some providers refuse LOGIN until the client identifies itself
	if ok, _ := c.Support("ID"); ok {
		idClient := id.NewClient(c)
		_, _ = idClient.ID(id.ID{
			id.FieldName:    "Inbox Agent",
			id.FieldVersion: "1.0.0",
			id.FieldVendor:  "Luo One",
		})
	}

	if err := c.Login(s.cfg.Username, s.cfg.Password); err != nil {
		c.Logout()
		return nil, fmt.Errorf("%w: login failed: %v", ErrIMAPConnectionFailed, err)
	}
	return c, nil
}
