package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/luo-one/inbox-agent/internal/database/models"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	blankLinesPattern = regexp.MustCompile(`\n{3,}`)
	angleURLPattern   = regexp.MustCompile(`<([^>]+)>`)
)

// ParseEML converts an RFC 5322 message into a pending email record.
// The first text/plain part becomes the body; HTML is reduced to text only when
// no plain part exists. A List-Unsubscribe header becomes the unsubscribe link.
func ParseEML(r io.Reader) (models.Email, error) {
	mr, err := mail.CreateReader(r)
	if err != nil && !message.IsUnknownCharset(err) {
		return models.Email{}, fmt.Errorf("%w: %v", ErrInvalidEmailData, err)
	}
	defer mr.Close()

	email := models.Email{Status: models.StatusPending}
	header := mr.Header

	if subject, err := header.Subject(); err == nil {
		email.Subject = subject
	} else {
		email.Subject = header.Get("Subject")
	}

	if from, err := header.AddressList("From"); err == nil && len(from) > 0 {
		email.Sender = from[0].Address
	} else {
		email.Sender = strings.TrimSpace(header.Get("From"))
	}

	// Left empty without a Message-ID; LoadInbox assigns one
	if id, err := header.MessageID(); err == nil {
		email.ID = id
	}

	date, err := header.Date()
	if err != nil || date.IsZero() {
		date = time.Now()
	}
	email.ReceivedAt = FormatTimestamp(date)
	email.UnsubscribeLink = parseListUnsubscribe(header.Get("List-Unsubscribe"))

	var plain, htmlBody string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			if message.IsUnknownCharset(err) {
				continue
			}
			return models.Email{}, fmt.Errorf("%w: %v", ErrInvalidEmailData, err)
		}

		inline, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		mediaType, _, _ := inline.ContentType()
		body, err := io.ReadAll(part.Body)
		if err != nil {
			continue
		}
		switch {
		case mediaType == "text/plain" && plain == "":
			plain = string(body)
		case mediaType == "text/html" && htmlBody == "":
			htmlBody = string(body)
		case mediaType == "" && plain == "":
			plain = string(body)
		}
	}

	email.Body = strings.TrimSpace(plain)
	if email.Body == "" && htmlBody != "" {
		email.Body = htmlToText(htmlBody)
	}
	return email, nil
}

// parseListUnsubscribe picks the first http(s) target of a List-Unsubscribe
// header, falling back to the first target of any scheme.
func parseListUnsubscribe(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	matches := angleURLPattern.FindAllStringSubmatch(value, -1)
	if len(matches) == 0 {
		return value
	}
	for _, m := range matches {
		target := strings.TrimSpace(m[1])
		if strings.HasPrefix(target, "https://") || strings.HasPrefix(target, "http://") {
			return target
		}
	}
	return strings.TrimSpace(matches[0][1])
}

// blockElements start and end a paragraph in the extracted text
var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Li: true, atom.Tr: true, atom.Table: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Blockquote: true, atom.Ul: true, atom.Ol: true,
}

// skippedElements never contribute visible text
var skippedElements = map[atom.Atom]bool{
	atom.Head: true, atom.Style: true, atom.Script: true, atom.Noscript: true,
	atom.Template: true, atom.Iframe: true, atom.Title: true,
}

// htmlToText keeps the visible text of an HTML body with paragraph breaks.
// Comments, scripts and stylesheets are dropped.
func htmlToText(content string) string {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return ""
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			if skippedElements[n.DataAtom] {
				return
			}
			if n.DataAtom == atom.Br {
				b.WriteString("\n")
			}
			if blockElements[n.DataAtom] {
				b.WriteString("\n\n")
			}
		case html.TextNode:
			b.WriteString(n.Data)
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && blockElements[n.DataAtom] {
			b.WriteString("\n\n")
		}
	}
	walk(doc)

	// Fields also splits on U+00A0 from &nbsp;
	lines := strings.Split(b.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	text := blankLinesPattern.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(text)
}

// EMLDirSource reads every *.eml file in a directory, newest first
type EMLDirSource struct {
	Dir string
}

// Name returns the source name
func (s EMLDirSource) Name() string { return "eml:" + s.Dir }

// Load parses the directory's messages
func (s EMLDirSource) Load(ctx context.Context) ([]models.Email, error) {
	paths, err := filepath.Glob(filepath.Join(s.Dir, "*.eml"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	if _, err := os.Stat(s.Dir); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	emails := make([]models.Email, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		email, err := parseEMLFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		emails = append(emails, email)
	}

	sortNewestFirst(emails)
	return emails, nil
}

func parseEMLFile(path string) (models.Email, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Email{}, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer f.Close()
	return ParseEML(f)
}

// sortNewestFirst orders emails by received timestamp, newest first.
// Unparseable timestamps sort last.
func sortNewestFirst(emails []models.Email) {
	sort.SliceStable(emails, func(i, j int) bool {
		ti, errI := ParseTimestamp(emails[i].ReceivedAt)
		tj, errJ := ParseTimestamp(emails[j].ReceivedAt)
		if errI != nil || errJ != nil {
			return errI == nil && errJ != nil
		}
		return ti.After(tj)
	})
}
