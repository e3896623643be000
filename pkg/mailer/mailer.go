// Package mailer defines the email sending boundary: a provider-neutral
// Email value and the Sender interface delivery adapters implement.
// The resend subpackage delivers through the Resend API.
package mailer

import (
	"context"
	"fmt"
)

// Sender is the minimal interface email providers implement. It accepts
// a fully-prepared Email and handles delivery.
type Sender interface {
	// Send delivers an email message. The Email must have To, Subject,
	// and HTML already set.
	Send(ctx context.Context, email *Email) error
}

// Email is a fully-prepared message ready for sending.
type Email struct {
	Headers     map[string]string // Custom headers
	Tags        Tags              // Provider-specific tags/categories
	Subject     string            // Email subject
	HTML        string            // HTML body content
	Text        string            // Plain text alternative
	From        string            // Override default sender (if provider allows)
	ReplyTo     string            // Reply-to address
	To          []string          // Recipients (at least one required)
	CC          []string          // Carbon copy recipients
	BCC         []string          // Blind carbon copy recipients
	Attachments []Attachment      // File attachments
}

// Validate checks the email has the fields every provider requires.
func (e *Email) Validate() error {
	if len(e.To) == 0 {
		return ErrNoRecipient
	}
	if e.Subject == "" {
		return ErrNoSubject
	}
	if e.HTML == "" {
		return ErrNoContent
	}
	return nil
}

// Attachment represents an email attachment.
type Attachment struct {
	Filename    string // Display name for the attachment
	ContentType string // MIME type (e.g. "application/pdf")
	ContentID   string // Optional Content-ID for inline attachments
	Content     []byte // Raw file content
}

// Tags represents email tags/categories, either presence-only (value
// struct{}{}) or key-value pairs. Providers map them to their own tag
// models; presence-only tags become name="true" where values are
// required.
type Tags map[string]any

// SimpleTags creates presence-only tags from a list of names.
func SimpleTags(names ...string) Tags {
	t := make(Tags, len(names))
	for _, n := range names {
		t[n] = struct{}{}
	}
	return t
}

// Recipient formats a name and email into RFC 5322 address format:
// "Name <email>", or just the email when the name is empty.
func Recipient(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}
