package gmail

import (
	"context"
	"encoding/base64"
	"fmt"

	"golang.org/x/oauth2"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const (
	// MaxAttachmentSize defines the maximum attachment size in bytes (25MB)
	MaxAttachmentSize = 25 * 1024 * 1024

	// searchPageSize is the page size used when listing matching messages.
	searchPageSize = 50
)

// Client wraps the Gmail Users service for a single mailbox.
type Client struct {
	svc *gmail.UsersService
}

// NewClient creates a Gmail client authenticated with the given short-lived
// access token.
func NewClient(ctx context.Context, accessToken string) (*Client, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
	svc, err := gmail.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}
	return &Client{svc: svc.Users}, nil
}

// ListMessages returns the IDs of all messages matching the query, paging
// through results and capping the total at max (0 means unlimited).
func (c *Client) ListMessages(ctx context.Context, query string, max int) ([]string, error) {
	var ids []string
	pageToken := ""
	for {
		req := c.svc.Messages.List("me").Q(query).MaxResults(searchPageSize)
		if pageToken != "" {
			req.PageToken(pageToken)
		}
		res, err := req.Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list messages: %w", err)
		}
		for _, m := range res.Messages {
			ids = append(ids, m.Id)
		}
		if max > 0 && len(ids) >= max {
			return ids[:max], nil
		}
		pageToken = res.NextPageToken
		if pageToken == "" {
			return ids, nil
		}
	}
}

// GetMessage retrieves a full Gmail message including its MIME part tree.
func (c *Client) GetMessage(ctx context.Context, messageID string) (*gmail.Message, error) {
	msg, err := c.svc.Messages.Get("me", messageID).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", messageID, err)
	}
	return msg, nil
}

// GetAttachment retrieves and decodes the content of an attachment.
func (c *Client) GetAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error) {
	if messageID == "" {
		return nil, fmt.Errorf("messageID is required")
	}
	if attachmentID == "" {
		return nil, fmt.Errorf("attachmentID is required")
	}

	attachment, err := c.svc.Messages.Attachments.Get("me", messageID, attachmentID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment %s: %w", attachmentID, err)
	}

	if attachment.Size > MaxAttachmentSize {
		return nil, fmt.Errorf("attachment size %d exceeds maximum size %d", attachment.Size, MaxAttachmentSize)
	}

	return DecodeBody(attachment.Data)
}

// DecodeBody decodes Gmail body data, which uses RFC 4648 base64url
// encoding, falling back to standard base64 for odd producers.
func DecodeBody(data string) ([]byte, error) {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.StdEncoding.DecodeString(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode body data: %w", err)
		}
	}
	return decoded, nil
}
