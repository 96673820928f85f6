package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"

	"github.com/nooriai/noori/logging"
)

// Envelope is the summary of one inbox message.
type Envelope struct {
	UID     uint32
	From    string
	Subject string
	Date    time.Time
}

// Client is a single-account IMAP client wrapping go-imap/v2 with lazy
// connection and mutex-serialized access. All public methods are
// goroutine-safe.
type Client struct {
	cfg    IMAPConfig
	logger logging.Logger

	mu     sync.Mutex
	client *imapclient.Client
}

// NewClient creates an IMAP client for the given account. The connection is
// established on first use.
func NewClient(cfg IMAPConfig, logger logging.Logger) *Client {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Client{cfg: cfg, logger: logger}
}

// ListUnseen returns the most recent unseen inbox messages, newest first.
func (c *Client) ListUnseen(ctx context.Context, limit int) ([]Envelope, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	if _, err := c.client.Select("INBOX", nil).Wait(); err != nil {
		return nil, fmt.Errorf("email: select inbox: %w", err)
	}

	criteria := &imap.SearchCriteria{NotFlag: []imap.Flag{imap.FlagSeen}}
	searchData, err := c.client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("email: search unseen: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}
	if len(uids) > limit {
		uids = uids[len(uids)-limit:]
	}

	uidSet := imap.UIDSet{}
	for _, uid := range uids {
		uidSet.AddNum(uid)
	}
	return c.fetchEnvelopes(uidSet)
}

// MarkSeen sets the \Seen flag on the given inbox messages.
func (c *Client) MarkSeen(ctx context.Context, uids []uint32) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureConnected(ctx); err != nil {
		return err
	}
	if len(uids) == 0 {
		return fmt.Errorf("email: no UIDs specified")
	}

	if _, err := c.client.Select("INBOX", nil).Wait(); err != nil {
		return fmt.Errorf("email: select inbox: %w", err)
	}

	uidSet := imap.UIDSet{}
	for _, uid := range uids {
		uidSet.AddNum(imap.UID(uid))
	}
	storeCmd := c.client.Store(uidSet, &imap.StoreFlags{
		Op:     imap.StoreFlagsAdd,
		Silent: true,
		Flags:  []imap.Flag{imap.FlagSeen},
	}, nil)
	if err := storeCmd.Close(); err != nil {
		return fmt.Errorf("email: store flags: %w", err)
	}
	return nil
}

// Close logs out and closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

// ensureConnected checks liveness and reconnects if needed. Caller must
// hold c.mu.
func (c *Client) ensureConnected(ctx context.Context) error {
	if c.client != nil {
		if err := c.client.Noop().Wait(); err == nil {
			return nil
		}
		c.logger.Debug("imap connection stale, reconnecting", "host", c.cfg.Host)
	}
	return c.connectLocked(ctx)
}

func (c *Client) connectLocked(_ context.Context) error {
	if c.client != nil {
		_ = c.client.Close()
		c.client = nil
	}

	addr := net.JoinHostPort(c.cfg.Host, fmt.Sprintf("%d", c.cfg.Port))

	var opts imapclient.Options
	var client *imapclient.Client
	var err error
	if c.cfg.TLS {
		opts.TLSConfig = &tls.Config{ServerName: c.cfg.Host}
		client, err = imapclient.DialTLS(addr, &opts)
	} else {
		client, err = imapclient.DialInsecure(addr, &opts)
	}
	if err != nil {
		return fmt.Errorf("email: dial %s: %w", addr, err)
	}

	if err := client.Login(c.cfg.Username, c.cfg.Password).Wait(); err != nil {
		_ = client.Close()
		return fmt.Errorf("email: login as %s: %w", c.cfg.Username, err)
	}

	c.client = client
	c.logger.Info("imap connected", "host", c.cfg.Host, "user", c.cfg.Username)
	return nil
}

// fetchEnvelopes fetches envelope data for the UID set, newest first.
// Caller must hold c.mu and have INBOX selected.
func (c *Client) fetchEnvelopes(uidSet imap.UIDSet) ([]Envelope, error) {
	fetchCmd := c.client.Fetch(uidSet, &imap.FetchOptions{
		UID:      true,
		Envelope: true,
	})

	var envelopes []Envelope
	for {
		msg := fetchCmd.Next()
		if msg == nil {
			break
		}
		var env Envelope
		for {
			item := msg.Next()
			if item == nil {
				break
			}
			switch data := item.(type) {
			case imapclient.FetchItemDataUID:
				env.UID = uint32(data.UID)
			case imapclient.FetchItemDataEnvelope:
				if data.Envelope != nil {
					env.Date = data.Envelope.Date
					env.Subject = data.Envelope.Subject
					if len(data.Envelope.From) > 0 {
						env.From = formatAddress(data.Envelope.From[0])
					}
				}
			}
		}
		envelopes = append(envelopes, env)
	}
	if err := fetchCmd.Close(); err != nil {
		return nil, fmt.Errorf("email: fetch envelopes: %w", err)
	}

	for i, j := 0, len(envelopes)-1; i < j; i, j = i+1, j-1 {
		envelopes[i], envelopes[j] = envelopes[j], envelopes[i]
	}
	return envelopes, nil
}

// formatAddress renders an IMAP address as "Name <user@host>" or just
// "user@host" when no display name is set.
func formatAddress(addr imap.Address) string {
	email := addr.Addr()
	if addr.Name != "" {
		return fmt.Sprintf("%s <%s>", addr.Name, email)
	}
	return email
}
