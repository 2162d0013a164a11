package appstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const defaultBaseURL = "https://api.appstoreconnect.apple.com/v1"

// ErrNotConfigured is returned before any network I/O when no credentials
// are available.
var ErrNotConfigured = errors.New("App Store Connect credentials not configured: call configure_credentials or set APPSTORE_KEY_ID, APPSTORE_ISSUER_ID and APPSTORE_PRIVATE_KEY")

// Client is an authenticated App Store Connect API client.
type Client struct {
	mu         sync.RWMutex
	cfg        *Config
	tokens     *tokenSource
	httpClient *http.Client
	baseURL    string
}

// NewClient creates an unconfigured client.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
	}
}

// Configure installs a credential set, replacing any previous one. The
// cached bearer token is discarded with the old token source.
func (c *Client) Configure(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	tokens, err := newTokenSource(cfg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg = cfg
	c.tokens = tokens
	return nil
}

// Configured reports whether credentials are installed.
func (c *Client) Configured() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg != nil
}

// AppID returns the optionally configured default app id.
func (c *Client) AppID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cfg == nil {
		return ""
	}
	return c.cfg.AppID
}

// ensureConfigured installs env credentials on first use, or fails fast.
func (c *Client) ensureConfigured() (*tokenSource, error) {
	c.mu.RLock()
	tokens := c.tokens
	c.mu.RUnlock()

	if tokens != nil {
		return tokens, nil
	}

	cfg := ConfigFromEnv()
	if cfg == nil {
		return nil, ErrNotConfigured
	}
	if err := c.Configure(cfg); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tokens, nil
}

// do issues an authenticated request, encoding body as JSON when non-nil,
// and decodes the JSON response into out (when out is non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	tokens, err := c.ensureConfigured()
	if err != nil {
		return err
	}

	token, err := tokens.bearer()
	if err != nil {
		return err
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("API error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// App is a published or in-progress application.
type App struct {
	ID       string
	Name     string
	BundleID string
	Platform string
}

// Apps lists all apps visible to the credential set.
func (c *Client) Apps(ctx context.Context) ([]App, error) {
	var resp struct {
		Data []struct {
			ID         string `json:"id"`
			Attributes struct {
				Name     string `json:"name"`
				BundleID string `json:"bundleId"`
				Platform string `json:"platform"`
			} `json:"attributes"`
		} `json:"data"`
	}

	if err := c.do(ctx, http.MethodGet, "/apps", nil, &resp); err != nil {
		return nil, err
	}

	apps := make([]App, 0, len(resp.Data))
	for _, d := range resp.Data {
		apps = append(apps, App{
			ID:       d.ID,
			Name:     d.Attributes.Name,
			BundleID: d.Attributes.BundleID,
			Platform: d.Attributes.Platform,
		})
	}
	return apps, nil
}

// FindApp resolves an app by case-insensitive name.
func (c *Client) FindApp(ctx context.Context, name string) (*App, error) {
	apps, err := c.Apps(ctx)
	if err != nil {
		return nil, err
	}
	for i := range apps {
		if strings.EqualFold(apps[i].Name, name) {
			return &apps[i], nil
		}
	}
	return nil, fmt.Errorf("app not found: %s", name)
}

// TeamMember is a user on the App Store Connect team.
type TeamMember struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Roles     []string
}

// FullName joins the member's names.
func (m TeamMember) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// TeamMembers lists the team's users.
func (c *Client) TeamMembers(ctx context.Context) ([]TeamMember, error) {
	var resp struct {
		Data []struct {
			ID         string `json:"id"`
			Attributes struct {
				Username  string   `json:"username"`
				FirstName string   `json:"firstName"`
				LastName  string   `json:"lastName"`
				Roles     []string `json:"roles"`
			} `json:"attributes"`
		} `json:"data"`
	}

	if err := c.do(ctx, http.MethodGet, "/users", nil, &resp); err != nil {
		return nil, err
	}

	members := make([]TeamMember, 0, len(resp.Data))
	for _, d := range resp.Data {
		members = append(members, TeamMember{
			ID:        d.ID,
			Email:     d.Attributes.Username,
			FirstName: d.Attributes.FirstName,
			LastName:  d.Attributes.LastName,
			Roles:     d.Attributes.Roles,
		})
	}
	return members, nil
}

// BetaGroup is a TestFlight test group.
type BetaGroup struct {
	ID       string
	Name     string
	Internal bool
}

// GroupType labels the group for display.
func (g BetaGroup) GroupType() string {
	if g.Internal {
		return "internal"
	}
	return "external"
}

// BetaGroups lists an app's TestFlight groups.
func (c *Client) BetaGroups(ctx context.Context, appID string) ([]BetaGroup, error) {
	var resp struct {
		Data []struct {
			ID         string `json:"id"`
			Attributes struct {
				Name            string `json:"name"`
				IsInternalGroup bool   `json:"isInternalGroup"`
			} `json:"attributes"`
		} `json:"data"`
	}

	if err := c.do(ctx, http.MethodGet, "/apps/"+url.PathEscape(appID)+"/betaGroups", nil, &resp); err != nil {
		return nil, err
	}

	groups := make([]BetaGroup, 0, len(resp.Data))
	for _, d := range resp.Data {
		groups = append(groups, BetaGroup{
			ID:       d.ID,
			Name:     d.Attributes.Name,
			Internal: d.Attributes.IsInternalGroup,
		})
	}
	return groups, nil
}

// BetaTester is a TestFlight tester.
type BetaTester struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	State     string
}

// FullName joins the tester's names.
func (t BetaTester) FullName() string {
	return strings.TrimSpace(t.FirstName + " " + t.LastName)
}

// BetaTesters lists an app's TestFlight testers.
func (c *Client) BetaTesters(ctx context.Context, appID string) ([]BetaTester, error) {
	var resp struct {
		Data []struct {
			ID         string `json:"id"`
			Attributes struct {
				Email     string `json:"email"`
				FirstName string `json:"firstName"`
				LastName  string `json:"lastName"`
				State     string `json:"state"`
			} `json:"attributes"`
		} `json:"data"`
	}

	if err := c.do(ctx, http.MethodGet, "/apps/"+url.PathEscape(appID)+"/betaTesters", nil, &resp); err != nil {
		return nil, err
	}

	testers := make([]BetaTester, 0, len(resp.Data))
	for _, d := range resp.Data {
		testers = append(testers, BetaTester{
			ID:        d.ID,
			Email:     d.Attributes.Email,
			FirstName: d.Attributes.FirstName,
			LastName:  d.Attributes.LastName,
			State:     d.Attributes.State,
		})
	}
	return testers, nil
}

// RemoveBetaTester removes a tester (matched by email) from an app's
// TestFlight groups.
func (c *Client) RemoveBetaTester(ctx context.Context, email, appName string) error {
	app, err := c.FindApp(ctx, appName)
	if err != nil {
		return err
	}

	testers, err := c.BetaTesters(ctx, app.ID)
	if err != nil {
		return err
	}

	for _, tester := range testers {
		if strings.EqualFold(tester.Email, email) {
			return c.do(ctx, http.MethodDelete, "/betaTesters/"+url.PathEscape(tester.ID), nil, nil)
		}
	}
	return fmt.Errorf("tester not found: %s (app %s)", email, appName)
}

// UserInvitation is a pending invitation to join the team.
type UserInvitation struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Roles     []string
	Expires   string
}

// FullName joins the invitee's names.
func (i UserInvitation) FullName() string {
	return strings.TrimSpace(i.FirstName + " " + i.LastName)
}

// UserInvitations lists invitations that have not been accepted yet.
func (c *Client) UserInvitations(ctx context.Context) ([]UserInvitation, error) {
	var resp struct {
		Data []struct {
			ID         string `json:"id"`
			Attributes struct {
				Email          string   `json:"email"`
				FirstName      string   `json:"firstName"`
				LastName       string   `json:"lastName"`
				Roles          []string `json:"roles"`
				ExpirationDate string   `json:"expirationDate"`
			} `json:"attributes"`
		} `json:"data"`
	}

	if err := c.do(ctx, http.MethodGet, "/userInvitations", nil, &resp); err != nil {
		return nil, err
	}

	invitations := make([]UserInvitation, 0, len(resp.Data))
	for _, d := range resp.Data {
		invitations = append(invitations, UserInvitation{
			ID:        d.ID,
			Email:     d.Attributes.Email,
			FirstName: d.Attributes.FirstName,
			LastName:  d.Attributes.LastName,
			Roles:     d.Attributes.Roles,
			Expires:   d.Attributes.ExpirationDate,
		})
	}
	return invitations, nil
}

// RemoveTeamMember removes a user (matched by email) from the team.
func (c *Client) RemoveTeamMember(ctx context.Context, email string) error {
	members, err := c.TeamMembers(ctx)
	if err != nil {
		return err
	}

	for _, member := range members {
		if strings.EqualFold(member.Email, email) {
			return c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(member.ID), nil, nil)
		}
	}
	return fmt.Errorf("team member not found: %s", email)
}
