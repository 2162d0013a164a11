package googleplay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2/google"
)

const (
	defaultStorageBaseURL = "https://storage.googleapis.com/storage/v1"
	storageReadOnlyScope  = "https://www.googleapis.com/auth/devstorage.read_only"
)

var monthPattern = regexp.MustCompile(`^\d{6}$`)

// ReportKind selects the report family inside the bucket.
type ReportKind string

const (
	// FinancialReports live under earnings/earnings_<YYYYMM>*.zip.
	FinancialReports ReportKind = "financial"
	// SalesReports live under sales/salesreport_<YYYYMM>*.zip.
	SalesReports ReportKind = "sales"
)

// prefix returns the object-name prefix for a month in YYYYMM form.
func (k ReportKind) prefix(month string) string {
	switch k {
	case SalesReports:
		return "sales/salesreport_" + month
	default:
		return "earnings/earnings_" + month
	}
}

// Client reads report archives from the publisher's Cloud Storage bucket.
type Client struct {
	mu         sync.Mutex
	cfg        *Config
	httpClient *http.Client
	baseURL    string
}

// NewClient creates an unconfigured client.
func NewClient() *Client {
	return &Client{baseURL: defaultStorageBaseURL}
}

// ensureConfigured lazily builds the authenticated HTTP client from the
// environment. Missing configuration fails before any network I/O. The
// client outlives any single tool call, so it is built against the
// background context rather than the caller's.
func (c *Client) ensureConfigured() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.httpClient != nil {
		return nil
	}

	cfg, err := ConfigFromEnv()
	if err != nil {
		return fmt.Errorf("Google Play is not configured: %w", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(cfg.ServiceAccountJSON, storageReadOnlyScope)
	if err != nil {
		return fmt.Errorf("failed to load service account key: %w", err)
	}

	c.cfg = cfg
	c.httpClient = jwtConfig.Client(context.Background())
	return nil
}

// object is one Cloud Storage object listing entry.
type object struct {
	Name string `json:"name"`
	Size string `json:"size"`
}

// listObjects lists the bucket's objects under prefix.
func (c *Client) listObjects(ctx context.Context, prefix string) ([]object, error) {
	endpoint := fmt.Sprintf("%s/b/%s/o?prefix=%s",
		c.baseURL, url.PathEscape(c.cfg.Bucket()), url.QueryEscape(prefix))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to list bucket objects: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("storage API error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var listing struct {
		Items []object `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("failed to decode listing: %w", err)
	}
	return listing.Items, nil
}

// downloadObject fetches one object's content.
func (c *Client) downloadObject(ctx context.Context, name string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/b/%s/o/%s?alt=media",
		c.baseURL, url.PathEscape(c.cfg.Bucket()), url.PathEscape(name))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("storage API error %d for %s: %s", resp.StatusCode, name, strings.TrimSpace(string(body)))
	}

	return io.ReadAll(resp.Body)
}

// MonthlyReport downloads every archive for the month and returns the
// merged CSV content with a summary header.
func (c *Client) MonthlyReport(ctx context.Context, kind ReportKind, month string) (string, error) {
	if !monthPattern.MatchString(month) {
		return "", fmt.Errorf("invalid target month %q (expected YYYYMM, e.g. 202401)", month)
	}

	if err := c.ensureConfigured(); err != nil {
		return "", err
	}

	prefix := kind.prefix(month)
	objects, err := c.listObjects(ctx, prefix)
	if err != nil {
		return "", err
	}
	if len(objects) == 0 {
		return "", fmt.Errorf("no %s report found for %s", kind, month)
	}

	archives := make(map[string][]byte, len(objects))
	for _, obj := range objects {
		logrus.WithFields(logrus.Fields{
			"plugin": PluginName,
			"object": obj.Name,
		}).Info("Downloading report archive")

		data, err := c.downloadObject(ctx, obj.Name)
		if err != nil {
			return "", err
		}
		archives[baseName(obj.Name)] = data
	}

	return mergeReportArchives(kind, month, archives)
}

func baseName(objectName string) string {
	if idx := strings.LastIndex(objectName, "/"); idx >= 0 {
		return objectName[idx+1:]
	}
	return objectName
}
