package appstore

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// ErrNoVendorNumber is returned by the report endpoints when the credential
// set has no vendor number.
var ErrNoVendorNumber = errors.New("vendor number not configured: set APPSTORE_VENDOR_NUMBER or pass vendor_number to configure_credentials")

// vendorNumber returns the configured vendor number, or "".
func (c *Client) vendorNumber() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cfg == nil {
		return ""
	}
	return c.cfg.VendorNumber
}

// SalesReport downloads a sales and trends report. The API serves reports as
// gzip-compressed CSV; the decompressed text is returned. reportDate is
// YYYY-MM-DD for DAILY/WEEKLY reports and YYYY-MM for MONTHLY, and may be
// empty for the latest daily report.
func (c *Client) SalesReport(ctx context.Context, reportType, reportSubtype, frequency, reportDate string) (string, error) {
	if _, err := c.ensureConfigured(); err != nil {
		return "", err
	}

	vendor := c.vendorNumber()
	if vendor == "" {
		return "", ErrNoVendorNumber
	}

	query := url.Values{}
	query.Set("filter[frequency]", strings.ToUpper(frequency))
	query.Set("filter[reportSubType]", strings.ToUpper(reportSubtype))
	query.Set("filter[reportType]", strings.ToUpper(reportType))
	query.Set("filter[vendorNumber]", vendor)
	if reportDate != "" {
		query.Set("filter[reportDate]", reportDate)
	}

	return c.downloadReport(ctx, "/salesReports", query)
}

// FinanceReport downloads a monthly finance report. regionCode "ZZ" selects
// the worldwide report; reportDate is YYYY-MM.
func (c *Client) FinanceReport(ctx context.Context, regionCode, reportDate string) (string, error) {
	if _, err := c.ensureConfigured(); err != nil {
		return "", err
	}

	vendor := c.vendorNumber()
	if vendor == "" {
		return "", ErrNoVendorNumber
	}
	if reportDate == "" {
		return "", errors.New("report_date is required (YYYY-MM)")
	}

	query := url.Values{}
	query.Set("filter[regionCode]", regionCode)
	query.Set("filter[reportDate]", reportDate)
	query.Set("filter[reportType]", "FINANCIAL")
	query.Set("filter[vendorNumber]", vendor)

	return c.downloadReport(ctx, "/financeReports", query)
}

// downloadReport fetches a gzip-compressed report and returns its text.
func (c *Client) downloadReport(ctx context.Context, path string, query url.Values) (string, error) {
	tokens, err := c.ensureConfigured()
	if err != nil {
		return "", err
	}

	token, err := tokens.bearer()
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/a-gzip")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("API error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	reader, err := gzip.NewReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to decompress report: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read report: %w", err)
	}
	return string(data), nil
}
