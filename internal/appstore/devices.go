package appstore

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// maxDeviceLimit is the API's page-size ceiling for device listings.
const maxDeviceLimit = 200

// Device is a registered development device.
type Device struct {
	ID          string
	Name        string
	UDID        string
	DeviceClass string
	Platform    string
	Status      string
	Model       string
	AddedDate   string
}

// Enabled reports whether the device is active.
func (d Device) Enabled() bool {
	return d.Status == "ENABLED"
}

// DeviceFilter narrows a device listing. Empty fields match everything.
type DeviceFilter struct {
	DeviceClass string // IPHONE, IPAD, APPLE_WATCH, APPLE_TV, MAC
	Status      string // ENABLED, DISABLED
	Platform    string // IOS, MAC_OS
	Limit       int
}

type deviceData struct {
	ID         string `json:"id"`
	Attributes struct {
		Name        string `json:"name"`
		UDID        string `json:"udid"`
		DeviceClass string `json:"deviceClass"`
		Platform    string `json:"platform"`
		Status      string `json:"status"`
		Model       string `json:"model"`
		AddedDate   string `json:"addedDate"`
	} `json:"attributes"`
}

func (d deviceData) device() Device {
	return Device{
		ID:          d.ID,
		Name:        d.Attributes.Name,
		UDID:        d.Attributes.UDID,
		DeviceClass: d.Attributes.DeviceClass,
		Platform:    d.Attributes.Platform,
		Status:      d.Attributes.Status,
		Model:       d.Attributes.Model,
		AddedDate:   d.Attributes.AddedDate,
	}
}

// Devices lists registered devices matching the filter.
func (c *Client) Devices(ctx context.Context, filter DeviceFilter) ([]Device, error) {
	limit := filter.Limit
	if limit <= 0 || limit > maxDeviceLimit {
		limit = maxDeviceLimit
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	if filter.DeviceClass != "" {
		query.Set("filter[deviceClass]", filter.DeviceClass)
	}
	if filter.Status != "" {
		query.Set("filter[status]", filter.Status)
	}
	if filter.Platform != "" {
		query.Set("filter[platform]", filter.Platform)
	}

	var resp struct {
		Data []deviceData `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/devices?"+query.Encode(), nil, &resp); err != nil {
		return nil, err
	}

	devices := make([]Device, 0, len(resp.Data))
	for _, d := range resp.Data {
		devices = append(devices, d.device())
	}
	return devices, nil
}

// RegisterDevice registers a new development device.
func (c *Client) RegisterDevice(ctx context.Context, name, udid, platform string) (*Device, error) {
	body := map[string]any{
		"data": map[string]any{
			"type": "devices",
			"attributes": map[string]any{
				"name":     name,
				"udid":     udid,
				"platform": platform,
			},
		},
	}

	var resp struct {
		Data deviceData `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/devices", body, &resp); err != nil {
		return nil, err
	}

	device := resp.Data.device()
	return &device, nil
}

// UpdateDevice renames or enables/disables a device. Empty fields are left
// untouched.
func (c *Client) UpdateDevice(ctx context.Context, deviceID, name, status string) (*Device, error) {
	attributes := map[string]any{}
	if name != "" {
		attributes["name"] = name
	}
	if status != "" {
		attributes["status"] = status
	}

	body := map[string]any{
		"data": map[string]any{
			"type":       "devices",
			"id":         deviceID,
			"attributes": attributes,
		},
	}

	var resp struct {
		Data deviceData `json:"data"`
	}
	if err := c.do(ctx, http.MethodPatch, "/devices/"+url.PathEscape(deviceID), body, &resp); err != nil {
		return nil, err
	}

	device := resp.Data.device()
	return &device, nil
}

// FindDeviceByUDID resolves a device by its UDID, or nil when unregistered.
func (c *Client) FindDeviceByUDID(ctx context.Context, udid string) (*Device, error) {
	devices, err := c.Devices(ctx, DeviceFilter{})
	if err != nil {
		return nil, err
	}

	for i := range devices {
		if strings.EqualFold(devices[i].UDID, udid) {
			return &devices[i], nil
		}
	}
	return nil, nil
}
