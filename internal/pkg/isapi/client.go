package isapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cmlabs-hris/faceid-bridge-go/internal/domain/device"
	"github.com/google/uuid"
)

// Client talks ISAPI to Hikvision access-control terminals over HTTP
// digest auth. It implements device.Transport; the rest of the bridge
// never sees the wire protocol.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// do issues one digest-authenticated request: an unauthenticated probe
// first, then a retry answering the 401 challenge. Terminals send a fresh
// nonce per request, so there is nothing worth caching between calls.
func (c *Client) do(ctx context.Context, dev device.Device, method, endpoint string, body []byte) ([]byte, error) {
	reqURL := dev.BaseURL() + endpoint

	resp, err := c.send(ctx, method, reqURL, body, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", device.ErrUnreachable, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		header := resp.Header.Get("WWW-Authenticate")
		drain(resp)

		ch, err := parseChallenge(header)
		if err != nil {
			return nil, fmt.Errorf("device %s: %w", dev.Name, err)
		}

		parsed, err := url.Parse(reqURL)
		if err != nil {
			return nil, fmt.Errorf("parse request url: %w", err)
		}
		auth := ch.authorize(dev.Username, dev.Password, method, parsed.RequestURI())

		resp, err = c.send(ctx, method, reqURL, body, auth)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", device.ErrUnreachable, err)
		}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read device response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("device %s returned %d: %s", dev.Name, resp.StatusCode, truncate(payload, 200))
	}

	return payload, nil
}

func (c *Client) send(ctx context.Context, method, reqURL string, body []byte, auth string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	return c.httpClient.Do(req)
}

// DeviceInfo implements device.Transport.
func (c *Client) DeviceInfo(ctx context.Context, dev device.Device) (device.Info, error) {
	payload, err := c.do(ctx, dev, http.MethodGet, "System/deviceInfo?format=json", nil)
	if err != nil {
		return device.Info{}, err
	}

	var resp deviceInfoResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return device.Info{}, fmt.Errorf("decode device info: %w", err)
	}

	return device.Info{
		Model:           resp.DeviceInfo.Model,
		SerialNumber:    resp.DeviceInfo.SerialNumber,
		FirmwareVersion: resp.DeviceInfo.FirmwareVersion,
	}, nil
}

// SearchEvents implements device.Transport.
func (c *Client) SearchEvents(ctx context.Context, dev device.Device, startTime, endTime string, position, pageSize int) (device.EventPage, error) {
	req := acsEventSearchRequest{
		AcsEventCond: acsEventCond{
			SearchID:             uuid.NewString(),
			SearchResultPosition: position,
			MaxResults:           pageSize,
			Major:                majorAccessControl,
			Minor:                minorAll,
			StartTime:            startTime,
			EndTime:              endTime,
			IsAttendanceInfo:     true,
			TimeReverseOrder:     true,
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return device.EventPage{}, fmt.Errorf("encode event search: %w", err)
	}

	payload, err := c.do(ctx, dev, http.MethodPost, "AccessControl/AcsEvent?format=json", body)
	if err != nil {
		return device.EventPage{}, err
	}

	var resp acsEventSearchResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return device.EventPage{}, fmt.Errorf("decode event search: %w", err)
	}

	page := device.EventPage{Total: resp.AcsEvent.TotalMatches}
	for _, info := range resp.AcsEvent.InfoList {
		page.Events = append(page.Events, device.RawEvent{
			BadgeID: info.EmployeeNoString,
			Time:    info.Time,
			Label:   info.Label,
		})
	}
	return page, nil
}

// SetUserBlocked implements device.Transport. Blocking moves the badge to
// the terminal's blacklist; unblocking restores a normal user with a long
// validity window, matching what the terminals expect.
func (c *Client) SetUserBlocked(ctx context.Context, dev device.Device, badgeID string, blocked bool) error {
	var req userInfoModify
	req.UserInfo.EmployeeNo = badgeID
	if blocked {
		req.UserInfo.UserType = "blackList"
	} else {
		req.UserInfo.UserType = "normal"
		req.UserInfo.Valid = &userInfoValid{
			Enable:    true,
			BeginTime: "2020-01-01T00:00:00",
			EndTime:   "2030-12-31T23:59:59",
			TimeType:  "local",
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode user modify: %w", err)
	}

	_, err = c.do(ctx, dev, http.MethodPut, "AccessControl/UserInfo/Modify?format=json", body)
	return err
}

// CreateUser implements device.Transport.
func (c *Client) CreateUser(ctx context.Context, dev device.Device, badgeID, name string) error {
	var req userInfoModify
	req.UserInfo.EmployeeNo = badgeID
	req.UserInfo.Name = name
	req.UserInfo.UserType = "normal"
	req.UserInfo.DoorRight = "1"
	req.UserInfo.Valid = &userInfoValid{
		Enable:    true,
		BeginTime: "2020-01-01T00:00:00",
		EndTime:   "2030-12-31T23:59:59",
		TimeType:  "local",
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode user record: %w", err)
	}

	_, err = c.do(ctx, dev, http.MethodPost, "AccessControl/UserInfo/Record?format=json", body)
	return err
}

// ListUserBadges implements device.Transport.
func (c *Client) ListUserBadges(ctx context.Context, dev device.Device) (map[string]struct{}, error) {
	const pageSize = 100

	badges := make(map[string]struct{})
	position := 0

	for {
		req := userInfoSearchRequest{
			UserInfoSearchCond: userInfoSearchCond{
				SearchID:             uuid.NewString(),
				SearchResultPosition: position,
				MaxResults:           pageSize,
			},
		}
		body, err := json.Marshal(req)
		if err != nil {
			return nil, fmt.Errorf("encode user search: %w", err)
		}

		payload, err := c.do(ctx, dev, http.MethodPost, "AccessControl/UserInfo/Search?format=json", body)
		if err != nil {
			return nil, err
		}

		var resp userInfoSearchResponse
		if err := json.Unmarshal(payload, &resp); err != nil {
			return nil, fmt.Errorf("decode user search: %w", err)
		}

		users := resp.UserInfoSearch.UserInfo
		if len(users) == 0 {
			break
		}
		for _, u := range users {
			if u.EmployeeNo != "" {
				badges[u.EmployeeNo] = struct{}{}
			}
		}

		position += len(users)
		if position >= resp.UserInfoSearch.TotalMatches {
			break
		}
	}

	return badges, nil
}

// ConfigureHTTPHost implements device.Transport.
func (c *Client) ConfigureHTTPHost(ctx context.Context, dev device.Device, hostIP string, hostPort int, path string) error {
	var req httpHostNotification
	req.HTTPHostNotification.ID = "1"
	req.HTTPHostNotification.URL = path
	req.HTTPHostNotification.ProtocolType = "HTTP"
	req.HTTPHostNotification.ParameterFormatType = "JSON"
	req.HTTPHostNotification.AddressingFormatType = "ipaddress"
	req.HTTPHostNotification.IPAddress = hostIP
	req.HTTPHostNotification.PortNo = hostPort
	req.HTTPHostNotification.HTTPAuthenticationMethod = "none"

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode http host config: %w", err)
	}

	_, err = c.do(ctx, dev, http.MethodPut, "Event/notification/httpHosts/1?format=json", body)
	return err
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
