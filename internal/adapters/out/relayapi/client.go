// Package relayapi is the HTTP client side of the relay API. It implements
// ports.RelayGateway for the client session and loads package snapshots.
package relayapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"relay/internal/adapters/out/feed"
	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/parcel"
	"relay/internal/core/domain/model/transit"
	"relay/internal/core/domain/services"
	"relay/internal/core/ports"

	"github.com/shopspring/decimal"
)

type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type locationRequest struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type rewardResponse struct {
	Delivered     bool             `json:"delivered"`
	CreditsEarned decimal.Decimal  `json:"credits_earned"`
	DeliveryBonus *decimal.Decimal `json:"delivery_bonus,omitempty"`
	NewBalance    decimal.Decimal  `json:"new_balance"`
}

type failureResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// HTTPError is returned for failures that are not a store rejection.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("relay api returned %d: %s", e.StatusCode, e.Message)
}

func (c *Client) RequestPickup(ctx context.Context, packageID kernel.UUID, location kernel.GeoPoint) (services.Reward, error) {
	return c.transition(ctx, packageID, "pickup", location)
}

func (c *Client) RequestDropoff(ctx context.Context, packageID kernel.UUID, location kernel.GeoPoint) (services.Reward, error) {
	return c.transition(ctx, packageID, "dropoff", location)
}

// transition posts the location and maps 4xx answers to
// ports.ErrTransitionRejected carrying the server message.
func (c *Client) transition(
	ctx context.Context,
	packageID kernel.UUID,
	action string,
	location kernel.GeoPoint,
) (services.Reward, error) {
	body, err := json.Marshal(locationRequest{Lat: location.Latitude(), Lon: location.Longitude()})
	if err != nil {
		return services.Reward{}, err
	}

	path := fmt.Sprintf("/api/v1/packages/%s/%s", packageID.String(), action)
	status, payload, err := c.do(ctx, http.MethodPost, path, body)
	if err != nil {
		return services.Reward{}, fmt.Errorf("%s request failed: %w", action, err)
	}
	if status != http.StatusOK {
		return services.Reward{}, failure(status, payload)
	}

	var reward rewardResponse
	if err = json.Unmarshal(payload, &reward); err != nil {
		return services.Reward{}, fmt.Errorf("failed to decode %s response: %w", action, err)
	}

	return services.Reward{
		Delivered:     reward.Delivered,
		CreditsEarned: reward.CreditsEarned,
		DeliveryBonus: reward.DeliveryBonus,
		NewBalance:    reward.NewBalance,
	}, nil
}

// Snapshot is a package and its transit records as currently stored.
type Snapshot struct {
	Package *parcel.Package
	Records []*transit.Record
}

type recordView struct {
	feed.TransitRecordDocument
	Movements []feed.MovementDocument `json:"movements"`
}

type packageView struct {
	Package        feed.PackageDocument `json:"package"`
	TransitRecords []recordView         `json:"transit_records"`
}

// GetPackage loads the current snapshot of a package. Documents that do not
// decode yield a *feed.DecodeError.
func (c *Client) GetPackage(ctx context.Context, packageID kernel.UUID) (Snapshot, error) {
	status, payload, err := c.do(ctx, http.MethodGet, "/api/v1/packages/"+packageID.String(), nil)
	if err != nil {
		return Snapshot{}, fmt.Errorf("package request failed: %w", err)
	}
	if status != http.StatusOK {
		return Snapshot{}, failure(status, payload)
	}

	var view packageView
	if err = json.Unmarshal(payload, &view); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode package response: %w", err)
	}

	pkg, err := feed.DecodePackage(view.Package)
	if err != nil {
		return Snapshot{}, err
	}

	records := make([]*transit.Record, 0, len(view.TransitRecords))
	for _, rv := range view.TransitRecords {
		record, recErr := feed.DecodeRecord(rv.TransitRecordDocument)
		if recErr != nil {
			return Snapshot{}, recErr
		}
		movements, movErr := feed.DecodeMovements(feed.MovementsChanged{
			PackageID: rv.PackageID,
			MoverID:   rv.MoverID,
			Movements: rv.Movements,
		})
		if movErr != nil {
			return Snapshot{}, movErr
		}
		records = append(records, record.WithMovements(movements.Movements))
	}

	return Snapshot{Package: pkg, Records: records}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, payload, nil
}

func failure(status int, payload []byte) error {
	message := http.StatusText(status)
	var f failureResponse
	if err := json.Unmarshal(payload, &f); err == nil && f.Message != "" {
		message = f.Message
	}

	if status >= http.StatusBadRequest && status < http.StatusInternalServerError &&
		status != http.StatusUnauthorized && status != http.StatusTooManyRequests {
		return fmt.Errorf("%w: %s", ports.ErrTransitionRejected, message)
	}
	return &HTTPError{StatusCode: status, Message: message}
}
