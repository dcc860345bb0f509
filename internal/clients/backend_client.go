package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/roteiro-viagens/itinerary-service/internal/models"
)

// BackendClient talks to the remote persistence service that owns the
// relational data. It implements the schedule.EventStore and
// schedule.ContextStore contracts.
type BackendClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewBackendClient creates a client for the persistence service at baseURL.
func NewBackendClient(baseURL string, logger *zap.Logger) *BackendClient {
	return &BackendClient{
		baseURL: baseURL,
		client:  &http.Client{},
		logger:  logger.Named("backend_client"),
	}
}

// doRequest performs one HTTP round trip and returns the response body.
func (c *BackendClient) doRequest(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	var req *http.Request
	var err error

	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, url, bytes.NewBuffer(body))
		if req != nil {
			req.Header.Set("Content-Type", "application/json")
		}
	} else {
		req, err = http.NewRequestWithContext(ctx, method, url, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("request failed", zap.String("url", url), zap.Error(err))
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		c.logger.Error("backend returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("url", url),
			zap.String("response", string(respBody)))
		return nil, fmt.Errorf("backend error (%d): %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// GetEventsByGroupID fetches every itinerary event of a group.
func (c *BackendClient) GetEventsByGroupID(ctx context.Context, groupID string) ([]models.EventWireRecord, error) {
	url := fmt.Sprintf("%s/api/v1/groups/%s/events", c.baseURL, groupID)

	respBody, err := c.doRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching events for group %s: %w", groupID, err)
	}

	var resp struct {
		Events []models.EventWireRecord `json:"events"`
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling events response: %w", err)
	}
	return resp.Events, nil
}

// CreateEvent persists one event and returns it with its assigned id.
func (c *BackendClient) CreateEvent(ctx context.Context, record models.EventWireRecord) (models.EventWireRecord, error) {
	url := fmt.Sprintf("%s/api/v1/events", c.baseURL)

	reqBody, err := json.Marshal(record)
	if err != nil {
		return models.EventWireRecord{}, fmt.Errorf("marshaling event: %w", err)
	}

	respBody, err := c.doRequest(ctx, http.MethodPost, url, reqBody)
	if err != nil {
		return models.EventWireRecord{}, fmt.Errorf("creating event: %w", err)
	}

	var resp struct {
		Event *models.EventWireRecord `json:"event"`
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return models.EventWireRecord{}, fmt.Errorf("unmarshaling create response: %w", err)
	}
	if resp.Event == nil {
		return models.EventWireRecord{}, fmt.Errorf("event missing from create response")
	}

	c.logger.Debug("event created",
		zap.String("event_id", resp.Event.ID),
		zap.String("tipo", resp.Event.Tipo))
	return *resp.Event, nil
}

// UpdateEvent applies a partial update to one event by id.
func (c *BackendClient) UpdateEvent(ctx context.Context, id string, patch map[string]any) error {
	url := fmt.Sprintf("%s/api/v1/events/%s", c.baseURL, id)

	reqBody, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("marshaling patch: %w", err)
	}
	if _, err := c.doRequest(ctx, http.MethodPatch, url, reqBody); err != nil {
		return fmt.Errorf("updating event %s: %w", id, err)
	}
	return nil
}

// DeleteEvent hard-deletes one event by id.
func (c *BackendClient) DeleteEvent(ctx context.Context, id string) error {
	url := fmt.Sprintf("%s/api/v1/events/%s", c.baseURL, id)

	if _, err := c.doRequest(ctx, http.MethodDelete, url, nil); err != nil {
		return fmt.Errorf("deleting event %s: %w", id, err)
	}
	return nil
}

// GetGroupByID fetches one mission group.
func (c *BackendClient) GetGroupByID(ctx context.Context, id string) (*models.MissionGroup, error) {
	url := fmt.Sprintf("%s/api/v1/groups/%s", c.baseURL, id)

	respBody, err := c.doRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching group %s: %w", id, err)
	}

	var resp struct {
		Group *models.MissionGroup `json:"group"`
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling group response: %w", err)
	}
	if resp.Group == nil {
		return nil, fmt.Errorf("group %s not found in response", id)
	}
	return resp.Group, nil
}

// GetGroupsByMissionID fetches all groups belonging to a mission.
func (c *BackendClient) GetGroupsByMissionID(ctx context.Context, missionID string) ([]models.MissionGroup, error) {
	url := fmt.Sprintf("%s/api/v1/missions/%s/groups", c.baseURL, missionID)

	respBody, err := c.doRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching groups for mission %s: %w", missionID, err)
	}

	var resp struct {
		Groups []models.MissionGroup `json:"groups"`
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling groups response: %w", err)
	}
	return resp.Groups, nil
}

// GetAllTravelers fetches travelers filtered by mission or by group.
func (c *BackendClient) GetAllTravelers(ctx context.Context, filter models.TravelerFilter) ([]models.Traveler, error) {
	query := url.Values{}
	if filter.MissionID != "" {
		query.Set("mission_id", filter.MissionID)
	}
	if filter.GroupID != "" {
		query.Set("group_id", filter.GroupID)
	}
	requestURL := fmt.Sprintf("%s/api/v1/travelers?%s", c.baseURL, query.Encode())

	respBody, err := c.doRequest(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching travelers: %w", err)
	}

	var resp struct {
		Travelers []models.Traveler `json:"travelers"`
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshaling travelers response: %w", err)
	}
	return resp.Travelers, nil
}
