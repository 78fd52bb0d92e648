package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/jwebster45206/sunless-engine/internal/handlers"
	"github.com/jwebster45206/sunless-engine/pkg/adventure"
	"github.com/jwebster45206/sunless-engine/pkg/progress"
)

// apiError is an error response from the API.
type apiError struct {
	Status  int
	Kind    string
	Message string
}

func (e *apiError) Error() string {
	return e.Message
}

func isInvalidState(err error) bool {
	var apiErr *apiError
	return errors.As(err, &apiErr) && apiErr.Kind == handlers.KindInvalidState
}

type apiClient struct {
	client  *http.Client
	baseURL string
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

// do sends a request and decodes the response into out when out is non-nil.
func (c *apiClient) do(method, path string, in any, want int, out any) error {
	var body io.Reader
	if in != nil {
		jsonData, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != want {
		var errorResp handlers.ErrorResponse
		if err := json.Unmarshal(respBody, &errorResp); err != nil || errorResp.Error == "" {
			return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(respBody))
		}
		return &apiError{Status: resp.StatusCode, Kind: errorResp.Kind, Message: errorResp.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func (c *apiClient) createAdventure(start string) (handlers.CreateAdventureResponse, error) {
	var created handlers.CreateAdventureResponse
	err := c.do(http.MethodPost, "/v1/adventures", handlers.CreateAdventureRequest{Start: start}, http.StatusCreated, &created)
	return created, err
}

func (c *apiClient) location(id uuid.UUID) (*adventure.LocationView, error) {
	var view adventure.LocationView
	if err := c.do(http.MethodGet, adventurePath(id, "location"), nil, http.StatusOK, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *apiClient) consequence(id uuid.UUID) (*adventure.ConsequenceView, error) {
	var view adventure.ConsequenceView
	if err := c.do(http.MethodGet, adventurePath(id, "consequence"), nil, http.StatusOK, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *apiClient) progressReport(id uuid.UUID) (*progress.Report, error) {
	var report progress.Report
	if err := c.do(http.MethodGet, adventurePath(id, "progress"), nil, http.StatusOK, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *apiClient) performAction(id uuid.UUID, index int) error {
	return c.do(http.MethodPost, adventurePath(id, "actions"), handlers.PerformActionRequest{Index: &index}, http.StatusNoContent, nil)
}

func (c *apiClient) resolve(id uuid.UUID) error {
	return c.do(http.MethodPost, adventurePath(id, "resolve"), nil, http.StatusNoContent, nil)
}

func (c *apiClient) leave(id uuid.UUID) error {
	return c.do(http.MethodPost, adventurePath(id, "leave"), nil, http.StatusNoContent, nil)
}

// scene fetches whatever the adventure currently shows: the location, or the
// pending consequence when the location is not describable.
func (c *apiClient) scene(id uuid.UUID) (*adventure.LocationView, *adventure.ConsequenceView, error) {
	loc, err := c.location(id)
	if err == nil {
		return loc, nil, nil
	}
	if !isInvalidState(err) {
		return nil, nil, err
	}

	cons, err := c.consequence(id)
	if err != nil {
		return nil, nil, err
	}
	return nil, cons, nil
}

func adventurePath(id uuid.UUID, sub string) string {
	return fmt.Sprintf("/v1/adventures/%s/%s", id, sub)
}
