package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
)

// Event is one live message from a hackathon room.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
	RoomID  string          `json:"room_id"`
}

const (
	EventRegistrationCreated = "REGISTRATION_CREATED"
	EventProposalStatus      = "PROPOSAL_STATUS_CHANGED"
)

// WatchHackathon streams live events of one hackathon into handle until ctx
// is cancelled or the server closes the feed. Cancellation returns nil.
func (c *Client) WatchHackathon(ctx context.Context, hackathonID string, handle func(Event)) error {
	wsURL, err := c.liveURL(hackathonID)
	if err != nil {
		return err
	}

	header := http.Header{}
	if token := c.session.Token(); token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("watch hackathon %s: %w", hackathonID, &APIError{Method: http.MethodGet, Path: "/ws/hackathons/" + hackathonID, Status: resp.StatusCode})
		}
		return fmt.Errorf("watch hackathon %s: %w", hackathonID, err)
	}
	defer conn.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-stop:
		}
	}()

	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			var syntaxErr *json.SyntaxError
			if errors.As(err, &syntaxErr) {
				c.logger.Warn("skipping malformed live event", slog.Any("error", err))
				continue
			}
			return fmt.Errorf("watch hackathon %s: %w", hackathonID, err)
		}
		handle(ev)
	}
}

// liveURL maps http://host/api to ws://host/ws/hackathons/<id>.
func (c *Client) liveURL(hackathonID string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base URL: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(strings.TrimRight(u.Path, "/"), "/api") + "/ws/hackathons/" + url.PathEscape(hackathonID)
	u.RawQuery = ""
	return u.String(), nil
}
