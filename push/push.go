// Package push sends notifications through the Pushy REST API. Dispatch is
// fire-and-forget: callers log failures and never block an HTTP response on
// delivery.
package push

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const defaultEndpoint = "https://api.pushy.me"

// Payload types understood by the clients.
const (
	TypeMessage       = "msg"
	TypeChat          = "chat"
	TypeFriendRequest = "friend_request"
)

// MessagePayload notifies a chat member of a new message.
type MessagePayload struct {
	Type    string      `json:"type"`
	Message interface{} `json:"message"`
	ChatID  int         `json:"chatid"`
}

// ChatPayload notifies a chat member that the room changed.
type ChatPayload struct {
	Type          string   `json:"type"`
	Usernames     []string `json:"usernames"`
	ChatID        int      `json:"chatid"`
	Name          string   `json:"name"`
	RecentMessage string   `json:"recent_message"`
	Timestamp     string   `json:"timestamp"`
}

// FriendRequestPayload notifies a member of an incoming friend request.
type FriendRequestPayload struct {
	Type     string `json:"type"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Client talks to the push provider.
type Client struct {
	apiKey   string
	endpoint string
	http     *http.Client
}

// New builds a Client for the given API key.
func New(apiKey string) *Client {
	return &Client{
		apiKey:   apiKey,
		endpoint: defaultEndpoint,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

// NewWithEndpoint builds a Client against a non-default endpoint.
func NewWithEndpoint(apiKey string, endpoint string) *Client {
	c := New(apiKey)
	c.endpoint = endpoint
	return c
}

type pushRequest struct {
	To   string      `json:"to"`
	Data interface{} `json:"data"`
}

// Send dispatches one typed payload to one device token.
func (cl *Client) Send(ctx context.Context, token string, data interface{}) error {
	body, err := json.Marshal(pushRequest{To: token, Data: data})
	if err != nil {
		return err
	}

	url := cl.endpoint + "/push?api_key=" + cl.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := cl.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	io.Copy(io.Discard, res.Body)

	if res.StatusCode >= 300 {
		return fmt.Errorf("push provider responded %d", res.StatusCode)
	}
	return nil
}
