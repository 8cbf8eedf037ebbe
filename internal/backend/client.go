// Package backend is the typed client for the scoring backend API. Every
// call goes through a gateway, so credentials, session expiry and error
// payloads are handled in one place.
package backend

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/mcoot/scorekeeper/internal/gateway"
	"github.com/mcoot/scorekeeper/internal/model"
)

// Client calls the backend API
type Client struct {
	gw *gateway.Gateway
}

// New creates a Client over a gateway
func New(gw *gateway.Gateway) *Client {
	return &Client{gw: gw}
}

// LoginResponse is the body returned by the login endpoint
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
	FirstName   string `json:"firstname"`
	LastName    string `json:"lastname"`
}

// Login exchanges a username and password for a credential. It is sent
// without a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (*model.Credential, error) {
	body := map[string]string{
		"username": username,
		"password": password,
	}

	resp, err := gateway.DoPublic[LoginResponse](ctx, c.gw, EndpointLogin, http.MethodPost, &gateway.Options{Body: body})
	if err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("login response carried no access token")
	}

	cred := &model.Credential{
		Token:     resp.AccessToken,
		Username:  resp.Username,
		FirstName: resp.FirstName,
		LastName:  resp.LastName,
		ExpiresAt: tokenExpiry(resp.AccessToken),
	}
	if cred.Username == "" {
		cred.Username = username
	}
	return cred, nil
}

// Player operations

func (c *Client) ListPlayers(ctx context.Context) ([]model.Player, error) {
	return gateway.Do[[]model.Player](ctx, c.gw, EndpointPlayers, http.MethodGet, nil)
}

func (c *Client) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return doPtr[model.Player](ctx, c.gw, playerPath(id), http.MethodGet, nil)
}

func (c *Client) CreatePlayer(ctx context.Context, in model.PlayerInput) (*model.Player, error) {
	return doPtr[model.Player](ctx, c.gw, EndpointPlayers, http.MethodPost, &gateway.Options{Body: in})
}

func (c *Client) UpdatePlayer(ctx context.Context, id model.PlayerID, in model.PlayerInput) (*model.Player, error) {
	return doPtr[model.Player](ctx, c.gw, playerPath(id), http.MethodPatch, &gateway.Options{Body: in})
}

// DeletePlayer deletes a player and returns the deleted record as reported
// by the backend
func (c *Client) DeletePlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return doPtr[model.Player](ctx, c.gw, playerPath(id), http.MethodDelete, nil)
}

// Match operations

func (c *Client) ListMatches(ctx context.Context) ([]model.Match, error) {
	return gateway.Do[[]model.Match](ctx, c.gw, EndpointMatches, http.MethodGet, nil)
}

func (c *Client) GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error) {
	return doPtr[model.Match](ctx, c.gw, matchPath(id), http.MethodGet, nil)
}

func (c *Client) CreateMatch(ctx context.Context, in model.MatchInput) (*model.Match, error) {
	return doPtr[model.Match](ctx, c.gw, EndpointMatches, http.MethodPost, &gateway.Options{Body: in})
}

func (c *Client) UpdateMatch(ctx context.Context, id model.MatchID, in model.MatchInput) (*model.Match, error) {
	return doPtr[model.Match](ctx, c.gw, matchPath(id), http.MethodPatch, &gateway.Options{Body: in})
}

// EndMatch marks a match as no longer in progress
func (c *Client) EndMatch(ctx context.Context, id model.MatchID) (*model.Match, error) {
	inProgress := false
	return c.UpdateMatch(ctx, id, model.MatchInput{InProgress: &inProgress})
}

func (c *Client) DeleteMatch(ctx context.Context, id model.MatchID) (*model.Match, error) {
	return doPtr[model.Match](ctx, c.gw, matchPath(id), http.MethodDelete, nil)
}

// SaveRound creates (or, with update set, updates) the given round for
// every listed player. One request is sent per player, all concurrently;
// every request runs to completion and the first failure is returned.
func (c *Client) SaveRound(ctx context.Context, in model.RoundInput, update bool) ([]model.Round, error) {
	if err := validateRound(in); err != nil {
		return nil, err
	}

	method := http.MethodPost
	if update {
		method = http.MethodPatch
	}
	body := map[string]int{"points": in.Points}

	users := uniquePlayers(in.UserIDs)
	rounds := make([]model.Round, len(users))

	var g errgroup.Group
	for i, userID := range users {
		path := gateway.Expand(EndpointRound, map[string]string{
			"matchId": strconv.Itoa(int(in.MatchID)),
			"roundId": strconv.Itoa(in.RoundID),
			"userId":  strconv.Itoa(int(userID)),
		})
		g.Go(func() error {
			r, err := gateway.Do[model.Round](ctx, c.gw, path, method, &gateway.Options{Body: body})
			rounds[i] = r
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rounds, nil
}

// ListLocations returns the places a match can be played at
func (c *Client) ListLocations(ctx context.Context) ([]model.Location, error) {
	return gateway.Do[[]model.Location](ctx, c.gw, EndpointLocations, http.MethodGet, nil)
}

func validateRound(in model.RoundInput) error {
	switch {
	case in.MatchID <= 0:
		return fmt.Errorf("%w: match is required", model.ErrInvalidRound)
	case len(in.UserIDs) == 0:
		return fmt.Errorf("%w: at least one player is required", model.ErrInvalidRound)
	case in.RoundID <= 0:
		return fmt.Errorf("%w: round number must be positive", model.ErrInvalidRound)
	case in.Points < 0:
		return fmt.Errorf("%w: points cannot be negative", model.ErrInvalidRound)
	}
	return nil
}

func uniquePlayers(ids []model.PlayerID) []model.PlayerID {
	out := make([]model.PlayerID, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func playerPath(id model.PlayerID) string {
	return gateway.Expand(EndpointPlayer, map[string]string{"id": strconv.Itoa(int(id))})
}

func matchPath(id model.MatchID) string {
	return gateway.Expand(EndpointMatch, map[string]string{"id": strconv.Itoa(int(id))})
}

func doPtr[T any](ctx context.Context, gw *gateway.Gateway, path, method string, opts *gateway.Options) (*T, error) {
	v, err := gateway.Do[T](ctx, gw, path, method, opts)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
