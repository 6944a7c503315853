package osuapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/semaphore"

	"github.com/starpp/starpp/app/beatmap"
	"github.com/starpp/starpp/app/ranking"
)

const (
	DefaultBaseURL = "https://osu.ppy.sh"

	maxConcurrentRequests = 2
	requestTimeout        = 15 * time.Second
)

// ErrServiceUnreachable means the API could not be reached at all
var ErrServiceUnreachable = errors.New("osu! API unreachable")

type Config struct {
	ClientID     string
	ClientSecret string

	// BaseURL defaults to DefaultBaseURL
	BaseURL string
}

// Client is a read-only osu! API v2 client authenticated with client credentials
type Client struct {
	baseURL string
	http    *http.Client

	slots *semaphore.Weighted
}

func NewClient(ctx context.Context, cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	credentials := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     baseURL + "/oauth/token",
		Scopes:       []string{"public"},
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: requestTimeout})

	httpClient := credentials.Client(ctx)
	httpClient.Timeout = requestTimeout

	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		slots:   semaphore.NewWeighted(maxConcurrentRequests),
	}
}

type apiBeatmapset struct {
	ID      int    `json:"id"`
	Artist  string `json:"artist"`
	Title   string `json:"title"`
	Creator string `json:"creator"`
}

type apiBeatmap struct {
	ID           int            `json:"id"`
	BeatmapsetID int            `json:"beatmapset_id"`
	Checksum     string         `json:"checksum"`
	Version      string         `json:"version"`
	Status       string         `json:"status"`
	Beatmapset   *apiBeatmapset `json:"beatmapset"`
}

type apiStatistics struct {
	Count300  int `json:"count_300"`
	Count100  int `json:"count_100"`
	Count50   int `json:"count_50"`
	CountMiss int `json:"count_miss"`
}

type apiScore struct {
	Accuracy   float64       `json:"accuracy"`
	CreatedAt  time.Time     `json:"created_at"`
	MaxCombo   int           `json:"max_combo"`
	Mods       []string      `json:"mods"`
	PP         *float64      `json:"pp"`
	Statistics apiStatistics `json:"statistics"`
	Beatmap    apiBeatmap    `json:"beatmap"`
}

func (b apiBeatmap) info() beatmap.Info {
	info := beatmap.Info{
		ID:      b.ID,
		SetID:   b.BeatmapsetID,
		Hash:    strings.ToLower(b.Checksum),
		Version: b.Version,
		Status:  beatmap.ParseStatus(b.Status),
	}

	if b.Beatmapset != nil {
		info.Artist = b.Beatmapset.Artist
		info.Title = b.Beatmapset.Title
		info.Creator = b.Beatmapset.Creator
	}

	return info
}

func (c *Client) get(ctx context.Context, path string, query url.Values, target any) error {
	if err := c.slots.Acquire(ctx, 1); err != nil {
		return err
	}

	defer c.slots.Release(1)

	u := c.baseURL + "/api/v2" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrServiceUnreachable, err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %w", ErrServiceUnreachable, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return beatmap.ErrNotFound
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", ErrServiceUnreachable, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("osu! API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	if err = json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	return nil
}

// Lookup finds a beatmap by its md5 checksum
func (c *Client) Lookup(ctx context.Context, hash string) (beatmap.Info, error) {
	var b apiBeatmap

	if err := c.get(ctx, "/beatmaps/lookup", url.Values{"checksum": {hash}}, &b); err != nil {
		return beatmap.Info{}, err
	}

	if b.Checksum == "" {
		b.Checksum = hash
	}

	return b.info(), nil
}

// RecentPlays returns the user's most recent passed standard plays, newest first.
// pp is copied from the API when it is known.
func (c *Client) RecentPlays(ctx context.Context, userID string, limit int) ([]ranking.Play, error) {
	query := url.Values{
		"mode":          {"osu"},
		"include_fails": {"0"},
		"limit":         {fmt.Sprint(max(1, limit))},
	}

	var scores []apiScore

	if err := c.get(ctx, "/users/"+url.PathEscape(userID)+"/scores/recent", query, &scores); err != nil {
		if errors.Is(err, beatmap.ErrNotFound) {
			return nil, fmt.Errorf("user %s not found", userID)
		}

		return nil, err
	}

	plays := make([]ranking.Play, 0, len(scores))

	for _, s := range scores {
		play := ranking.Play{
			Hash:     strings.ToLower(s.Beatmap.Checksum),
			Mods:     strings.Join(s.Mods, ""),
			MaxCombo: s.MaxCombo,
			Accuracy: s.Accuracy,
			Misses:   s.Statistics.CountMiss,
			SetAt:    s.CreatedAt,
		}

		if s.PP != nil {
			play.PP = *s.PP
		}

		plays = append(plays, play)
	}

	return plays, nil
}
