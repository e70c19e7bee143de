package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/desertthunder/spotimport/internal/shared"
	tu "github.com/desertthunder/spotimport/internal/testing"
	"golang.org/x/oauth2"
)

// recordingTransport captures every request and replies with a canned
// status and body.
type recordingTransport struct {
	status   int
	body     string
	requests []*http.Request
	bodies   []string
}

func (rt *recordingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var body string
	if req.Body != nil {
		data, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		body = string(data)
	}

	rt.requests = append(rt.requests, req)
	rt.bodies = append(rt.bodies, body)

	status := rt.status
	if status == 0 {
		status = http.StatusOK
	}

	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(rt.body)),
		Header:     make(http.Header),
	}, nil
}

func authedService(t *testing.T, rt http.RoundTripper) *SpotifyService {
	t.Helper()

	srv, err := NewSpotifyService(map[string]string{
		"client_id":     "test-client-id",
		"client_secret": "test-client-secret",
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Transport: rt})
	if err := srv.Authenticate(ctx, map[string]string{"access_token": "token123"}); err != nil {
		t.Fatalf("failed to authenticate: %v", err)
	}

	return srv
}

func TestNewSpotifyService(t *testing.T) {
	t.Run("Valid Credentials", func(t *testing.T) {
		srv, err := NewSpotifyService(map[string]string{
			"client_id":     "id",
			"client_secret": "secret",
			"redirect_uri":  "http://localhost:9999/cb",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if srv.config.RedirectURL != "http://localhost:9999/cb" {
			t.Errorf("unexpected redirect URL %q", srv.config.RedirectURL)
		}
		if srv.Name() != "Spotify" {
			t.Errorf("unexpected service name %q", srv.Name())
		}
	})

	t.Run("Default Redirect URI", func(t *testing.T) {
		srv, err := NewSpotifyService(map[string]string{
			"client_id":     "id",
			"client_secret": "secret",
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if srv.config.RedirectURL != "http://localhost:8080/callback" {
			t.Errorf("unexpected default redirect %q", srv.config.RedirectURL)
		}
	})

	t.Run("Missing Client ID", func(t *testing.T) {
		_, err := NewSpotifyService(map[string]string{"client_secret": "secret"})
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("Missing Client Secret", func(t *testing.T) {
		_, err := NewSpotifyService(map[string]string{"client_id": "id"})
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("Implements Service Interfaces", func(t *testing.T) {
		var _ Service = (*SpotifyService)(nil)
		var _ OAuthService = (*SpotifyService)(nil)
	})
}

func TestGetAuthURL(t *testing.T) {
	srv, err := NewSpotifyService(map[string]string{
		"client_id":     "test-client-id",
		"client_secret": "secret",
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}

	authURL := srv.GetAuthURL("state-abc")
	for _, want := range []string{
		"accounts.spotify.com/authorize",
		"client_id=test-client-id",
		"state=state-abc",
		"playlist-modify-private",
		"user-library-modify",
	} {
		if !strings.Contains(authURL, want) {
			t.Errorf("auth URL missing %q: %s", want, authURL)
		}
	}
}

func TestAuthenticate(t *testing.T) {
	t.Run("Missing Credentials", func(t *testing.T) {
		srv, _ := NewSpotifyService(map[string]string{"client_id": "id", "client_secret": "secret"})
		err := srv.Authenticate(context.Background(), map[string]string{})
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})

	t.Run("Access Token Sets Bearer Header", func(t *testing.T) {
		rt := &recordingTransport{body: `{"id": "user1"}`}
		srv := authedService(t, rt)

		if _, err := srv.CurrentUserID(context.Background()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got := rt.requests[0].Header.Get("Authorization")
		if got != "Bearer token123" {
			t.Errorf("unexpected Authorization header %q", got)
		}
	})

	t.Run("Unauthenticated Requests Fail", func(t *testing.T) {
		srv, _ := NewSpotifyService(map[string]string{"client_id": "id", "client_secret": "secret"})
		_, err := srv.CurrentUserID(context.Background())
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})
}

func TestCurrentUserID(t *testing.T) {
	rt := &recordingTransport{body: `{"id": "spotify-user", "display_name": "Test User"}`}
	srv := authedService(t, rt)

	userID, err := srv.CurrentUserID(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if userID != "spotify-user" {
		t.Errorf("expected user ID %q, got %q", "spotify-user", userID)
	}
	if got := rt.requests[0].URL.Path; got != "/v1/me" {
		t.Errorf("unexpected request path %q", got)
	}
}

func TestSearch(t *testing.T) {
	searchBody := `{
		"tracks": {
			"items": [
				{
					"id": "track1",
					"name": "Wild Thoughts",
					"artists": [{"name": "DJ Khaled"}, {"name": "Rihanna"}],
					"album": {"name": "Grateful"}
				},
				{
					"id": "track2",
					"name": "Wild Thoughts (Remix)",
					"artists": [{"name": "Somebody"}],
					"album": {"name": "Singles"}
				}
			],
			"total": 2
		}
	}`

	t.Run("Maps Results In Order", func(t *testing.T) {
		rt := &recordingTransport{body: searchBody}
		srv := authedService(t, rt)

		candidates, err := srv.Search(context.Background(), "Wild Thoughts", 20)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(candidates) != 2 {
			t.Fatalf("expected 2 candidates, got %d", len(candidates))
		}
		want := Candidate{
			ID:      "track1",
			Title:   "Wild Thoughts",
			Artists: []string{"DJ Khaled", "Rihanna"},
			Album:   "Grateful",
		}
		got := candidates[0]
		if got.ID != want.ID || got.Title != want.Title || got.Album != want.Album {
			t.Errorf("unexpected first candidate %+v", got)
		}
		if len(got.Artists) != 2 || got.Artists[0] != "DJ Khaled" {
			t.Errorf("unexpected artists %v", got.Artists)
		}

		q := rt.requests[0].URL.Query()
		if q.Get("q") != "Wild Thoughts" || q.Get("type") != "track" || q.Get("limit") != "20" {
			t.Errorf("unexpected query parameters %v", q)
		}
	})

	t.Run("Zero Limit Uses Service Default", func(t *testing.T) {
		rt := &recordingTransport{body: `{"tracks": {"items": []}}`}
		srv := authedService(t, rt)

		if _, err := srv.Search(context.Background(), "anything", 0); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if rt.requests[0].URL.Query().Has("limit") {
			t.Error("expected no limit parameter for zero limit")
		}
	})

	t.Run("Expired Token", func(t *testing.T) {
		rt := &recordingTransport{status: http.StatusUnauthorized, body: `{}`}
		srv := authedService(t, rt)

		_, err := srv.Search(context.Background(), "anything", 1)
		if !errors.Is(err, shared.ErrTokenExpired) {
			t.Errorf("expected ErrTokenExpired, got %v", err)
		}
	})

	t.Run("Server Error", func(t *testing.T) {
		rt := &recordingTransport{status: http.StatusInternalServerError, body: `{}`}
		srv := authedService(t, rt)

		_, err := srv.Search(context.Background(), "anything", 1)
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("Transport Failure", func(t *testing.T) {
		rt := tu.NewMockRoundTripper(nil, errors.New("network down"))
		srv := authedService(t, rt)

		_, err := srv.Search(context.Background(), "anything", 1)
		if err == nil {
			t.Fatal("expected transport error")
		}
		if !strings.Contains(err.Error(), "network down") {
			t.Errorf("expected underlying cause in chain, got %v", err)
		}
	})

	t.Run("Unreadable Response Body", func(t *testing.T) {
		resp := &http.Response{
			StatusCode: http.StatusOK,
			Body:       &tu.FCloser{},
			Header:     make(http.Header),
		}
		srv := authedService(t, tu.NewMockRoundTripper(resp, nil))

		_, err := srv.Search(context.Background(), "anything", 1)
		if err == nil {
			t.Fatal("expected decode error")
		}
		if !strings.Contains(err.Error(), "failed to decode response") {
			t.Errorf("expected decode error, got %v", err)
		}
	})
}

func TestCreatePlaylist(t *testing.T) {
	rt := &recordingTransport{body: `{"id": "pl1", "name": "Road Trip", "public": false}`}
	srv := authedService(t, rt)

	playlist, err := srv.CreatePlaylist(context.Background(), "user1", "Road Trip", false)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if playlist.ID != "pl1" || playlist.Name != "Road Trip" || playlist.Public {
		t.Errorf("unexpected playlist %+v", playlist)
	}

	req := rt.requests[0]
	if req.Method != http.MethodPost || req.URL.Path != "/v1/users/user1/playlists" {
		t.Errorf("unexpected request %s %s", req.Method, req.URL.Path)
	}
	for _, want := range []string{`"name":"Road Trip"`, `"public":false`} {
		if !strings.Contains(rt.bodies[0], want) {
			t.Errorf("request body missing %s: %s", want, rt.bodies[0])
		}
	}
}

func TestAddToPlaylist(t *testing.T) {
	t.Run("Sends Track URIs", func(t *testing.T) {
		rt := &recordingTransport{status: http.StatusCreated, body: `{}`}
		srv := authedService(t, rt)

		err := srv.AddToPlaylist(context.Background(), "pl1", []string{"track1", "track2"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		req := rt.requests[0]
		if req.Method != http.MethodPost || req.URL.Path != "/v1/playlists/pl1/tracks" {
			t.Errorf("unexpected request %s %s", req.Method, req.URL.Path)
		}
		if !strings.Contains(rt.bodies[0], `"spotify:track:track1"`) {
			t.Errorf("request body missing track URI: %s", rt.bodies[0])
		}
	})

	t.Run("Rejects Oversized Batch Without A Request", func(t *testing.T) {
		rt := &recordingTransport{body: `{}`}
		srv := authedService(t, rt)

		trackIDs := make([]string, PlaylistAddLimit+1)
		err := srv.AddToPlaylist(context.Background(), "pl1", trackIDs)
		if !errors.Is(err, shared.ErrBatchTooLarge) {
			t.Errorf("expected ErrBatchTooLarge, got %v", err)
		}
		if len(rt.requests) != 0 {
			t.Errorf("expected no request, got %d", len(rt.requests))
		}
	})

	t.Run("Rejects Empty Batch", func(t *testing.T) {
		rt := &recordingTransport{body: `{}`}
		srv := authedService(t, rt)

		err := srv.AddToPlaylist(context.Background(), "pl1", nil)
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestAddToLibrary(t *testing.T) {
	t.Run("Sends Track IDs", func(t *testing.T) {
		rt := &recordingTransport{body: `{}`}
		srv := authedService(t, rt)

		err := srv.AddToLibrary(context.Background(), []string{"track1", "track2"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		req := rt.requests[0]
		if req.Method != http.MethodPut || req.URL.Path != "/v1/me/tracks" {
			t.Errorf("unexpected request %s %s", req.Method, req.URL.Path)
		}
		if !strings.Contains(rt.bodies[0], `"ids":["track1","track2"]`) {
			t.Errorf("request body missing IDs: %s", rt.bodies[0])
		}
	})

	t.Run("Rejects Oversized Batch Without A Request", func(t *testing.T) {
		rt := &recordingTransport{body: `{}`}
		srv := authedService(t, rt)

		trackIDs := make([]string, LibraryAddLimit+1)
		err := srv.AddToLibrary(context.Background(), trackIDs)
		if !errors.Is(err, shared.ErrBatchTooLarge) {
			t.Errorf("expected ErrBatchTooLarge, got %v", err)
		}
		if len(rt.requests) != 0 {
			t.Errorf("expected no request, got %d", len(rt.requests))
		}
	})
}
