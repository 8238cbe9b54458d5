package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textbuddy/internal/backend"
	"textbuddy/internal/crypto"
	"textbuddy/internal/deeplink"
	"textbuddy/internal/domain"
	xlog "textbuddy/internal/log"
	"textbuddy/internal/server"
	"textbuddy/internal/services/subscription"
	"textbuddy/internal/store"
)

const (
	apiKey = "server-key"
	short  = "+15550001111"
)

func newServer(t *testing.T, cfg server.Config) (*server.Server, *httptest.Server) {
	t.Helper()
	if cfg.APIKey == "" {
		cfg.APIKey = apiKey
	}
	if cfg.PhoneNumber == "" {
		cfg.PhoneNumber = short
	}
	s, err := server.New(cfg, xlog.Nop())
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func post(t *testing.T, url string, v any) (*http.Response, []byte) {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func intent(a domain.Action, g domain.GameID) string {
	return domain.SignUpIntent{Action: a, GameID: g}.String()
}

func TestNew_RequiresKey(t *testing.T) {
	_, err := server.New(server.Config{}, xlog.Nop())
	assert.ErrorIs(t, err, server.ErrMissingAPIKey)
}

func TestConnect_SignedReply(t *testing.T) {
	_, ts := newServer(t, server.Config{})

	resp, body := post(t, ts.URL+server.PathConnect, domain.ConnectRequest{GameID: "g1", UserID: "nobody"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var q domain.Query
	require.NoError(t, json.Unmarshal(body, &q))
	assert.True(t, crypto.Validate(q, apiKey, crypto.DefaultSignatureKey))
	assert.False(t, crypto.Validate(q, "other", crypto.DefaultSignatureKey))
	assert.Equal(t, short, q[backend.FieldPhoneNumber])
	assert.Equal(t, "unsubscribed", q[backend.FieldUserIDStatus])
}

func TestConnect_BadRequests(t *testing.T) {
	_, ts := newServer(t, server.Config{})

	resp, err := http.Post(ts.URL+server.PathConnect, "application/json", bytes.NewBufferString("{"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = post(t, ts.URL+server.PathConnect, domain.ConnectRequest{UserID: "u1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(ts.URL + server.PathConnect)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestSMS_SubscribeThenConnect(t *testing.T) {
	_, ts := newServer(t, server.Config{})

	resp, body := post(t, ts.URL+server.PathSMS, server.SMSRequest{From: "+1999", Body: intent(domain.ActionSubscribe, "g1")})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out server.SMSResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotEmpty(t, out.UserID)

	link := deeplink.Parse(out.Link)
	require.True(t, link.Valid())
	scheme, _ := link.Scheme()
	assert.Equal(t, "textbuddy", scheme)
	q, ok := link.Query()
	require.True(t, ok)
	assert.Equal(t, out.UserID.String(), q["id"])
	assert.Equal(t, "success", q["status"])
	assert.True(t, crypto.Validate(q, apiKey, crypto.DefaultSignatureKey))

	_, body = post(t, ts.URL+server.PathConnect, domain.ConnectRequest{GameID: "g1", UserID: out.UserID})
	var reply domain.Query
	require.NoError(t, json.Unmarshal(body, &reply))
	assert.Equal(t, "subscribed", reply[backend.FieldUserIDStatus])

	// Subscriptions are per game.
	_, body = post(t, ts.URL+server.PathConnect, domain.ConnectRequest{GameID: "g2", UserID: out.UserID})
	require.NoError(t, json.Unmarshal(body, &reply))
	assert.Equal(t, "unsubscribed", reply[backend.FieldUserIDStatus])
}

func TestSMS_Unsubscribe(t *testing.T) {
	s, ts := newServer(t, server.Config{})

	resp, _ := post(t, ts.URL+server.PathSMS, server.SMSRequest{From: "+1999", Body: intent(domain.ActionUnsubscribe, "g1")})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	id := s.Subscribers().Subscribe("g1", "+1999")
	resp, body := post(t, ts.URL+server.PathSMS, server.SMSRequest{From: "+1999", Body: intent(domain.ActionUnsubscribe, "g1")})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out server.SMSResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, id, out.UserID)
	assert.Empty(t, out.Link)
	assert.False(t, s.Subscribers().Active("g1", id))
}

func TestSMS_InvalidIntent(t *testing.T) {
	_, ts := newServer(t, server.Config{})
	resp, _ := post(t, ts.URL+server.PathSMS, server.SMSRequest{From: "+1999", Body: "hello"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRateLimit(t *testing.T) {
	_, ts := newServer(t, server.Config{RateLimit: 2})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, _ := post(t, ts.URL+server.PathConnect, domain.ConnectRequest{GameID: "g1"})
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{200, 200, http.StatusTooManyRequests}, codes)
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := newServer(t, server.Config{})
	post(t, ts.URL+server.PathConnect, domain.ConnectRequest{GameID: "g1"})

	resp, err := http.Get(ts.URL + server.PathMetrics)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `textbuddy_signed_payloads_total{kind="connect"} 1`)
	assert.Contains(t, string(body), "textbuddy_http_request_duration_seconds")
}

func TestMetricsEndpoint_UnmatchedPathsShareOneLabel(t *testing.T) {
	_, ts := newServer(t, server.Config{})
	for _, p := range []string{"/nope", "/nope/1", "/favicon.ico"} {
		resp, err := http.Get(ts.URL + p)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	}

	resp, err := http.Get(ts.URL + server.PathMetrics)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `textbuddy_http_request_duration_seconds_count{method="GET",path="unmatched",status="404"} 3`)
	assert.NotContains(t, string(body), `path="/nope"`)
	assert.NotContains(t, string(body), `path="/favicon.ico"`)
}

// gateway forwards SDK messages to the backend's /sms endpoint and delivers
// the confirmation link back to the app, as a phone would.
type gateway struct {
	url   string
	from  string
	links *deeplink.Relay
}

func (g *gateway) SendSMS(ctx context.Context, _ string, body string) error {
	b, err := json.Marshal(server.SMSRequest{From: g.from, Body: body})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url+server.PathSMS, bytes.NewReader(b))
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gateway: HTTP %d", resp.StatusCode)
	}
	var out server.SMSResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return err
	}
	if out.Link != "" {
		g.links.Deliver(out.Link)
	}
	return nil
}

func TestEndToEnd(t *testing.T) {
	s, ts := newServer(t, server.Config{})
	links := deeplink.NewRelay()
	kv := store.NewMemory()

	newSvc := func() *subscription.Service {
		svc, err := subscription.New(subscription.Config{GameID: "g1", APIKey: apiKey, BaseURL: ts.URL}, subscription.Deps{
			Connect: backend.NewClient(backend.NewHTTPTransport(nil), xlog.Nop()),
			Store:   kv,
			SMS:     &gateway{url: ts.URL, from: "+1999", links: links},
			Links:   links,
		})
		require.NoError(t, err)
		t.Cleanup(svc.Close)
		svc.Initialize(context.Background())
		svc.Wait()
		require.True(t, svc.IsInitialized())
		return svc
	}

	svc := newSvc()
	assert.Equal(t, domain.PhoneNumber(short), svc.PhoneNumber())
	svc.Subscribe(context.Background())
	require.True(t, svc.IsSubscribed())
	id := svc.UserID()
	assert.True(t, s.Subscribers().Active("g1", id))
	svc.Close()

	// A restarted app finds the cached user still subscribed.
	again := newSvc()
	assert.True(t, again.IsSubscribed())
	assert.Equal(t, id, again.UserID())

	again.Unsubscribe(context.Background())
	assert.False(t, s.Subscribers().Active("g1", id))
	v, err := kv.GetString(store.UserIDKey, "x")
	require.NoError(t, err)
	assert.Empty(t, v)
}
