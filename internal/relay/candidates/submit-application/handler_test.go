package submitapplication

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"application-relay/internal/common/config"
	"application-relay/internal/common/greenhouse"
	relayhttp "application-relay/internal/common/http"
	"application-relay/internal/common/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adaSubmission = `{
	"job_id": 4285367007,
	"candidate_information": {
		"first_name": "Ada",
		"last_name": "Lovelace",
		"email": "ada@example.com",
		"phone_numbers": ["555-0100"]
	}
}`

type recordedCall struct {
	Method string
	Path   string
	Body   map[string]interface{}
}

// fakeHarvest answers candidate and application calls with canned responses.
type fakeHarvest struct {
	mu    sync.Mutex
	calls []recordedCall

	candidateStatus int
	candidateBody   string
	appStatus       int
	appBody         string
}

func (f *fakeHarvest) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var body map[string]interface{}
	_ = json.Unmarshal(raw, &body)

	f.mu.Lock()
	f.calls = append(f.calls, recordedCall{Method: r.Method, Path: r.URL.Path, Body: body})
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if strings.HasSuffix(r.URL.Path, "/applications") {
		w.WriteHeader(f.appStatus)
		_, _ = w.Write([]byte(f.appBody))
		return
	}
	w.WriteHeader(f.candidateStatus)
	_, _ = w.Write([]byte(f.candidateBody))
}

func (f *fakeHarvest) callsTo(suffix string) []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recordedCall
	for _, c := range f.calls {
		if strings.HasSuffix(c.Path, suffix) {
			out = append(out, c)
		}
	}
	return out
}

func newRouter(t *testing.T, fake *fakeHarvest) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	appConfig := &config.Config{
		Greenhouse: config.GreenhouseConfig{
			BaseURL:    srv.URL + "/v1",
			APIKey:     "test-key",
			OnBehalfOf: "4080",
			Timeout:    2000,
		},
		Relay: config.RelayConfig{DefaultMode: "two_step"},
	}

	client := greenhouse.NewClient(greenhouse.Options{
		BaseURL:     appConfig.Greenhouse.BaseURL,
		Credentials: relayhttp.Credentials{APIKey: "test-key", OnBehalfOf: "4080"},
		Timeout:     2 * time.Second,
	})

	handler, err := NewHandler(HandlerOptions{
		AppConfig: appConfig,
		Client:    client,
		Logger:    logger.NewTestLogger(t),
	})
	require.NoError(t, err)

	router := gin.New()
	handler.Register(router)
	return router
}

func post(router http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_NewHandler(t *testing.T) {
	tests := []struct {
		name    string
		opts    HandlerOptions
		wantErr string
	}{
		{
			name: "defaults",
			opts: HandlerOptions{},
		},
		{
			name:    "zero timeout",
			opts:    HandlerOptions{CustomConfig: &Config{Enabled: true, DefaultMode: ModeTwoStep}},
			wantErr: "timeout must be positive",
		},
		{
			name:    "unknown default mode",
			opts:    HandlerOptions{CustomConfig: &Config{Enabled: true, Timeout: time.Second, DefaultMode: "batch"}},
			wantErr: "default_mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Logger = logger.NewNoOpLogger()
			h, err := NewHandler(tt.opts)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, ModeTwoStep, h.GetConfig().DefaultMode)
		})
	}
}

func TestHandler_SubmitApplicationSuccess(t *testing.T) {
	fake := &fakeHarvest{
		candidateStatus: http.StatusCreated,
		candidateBody:   `{"id":123,"profile_url":"https://app.greenhouse.io/people/123"}`,
		appStatus:       http.StatusCreated,
		appBody:         `{"id":456}`,
	}
	router := newRouter(t, fake)

	w := post(router, RouteSubmitApplication, adaSubmission)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"id":123,"application_id":456,"profile_url":"https://app.greenhouse.io/people/123"}`, w.Body.String())

	candidateCalls := fake.callsTo("/v1/candidates")
	require.Len(t, candidateCalls, 1)
	_, hasAttachments := candidateCalls[0].Body["attachments"]
	assert.False(t, hasAttachments)

	appCalls := fake.callsTo("/v1/candidates/123/applications")
	require.Len(t, appCalls, 1)
	assert.Equal(t, float64(4285367007), appCalls[0].Body["job_id"])
}

func TestHandler_CandidateCreationFailure(t *testing.T) {
	fake := &fakeHarvest{
		candidateStatus: http.StatusUnprocessableEntity,
		candidateBody:   `{"errors":["email taken"]}`,
	}
	router := newRouter(t, fake)

	w := post(router, RouteSubmitApplication, adaSubmission)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"error":"candidate creation failed","status":422,"details":{"errors":["email taken"]}}`, w.Body.String())
	assert.Empty(t, fake.callsTo("/applications"))
}

func TestHandler_ApplicationSubmissionFailure(t *testing.T) {
	fake := &fakeHarvest{
		candidateStatus: http.StatusCreated,
		candidateBody:   `{"id":123,"profile_url":"https://app.greenhouse.io/people/123"}`,
		appStatus:       http.StatusForbidden,
		appBody:         `{"message":"forbidden"}`,
	}
	router := newRouter(t, fake)

	w := post(router, RouteSubmitApplication, adaSubmission)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var outcome map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &outcome))
	assert.Equal(t, "application submission failed", outcome["error"])
	assert.Equal(t, float64(403), outcome["status"])
	assert.NotContains(t, w.Body.String(), "orphanedCandidateId")
}

func TestHandler_MalformedJSON(t *testing.T) {
	for _, route := range []string{RouteSubmitApplication, RouteSubmitCandidate} {
		t.Run(route, func(t *testing.T) {
			fake := &fakeHarvest{}
			router := newRouter(t, fake)

			w := post(router, route, `{"job_id": 1, "candidate_information": `)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"error":"invalid request"`)
			assert.Empty(t, fake.calls)
		})
	}
}

func TestHandler_SchemaViolation(t *testing.T) {
	fake := &fakeHarvest{}
	router := newRouter(t, fake)

	w := post(router, RouteSubmitApplication, `{"job_id": 1, "candidate_information": {"first_name": "Ada"}}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var outcome struct {
		Error   string   `json:"error"`
		Status  int      `json:"status"`
		Details []string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &outcome))
	assert.Equal(t, "invalid request", outcome.Error)
	assert.Equal(t, 400, outcome.Status)
	assert.NotEmpty(t, outcome.Details)
	assert.Empty(t, fake.calls)
}

func TestHandler_SubmitCandidateIsSingleMode(t *testing.T) {
	fake := &fakeHarvest{
		candidateStatus: http.StatusCreated,
		candidateBody:   `{"id":123,"profile_url":"https://app.greenhouse.io/people/123","applications":[{"id":456}]}`,
	}
	router := newRouter(t, fake)

	// An explicit two_step mode is overridden on this route.
	body := strings.Replace(adaSubmission, `"job_id"`, `"mode": "two_step", "source_id": 7, "job_id"`, 1)
	w := post(router, RouteSubmitCandidate, body)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"id":123,"application_id":456,"profile_url":"https://app.greenhouse.io/people/123"}`, w.Body.String())
	assert.Empty(t, fake.callsTo("/applications"))

	calls := fake.callsTo("/v1/candidates")
	require.Len(t, calls, 1)
	apps := calls[0].Body["applications"].([]interface{})
	assert.Equal(t, float64(7), apps[0].(map[string]interface{})["source_id"])
}

func TestHandler_ResponseNeverEchoesCredentials(t *testing.T) {
	fake := &fakeHarvest{
		candidateStatus: http.StatusUnauthorized,
		candidateBody:   `{"message":"Invalid Basic Auth credentials: dGVzdC1rZXk6"}`,
	}
	router := newRouter(t, fake)

	w := post(router, RouteSubmitApplication, adaSubmission)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotContains(t, w.Body.String(), "dGVzdC1rZXk6")
	assert.NotContains(t, w.Body.String(), "test-key")
}
