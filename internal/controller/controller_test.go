package controller_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"cortex-analyst-be/internal/controller"
	"cortex-analyst-be/internal/dto"
	"cortex-analyst-be/internal/model"
	"cortex-analyst-be/internal/pkg/logger"
	"cortex-analyst-be/internal/pkg/serverutils"
	"cortex-analyst-be/internal/repository/memory"
	"cortex-analyst-be/internal/repository/unitofwork"
	"cortex-analyst-be/internal/service"
	"cortex-analyst-be/internal/testutil"
	"cortex-analyst-be/pkg/analyst"
	"cortex-analyst-be/pkg/feedback"
	"cortex-analyst-be/pkg/orchestrator"
	"cortex-analyst-be/pkg/registry"
	"cortex-analyst-be/pkg/usagelog"
	"cortex-analyst-be/pkg/warehouse"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const salesAnswer = `{
	"request_id": "r-42",
	"message": {
		"role": "analyst",
		"content": [
			{"type": "text", "text": "This is our interpretation of your question: revenue by region"},
			{"type": "sql", "statement": "SELECT region, amount FROM sales ORDER BY region"}
		]
	}
}`

type testEnv struct {
	app    *fiber.App
	db     *gorm.DB
	appID  int
	status atomic.Int32
	calls  atomic.Int32
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{}
	env.status.Store(http.StatusOK)

	env.db = testutil.NewTestDB(t)
	require.NoError(t, env.db.Exec("CREATE TABLE sales (region TEXT, amount INTEGER)").Error)
	require.NoError(t, env.db.Exec("INSERT INTO sales VALUES ('north', 120), ('south', 80)").Error)
	env.appID = testutil.SeedApp(t, env.db, "sales", "revenue.yaml").Id

	analystSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.calls.Add(1)
		status := int(env.status.Load())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"message":"warehouse suspended"}`))
			return
		}
		_, _ = w.Write([]byte(salesAnswer))
	}))
	t.Cleanup(analystSrv.Close)

	nop := logger.NewNopLogger()
	factory := unitofwork.NewRepositoryFactory(env.db)
	reg := registry.NewRegistry(factory, time.Minute)
	store := feedback.NewStore(factory, nop, feedback.Options{CacheTTL: time.Minute})
	runner := warehouse.NewRunner(env.db, 100, nop)

	orch := orchestrator.New(orchestrator.Dependencies{
		Registry: reg,
		Sessions: memory.NewSessionRepository(time.Hour),
		Analyst:  analyst.NewClient(analyst.Config{BaseURL: analystSrv.URL, Timeout: time.Second}, nop),
		Runner:   runner,
		Usage:    usagelog.NewRecorder(factory, nop),
		Feedback: store,
		Logger:   nop,
	}, orchestrator.Config{KeyQuestionLimit: 6, PopularQuestionLimit: 4})

	env.app = fiber.New()
	env.app.Use(serverutils.ErrorHandlerMiddleware(nop))
	api := env.app.Group("/api", serverutils.IdentityMiddleware(serverutils.IdentityConfig{Header: "X-Remote-User"}))
	controller.NewAnalystController(service.NewAnalystService(reg, orch, runner)).RegisterRoutes(api)
	controller.NewFeedbackController(service.NewFeedbackService(reg, store, 6, 4)).RegisterRoutes(api)
	return env
}

func (env *testEnv) do(t *testing.T, method, path, user, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set("X-Remote-User", user)
	}
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func (env *testEnv) run(t *testing.T, user, body string) (*http.Response, serverutils.Response[orchestrator.View]) {
	t.Helper()
	resp, raw := env.do(t, http.MethodPost, fmt.Sprintf("/api/apps/%d/run", env.appID), user, body)
	var out serverutils.Response[orchestrator.View]
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp, out
}

func TestListApps(t *testing.T) {
	env := newTestEnv(t)

	resp, raw := env.do(t, http.MethodGet, "/api/apps", "alice", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out serverutils.Response[[]dto.AppResponse]
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Len(t, out.Data, 1)
	assert.Equal(t, "sales", out.Data[0].Name)
	assert.Equal(t, env.appID, out.Data[0].Id)
}

func TestRun_AskRendersAnswerWithPreview(t *testing.T) {
	env := newTestEnv(t)

	resp, out := env.run(t, "alice", `{"action":"ask","prompt":"Revenue by region?"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, out.Success)

	view := out.Data
	assert.Equal(t, orchestrator.TurnRendered, view.Turn)
	require.Len(t, view.Messages, 2)
	assert.Equal(t, "Revenue by region?", view.Messages[0].Blocks[0].Text)

	answer := view.Messages[1]
	require.Len(t, answer.Blocks, 2)
	sql := answer.Blocks[1]
	assert.Equal(t, []string{"region", "amount"}, sql.Columns)
	require.Len(t, sql.Rows, 2)
	assert.Equal(t, "north", sql.Rows[0][0])
	assert.Equal(t, []string{"amount"}, sql.NumericColumns)
	assert.NotEmpty(t, sql.DownloadKey)
	require.NotNil(t, answer.Feedback)
	assert.Equal(t, "Revenue by region?", answer.Question)
	assert.EqualValues(t, 1, env.calls.Load())

	var logs []model.UsageLog
	require.NoError(t, env.db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "alice", logs[0].Username)
}

func TestRun_AnalystFailureIsANotice(t *testing.T) {
	env := newTestEnv(t)
	env.status.Store(http.StatusServiceUnavailable)

	resp, out := env.run(t, "alice", `{"action":"ask","prompt":"Revenue by region?"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	view := out.Data
	assert.Equal(t, orchestrator.TurnFailed, view.Turn)
	require.Len(t, view.Notices, 1)
	assert.Equal(t, orchestrator.KindAnalyst, view.Notices[0].Kind)
	assert.Equal(t, http.StatusServiceUnavailable, view.Notices[0].Status)
	assert.Contains(t, view.Notices[0].Message, "warehouse suspended")
	// the prompt stays in the conversation
	require.Len(t, view.Messages, 1)
}

func TestRun_ErrorStatuses(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name   string
		path   string
		user   string
		body   string
		status int
	}{
		{"missing identity", fmt.Sprintf("/api/apps/%d/run", env.appID), "", `{"action":"render"}`, http.StatusUnauthorized},
		{"unknown action", fmt.Sprintf("/api/apps/%d/run", env.appID), "alice", `{"action":"dance"}`, http.StatusBadRequest},
		{"invalid vote", fmt.Sprintf("/api/apps/%d/run", env.appID), "alice", `{"action":"vote","value":3}`, http.StatusBadRequest},
		{"malformed body", fmt.Sprintf("/api/apps/%d/run", env.appID), "alice", `{"action":`, http.StatusBadRequest},
		{"unknown app", "/api/apps/999/run", "alice", `{"action":"render"}`, http.StatusNotFound},
		{"non numeric app", "/api/apps/sales/run", "alice", `{"action":"render"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, raw := env.do(t, http.MethodPost, tt.path, tt.user, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode, string(raw))

			var out serverutils.Response[any]
			require.NoError(t, json.Unmarshal(raw, &out))
			assert.False(t, out.Success)
			assert.Equal(t, tt.status, out.Code)
		})
	}
	assert.Zero(t, env.calls.Load())
}

func TestDownloadCSV(t *testing.T) {
	env := newTestEnv(t)
	env.run(t, "alice", `{"action":"ask","prompt":"Revenue by region?"}`)

	resp, raw := env.do(t, http.MethodGet, fmt.Sprintf("/api/apps/%d/messages/1/blocks/1/csv", env.appID), "alice", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), warehouse.DownloadFileName)
	assert.Equal(t, "region,amount\nnorth,120\nsouth,80\n", string(raw))
}

func TestDownloadCSV_NotAnSQLBlock(t *testing.T) {
	env := newTestEnv(t)
	env.run(t, "alice", `{"action":"ask","prompt":"Revenue by region?"}`)

	resp, _ := env.do(t, http.MethodGet, fmt.Sprintf("/api/apps/%d/messages/1/blocks/0/csv", env.appID), "alice", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// another user has no such conversation
	resp, _ = env.do(t, http.MethodGet, fmt.Sprintf("/api/apps/%d/messages/1/blocks/1/csv", env.appID), "bob", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFeedbackEndpoints(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.db.Create(&model.Bookmark{AppId: env.appID, Username: "ALL", Question: "Top customers?", Lang: "FR"}).Error)

	env.run(t, "alice", `{"action":"ask","prompt":"Revenue by region?"}`)
	_, out := env.run(t, "alice", `{"action":"add_bookmark","message_index":1}`)
	require.Len(t, out.Data.Bookmarks, 1)

	resp, raw := env.do(t, http.MethodGet, fmt.Sprintf("/api/apps/%d/bookmarks", env.appID), "alice", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var bookmarks serverutils.Response[[]dto.BookmarkResponse]
	require.NoError(t, json.Unmarshal(raw, &bookmarks))
	require.Len(t, bookmarks.Data, 1)
	assert.Equal(t, "Revenue by region?", bookmarks.Data[0].Question)

	resp, raw = env.do(t, http.MethodGet, fmt.Sprintf("/api/apps/%d/key-questions", env.appID), "alice", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var keys serverutils.Response[dto.QuestionsResponse]
	require.NoError(t, json.Unmarshal(raw, &keys))
	assert.Equal(t, []string{"Top customers?"}, keys.Data.Questions)

	resp, raw = env.do(t, http.MethodGet, fmt.Sprintf("/api/apps/%d/popular-questions", env.appID), "bob", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var popular serverutils.Response[dto.QuestionsResponse]
	require.NoError(t, json.Unmarshal(raw, &popular))
	assert.Equal(t, []string{"Revenue by region?"}, popular.Data.Questions)

	resp, _ = env.do(t, http.MethodGet, fmt.Sprintf("/api/apps/%d/bookmarks", env.appID), "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
