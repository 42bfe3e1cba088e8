package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bagdasarian/iam-groups/internal/audit"
	"github.com/bagdasarian/iam-groups/internal/domain"
	"github.com/bagdasarian/iam-groups/internal/handler"
	"github.com/bagdasarian/iam-groups/internal/repository/memory"
	"github.com/bagdasarian/iam-groups/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)

	userRepo := memory.NewUserRepository(
		&domain.User{ID: "u1", Domain: "acme", Username: "alice"},
		&domain.User{ID: "u2", Domain: "acme", Username: "bob"},
	)
	roleRepo := memory.NewRoleRepository(&domain.Role{ID: "r1", Domain: "acme", Name: "reader"})
	domainRepo := memory.NewDomainRepository(
		&domain.SecurityDomain{ID: "acme", Name: "Acme", Enabled: true},
		&domain.SecurityDomain{ID: "globex", Name: "Globex", Enabled: true},
	)
	auditRepo := memory.NewAuditRepository()

	recorder := audit.NewRecorder(logger, time.Second, audit.NewRepositorySink(auditRepo))
	groupService := service.NewGroupService(memory.NewGroupRepository(), userRepo, roleRepo, recorder, logger)
	editor := service.NewMembershipEditor(domainRepo, userRepo, groupService, logger)

	h := handler.NewHandler(groupService, editor, service.NewAuditService(auditRepo, logger), logger)
	srv := httptest.NewServer(NewRouter(h, logger))
	t.Cleanup(srv.Close)
	return srv
}

func doRequest(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(handler.HeaderActorID, "admin")
	req.Header.Set(handler.HeaderActorName, "Admin")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var value T
	require.NoError(t, json.Unmarshal(data, &value))
	return value
}

func TestGroupRoutes(t *testing.T) {
	srv := setupTestServer(t)
	groupsURL := srv.URL + "/domains/acme/groups"

	resp, body := doRequest(t, http.MethodPost, groupsURL, handler.NewGroupRequest{Name: "eng", Members: []string{"u1", "ghost"}})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	created := decode[handler.GroupResponse](t, body)
	assert.Equal(t, []string{"u1"}, created.Members)
	assert.Equal(t, 1, created.Version)
	groupURL := groupsURL + "/" + created.ID

	t.Run("дубликат имени - 409", func(t *testing.T) {
		resp, body := doRequest(t, http.MethodPost, groupsURL, handler.NewGroupRequest{Name: "eng"})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, domain.CodeGroupAlreadyExists, decode[handler.ErrorResponse](t, body).Error.Code)
	})

	t.Run("пустое имя - 400", func(t *testing.T) {
		resp, _ := doRequest(t, http.MethodPost, groupsURL, handler.NewGroupRequest{})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("некорректный JSON - 400", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, groupsURL, bytes.NewBufferString("{"))
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("список групп домена", func(t *testing.T) {
		resp, body := doRequest(t, http.MethodGet, groupsURL+"?page=0&size=10", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		page := decode[handler.GroupPageResponse](t, body)
		assert.Equal(t, 1, page.TotalCount)
		require.Len(t, page.Data, 1)
		assert.Equal(t, "eng", page.Data[0].Name)
	})

	t.Run("некорректный размер страницы - 400", func(t *testing.T) {
		resp, _ := doRequest(t, http.MethodGet, groupsURL+"?size=abc", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("группа из чужого домена не видна", func(t *testing.T) {
		resp, body := doRequest(t, http.MethodGet, srv.URL+"/domains/globex/groups/"+created.ID, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, domain.CodeGroupNotFound, decode[handler.ErrorResponse](t, body).Error.Code)
	})

	t.Run("добавление и удаление участника", func(t *testing.T) {
		resp, body := doRequest(t, http.MethodPost, groupURL+"/members/u2", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		assert.Equal(t, []string{"u1", "u2"}, decode[handler.GroupResponse](t, body).Members)

		resp, body = doRequest(t, http.MethodPost, groupURL+"/members/u2", nil)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, domain.CodeMemberAlreadyExists, decode[handler.ErrorResponse](t, body).Error.Code)

		resp, body = doRequest(t, http.MethodPost, groupURL+"/members/u9", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, domain.CodeUserNotFound, decode[handler.ErrorResponse](t, body).Error.Code)

		resp, body = doRequest(t, http.MethodPost, srv.URL+"/domains/initech/groups/"+created.ID+"/members/u2", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, domain.CodeDomainNotFound, decode[handler.ErrorResponse](t, body).Error.Code)

		resp, body = doRequest(t, http.MethodDelete, groupURL+"/members/u1", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		assert.Equal(t, []string{"u2"}, decode[handler.GroupResponse](t, body).Members)

		resp, body = doRequest(t, http.MethodDelete, groupURL+"/members/u1", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, domain.CodeMemberNotFound, decode[handler.ErrorResponse](t, body).Error.Code)
	})

	t.Run("список участников", func(t *testing.T) {
		resp, body := doRequest(t, http.MethodGet, groupURL+"/members?page=0&size=5", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		page := decode[handler.MemberPageResponse](t, body)
		assert.Equal(t, 1, page.TotalCount)
		require.Len(t, page.Data, 1)
		assert.Equal(t, "bob", page.Data[0].Username)
	})

	t.Run("назначение и отзыв ролей", func(t *testing.T) {
		resp, body := doRequest(t, http.MethodPut, groupURL+"/roles", handler.RolesRequest{Roles: []string{"r1", "r9"}})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, domain.CodeRoleNotFound, decode[handler.ErrorResponse](t, body).Error.Code)

		resp, body = doRequest(t, http.MethodPut, groupURL+"/roles", handler.RolesRequest{Roles: []string{"r1"}})
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		assert.Equal(t, []string{"r1"}, decode[handler.GroupResponse](t, body).Roles)

		resp, body = doRequest(t, http.MethodDelete, groupURL+"/roles", handler.RolesRequest{Roles: []string{"r1"}})
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		assert.Empty(t, decode[handler.GroupResponse](t, body).Roles)
	})

	t.Run("обновление с устаревшей версией - 409", func(t *testing.T) {
		stale := 1
		resp, body := doRequest(t, http.MethodPut, groupURL, handler.UpdateGroupRequest{Name: "eng", Version: &stale})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, domain.CodeConcurrentModification, decode[handler.ErrorResponse](t, body).Error.Code)
	})

	t.Run("переименование", func(t *testing.T) {
		resp, body := doRequest(t, http.MethodPut, groupURL, handler.UpdateGroupRequest{Name: "platform", Members: []string{"u2"}})
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		assert.Equal(t, "platform", decode[handler.GroupResponse](t, body).Name)
	})

	t.Run("журнал аудита группы", func(t *testing.T) {
		resp, body := doRequest(t, http.MethodGet, groupURL+"/audits?limit=100", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		events := decode[handler.AuditEventsResponse](t, body).Events
		require.NotEmpty(t, events)
		assert.Equal(t, string(domain.EventGroupUpdated), events[0].Type)
		assert.Equal(t, "admin", events[0].ActorID)
		assert.Equal(t, string(domain.EventGroupCreated), events[len(events)-1].Type)
	})

	t.Run("удаление группы", func(t *testing.T) {
		resp, _ := doRequest(t, http.MethodDelete, groupURL, nil)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp, _ = doRequest(t, http.MethodGet, groupURL, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestServer_Run(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	h := handler.NewHandler(nil, nil, nil, logger)
	srv := NewServer(h, "127.0.0.1:0", logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx, time.Second)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
