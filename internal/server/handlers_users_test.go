package server

import (
	"net/http"
	"testing"

	"github.com/jonathan/resume-builder/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMe(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.register("jane@example.com")

	w := env.do(http.MethodGet, "/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	user := decode[types.User](t, w)
	assert.Equal(t, userID, user.ID)
	assert.NotContains(t, w.Body.String(), "password_hash")

	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/me", "", nil).Code)
}

func TestUpdateMe(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.register("jane@example.com")
	env.register("bob@example.com")

	w := env.do(http.MethodPut, "/me", token, map[string]string{"name": "Jane Smith", "email": "jane.smith@example.com"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Jane Smith", decode[types.User](t, w).Name)

	w = env.do(http.MethodPut, "/me", token, map[string]string{"name": "Jane", "email": "bob@example.com"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(http.MethodPut, "/me", token, map[string]string{"name": "J", "email": "jane@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.register("jane@example.com")

	w := env.do(http.MethodGet, "/dashboard", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	dash := decode[DashboardResponse](t, w)
	assert.Equal(t, 0, dash.ResumeCount)
	assert.Equal(t, types.FreeResumeQuota, dash.Quota)
	assert.True(t, dash.CanCreate)
	assert.Empty(t, dash.Recent)

	env.saveResume(token)
	dash = decode[DashboardResponse](t, env.do(http.MethodGet, "/dashboard", token, nil))
	assert.Equal(t, 1, dash.ResumeCount)
	assert.False(t, dash.CanCreate)
	assert.Len(t, dash.Recent, 1)

	env.db.setTier(userID, types.TierPremium)
	for range 3 {
		env.saveResume(token)
	}
	dash = decode[DashboardResponse](t, env.do(http.MethodGet, "/dashboard", token, nil))
	assert.Equal(t, 4, dash.ResumeCount)
	assert.Equal(t, -1, dash.Quota)
	assert.True(t, dash.CanCreate)
	assert.Len(t, dash.Recent, recentResumeCount)
}

func TestListTemplates(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.register("jane@example.com")

	type listing struct {
		Templates []TemplateInfo `json:"templates"`
	}
	locked := func() map[string]bool {
		out := map[string]bool{}
		for _, ti := range decode[listing](t, env.do(http.MethodGet, "/templates", token, nil)).Templates {
			out[ti.ID] = ti.Locked
		}
		return out
	}

	assert.Equal(t, map[string]bool{"toronto": false, "montreal": true}, locked())
	env.db.setTier(userID, types.TierPremium)
	assert.Equal(t, map[string]bool{"toronto": false, "montreal": false}, locked())
}
