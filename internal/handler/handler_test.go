package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"go-diamond-ledger/internal/model"
	"go-diamond-ledger/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthSessionCookie(t *testing.T) {
	a := newTestApp(t)

	resp, _ := a.do(t, http.MethodGet, "/api/auth/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	session := a.signUp(t, "ravi", model.RoleOperator)
	assert.True(t, session.HttpOnly)

	resp, raw := a.do(t, http.MethodGet, "/api/auth/me", nil, session)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var me model.User
	require.NoError(t, json.Unmarshal(decode(t, raw).Data, &me))
	assert.Equal(t, "ravi", me.UserName)

	// Logging out revokes the token even if the client keeps the cookie.
	resp, _ = a.do(t, http.MethodPost, "/api/auth/logout", nil, session)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = a.do(t, http.MethodGet, "/api/auth/me", nil, session)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	a := newTestApp(t)
	a.signUp(t, "ravi", model.RoleOperator)

	resp, raw := a.do(t, http.MethodPost, "/api/auth/login", map[string]string{"userName": "ravi", "password": "nope"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, decode(t, raw).Success)

	resp, _ = a.do(t, http.MethodPost, "/api/auth/login", map[string]string{"userName": "ravi", "password": "secret123"}, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func (a *testApp) createLot(t *testing.T, session *http.Cookie) model.DiamondLot {
	t.Helper()
	resp, raw := a.do(t, http.MethodPost, "/api/diamondLot", map[string]any{
		"partyId":     a.party,
		"kapanNumber": "K1",
		"items": []map[string]any{{
			"PKTNumber":      "P-1",
			"issueWeight":    12.5,
			"expectedWeight": 10,
			"shapeId":        a.shape,
			"date":           "2024-07-01",
		}},
	}, session)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var lots []model.DiamondLot
	require.NoError(t, json.Unmarshal(decode(t, raw).Data, &lots))
	require.Len(t, lots, 1)
	return lots[0]
}

func TestLotCreateQueryAndUpdate(t *testing.T) {
	a := newTestApp(t)
	session := a.signUp(t, "ravi", model.RoleOperator)
	lot := a.createLot(t, session)
	assert.Equal(t, int64(1), lot.UniqueID)

	resp, raw := a.do(t, http.MethodGet, "/api/diamondLot?kapanNumber=K1", nil, session)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var page struct {
		Success          bool               `json:"success"`
		TotalItems       int64              `json:"totalItems"`
		TotalIssueWeight float64            `json:"totalIssueWeight"`
		Data             []model.DiamondLot `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &page))
	assert.True(t, page.Success)
	assert.Equal(t, int64(1), page.TotalItems)
	assert.InDelta(t, 12.5, page.TotalIssueWeight, 1e-9)
	require.Len(t, page.Data, 1)

	resp, raw = a.do(t, http.MethodPut, "/api/diamondLot/"+lot.ID.String(), `{"remark":"checked"}`, session)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var updated model.DiamondLot
	require.NoError(t, json.Unmarshal(decode(t, raw).Data, &updated))
	assert.Equal(t, "checked", updated.Remark)

	resp, raw = a.do(t, http.MethodGet, fmt.Sprintf("/api/diamondLot/lot?uniqueId=%d", lot.UniqueID), nil, session)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
}

func TestLotUpdateRejectsUnknownField(t *testing.T) {
	a := newTestApp(t)
	session := a.signUp(t, "ravi", model.RoleOperator)
	lot := a.createLot(t, session)

	resp, raw := a.do(t, http.MethodPut, "/api/diamondLot/"+lot.ID.String(), `{"uniqueId":99}`, session)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(raw))

	resp, _ = a.do(t, http.MethodPut, "/api/diamondLot/"+lot.ID.String(), `{}`, session)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLotOwnership(t *testing.T) {
	a := newTestApp(t)
	owner := a.signUp(t, "ravi", model.RoleOperator)
	other := a.signUp(t, "mehul", model.RoleOperator)
	lot := a.createLot(t, owner)

	resp, _ := a.do(t, http.MethodPut, "/api/diamondLot/"+lot.ID.String(), `{"remark":"x"}`, other)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = a.do(t, http.MethodDelete, "/api/diamondLot/"+lot.ID.String(), nil, other)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = a.do(t, http.MethodDelete, "/api/diamondLot/"+lot.ID.String(), nil, owner)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLotQueryRejectsBadPartyArray(t *testing.T) {
	a := newTestApp(t)
	session := a.signUp(t, "ravi", model.RoleOperator)

	q := url.Values{"partyId": {`["not-a-uuid"]`}}
	resp, raw := a.do(t, http.MethodGet, "/api/diamondLot?"+q.Encode(), nil, session)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid partyId in array", decode(t, raw).Message)

	q = url.Values{"partyId": {fmt.Sprintf(`[%q]`, a.party.String())}}
	resp, _ = a.do(t, http.MethodGet, "/api/diamondLot?"+q.Encode(), nil, session)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLotExportContentType(t *testing.T) {
	a := newTestApp(t)
	session := a.signUp(t, "ravi", model.RoleOperator)
	a.createLot(t, session)

	resp, raw := a.do(t, http.MethodGet, "/api/diamondLot/export", nil, session)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, report.ContentTypeXLSX, resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, raw)
}

func TestRegistryMutationsNeedAdmin(t *testing.T) {
	a := newTestApp(t)
	operator := a.signUp(t, "ravi", model.RoleOperator)
	admin := a.signUp(t, "boss", model.RoleAdmin)

	resp, _ := a.do(t, http.MethodPost, "/api/color", map[string]string{"name": "D"}, operator)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw := a.do(t, http.MethodPost, "/api/color", map[string]string{"name": "D"}, admin)
	assert.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	resp, raw = a.do(t, http.MethodGet, "/api/allColors", nil, operator)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var colors []model.Color
	require.NoError(t, json.Unmarshal(decode(t, raw).Data, &colors))
	require.Len(t, colors, 1)
	assert.Equal(t, "D", colors[0].Name)
}
