package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	escrowd "github.com/custodia-labs/escrowd"
	"github.com/custodia-labs/escrowd/app"
	"github.com/custodia-labs/escrowd/coin"
	"github.com/custodia-labs/escrowd/escrowdtest"
	"github.com/custodia-labs/escrowd/store"
	"github.com/custodia-labs/escrowd/x"
	"github.com/custodia-labs/escrowd/x/cash"
	"github.com/custodia-labs/escrowd/x/offer"
)

func testServer(t *testing.T) (*httptest.Server, cash.Controller, escrowd.CacheableKVStore) {
	t.Helper()

	db := store.MemStore()
	auth := x.CtxAuth{}
	ctrl := cash.NewController()

	router := app.NewRouter()
	cash.RegisterRoutes(router, auth, ctrl)
	offer.RegisterRoutes(router, auth, ctrl)

	handler := app.ChainDecorators(app.NewRecovery()).WithHandler(router)
	disp := app.NewDispatcher(db, handler, nil)

	srv := httptest.NewServer(NewServer(disp, auth, ctrl, "offer", zerolog.Nop()).Router())
	t.Cleanup(srv.Close)
	return srv, ctrl, db
}

func do(t *testing.T, method, url string, caller escrowd.Address, body interface{}) (*http.Response, map[string]json.RawMessage) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if caller != nil {
		req.Header.Set("X-Caller", caller.String())
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var payload map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return resp, payload
}

func TestOfferLifecycleOverHTTP(t *testing.T) {
	srv, ctrl, db := testServer(t)

	alice := escrowdtest.RandomAddress()
	bob := escrowdtest.RandomAddress()
	require.NoError(t, ctrl.IssueCoins(db, alice, coin.NewAmount(1000)))

	// create
	resp, payload := do(t, "POST", srv.URL+"/offers", alice, map[string]interface{}{
		"recipient": bob.String(),
		"amount":    "400",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `1`, string(payload["offer_id"]))

	// read it back
	resp, payload = do(t, "GET", srv.URL+"/offers/1", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `"active"`, string(payload["status"]))

	// accept as bob
	resp, _ = do(t, "POST", srv.URL+"/offers/1/accept", bob, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	bal, err := ctrl.Balance(db, bob)
	require.NoError(t, err)
	assert.True(t, bal.Equals(coin.NewAmount(400)))

	// settled offers conflict on a second settlement
	resp, _ = do(t, "POST", srv.URL+"/offers/1/cancel", alice, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestHTTPErrorMapping(t *testing.T) {
	srv, ctrl, db := testServer(t)

	alice := escrowdtest.RandomAddress()
	bob := escrowdtest.RandomAddress()
	eve := escrowdtest.RandomAddress()
	require.NoError(t, ctrl.IssueCoins(db, alice, coin.NewAmount(1000)))

	// unknown offer
	resp, _ := do(t, "GET", srv.URL+"/offers/42", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// zero payment
	resp, _ = do(t, "POST", srv.URL+"/offers", alice, map[string]interface{}{
		"recipient": bob.String(),
		"amount":    "0",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// missing caller
	resp, _ = do(t, "POST", srv.URL+"/offers", nil, map[string]interface{}{
		"recipient": bob.String(),
		"amount":    "10",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// wrong settler
	_, _ = do(t, "POST", srv.URL+"/offers", alice, map[string]interface{}{
		"recipient": bob.String(),
		"amount":    "10",
	})
	resp, _ = do(t, "POST", srv.URL+"/offers/1/accept", eve, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestUserQueriesOverHTTP(t *testing.T) {
	srv, ctrl, db := testServer(t)

	alice := escrowdtest.RandomAddress()
	bob := escrowdtest.RandomAddress()
	require.NoError(t, ctrl.IssueCoins(db, alice, coin.NewAmount(1000)))

	for i := 0; i < 3; i++ {
		resp, _ := do(t, "POST", srv.URL+"/offers", alice, map[string]interface{}{
			"recipient": bob.String(),
			"amount":    "100",
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	resp, _ := do(t, "POST", srv.URL+"/offers/2/cancel", alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	count := func(url string) int {
		resp, payload := do(t, "GET", url, nil, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var offers []json.RawMessage
		require.NoError(t, json.Unmarshal(payload["offers"], &offers))
		return len(offers)
	}

	assert.Equal(t, 3, count(fmt.Sprintf("%s/users/%s/offers", srv.URL, alice)))
	assert.Equal(t, 2, count(fmt.Sprintf("%s/users/%s/offers?active=true", srv.URL, alice)))
	assert.Equal(t, 3, count(fmt.Sprintf("%s/users/%s/incoming", srv.URL, bob)))
	assert.Equal(t, 2, count(fmt.Sprintf("%s/users/%s/incoming?active=true", srv.URL, bob)))

	resp, payload := do(t, "GET", srv.URL+"/offers/last", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `3`, string(payload["last_offer_id"]))
}
