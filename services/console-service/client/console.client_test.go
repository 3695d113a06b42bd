package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Tanmoy095/LogiSynapse/shared/contracts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *ConsoleClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewConsoleClient(srv.URL+"/", "tok", 2*time.Second, nil)
}

func TestUpdateBag(t *testing.T) {
	req := contracts.SubBagTransferRequest{
		OldBagAWB:          "BAG1",
		NewBagAWB:          "191020260001",
		PackageAWBNumbers:  []string{"P1", "P3"},
		DestinationAddress: contracts.Address{City: "Pune"},
		TransferLocation:   "Mumbai Hub",
	}

	var got map[string]interface{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/bags/updateBag", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
		assert.NoError(t, err)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"success":true,"message":"Bag updated"}`))
	})

	resp, err := c.UpdateBag(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "Bag updated", resp.Message)

	assert.Equal(t, "BAG1", got["old_bag_awb"])
	assert.Equal(t, []interface{}{"P1", "P3"}, got["package_awb_numbers"])
	dest, ok := got["destination_address_id"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Pune", dest["city"])
}

func TestUpdateBagRejected(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantErr     bool
	}{
		{name: "success false on 200", status: http.StatusOK, body: `{"success":false,"message":"already moved"}`, wantMessage: "already moved"},
		{name: "4xx with message", status: http.StatusBadRequest, body: `{"success":true,"message":"bad packages"}`, wantMessage: "bad packages"},
		{name: "5xx without body", status: http.StatusBadGateway, wantErr: true},
		{name: "5xx html", status: http.StatusInternalServerError, body: "<html>oops</html>", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			resp, err := c.UpdateBag(context.Background(), contracts.SubBagTransferRequest{})
			assert.False(t, resp.Success)
			if tt.wantErr {
				var serr *StatusError
				require.ErrorAs(t, err, &serr)
				assert.Equal(t, tt.status, serr.StatusCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMessage, resp.Message)
		})
	}
}

func TestGetProfile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/profile", r.URL.Path)
		w.Write([]byte(`{"id":"staff-7","name":"Asha","role":"Operation Manager","address":{"id":"addr-3","city":"Mumbai"}}`))
	})

	p, err := c.GetProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "staff-7", p.ID)
	assert.Equal(t, "Operation Manager", p.Role)
	assert.Equal(t, "addr-3", p.Address.ID)
}

func TestGetBag(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/bags/BAG1":
			w.Write([]byte(`{"awb_no":"BAG1","destination_city":"Pune","destination_address_li":"12 MG Road","package_awb_nos":["P1","P2"]}`))
		case "/api/bags/BAG2":
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"message":"not your bag"}`))
		default:
			http.NotFound(w, r)
		}
	})

	bag, err := c.GetBag(context.Background(), "BAG1")
	require.NoError(t, err)
	assert.Equal(t, []string{"P1", "P2"}, bag.PackageAWBNos)
	assert.Equal(t, "12 MG Road", bag.Destination().AddressLine)

	_, err = c.GetBag(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.GetBag(context.Background(), "BAG2")
	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "not your bag", serr.Message)
}

func TestTransportErrors(t *testing.T) {
	c := NewConsoleClient("", "", time.Second, nil)
	_, err := c.GetProfile(context.Background())
	assert.ErrorIs(t, err, ErrNoBaseURL)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c = NewConsoleClient(url, "", time.Second, nil)
	_, err = c.UpdateBag(context.Background(), contracts.SubBagTransferRequest{})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNoBaseURL))
}
