package telnyx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchNumbers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/available_phone_numbers", r.URL.Path)
		assert.Equal(t, "212", r.URL.Query().Get("filter[national_destination_code]"))
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{
			"phone_number":"+12125550100",
			"region_information":[{"region_name":"NY","region_type":"state"},{"region_name":"NEW YORK","region_type":"rate_center"}],
			"features":[{"name":"sms"},{"name":"voice"}],
			"cost_information":{"monthly_cost":"1.00","currency":"USD"}
		}]}`))
	}))
	defer srv.Close()

	nums, err := NewClient("key", srv.URL).SearchNumbers(context.Background(), "212")

	require.NoError(t, err)
	require.Len(t, nums, 1)
	assert.Equal(t, "+12125550100", nums[0].PhoneNumber)
	assert.Equal(t, "NEW YORK", nums[0].Region)
	assert.Equal(t, []string{"sms", "voice"}, nums[0].Features)
	assert.Equal(t, "1.00", nums[0].MonthlyCost)
}

func TestOrderNumber(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/number_orders", r.URL.Path)

		var body numberOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.PhoneNumbers, 1)
		assert.Equal(t, "+12125550100", body.PhoneNumbers[0].PhoneNumber)

		_, _ = w.Write([]byte(`{"data":{"id":"ord_1","status":"pending"}}`))
	}))
	defer srv.Close()

	id, err := NewClient("key", srv.URL).OrderNumber(context.Background(), "+12125550100")

	require.NoError(t, err)
	assert.Equal(t, "ord_1", id)
}

func TestClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"errors":[{"code":"10015","title":"Bad Request","detail":"number is no longer available"}]}`))
	}))
	defer srv.Close()

	_, err := NewClient("key", srv.URL).OrderNumber(context.Background(), "+12125550100")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "number is no longer available")
	assert.Contains(t, err.Error(), "422")
}
