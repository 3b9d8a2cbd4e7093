package ewayclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leafbook/internal/domain/ewaybill"
)

func TestGenerateParsesPortalResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"ewbNo": "EWB331001234567",
			"ewbDate": "27/08/2026 10:15:00 AM",
			"validUpto": "28/08/2026 11:59:00 PM"
		}`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, APIKey: "test-key"})

	resp, err := client.Generate(context.Background(), &ewaybill.Request{
		LotCode:    "LOT-2026-00001",
		VehicleNo:  "GJ23AB1234",
		FromPlace:  "Anand",
		ToPlace:    "Ahmedabad",
		DistanceKm: 75,
	})
	require.NoError(t, err)

	assert.Equal(t, "EWB331001234567", resp.BillNo)
	assert.Equal(t, 2026, resp.GeneratedAt.Year())
	assert.True(t, resp.ValidUntil.After(resp.GeneratedAt))
	assert.NotEmpty(t, resp.Raw)
}

func TestGenerateNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errorDetail":"invalid vehicle"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL})

	_, err := client.Generate(context.Background(), &ewaybill.Request{
		VehicleNo: "X", FromPlace: "A", ToPlace: "B", DistanceKm: 1,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestGenerateRejectedByPortal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"0","errorDetail":"duplicate request"}`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL})

	_, err := client.Generate(context.Background(), &ewaybill.Request{
		VehicleNo: "X", FromPlace: "A", ToPlace: "B", DistanceKm: 1,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate request")
}

func TestDisabledClient(t *testing.T) {
	_, err := Disabled{}.Generate(context.Background(), &ewaybill.Request{})
	require.Error(t, err)
}

func TestParsePortalTime(t *testing.T) {
	_, err := parsePortalTime("27/08/2026 10:15:00 AM")
	assert.NoError(t, err)

	_, err = parsePortalTime("2026-08-27T10:15:00Z")
	assert.NoError(t, err)

	_, err = parsePortalTime("not a time")
	assert.Error(t, err)
}
