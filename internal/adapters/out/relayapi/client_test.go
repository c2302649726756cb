package relayapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"relay/internal/adapters/out/feed"
	"relay/internal/adapters/out/relayapi"
	"relay/internal/core/domain/model/kernel"
	"relay/internal/core/domain/model/parcel"
	"relay/internal/core/domain/model/transit"
	"relay/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func location(t *testing.T) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(52.52, 13.405)
	require.NoError(t, err)
	return p
}

func Test_RequestDropoff_DecodesReward(t *testing.T) {
	packageID := kernel.NewUUID()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/packages/"+packageID.String()+"/dropoff", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))

		var body map[string]float64
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.InDelta(t, 52.52, body["lat"], 1e-9)
		assert.InDelta(t, 13.405, body["lon"], 1e-9)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"delivered":true,"credits_earned":4.92,"delivery_bonus":10,"new_balance":15.92}`))
	}))
	defer server.Close()

	client := relayapi.NewClient(relayapi.Config{BaseURL: server.URL + "/", Token: "secret-token"})
	reward, err := client.RequestDropoff(context.Background(), packageID, location(t))

	require.NoError(t, err)
	assert.True(t, reward.Delivered)
	assert.True(t, decimal.RequireFromString("4.92").Equal(reward.CreditsEarned))
	require.NotNil(t, reward.DeliveryBonus)
	assert.True(t, decimal.NewFromInt(10).Equal(*reward.DeliveryBonus))
	assert.True(t, decimal.RequireFromString("15.92").Equal(reward.NewBalance))
}

func Test_RequestPickup_ConflictIsATransitionRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"code":409,"message":"package was picked up by another mover"}`))
	}))
	defer server.Close()

	_, err := relayapi.NewClient(relayapi.Config{BaseURL: server.URL}).
		RequestPickup(context.Background(), kernel.NewUUID(), location(t))

	require.ErrorIs(t, err, ports.ErrTransitionRejected)
	assert.Contains(t, err.Error(), "picked up by another mover")
}

func Test_RequestPickup_ServerErrorIsNotARejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := relayapi.NewClient(relayapi.Config{BaseURL: server.URL}).
		RequestPickup(context.Background(), kernel.NewUUID(), location(t))

	require.Error(t, err)
	assert.False(t, errors.Is(err, ports.ErrTransitionRejected))
	var httpErr *relayapi.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadGateway, httpErr.StatusCode)
}

func Test_RequestPickup_PickupReceiptHasNoBonus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"delivered":false,"credits_earned":0,"new_balance":3}`))
	}))
	defer server.Close()

	reward, err := relayapi.NewClient(relayapi.Config{BaseURL: server.URL}).
		RequestPickup(context.Background(), kernel.NewUUID(), location(t))

	require.NoError(t, err)
	assert.Nil(t, reward.DeliveryBonus)
	assert.True(t, decimal.NewFromInt(3).Equal(reward.NewBalance))
}

func Test_GetPackage_DecodesSnapshotWithMovements(t *testing.T) {
	origin := location(t)
	destination, err := kernel.NewGeoPoint(52.53, 13.41)
	require.NoError(t, err)
	sender, err := kernel.NewIdentity("Ada", "", "", "")
	require.NoError(t, err)
	recipient, err := kernel.NewIdentity("Grace", "", "", "")
	require.NoError(t, err)
	pkg, err := parcel.NewPackage(kernel.NewUUID(), origin, destination, "",
		time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), "books", sender, recipient)
	require.NoError(t, err)

	moverID := kernel.NewUUID()
	pickedAt := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	require.NoError(t, pkg.PickUp(moverID, pickedAt))
	record, err := transit.NewRecord(pkg.ID(), moverID, origin, pickedAt)
	require.NoError(t, err)
	later, err := transit.NewMovement(pickedAt.Add(2*time.Minute), destination)
	require.NoError(t, err)
	earlier, err := transit.NewMovement(pickedAt.Add(time.Minute), origin)
	require.NoError(t, err)
	record = record.WithMovements([]transit.Movement{later, earlier})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/packages/"+pkg.ID().String(), r.URL.Path)

		body := map[string]any{
			"package": feed.EncodePackage(pkg),
			"transit_records": []map[string]any{{
				"package_id":       pkg.ID().String(),
				"mover_id":         moverID.String(),
				"pickup_geo_point": feed.EncodeRecord(record).PickupGeoPoint,
				"pickup_date":      pickedAt,
				"movements":        feed.EncodeMovements(record).Movements,
			}},
		}
		assert.NoError(t, json.NewEncoder(w).Encode(body))
	}))
	defer server.Close()

	snapshot, err := relayapi.NewClient(relayapi.Config{BaseURL: server.URL}).GetPackage(context.Background(), pkg.ID())

	require.NoError(t, err)
	assert.Equal(t, parcel.Transit, snapshot.Package.Status())
	assert.True(t, snapshot.Package.IsHeldBy(moverID))
	require.Len(t, snapshot.Records, 1)
	assert.True(t, snapshot.Records[0].IsOpen())
	require.Len(t, snapshot.Records[0].Movements(), 2)
	assert.True(t, snapshot.Records[0].Movements()[0].Date().Equal(earlier.Date()))
}

func Test_GetPackage_MalformedDocumentIsADecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"package":{"id":"not-a-uuid","status":"pending"},"transit_records":[]}`))
	}))
	defer server.Close()

	_, err := relayapi.NewClient(relayapi.Config{BaseURL: server.URL}).GetPackage(context.Background(), kernel.NewUUID())

	var decodeErr *feed.DecodeError
	require.ErrorAs(t, err, &decodeErr)
}

func Test_GetPackage_UnknownPackage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":404,"message":"object not found"}`))
	}))
	defer server.Close()

	_, err := relayapi.NewClient(relayapi.Config{BaseURL: server.URL}).GetPackage(context.Background(), kernel.NewUUID())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "object not found")
}
