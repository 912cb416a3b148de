package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Insert(t *testing.T) {
	var gotMethod, gotPath, gotBody, gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 0)

	err := client.Insert(context.Background(), "work_sessions", json.RawMessage(`{"id":"ws-1"}`))
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/rest/v1/work_sessions", gotPath)
	assert.Equal(t, `{"id":"ws-1"}`, gotBody)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, 1, client.RequestCount())
}

func TestClient_UpdateAndDelete(t *testing.T) {
	var gotMethod, gotQuery string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 0)

	err := client.Update(context.Background(), "work_orders", "wo-1", json.RawMessage(`{"id":"wo-1","status":"closed"}`))
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "id=eq.wo-1", gotQuery)

	err = client.Delete(context.Background(), "work_orders", "wo-2")
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "id=eq.wo-2", gotQuery)
}

func TestClient_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"duplicate key"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 0)

	err := client.Insert(context.Background(), "photos", json.RawMessage(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "409")
	assert.Contains(t, err.Error(), "duplicate key")
}

func TestClient_FetchWorkOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/work_orders", r.URL.Path)
		assert.Equal(t, "eq.wo-77", r.URL.Query().Get("id"))
		assert.Contains(t, r.URL.Query().Get("select"), "customer:customers(*)")
		assert.Contains(t, r.URL.Query().Get("select"), "hierarchy:equipment_units(*)")

		_, _ = w.Write([]byte(`[{
			"id": "wo-77",
			"number": "WO-2024-077",
			"status": "open",
			"customer": {"id": "cust-1", "name": "Acme"},
			"equipment": {
				"id": "eq-1",
				"equipment_type": "chiller",
				"hierarchy": [{"id": "site-1", "equipment_type": "site"}]
			}
		}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 0)

	wo, err := client.FetchWorkOrder(context.Background(), "wo-77")
	require.NoError(t, err)
	assert.Equal(t, "WO-2024-077", wo.Number)
	require.NotNil(t, wo.Customer)
	assert.Equal(t, "Acme", wo.Customer.Name)
	require.NotNil(t, wo.Equipment)
	require.Len(t, wo.Equipment.Hierarchy, 1)
	assert.Equal(t, "site-1", wo.Equipment.Hierarchy[0].ID)
}

func TestClient_FetchWorkOrder_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 0)

	_, err := client.FetchWorkOrder(context.Background(), "wo-none")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestClient_FetchWorkSessions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/work_sessions", r.URL.Path)
		assert.Equal(t, "eq.wo-77", r.URL.Query().Get("work_order_id"))
		_, _ = w.Write([]byte(`[
			{"id": "ws-1", "work_order_id": "wo-77"},
			{"id": "ws-2", "work_order_id": "wo-77"}
		]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 0)

	sessions, err := client.FetchWorkSessions(context.Background(), "wo-77")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "ws-1", sessions[0].ID)
}

func TestClient_FetchProceduresByEquipmentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/procedures", r.URL.Path)
		assert.Equal(t, "eq.chiller", r.URL.Query().Get("equipment_type"))
		assert.Contains(t, r.URL.Query().Get("select"), "steps:procedure_steps(*)")
		_, _ = w.Write([]byte(`[{
			"id": "proc-1",
			"equipment_type": "chiller",
			"steps": [{"id": "step-1", "seq": 1, "instruction": "Isolate power"}]
		}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", 0)

	procedures, err := client.FetchProceduresByEquipmentType(context.Background(), "chiller")
	require.NoError(t, err)
	require.Len(t, procedures, 1)
	require.Len(t, procedures[0].Steps, 1)
	assert.Equal(t, "Isolate power", procedures[0].Steps[0].Instruction)
}
