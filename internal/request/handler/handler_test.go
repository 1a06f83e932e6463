package handler_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Loxfxgc/life-drop/internal/request/handler"
	"github.com/Loxfxgc/life-drop/internal/request/models"
	"github.com/Loxfxgc/life-drop/internal/request/service"
	"github.com/Loxfxgc/life-drop/internal/request/store"
	"github.com/Loxfxgc/life-drop/pkg/platform/audit/publisher"
	auditmemory "github.com/Loxfxgc/life-drop/pkg/platform/audit/store/memory"
)

func newTestRouter(t *testing.T) (http.Handler, *store.InMemory) {
	t.Helper()
	st := store.NewInMemory()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewService(st, publisher.NewPublisher(auditmemory.NewInMemoryStore()), log)

	r := chi.NewRouter()
	handler.NewHandler(svc, log).Register(r)
	return r, st
}

func TestCreateForcesPendingStatus(t *testing.T) {
	router, st := newTestRouter(t)

	body := `{"patientName":"Ravi","bloodType":"B+","unitsNeeded":2,"status":"approved"}`
	req := httptest.NewRequest(http.MethodPost, "/requests", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["id"])

	stored, err := st.FindByID(req.Context(), resp["id"])
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
}

func TestCreateNormalizesUrgencyAlias(t *testing.T) {
	router, st := newTestRouter(t)

	body := `{"patientName":"Ravi","bloodType":"B+","unitsNeeded":2,"urgency":"emergency"}`
	req := httptest.NewRequest(http.MethodPost, "/requests", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	stored, err := st.FindByID(req.Context(), resp["id"])
	require.NoError(t, err)
	assert.Equal(t, models.UrgencyCritical, stored.Urgency)
}

func TestCreateRejectsUnknownUrgency(t *testing.T) {
	router, _ := newTestRouter(t)

	body := `{"patientName":"Ravi","bloodType":"B+","unitsNeeded":2,"urgency":"whenever"}`
	req := httptest.NewRequest(http.MethodPost, "/requests", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRejectsMissingUnits(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/requests",
		strings.NewReader(`{"patientName":"Ravi","bloodType":"B+"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApproveTransition(t *testing.T) {
	router, st := newTestRouter(t)

	id, err := st.Insert(t.Context(), models.Request{
		PatientName: "Ravi",
		BloodType:   "B+",
		UnitsNeeded: 2,
		Status:      models.StatusPending,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/requests/"+id+"/approve",
		strings.NewReader(`{"notes":"stock confirmed"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	stored, err := st.FindByID(req.Context(), id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, stored.Status)
	assert.Equal(t, "stock confirmed", stored.ResponseNotes)
}

func TestTransitionMissingRequest(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPut, "/requests/nope/cancel", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetStatusRejectsUnknownVocabulary(t *testing.T) {
	router, st := newTestRouter(t)

	id, err := st.Insert(t.Context(), models.Request{
		PatientName: "Ravi",
		BloodType:   "B+",
		UnitsNeeded: 2,
		Status:      models.StatusPending,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/requests/"+id+"/status",
		strings.NewReader(`{"status":"completed"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListByUserSortedDescending(t *testing.T) {
	router, st := newTestRouter(t)

	for _, name := range []string{"first", "second", "third"} {
		_, err := st.Insert(t.Context(), models.Request{
			UserID:      "u1",
			PatientName: name,
			BloodType:   "O+",
			UnitsNeeded: 1,
			Status:      models.StatusPending,
		})
		require.NoError(t, err)
	}

	req := httptest.NewRequest(http.MethodGet, "/requests?userId=u1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var listed []models.Request
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 3)
	for i := 1; i < len(listed); i++ {
		assert.False(t, listed[i].SortKey().After(listed[i-1].SortKey()))
	}
}
