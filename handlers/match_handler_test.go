package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/services"
)

type fakeEventService struct {
	event          *models.MatchEvent
	autoCommentary bool
	err            error

	gotMatchID int
	gotInput   services.EventInput
}

func (f *fakeEventService) ProcessEvent(_ context.Context, matchID int, input services.EventInput) (*models.MatchEvent, bool, error) {
	f.gotMatchID = matchID
	f.gotInput = input
	if f.err != nil {
		return nil, false, f.err
	}
	return f.event, f.autoCommentary, nil
}

func (f *fakeEventService) ListMatchEvents(context.Context, int) ([]*models.MatchEvent, error) {
	return nil, nil
}

func (f *fakeEventService) GetMatchStats(context.Context, int) (*models.MatchStat, error) {
	return nil, nil
}

func (f *fakeEventService) ListPlayerMatchStats(context.Context, int) ([]*models.PlayerMatchStat, error) {
	return nil, nil
}

func newEventTestRouter(svc services.EventService) *chi.Mux {
	h := NewMatchHandler(nil, svc, nil)
	router := chi.NewRouter()
	router.Post("/matches/{matchID}/events", h.CreateEvent)
	return router
}

func TestCreateEventResponseShape(t *testing.T) {
	playerID := 9
	svc := &fakeEventService{
		event: &models.MatchEvent{
			ID:        1,
			MatchID:   7,
			EventType: models.EventGoal,
			Minute:    23,
			TeamID:    10,
			PlayerID:  &playerID,
		},
		autoCommentary: true,
	}
	router := newEventTestRouter(svc)

	body := `{"event_type":"goal","minute":23,"team_id":10,"player_id":9}`
	req := httptest.NewRequest(http.MethodPost, "/matches/7/events", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	if svc.gotMatchID != 7 {
		t.Errorf("matchID = %d, want 7", svc.gotMatchID)
	}
	if svc.gotInput.EventType != models.EventGoal {
		t.Errorf("event_type = %q, want %q", svc.gotInput.EventType, models.EventGoal)
	}

	var response map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	raw, ok := response["autoCommentary"]
	if !ok {
		t.Fatalf("response missing autoCommentary key; body: %s", rec.Body.String())
	}
	var auto bool
	if err := json.Unmarshal(raw, &auto); err != nil {
		t.Fatalf("unmarshal autoCommentary: %v", err)
	}
	if !auto {
		t.Error("autoCommentary = false, want true")
	}
	if _, ok := response["event"]; !ok {
		t.Error("response missing event key")
	}
	if _, ok := response["commentary_created"]; ok {
		t.Error("response must not use commentary_created key")
	}
}

func TestCreateEventMatchNotLive(t *testing.T) {
	svc := &fakeEventService{err: services.ErrMatchNotLive}
	router := newEventTestRouter(svc)

	body := `{"event_type":"goal","minute":50,"team_id":10}`
	req := httptest.NewRequest(http.MethodPost, "/matches/7/events", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusBadRequest, rec.Body.String())
	}
}
