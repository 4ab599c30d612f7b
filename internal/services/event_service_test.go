package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poofware/mono-repo/backend/services/events-service/internal/dtos"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/models"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/testhelpers"
	"github.com/poofware/mono-repo/backend/services/events-service/internal/utils"
)

func TestEventCreate_Defaults(t *testing.T) {
	repo := testhelpers.NewEventRepo()
	svc := NewEventService(repo)
	ctx := context.Background()

	id, err := svc.Create(ctx, dtos.CreateEventRequest{
		Name: " Warehouse ",
		Date: utils.Ptr(time.Date(2026, 11, 7, 22, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)

	e, err := repo.GetByID(ctx, uuid.MustParse(id))
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "Warehouse", e.Name)
	assert.Equal(t, models.EventTypeClub, e.Type)
	assert.Equal(t, models.DefaultTicketPrice, e.TicketPrice)
	assert.Equal(t, models.EventStatusScheduled, e.Status)

	ok, err := svc.Exists(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Exists(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEventCreate_Explicit(t *testing.T) {
	repo := testhelpers.NewEventRepo()
	svc := NewEventService(repo)

	id, err := svc.Create(context.Background(), dtos.CreateEventRequest{
		Name:        "Afters",
		Date:        utils.Ptr(time.Now()),
		Type:        utils.Ptr("After"),
		TicketPrice: utils.Ptr(0.0),
		GateCode:    utils.Ptr("4411"),
	})
	require.NoError(t, err)

	e, _ := repo.GetByID(context.Background(), uuid.MustParse(id))
	assert.Equal(t, models.EventTypeAfter, e.Type)
	assert.Zero(t, e.TicketPrice)
	assert.Equal(t, "4411", *e.GateCode)
}

func TestEventCreate_Validation(t *testing.T) {
	svc := NewEventService(testhelpers.NewEventRepo())
	now := utils.Ptr(time.Now())

	cases := []struct {
		name string
		req  dtos.CreateEventRequest
	}{
		{"missing date", dtos.CreateEventRequest{Name: "x"}},
		{"unknown type", dtos.CreateEventRequest{Name: "x", Date: now, Type: utils.Ptr("rave")}},
		{"negative price", dtos.CreateEventRequest{Name: "x", Date: now, TicketPrice: utils.Ptr(-1.0)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.req)
			requireAppError(t, err, http.StatusBadRequest, nil)
		})
	}
}

func TestEventList_NewestFirst(t *testing.T) {
	svc := NewEventService(testhelpers.NewEventRepo())
	ctx := context.Background()

	for _, d := range []int{1, 3, 2} {
		_, err := svc.Create(ctx, dtos.CreateEventRequest{
			Name: "e",
			Date: utils.Ptr(time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC)),
		})
		require.NoError(t, err)
	}

	events, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, 3, events[0].Date.Day())
	assert.Equal(t, 1, events[2].Date.Day())
}

func TestEventList_EmptyIsNotNil(t *testing.T) {
	events, err := NewEventService(testhelpers.NewEventRepo()).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, events)
}
