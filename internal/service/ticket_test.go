package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndolgikh/marketcore/internal/models"
	"github.com/ndolgikh/marketcore/internal/transport"
)

func TestTicketService_Create(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ticket, err := env.Tickets.Create(ctx, 1, transport.CreateTicketRequest{Description: "parcel damaged"})
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusOpen, ticket.Status)
	assert.Nil(t, ticket.OrderID)

	_, err = env.Tickets.Create(ctx, 1, transport.CreateTicketRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.Tickets.Create(ctx, 1, transport.CreateTicketRequest{Description: "x", Status: "escalated"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTicketService_Create_UnknownOrder(t *testing.T) {
	env := newTestEnv(t)

	missing := uint(999)
	_, err := env.Tickets.Create(context.Background(), 1, transport.CreateTicketRequest{
		Description: "where is my order",
		OrderID:     &missing,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTicketService_UpdateStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ticket, err := env.Tickets.Create(ctx, 1, transport.CreateTicketRequest{Description: "parcel damaged"})
	require.NoError(t, err)

	updated, err := env.Tickets.UpdateStatus(ctx, ticket.ID, models.TicketStatusClosed)
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusClosed, updated.Status)

	_, err = env.Tickets.UpdateStatus(ctx, 999, models.TicketStatusClosed)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}
