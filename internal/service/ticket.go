package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ndolgikh/marketcore/internal/models"
	"github.com/ndolgikh/marketcore/internal/repo"
	"github.com/ndolgikh/marketcore/internal/transport"
)

type TicketService struct {
	Repo *repo.GormRepo
}

func validTicketStatus(status string) bool {
	switch status {
	case models.TicketStatusOpen, models.TicketStatusPending, models.TicketStatusClosed:
		return true
	default:
		return false
	}
}

func (s *TicketService) Create(ctx context.Context, userID uint, req transport.CreateTicketRequest) (*models.SupportTicket, error) {
	if req.Description == "" {
		return nil, fmt.Errorf("%w: description required", ErrValidation)
	}

	status := req.Status
	if status == "" {
		status = models.TicketStatusOpen
	}
	if !validTicketStatus(status) {
		return nil, fmt.Errorf("%w: unknown ticket status %q", ErrValidation, req.Status)
	}

	if req.OrderID != nil {
		if _, err := s.Repo.GetOrder(ctx, *req.OrderID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: order %d", ErrNotFound, *req.OrderID)
			}
			return nil, err
		}
	}

	ticket := &models.SupportTicket{
		UserID:      userID,
		OrderID:     req.OrderID,
		Description: req.Description,
		Status:      status,
	}
	return s.Repo.CreateTicket(ctx, ticket)
}

func (s *TicketService) UpdateStatus(ctx context.Context, id uint, status string) (*models.SupportTicket, error) {
	if !validTicketStatus(status) {
		return nil, fmt.Errorf("%w: unknown ticket status %q", ErrValidation, status)
	}

	ticket, err := s.Repo.UpdateTicketStatus(ctx, id, status)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: ticket %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return ticket, nil
}
