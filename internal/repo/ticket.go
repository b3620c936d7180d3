package repo

import (
	"context"

	"github.com/ndolgikh/marketcore/internal/models"
)

func (r *GormRepo) CreateTicket(ctx context.Context, ticket *models.SupportTicket) (*models.SupportTicket, error) {
	if err := r.DB.WithContext(ctx).Create(ticket).Error; err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *GormRepo) GetTicket(ctx context.Context, id uint) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	if err := r.DB.WithContext(ctx).First(&ticket, id).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *GormRepo) UpdateTicketStatus(ctx context.Context, id uint, status string) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	if err := r.DB.WithContext(ctx).First(&ticket, id).Error; err != nil {
		return nil, err
	}
	ticket.Status = status
	if err := r.DB.WithContext(ctx).Save(&ticket).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}
