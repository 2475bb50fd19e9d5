package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/nasiya-uz/nasiya-api/internal/models"
	"github.com/nasiya-uz/nasiya-api/internal/repository"
	"gorm.io/gorm"
)

// CreatePartnerInput carries the fields for registering a partner
type CreatePartnerInput struct {
	FullName  string
	Phone     string
	Address   *string
	Role      string
	CreatedBy uint
}

// UpdatePartnerInput carries the mutable partner fields. Nil means unchanged.
type UpdatePartnerInput struct {
	FullName  *string
	Phone     *string
	Address   *string
	IsActive  *bool
	UpdatedBy uint
}

// PartnerService manages the counterparty registry. Balances are never
// mutated here; they move only through contract, payment and return flows.
type PartnerService struct {
	repo     repository.PartnerRepository
	auditSvc *AuditService
	txm      repository.TxManager
}

func NewPartnerService(repo repository.PartnerRepository, auditSvc *AuditService, txm repository.TxManager) *PartnerService {
	return &PartnerService{repo: repo, auditSvc: auditSvc, txm: txm}
}

func (s *PartnerService) Create(ctx context.Context, input CreatePartnerInput) (*models.Partner, error) {
	if input.FullName == "" || input.Phone == "" {
		return nil, fmt.Errorf("%w: full name and phone are required", ErrValidation)
	}
	if input.Role != models.PartnerRoleCustomer && input.Role != models.PartnerRoleSeller {
		return nil, fmt.Errorf("%w: unknown partner role %q", ErrValidation, input.Role)
	}

	partner := &models.Partner{
		FullName:    input.FullName,
		Phone:       input.Phone,
		Address:     input.Address,
		Role:        input.Role,
		IsActive:    true,
		CreatedByID: input.CreatedBy,
	}

	err := s.txm.Serializable(ctx, func(ctx context.Context) error {
		existing, err := s.repo.FindByPhone(ctx, input.Phone)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: phone %s already registered to partner %d", ErrConflict, input.Phone, existing.ID)
		}

		if err := s.repo.Create(ctx, partner); err != nil {
			return err
		}
		return s.auditSvc.Log(ctx, input.CreatedBy, partner.TableName(), partner.ID, models.ActionCreate, nil, partner, "")
	})
	if err != nil {
		return nil, err
	}
	return partner, nil
}

func (s *PartnerService) Update(ctx context.Context, id uint, input UpdatePartnerInput) (*models.Partner, error) {
	var partner *models.Partner

	err := s.txm.Serializable(ctx, func(ctx context.Context) error {
		var err error
		partner, err = s.repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return notFound(err, "partner", id)
		}
		before := *partner

		if input.Phone != nil && *input.Phone != partner.Phone {
			other, err := s.repo.FindByPhone(ctx, *input.Phone)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if other != nil && other.ID != partner.ID {
				return fmt.Errorf("%w: phone %s already registered to partner %d", ErrConflict, *input.Phone, other.ID)
			}
			partner.Phone = *input.Phone
		}
		if input.FullName != nil {
			if *input.FullName == "" {
				return fmt.Errorf("%w: full name cannot be empty", ErrValidation)
			}
			partner.FullName = *input.FullName
		}
		if input.Address != nil {
			partner.Address = input.Address
		}
		if input.IsActive != nil {
			partner.IsActive = *input.IsActive
		}

		if err := s.repo.Update(ctx, partner); err != nil {
			return err
		}
		return s.auditSvc.Log(ctx, input.UpdatedBy, partner.TableName(), partner.ID, models.ActionUpdate, &before, partner, "")
	})
	if err != nil {
		return nil, err
	}
	return partner, nil
}

func (s *PartnerService) FindByID(ctx context.Context, id uint) (*models.Partner, error) {
	partner, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "partner", id)
	}
	return partner, nil
}

func (s *PartnerService) List(ctx context.Context, query *repository.ListQuery) ([]models.Partner, int64, error) {
	return s.repo.List(ctx, query)
}

// notFound translates a missing-row error into the service sentinel while
// passing every other failure through untouched.
func notFound(err error, entity string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %d", ErrNotFound, entity, id)
	}
	return err
}
