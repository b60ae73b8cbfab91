package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"leadsmanager/internal/cache"
	"leadsmanager/internal/model"
	"leadsmanager/internal/repository"
)

const leadCacheTTL = 5 * time.Minute

// ErrLeadNotFound is returned when a lead does not exist or belongs to another
// user. The two cases are intentionally not distinguished.
var ErrLeadNotFound = errors.New("a lead matching these details does not exist")

// LeadFields carries the five free-text fields of a lead. Create and Update
// both take the full set; updates replace every field unconditionally.
type LeadFields struct {
	FirstName string
	LastName  string
	Email     string
	Company   string
	Note      string
}

// LeadService exposes lead operations scoped to an owning user.
type LeadService interface {
	Create(ctx context.Context, ownerID uint, fields LeadFields) (*model.Lead, error)
	List(ctx context.Context, ownerID uint) ([]model.Lead, error)
	Get(ctx context.Context, ownerID, leadID uint) (*model.Lead, error)
	Update(ctx context.Context, ownerID, leadID uint, fields LeadFields) (*model.Lead, error)
	Delete(ctx context.Context, ownerID, leadID uint) error
}

type leadService struct {
	repo  repository.LeadRepository
	cache *cache.Client
}

// NewLeadService builds a LeadService with repository and cache.
func NewLeadService(repo repository.LeadRepository, cache *cache.Client) LeadService {
	return &leadService{repo: repo, cache: cache}
}

func (s *leadService) cacheKey(ownerID, leadID uint) string {
	return fmt.Sprintf("lead:%d:%d", ownerID, leadID)
}

func (s *leadService) Create(ctx context.Context, ownerID uint, fields LeadFields) (*model.Lead, error) {
	now := time.Now().UTC()
	lead := &model.Lead{
		OwnerID:         ownerID,
		FirstName:       fields.FirstName,
		LastName:        fields.LastName,
		Email:           fields.Email,
		Company:         fields.Company,
		Note:            fields.Note,
		DateCreated:     now,
		DateLastUpdated: now,
	}
	if err := s.repo.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}
	return lead, nil
}

func (s *leadService) List(ctx context.Context, ownerID uint) ([]model.Lead, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *leadService) Get(ctx context.Context, ownerID, leadID uint) (*model.Lead, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(ownerID, leadID)); data != nil {
		var cached model.Lead
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	lead, err := s.selectOwned(ctx, ownerID, leadID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(lead); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(ownerID, leadID), payload, leadCacheTTL)
	}
	return lead, nil
}

func (s *leadService) Update(ctx context.Context, ownerID, leadID uint, fields LeadFields) (*model.Lead, error) {
	lead, err := s.selectOwned(ctx, ownerID, leadID)
	if err != nil {
		return nil, err
	}

	lead.FirstName = fields.FirstName
	lead.LastName = fields.LastName
	lead.Email = fields.Email
	lead.Company = fields.Company
	lead.Note = fields.Note
	lead.DateLastUpdated = time.Now().UTC()

	if err := s.repo.Update(ctx, lead); err != nil {
		return nil, fmt.Errorf("update lead: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(ownerID, leadID))
	return lead, nil
}

func (s *leadService) Delete(ctx context.Context, ownerID, leadID uint) error {
	lead, err := s.selectOwned(ctx, ownerID, leadID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, lead); err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(ownerID, leadID))
	return nil
}

// selectOwned is the authorization chokepoint: every operation on an existing
// lead resolves the record here, filtered by both id and owner.
func (s *leadService) selectOwned(ctx context.Context, ownerID, leadID uint) (*model.Lead, error) {
	lead, err := s.repo.FindByIDAndOwner(ctx, leadID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("find lead: %w", err)
	}
	return lead, nil
}
