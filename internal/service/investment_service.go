package service

import (
	"sync"
	"time"

	"atb/backend/internal/model"

	"github.com/google/uuid"
)

// InvestmentService holds the dashboard's investment entries in memory
type InvestmentService struct {
	mu          sync.Mutex
	investments []model.Investment
}

func NewInvestmentService() *InvestmentService {
	return &InvestmentService{}
}

// List returns all investments, newest last
func (s *InvestmentService) List() []model.Investment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Investment(nil), s.investments...)
}

// Add records a new active investment and returns it
func (s *InvestmentService) Add(invType, category string, amount float64) model.Investment {
	inv := model.Investment{
		ID:       uuid.New().String(),
		Type:     invType,
		Category: category,
		Amount:   amount,
		Date:     time.Now(),
		Status:   "active",
	}

	s.mu.Lock()
	s.investments = append(s.investments, inv)
	s.mu.Unlock()
	return inv
}

// Remove deletes an investment by id; unknown ids are ignored
func (s *InvestmentService) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := s.investments[:0]
	for _, inv := range s.investments {
		if inv.ID != id {
			out = append(out, inv)
		}
	}
	s.investments = out
}
