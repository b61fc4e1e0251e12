package store

import (
	"context"
	"fmt"

	"ghostledger/internal/core"
	"ghostledger/internal/log"
)

// AddGoal appends a goal.
func (s *FinanceStore) AddGoal(ctx context.Context, in core.GoalInput) (core.Goal, error) {
	var created core.Goal
	err := s.mutate(ctx, core.EntityGoal, log.OpCreate, func(d *core.FinanceData) (string, bool, error) {
		created = core.Goal{
			ID:            s.ids(),
			Title:         in.Title,
			TargetAmount:  in.TargetAmount,
			CurrentAmount: in.CurrentAmount,
			StartDate:     in.StartDate,
			EndDate:       in.EndDate,
			Active:        in.Active,
			CreatedAt:     s.clock.Now().UTC(),
		}
		d.Goals = append(d.Goals, created)
		return created.ID, true, nil
	})
	return created, err
}

// UpdateGoal merges the non-nil fields of patch onto the goal with id.
// found is false, with no write, when there is no such goal.
func (s *FinanceStore) UpdateGoal(ctx context.Context, id string, patch core.GoalPatch) (updated core.Goal, found bool, err error) {
	err = s.mutate(ctx, core.EntityGoal, log.OpUpdate, func(d *core.FinanceData) (string, bool, error) {
		for i := range d.Goals {
			if d.Goals[i].ID != id {
				continue
			}
			applyGoalPatch(&d.Goals[i], patch)
			updated, found = d.Goals[i], true
			return id, true, nil
		}
		return id, false, nil
	})
	if err != nil {
		return core.Goal{}, false, err
	}
	return updated, found, nil
}

func applyGoalPatch(g *core.Goal, p core.GoalPatch) {
	if p.Title != nil {
		g.Title = *p.Title
	}
	if p.TargetAmount != nil {
		g.TargetAmount = *p.TargetAmount
	}
	if p.CurrentAmount != nil {
		g.CurrentAmount = *p.CurrentAmount
	}
	if p.StartDate != nil {
		g.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		g.EndDate = *p.EndDate
	}
	if p.Active != nil {
		g.Active = *p.Active
	}
}

// DeleteGoal removes the goal with id; a missing id is a no-op.
func (s *FinanceStore) DeleteGoal(ctx context.Context, id string) (removed bool, err error) {
	err = s.mutate(ctx, core.EntityGoal, log.OpDelete, func(d *core.FinanceData) (string, bool, error) {
		d.Goals, removed = removeFirst(d.Goals, func(g core.Goal) bool { return g.ID == id })
		return id, removed, nil
	})
	return removed && err == nil, err
}

// SetCategoryLimit stores a limit, dropping any other limit for the same
// category, month and year. Nothing of the replaced limit is carried over.
func (s *FinanceStore) SetCategoryLimit(ctx context.Context, in core.LimitInput) (core.CategoryLimit, error) {
	var created core.CategoryLimit
	err := s.mutate(ctx, core.EntityLimit, log.OpUpsert, func(d *core.FinanceData) (string, bool, error) {
		created = core.CategoryLimit{
			ID:          s.ids(),
			Category:    in.Category,
			LimitAmount: in.LimitAmount,
			Active:      in.Active,
			Month:       in.Month,
			Year:        in.Year,
			CreatedAt:   s.clock.Now().UTC(),
		}
		kept := d.Limits[:0:0]
		for _, l := range d.Limits {
			if !l.Matches(in.Category, in.Month, in.Year) {
				kept = append(kept, l)
			}
		}
		d.Limits = append(kept, created)
		return created.ID, true, nil
	})
	return created, err
}

// DeleteCategoryLimit removes the limit with id; a missing id is a no-op.
func (s *FinanceStore) DeleteCategoryLimit(ctx context.Context, id string) (removed bool, err error) {
	err = s.mutate(ctx, core.EntityLimit, log.OpDelete, func(d *core.FinanceData) (string, bool, error) {
		d.Limits, removed = removeFirst(d.Limits, func(l core.CategoryLimit) bool { return l.ID == id })
		return id, removed, nil
	})
	return removed && err == nil, err
}

// UpdateSecurityConfig merges patch onto the security config. A new PIN must
// be four digits and is stored only as a hash. Enabling the lock requires a
// PIN, either in the same patch or already set.
func (s *FinanceStore) UpdateSecurityConfig(ctx context.Context, patch core.SecurityPatch) error {
	var hash string
	if patch.PIN != nil {
		if err := core.ValidatePIN(*patch.PIN); err != nil {
			return err
		}
		h, err := core.HashPIN(*patch.PIN)
		if err != nil {
			return fmt.Errorf("hash PIN: %w", err)
		}
		hash = h
	}

	return s.mutate(ctx, core.EntitySecurity, log.OpUpdate, func(d *core.FinanceData) (string, bool, error) {
		sec := d.SecurityConfig
		if hash != "" {
			sec.PinHash = hash
		}
		if patch.PinEnabled != nil {
			sec.PinEnabled = *patch.PinEnabled
		}
		if sec.PinEnabled && sec.PinHash == "" {
			return "", false, fmt.Errorf("enable PIN lock: %w", core.ErrInvalidPIN)
		}
		d.SecurityConfig = sec
		return "", true, nil
	})
}

// VerifyPIN reports whether pin unlocks the ledger. With the lock disabled
// every value unlocks it.
func (s *FinanceStore) VerifyPIN(pin string) bool {
	s.mu.RLock()
	sec := s.data.SecurityConfig
	s.mu.RUnlock()
	if !sec.PinEnabled {
		return true
	}
	return core.CheckPIN(sec.PinHash, pin)
}

// Locked reports whether the PIN lock is enabled.
func (s *FinanceStore) Locked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.SecurityConfig.PinEnabled
}
