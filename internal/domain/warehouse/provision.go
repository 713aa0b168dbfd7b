package warehouse

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/erpbridge/backend/internal/domain/scope"
	"github.com/erpbridge/backend/internal/domain/shared"
)

// EnsureResult reports the outcome of a create-if-absent provisioning call.
type EnsureResult struct {
	Name        string `json:"name"`
	AutoCreated bool   `json:"auto_created"`
}

// Provisioner ensures a warehouse document exists for a given
// (base code, role, owner) triple. The check-then-create against the ERP
// is a benign race across concurrent requests: a create conflict is
// absorbed by exactly one existence re-check, never retried beyond that.
type Provisioner struct {
	directory Directory
	cache     ExistenceCache
	logger    *zap.Logger
}

// NewProvisioner creates a Provisioner. The cache may be nil, in which
// case every Ensure call hits the ERP.
func NewProvisioner(directory Directory, cache ExistenceCache, logger *zap.Logger) *Provisioner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provisioner{
		directory: directory,
		cache:     cache,
		logger:    logger,
	}
}

// Ensure resolves the canonical name for the triple and creates the
// warehouse document if the ERP does not have it yet. The owner argument
// is free text and is sanitized here; it is required for CON/VCON and
// ignored for OWN.
func (p *Provisioner) Ensure(ctx context.Context, company string, sc scope.Scope, baseCode string, role Role, owner string) (EnsureResult, error) {
	if !role.Valid() {
		return EnsureResult{}, shared.NewDomainError(shared.ErrInvalidInput.Code,
			fmt.Sprintf("unknown ownership role %q", role))
	}

	token := Token{BaseCode: baseCode, Role: role, Scope: sc}
	if role != RoleOwn {
		code, err := SanitizeOwnerCode(owner)
		if err != nil {
			return EnsureResult{}, err
		}
		token.Owner = code
	}
	name := token.CanonicalName()

	if p.cache != nil {
		if known, err := p.cache.Contains(ctx, company, name); err == nil && known {
			return EnsureResult{Name: name}, nil
		}
	}

	exists, err := p.directory.Exists(ctx, company, name)
	if err != nil {
		return EnsureResult{}, fmt.Errorf("warehouse existence check: %w", err)
	}
	if exists {
		p.remember(ctx, company, name)
		return EnsureResult{Name: name}, nil
	}

	// First use of a role may also need its taxonomy entry.
	if err := p.directory.EnsureRoleType(ctx, role); err != nil {
		return EnsureResult{}, shared.NewDomainError(shared.ErrWarehouseProvision.Code,
			fmt.Sprintf("warehouse type %s: %v", role, err))
	}

	if err := p.directory.Create(ctx, company, name, role); err != nil {
		// A concurrent request may have created it between the check and
		// the create. One re-check absorbs that race.
		if exists, checkErr := p.directory.Exists(ctx, company, name); checkErr == nil && exists {
			p.logger.Info("warehouse created concurrently",
				zap.String("warehouse", name),
				zap.String("company", company))
			p.remember(ctx, company, name)
			return EnsureResult{Name: name}, nil
		}
		return EnsureResult{}, shared.NewDomainError(shared.ErrWarehouseProvision.Code,
			fmt.Sprintf("create warehouse %s: %v", name, err))
	}

	p.logger.Info("warehouse provisioned",
		zap.String("warehouse", name),
		zap.String("company", company),
		zap.String("role", string(role)))
	p.remember(ctx, company, name)
	return EnsureResult{Name: name, AutoCreated: true}, nil
}

func (p *Provisioner) remember(ctx context.Context, company, name string) {
	if p.cache == nil {
		return
	}
	if err := p.cache.Add(ctx, company, name); err != nil {
		p.logger.Warn("warehouse cache write failed", zap.Error(err))
	}
}
