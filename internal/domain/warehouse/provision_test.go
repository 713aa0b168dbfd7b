package warehouse

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erpbridge/backend/internal/domain/shared"
)

// fakeDirectory is an in-memory Directory for provisioning tests.
type fakeDirectory struct {
	existing    map[string]bool
	createErr   error
	createdName string
	existsCalls int
	roleTypes   []Role
	// raceOnCreate makes the warehouse appear between the first
	// existence check and the create call
	raceOnCreate bool
}

func newFakeDirectory(existing ...string) *fakeDirectory {
	d := &fakeDirectory{existing: make(map[string]bool)}
	for _, name := range existing {
		d.existing[name] = true
	}
	return d
}

func (d *fakeDirectory) Exists(_ context.Context, _, name string) (bool, error) {
	d.existsCalls++
	return d.existing[name], nil
}

func (d *fakeDirectory) Create(_ context.Context, _, name string, _ Role) error {
	if d.raceOnCreate {
		d.existing[name] = true
		return errors.New("DuplicateEntryError: Warehouse already exists")
	}
	if d.createErr != nil {
		return d.createErr
	}
	d.existing[name] = true
	d.createdName = name
	return nil
}

func (d *fakeDirectory) FindByDisplayName(_ context.Context, _, _ string) ([]Record, error) {
	return nil, nil
}

func (d *fakeDirectory) EnsureRoleType(_ context.Context, role Role) error {
	d.roleTypes = append(d.roleTypes, role)
	return nil
}

type fakeCache struct {
	entries map[string]bool
}

func newFakeCache() *fakeCache { return &fakeCache{entries: make(map[string]bool)} }

func (c *fakeCache) Contains(_ context.Context, company, name string) (bool, error) {
	return c.entries[company+"|"+name], nil
}

func (c *fakeCache) Add(_ context.Context, company, name string) error {
	c.entries[company+"|"+name] = true
	return nil
}

func TestProvisionerEnsure(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a missing warehouse", func(t *testing.T) {
		dir := newFakeDirectory()
		p := NewProvisioner(dir, nil, nil)

		result, err := p.Ensure(ctx, "Norte Sur SA", testScope, "Depósito Central", RoleConsigned, "ACME S.A.")
		require.NoError(t, err)
		assert.True(t, result.AutoCreated)
		assert.Equal(t, "Depósito Central (CON: ACMESA) - NS", result.Name)
		assert.Equal(t, result.Name, dir.createdName)
		assert.Contains(t, dir.roleTypes, RoleConsigned)
	})

	t.Run("existing warehouse is not recreated", func(t *testing.T) {
		dir := newFakeDirectory("Depósito Central - NS")
		p := NewProvisioner(dir, nil, nil)

		result, err := p.Ensure(ctx, "Norte Sur SA", testScope, "Depósito Central", RoleOwn, "")
		require.NoError(t, err)
		assert.False(t, result.AutoCreated)
		assert.Empty(t, dir.createdName)
	})

	t.Run("cached warehouse skips the ERP entirely", func(t *testing.T) {
		dir := newFakeDirectory("Depósito Central - NS")
		cache := newFakeCache()
		require.NoError(t, cache.Add(ctx, "Norte Sur SA", "Depósito Central - NS"))
		p := NewProvisioner(dir, cache, nil)

		result, err := p.Ensure(ctx, "Norte Sur SA", testScope, "Depósito Central", RoleOwn, "")
		require.NoError(t, err)
		assert.False(t, result.AutoCreated)
		assert.Zero(t, dir.existsCalls)
	})

	t.Run("create conflict is absorbed by one re-check", func(t *testing.T) {
		dir := newFakeDirectory()
		dir.raceOnCreate = true
		p := NewProvisioner(dir, nil, nil)

		result, err := p.Ensure(ctx, "Norte Sur SA", testScope, "Depósito Central", RoleOwn, "")
		require.NoError(t, err)
		assert.False(t, result.AutoCreated)
		assert.Equal(t, 2, dir.existsCalls)
	})

	t.Run("create failure after confirmed absence surfaces the ERP error", func(t *testing.T) {
		dir := newFakeDirectory()
		dir.createErr = errors.New("ValidationError: parent_warehouse is mandatory")
		p := NewProvisioner(dir, nil, nil)

		_, err := p.Ensure(ctx, "Norte Sur SA", testScope, "Depósito Central", RoleOwn, "")
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.ErrWarehouseProvision.Code, domainErr.Code)
		assert.Contains(t, domainErr.Message, "parent_warehouse is mandatory")
	})

	t.Run("consignment without a usable owner fails", func(t *testing.T) {
		p := NewProvisioner(newFakeDirectory(), nil, nil)

		_, err := p.Ensure(ctx, "Norte Sur SA", testScope, "Depósito Central", RoleConsigned, "??")
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.ErrInvalidOwnerCode.Code, domainErr.Code)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		p := NewProvisioner(newFakeDirectory(), nil, nil)

		_, err := p.Ensure(ctx, "Norte Sur SA", testScope, "Depósito Central", Role("RENTED"), "")
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.ErrInvalidInput.Code, domainErr.Code)
	})
}
