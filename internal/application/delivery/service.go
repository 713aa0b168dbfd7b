package delivery

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/erpbridge/backend/internal/domain/allocation"
	"github.com/erpbridge/backend/internal/domain/scope"
	"github.com/erpbridge/backend/internal/domain/shared"
	"github.com/erpbridge/backend/internal/domain/warehouse"
)

// Service builds the line-item set of a delivery document: per-item
// candidate resolution, one batched stock-snapshot fetch, the greedy
// allocation pass, and the return/devolution handling.
//
// A document is fully allocable or not created at all: the first
// per-item failure aborts the whole batch, and every error names the
// item it belongs to so a human can correct the input and resubmit.
type Service struct {
	resolver    *allocation.Resolver
	engine      *allocation.Engine
	snapshots   allocation.SnapshotProvider
	provisioner *warehouse.Provisioner
	notes       NoteCreator
	logger      *zap.Logger
}

// NewService creates a delivery line builder. notes may be nil when the
// caller only builds lines and never creates documents.
func NewService(
	resolver *allocation.Resolver,
	engine *allocation.Engine,
	snapshots allocation.SnapshotProvider,
	provisioner *warehouse.Provisioner,
	notes NoteCreator,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		resolver:    resolver,
		engine:      engine,
		snapshots:   snapshots,
		provisioner: provisioner,
		notes:       notes,
		logger:      logger,
	}
}

// BuildLines assembles the delivery lines for every requested item.
// Input validation (positive quantity, return linkage) happens before
// any network call so a rejected batch has no partial side effects.
func (s *Service) BuildLines(ctx context.Context, company string, sc scope.Scope, items []LineRequest, isReturn bool) (*BuildResult, error) {
	if len(items) == 0 {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "at least one line item is required")
	}
	for _, item := range items {
		if !item.Qty.IsPositive() {
			return nil, shared.NewDomainError(shared.ErrInvalidQuantity.Code,
				fmt.Sprintf("item %s: requested quantity %s must be positive", item.ItemCode, item.Qty))
		}
		if isReturn && item.AgainstLine == "" {
			return nil, shared.NewDomainError(shared.ErrMissingReturnLinkage.Code,
				fmt.Sprintf("item %s: return line has no reference to the original document line", item.ItemCode))
		}
	}

	correlationID := uuid.New()
	log := s.logger.With(
		zap.Stringer("correlation_id", correlationID),
		zap.String("company", company),
		zap.Bool("is_return", isReturn))

	candidates, scopedCodes, err := s.resolveAll(ctx, company, sc, items, true)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.snapshots.Fetch(ctx, company, scopedCodes)
	if err != nil {
		return nil, fmt.Errorf("stock snapshot: %w", err)
	}

	result := &BuildResult{CorrelationID: correlationID, Lines: make([]Line, 0, len(items))}
	for i, item := range items {
		scoped := scopedCodes[i]
		bins := allocation.BinsByWarehouse(snapshot[scoped])
		allocations, err := s.engine.Allocate(candidates[i], bins, item.Qty, isReturn)
		if err != nil {
			return nil, wrapItemError(item.ItemCode, err)
		}
		for _, alloc := range allocations {
			result.Lines = append(result.Lines, Line{
				ItemCode:       scoped,
				Qty:            alloc.Qty,
				Warehouse:      alloc.Name,
				OwnershipLabel: alloc.Warehouse.Role.Label(),
				AgainstLine:    item.AgainstLine,
			})
		}
	}

	log.Info("delivery lines built",
		zap.Int("items", len(items)),
		zap.Int("lines", len(result.Lines)))
	return result, nil
}

// PreviewAllocation runs the allocation pipeline without provisioning
// warehouses or creating anything, reporting per-item shortage so the
// user can see what a confirmed document would do.
func (s *Service) PreviewAllocation(ctx context.Context, company string, sc scope.Scope, items []LineRequest) (*PreviewResult, error) {
	if len(items) == 0 {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "at least one line item is required")
	}
	for _, item := range items {
		if !item.Qty.IsPositive() {
			return nil, shared.NewDomainError(shared.ErrInvalidQuantity.Code,
				fmt.Sprintf("item %s: requested quantity %s must be positive", item.ItemCode, item.Qty))
		}
	}

	candidates, scopedCodes, err := s.resolveAll(ctx, company, sc, items, false)
	if err != nil {
		return nil, err
	}

	snapshot, err := s.snapshots.Fetch(ctx, company, scopedCodes)
	if err != nil {
		return nil, fmt.Errorf("stock snapshot: %w", err)
	}

	result := &PreviewResult{CorrelationID: uuid.New(), Items: make([]ItemPreview, 0, len(items)), CanFulfillAll: true}
	for i, item := range items {
		scoped := scopedCodes[i]
		bins := allocation.BinsByWarehouse(snapshot[scoped])
		allocations, err := s.engine.Allocate(candidates[i], bins, item.Qty, false)
		if err != nil {
			return nil, wrapItemError(item.ItemCode, err)
		}

		available := decimal.Zero
		for _, candidate := range candidates[i] {
			actual := bins[candidate.Name].ActualQty
			if actual.IsPositive() {
				available = available.Add(actual)
			}
		}
		preview := ItemPreview{
			ItemCode:       scoped,
			RequestedQty:   item.Qty,
			TotalAvailable: available,
			CanFulfill:     available.GreaterThanOrEqual(item.Qty),
			Allocations:    allocations,
		}
		if !preview.CanFulfill {
			preview.ShortageQty = item.Qty.Sub(available)
			result.CanFulfillAll = false
		}
		result.Items = append(result.Items, preview)
	}
	return result, nil
}

// CreateDeliveryNote builds the lines and posts the delivery document to
// the ERP. A return document additionally requires the name of the
// document it reverses.
func (s *Service) CreateDeliveryNote(ctx context.Context, company string, sc scope.Scope, customer string, items []LineRequest, isReturn bool, returnAgainst string) (string, *BuildResult, error) {
	if s.notes == nil {
		return "", nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "document creation is not configured")
	}
	if isReturn && returnAgainst == "" {
		return "", nil, shared.NewDomainError(shared.ErrMissingReturnLinkage.Code,
			"return document has no reference to the original document")
	}

	built, err := s.BuildLines(ctx, company, sc, items, isReturn)
	if err != nil {
		return "", nil, err
	}

	scopedCustomer, _ := scope.ResolvePartyName(customer, sc.Abbr)
	name, err := s.notes.CreateDeliveryNote(ctx, Note{
		Company:       company,
		Customer:      scopedCustomer,
		IsReturn:      isReturn,
		ReturnAgainst: returnAgainst,
		Lines:         built.Lines,
	})
	if err != nil {
		return "", nil, fmt.Errorf("create delivery note: %w", err)
	}

	s.logger.Info("delivery note created",
		zap.Stringer("correlation_id", built.CorrelationID),
		zap.String("document", name),
		zap.Bool("is_return", isReturn))
	return name, built, nil
}

// resolveAll resolves candidates and scoped item codes for every item.
// With provisioning enabled, an item that resolves to nothing but
// carries an ownership classification and a base warehouse gets its
// role-variant warehouse created on demand.
func (s *Service) resolveAll(ctx context.Context, company string, sc scope.Scope, items []LineRequest, provision bool) ([][]allocation.Candidate, []string, error) {
	candidates := make([][]allocation.Candidate, len(items))
	scopedCodes := make([]string, len(items))

	for i, item := range items {
		scoped, _ := scope.Apply(item.ItemCode, sc.Abbr)
		scopedCodes[i] = scoped

		resolved, err := s.resolver.Resolve(ctx, company, sc, allocation.CandidateQuery{
			Group:         item.Group,
			DisplayName:   item.DisplayWarehouse,
			WarehouseName: item.WarehouseName,
		})
		if err != nil {
			return nil, nil, wrapItemError(item.ItemCode, err)
		}

		if len(resolved) == 0 && provision && item.Ownership != "" {
			candidate, err := s.provisionCandidate(ctx, company, sc, item)
			if err != nil {
				return nil, nil, wrapItemError(item.ItemCode, err)
			}
			if candidate != nil {
				resolved = []allocation.Candidate{*candidate}
			}
		}
		if len(resolved) == 0 {
			return nil, nil, shared.NewDomainError(shared.ErrNoEligibleWarehouse.Code,
				fmt.Sprintf("item %s: no warehouse could be resolved", item.ItemCode))
		}
		candidates[i] = resolved
	}
	return candidates, scopedCodes, nil
}

// provisionCandidate creates the role-variant warehouse for an item that
// only carries an ownership classification plus a base location.
func (s *Service) provisionCandidate(ctx context.Context, company string, sc scope.Scope, item LineRequest) (*allocation.Candidate, error) {
	if s.provisioner == nil {
		return nil, nil
	}
	base := item.DisplayWarehouse
	if base == "" && item.WarehouseName != "" {
		if token, ok := warehouse.Parse(item.WarehouseName, sc); ok {
			base = token.BaseCode
		}
	}
	if base == "" {
		return nil, nil
	}

	ensured, err := s.provisioner.Ensure(ctx, company, sc, base, item.Ownership, item.Owner)
	if err != nil {
		return nil, err
	}
	token, ok := warehouse.Parse(ensured.Name, sc)
	if !ok {
		return nil, nil
	}
	return &allocation.Candidate{Token: token, Name: ensured.Name, DisplayName: base}, nil
}

// wrapItemError prefixes domain errors with the item they belong to and
// passes everything else through with context.
func wrapItemError(itemCode string, err error) error {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return shared.NewDomainError(domainErr.Code, fmt.Sprintf("item %s: %s", itemCode, domainErr.Message))
	}
	return fmt.Errorf("item %s: %w", itemCode, err)
}
