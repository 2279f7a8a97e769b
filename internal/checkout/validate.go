package checkout

import (
	"context"
	"errors"
	"fmt"

	"agrihub/internal/models"
)

// validate checks every requested line against the live catalog and
// resolves the current price and farmer into a snapshot. It performs no
// writes; the first invalid line fails the whole request.
func (s *Service) validate(ctx context.Context, items []LineItem) ([]ResolvedItem, error) {
	resolved := make([]ResolvedItem, 0, len(items))

	for _, item := range items {
		if item.Quantity < 1 {
			return nil, fmt.Errorf("product %s: %w", item.ProductID.Hex(), ErrInvalidQuantity)
		}

		p, err := s.store.GetProduct(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, models.ErrNoRecord) {
				return nil, fmt.Errorf("product %s: %w", item.ProductID.Hex(), ErrProductNotFound)
			}
			return nil, err
		}

		if p.Status != models.ProductApproved {
			return nil, fmt.Errorf("product %q: %w", p.Name, ErrProductUnavailable)
		}

		if p.Quantity < item.Quantity {
			return nil, fmt.Errorf("%w for %s", models.ErrInsufficientStock, p.Name)
		}

		resolved = append(resolved, ResolvedItem{
			ProductID:   p.ID,
			FarmerID:    p.FarmerID,
			ProductName: p.Name,
			Price:       p.Price,
			Quantity:    item.Quantity,
		})
	}

	return resolved, nil
}
