package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/fourways-coffee/storefront/internal/domain"
	"go.uber.org/zap"
)

// RoastFieldPrefix prefixes the per-row green gram inputs of the roast form.
const RoastFieldPrefix = "roast_green_g_"

// RoastEntry is a positive amount of green coffee to roast from one row.
type RoastEntry struct {
	InventoryID int64
	GreenUsed   int64
}

// RoastSessionError carries the message shown to the roaster when a roast
// session is rejected. Nothing is written when it is returned.
type RoastSessionError struct {
	Message string
	Err     error
}

func (e *RoastSessionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *RoastSessionError) Unwrap() error {
	return e.Err
}

type InventoryService struct {
	inventory InventoryStore
	logger    *zap.Logger
}

func NewInventoryService(inventory InventoryStore, logger *zap.Logger) *InventoryService {
	return &InventoryService{
		inventory: inventory,
		logger:    logger,
	}
}

func (s *InventoryService) List(ctx context.Context) ([]domain.InventoryRow, error) {
	return s.inventory.List(ctx)
}

// ParseRoastForm reads roast_green_g_<id> fields. Fields with a bad id, a
// blank, negative or non-numeric amount, or an amount that rounds to zero are
// ignored. Repeated ids keep the last value in field-name order.
func ParseRoastForm(form url.Values) []RoastEntry {
	keys := make([]string, 0, len(form))
	for k := range form {
		if strings.HasPrefix(k, RoastFieldPrefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	byID := make(map[int64]int64)
	var order []int64
	for _, k := range keys {
		id, err := strconv.ParseInt(strings.TrimPrefix(k, RoastFieldPrefix), 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		grams, ok := parseGrams(form.Get(k))
		if !ok || grams <= 0 {
			continue
		}
		if _, seen := byID[id]; !seen {
			order = append(order, id)
		}
		byID[id] = grams
	}

	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	entries := make([]RoastEntry, 0, len(order))
	for _, id := range order {
		entries = append(entries, RoastEntry{InventoryID: id, GreenUsed: byID[id]})
	}
	return entries
}

func parseGrams(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	// float64(math.MaxInt64) is 2^63, which does not fit in an int64.
	v = math.Round(v)
	if v >= math.MaxInt64 {
		return 0, false
	}
	return int64(v), true
}

// LogRoastSession moves green stock to roasted stock for every entry at the
// roast yield. Either every row is updated or none is.
func (s *InventoryService) LogRoastSession(ctx context.Context, entries []RoastEntry) error {
	if len(entries) == 0 {
		return &RoastSessionError{Message: "Enter at least one roast amount greater than 0 grams."}
	}

	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.InventoryID)
	}
	rows, err := s.inventory.GetByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("Failed to load inventory for roast session", zap.Error(err))
		return &RoastSessionError{Message: "Unable to load inventory records for roast session.", Err: err}
	}

	adjustments := make([]domain.RoastAdjustment, 0, len(entries))
	for _, e := range entries {
		row, ok := rows[e.InventoryID]
		if !ok {
			return &RoastSessionError{
				Message: fmt.Sprintf("Inventory item %d was not found.", e.InventoryID),
				Err:     domain.ErrInventoryNotFound,
			}
		}
		if e.GreenUsed > row.GreenGrams {
			return &RoastSessionError{
				Message: fmt.Sprintf("Not enough green inventory for item %d.", e.InventoryID),
				Err:     domain.NewValidationError("green_used", "exceeds green inventory", e.GreenUsed),
			}
		}
		adjustments = append(adjustments, domain.NewRoastAdjustment(row, e.GreenUsed))
	}

	if err := s.inventory.ApplyRoast(ctx, adjustments); err != nil {
		if errors.Is(err, domain.ErrInventoryConflict) {
			s.logger.Warn("Inventory changed during roast session", zap.Error(err))
		} else {
			s.logger.Error("Failed to apply roast session", zap.Error(err))
		}
		return &RoastSessionError{Message: "Unable to complete roast session update.", Err: err}
	}

	for _, adj := range adjustments {
		s.logger.Info("Roast logged",
			zap.Int64("inventory_id", adj.InventoryID),
			zap.Int64("green_used", adj.GreenUsed),
			zap.Int64("green_remaining", adj.NewGreenGrams),
			zap.Int64("roasted_total", adj.NewRoastedGrams))
	}
	return nil
}
