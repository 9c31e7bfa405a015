package rebates_module

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"solarhub/commons/logger"
	"solarhub/database/entities"
)

var ErrInvalidPostcode = errors.New("invalid postcode")

type ZoneRating struct {
	Zone        int     `json:"zone"`
	ZoneRating  float64 `json:"zoneRating"`
	State       string  `json:"state,omitempty"`
	Description string  `json:"description,omitempty"`
	Fallback    bool    `json:"fallback"`
}

// DefaultZone is used when a postcode cannot be placed.
var DefaultZone = ZoneRating{Zone: 3, ZoneRating: 1.382, Description: "Unknown postcode (default Zone 3)", Fallback: true}

type zoneRange struct {
	start, end int
	zone       ZoneRating
}

// Ranges are checked in order. ACT sits inside the NSW block so it comes first.
var defaultZoneRanges = []zoneRange{
	{2600, 2629, ZoneRating{Zone: 3, ZoneRating: 1.382, State: "ACT", Description: "Australian Capital Territory (default)"}},
	{6000, 6799, ZoneRating{Zone: 2, ZoneRating: 1.536, State: "WA", Description: "Western Australia (default)"}},
	{6800, 6999, ZoneRating{Zone: 1, ZoneRating: 1.622, State: "WA", Description: "North WA (default)"}},
	{4000, 4399, ZoneRating{Zone: 2, ZoneRating: 1.536, State: "QLD", Description: "Brisbane area (default)"}},
	{4400, 4999, ZoneRating{Zone: 1, ZoneRating: 1.622, State: "QLD", Description: "North Queensland (default)"}},
	{2000, 2999, ZoneRating{Zone: 3, ZoneRating: 1.382, State: "NSW", Description: "New South Wales (default)"}},
	{3000, 3999, ZoneRating{Zone: 3, ZoneRating: 1.382, State: "VIC", Description: "Victoria (default)"}},
	{5000, 5999, ZoneRating{Zone: 3, ZoneRating: 1.382, State: "SA", Description: "South Australia (default)"}},
	{7000, 7999, ZoneRating{Zone: 4, ZoneRating: 1.185, State: "TAS", Description: "Tasmania (default)"}},
	{800, 999, ZoneRating{Zone: 1, ZoneRating: 1.622, State: "NT", Description: "Northern Territory (default)"}},
}

// DefaultZoneRating places a postcode using the built-in state ranges.
func DefaultZoneRating(postcode int) ZoneRating {
	for _, r := range defaultZoneRanges {
		if postcode >= r.start && postcode <= r.end {
			z := r.zone
			z.Fallback = true
			return z
		}
	}
	return DefaultZone
}

// ParsePostcode accepts the leading digits of a postcode, so "6000 WA" reads as 6000.
func ParsePostcode(postcode string) (int, error) {
	s := strings.TrimSpace(postcode)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPostcode, postcode)
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPostcode, postcode)
	}
	return n, nil
}

type ZoneService struct {
	db *gorm.DB
}

func NewZoneService(db *gorm.DB) *ZoneService {
	return &ZoneService{db: db}
}

// ByPostcode looks the postcode up in postcode_zone_ratings, preferring the narrowest
// matching range. A missing row or a failed query falls back to DefaultZoneRating; only an
// unparseable postcode is an error.
func (s *ZoneService) ByPostcode(ctx context.Context, postcode string) (ZoneRating, error) {
	log := logger.FromContext(ctx)
	n, err := ParsePostcode(postcode)
	if err != nil {
		log.Warn("Invalid postcode", zap.String("postcode", postcode))
		return ZoneRating{}, err
	}

	var row entities.PostcodeZoneRating
	err = s.db.WithContext(ctx).
		Where("postcode_start <= ? AND postcode_end >= ?", n, n).
		Order("postcode_end - postcode_start asc").
		First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		log.Warn("No zone rating found for postcode", zap.Int("postcode", n))
		return DefaultZoneRating(n), nil
	case err != nil:
		log.Error("Error looking up zone rating", zap.Int("postcode", n), zap.Error(err))
		return DefaultZoneRating(n), nil
	}

	return ZoneRating{
		Zone:        row.Zone,
		ZoneRating:  row.ZoneRating,
		State:       row.State,
		Description: row.Description,
	}, nil
}

// List returns every configured range ordered by state then postcode.
func (s *ZoneService) List(ctx context.Context) ([]entities.PostcodeZoneRating, error) {
	var rows []entities.PostcodeZoneRating
	if err := s.db.WithContext(ctx).Order("state asc").Order("postcode_start asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list zone ratings: %w", err)
	}
	return rows, nil
}
