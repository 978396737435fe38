package tour

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/evcraddock/showing-hive/internal/clock"
	"github.com/evcraddock/showing-hive/internal/property"
	"github.com/evcraddock/showing-hive/internal/schedule"
)

// Showings looks up showings by ID.
type Showings interface {
	Get(ctx context.Context, id string) (*schedule.Showing, error)
}

// Properties looks up properties by ID.
type Properties interface {
	Get(ctx context.Context, id string) (*property.Property, error)
}

// Service builds and stores tours.
type Service struct {
	repo     *Repository
	showings Showings
	props    Properties
	clock    clock.Clock
	duration time.Duration
}

// NewService creates a tour service. duration is the showing slot length.
func NewService(repo *Repository, showings Showings, props Properties, clk clock.Clock, duration time.Duration) *Service {
	return &Service{repo: repo, showings: showings, props: props, clock: clk, duration: duration}
}

// Create builds an itinerary from approved showings, ordered by start time.
func (s *Service) Create(ctx context.Context, buyerName string, showingIDs []string) (*Tour, error) {
	if len(showingIDs) == 0 {
		return nil, fmt.Errorf("%w: a tour needs at least one showing", schedule.ErrInvalidInput)
	}

	seen := make(map[string]bool, len(showingIDs))
	var stops []Stop
	for _, id := range showingIDs {
		id = strings.TrimSpace(id)
		if seen[id] {
			continue
		}
		seen[id] = true

		sh, err := s.showings.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if sh.Status != schedule.StatusApproved {
			return nil, fmt.Errorf("showing %s is %s: %w", sh.ID, sh.Status, schedule.ErrInvalidState)
		}
		p, err := s.props.Get(ctx, sh.PropertyID)
		if err != nil {
			return nil, fmt.Errorf("loading property %s: %w", sh.PropertyID, err)
		}

		stops = append(stops, Stop{
			ShowingID:    sh.ID,
			PropertyID:   p.ID,
			PropertyName: p.Name,
			Address:      p.Address,
			ScheduledAt:  sh.ScheduledAt,
			EndsAt:       sh.ScheduledAt.Add(s.duration),
		})
	}

	sort.SliceStable(stops, func(i, j int) bool {
		return stops[i].ScheduledAt.Before(stops[j].ScheduledAt)
	})

	t := &Tour{
		ID:        uuid.NewString(),
		BuyerName: strings.TrimSpace(buyerName),
		Stops:     stops,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.Insert(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Get returns a saved tour.
func (s *Service) Get(ctx context.Context, id string) (*Tour, error) {
	return s.repo.Get(ctx, id)
}

// List returns saved tours, newest first.
func (s *Service) List(ctx context.Context) ([]*Tour, error) {
	return s.repo.List(ctx)
}
