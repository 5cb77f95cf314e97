package aggregator

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dharmasatrya/trainbooking/internal/log"
	"github.com/dharmasatrya/trainbooking/internal/models"
	"github.com/dharmasatrya/trainbooking/internal/pricing"
	"github.com/dharmasatrya/trainbooking/internal/seatmap"
)

type LayoutSource interface {
	GetAvailableSeats(ctx context.Context, scheduleID int) (models.TrainStructure, error)
}

type Config struct {
	Timeout       time.Duration
	MaxConcurrent int
	Location      *time.Location
}

func DefaultConfig(loc *time.Location) Config {
	return Config{
		Timeout:       3 * time.Second,
		MaxConcurrent: 8,
		Location:      loc,
	}
}

// Aggregator turns a schedule list into cards, fetching the seat layout of
// every schedule concurrently when carriage summaries are asked for.
type Aggregator struct {
	config Config
}

type Result struct {
	Cards           []models.ScheduleCard
	LayoutsQueried  int
	LayoutsFailed   int
	FailedSchedules []int
}

func NewAggregator(config Config) *Aggregator {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 1
	}
	return &Aggregator{config: config}
}

// Enrich never fails as a whole: a schedule whose layout could not be fetched
// keeps its card with LayoutMissing set. Card order follows schedules.
func (a *Aggregator) Enrich(ctx context.Context, src LayoutSource, schedules []models.Schedule, withLayouts bool) *Result {
	result := &Result{Cards: make([]models.ScheduleCard, len(schedules))}
	for i, s := range schedules {
		result.Cards[i] = a.card(s)
	}
	if !withLayouts || len(schedules) == 0 {
		return result
	}

	fetchCtx := ctx
	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}

	type layoutResult struct {
		index     int
		structure models.TrainStructure
		err       error
	}

	results := make([]layoutResult, len(schedules))
	g := new(errgroup.Group)
	g.SetLimit(a.config.MaxConcurrent)

	for i, s := range schedules {
		i, s := i, s
		g.Go(func() error {
			structure, err := src.GetAvailableSeats(fetchCtx, s.ScheduleID)
			results[i] = layoutResult{index: i, structure: structure, err: err}
			return nil
		})
	}
	_ = g.Wait()

	result.LayoutsQueried = len(schedules)
	for _, r := range results {
		s := schedules[r.index]
		if r.err != nil {
			log.FromContext(ctx).WithError(r.err).WithField("schedule_id", s.ScheduleID).Warn("seat layout unavailable")
			result.LayoutsFailed++
			result.FailedSchedules = append(result.FailedSchedules, s.ScheduleID)
			result.Cards[r.index].LayoutMissing = true
			continue
		}
		prices := pricing.NewTable(s, r.structure.Carriages, a.config.Location)
		result.Cards[r.index].Carriages = seatmap.Summarize(r.structure, prices)
	}
	sort.Ints(result.FailedSchedules)

	return result
}

func (a *Aggregator) card(s models.Schedule) models.ScheduleCard {
	card := models.ScheduleCard{
		Schedule:     s,
		DepartureDay: pricing.DateLabel(s.RealDepartureDateFromCity),
		ArrivalDay:   pricing.DateLabel(s.RealDepartureDateToCity),
	}
	if d, err := pricing.ScheduleDuration(s, a.config.Location); err == nil {
		card.TravelTime = pricing.TravelTimeLabel(d)
	}
	return card
}
