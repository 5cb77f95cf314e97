package filter

import (
	"github.com/samber/lo"

	"github.com/dharmasatrya/trainbooking/internal/models"
	"github.com/dharmasatrya/trainbooking/internal/timezone"
)

// RouteStops annotates stations with their dwell time. A station gets one
// only when both times are known and differ; a stop spanning midnight wraps.
func RouteStops(stations []models.RouteStation) []models.RouteStop {
	return lo.Map(stations, func(st models.RouteStation, _ int) models.RouteStop {
		stop := models.RouteStop{RouteStation: st}
		if st.ArrivalTime == nil || st.DepartureTime == nil || *st.ArrivalTime == *st.DepartureTime {
			return stop
		}
		ah, am, as, err := timezone.ParseClock(*st.ArrivalTime)
		if err != nil {
			return stop
		}
		dh, dm, ds, err := timezone.ParseClock(*st.DepartureTime)
		if err != nil {
			return stop
		}
		seconds := (dh*3600 + dm*60 + ds) - (ah*3600 + am*60 + as)
		if seconds < 0 {
			seconds += 24 * 3600
		}
		minutes := seconds / 60
		stop.StopMinutes = &minutes
		return stop
	})
}
