package api

import (
	"context"
	"errors"
	"fmt"
)

// scheduleStats refreshes the records gauge for every resource on schedule.
// A failing resource does not stop the others from being counted.
func scheduleStats(runtime *Runtime, domain *Domain, schedule string) error {
	job := func(ctx context.Context) error {
		var errs []error
		for _, sys := range domain.Systems() {
			n, err := sys.Count(ctx)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			runtime.Metrics.SetRecords(sys.Resource().Name, n)
		}
		return errors.Join(errs...)
	}

	if err := runtime.Scheduler.Add("record-stats", schedule, job); err != nil {
		return fmt.Errorf("schedule stats: %w", err)
	}
	return nil
}
