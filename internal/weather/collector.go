package weather

import (
	"context"
	"log"
	"time"
)

// Collector gathers observations for a fixed, ordered city list.
type Collector struct {
	fetcher Fetcher
	cities  []string
	delay   time.Duration
}

// NewCollector creates a Collector. delay is the fixed wait between
// consecutive city lookups; it is a static spacing to stay under the API's
// rate limit, not an adaptive backoff.
func NewCollector(fetcher Fetcher, cities []string, delay time.Duration) *Collector {
	return &Collector{
		fetcher: fetcher,
		cities:  cities,
		delay:   delay,
	}
}

// Collect fetches each configured city in order and returns the successful
// records, preserving city order. A failed lookup is logged and skipped; if
// every lookup fails the batch is empty and the caller treats that as
// "nothing to report".
func (c *Collector) Collect(ctx context.Context) Batch {
	var batch Batch

	for i, city := range c.cities {
		if i > 0 && c.delay > 0 {
			if err := sleep(ctx, c.delay); err != nil {
				log.Printf("collector: interrupted before %s: %v", city, err)
				return batch
			}
		}

		rec, err := c.fetcher.Fetch(ctx, city)
		if err != nil {
			log.Printf("collector: fetch failed for %s: %v", city, err)
			continue
		}
		batch = append(batch, rec)
	}

	return batch
}

// sleep waits for d or until the context is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
