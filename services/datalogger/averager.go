package datalogger

// averager accumulates raw samples between emissions. Between emissions
// 0 <= count < the configured datapoint target holds.
type averager struct {
	total float64
	count int
}

func (a *averager) add(v float64) {
	a.total += v
	a.count++
}

// mean divides by the configured target, not the observed count.
func (a *averager) mean(target int) float64 {
	return a.total / float64(target)
}

func (a *averager) reset() {
	a.total = 0
	a.count = 0
}
