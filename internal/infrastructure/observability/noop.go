package observability

import "time"

type Noop struct{}

func (Noop) ObserveRequest(string, string, int, time.Duration) {}
