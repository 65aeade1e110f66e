package metrics

import (
	"sync/atomic"
)

type Metrics struct {
	problemsAdded     int64
	upsertRacesWon    int64
	duplicateRejects  int64
	eventsBroadcast   int64
	activeSubscribers int64
}

var global = &Metrics{}

func IncrementProblemsAdded() {
	atomic.AddInt64(&global.problemsAdded, 1)
}

func IncrementUpsertRacesWon() {
	atomic.AddInt64(&global.upsertRacesWon, 1)
}

func IncrementDuplicateRejects() {
	atomic.AddInt64(&global.duplicateRejects, 1)
}

func IncrementEventsBroadcast() {
	atomic.AddInt64(&global.eventsBroadcast, 1)
}

func SetActiveSubscribers(count int64) {
	atomic.StoreInt64(&global.activeSubscribers, count)
}

func GetProblemsAdded() int64 {
	return atomic.LoadInt64(&global.problemsAdded)
}

func GetUpsertRacesWon() int64 {
	return atomic.LoadInt64(&global.upsertRacesWon)
}

func GetDuplicateRejects() int64 {
	return atomic.LoadInt64(&global.duplicateRejects)
}

func GetEventsBroadcast() int64 {
	return atomic.LoadInt64(&global.eventsBroadcast)
}

func GetActiveSubscribers() int64 {
	return atomic.LoadInt64(&global.activeSubscribers)
}

func Reset() {
	atomic.StoreInt64(&global.problemsAdded, 0)
	atomic.StoreInt64(&global.upsertRacesWon, 0)
	atomic.StoreInt64(&global.duplicateRejects, 0)
	atomic.StoreInt64(&global.eventsBroadcast, 0)
	atomic.StoreInt64(&global.activeSubscribers, 0)
}
