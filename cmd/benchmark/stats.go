package main

import (
	"fmt"
	"io"
	"time"
)

// summary aggregates the outcome of a benchmark run
type summary struct {
	Requests  int
	Successes int
	Failures  int
	Bytes     int64
	Elapsed   time.Duration
	Min       time.Duration
	Avg       time.Duration
	Max       time.Duration
}

// split returns how many requests each of workers goroutines issues so that
// together they cover total
func split(total, workers int) int {
	return (total + workers - 1) / workers
}

// summarize computes latency statistics; all zero when no request completed
func summarize(latencies []time.Duration) (minT, avgT, maxT time.Duration) {
	if len(latencies) == 0 {
		return 0, 0, 0
	}
	minT, maxT = latencies[0], latencies[0]
	var total time.Duration
	for _, d := range latencies {
		total += d
		minT = min(minT, d)
		maxT = max(maxT, d)
	}
	return minT, total / time.Duration(len(latencies)), maxT
}

func (s summary) rps() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Requests) / s.Elapsed.Seconds()
}

func (s summary) write(w io.Writer) {
	fmt.Fprintf(w, "\nBenchmark Results:\n")
	fmt.Fprintf(w, "Total requests: %d\n", s.Requests)
	fmt.Fprintf(w, "Successful requests: %d\n", s.Successes)
	fmt.Fprintf(w, "Failed requests: %d\n", s.Failures)
	fmt.Fprintf(w, "Bytes received: %d\n", s.Bytes)
	fmt.Fprintf(w, "Total time: %v\n", s.Elapsed)
	fmt.Fprintf(w, "Requests per second: %.2f\n", s.rps())
	fmt.Fprintf(w, "Min response time: %v\n", s.Min)
	fmt.Fprintf(w, "Avg response time: %v\n", s.Avg)
	fmt.Fprintf(w, "Max response time: %v\n", s.Max)
}
