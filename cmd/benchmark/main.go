package main

import (
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"
)

var (
	concurrency int
	requests    int
	addr        string
	path        string
	timeout     time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "benchmark",
	Short: "Load-test a running fileserve instance",
	Long: `Open one TCP connection per request, send a GET request line for --path,
and read the response until the server closes the connection.`,
	SilenceUsage: true,
	RunE:         runBenchmark,
}

func init() {
	rootCmd.Flags().IntVarP(&concurrency, "concurrency", "c", 100, "Number of concurrent connections")
	rootCmd.Flags().IntVarP(&requests, "requests", "n", 10000, "Number of requests to make")
	rootCmd.Flags().StringVar(&addr, "addr", "127.0.0.1:7878", "Server address")
	rootCmd.Flags().StringVar(&path, "path", "/index.html", "Request path")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "Per-request deadline")
}

// fetch sends one request and returns the number of response bytes
func fetch(addr, path string, timeout time.Duration) (int, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return 0, err
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(timeout))

	if _, err := fmt.Fprintf(conn, "GET %s HTTP/1.1\r\nHost: %s\r\n\r\n", path, addr); err != nil {
		return 0, err
	}
	n, err := io.Copy(io.Discard, conn)
	if err != nil {
		return int(n), err
	}
	if n == 0 {
		return 0, fmt.Errorf("empty response")
	}
	return int(n), nil
}

// bench issues total requests from workers goroutines and reports progress to out
func bench(out io.Writer, total, workers int, do func() (int, error)) summary {
	perWorker := split(total, workers)
	res := summary{Requests: total}
	var latencies []time.Duration
	var mu sync.Mutex
	var wg sync.WaitGroup

	start := time.Now()
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range perWorker {
				reqNum := w*perWorker + j
				if reqNum >= total {
					return
				}

				t0 := time.Now()
				n, err := do()
				took := time.Since(t0)

				mu.Lock()
				latencies = append(latencies, took)
				if err != nil {
					res.Failures++
					if res.Failures <= 10 { // limit error output
						fmt.Fprintf(out, "Request error: %v\n", err)
					}
				} else {
					res.Successes++
					res.Bytes += int64(n)
				}
				if reqNum%1000 == 0 {
					fmt.Fprintf(out, "Completed %d requests (success: %d, errors: %d)\n",
						reqNum, res.Successes, res.Failures)
				}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	res.Elapsed = time.Since(start)
	res.Min, res.Avg, res.Max = summarize(latencies)
	return res
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	if concurrency <= 0 || requests <= 0 {
		return fmt.Errorf("concurrency and requests must be positive")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Benchmarking %s%s with %d requests using %d concurrent connections\n",
		addr, path, requests, concurrency)

	res := bench(out, requests, concurrency, func() (int, error) {
		return fetch(addr, path, timeout)
	})
	res.write(out)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
