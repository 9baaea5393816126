// Package parallel contains the bounded-concurrency loop helper used by
// evaluation and batch scoring.
package parallel

import "sync"

// ForEach runs body(i) for every i in [0, length) on at most limit
// concurrent goroutines. It returns after every body call has finished.
func ForEach(length, limit int, body func(i int)) {
	if length <= 0 {
		return
	}
	if limit <= 0 {
		limit = 1
	}
	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup
	wg.Add(length)
	for i := 0; i < length; i++ {
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			body(i)
		}(i)
	}
	wg.Wait()
}
