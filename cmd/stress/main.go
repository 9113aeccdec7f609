package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	orderURL      = "http://localhost:8080"
	inventoryURL  = "http://localhost:8081"
	authToken     = "valid-token"
	item          = "widget"
	totalRequests = 50
)

// Fires concurrent single-unit orders at the coordinator and checks that
// admission matches first-committer-wins: successes equal the starting stock,
// everything else is rejected, and the ledger ends at zero.
func main() {
	client := &http.Client{Timeout: 10 * time.Second}

	initialStock, err := fetchStock(client)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read initial stock")
	}

	var successCount atomic.Int32
	var rejectCount atomic.Int32
	var failCount atomic.Int32

	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			req, err := http.NewRequest(http.MethodPost,
				fmt.Sprintf("%s/order/%s/1", orderURL, item), nil)
			if err != nil {
				failCount.Add(1)
				return
			}
			req.Header.Set("Authorization", "Bearer "+authToken)

			resp, err := client.Do(req)
			if err != nil {
				failCount.Add(1)
				return
			}
			resp.Body.Close()

			switch resp.StatusCode {
			case http.StatusCreated:
				successCount.Add(1)
			case http.StatusConflict:
				rejectCount.Add(1)
			default:
				failCount.Add(1)
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	success := successCount.Load()
	reject := rejectCount.Load()
	fail := failCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Initial Stock:    %d\n", initialStock)
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Committed:        %d\n", success)
	fmt.Printf("Rejected:         %d\n", reject)
	fmt.Printf("Failed:           %d\n", fail)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	expected := int32(initialStock)
	if totalRequests < initialStock {
		expected = int32(totalRequests)
	}
	if success == expected && fail == 0 {
		fmt.Printf("PASS: exactly %d orders committed\n", expected)
	} else {
		fmt.Printf("FAIL: expected %d committed, got %d (failed %d)\n", expected, success, fail)
	}

	finalStock, err := fetchStock(client)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read final stock")
	}
	fmt.Printf("Final Stock: %d\n", finalStock)

	if finalStock == initialStock-int(success) {
		fmt.Println("PASS: ledger matches committed orders")
	} else {
		fmt.Printf("FAIL: expected stock %d, got %d\n", initialStock-int(success), finalStock)
	}
}

func fetchStock(client *http.Client) (int, error) {
	resp, err := client.Get(fmt.Sprintf("%s/stock/%s", inventoryURL, item))
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("inventory returned status %s", resp.Status)
	}

	var reply struct {
		Stock int `json:"stock"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return 0, err
	}
	return reply.Stock, nil
}
