package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"qhse/qcsync/internal/business"
	"qhse/qcsync/internal/model"
	"qhse/qcsync/pkg/config"
	"qhse/qcsync/pkg/infra/mysql"
	"qhse/qcsync/pkg/infra/redis"
	"qhse/qcsync/pkg/logger"
)

var (
	configPath   = flag.String("config", "./config/worker.yaml", "path to the config file")
	testcasePath = flag.String("testcase", "./tools/fasttest/testcases.json", "path to the test case file")
	skipDB       = flag.Bool("skip-db", false, "run the engines only, without MySQL/Redis")
)

// TestCase is one evaluation request to replay.
type TestCase struct {
	ActionType string          `json:"action_type"`
	RequestID  string          `json:"request_id"`
	Data       json.RawMessage `json:"data"`
}

func main() {
	flag.Parse()

	fmt.Println("========================================")
	fmt.Println("  FastTest - QCSYNC evaluation replay")
	fmt.Println("========================================")

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Config loaded: %s\n", cfg.App.Name)

	testCases, err := loadTestCases(*testcasePath)
	if err != nil {
		fmt.Printf("Failed to load test cases: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d test cases from %s\n", len(testCases), *testcasePath)

	log, err := logger.NewZapLogger(cfg.App.LogLevel)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	svc, cleanup, err := buildService(cfg, log)
	if err != nil {
		fmt.Printf("Failed to build service: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	fmt.Println("\n========================================")
	fmt.Println("  Running Test Cases")
	fmt.Println("========================================")

	successCount := 0
	failureCount := 0
	ctx := context.Background()

	for i, tc := range testCases {
		fmt.Printf("\n[Case %d/%d] action=%s\n", i+1, len(testCases), tc.ActionType)
		fmt.Println("----------------------------------------")

		startTime := time.Now()
		cb, err := runCase(ctx, svc, tc)
		duration := time.Since(startTime)

		if err != nil {
			fmt.Printf("FAILED: %v (%v)\n", err, duration)
			failureCount++
			continue
		}

		fmt.Printf("status=%s verdict=%s record=%s (%v)\n", cb.Status, cb.Verdict, cb.RecordID, duration)
		if cb.Error != "" {
			fmt.Printf("rejection: %s\n", cb.Error)
		}
		successCount++
	}

	fmt.Println("\n========================================")
	fmt.Println("  Summary")
	fmt.Println("========================================")
	fmt.Printf("Passed: %d, Failed: %d\n", successCount, failureCount)

	if failureCount > 0 {
		os.Exit(1)
	}
}

func buildService(cfg *config.Config, log logger.Logger) (*business.EvaluationService, func(), error) {
	policy := business.Policy{
		ConformeThreshold: cfg.Quality.ConformeThreshold,
		ReserveThreshold:  cfg.Quality.ReserveThreshold,
		FiveWhysDepth:     cfg.Quality.FiveWhysDepth,
	}

	if *skipDB {
		fmt.Println("Skip-DB mode: MySQL, Redis and the callback queue are disabled")
		return business.NewEvaluationService(policy, nil, nil, nil, "", "", log), func() {}, nil
	}

	dao, err := mysql.NewQualityDAO(cfg.MySQL.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("create quality dao: %w", err)
	}

	pubsub, err := redis.NewPubSub(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		dao.Close()
		return nil, nil, fmt.Errorf("create redis pubsub: %w", err)
	}

	svc := business.NewEvaluationService(policy, dao, pubsub, nil, "", cfg.Redis.NotifyChannel, log)
	cleanup := func() {
		dao.Close()
		pubsub.Close()
	}

	fmt.Println("MySQL and Redis initialized")
	return svc, cleanup, nil
}

func runCase(ctx context.Context, svc *business.EvaluationService, tc TestCase) (*model.EvaluationCallback, error) {
	switch tc.ActionType {
	case model.ActionNCAnalyze:
		var payload model.NCAnalyzePayload
		if err := json.Unmarshal(tc.Data, &payload); err != nil {
			return nil, err
		}
		return svc.AnalyzeNC(ctx, tc.RequestID, &payload)

	case model.ActionAuditEvaluate:
		var payload model.AuditEvaluatePayload
		if err := json.Unmarshal(tc.Data, &payload); err != nil {
			return nil, err
		}
		return svc.EvaluateAudit(ctx, tc.RequestID, &payload)

	case model.ActionControlEvaluate:
		var payload model.ControlEvaluatePayload
		if err := json.Unmarshal(tc.Data, &payload); err != nil {
			return nil, err
		}
		return svc.EvaluateControl(ctx, tc.RequestID, &payload)
	}

	return nil, fmt.Errorf("unknown action type: %s", tc.ActionType)
}

func loadTestCases(path string) ([]TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cases []TestCase
	if err := json.Unmarshal(data, &cases); err != nil {
		return nil, err
	}

	return cases, nil
}
