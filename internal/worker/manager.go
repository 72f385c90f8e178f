package worker

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/atomic"

	"qhse/qcsync/internal/business"
	"qhse/qcsync/internal/domains"
	"qhse/qcsync/internal/framework"
	"qhse/qcsync/pkg/config"
	"qhse/qcsync/pkg/infra/mysql"
	"qhse/qcsync/pkg/infra/redis"
	"qhse/qcsync/pkg/lmstfy"
	"qhse/qcsync/pkg/logger"
)

const defaultNotifyChannel = "quality_evaluation_complete"

// Manager owns the worker fleet and the shared infrastructure clients.
type Manager interface {
	Start() error
	Shutdown()
}

// ManagerInstance is the concrete manager.
type ManagerInstance struct {
	ctx          context.Context
	cfg          *config.Config
	lmstfyClient *lmstfy.Client
	dao          *mysql.QualityDAO
	pubsub       *redis.PubSub
	workers      []Worker
	closing      *atomic.Bool
	shutdownCh   chan struct{}
	wg           sync.WaitGroup
	logger       logger.Logger
}

// NewManagerInstance connects the shared clients and prepares the fleet.
func NewManagerInstance(cfg *config.Config, log logger.Logger) (Manager, error) {
	ctx := context.Background()

	lmstfyClient, err := lmstfy.NewClient(cfg.Lmstfy.Host, cfg.Lmstfy.Port, cfg.Lmstfy.Namespace, cfg.Lmstfy.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create lmstfy client: %w", err)
	}

	var dao *mysql.QualityDAO
	if cfg.MySQL.DSN != "" {
		dao, err = mysql.NewQualityDAO(cfg.MySQL.DSN)
		if err != nil {
			return nil, fmt.Errorf("failed to create quality dao: %w", err)
		}
	}

	var pubsub *redis.PubSub
	if cfg.Redis.Addr != "" {
		pubsub, err = redis.NewPubSub(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis pubsub: %w", err)
		}
	}

	log.Infof(ctx, "[Manager] Initialized, workers: %d", len(cfg.Workers))

	return &ManagerInstance{
		ctx:          ctx,
		cfg:          cfg,
		lmstfyClient: lmstfyClient,
		dao:          dao,
		pubsub:       pubsub,
		closing:      atomic.NewBool(false),
		shutdownCh:   make(chan struct{}),
		workers:      make([]Worker, 0),
		logger:       log,
	}, nil
}

// Start loads and runs every configured worker, then blocks until Shutdown.
func (m *ManagerInstance) Start() error {
	m.logger.Infof(m.ctx, "[Manager] Starting...")

	if err := m.loadWorkers(); err != nil {
		return fmt.Errorf("failed to load workers: %w", err)
	}

	m.logger.Infof(m.ctx, "[Manager] All workers loaded, count: %d", len(m.workers))

	for _, worker := range m.workers {
		w := worker
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			w.Start()
		}()
		m.logger.Infof(m.ctx, "[Manager] Worker started: %s", w.GetName())
	}

	m.logger.Infof(m.ctx, "[Manager] Start success")

	<-m.shutdownCh

	return nil
}

// Shutdown stops the fleet and releases the shared clients. Safe to call
// more than once.
func (m *ManagerInstance) Shutdown() {
	m.logger.Infof(m.ctx, "[Manager] Began to close")

	if m.closing.CAS(false, true) {
		for _, worker := range m.workers {
			m.logger.Infof(m.ctx, "[Manager] Shutting down worker: %s", worker.GetName())
			worker.Shutdown()
		}

		m.wg.Wait()

		if m.dao != nil {
			if err := m.dao.Close(); err != nil {
				m.logger.Warnf(m.ctx, "[Manager] DAO close failed: %v", err)
			}
		}
		if m.pubsub != nil {
			if err := m.pubsub.Close(); err != nil {
				m.logger.Warnf(m.ctx, "[Manager] PubSub close failed: %v", err)
			}
		}

		close(m.shutdownCh)

		m.logger.Infof(m.ctx, "[Manager] Shutdown complete")
	}
}

// loadWorkers builds one worker per config entry. Each worker gets its own
// evaluation service bound to its callback queue.
func (m *ManagerInstance) loadWorkers() error {
	notifyChannel := m.cfg.Redis.NotifyChannel
	if notifyChannel == "" {
		notifyChannel = defaultNotifyChannel
	}

	policy := business.Policy{
		ConformeThreshold: m.cfg.Quality.ConformeThreshold,
		ReserveThreshold:  m.cfg.Quality.ReserveThreshold,
		FiveWhysDepth:     m.cfg.Quality.FiveWhysDepth,
	}

	for _, workerCfg := range m.cfg.Workers {
		subCfg := &framework.SubscriberConfig{
			QueueName:    workerCfg.QueueName,
			Concurrency:  workerCfg.Subscriber.Threads,
			Rate:         workerCfg.Subscriber.Rate,
			Timeout:      workerCfg.Subscriber.Timeout,
			TTR:          workerCfg.Subscriber.TTR,
			ErrorBackoff: workerCfg.Subscriber.ErrorBackoff,
		}

		procCfg := &framework.ProcessorConfig{
			Concurrency: workerCfg.Processor.Threads,
			BufferSize:  workerCfg.Processor.BufferSize,
			Timeout:     workerCfg.Processor.Timeout,
		}

		svc := business.NewEvaluationService(
			policy,
			m.dao,
			m.pubsub,
			m.lmstfyClient,
			workerCfg.CallbackQueue,
			notifyChannel,
			m.logger,
		)

		getProcess := domains.GetProcess(m.logger, svc)

		worker, err := NewWorkerInstance(
			m.ctx,
			workerCfg.Name,
			subCfg,
			procCfg,
			m.lmstfyClient,
			getProcess,
			m.logger,
		)
		if err != nil {
			return fmt.Errorf("failed to create worker %q: %w", workerCfg.Name, err)
		}

		m.workers = append(m.workers, worker)
	}

	return nil
}
