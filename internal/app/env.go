// Package app — явная сборка компонентов процесса: без
// runtime-контейнера, все зависимости передаются конструкторами.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/shaiso/Radiola/internal/lock"
	"github.com/shaiso/Radiola/internal/mq"
	"github.com/shaiso/Radiola/internal/radio"
	"github.com/shaiso/Radiola/internal/repo"
	"github.com/shaiso/Radiola/internal/sched"
	"github.com/shaiso/Radiola/internal/sched/tasks"
)

// Env — окружение процесса: подключение к БД и сборка
// коллабораторов. Все зависимости собираются явно, из переменных
// окружения процесса.
type Env struct {
	Logger *slog.Logger

	pool *pgxpool.Pool

	mqOnce    sync.Once
	mqConn    *mq.Connection
	publisher tasks.EventPublisher
}

// NewEnv создаёт окружение и подключается к БД.
func NewEnv(ctx context.Context, logger *slog.Logger) (*Env, error) {
	pool, err := repo.NewPool(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	return &Env{
		Logger: logger,
		pool:   pool,
	}, nil
}

// Close освобождает ресурсы окружения.
func (e *Env) Close() {
	if e.mqConn != nil {
		_ = e.mqConn.Close()
	}
	if e.pool != nil {
		e.pool.Close()
	}
}

// Stations возвращает репозиторий станций.
func (e *Env) Stations() *repo.StationRepo {
	return repo.NewStationRepo(e.pool)
}

// Adapters возвращает backend-резолвер.
func (e *Env) Adapters() *radio.Adapters {
	return radio.NewAdapters(liquidsoapTimeout(), e.Logger)
}

// Publisher возвращает publisher событий, если задан RABBITMQ_URL.
// Соединение устанавливается один раз на процесс.
func (e *Env) Publisher(ctx context.Context) tasks.EventPublisher {
	e.mqOnce.Do(func() {
		url := os.Getenv("RABBITMQ_URL")
		if url == "" {
			return
		}

		conn, err := mq.NewConnection(url, e.Logger)
		if err != nil {
			e.Logger.Warn("RabbitMQ not available, events will not be published", "error", err)
			return
		}
		e.mqConn = conn

		if err := mq.SetupTopology(ctx, conn); err != nil {
			e.Logger.Warn("failed to setup mq topology", "error", err)
		}
		e.publisher = mq.NewPublisher(conn, e.Logger)
	})
	return e.publisher
}

// LockStore возвращает хранилище блокировок по LOCK_BACKEND:
// postgres (default), redis, memory.
func (e *Env) LockStore() (lock.Store, error) {
	switch backend := os.Getenv("LOCK_BACKEND"); backend {
	case "", "postgres":
		return lock.NewPGStore(e.pool), nil
	case "redis":
		opts, err := redis.ParseURL(redisURL())
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return lock.NewRedisStore(redis.NewClient(opts)), nil
	case "memory":
		return lock.NewMemStore(), nil
	default:
		return nil, fmt.Errorf("unknown LOCK_BACKEND %q", backend)
	}
}

// NowPlayingTask собирает задачу NowPlaying (также обслуживает feedback).
func (e *Env) NowPlayingTask(ctx context.Context) *tasks.NowPlaying {
	return tasks.NewNowPlaying(tasks.NowPlayingConfig{
		Stations:  e.Stations(),
		Histories: repo.NewHistoryRepo(e.pool),
		Media:     repo.NewMediaRepo(e.pool),
		Adapters:  e.Adapters(),
		Publisher: e.Publisher(ctx),
		Logger:    e.Logger,
	})
}

// Runner собирает планировщик со всеми ярусами.
func (e *Env) Runner(ctx context.Context) (*sched.Runner, error) {
	store, err := e.LockStore()
	if err != nil {
		return nil, err
	}

	stationRepo := repo.NewStationRepo(e.pool)
	requestRepo := repo.NewRequestRepo(e.pool)
	historyRepo := repo.NewHistoryRepo(e.pool)
	mediaRepo := repo.NewMediaRepo(e.pool)
	adapters := e.Adapters()
	publisher := e.Publisher(ctx)

	radioRequests := tasks.NewRadioRequests(tasks.RadioRequestsConfig{
		Stations:  stationRepo,
		Requests:  requestRepo,
		Histories: historyRepo,
		Adapters:  adapters,
		Publisher: publisher,
		Logger:    e.Logger,
	})

	nowPlaying := tasks.NewNowPlaying(tasks.NowPlayingConfig{
		Stations:  stationRepo,
		Histories: historyRepo,
		Media:     mediaRepo,
		Adapters:  adapters,
		Publisher: publisher,
		Logger:    e.Logger,
	})

	return sched.New(sched.Config{
		Locks:  lock.NewManager(store, e.Logger),
		Logger: e.Logger,

		FastTasks:   []sched.Task{nowPlaying},
		MinuteTasks: []sched.Task{radioRequests},
		HourlyTasks: []sched.Task{
			tasks.NewHistoryCleanup(historyRepo, historyKeepDays(), e.Logger),
			tasks.NewAnalytics(requestRepo, e.Logger),
		},
	}), nil
}

// liquidsoapTimeout — таймаут телнет-вызова из LIQUIDSOAP_TIMEOUT_SEC.
func liquidsoapTimeout() time.Duration {
	if v := os.Getenv("LIQUIDSOAP_TIMEOUT_SEC"); v != "" {
		if sec, err := strconv.Atoi(v); err == nil && sec > 0 {
			return time.Duration(sec) * time.Second
		}
	}
	return 3 * time.Second
}

// historyKeepDays — срок хранения истории из HISTORY_KEEP_DAYS.
func historyKeepDays() int {
	if v := os.Getenv("HISTORY_KEEP_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil {
			return days
		}
	}
	return 0 // default задачи
}

// redisURL — адрес Redis из REDIS_URL.
func redisURL() string {
	if v := os.Getenv("REDIS_URL"); v != "" {
		return v
	}
	return "redis://localhost:6379/1"
}
