package content

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/JaimeStill/masteryhub/pkg/cache"
	"github.com/JaimeStill/masteryhub/pkg/metrics"
	"github.com/JaimeStill/masteryhub/pkg/repository"
)

type repo struct {
	db       *gorm.DB
	resource Resource
	cache    cache.System
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

// Option configures optional collaborators of a content System.
type Option func(*repo)

// WithCache caches list results and invalidates them on writes.
func WithCache(c cache.System) Option {
	return func(r *repo) { r.cache = c }
}

// WithMetrics records operation outcomes and latency.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *repo) { r.metrics = m }
}

// WithClock overrides the source of creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *repo) { r.now = now }
}

// New creates a content System for resource backed by db. Each call
// derives a fresh session bound to the request context.
func New(db *gorm.DB, resource Resource, logger *slog.Logger, opts ...Option) System {
	r := &repo{
		db:       db,
		resource: resource,
		logger:   logger.With("system", resource.Name),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.cache == nil {
		r.cache = cache.Noop()
	}

	return r
}

func (r *repo) Resource() Resource {
	return r.resource
}

func (r *repo) Handler(maxBodySize int64) *Handler {
	return NewHandler(r, r.logger, maxBodySize)
}

func (r *repo) session(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table(r.resource.Table)
}

func (r *repo) notFound(id int64) error {
	return &NotFoundError{Label: r.resource.Label, ID: id}
}

func (r *repo) List(ctx context.Context) (records []Record, err error) {
	defer r.observe("list", time.Now(), &err)

	return r.cachedList(ctx, "list", func(s *gorm.DB) *gorm.DB { return s }, "get "+r.resource.Plural)
}

func (r *repo) ListByCategory(ctx context.Context, category string) (records []Record, err error) {
	defer r.observe("list_by_category", time.Now(), &err)

	return r.cachedList(
		ctx,
		"category:"+category,
		func(s *gorm.DB) *gorm.DB { return s.Where("category = ?", category) },
		"get "+r.resource.Plural+" by category",
	)
}

func (r *repo) cachedList(
	ctx context.Context,
	key string,
	scope func(*gorm.DB) *gorm.DB,
	op string,
) ([]Record, error) {
	ns := r.cacheNamespace()

	// The generation is read before the query so a write that lands in
	// between retires the key this result is stored under.
	gen, genErr := r.cache.Generation(ctx, ns)
	if genErr != nil {
		r.logger.Warn("cache generation read failed", "namespace", ns, "error", genErr)
	}
	key = ns + strconv.FormatInt(gen, 10) + ":" + key

	var records []Record
	if genErr == nil {
		if hit, err := r.cache.Get(ctx, key, &records); err != nil {
			r.logger.Warn("cache read failed", "key", key, "error", err)
		} else if hit {
			return fillCreatedAt(records, r.utcNow()), nil
		}
	}

	records = make([]Record, 0)
	err := scope(r.session(ctx)).
		Order("created_at DESC").
		Order("id DESC").
		Find(&records).Error
	if err != nil {
		return nil, &PersistenceError{Op: op, Err: err}
	}

	if genErr == nil {
		if err := r.cache.Set(ctx, key, records); err != nil {
			r.logger.Warn("cache write failed", "key", key, "error", err)
		}
	}

	return fillCreatedAt(records, r.utcNow()), nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (record *Record, err error) {
	defer r.observe("create", time.Now(), &err)

	cmd = cmd.Normalize()
	if err := validateCreate(cmd); err != nil {
		return nil, err
	}

	created := r.utcNow()
	rec, err := repository.WithTx(ctx, r.db, func(tx *gorm.DB) (Record, error) {
		rec := Record{
			Title:     cmd.Title,
			Content:   cmd.Content,
			Category:  cmd.Category,
			CreatedAt: &created,
		}
		if err := tx.Table(r.resource.Table).Create(&rec).Error; err != nil {
			return Record{}, err
		}
		return rec, nil
	})
	if err != nil {
		return nil, &PersistenceError{Op: "add " + r.resource.Noun(), Err: err}
	}

	var fresh Record
	if err := r.session(ctx).First(&fresh, rec.ID).Error; err != nil {
		r.logger.Warn("refresh after create failed", "id", rec.ID, "error", err)
	} else {
		rec = fresh
	}

	r.invalidate(ctx)
	r.logger.Info(r.resource.Noun()+" created", "id", rec.ID, "category", rec.Category)
	return &rec, nil
}

func (r *repo) Update(ctx context.Context, id int64, cmd UpdateCommand) (record *Record, err error) {
	defer r.observe("update", time.Now(), &err)

	op := "update " + r.resource.Noun()

	var rec Record
	if err := r.session(ctx).First(&rec, id).Error; err != nil {
		if mapped := repository.MapError(err, r.notFound(id)); errors.Is(mapped, ErrNotFound) {
			return nil, mapped
		}
		return nil, &PersistenceError{Op: op, Err: err}
	}

	err = r.session(ctx).
		Where("id = ?", id).
		Updates(map[string]any{
			"title":    cmd.Title,
			"content":  cmd.Content,
			"category": cmd.Category,
		}).Error
	if err != nil {
		return nil, &PersistenceError{Op: op, Err: err}
	}

	rec.Title = cmd.Title
	rec.Content = cmd.Content
	rec.Category = cmd.Category
	rec.fillCreatedAt(r.utcNow())

	r.invalidate(ctx)
	r.logger.Info(r.resource.Noun()+" updated", "id", id)
	return &rec, nil
}

func (r *repo) Delete(ctx context.Context, id int64) (err error) {
	defer r.observe("delete", time.Now(), &err)

	res := r.session(ctx).Where("id = ?", id).Delete(&Record{})
	if err := repository.ExpectAffected(res, r.notFound(id)); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return &PersistenceError{Op: "delete " + r.resource.Noun(), Err: err}
	}

	r.invalidate(ctx)
	r.logger.Info(r.resource.Noun()+" deleted", "id", id)
	return nil
}

func (r *repo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.session(ctx).Count(&n).Error; err != nil {
		return 0, &PersistenceError{Op: "count " + r.resource.Plural, Err: err}
	}
	return n, nil
}

func (r *repo) Ping(ctx context.Context) (int, error) {
	var result int
	if err := r.db.WithContext(ctx).Raw("SELECT 1").Scan(&result).Error; err != nil {
		return 0, &PersistenceError{Op: "test database", Err: err}
	}
	return result, nil
}

// utcNow reads the clock in UTC so stored creation times carry no
// server offset.
func (r *repo) utcNow() time.Time {
	return r.now().UTC()
}

func (r *repo) cacheNamespace() string {
	return r.resource.Name + ":"
}

func (r *repo) invalidate(ctx context.Context) {
	if err := r.cache.Invalidate(ctx, r.cacheNamespace()); err != nil {
		r.logger.Warn("cache invalidation failed", "error", err)
	}
}

func (r *repo) observe(op string, start time.Time, err *error) {
	r.metrics.ObserveOperation(r.resource.Name, op, start, *err)
}
