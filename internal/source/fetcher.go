package source

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/pseudocoder/hunkstage/internal/errors"
)

// FetcherConfig holds configuration for a Fetcher.
type FetcherConfig struct {
	// Options are passed to every DiffSource call.
	Options Options

	// MaxParallel bounds concurrent DiffSource calls within one batch.
	// Zero or less means unbounded.
	MaxParallel int

	// Timeout is an opt-in deadline for each DiffSource call. It is off by
	// default: with zero the context passed to the source carries only the
	// caller's deadline, and bounding a slow fetch is left to the source.
	Timeout time.Duration

	// Tracer records a span per fetch and per batch. Nil uses a no-op tracer.
	Tracer trace.Tracer
}

// Fetcher issues fetches asynchronously and delivers their results on a
// Scheduler.
type Fetcher struct {
	src    DiffSource
	sched  Scheduler
	config FetcherConfig
	tracer trace.Tracer
}

// NewFetcher creates a fetcher that reads from src and posts to sched.
func NewFetcher(src DiffSource, sched Scheduler, config FetcherConfig) *Fetcher {
	tracer := config.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	return &Fetcher{
		src:    src,
		sched:  sched,
		config: config,
		tracer: tracer,
	}
}

// Fetch starts one request and returns immediately. done runs on the
// scheduler once the request finishes, successful or not.
//
// No de-duplication is done: fetching a key that is already in flight issues
// a second request, and whichever completes last is delivered last.
func (f *Fetcher) Fetch(ctx context.Context, req Request, done func(Result)) {
	go func() {
		res := f.do(ctx, req)
		f.sched.Post(func() { done(res) })
	}()
}

// FetchBatch starts every request and returns immediately. done runs exactly
// once on the scheduler, after all requests have finished, with results in
// request order. Completion order of the individual requests does not matter.
func (f *Fetcher) FetchBatch(ctx context.Context, reqs []Request, done func([]Result)) {
	go func() {
		ctx, span := f.tracer.Start(ctx, "source.fetch_batch",
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attribute.Int("batch.size", len(reqs))),
		)

		results := make([]Result, len(reqs))
		var g errgroup.Group
		if f.config.MaxParallel > 0 {
			g.SetLimit(f.config.MaxParallel)
		}
		for i, req := range reqs {
			g.Go(func() error {
				// Failures are reported per result, never through the group,
				// so one failed fetch cannot hide the others.
				results[i] = f.do(ctx, req)
				return nil
			})
		}
		_ = g.Wait()

		failed := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
			}
		}
		span.SetAttributes(attribute.Int("batch.failed", failed))
		if failed > 0 {
			span.SetStatus(codes.Error, "some fetches failed")
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()

		log.Printf("source: batch of %d fetches complete (%d failed)", len(reqs), failed)
		f.sched.Post(func() { done(results) })
	}()
}

// do runs one request synchronously.
func (f *Fetcher) do(ctx context.Context, req Request) Result {
	ctx, span := f.tracer.Start(ctx, "source.fetch",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("fetch.key", req.Key),
			attribute.String("fetch.kind", req.Kind.String()),
			attribute.Bool("fetch.staged", req.Staged),
		),
	)
	defer span.End()

	if f.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.config.Timeout)
		defer cancel()
	}

	res := Result{Request: req}
	var err error
	switch req.Kind {
	case KindUntracked:
		res.Lines, err = f.src.FetchDiffUntracked(ctx, req.Path, f.config.Options)
	case KindSubmodule:
		res.SHA, err = f.src.FetchSubmoduleRecordedSHA(ctx, req.Path, f.config.Options)
	default:
		res.Lines, err = f.src.FetchDiff(ctx, req.Path, req.Staged, f.config.Options)
	}

	if err != nil {
		log.Printf("source: fetch %s failed: %v", req.Key, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result{Request: req, Err: apperrors.FetchFailed(req.Key, err)}
	}
	span.SetAttributes(attribute.Int("fetch.lines", len(res.Lines)))
	span.SetStatus(codes.Ok, "")
	return res
}
