// Package internal provides the application runtime: it loads the store,
// applies one operation, and saves the result.
package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/ficor/internal/render"
	"github.com/starford/ficor/internal/storage"
	"github.com/starford/ficor/internal/store"
)

// Run performs the requested operation with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	if app.request == nil {
		return fmt.Errorf("request is required")
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.logger == nil {
		app.logger = NewLogger(app.config.App)
	}

	cfg, req, logger := app.config, app.request, app.logger

	if err := req.Validate(); err != nil {
		return err
	}

	file := storage.NewFile(cfg.Store.Path)
	logger.Debug("Running operation",
		slog.String("op", string(req.Op)),
		slog.String("store_path", file.Path()))

	if req.Op == OpInit {
		if err := file.Init(); err != nil {
			return fmt.Errorf("could not initialize store: %w", err)
		}
		logger.Info("Store initialized", slog.String("store_path", file.Path()))
		return nil
	}

	s, err := file.Load()
	if err != nil {
		if storage.IsNotExist(err) {
			logger.Warn("store file not found, run init first", slog.String("store_path", file.Path()))
		}
		return fmt.Errorf("could not load store: %w", err)
	}

	if err := app.apply(ctx, s); err != nil {
		return err
	}

	if !req.Op.Mutates() {
		return nil
	}
	if err := file.Save(s); err != nil {
		return fmt.Errorf("could not save store: %w", err)
	}
	logger.Debug("Store saved",
		slog.String("store_path", file.Path()),
		slog.Int("records", s.Len()))
	return nil
}

// apply runs the request against s. On error s is left unchanged.
func (a *application) apply(_ context.Context, s *store.Store) error {
	req := a.request
	switch req.Op {
	case OpAdd:
		id, err := s.AddFile(req.Path, req.Tags, req.Info)
		if err != nil {
			return fmt.Errorf("add %s: %w", req.Path, err)
		}
		a.logger.Info("Record added", slog.String("path", req.Path), slog.Int("id", id))
	case OpRemove:
		if err := s.RemoveFile(req.Path); err != nil {
			return fmt.Errorf("remove %s: %w", req.Path, err)
		}
		a.logger.Info("Record removed", slog.String("path", req.Path))
	case OpAddTag:
		if err := s.AddTag(req.Path, req.Tag); err != nil {
			return fmt.Errorf("tag %s: %w", req.Path, err)
		}
		a.logger.Info("Tag added", slog.String("path", req.Path), slog.String("tag", req.Tag))
	case OpRemoveTag:
		if err := s.RemoveTag(req.Path, req.Tags); err != nil {
			return fmt.Errorf("untag %s: %w", req.Path, err)
		}
		a.logger.Info("Tags removed", slog.String("path", req.Path), slog.String("tags", req.Tags))
	case OpList:
		recs := s.List(req.Include, req.Exclude)
		opts := render.Options{
			ShowInfo: req.ShowInfo || a.config.List.ShowInfo,
			ShowTags: req.ShowTags || a.config.List.ShowTags,
		}
		if err := render.List(a.stdout, recs, opts); err != nil {
			return fmt.Errorf("list: %w", err)
		}
	case OpDump:
		if err := render.Dump(a.stdout, s.Dump()); err != nil {
			return fmt.Errorf("dump: %w", err)
		}
	}
	return nil
}
