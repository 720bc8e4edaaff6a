package tenant

import (
	"context"
	"fmt"
	"time"

	"github.com/spacedock/spacedock"
	"github.com/spacedock/spacedock/kit/platform"
	"go.uber.org/zap"
)

// SpaceLogger is a logging service middleware for the Space Service.
type SpaceLogger struct {
	logger       *zap.Logger
	spaceService spacedock.SpaceService
}

// NewSpaceLogger returns a logging service middleware for the Space Service.
func NewSpaceLogger(log *zap.Logger, s spacedock.SpaceService) *SpaceLogger {
	return &SpaceLogger{
		logger:       log,
		spaceService: s,
	}
}

var _ spacedock.SpaceService = (*SpaceLogger)(nil)

func (l *SpaceLogger) CreateSpace(ctx context.Context, sp *spacedock.Space) (err error) {
	defer func(start time.Time) {
		dur := zap.Duration("took", time.Since(start))
		if err != nil {
			l.logger.Debug("failed to create space", zap.Error(err), dur)
			return
		}
		l.logger.Debug("space create", dur)
	}(time.Now())
	return l.spaceService.CreateSpace(ctx, sp)
}

func (l *SpaceLogger) FindSpaceByID(ctx context.Context, id platform.ID) (sp *spacedock.Space, err error) {
	defer func(start time.Time) {
		dur := zap.Duration("took", time.Since(start))
		if err != nil {
			msg := fmt.Sprintf("failed to find space with ID %v", id)
			l.logger.Debug(msg, zap.Error(err), dur)
			return
		}
		l.logger.Debug("space find by ID", dur)
	}(time.Now())
	return l.spaceService.FindSpaceByID(ctx, id)
}

func (l *SpaceLogger) FindSpaces(ctx context.Context, ownerID platform.ID, opt ...spacedock.FindOptions) (spaces []*spacedock.Space, err error) {
	defer func(start time.Time) {
		dur := zap.Duration("took", time.Since(start))
		if err != nil {
			l.logger.Debug("failed to find spaces for owner", zap.Error(err), dur)
			return
		}
		l.logger.Debug("spaces find", dur)
	}(time.Now())
	return l.spaceService.FindSpaces(ctx, ownerID, opt...)
}

func (l *SpaceLogger) UpdateSpace(ctx context.Context, id platform.ID, upd spacedock.SpaceUpdate) (sp *spacedock.Space, err error) {
	defer func(start time.Time) {
		dur := zap.Duration("took", time.Since(start))
		if err != nil {
			l.logger.Debug("failed to update space", zap.Error(err), dur)
			return
		}
		l.logger.Debug("space update", dur)
	}(time.Now())
	return l.spaceService.UpdateSpace(ctx, id, upd)
}

func (l *SpaceLogger) DeleteSpace(ctx context.Context, id platform.ID) (err error) {
	defer func(start time.Time) {
		dur := zap.Duration("took", time.Since(start))
		if err != nil {
			l.logger.Debug("failed to delete space", zap.Error(err), dur)
			return
		}
		l.logger.Debug("space delete", dur)
	}(time.Now())
	return l.spaceService.DeleteSpace(ctx, id)
}
