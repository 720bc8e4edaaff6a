package tenant

import (
	"context"
	"fmt"
	"time"

	"github.com/spacedock/spacedock"
	"github.com/spacedock/spacedock/kit/platform"
	"go.uber.org/zap"
)

// DocumentLogger is a logging service middleware for the Document Service.
type DocumentLogger struct {
	logger          *zap.Logger
	documentService spacedock.DocumentService
}

// NewDocumentLogger returns a logging service middleware for the Document Service.
func NewDocumentLogger(log *zap.Logger, s spacedock.DocumentService) *DocumentLogger {
	return &DocumentLogger{
		logger:          log,
		documentService: s,
	}
}

var _ spacedock.DocumentService = (*DocumentLogger)(nil)

func (l *DocumentLogger) CreateDocument(ctx context.Context, d *spacedock.Document) (err error) {
	defer func(start time.Time) {
		dur := zap.Duration("took", time.Since(start))
		if err != nil {
			l.logger.Debug("failed to create document", zap.Error(err), dur)
			return
		}
		l.logger.Debug("document create", dur)
	}(time.Now())
	return l.documentService.CreateDocument(ctx, d)
}

func (l *DocumentLogger) FindDocumentByID(ctx context.Context, spaceID, id platform.ID) (d *spacedock.Document, err error) {
	defer func(start time.Time) {
		dur := zap.Duration("took", time.Since(start))
		if err != nil {
			msg := fmt.Sprintf("failed to find document with ID %v in space %v", id, spaceID)
			l.logger.Debug(msg, zap.Error(err), dur)
			return
		}
		l.logger.Debug("document find by ID", dur)
	}(time.Now())
	return l.documentService.FindDocumentByID(ctx, spaceID, id)
}

func (l *DocumentLogger) FindDocumentBySlug(ctx context.Context, spaceID platform.ID, slug string) (d *spacedock.Document, err error) {
	defer func(start time.Time) {
		dur := zap.Duration("took", time.Since(start))
		if err != nil {
			msg := fmt.Sprintf("failed to find document with slug %v in space %v", slug, spaceID)
			l.logger.Debug(msg, zap.Error(err), dur)
			return
		}
		l.logger.Debug("document find by slug", dur)
	}(time.Now())
	return l.documentService.FindDocumentBySlug(ctx, spaceID, slug)
}

func (l *DocumentLogger) FindDocuments(ctx context.Context, spaceID platform.ID, opt ...spacedock.FindOptions) (docs []*spacedock.Document, err error) {
	defer func(start time.Time) {
		dur := zap.Duration("took", time.Since(start))
		if err != nil {
			l.logger.Debug("failed to find documents for space", zap.Error(err), dur)
			return
		}
		l.logger.Debug("documents find", dur)
	}(time.Now())
	return l.documentService.FindDocuments(ctx, spaceID, opt...)
}

func (l *DocumentLogger) UpdateDocument(ctx context.Context, spaceID, id platform.ID, upd spacedock.DocumentUpdate) (d *spacedock.Document, err error) {
	defer func(start time.Time) {
		dur := zap.Duration("took", time.Since(start))
		if err != nil {
			l.logger.Debug("failed to update document", zap.Error(err), dur)
			return
		}
		l.logger.Debug("document update", dur)
	}(time.Now())
	return l.documentService.UpdateDocument(ctx, spaceID, id, upd)
}

func (l *DocumentLogger) DeleteDocument(ctx context.Context, spaceID, id platform.ID) (err error) {
	defer func(start time.Time) {
		dur := zap.Duration("took", time.Since(start))
		if err != nil {
			l.logger.Debug("failed to delete document", zap.Error(err), dur)
			return
		}
		l.logger.Debug("document delete", dur)
	}(time.Now())
	return l.documentService.DeleteDocument(ctx, spaceID, id)
}
