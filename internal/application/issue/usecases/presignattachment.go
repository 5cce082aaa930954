package usecases

import (
	"context"
	stderrors "errors"

	"github.com/candor-hq/candor/internal/infrastructure/storage"
	"github.com/candor-hq/candor/internal/shared/authorization"
	"github.com/candor-hq/candor/internal/shared/errors"
	"github.com/candor-hq/candor/internal/shared/logger"
)

type PresignAttachmentUploadCommand struct {
	ContentType string
}

type PresignAttachmentDownloadQuery struct {
	Key          string
	Capabilities authorization.Capabilities
}

type PresignAttachmentUseCase struct {
	store  AttachmentStore
	logger logger.Interface
}

func NewPresignAttachmentUseCase(store AttachmentStore, logger logger.Interface) *PresignAttachmentUseCase {
	return &PresignAttachmentUseCase{
		store:  store,
		logger: logger,
	}
}

// Upload hands out a presigned PUT. The returned key goes into the
// attachments list of the issue submitted afterwards.
func (uc *PresignAttachmentUseCase) Upload(ctx context.Context, cmd PresignAttachmentUploadCommand) (*storage.PresignedURL, error) {
	uc.logger.Infow("executing presign attachment upload use case", "content_type", cmd.ContentType)

	out, err := uc.store.PresignUpload(ctx, cmd.ContentType)
	if err != nil {
		return nil, uc.mapError(err)
	}
	return out, nil
}

func (uc *PresignAttachmentUseCase) Download(ctx context.Context, query PresignAttachmentDownloadQuery) (*storage.PresignedURL, error) {
	uc.logger.Infow("executing presign attachment download use case", "key", query.Key)

	if !query.Capabilities.CanViewAttachments {
		return nil, errors.NewForbiddenError("not allowed to view attachments")
	}

	out, err := uc.store.PresignDownload(ctx, query.Key)
	if err != nil {
		return nil, uc.mapError(err)
	}
	return out, nil
}

func (uc *PresignAttachmentUseCase) mapError(err error) error {
	switch {
	case stderrors.Is(err, storage.ErrContentTypeNotAllow):
		return errors.NewValidationError("content type not allowed", "content_type")
	case stderrors.Is(err, storage.ErrInvalidObjectKey):
		return errors.NewValidationError("invalid attachment key", "key")
	case stderrors.Is(err, storage.ErrStorageDisabled):
		return errors.NewBadRequestError("attachments are not enabled")
	default:
		uc.logger.Errorw("failed to presign attachment url", "error", err)
		return errors.NewInternalError("failed to prepare attachment")
	}
}
