package usecases

import (
	"context"

	"github.com/candor-hq/candor/internal/application/issue/dto"
	"github.com/candor-hq/candor/internal/infrastructure/storage"
)

type CreateIssueExecutor interface {
	Execute(ctx context.Context, cmd CreateIssueCommand) (*CreateIssueResult, error)
}

type FetchIssuesExecutor interface {
	Execute(ctx context.Context, query FetchIssuesQuery) ([]dto.IssueDTO, error)
}

type GetIssueExecutor interface {
	Execute(ctx context.Context, query GetIssueQuery) (*dto.IssueDTO, error)
}

type UpdateIssueExecutor interface {
	Execute(ctx context.Context, cmd UpdateIssueCommand) (*dto.IssueDTO, error)
}

type TrackIssueExecutor interface {
	Execute(ctx context.Context, query TrackIssueQuery) (*dto.TrackedIssueDTO, error)
}

type AddIssueUpdateExecutor interface {
	Execute(ctx context.Context, cmd AddIssueUpdateCommand) (*dto.IssueUpdateDTO, error)
}

type ListIssueUpdatesExecutor interface {
	Execute(ctx context.Context, query ListIssueUpdatesQuery) ([]dto.IssueUpdateDTO, error)
}

type GetDashboardStatsExecutor interface {
	Execute(ctx context.Context, query GetDashboardStatsQuery) (*dto.DashboardStatsDTO, error)
}

type PresignAttachmentExecutor interface {
	Upload(ctx context.Context, cmd PresignAttachmentUploadCommand) (*storage.PresignedURL, error)
	Download(ctx context.Context, query PresignAttachmentDownloadQuery) (*storage.PresignedURL, error)
}
