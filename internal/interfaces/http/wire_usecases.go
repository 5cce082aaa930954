package http

import (
	issueUsecases "github.com/candor-hq/candor/internal/application/issue/usecases"
	"github.com/candor-hq/candor/internal/application/profile/usecases"
	referenceUsecases "github.com/candor-hq/candor/internal/application/reference/usecases"
	vo "github.com/candor-hq/candor/internal/domain/issue/valueobjects"
	"github.com/candor-hq/candor/internal/infrastructure/auth"
	"github.com/candor-hq/candor/internal/infrastructure/email"
)

// allUseCases holds all use case instances used by the application.
type allUseCases struct {
	// Profile / Auth
	signUpUC          *usecases.SignUpUseCase
	signInUC          *usecases.SignInUseCase
	refreshTokenUC    *usecases.RefreshTokenUseCase
	googleOAuthUC     *usecases.GoogleOAuthUseCase
	getProfileUC      *usecases.GetProfileUseCase
	updateProfileUC   *usecases.UpdateProfileUseCase
	changeRoleUC      *usecases.ChangeRoleUseCase
	getCapabilitiesUC *usecases.GetCapabilitiesUseCase

	// Reference data
	listDepartmentsUC *referenceUsecases.ListDepartmentsUseCase
	listCategoriesUC  *referenceUsecases.ListCategoriesUseCase

	// Issues
	createIssueUC       *issueUsecases.CreateIssueUseCase
	fetchIssuesUC       *issueUsecases.FetchIssuesUseCase
	getIssueUC          *issueUsecases.GetIssueUseCase
	updateIssueUC       *issueUsecases.UpdateIssueUseCase
	trackIssueUC        *issueUsecases.TrackIssueByTokenUseCase
	addIssueUpdateUC    *issueUsecases.AddIssueUpdateUseCase
	listIssueUpdatesUC  *issueUsecases.ListIssueUpdatesUseCase
	dashboardStatsUC    *issueUsecases.GetDashboardStatsUseCase
	presignAttachmentUC *issueUsecases.PresignAttachmentUseCase
	closeStaleIssuesUC  *issueUsecases.CloseStaleIssuesUseCase
	issueEventHandler   *issueUsecases.IssueEventHandler
}

func (c *Container) initUseCases() {
	r := c.repos
	log := c.log

	// Google sign-in stays registered but reports itself disabled without
	// client credentials.
	var oauthClient usecases.OAuthClient
	if c.cfg.Auth.Google.Enabled() {
		oauthClient = auth.NewGoogleOAuthClient(c.cfg.Auth.Google)
	}

	var notifier issueUsecases.Notifier = email.NewNoopNotifier(log)
	if c.cfg.Email.Enabled {
		notifier = email.NewSMTPEmailService(&c.cfg.Email, c.cfg.Server.DashboardURL, c.renderer, log)
	}

	threshold, err := vo.NewSeverity(c.cfg.Issues.EscalationSeverity)
	if err != nil {
		log.Warnw("invalid escalation severity, using high", "value", c.cfg.Issues.EscalationSeverity)
		threshold = vo.SeverityHigh
	}

	c.ucs = &allUseCases{
		signUpUC:          usecases.NewSignUpUseCase(r.accountRepo, r.profileRepo, c.hasher, c.jwtSvc, c.txManager, log),
		signInUC:          usecases.NewSignInUseCase(r.accountRepo, r.profileRepo, c.hasher, c.jwtSvc, log),
		refreshTokenUC:    usecases.NewRefreshTokenUseCase(r.profileRepo, c.jwtSvc, log),
		googleOAuthUC:     usecases.NewGoogleOAuthUseCase(oauthClient, c.stateStore, r.accountRepo, r.profileRepo, c.jwtSvc, c.txManager, log),
		getProfileUC:      usecases.NewGetProfileUseCase(r.profileRepo, log),
		updateProfileUC:   usecases.NewUpdateProfileUseCase(r.profileRepo, r.referenceRepo, log),
		changeRoleUC:      usecases.NewChangeRoleUseCase(r.profileRepo, log),
		getCapabilitiesUC: usecases.NewGetCapabilitiesUseCase(c.enforcer, log),

		listDepartmentsUC: referenceUsecases.NewListDepartmentsUseCase(r.referenceRepo, log),
		listCategoriesUC:  referenceUsecases.NewListCategoriesUseCase(r.referenceRepo, log),

		createIssueUC: issueUsecases.NewCreateIssueUseCase(
			r.issueRepo, r.referenceRepo, c.tokens, c.txManager, c.dispatcher,
			c.cfg.Issues.TokenTTL, c.renderer, log,
		),
		fetchIssuesUC: issueUsecases.NewFetchIssuesUseCase(r.issueRepo, r.referenceRepo, r.profileRepo, c.renderer, log),
		getIssueUC:    issueUsecases.NewGetIssueUseCase(r.issueRepo, r.updateRepo, r.referenceRepo, r.profileRepo, c.renderer, log),
		updateIssueUC: issueUsecases.NewUpdateIssueUseCase(
			r.issueRepo, r.updateRepo, r.tokenRepo, r.referenceRepo, r.profileRepo,
			c.dispatcher, c.issueCache, c.tokens, c.renderer, log,
		),
		trackIssueUC: issueUsecases.NewTrackIssueByTokenUseCase(
			r.issueRepo, r.tokenRepo, r.updateRepo, r.referenceRepo, c.renderer, c.issueCache, c.tokens, log,
		),
		addIssueUpdateUC: issueUsecases.NewAddIssueUpdateUseCase(
			r.issueRepo, r.updateRepo, r.tokenRepo, r.referenceRepo, c.issueCache, c.tokens, c.renderer, log,
		),
		listIssueUpdatesUC:  issueUsecases.NewListIssueUpdatesUseCase(r.issueRepo, r.updateRepo, c.renderer, log),
		dashboardStatsUC:    issueUsecases.NewGetDashboardStatsUseCase(r.issueRepo, r.referenceRepo, log),
		presignAttachmentUC: issueUsecases.NewPresignAttachmentUseCase(c.attachments, log),
		closeStaleIssuesUC: issueUsecases.NewCloseStaleIssuesUseCase(
			r.issueRepo, r.updateRepo, c.dispatcher, c.issueCache, c.cfg.Issues.AutoCloseAfter, log,
		),
		issueEventHandler: issueUsecases.NewIssueEventHandler(r.issueRepo, r.referenceRepo, r.profileRepo, notifier, threshold, log),
	}
}
