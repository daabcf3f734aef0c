package services

// ServiceContainer bundles the service facades handed to the HTTP layer.
type ServiceContainer struct {
	Account     AccountSvcFacade
	Audit       AuditSvcFacade
	Transaction TransactionSvcFacade
	Goal        GoalSvcFacade
	User        UserSvcFacade
	Token       TokenSvcFacade
	GoogleAuth  GoogleAuthSvc
	Reporting   ReportingSvcFacade
}
