package repositories

import (
	"github.com/yigit/enrollment/internal/app/store"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/pkg/logger"
)

// Repositories holds all the repository instances
type Repositories struct {
	ApplicationRepository *ApplicationRepository
	SectionRepository     *SectionRepository
	AcademicRepository    *AcademicRepository
	FinancingRepository   *FinancingRepository
	DocumentRepository    *DocumentRepository
	RiskReportRepository  *RiskReportRepository
	PaymentRepository     *PaymentRepository
}

// NewRepositories initializes all repositories over one store
func NewRepositories(s store.Store) *Repositories {
	sections := NewSectionRepository(s)
	return &Repositories{
		ApplicationRepository: NewApplicationRepository(s),
		SectionRepository:     sections,
		AcademicRepository:    NewAcademicRepository(sections),
		FinancingRepository:   NewFinancingRepository(s),
		DocumentRepository:    NewDocumentRepository(s),
		RiskReportRepository:  NewRiskReportRepository(s),
		PaymentRepository:     NewPaymentRepository(s),
	}
}

// dbError logs the store failure and reports it as a Database external-service error
func dbError(message string, err error) error {
	logger.Error().Err(err).Msg(message)
	return apperrors.NewExternalServiceError("Database", message)
}
