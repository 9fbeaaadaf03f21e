package services

// Services defined in this package:
// - ApplicationResolver: finds or creates the single application of an identity
// - SectionMerger: sparse and full writes of the application sections
// - SubmissionAssembler: full-schema submission and the submitted transition
// - EnrollmentService: auto-save, submit, declaration and application reads
// - AcademicService: academic history CRUD
// - FinancingService: plan selection and the fee label kept in sync with it
// - DocumentService: uploads, file bookkeeping and completion status
// - RiskService: banking risk checks with local fallback scoring
// - PaymentService: gateway payments and webhook status updates
