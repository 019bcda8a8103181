package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/cliniclabs/clinic_billing_app/internal/apperrors"
	"github.com/cliniclabs/clinic_billing_app/internal/core/domain"
	portsrepo "github.com/cliniclabs/clinic_billing_app/internal/core/ports/repositories"
	portssvc "github.com/cliniclabs/clinic_billing_app/internal/core/ports/services"
	"github.com/cliniclabs/clinic_billing_app/internal/core/services"
	"github.com/cliniclabs/clinic_billing_app/internal/dto"
)

// --- Mock ExamRepository ---
type MockExamRepository struct {
	mock.Mock
}

var _ portsrepo.ExamRepositoryWithTx = (*MockExamRepository)(nil)

func (m *MockExamRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	var tx pgx.Tx
	if args.Get(0) != nil {
		tx = args.Get(0).(pgx.Tx)
	}
	return tx, args.Error(1)
}

func (m *MockExamRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockExamRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockExamRepository) FindExamByID(ctx context.Context, examID int64) (*domain.Exam, error) {
	args := m.Called(ctx, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Exam), args.Error(1)
}

func (m *MockExamRepository) ListExams(ctx context.Context, paid *bool, limit int, nextToken *string) ([]domain.Exam, *string, error) {
	args := m.Called(ctx, paid, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Exam), returnedNextToken, args.Error(2)
}

func (m *MockExamRepository) SaveExamInTx(ctx context.Context, tx pgx.Tx, exam domain.Exam) (*domain.Exam, error) {
	args := m.Called(ctx, tx, exam)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Exam), args.Error(1)
}

func (m *MockExamRepository) FindExamByIDForUpdate(ctx context.Context, tx pgx.Tx, examID int64) (*domain.Exam, error) {
	args := m.Called(ctx, tx, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Exam), args.Error(1)
}

func (m *MockExamRepository) FindExamsByIDsForUpdate(ctx context.Context, tx pgx.Tx, examIDs []int64) (map[int64]domain.Exam, error) {
	args := m.Called(ctx, tx, examIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]domain.Exam), args.Error(1)
}

func (m *MockExamRepository) UpdateExamPaymentInTx(ctx context.Context, tx pgx.Tx, examID int64, paid bool, paymentTypeID *int64, paymentNote *string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, tx, examID, paid, paymentTypeID, paymentNote, updatedBy, updatedAt)
	return args.Error(0)
}

// --- Mock PaymentTypeRepository ---
type MockPaymentTypeRepository struct {
	mock.Mock
}

var _ portsrepo.PaymentTypeRepositoryFacade = (*MockPaymentTypeRepository)(nil)

func (m *MockPaymentTypeRepository) FindPaymentTypeByID(ctx context.Context, paymentTypeID int64) (*domain.PaymentType, error) {
	args := m.Called(ctx, paymentTypeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentType), args.Error(1)
}

func (m *MockPaymentTypeRepository) FindPaymentTypeByIDInTx(ctx context.Context, tx pgx.Tx, paymentTypeID int64) (*domain.PaymentType, error) {
	args := m.Called(ctx, tx, paymentTypeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentType), args.Error(1)
}

func (m *MockPaymentTypeRepository) ListPaymentTypes(ctx context.Context, onlyActive bool) ([]domain.PaymentType, error) {
	args := m.Called(ctx, onlyActive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentType), args.Error(1)
}

func (m *MockPaymentTypeRepository) SavePaymentType(ctx context.Context, paymentType domain.PaymentType) (*domain.PaymentType, error) {
	args := m.Called(ctx, paymentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentType), args.Error(1)
}

func (m *MockPaymentTypeRepository) UpdatePaymentType(ctx context.Context, paymentType domain.PaymentType) error {
	args := m.Called(ctx, paymentType)
	return args.Error(0)
}

// --- Mock RevenueRepository ---
type MockRevenueRepository struct {
	mock.Mock
}

var _ portsrepo.RevenueRepositoryFacade = (*MockRevenueRepository)(nil)

func (m *MockRevenueRepository) FindRevenuesByExamID(ctx context.Context, examID int64) ([]domain.Revenue, error) {
	args := m.Called(ctx, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Revenue), args.Error(1)
}

func (m *MockRevenueRepository) ListRevenues(ctx context.Context, limit int, nextToken *string) ([]domain.Revenue, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Revenue), returnedNextToken, args.Error(2)
}

func (m *MockRevenueRepository) SaveRevenueInTx(ctx context.Context, tx pgx.Tx, revenue domain.Revenue) (*domain.Revenue, error) {
	args := m.Called(ctx, tx, revenue)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Revenue), args.Error(1)
}

// --- Mock AuditLogRepository ---
type MockAuditLogRepository struct {
	mock.Mock
}

var _ portsrepo.AuditLogRepositoryFacade = (*MockAuditLogRepository)(nil)

func (m *MockAuditLogRepository) FindAuditLogsByExamID(ctx context.Context, examID int64) ([]domain.AuditLog, error) {
	args := m.Called(ctx, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditLog), args.Error(1)
}

func (m *MockAuditLogRepository) SaveAuditLogInTx(ctx context.Context, tx pgx.Tx, entry domain.AuditLog) error {
	args := m.Called(ctx, tx, entry)
	return args.Error(0)
}

// --- Test Suite ---

type ReconciliationServiceTestSuite struct {
	suite.Suite
	mockExamRepo        *MockExamRepository
	mockPaymentTypeRepo *MockPaymentTypeRepository
	mockRevenueRepo     *MockRevenueRepository
	mockAuditRepo       *MockAuditLogRepository
	service             portssvc.ReconciliationSvcFacade
	actorID             string
	pixType             domain.PaymentType
	inactiveType        domain.PaymentType
}

func (suite *ReconciliationServiceTestSuite) SetupTest() {
	suite.mockExamRepo = new(MockExamRepository)
	suite.mockPaymentTypeRepo = new(MockPaymentTypeRepository)
	suite.mockRevenueRepo = new(MockRevenueRepository)
	suite.mockAuditRepo = new(MockAuditLogRepository)
	suite.service = services.NewReconciliationService(
		suite.mockExamRepo,
		suite.mockPaymentTypeRepo,
		suite.mockRevenueRepo,
		suite.mockAuditRepo,
	)
	suite.actorID = "f1c1a2f0-7b49-4a70-a8c2-9c1f27f5a001"
	suite.pixType = domain.PaymentType{PaymentTypeID: 3, Name: "pix", Active: true}
	suite.inactiveType = domain.PaymentType{PaymentTypeID: 7, Name: "voucher", Active: false}
}

func (suite *ReconciliationServiceTestSuite) expectTransaction() {
	suite.mockExamRepo.On("Begin", mock.Anything).Return(nil, nil)
	suite.mockExamRepo.On("Rollback", mock.Anything, mock.Anything).Return(nil)
}

func unpaidExam(examID int64, value string) *domain.Exam {
	return &domain.Exam{
		ExamID:      examID,
		PatientName: "Maria Souza",
		ExamType:    "Blood Panel",
		ExamDate:    time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		Value:       decimal.RequireFromString(value),
		Paid:        false,
	}
}

// --- MarkExamPaid ---

func (suite *ReconciliationServiceTestSuite) TestMarkExamPaid_Success() {
	ctx := context.Background()
	exam := unpaidExam(42, "150.00")
	note := "partial"
	paymentTypeID := suite.pixType.PaymentTypeID

	suite.expectTransaction()
	suite.mockExamRepo.On("FindExamByIDForUpdate", mock.Anything, mock.Anything, int64(42)).Return(exam, nil)
	suite.mockPaymentTypeRepo.On("FindPaymentTypeByIDInTx", mock.Anything, mock.Anything, paymentTypeID).Return(&suite.pixType, nil)
	suite.mockExamRepo.On("UpdateExamPaymentInTx", mock.Anything, mock.Anything, int64(42), true, &paymentTypeID, &note, suite.actorID, mock.Anything).Return(nil)
	suite.mockRevenueRepo.On("SaveRevenueInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(r domain.Revenue) bool {
		return r.ExamID != nil && *r.ExamID == 42 &&
			r.Amount.Equal(decimal.RequireFromString("150.00")) &&
			r.PaymentMethod == "pix" &&
			r.Status == domain.RevenueReceived &&
			r.DueDate.Equal(r.ReceivedDate) &&
			r.Notes == "partial"
	})).Return(&domain.Revenue{RevenueID: 501, Amount: exam.Value, PaymentMethod: "pix", Status: domain.RevenueReceived}, nil)
	suite.mockAuditRepo.On("SaveAuditLogInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(entry domain.AuditLog) bool {
		return entry.Action == domain.AuditExamMarkedPaid &&
			entry.ExamID != nil && *entry.ExamID == 42 &&
			entry.ActorID == suite.actorID &&
			strings.Contains(entry.Details, "pix") &&
			strings.Contains(entry.Details, "partial")
	})).Return(nil)
	suite.mockExamRepo.On("Commit", mock.Anything, mock.Anything).Return(nil)

	resp, err := suite.service.MarkExamPaid(ctx, 42, dto.MarkExamPaidRequest{
		PaymentTypeID: &paymentTypeID,
		PaymentNote:   &note,
	}, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.True(resp.Paid)
	suite.Require().NotNil(resp.PaymentTypeName)
	suite.Equal("pix", *resp.PaymentTypeName)
	suite.Require().NotNil(resp.RevenueID)
	suite.Equal(int64(501), *resp.RevenueID)

	suite.mockRevenueRepo.AssertNumberOfCalls(suite.T(), "SaveRevenueInTx", 1)
	suite.mockAuditRepo.AssertNumberOfCalls(suite.T(), "SaveAuditLogInTx", 1)
	suite.mockExamRepo.AssertCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestMarkExamPaid_DefaultsToCash() {
	ctx := context.Background()
	exam := unpaidExam(42, "80.00")

	suite.expectTransaction()
	suite.mockExamRepo.On("FindExamByIDForUpdate", mock.Anything, mock.Anything, int64(42)).Return(exam, nil)
	suite.mockExamRepo.On("UpdateExamPaymentInTx", mock.Anything, mock.Anything, int64(42), true, (*int64)(nil), (*string)(nil), suite.actorID, mock.Anything).Return(nil)
	suite.mockRevenueRepo.On("SaveRevenueInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(r domain.Revenue) bool {
		return r.PaymentMethod == "cash"
	})).Return(&domain.Revenue{RevenueID: 502}, nil)
	suite.mockAuditRepo.On("SaveAuditLogInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(entry domain.AuditLog) bool {
		return strings.Contains(entry.Details, "cash")
	})).Return(nil)
	suite.mockExamRepo.On("Commit", mock.Anything, mock.Anything).Return(nil)

	resp, err := suite.service.MarkExamPaid(ctx, 42, dto.MarkExamPaidRequest{}, suite.actorID)

	suite.Require().NoError(err)
	suite.True(resp.Paid)
	suite.Nil(resp.PaymentTypeName)
	suite.mockPaymentTypeRepo.AssertNotCalled(suite.T(), "FindPaymentTypeByIDInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestMarkExamPaid_AlreadyPaid() {
	ctx := context.Background()
	exam := unpaidExam(42, "150.00")
	exam.Paid = true

	suite.expectTransaction()
	suite.mockExamRepo.On("FindExamByIDForUpdate", mock.Anything, mock.Anything, int64(42)).Return(exam, nil)

	resp, err := suite.service.MarkExamPaid(ctx, 42, dto.MarkExamPaidRequest{}, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAlreadyPaid)
	suite.Nil(resp)

	suite.mockExamRepo.AssertNotCalled(suite.T(), "UpdateExamPaymentInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockRevenueRepo.AssertNotCalled(suite.T(), "SaveRevenueInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockAuditRepo.AssertNotCalled(suite.T(), "SaveAuditLogInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockExamRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestMarkExamPaid_NotFound() {
	ctx := context.Background()

	suite.expectTransaction()
	suite.mockExamRepo.On("FindExamByIDForUpdate", mock.Anything, mock.Anything, int64(99)).Return(nil, apperrors.ErrNotFound)

	resp, err := suite.service.MarkExamPaid(ctx, 99, dto.MarkExamPaidRequest{}, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(resp)
	suite.mockExamRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestMarkExamPaid_InactivePaymentType() {
	ctx := context.Background()
	exam := unpaidExam(42, "150.00")
	paymentTypeID := suite.inactiveType.PaymentTypeID

	suite.expectTransaction()
	suite.mockExamRepo.On("FindExamByIDForUpdate", mock.Anything, mock.Anything, int64(42)).Return(exam, nil)
	suite.mockPaymentTypeRepo.On("FindPaymentTypeByIDInTx", mock.Anything, mock.Anything, paymentTypeID).Return(&suite.inactiveType, nil)

	resp, err := suite.service.MarkExamPaid(ctx, 42, dto.MarkExamPaidRequest{PaymentTypeID: &paymentTypeID}, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidPaymentType)
	suite.Nil(resp)

	suite.mockExamRepo.AssertNotCalled(suite.T(), "UpdateExamPaymentInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockRevenueRepo.AssertNotCalled(suite.T(), "SaveRevenueInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockExamRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestMarkExamPaid_NoteTooLong() {
	ctx := context.Background()
	longNote := strings.Repeat("x", 256)

	resp, err := suite.service.MarkExamPaid(ctx, 42, dto.MarkExamPaidRequest{PaymentNote: &longNote}, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(resp)
	suite.mockExamRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

// --- UnmarkExamPaid ---

func (suite *ReconciliationServiceTestSuite) TestUnmarkExamPaid_Success() {
	ctx := context.Background()
	exam := unpaidExam(42, "150.00")
	exam.Paid = true
	paymentTypeID := suite.pixType.PaymentTypeID
	exam.PaymentTypeID = &paymentTypeID

	suite.expectTransaction()
	suite.mockExamRepo.On("FindExamByIDForUpdate", mock.Anything, mock.Anything, int64(42)).Return(exam, nil)
	suite.mockExamRepo.On("UpdateExamPaymentInTx", mock.Anything, mock.Anything, int64(42), false, (*int64)(nil), (*string)(nil), suite.actorID, mock.Anything).Return(nil)
	suite.mockAuditRepo.On("SaveAuditLogInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(entry domain.AuditLog) bool {
		return entry.Action == domain.AuditExamPaymentUndo && entry.ExamID != nil && *entry.ExamID == 42
	})).Return(nil)
	suite.mockExamRepo.On("Commit", mock.Anything, mock.Anything).Return(nil)

	resp, err := suite.service.UnmarkExamPaid(ctx, 42, suite.actorID)

	suite.Require().NoError(err)
	suite.False(resp.Paid)
	suite.Nil(resp.PaymentTypeID)
	suite.Nil(resp.PaymentNote)

	// Reverting a payment never touches the revenue ledger.
	suite.mockRevenueRepo.AssertNotCalled(suite.T(), "SaveRevenueInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockAuditRepo.AssertNumberOfCalls(suite.T(), "SaveAuditLogInTx", 1)
}

func (suite *ReconciliationServiceTestSuite) TestUnmarkExamPaid_NotPaid() {
	ctx := context.Background()
	exam := unpaidExam(42, "150.00")

	suite.expectTransaction()
	suite.mockExamRepo.On("FindExamByIDForUpdate", mock.Anything, mock.Anything, int64(42)).Return(exam, nil)

	resp, err := suite.service.UnmarkExamPaid(ctx, 42, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrNotPaid)
	suite.Nil(resp)
	suite.mockExamRepo.AssertNotCalled(suite.T(), "UpdateExamPaymentInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockExamRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

// --- CreateExamWithPayment ---

func (suite *ReconciliationServiceTestSuite) TestCreateExamWithPayment_PaidCreatesRevenue() {
	ctx := context.Background()
	paymentTypeID := suite.pixType.PaymentTypeID
	req := dto.CreateExamRequest{
		PatientName:   "Maria Souza",
		ExamType:      "Blood Panel",
		ExamDate:      time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		Value:         decimal.RequireFromString("150.00"),
		Paid:          true,
		PaymentTypeID: &paymentTypeID,
	}
	saved := unpaidExam(42, "150.00")
	saved.Paid = true
	saved.PaymentTypeID = &paymentTypeID

	suite.expectTransaction()
	suite.mockPaymentTypeRepo.On("FindPaymentTypeByIDInTx", mock.Anything, mock.Anything, paymentTypeID).Return(&suite.pixType, nil)
	suite.mockExamRepo.On("SaveExamInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(e domain.Exam) bool {
		return e.Paid && e.PatientName == "Maria Souza"
	})).Return(saved, nil)
	suite.mockRevenueRepo.On("SaveRevenueInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(r domain.Revenue) bool {
		return r.ExamID != nil && *r.ExamID == 42 && r.Amount.Equal(decimal.RequireFromString("150.00")) && r.PaymentMethod == "pix"
	})).Return(&domain.Revenue{RevenueID: 601}, nil)
	suite.mockAuditRepo.On("SaveAuditLogInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(entry domain.AuditLog) bool {
		return entry.Action == domain.AuditExamCreated && strings.Contains(entry.Details, "pix")
	})).Return(nil)
	suite.mockExamRepo.On("Commit", mock.Anything, mock.Anything).Return(nil)

	resp, err := suite.service.CreateExamWithPayment(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.True(resp.Paid)
	suite.Require().NotNil(resp.RevenueID)
	suite.Equal(int64(601), *resp.RevenueID)

	// Exactly one audit entry for the whole creation, even when created paid.
	suite.mockAuditRepo.AssertNumberOfCalls(suite.T(), "SaveAuditLogInTx", 1)
	suite.mockRevenueRepo.AssertNumberOfCalls(suite.T(), "SaveRevenueInTx", 1)
}

func (suite *ReconciliationServiceTestSuite) TestCreateExamWithPayment_UnpaidNoRevenue() {
	ctx := context.Background()
	req := dto.CreateExamRequest{
		PatientName: "Maria Souza",
		ExamType:    "Blood Panel",
		ExamDate:    time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		Value:       decimal.RequireFromString("150.00"),
	}
	saved := unpaidExam(42, "150.00")

	suite.expectTransaction()
	suite.mockExamRepo.On("SaveExamInTx", mock.Anything, mock.Anything, mock.Anything).Return(saved, nil)
	suite.mockAuditRepo.On("SaveAuditLogInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(entry domain.AuditLog) bool {
		return entry.Action == domain.AuditExamCreated
	})).Return(nil)
	suite.mockExamRepo.On("Commit", mock.Anything, mock.Anything).Return(nil)

	resp, err := suite.service.CreateExamWithPayment(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.False(resp.Paid)
	suite.Nil(resp.RevenueID)
	suite.mockRevenueRepo.AssertNotCalled(suite.T(), "SaveRevenueInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestCreateExamWithPayment_NonPositiveValue() {
	ctx := context.Background()
	req := dto.CreateExamRequest{
		PatientName: "Maria Souza",
		ExamType:    "Blood Panel",
		ExamDate:    time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		Value:       decimal.Zero,
	}

	resp, err := suite.service.CreateExamWithPayment(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(resp)
	suite.mockExamRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

// --- MarkExamsPaidBulk ---

func (suite *ReconciliationServiceTestSuite) TestMarkExamsPaidBulk_Success() {
	ctx := context.Background()
	paymentTypeID := suite.pixType.PaymentTypeID
	req := dto.BulkMarkPaidRequest{Exams: []dto.BulkMarkPaidEntry{
		{ExamID: 1, Paid: true, PaymentTypeID: &paymentTypeID},
		{ExamID: 2, Paid: true},
	}}
	loaded := map[int64]domain.Exam{
		1: *unpaidExam(1, "100.00"),
		2: *unpaidExam(2, "50.00"),
	}

	suite.expectTransaction()
	suite.mockExamRepo.On("FindExamsByIDsForUpdate", mock.Anything, mock.Anything, []int64{1, 2}).Return(loaded, nil)
	suite.mockPaymentTypeRepo.On("FindPaymentTypeByIDInTx", mock.Anything, mock.Anything, paymentTypeID).Return(&suite.pixType, nil)
	suite.mockExamRepo.On("UpdateExamPaymentInTx", mock.Anything, mock.Anything, mock.Anything, true, mock.Anything, mock.Anything, suite.actorID, mock.Anything).Return(nil)
	suite.mockRevenueRepo.On("SaveRevenueInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(r domain.Revenue) bool {
		return r.ExamID != nil && *r.ExamID == 1 && r.PaymentMethod == "pix"
	})).Return(&domain.Revenue{RevenueID: 701}, nil)
	suite.mockRevenueRepo.On("SaveRevenueInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(r domain.Revenue) bool {
		return r.ExamID != nil && *r.ExamID == 2 && r.PaymentMethod == "cash"
	})).Return(&domain.Revenue{RevenueID: 702}, nil)
	suite.mockAuditRepo.On("SaveAuditLogInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	suite.mockExamRepo.On("Commit", mock.Anything, mock.Anything).Return(nil)

	resps, err := suite.service.MarkExamsPaidBulk(ctx, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().Len(resps, 2)
	suite.True(resps[0].Paid)
	suite.True(resps[1].Paid)
	suite.Require().NotNil(resps[0].RevenueID)
	suite.Equal(int64(701), *resps[0].RevenueID)

	suite.mockRevenueRepo.AssertNumberOfCalls(suite.T(), "SaveRevenueInTx", 2)
	suite.mockAuditRepo.AssertNumberOfCalls(suite.T(), "SaveAuditLogInTx", 2)
	suite.mockExamRepo.AssertNumberOfCalls(suite.T(), "Commit", 1)
}

func (suite *ReconciliationServiceTestSuite) TestMarkExamsPaidBulk_AlreadyPaidRejectsBatch() {
	ctx := context.Background()
	req := dto.BulkMarkPaidRequest{Exams: []dto.BulkMarkPaidEntry{
		{ExamID: 1, Paid: true},
		{ExamID: 2, Paid: true},
	}}
	paidExam := *unpaidExam(1, "100.00")
	paidExam.Paid = true
	loaded := map[int64]domain.Exam{
		1: paidExam,
		2: *unpaidExam(2, "50.00"),
	}

	suite.expectTransaction()
	suite.mockExamRepo.On("FindExamsByIDsForUpdate", mock.Anything, mock.Anything, []int64{1, 2}).Return(loaded, nil)

	resps, err := suite.service.MarkExamsPaidBulk(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrAlreadyPaid)
	suite.Contains(err.Error(), "1")
	suite.Nil(resps)

	// Neither exam is touched and no revenue exists for either.
	suite.mockExamRepo.AssertNotCalled(suite.T(), "UpdateExamPaymentInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockRevenueRepo.AssertNotCalled(suite.T(), "SaveRevenueInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockAuditRepo.AssertNotCalled(suite.T(), "SaveAuditLogInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockExamRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestMarkExamsPaidBulk_MissingExamRejectsBatch() {
	ctx := context.Background()
	req := dto.BulkMarkPaidRequest{Exams: []dto.BulkMarkPaidEntry{
		{ExamID: 1, Paid: true},
		{ExamID: 99, Paid: true},
	}}
	loaded := map[int64]domain.Exam{
		1: *unpaidExam(1, "100.00"),
	}

	suite.expectTransaction()
	suite.mockExamRepo.On("FindExamsByIDsForUpdate", mock.Anything, mock.Anything, []int64{1, 99}).Return(loaded, nil)

	resps, err := suite.service.MarkExamsPaidBulk(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Contains(err.Error(), "99")
	suite.Nil(resps)
	suite.mockExamRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestMarkExamsPaidBulk_InactivePaymentTypeRejectsBatch() {
	ctx := context.Background()
	paymentTypeID := suite.inactiveType.PaymentTypeID
	req := dto.BulkMarkPaidRequest{Exams: []dto.BulkMarkPaidEntry{
		{ExamID: 1, Paid: true},
		{ExamID: 2, Paid: true, PaymentTypeID: &paymentTypeID},
	}}
	loaded := map[int64]domain.Exam{
		1: *unpaidExam(1, "100.00"),
		2: *unpaidExam(2, "50.00"),
	}

	suite.expectTransaction()
	suite.mockExamRepo.On("FindExamsByIDsForUpdate", mock.Anything, mock.Anything, []int64{1, 2}).Return(loaded, nil)
	suite.mockPaymentTypeRepo.On("FindPaymentTypeByIDInTx", mock.Anything, mock.Anything, paymentTypeID).Return(&suite.inactiveType, nil)

	resps, err := suite.service.MarkExamsPaidBulk(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrInvalidPaymentType)
	suite.Nil(resps)
	suite.mockExamRepo.AssertNotCalled(suite.T(), "UpdateExamPaymentInTx", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockExamRepo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestMarkExamsPaidBulk_EntryNotMarkedPaid() {
	ctx := context.Background()
	req := dto.BulkMarkPaidRequest{Exams: []dto.BulkMarkPaidEntry{
		{ExamID: 1, Paid: false},
	}}

	resps, err := suite.service.MarkExamsPaidBulk(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(resps)
	suite.mockExamRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestMarkExamsPaidBulk_DuplicateExamID() {
	ctx := context.Background()
	req := dto.BulkMarkPaidRequest{Exams: []dto.BulkMarkPaidEntry{
		{ExamID: 1, Paid: true},
		{ExamID: 1, Paid: true},
	}}

	resps, err := suite.service.MarkExamsPaidBulk(ctx, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(resps)
	suite.mockExamRepo.AssertNotCalled(suite.T(), "Begin", mock.Anything)
}

// --- ApplyPaidTransition ---

func (suite *ReconciliationServiceTestSuite) TestApplyPaidTransition_UnpaidToPaid() {
	ctx := context.Background()
	exam := *unpaidExam(42, "150.00")
	note := "partial"

	suite.mockRevenueRepo.On("SaveRevenueInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(r domain.Revenue) bool {
		return r.PaymentMethod == "pix" && r.Amount.Equal(decimal.RequireFromString("150.00"))
	})).Return(&domain.Revenue{RevenueID: 801}, nil)
	suite.mockAuditRepo.On("SaveAuditLogInTx", mock.Anything, mock.Anything, mock.MatchedBy(func(entry domain.AuditLog) bool {
		return entry.Action == domain.AuditExamMarkedPaid
	})).Return(nil)

	revenue, err := suite.service.ApplyPaidTransition(ctx, nil, exam, false, true, &suite.pixType, &note, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(revenue)
	suite.Equal(int64(801), revenue.RevenueID)
}

func (suite *ReconciliationServiceTestSuite) TestApplyPaidTransition_NoOpOnOtherTransitions() {
	ctx := context.Background()
	exam := *unpaidExam(42, "150.00")

	for _, transition := range []struct {
		wasPaid bool
		isPaid  bool
	}{
		{true, true},
		{false, false},
		{true, false},
	} {
		revenue, err := suite.service.ApplyPaidTransition(ctx, nil, exam, transition.wasPaid, transition.isPaid, &suite.pixType, nil, suite.actorID)
		suite.Require().NoError(err)
		suite.Nil(revenue)
	}

	suite.mockRevenueRepo.AssertNotCalled(suite.T(), "SaveRevenueInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockAuditRepo.AssertNotCalled(suite.T(), "SaveAuditLogInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReconciliationServiceTestSuite) TestApplyPaidTransition_ZeroValueSkipsRevenue() {
	ctx := context.Background()
	exam := *unpaidExam(42, "150.00")
	exam.Value = decimal.Zero

	suite.mockAuditRepo.On("SaveAuditLogInTx", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	revenue, err := suite.service.ApplyPaidTransition(ctx, nil, exam, false, true, nil, nil, suite.actorID)

	suite.Require().NoError(err)
	suite.Nil(revenue)
	suite.mockRevenueRepo.AssertNotCalled(suite.T(), "SaveRevenueInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.mockAuditRepo.AssertNumberOfCalls(suite.T(), "SaveAuditLogInTx", 1)
}

func TestReconciliationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}
