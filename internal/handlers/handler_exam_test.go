package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/cliniclabs/clinic_billing_app/internal/apperrors"
	"github.com/cliniclabs/clinic_billing_app/internal/core/domain"
	portssvc "github.com/cliniclabs/clinic_billing_app/internal/core/ports/services"
	"github.com/cliniclabs/clinic_billing_app/internal/core/services"
	"github.com/cliniclabs/clinic_billing_app/internal/dto"
	"github.com/cliniclabs/clinic_billing_app/internal/handlers"
	"github.com/cliniclabs/clinic_billing_app/internal/middleware"
)

// --- Mock ReconciliationService ---
type MockReconciliationService struct {
	mock.Mock
}

var _ portssvc.ReconciliationSvcFacade = (*MockReconciliationService)(nil)

func (m *MockReconciliationService) GetExamByID(ctx context.Context, examID int64) (*dto.ExamResponse, error) {
	args := m.Called(ctx, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ExamResponse), args.Error(1)
}

func (m *MockReconciliationService) ListExams(ctx context.Context, params dto.ListExamsParams) (*dto.ListExamsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListExamsResponse), args.Error(1)
}

func (m *MockReconciliationService) ListAuditLogsByExam(ctx context.Context, examID int64) ([]domain.AuditLog, error) {
	args := m.Called(ctx, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditLog), args.Error(1)
}

func (m *MockReconciliationService) CreateExamWithPayment(ctx context.Context, req dto.CreateExamRequest, actorID string) (*dto.ExamResponse, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ExamResponse), args.Error(1)
}

func (m *MockReconciliationService) MarkExamPaid(ctx context.Context, examID int64, req dto.MarkExamPaidRequest, actorID string) (*dto.ExamResponse, error) {
	args := m.Called(ctx, examID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ExamResponse), args.Error(1)
}

func (m *MockReconciliationService) UnmarkExamPaid(ctx context.Context, examID int64, actorID string) (*dto.ExamResponse, error) {
	args := m.Called(ctx, examID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ExamResponse), args.Error(1)
}

func (m *MockReconciliationService) MarkExamsPaidBulk(ctx context.Context, req dto.BulkMarkPaidRequest, actorID string) ([]dto.ExamResponse, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.ExamResponse), args.Error(1)
}

func (m *MockReconciliationService) ApplyPaidTransition(ctx context.Context, tx pgx.Tx, exam domain.Exam, wasPaid, isPaid bool, paymentType *domain.PaymentType, paymentNote *string, actorID string) (*domain.Revenue, error) {
	args := m.Called(ctx, tx, exam, wasPaid, isPaid, paymentType, paymentNote, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Revenue), args.Error(1)
}

// --- Mock RevenueService ---
type MockRevenueService struct {
	mock.Mock
}

var _ portssvc.RevenueSvcFacade = (*MockRevenueService)(nil)

func (m *MockRevenueService) ListRevenues(ctx context.Context, params dto.ListRevenuesParams) (*dto.ListRevenuesResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListRevenuesResponse), args.Error(1)
}

func (m *MockRevenueService) ListRevenuesByExam(ctx context.Context, examID int64) ([]dto.RevenueResponse, error) {
	args := m.Called(ctx, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.RevenueResponse), args.Error(1)
}

// --- Test Suite ---
type ExamHandlerTestSuite struct {
	suite.Suite
	router                    *gin.Engine
	mockReconciliationService *MockReconciliationService
	mockRevenueService        *MockRevenueService
	jwtSecret                 string
	userID                    string
}

// generateTestToken creates a dummy JWT for testing.
func (suite *ExamHandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "clinic-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tsignedString, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return tsignedString
}

func (suite *ExamHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.userID = uuid.NewString()

	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockReconciliationService = new(MockReconciliationService)
	suite.mockRevenueService = new(MockRevenueService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterExamRoutes(v1, suite.mockReconciliationService, suite.mockRevenueService)
}

func (suite *ExamHandlerTestSuite) doRequest(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.userID))
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *ExamHandlerTestSuite) TestMarkExamPaid_Success() {
	paymentTypeName := "pix"
	revenueID := int64(501)
	resp := &dto.ExamResponse{
		ExamID:          42,
		Paid:            true,
		Value:           decimal.RequireFromString("150.00"),
		PaymentTypeName: &paymentTypeName,
		RevenueID:       &revenueID,
	}
	suite.mockReconciliationService.On("MarkExamPaid", mock.Anything, int64(42), mock.Anything, suite.userID).Return(resp, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/exams/42/payment", dto.MarkExamPaidRequest{})

	suite.Equal(http.StatusOK, w.Code)
	var got dto.ExamResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.True(got.Paid)
	suite.Require().NotNil(got.PaymentTypeName)
	suite.Equal("pix", *got.PaymentTypeName)
	suite.mockReconciliationService.AssertExpectations(suite.T())
}

func (suite *ExamHandlerTestSuite) TestMarkExamPaid_AlreadyPaidConflict() {
	suite.mockReconciliationService.On("MarkExamPaid", mock.Anything, int64(42), mock.Anything, suite.userID).
		Return(nil, fmt.Errorf("%w: exam 42", services.ErrAlreadyPaid)).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/exams/42/payment", dto.MarkExamPaidRequest{})

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *ExamHandlerTestSuite) TestMarkExamPaid_NotFound() {
	suite.mockReconciliationService.On("MarkExamPaid", mock.Anything, int64(99), mock.Anything, suite.userID).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/exams/99/payment", dto.MarkExamPaidRequest{})

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *ExamHandlerTestSuite) TestMarkExamPaid_InvalidPaymentType() {
	suite.mockReconciliationService.On("MarkExamPaid", mock.Anything, int64(42), mock.Anything, suite.userID).
		Return(nil, fmt.Errorf("%w: id 7 is inactive", services.ErrInvalidPaymentType)).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/exams/42/payment", dto.MarkExamPaidRequest{})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *ExamHandlerTestSuite) TestMarkExamPaid_InvalidExamID() {
	w := suite.doRequest(http.MethodPost, "/api/v1/exams/not-a-number/payment", dto.MarkExamPaidRequest{})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockReconciliationService.AssertNotCalled(suite.T(), "MarkExamPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExamHandlerTestSuite) TestMarkExamPaid_Unauthorized() {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/exams/42/payment", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *ExamHandlerTestSuite) TestUnmarkExamPaid_NotPaidConflict() {
	suite.mockReconciliationService.On("UnmarkExamPaid", mock.Anything, int64(42), suite.userID).
		Return(nil, fmt.Errorf("%w: exam 42", services.ErrNotPaid)).Once()

	w := suite.doRequest(http.MethodDelete, "/api/v1/exams/42/payment", nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *ExamHandlerTestSuite) TestMarkExamsPaidBulk_Success() {
	req := dto.BulkMarkPaidRequest{Exams: []dto.BulkMarkPaidEntry{
		{ExamID: 1, Paid: true},
		{ExamID: 2, Paid: true},
	}}
	suite.mockReconciliationService.On("MarkExamsPaidBulk", mock.Anything, req, suite.userID).
		Return([]dto.ExamResponse{{ExamID: 1, Paid: true}, {ExamID: 2, Paid: true}}, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/exams/payments/bulk", req)

	suite.Equal(http.StatusOK, w.Code)
	var got []dto.ExamResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Len(got, 2)
}

func (suite *ExamHandlerTestSuite) TestMarkExamsPaidBulk_EmptyBatchRejected() {
	w := suite.doRequest(http.MethodPost, "/api/v1/exams/payments/bulk", dto.BulkMarkPaidRequest{})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockReconciliationService.AssertNotCalled(suite.T(), "MarkExamsPaidBulk", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExamHandlerTestSuite) TestCreateExam_Created() {
	req := dto.CreateExamRequest{
		PatientName: "Maria Souza",
		ExamType:    "Blood Panel",
		ExamDate:    time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		Value:       decimal.RequireFromString("150.00"),
	}
	suite.mockReconciliationService.On("CreateExamWithPayment", mock.Anything, mock.Anything, suite.userID).
		Return(&dto.ExamResponse{ExamID: 42, Paid: false}, nil).Once()

	w := suite.doRequest(http.MethodPost, "/api/v1/exams", req)

	suite.Equal(http.StatusCreated, w.Code)
}

func (suite *ExamHandlerTestSuite) TestGetExam_NotFound() {
	suite.mockReconciliationService.On("GetExamByID", mock.Anything, int64(99)).
		Return(nil, apperrors.ErrNotFound).Once()

	w := suite.doRequest(http.MethodGet, "/api/v1/exams/99", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func TestExamHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ExamHandlerTestSuite))
}
