package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"log/slog"

	"github.com/fbr-invoice-engine/internal/domain/audit"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/mongo"
)

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Create(ctx context.Context, entry *audit.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) GetByInvoiceID(ctx context.Context, invoiceID uuid.UUID, limit, offset int) ([]*audit.Entry, error) {
	args := m.Called(ctx, invoiceID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*audit.Entry), args.Error(1)
}

func (m *MockAuditRepository) CountByInvoiceID(ctx context.Context, invoiceID uuid.UUID) (int64, error) {
	args := m.Called(ctx, invoiceID)
	return args.Get(0).(int64), args.Error(1)
}

func TestNewAuditRepository(t *testing.T) {
	db := &mongo.Database{}
	logger := slog.Default()

	repo := NewAuditRepository(logger, db)

	assert.NotNil(t, repo)
	assert.IsType(t, &AuditRepository{}, repo)
}

func TestAuditRepository_Create(t *testing.T) {
	mockRepo := &MockAuditRepository{}

	actorID := uuid.New()
	invoiceID := uuid.New()
	entry := &audit.Entry{
		ID:        uuid.New(),
		ActorID:   actorID,
		InvoiceID: invoiceID,
		Code:      "0019",
		Message:   "Provide HS Code",
		Context:   map[string]any{"raw_response": `{"errorCode":"0019"}`},
		CreatedAt: time.Now(),
	}

	tests := []struct {
		name          string
		setupMocks    func()
		expectedError error
	}{
		{
			name: "successful creation",
			setupMocks: func() {
				mockRepo.On("Create", mock.Anything, entry).Return(nil)
			},
			expectedError: nil,
		},
		{
			name: "database error",
			setupMocks: func() {
				mockRepo.On("Create", mock.Anything, entry).Return(errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo = &MockAuditRepository{}
			tt.setupMocks()

			ctx := context.Background()
			err := mockRepo.Create(ctx, entry)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError.Error())
			} else {
				assert.NoError(t, err)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuditRepository_GetByInvoiceID(t *testing.T) {
	mockRepo := &MockAuditRepository{}

	invoiceID := uuid.New()
	entries := []*audit.Entry{
		{
			ID:        uuid.New(),
			ActorID:   uuid.New(),
			InvoiceID: invoiceID,
			Code:      "REGISTERED",
			Message:   "Invoice registered with FBR",
			CreatedAt: time.Now(),
		},
		{
			ID:        uuid.New(),
			ActorID:   uuid.New(),
			InvoiceID: invoiceID,
			Code:      "0002",
			Message:   "Invalid seller NTN",
			CreatedAt: time.Now().Add(-time.Hour),
		},
	}

	tests := []struct {
		name            string
		setupMocks      func()
		expectedEntries []*audit.Entry
		expectedError   error
	}{
		{
			name: "entries found",
			setupMocks: func() {
				mockRepo.On("GetByInvoiceID", mock.Anything, invoiceID, 10, 0).Return(entries, nil)
			},
			expectedEntries: entries,
			expectedError:   nil,
		},
		{
			name: "no entries",
			setupMocks: func() {
				mockRepo.On("GetByInvoiceID", mock.Anything, invoiceID, 10, 0).Return([]*audit.Entry{}, nil)
			},
			expectedEntries: []*audit.Entry{},
			expectedError:   nil,
		},
		{
			name: "database error",
			setupMocks: func() {
				mockRepo.On("GetByInvoiceID", mock.Anything, invoiceID, 10, 0).Return(nil, errors.New("db error"))
			},
			expectedEntries: nil,
			expectedError:   errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo = &MockAuditRepository{}
			tt.setupMocks()

			ctx := context.Background()
			result, err := mockRepo.GetByInvoiceID(ctx, invoiceID, 10, 0)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError.Error())
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expectedEntries, result)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuditRepository_CountByInvoiceID(t *testing.T) {
	mockRepo := &MockAuditRepository{}

	invoiceID := uuid.New()

	tests := []struct {
		name          string
		setupMocks    func()
		expectedCount int64
		expectedError error
	}{
		{
			name: "count returned",
			setupMocks: func() {
				mockRepo.On("CountByInvoiceID", mock.Anything, invoiceID).Return(int64(7), nil)
			},
			expectedCount: 7,
			expectedError: nil,
		},
		{
			name: "database error",
			setupMocks: func() {
				mockRepo.On("CountByInvoiceID", mock.Anything, invoiceID).Return(int64(0), errors.New("db error"))
			},
			expectedCount: 0,
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo = &MockAuditRepository{}
			tt.setupMocks()

			ctx := context.Background()
			count, err := mockRepo.CountByInvoiceID(ctx, invoiceID)

			if tt.expectedError != nil {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expectedCount, count)

			mockRepo.AssertExpectations(t)
		})
	}
}
