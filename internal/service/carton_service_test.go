package service

import (
	"context"
	"testing"

	"stockroom/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCartonService_Intake_DefaultsUnitsFromProduct(t *testing.T) {
	cartonRepo := &MockCartonRepository{}
	productRepo := &MockProductRepository{}
	svc := NewCartonService(cartonRepo, productRepo, zerolog.Nop())

	productRepo.On("GetByID", mock.Anything, int64(2)).
		Return(&model.Product{ID: 2, UnitsPerCarton: 72}, nil)
	cartonRepo.On("Insert", mock.Anything, mock.MatchedBy(func(c *model.Carton) bool {
		return c.UnitsRemaining == 72 && c.Status == model.CartonStatusReceived
	})).Return(nil)

	carton, err := svc.Intake(context.Background(), &model.CartonRequest{
		ProductID:  2,
		SupplierID: 1,
		UnitCost:   decimal.NewFromFloat(1.25),
	})

	require.NoError(t, err)
	assert.Equal(t, 72, carton.UnitsRemaining)
	assert.Equal(t, model.CartonStatusReceived, carton.Status)
	cartonRepo.AssertExpectations(t)
}

func TestCartonService_Intake_ExplicitUnits(t *testing.T) {
	cartonRepo := &MockCartonRepository{}
	productRepo := &MockProductRepository{}
	svc := NewCartonService(cartonRepo, productRepo, zerolog.Nop())

	productRepo.On("GetByID", mock.Anything, int64(2)).
		Return(&model.Product{ID: 2, UnitsPerCarton: 72}, nil)
	cartonRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)

	carton, err := svc.Intake(context.Background(), &model.CartonRequest{
		ProductID:  2,
		SupplierID: 1,
		Units:      50,
	})

	require.NoError(t, err)
	assert.Equal(t, 50, carton.UnitsRemaining)
}

func TestCartonService_Intake_UnknownProduct(t *testing.T) {
	cartonRepo := &MockCartonRepository{}
	productRepo := &MockProductRepository{}
	svc := NewCartonService(cartonRepo, productRepo, zerolog.Nop())

	productRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, nil)

	carton, err := svc.Intake(context.Background(), &model.CartonRequest{
		ProductID:  99,
		SupplierID: 1,
	})

	require.Error(t, err)
	assert.Nil(t, carton)
	assert.ErrorIs(t, err, model.ErrProductNotFound)
	cartonRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCartonService_Intake_Validation(t *testing.T) {
	svc := NewCartonService(&MockCartonRepository{}, &MockProductRepository{}, zerolog.Nop())
	ctx := context.Background()

	tests := []struct {
		name string
		req  *model.CartonRequest
	}{
		{"nil request", nil},
		{"missing product", &model.CartonRequest{SupplierID: 1}},
		{"missing supplier", &model.CartonRequest{ProductID: 1}},
		{"negative units", &model.CartonRequest{ProductID: 1, SupplierID: 1, Units: -1}},
		{"negative unit cost", &model.CartonRequest{ProductID: 1, SupplierID: 1, UnitCost: decimal.NewFromInt(-1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Intake(ctx, tt.req)
			require.Error(t, err)

			var validationErr *model.ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestCartonService_Open(t *testing.T) {
	cartonRepo := &MockCartonRepository{}
	svc := NewCartonService(cartonRepo, &MockProductRepository{}, zerolog.Nop())

	cartonRepo.On("GetByID", mock.Anything, int64(4)).
		Return(&model.Carton{ID: 4, Status: model.CartonStatusReceived}, nil)
	cartonRepo.On("SetOpen", mock.Anything, int64(4), true).Return(nil)

	carton, err := svc.Open(context.Background(), 4)
	require.NoError(t, err)
	assert.True(t, carton.IsOpen)
}

func TestCartonService_Open_RejectsBooked(t *testing.T) {
	cartonRepo := &MockCartonRepository{}
	svc := NewCartonService(cartonRepo, &MockProductRepository{}, zerolog.Nop())

	cartonRepo.On("GetByID", mock.Anything, int64(4)).
		Return(&model.Carton{ID: 4, Status: model.CartonStatusBooked}, nil)

	_, err := svc.Open(context.Background(), 4)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
	cartonRepo.AssertNotCalled(t, "SetOpen", mock.Anything, mock.Anything, mock.Anything)
}

func TestCartonService_SetStatus_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		current model.CartonStatus
		target  model.CartonStatus
		wantErr bool
	}{
		{"booked to shipped", model.CartonStatusBooked, model.CartonStatusShipped, false},
		{"shipped to delivered", model.CartonStatusShipped, model.CartonStatusDelivered, false},
		{"received to shipped", model.CartonStatusReceived, model.CartonStatusShipped, true},
		{"received to booked direct", model.CartonStatusReceived, model.CartonStatusBooked, true},
		{"delivered is terminal", model.CartonStatusDelivered, model.CartonStatusShipped, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cartonRepo := &MockCartonRepository{}
			svc := NewCartonService(cartonRepo, &MockProductRepository{}, zerolog.Nop())

			cartonRepo.On("GetByID", mock.Anything, int64(1)).
				Return(&model.Carton{ID: 1, Status: tt.current}, nil)
			cartonRepo.On("SetStatus", mock.Anything, int64(1), tt.target).Return(nil)

			carton, err := svc.SetStatus(context.Background(), 1, tt.target)
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrInvalidTransition)
				cartonRepo.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.target, carton.Status)
		})
	}
}

func TestCartonService_SetStatus_UnknownStatus(t *testing.T) {
	svc := NewCartonService(&MockCartonRepository{}, &MockProductRepository{}, zerolog.Nop())

	_, err := svc.SetStatus(context.Background(), 1, model.CartonStatus("misplaced"))
	require.Error(t, err)

	var validationErr *model.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestCartonService_Delete_RejectsBooked(t *testing.T) {
	cartonRepo := &MockCartonRepository{}
	svc := NewCartonService(cartonRepo, &MockProductRepository{}, zerolog.Nop())

	cartonRepo.On("GetByID", mock.Anything, int64(6)).
		Return(&model.Carton{ID: 6, Status: model.CartonStatusBooked}, nil)

	err := svc.Delete(context.Background(), 6)
	assert.ErrorIs(t, err, model.ErrInvalidTransition)
	cartonRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCartonService_Delete(t *testing.T) {
	cartonRepo := &MockCartonRepository{}
	svc := NewCartonService(cartonRepo, &MockProductRepository{}, zerolog.Nop())

	cartonRepo.On("GetByID", mock.Anything, int64(6)).
		Return(&model.Carton{ID: 6, Status: model.CartonStatusReceived}, nil)
	cartonRepo.On("Delete", mock.Anything, int64(6)).Return(nil)

	err := svc.Delete(context.Background(), 6)
	require.NoError(t, err)
	cartonRepo.AssertExpectations(t)
}
