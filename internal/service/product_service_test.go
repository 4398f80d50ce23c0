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

func validProductRequest() *model.ProductRequest {
	return &model.ProductRequest{
		SKU:              "OIL-500",
		Name:             "Olive Oil 500ml",
		UnitCostPrice:    decimal.NewFromFloat(2.10),
		UnitSellingPrice: decimal.NewFromFloat(3.50),
		UnitsPerCarton:   24,
	}
}

func TestProductService_Create(t *testing.T) {
	productRepo := &MockProductRepository{}
	svc := NewProductService(productRepo, zerolog.Nop())

	productRepo.On("Insert", mock.Anything, mock.Anything).Return(nil)

	product, err := svc.Create(context.Background(), validProductRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(1), product.ID)
	assert.Equal(t, "OIL-500", product.SKU)
	assert.False(t, product.CreatedAt.IsZero())
}

func TestProductService_Create_Validation(t *testing.T) {
	svc := NewProductService(&MockProductRepository{}, zerolog.Nop())
	ctx := context.Background()

	mutate := func(f func(*model.ProductRequest)) *model.ProductRequest {
		req := validProductRequest()
		f(req)
		return req
	}

	tests := []struct {
		name string
		req  *model.ProductRequest
	}{
		{"nil request", nil},
		{"missing sku", mutate(func(r *model.ProductRequest) { r.SKU = " " })},
		{"missing name", mutate(func(r *model.ProductRequest) { r.Name = "" })},
		{"negative price", mutate(func(r *model.ProductRequest) { r.UnitSellingPrice = decimal.NewFromInt(-1) })},
		{"zero units per carton", mutate(func(r *model.ProductRequest) { r.UnitsPerCarton = 0 })},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product, err := svc.Create(ctx, tt.req)
			require.Error(t, err)
			assert.Nil(t, product)

			var validationErr *model.ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestProductService_Update(t *testing.T) {
	productRepo := &MockProductRepository{}
	svc := NewProductService(productRepo, zerolog.Nop())

	productRepo.On("GetByID", mock.Anything, int64(3)).
		Return(&model.Product{ID: 3, SKU: "OIL-500", Name: "Old Name"}, nil)
	productRepo.On("Update", mock.Anything, mock.MatchedBy(func(p *model.Product) bool {
		return p.ID == 3 && p.Name == "Olive Oil 500ml"
	})).Return(nil)

	product, err := svc.Update(context.Background(), 3, validProductRequest())
	require.NoError(t, err)
	assert.Equal(t, "Olive Oil 500ml", product.Name)
	productRepo.AssertExpectations(t)
}

func TestProductService_Update_NotFound(t *testing.T) {
	productRepo := &MockProductRepository{}
	svc := NewProductService(productRepo, zerolog.Nop())

	productRepo.On("GetByID", mock.Anything, int64(404)).Return(nil, nil)

	product, err := svc.Update(context.Background(), 404, validProductRequest())
	require.Error(t, err)
	assert.Nil(t, product)
	assert.ErrorIs(t, err, model.ErrProductNotFound)
}

func TestProductService_Delete(t *testing.T) {
	productRepo := &MockProductRepository{}
	svc := NewProductService(productRepo, zerolog.Nop())

	productRepo.On("Delete", mock.Anything, int64(3)).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), 3))
	productRepo.AssertExpectations(t)
}
