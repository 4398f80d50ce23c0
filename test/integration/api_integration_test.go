package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"stockroom/internal/handler"
	"stockroom/internal/invoice"
	"stockroom/internal/model"
	"stockroom/internal/repository"
	"stockroom/internal/router"
	"stockroom/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-api-key"

func setupTestServer(t *testing.T, testDB *TestDB) http.Handler {
	t.Helper()

	logger := zerolog.Nop()

	productRepo := repository.NewProductRepository(testDB.Pool, logger)
	supplierRepo := repository.NewSupplierRepository(testDB.Pool, logger)
	cartonRepo := repository.NewCartonRepository(testDB.Pool, logger)
	orderRepo := repository.NewOrderRepository(testDB.Pool, logger)
	analyticsRepo := repository.NewAnalyticsRepository(testDB.Pool, logger)

	invoiceStore, err := invoice.NewFileStore(t.TempDir(), logger)
	require.NoError(t, err)

	productService := service.NewProductService(productRepo, logger)
	supplierService := service.NewSupplierService(supplierRepo, logger)
	cartonService := service.NewCartonService(cartonRepo, productRepo, logger)
	orderService := service.NewOrderService(orderRepo, cartonRepo, productRepo, invoiceStore, "invoices/", logger)
	analyticsService := service.NewAnalyticsService(analyticsRepo, logger)

	return router.New(
		handler.NewProductHandler(productService, logger),
		handler.NewSupplierHandler(supplierService, logger),
		handler.NewCartonHandler(cartonService, logger),
		handler.NewOrderHandler(orderService, logger),
		handler.NewAnalyticsHandler(analyticsService, logger),
		testAPIKey,
		logger,
	)
}

func doJSON(t *testing.T, server http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("X-API-Key", testAPIKey)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	server.ServeHTTP(w, req)
	return w
}

func TestOrderAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	supplierID := seedSupplier(t, testDB.Pool, "Northside Wholesale")
	productID := seedProduct(t, testDB.Pool, "OIL-500", decimal.NewFromInt(5), 72)

	t.Run("requires API key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("auto allocation picks largest cartons first", func(t *testing.T) {
		small := seedCarton(t, testDB.Pool, productID, supplierID, 50, model.CartonStatusReceived, false)
		big1 := seedCarton(t, testDB.Pool, productID, supplierID, 72, model.CartonStatusReceived, false)
		big2 := seedCarton(t, testDB.Pool, productID, supplierID, 72, model.CartonStatusReceived, false)
		big3 := seedCarton(t, testDB.Pool, productID, supplierID, 72, model.CartonStatusReceived, false)

		w := doJSON(t, server, http.MethodPost, "/api/orders", &model.OrderRequest{
			CustomerName: "Acme Retail",
			Items: []model.OrderItemRequest{
				{Mode: model.ItemModeAuto, ProductID: productID, Quantity: 216},
			},
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp model.OrderResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		require.Len(t, resp.Order.Items, 3)

		var picked []int64
		for _, item := range resp.Order.Items {
			picked = append(picked, item.CartonID)
		}
		assert.ElementsMatch(t, []int64{big1, big2, big3}, picked)

		for _, id := range []int64{big1, big2, big3} {
			status, _ := cartonState(t, testDB.Pool, id)
			assert.Equal(t, model.CartonStatusBooked, status)
		}
		status, units := cartonState(t, testDB.Pool, small)
		assert.Equal(t, model.CartonStatusReceived, status)
		assert.Equal(t, 50, units)

		// Cleanup for the following subtests.
		w = doJSON(t, server, http.MethodDelete, fmt.Sprintf("/api/orders/%d", resp.Order.ID), nil)
		require.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("create then delete restores carton state", func(t *testing.T) {
		closed := seedCarton(t, testDB.Pool, productID, supplierID, 72, model.CartonStatusReceived, false)
		open := seedCarton(t, testDB.Pool, productID, supplierID, 40, model.CartonStatusReceived, true)

		w := doJSON(t, server, http.MethodPost, "/api/orders", &model.OrderRequest{
			CustomerName: "Corner Shop",
			Items: []model.OrderItemRequest{
				{Mode: model.ItemModeCarton, ProductID: productID, CartonID: closed},
				{Mode: model.ItemModeLoose, ProductID: productID, CartonID: open, Quantity: 12},
			},
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp model.OrderResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

		status, _ := cartonState(t, testDB.Pool, closed)
		assert.Equal(t, model.CartonStatusBooked, status)
		_, units := cartonState(t, testDB.Pool, open)
		assert.Equal(t, 28, units)

		w = doJSON(t, server, http.MethodDelete, fmt.Sprintf("/api/orders/%d", resp.Order.ID), nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		status, units = cartonState(t, testDB.Pool, closed)
		assert.Equal(t, model.CartonStatusReceived, status)
		assert.Equal(t, 72, units)
		_, units = cartonState(t, testDB.Pool, open)
		assert.Equal(t, 40, units)
	})

	t.Run("edit swaps cartons and reconciles stock", func(t *testing.T) {
		first := seedCarton(t, testDB.Pool, productID, supplierID, 72, model.CartonStatusReceived, false)
		second := seedCarton(t, testDB.Pool, productID, supplierID, 72, model.CartonStatusReceived, false)

		w := doJSON(t, server, http.MethodPost, "/api/orders", &model.OrderRequest{
			CustomerName: "Acme Retail",
			Items: []model.OrderItemRequest{
				{Mode: model.ItemModeCarton, ProductID: productID, CartonID: first},
			},
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var resp model.OrderResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

		w = doJSON(t, server, http.MethodPut, fmt.Sprintf("/api/orders/%d", resp.Order.ID), &model.OrderRequest{
			CustomerName: "Acme Retail",
			Items: []model.OrderItemRequest{
				{Mode: model.ItemModeCarton, ProductID: productID, CartonID: second},
			},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		status, _ := cartonState(t, testDB.Pool, first)
		assert.Equal(t, model.CartonStatusReceived, status)
		status, _ = cartonState(t, testDB.Pool, second)
		assert.Equal(t, model.CartonStatusBooked, status)
	})

	t.Run("insufficient stock is rejected without side effects", func(t *testing.T) {
		lone := seedCarton(t, testDB.Pool, productID, supplierID, 30, model.CartonStatusReceived, false)

		w := doJSON(t, server, http.MethodPost, "/api/orders", &model.OrderRequest{
			CustomerName: "Acme Retail",
			Items: []model.OrderItemRequest{
				{Mode: model.ItemModeAuto, ProductID: productID, Quantity: 100000},
			},
		})
		assert.Equal(t, http.StatusConflict, w.Code)

		status, units := cartonState(t, testDB.Pool, lone)
		assert.Equal(t, model.CartonStatusReceived, status)
		assert.Equal(t, 30, units)
	})
}

func TestCartonAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	supplierID := seedSupplier(t, testDB.Pool, "Northside Wholesale")
	productID := seedProduct(t, testDB.Pool, "RICE-1K", decimal.NewFromInt(3), 24)

	t.Run("intake defaults units from the product", func(t *testing.T) {
		w := doJSON(t, server, http.MethodPost, "/api/cartons", &model.CartonRequest{
			ProductID:  productID,
			SupplierID: supplierID,
			UnitCost:   decimal.NewFromFloat(1.10),
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var carton model.Carton
		require.NoError(t, json.NewDecoder(w.Body).Decode(&carton))
		assert.Equal(t, 24, carton.UnitsRemaining)
		assert.Equal(t, model.CartonStatusReceived, carton.Status)
	})

	t.Run("open then sell loose units", func(t *testing.T) {
		id := seedCarton(t, testDB.Pool, productID, supplierID, 24, model.CartonStatusReceived, false)

		w := doJSON(t, server, http.MethodPost, fmt.Sprintf("/api/cartons/%d/open", id), nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = doJSON(t, server, http.MethodPost, "/api/orders", &model.OrderRequest{
			CustomerName: "Corner Shop",
			Items: []model.OrderItemRequest{
				{Mode: model.ItemModeLoose, ProductID: productID, CartonID: id, Quantity: 5},
			},
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		_, units := cartonState(t, testDB.Pool, id)
		assert.Equal(t, 19, units)
	})

	t.Run("loose sale from an unopened carton is rejected", func(t *testing.T) {
		id := seedCarton(t, testDB.Pool, productID, supplierID, 24, model.CartonStatusReceived, false)

		w := doJSON(t, server, http.MethodPost, "/api/orders", &model.OrderRequest{
			CustomerName: "Corner Shop",
			Items: []model.OrderItemRequest{
				{Mode: model.ItemModeLoose, ProductID: productID, CartonID: id, Quantity: 5},
			},
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestAnalyticsAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server := setupTestServer(t, testDB)

	supplierID := seedSupplier(t, testDB.Pool, "Northside Wholesale")
	productID := seedProduct(t, testDB.Pool, "OIL-500", decimal.NewFromInt(5), 72)
	seedCarton(t, testDB.Pool, productID, supplierID, 72, model.CartonStatusReceived, false)

	w := doJSON(t, server, http.MethodPost, "/api/orders", &model.OrderRequest{
		CustomerName: "Acme Retail",
		Items: []model.OrderItemRequest{
			{Mode: model.ItemModeAuto, ProductID: productID, Quantity: 72},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, server, http.MethodGet, "/api/analytics/sales", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var summary model.SalesSummary
	require.NoError(t, json.NewDecoder(w.Body).Decode(&summary))
	assert.Equal(t, 1, summary.OrderCount)
	assert.Equal(t, 72, summary.UnitsSold)
	assert.True(t, summary.Revenue.Equal(decimal.NewFromInt(360)))
}
