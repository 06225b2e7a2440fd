package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/calderapos/caldera-backend/api/middleware"
	"github.com/calderapos/caldera-backend/internal/products"
	pkgerrors "github.com/calderapos/caldera-backend/pkg/errors"
)

type stubProductService struct {
	dto     *products.ProductDTO
	list    *products.ListResult
	err     error
	lastReq any
}

func (s *stubProductService) Create(ctx context.Context, tenantID uuid.UUID, input products.CreateProductInput) (*products.ProductDTO, error) {
	s.lastReq = input
	return s.dto, s.err
}

func (s *stubProductService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*products.ProductDTO, error) {
	return s.dto, s.err
}

func (s *stubProductService) Update(ctx context.Context, tenantID, id uuid.UUID, input products.UpdateProductInput) (*products.ProductDTO, error) {
	s.lastReq = input
	return s.dto, s.err
}

func (s *stubProductService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.err
}

func (s *stubProductService) List(ctx context.Context, input products.ListInput) (*products.ListResult, error) {
	s.lastReq = input
	return s.list, s.err
}

func withTenantContext(req *http.Request) *http.Request {
	return req.WithContext(middleware.WithTenant(req.Context(), uuid.NewString(), "demo-cafe"))
}

func TestProductCreateSuccess(t *testing.T) {
	dto := &products.ProductDTO{ID: uuid.New(), SKU: "LAT-01", Name: "Latte", PriceCents: 500}
	svc := &stubProductService{dto: dto}
	handler := ProductCreate(svc, nil)

	body := bytes.NewBufferString(`{"sku":"LAT-01","name":"Latte","category":"drinks","price_cents":500}`)
	req := withTenantContext(httptest.NewRequest(http.MethodPost, "/products/", body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data products.ProductDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != dto.ID {
		t.Fatalf("expected id %s, got %s", dto.ID, envelope.Data.ID)
	}

	input, ok := svc.lastReq.(products.CreateProductInput)
	if !ok || input.SKU != "LAT-01" || input.PriceCents != 500 {
		t.Fatalf("unexpected input %+v", svc.lastReq)
	}
}

func TestProductCreateValidation(t *testing.T) {
	handler := ProductCreate(&stubProductService{}, nil)

	body := bytes.NewBufferString(`{"name":"Latte","category":"drinks","price_cents":500}`)
	req := withTenantContext(httptest.NewRequest(http.MethodPost, "/products/", body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing sku, got %d", rec.Code)
	}
}

func TestProductCreateRequiresTenant(t *testing.T) {
	handler := ProductCreate(&stubProductService{}, nil)

	body := bytes.NewBufferString(`{"sku":"LAT-01","name":"Latte","category":"drinks","price_cents":500}`)
	req := httptest.NewRequest(http.MethodPost, "/products/", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without tenant context, got %d", rec.Code)
	}
}

func TestProductGetRejectsBadID(t *testing.T) {
	handler := ProductGet(&stubProductService{}, nil)

	req := withTenantContext(httptest.NewRequest(http.MethodGet, "/products/not-a-uuid/", nil))
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("productID", "not-a-uuid")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", rec.Code)
	}
}

func TestProductGetNotFound(t *testing.T) {
	svc := &stubProductService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	handler := ProductGet(svc, nil)

	req := withTenantContext(httptest.NewRequest(http.MethodGet, "/products/"+uuid.NewString()+"/", nil))
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("productID", uuid.NewString())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestProductListParsesFilters(t *testing.T) {
	svc := &stubProductService{list: &products.ListResult{Products: []products.ProductDTO{}}}
	handler := ProductList(svc, nil)

	req := withTenantContext(httptest.NewRequest(http.MethodGet, "/products/?q=latte&category=drinks&active=true&limit=10", nil))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	input, ok := svc.lastReq.(products.ListInput)
	if !ok {
		t.Fatalf("expected list input, got %T", svc.lastReq)
	}
	if input.Filters.Query != "latte" || input.Filters.Category != "drinks" {
		t.Fatalf("unexpected filters %+v", input.Filters)
	}
	if input.Filters.IsActive == nil || !*input.Filters.IsActive {
		t.Fatalf("expected active filter true")
	}
	if input.Pagination.Limit != 10 {
		t.Fatalf("expected limit 10, got %d", input.Pagination.Limit)
	}
}

func TestProductListRejectsBadActiveFilter(t *testing.T) {
	handler := ProductList(&stubProductService{}, nil)

	req := withTenantContext(httptest.NewRequest(http.MethodGet, "/products/?active=maybe", nil))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad active filter, got %d", rec.Code)
	}
}

func TestProductCreateNilService(t *testing.T) {
	handler := ProductCreate(nil, nil)

	req := withTenantContext(httptest.NewRequest(http.MethodPost, "/products/", bytes.NewBufferString(`{}`)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for nil service, got %d", rec.Code)
	}
}
