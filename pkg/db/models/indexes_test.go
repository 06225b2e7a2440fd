package models

import (
	"reflect"
	"strings"
	"testing"
)

// Tenant-scoped uniqueness lives in composite indexes. Every column of a
// composite index must carry the shared index name in its gorm tag, or the
// generated metadata collapses to a single-column unique constraint that
// contradicts the real schema.
func TestCompositeUniqueIndexTags(t *testing.T) {
	cases := []struct {
		name      string
		model     any
		indexName string
		fields    []string
	}{
		{"products tenant+sku", Product{}, "products_tenant_sku", []string{"TenantID", "SKU"}},
		{"users tenant+email", User{}, "users_tenant_email", []string{"TenantID", "Email"}},
		{"settings tenant+key", Setting{}, "settings_tenant_key", []string{"TenantID", "Key"}},
		{"stock product+location", StockItem{}, "stock_product_location", []string{"ProductID", "LocationID"}},
		{"recipe product+ingredient", RecipeComponent{}, "recipe_product_ingredient", []string{"ProductID", "IngredientID"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			typ := reflect.TypeOf(tc.model)
			for _, fieldName := range tc.fields {
				field, ok := typ.FieldByName(fieldName)
				if !ok {
					t.Fatalf("model %s has no field %s", typ.Name(), fieldName)
				}
				tag := field.Tag.Get("gorm")
				if !strings.Contains(tag, "uniqueIndex:"+tc.indexName) {
					t.Errorf("%s.%s gorm tag %q missing uniqueIndex:%s", typ.Name(), fieldName, tag, tc.indexName)
				}
			}
		})
	}
}
