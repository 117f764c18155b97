package handler

import (
	"strings"
	"testing"
)

func TestValidator_ReportsJSONFieldPaths(t *testing.T) {
	v := NewValidator()

	tests := map[string]struct {
		req  any
		want string
	}{
		"missing product id": {
			req:  &createOrderRequest{Items: []orderItemRequest{{ProductID: 0, Quantity: 1}}},
			want: "items[0].product_id is required",
		},
		"second item quantity": {
			req: &createOrderRequest{Items: []orderItemRequest{
				{ProductID: 1, Quantity: 1},
				{ProductID: 2, Quantity: -1},
			}},
			want: "items[1].quantity must be greater than 0",
		},
		"negative price": {
			req:  &createOrderRequest{Items: []orderItemRequest{{ProductID: 1, Quantity: 1, Price: -5}}},
			want: "items[0].price must be at least 0",
		},
		"empty items": {
			req:  &createOrderRequest{Items: []orderItemRequest{}},
			want: "items must have at least 1 element(s)",
		},
		"login password": {
			req:  &loginRequest{Username: "maria@gmail.com"},
			want: "password is required",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := v.Validate(tt.req)
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in %q", tt.want, err.Error())
			}
		})
	}
}

func TestValidator_AcceptsValidOrder(t *testing.T) {
	req := &createOrderRequest{Items: []orderItemRequest{{ProductID: 1, Quantity: 2, Price: 0}}}
	if err := NewValidator().Validate(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
