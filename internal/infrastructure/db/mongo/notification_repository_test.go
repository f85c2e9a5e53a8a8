package mongo

import (
	"errors"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestIndexMissing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"index not found", mongo.CommandError{Code: codeIndexNotFound, Message: "index not found"}, true},
		{"collection not found", mongo.CommandError{Code: codeNamespaceNotFound, Message: "ns not found"}, true},
		{"wrapped", fmt.Errorf("drop: %w", mongo.CommandError{Code: codeIndexNotFound}), true},
		{"other command error", mongo.CommandError{Code: 13, Message: "unauthorized"}, false},
		{"plain error", errors.New("connection reset"), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := indexMissing(tc.err); got != tc.want {
				t.Fatalf("indexMissing(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
