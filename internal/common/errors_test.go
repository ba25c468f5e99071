package common

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindInvalidOrExpired, http.StatusBadRequest},
		{KindInvalidTransition, http.StatusBadRequest},
		{KindInvalidCredentials, http.StatusUnauthorized},
		{KindUnauthenticated, http.StatusUnauthorized},
		{KindForbidden, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.kind, "msg").Status())
		})
	}
}

func TestErrorMessage(t *testing.T) {
	err := New(KindNotFound, "order not found")
	assert.Equal(t, "order not found", err.Error())
}
