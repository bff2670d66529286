package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOTPValidator(t *testing.T) {
	v := NewOTPValidator("123456")

	tests := []struct {
		name      string
		submitted string
		want      bool
	}{
		{name: "correct code", submitted: "123456", want: true},
		{name: "wrong code", submitted: "654321", want: false},
		{name: "empty", submitted: "", want: false},
		{name: "prefix only", submitted: "123", want: false},
		{name: "longer", submitted: "1234567", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Validate(tt.submitted))
		})
	}
}
