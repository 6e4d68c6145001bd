package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("missing commander returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{Catalog: testCatalog()})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingCommander)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		ports, _ := testPorts()
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})

	t.Run("finder is optional", func(t *testing.T) {
		ports, _ := testPorts()
		ports.Finder = nil
		server, err := NewServer(ports)
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name  string
		ports *Ports
		want  error
	}{
		{"empty", &Ports{}, ErrMissingCommander},
		{"missing catalog", &Ports{Commander: &mockCommander{}}, ErrMissingCatalog},
		{"commander and catalog", &Ports{Commander: &mockCommander{}, Catalog: testCatalog()}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
