package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTLSConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *TLSConfig
		wantErr string
	}{
		{name: "nil", cfg: nil},
		{name: "disabled", cfg: &TLSConfig{}},
		{name: "complete", cfg: &TLSConfig{Enabled: true, CertFile: "c", KeyFile: "k", CAFile: "ca"}},
		{name: "missing cert", cfg: &TLSConfig{Enabled: true, KeyFile: "k", CAFile: "ca"}, wantErr: "cert file"},
		{name: "missing key", cfg: &TLSConfig{Enabled: true, CertFile: "c", CAFile: "ca"}, wantErr: "key file"},
		{name: "missing ca", cfg: &TLSConfig{Enabled: true, CertFile: "c", KeyFile: "k"}, wantErr: "CA file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTLSConfigClientConfig(t *testing.T) {
	var nilCfg *TLSConfig
	cfg, err := nilCfg.ClientConfig()
	require.NoError(t, err)
	assert.Nil(t, cfg)

	cfg, err = (&TLSConfig{CertFile: "ignored"}).ClientConfig()
	require.NoError(t, err)
	assert.Nil(t, cfg)

	_, err = (&TLSConfig{Enabled: true, CertFile: "c"}).ClientConfig()
	assert.ErrorContains(t, err, "key file")

	missing := &TLSConfig{Enabled: true, CertFile: "/nonexistent/c.pem", KeyFile: "/nonexistent/k.pem", CAFile: "/nonexistent/ca.pem"}
	_, err = missing.ClientConfig()
	assert.ErrorContains(t, err, "failed to load client certificate")
}
