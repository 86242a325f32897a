package server_test

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"io"
	"math/big"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/sbauth/core/config"
	"github.com/dmitrymomot/sbauth/core/server"
)

var serverEnv = []string{
	"SERVER_ADDR",
	"SERVER_READ_HEADER_TIMEOUT",
	"SERVER_READ_TIMEOUT",
	"SERVER_WRITE_TIMEOUT",
	"SERVER_IDLE_TIMEOUT",
	"SERVER_SHUTDOWN_TIMEOUT",
	"SERVER_MAX_HEADER_BYTES",
	"SERVER_TLS_CERT_FILE",
	"SERVER_TLS_KEY_FILE",
}

// clearServerEnv unsets every SERVER_* variable for the duration of the test.
func clearServerEnv(t *testing.T) {
	t.Helper()
	for _, name := range serverEnv {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
	config.Reset()
	t.Cleanup(config.Reset)
}

func TestDefaultConfigMatchesEnvDefaults(t *testing.T) {
	clearServerEnv(t)

	var cfg server.Config
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, server.DefaultConfig(), cfg)
	assert.Equal(t, server.DefaultAddr, cfg.Addr)
	assert.Empty(t, cfg.TLSCertFile)
	assert.Empty(t, cfg.TLSKeyFile)
}

func TestConfigFromEnv(t *testing.T) {
	clearServerEnv(t)
	t.Setenv("SERVER_ADDR", "127.0.0.1:9000")
	t.Setenv("SERVER_WRITE_TIMEOUT", "45s")
	t.Setenv("SERVER_MAX_HEADER_BYTES", "32768")

	var cfg server.Config
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, 45*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 32768, cfg.MaxHeaderBytes)
	assert.Equal(t, server.DefaultReadHeaderTimeout, cfg.ReadHeaderTimeout)
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.pem")
	require.NoError(t, os.WriteFile(garbage, []byte("not a certificate"), 0o600))

	tests := []struct {
		name    string
		cfg     server.Config
		wantErr error
	}{
		{name: "defaults", cfg: server.DefaultConfig()},
		{name: "zero timeouts fall back to defaults", cfg: server.Config{Addr: "127.0.0.1:0"}},
		{name: "missing address", cfg: server.Config{ReadTimeout: time.Second}, wantErr: server.ErrMissingAddress},
		{
			name: "cert without key serves plain http",
			cfg:  server.Config{Addr: "127.0.0.1:0", TLSCertFile: garbage},
		},
		{
			name:    "missing tls files",
			cfg:     server.Config{Addr: "127.0.0.1:0", TLSCertFile: filepath.Join(dir, "cert.pem"), TLSKeyFile: filepath.Join(dir, "key.pem")},
			wantErr: server.ErrFailedLoadCert,
		},
		{
			name:    "invalid tls files",
			cfg:     server.Config{Addr: "127.0.0.1:0", TLSCertFile: garbage, TLSKeyFile: garbage},
			wantErr: server.ErrFailedLoadCert,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv, err := server.NewFromConfig(tt.cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, srv)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, srv)
		})
	}
}

func TestNewFromConfigServesTLS(t *testing.T) {
	t.Parallel()

	certFile, keyFile := writeSelfSignedCert(t)
	srv, err := server.NewFromConfig(server.Config{
		Addr:        "127.0.0.1:0",
		TLSCertFile: certFile,
		TLSKeyFile:  keyFile,
	}, server.WithShutdownTimeout(time.Second))
	require.NoError(t, err)

	addr := serve(t, srv, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, r.Proto)
	}))

	client := &http.Client{
		Timeout:   5 * time.Second,
		Transport: &http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}}, //nolint:gosec // self-signed test certificate
	}
	resp, err := client.Get("https://" + addr + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, resp.TLS)
	assert.GreaterOrEqual(t, resp.TLS.Version, uint16(tls.VersionTLS12))
}

func TestNewFromConfigLimitsHeaderSize(t *testing.T) {
	t.Parallel()

	srv, err := server.NewFromConfig(server.Config{
		Addr:           "127.0.0.1:0",
		MaxHeaderBytes: 1 << 10,
	}, server.WithShutdownTimeout(time.Second))
	require.NoError(t, err)

	addr := serve(t, srv, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "ok")
	}))

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, "http://"+addr+"/", nil)
	require.NoError(t, err)
	req.Header.Set("Cookie", "sb-abc-auth-token="+strings.Repeat("x", 16<<10))

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusRequestHeaderFieldsTooLarge, resp.StatusCode)
}

// serve runs srv until the test ends and returns its bound address.
func serve(t *testing.T, srv *server.Server, handler http.Handler) string {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Run(gctx, handler))
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, g.Wait())
	})

	addrCtx, addrCancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer addrCancel()
	addr, err := srv.Addr(addrCtx)
	require.NoError(t, err)
	return addr
}

func writeSelfSignedCert(t *testing.T) (certFile, keyFile string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "localhost"},
		IPAddresses:  []net.IP{net.ParseIP("127.0.0.1")},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	dir := t.TempDir()
	certFile = filepath.Join(dir, "cert.pem")
	keyFile = filepath.Join(dir, "key.pem")
	require.NoError(t, os.WriteFile(certFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600))
	require.NoError(t, os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}), 0o600))
	return certFile, keyFile
}
